package httpapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/geo"
	"github.com/i474232898/harvest-advisor/internal/render"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

var validate = validator.New()

// WeatherService is the part of weather.Service the API needs.
type WeatherService interface {
	FetchCached(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error)
	Stats() []weather.ProviderStats
}

// Assessor produces advisories.
type Assessor interface {
	Assess(ctx context.Context, req advisory.Request) (advisory.Advisory, error)
}

// Deps are the collaborators the handlers use. Resolver may be nil, in which
// case only coordinate lookups are accepted.
type Deps struct {
	Weather  WeatherService
	Catalog  *cannabis.Catalog
	Engine   Assessor
	Renderer *render.Renderer
	Resolver geo.Resolver
	Logger   *slog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &handlers{Deps: d}

	app.Get("/health", h.health)

	v1 := app.Group("/api/v1")
	v1.Get("/varieties", h.listVarieties)
	v1.Get("/varieties/:id", h.getVariety)
	v1.Get("/weather", h.getWeather)
	v1.Post("/advisory", h.createAdvisory)
}

type handlers struct {
	Deps
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "harvest-advisor",
		"providers": h.Weather.Stats(),
	})
}

func (h *handlers) listVarieties(c *fiber.Ctx) error {
	pref, err := cannabis.ParseHarvestPreference(c.Query("preference"))
	if err != nil {
		return common.NewAppError(common.ErrCodeValidationInput, "invalid preference", err)
	}

	var filter cannabis.VarietyType
	if raw := c.Query("type"); raw != "" {
		if filter, err = cannabis.ParseVarietyType(raw); err != nil {
			return common.NewAppError(common.ErrCodeValidationInput, "invalid variety type", err)
		}
	}

	out := []varietyResponse{}
	for _, v := range h.Catalog.All() {
		if filter != "" && v.Type != filter {
			continue
		}
		out = append(out, newVarietyResponse(v, pref))
	}
	return c.JSON(out)
}

func (h *handlers) getVariety(c *fiber.Ctx) error {
	pref, err := cannabis.ParseHarvestPreference(c.Query("preference"))
	if err != nil {
		return common.NewAppError(common.ErrCodeValidationInput, "invalid preference", err)
	}
	v, err := h.Catalog.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newVarietyResponse(v, pref))
}

func (h *handlers) getWeather(c *fiber.Ctx) error {
	in, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	loc, err := h.resolve(c.UserContext(), in)
	if err != nil {
		return err
	}
	snap, err := h.Weather.FetchCached(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (h *handlers) createAdvisory(c *fiber.Ctx) error {
	var body advisoryRequest
	if err := c.BodyParser(&body); err != nil {
		return common.NewAppError(common.ErrCodeValidationInput, "invalid request body", err)
	}
	if err := validate.Struct(body); err != nil {
		return common.NewAppError(common.ErrCodeValidationInput, "invalid request body", err)
	}

	req := advisory.Request{
		Preferences: body.Preferences,
		General:     body.General,
		Microscopic: body.Microscopic,
	}
	if req.Preferences.HarvestPreference == "" {
		req.Preferences.HarvestPreference = cannabis.Balanced
	}
	if body.VarietyID != "" {
		v, err := h.Catalog.Get(body.VarietyID)
		if err != nil {
			return err
		}
		req.Variety = &v
	}
	if body.Location != nil {
		loc, err := h.resolve(c.UserContext(), *body.Location)
		if err != nil {
			return err
		}
		req.Location = &loc
	}

	adv, err := h.Engine.Assess(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.Logger.Info("advisory created", "advisory_id", adv.ID, "stage", adv.Stage, "assessed", adv.Assessment != nil)

	tag := h.Renderer.Match(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
	resp := advisoryResponse{
		Advisory: adv,
		Language: tag.String(),
		Text:     renderedText{Guidance: h.Renderer.Preference(tag, req.Preferences.HarvestPreference)},
	}
	if a := adv.Assessment; a != nil {
		resp.Text.Recommendations = h.Renderer.Triggers(tag, a.Recommendations)
		resp.Text.Adjustment = h.Renderer.Adjustment(tag, a.Adjustment)
		resp.Text.OverallImpact = h.Renderer.Impact(tag, a.OverallImpact)
	}
	return c.JSON(resp)
}

func (h *handlers) resolve(ctx context.Context, in locationInput) (weather.GeoLocation, error) {
	if in.Latitude != nil && in.Longitude != nil {
		return weather.GeoLocation{Latitude: *in.Latitude, Longitude: *in.Longitude, Name: in.City, Country: in.Country}, nil
	}
	if h.Resolver == nil {
		return weather.GeoLocation{}, common.NewAppError(common.ErrCodeValidationLocation, "city lookup is not available; provide lat and lon", nil)
	}
	return h.Resolver.Resolve(ctx, in.City, in.Country)
}

// ErrorHandler renders errors as {error, code, message}. AppErrors keep their
// code and status; fiber errors keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := common.ErrCodeInternal
	message := "internal server error"

	var appErr *common.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status, code, message = appErr.HTTPStatus(), appErr.Code, appErr.Message
	case errors.As(err, &fiberErr):
		status, message = fiberErr.Code, fiberErr.Message
		if status < fiber.StatusInternalServerError {
			code = common.ErrCodeValidationInput
		}
		if status == fiber.StatusNotFound {
			code = "not_found_route"
		}
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    code,
		"message": message,
	})
}
