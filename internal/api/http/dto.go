package httpapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/ripeness"
)

// locationInput identifies a location by coordinates or by city/country.
type locationInput struct {
	Latitude  *float64 `json:"latitude" validate:"required_without=City,omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
}

func parseLocationQuery(c *fiber.Ctx) (locationInput, error) {
	var in locationInput
	in.City = strings.TrimSpace(c.Query("city"))
	in.Country = strings.TrimSpace(c.Query("country"))

	for key, dst := range map[string]**float64{"lat": &in.Latitude, "lon": &in.Longitude} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, common.NewAppError(common.ErrCodeValidationLocation, "invalid "+key+" query parameter", err)
		}
		*dst = &v
	}

	if err := validate.Struct(in); err != nil {
		return in, common.NewAppError(common.ErrCodeValidationLocation, "provide lat and lon, or city and country", err)
	}
	return in, nil
}

// advisoryRequest is the body of POST /api/v1/advisory.
type advisoryRequest struct {
	Location    *locationInput           `json:"location" validate:"omitempty"`
	VarietyID   string                   `json:"variety_id"`
	Preferences cannabis.UserPreferences `json:"preferences"`
	General     ripeness.Raw             `json:"general"`
	Microscopic *ripeness.Raw            `json:"microscopic"`
}

type renderedText struct {
	Recommendations []string `json:"recommendations,omitempty"`
	Adjustment      string   `json:"harvest_adjustment,omitempty"`
	OverallImpact   string   `json:"overall_impact,omitempty"`
	Guidance        string   `json:"guidance"`
}

// advisoryResponse is the advisory plus text in the negotiated language.
type advisoryResponse struct {
	advisory.Advisory
	Language string       `json:"language"`
	Text     renderedText `json:"text"`
}

type varietyResponse struct {
	cannabis.Variety
	DaysToHarvest map[cannabis.Stage]int `json:"days_to_harvest"`
}

func newVarietyResponse(v cannabis.Variety, pref cannabis.HarvestPreference) varietyResponse {
	days := make(map[cannabis.Stage]int, 3)
	for _, s := range []cannabis.Stage{cannabis.Early, cannabis.Mid, cannabis.Late} {
		days[s] = cannabis.DaysToHarvest(s, v, pref)
	}
	return varietyResponse{Variety: v, DaysToHarvest: days}
}
