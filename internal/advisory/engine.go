package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/geo"
	"github.com/i474232898/harvest-advisor/internal/harvestdate"
	"github.com/i474232898/harvest-advisor/internal/ripeness"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// ErrAssessmentUnavailable is the single condition reported when no weather
// assessment could be produced. The wrapped error carries the cause.
var ErrAssessmentUnavailable = common.NewAppError(common.ErrCodeAssessmentFailed, "could not produce an assessment", nil)

// WeatherSource supplies snapshots, from cache when fresh.
type WeatherSource interface {
	FetchCached(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error)
}

// Request is everything the engine needs for one advisory.
type Request struct {
	Location    *weather.GeoLocation
	Variety     *cannabis.Variety
	Preferences cannabis.UserPreferences
	General     ripeness.Raw
	Microscopic *ripeness.Raw
}

// Unavailable explains why an advisory carries no assessment.
type Unavailable struct {
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

// Advisory is the combined weather and ripeness result returned to the grower.
type Advisory struct {
	ID              string                    `json:"id"`
	CreatedAt       time.Time                 `json:"created_at"`
	Location        *weather.GeoLocation      `json:"location,omitempty"`
	Variety         *cannabis.Variety         `json:"variety,omitempty"`
	Preferences     cannabis.UserPreferences  `json:"preferences"`
	Stage           cannabis.Stage            `json:"stage"`
	Ripeness        ripeness.Result           `json:"ripeness"`
	Weather         *weather.WeatherSnapshot  `json:"weather,omitempty"`
	Assessment      *WeatherImpactAssessment  `json:"assessment,omitempty"`
	AdjustedHarvest *ripeness.HarvestEstimate `json:"adjusted_harvest,omitempty"`
	Unavailable     *Unavailable              `json:"assessment_error,omitempty"`
	Daylight        *geo.Daylight             `json:"daylight,omitempty"`
}

// EngineOptions wires an Engine. Weather may be nil for offline evaluation.
type EngineOptions struct {
	Clock   clock.Clock
	Weather WeatherSource
	Logger  *slog.Logger
}

// Engine runs classification, scheduling and ripeness fusion.
type Engine struct {
	clock      clock.Clock
	weather    WeatherSource
	logger     *slog.Logger
	dates      *harvestdate.Sanitizer
	classifier *Classifier
	scheduler  *Scheduler
	fuser      *ripeness.Fuser
}

// NewEngine builds an Engine from opts.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	dates := harvestdate.New(opts.Clock)
	return &Engine{
		clock:      opts.Clock,
		weather:    opts.Weather,
		logger:     opts.Logger,
		dates:      dates,
		classifier: NewClassifier(opts.Clock),
		scheduler:  NewScheduler(),
		fuser:      ripeness.NewFuser(dates),
	}
}

// Evaluate is the pure climate path: classify, adjust and list triggers.
func (e *Engine) Evaluate(snap weather.WeatherSnapshot, variety *cannabis.Variety, stage cannabis.Stage, pref cannabis.HarvestPreference) (WeatherImpactAssessment, error) {
	a, err := e.classifier.Classify(snap, variety, stage)
	if err != nil {
		return WeatherImpactAssessment{}, fmt.Errorf("%w: %w", ErrAssessmentUnavailable, err)
	}
	a.Adjustment = e.scheduler.Adjust(a.OverallImpact, snap, stage, pref)
	a.Recommendations = e.scheduler.Triggers(a, snap, variety, stage)
	return a, nil
}

// Assess fetches weather and fuses ripeness concurrently, then evaluates the
// climate path for the fused stage. A weather failure does not fail the call;
// the advisory is returned without an assessment and with the cause attached.
func (e *Engine) Assess(ctx context.Context, req Request) (Advisory, error) {
	pref := req.Preferences.HarvestPreference
	if pref == "" {
		pref = cannabis.Balanced
	}

	var (
		snap       weather.WeatherSnapshot
		weatherErr error
		result     ripeness.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		switch {
		case req.Location == nil:
			weatherErr = errors.New("no location provided")
		case e.weather == nil:
			weatherErr = weather.ErrNoProviders
		default:
			snap, weatherErr = e.weather.FetchCached(gctx, *req.Location)
		}
		return nil
	})
	g.Go(func() error {
		result = e.fuseRipeness(req, pref)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Advisory{}, err
	}
	if err := ctx.Err(); err != nil {
		return Advisory{}, err
	}

	stage := result.Level.Stage()
	adv := Advisory{
		ID:          uuid.NewString(),
		CreatedAt:   e.clock.Now(),
		Location:    req.Location,
		Variety:     req.Variety,
		Preferences: req.Preferences,
		Stage:       stage,
		Ripeness:    result,
	}
	adv.Preferences.HarvestPreference = pref

	if req.Location != nil {
		if d, ok := geo.DaylightAt(*req.Location, e.clock.Now()); ok {
			adv.Daylight = &d
		}
	}

	if weatherErr == nil {
		adv.Weather = &snap
		a, err := e.Evaluate(snap, req.Variety, stage, pref)
		if err == nil {
			adv.Assessment = &a
			adv.AdjustedHarvest = e.adjustEstimate(result.Harvest, a.Adjustment)
			return adv, nil
		}
		weatherErr = err
	}

	e.logger.Warn("advisory without weather assessment", "advisory_id", adv.ID, "error", weatherErr)
	adv.Unavailable = &Unavailable{Message: ErrAssessmentUnavailable.Message, Cause: cause(weatherErr)}
	return adv, nil
}

func (e *Engine) fuseRipeness(req Request, pref cannabis.HarvestPreference) ripeness.Result {
	general := ripeness.Normalize(req.General, false)
	general = ripeness.Complete(general, req.Variety, pref, e.dates)
	if req.Microscopic == nil || !req.Preferences.UseMicroscopicAnalysis {
		return general
	}
	micro := ripeness.Normalize(*req.Microscopic, true)
	return e.fuser.Fuse(general, micro)
}

// adjustEstimate applies a weather adjustment to the ripeness estimate.
func (e *Engine) adjustEstimate(est *ripeness.HarvestEstimate, adj Adjustment) *ripeness.HarvestEstimate {
	if est == nil {
		return nil
	}
	days := 0
	if shift, ok := adj.Days(); ok {
		days = max(est.DaysToHarvest+shift, 0)
	}
	return &ripeness.HarvestEstimate{
		DaysToHarvest:      days,
		OptimalHarvestDate: e.dates.Fallback(days),
		HarvestWindow:      ripeness.WindowText(days),
	}
}

// cause reduces err to a short human-readable reason.
func cause(err error) string {
	var appErr *common.AppError
	switch {
	case errors.Is(err, weather.ErrNoProviders):
		return weather.ErrNoProviders.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "weather lookup timed out"
	case errors.Is(err, ErrInvalidSnapshot):
		return ErrInvalidSnapshot.Error()
	case errors.Is(err, ErrInvalidStage):
		return ErrInvalidStage.Error()
	case errors.As(err, &appErr) && appErr != ErrAssessmentUnavailable:
		return appErr.Message
	default:
		return err.Error()
	}
}
