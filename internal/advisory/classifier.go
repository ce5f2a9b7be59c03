package advisory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// hailForecastDays is how many leading forecast days feed the hail probability.
const hailForecastDays = 3

var (
	// ErrInvalidSnapshot is returned for snapshots with missing or out-of-range readings.
	ErrInvalidSnapshot = errors.New("invalid weather snapshot")
	// ErrInvalidStage is returned for an unknown flowering stage.
	ErrInvalidStage = errors.New("invalid flowering stage")
)

// HailSource tells where a hail impact came from.
type HailSource string

const (
	HailFromAlert    HailSource = "alert"
	HailFromForecast HailSource = "forecast"
)

// HailEvidence records what drove the hail impact, if any.
type HailEvidence struct {
	Source      HailSource            `json:"source"`
	Severity    weather.AlertSeverity `json:"severity,omitempty"`
	Probability float64               `json:"probability,omitempty"`
	Title       string                `json:"title,omitempty"`
}

// WeatherImpactAssessment is the climate-path decision for one evaluation.
type WeatherImpactAssessment struct {
	TemperatureImpact ImpactLevel            `json:"temperature_impact"`
	HumidityImpact    ImpactLevel            `json:"humidity_impact"`
	UVImpact          ImpactLevel            `json:"uv_impact"`
	HailImpact        *ImpactLevel           `json:"hail_impact,omitempty"`
	OverallImpact     ImpactLevel            `json:"overall_impact"`
	Recommendations   []Trigger              `json:"recommendations"`
	Adjustment        Adjustment             `json:"harvest_adjustment"`
	Alerts            []weather.WeatherAlert `json:"alerts,omitempty"`
	Ranges            OptimalRanges          `json:"optimal_ranges"`
	Hail              *HailEvidence          `json:"hail,omitempty"`
}

// Classifier converts a snapshot into per-dimension impact levels.
type Classifier struct {
	clock    clock.Clock
	validate *validator.Validate
}

// NewClassifier returns a Classifier; c decides which alerts are still active.
func NewClassifier(c clock.Clock) *Classifier {
	if c == nil {
		c = clock.Real{}
	}
	return &Classifier{clock: c, validate: validator.New()}
}

// Classify fills the impact fields of an assessment. variety may be nil.
// Scheduling fields (Adjustment, Recommendations) are left empty.
func (c *Classifier) Classify(snap weather.WeatherSnapshot, variety *cannabis.Variety, stage cannabis.Stage) (WeatherImpactAssessment, error) {
	if !stage.Valid() {
		return WeatherImpactAssessment{}, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if err := c.validate.Struct(snap); err != nil {
		return WeatherImpactAssessment{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	var vt cannabis.VarietyType
	if variety != nil {
		vt = variety.Type
	}
	ranges := RangesFor(stage, vt)

	a := WeatherImpactAssessment{
		TemperatureImpact: classifyValue(snap.Current.Temperature, ranges.Temperature, temperatureBands),
		HumidityImpact:    classifyValue(snap.Current.Humidity, ranges.Humidity, humidityBands),
		UVImpact:          classifyValue(snap.Current.UVIndex, ranges.UV, uvBands),
		Ranges:            ranges,
		Alerts:            c.activeAlerts(snap.Alerts),
	}

	levels := []ImpactLevel{a.TemperatureImpact, a.HumidityImpact, a.UVImpact}
	if hail, evidence := c.classifyHail(a.Alerts, snap, stage); hail != nil {
		a.HailImpact = hail
		a.Hail = evidence
		levels = append(levels, *hail)
	}
	a.OverallImpact = OverallImpact(levels...)
	return a, nil
}

// activeAlerts drops expired alerts and orders the rest by severity, most severe first.
func (c *Classifier) activeAlerts(alerts []weather.WeatherAlert) []weather.WeatherAlert {
	now := c.clock.Now()
	var out []weather.WeatherAlert
	for _, a := range alerts {
		if a.ActiveAt(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out
}

// classifyHail prefers active hail alerts over forecast probabilities.
func (c *Classifier) classifyHail(active []weather.WeatherAlert, snap weather.WeatherSnapshot, stage cannabis.Stage) (*ImpactLevel, *HailEvidence) {
	var worst *weather.WeatherAlert
	for i := range active {
		if active[i].IsHail() && (worst == nil || active[i].Severity > worst.Severity) {
			worst = &active[i]
		}
	}
	if worst != nil {
		level := hailAlertLevel(worst.Severity)
		return &level, &HailEvidence{Source: HailFromAlert, Severity: worst.Severity, Title: worst.Title}
	}

	var (
		maxProb float64
		found   bool
	)
	for _, d := range snap.NextDays(hailForecastDays) {
		if d.HailProbability != nil {
			found = true
			maxProb = max(maxProb, *d.HailProbability)
		}
	}
	if !found {
		return nil, nil
	}
	level, ok := hailForecastLevel(maxProb, stage)
	if !ok {
		return nil, nil
	}
	return &level, &HailEvidence{Source: HailFromForecast, Probability: maxProb}
}

func hailAlertLevel(s weather.AlertSeverity) ImpactLevel {
	switch {
	case s >= weather.SeveritySevere:
		return Critical
	case s == weather.SeverityModerate:
		return Negative
	default:
		return Neutral
	}
}

func hailForecastLevel(prob float64, stage cannabis.Stage) (ImpactLevel, bool) {
	late := stage == cannabis.Late
	switch {
	case prob >= 70:
		if late {
			return Critical, true
		}
		return Negative, true
	case prob >= 40:
		if late {
			return Negative, true
		}
		return Neutral, true
	case prob >= 20:
		return Neutral, true
	default:
		return Positive, false
	}
}
