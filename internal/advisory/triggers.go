package advisory

import (
	"math"
	"sort"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// TriggerKind identifies one advisory condition. Text for each kind lives in the
// render package.
type TriggerKind string

const (
	TriggerHailAlert        TriggerKind = "hail_alert"
	TriggerHailForecast     TriggerKind = "hail_forecast"
	TriggerTemperatureLow   TriggerKind = "temperature_low"
	TriggerTemperatureHigh  TriggerKind = "temperature_high"
	TriggerHumidityLow      TriggerKind = "humidity_low"
	TriggerHumidityHigh     TriggerKind = "humidity_high"
	TriggerUVLow            TriggerKind = "uv_low"
	TriggerUVHigh           TriggerKind = "uv_high"
	TriggerTemperatureSwing TriggerKind = "forecast_temperature_swing"
	TriggerRain             TriggerKind = "forecast_rain"
	TriggerHumidSpell       TriggerKind = "forecast_humid_spell"
	TriggerHeatSpell        TriggerKind = "forecast_heat_spell"
	TriggerColdSpell        TriggerKind = "forecast_cold_spell"
	TriggerEarlyIdeal       TriggerKind = "stage_early_ideal"
	TriggerEarlyUV          TriggerKind = "stage_early_uv"
	TriggerMidUnstable      TriggerKind = "stage_mid_unstable"
	TriggerMidFavorable     TriggerKind = "stage_mid_favorable"
	TriggerLateMoldRisk     TriggerKind = "stage_late_mold_risk"
	TriggerLateTrichomes    TriggerKind = "stage_late_monitor_trichomes"
	TriggerIndicaMold       TriggerKind = "variety_indica_mold"
	TriggerSativaWarmth     TriggerKind = "variety_sativa_warmth"
	TriggerOptimal          TriggerKind = "conditions_optimal"
	TriggerAcceptable       TriggerKind = "conditions_acceptable"
)

// Category groups triggers; lower values are surfaced first.
type Category int

const (
	CategoryHail Category = iota
	CategoryTemperature
	CategoryHumidity
	CategoryUV
	CategoryForecast
	CategoryStage
	CategoryVariety
	CategoryGeneral
)

var categoryNames = [...]string{"hail", "temperature", "humidity", "uv", "forecast", "stage", "variety", "general"}

func (c Category) String() string {
	if c < CategoryHail || c > CategoryGeneral {
		return "unknown"
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Trigger is a structured advisory entry. Only the fields relevant to Kind are set.
type Trigger struct {
	Kind        TriggerKind    `json:"kind"`
	Category    Category       `json:"category"`
	Severity    ImpactLevel    `json:"severity"`
	Stage       cannabis.Stage `json:"stage"`
	Value       float64        `json:"value,omitempty"`
	Min         float64        `json:"min,omitempty"`
	Max         float64        `json:"max,omitempty"`
	Count       int            `json:"count,omitempty"`
	Probability float64        `json:"probability,omitempty"`
	Title       string         `json:"title,omitempty"`
	Variety     string         `json:"variety,omitempty"`
	Favorable   bool           `json:"favorable,omitempty"`
}

const (
	trendForecastDays = 5

	swingDelta      = 5.0
	trendRainChance = 70.0
	trendHumidity   = 70.0
	trendHeatTemp   = 30.0
	trendColdTemp   = 15.0

	minTrendHumidDays = 3
	minTrendHeatDays  = 2
	minTrendColdDays  = 2
)

// Triggers lists the advisory conditions raised by an assessment, hail first,
// then temperature, humidity, UV, forecast trend, stage and variety notes. When
// nothing fires a single general entry is returned. variety may be nil.
func (s *Scheduler) Triggers(a WeatherImpactAssessment, snap weather.WeatherSnapshot, variety *cannabis.Variety, stage cannabis.Stage) []Trigger {
	var name string
	if variety != nil {
		name = variety.Name
	}

	var out []Trigger
	add := func(t Trigger) {
		t.Stage = stage
		t.Variety = name
		out = append(out, t)
	}

	if a.HailImpact != nil && a.Hail != nil {
		switch a.Hail.Source {
		case HailFromAlert:
			add(Trigger{Kind: TriggerHailAlert, Category: CategoryHail, Severity: *a.HailImpact, Title: a.Hail.Title})
		case HailFromForecast:
			add(Trigger{Kind: TriggerHailForecast, Category: CategoryHail, Severity: *a.HailImpact, Probability: a.Hail.Probability})
		}
	}

	cur := snap.Current
	rangeTrigger(add, CategoryTemperature, a.TemperatureImpact, cur.Temperature, a.Ranges.Temperature, TriggerTemperatureLow, TriggerTemperatureHigh)
	rangeTrigger(add, CategoryHumidity, a.HumidityImpact, cur.Humidity, a.Ranges.Humidity, TriggerHumidityLow, TriggerHumidityHigh)
	rangeTrigger(add, CategoryUV, a.UVImpact, cur.UVIndex, a.Ranges.UV, TriggerUVLow, TriggerUVHigh)

	forecastTriggers(add, snap, stage)
	stageTriggers(add, a, stage)

	if variety != nil {
		switch {
		case variety.Type == cannabis.Indica && a.HumidityImpact != Positive:
			add(Trigger{Kind: TriggerIndicaMold, Category: CategoryVariety, Severity: a.HumidityImpact})
		case variety.Type == cannabis.Sativa && a.TemperatureImpact != Positive:
			add(Trigger{Kind: TriggerSativaWarmth, Category: CategoryVariety, Severity: a.TemperatureImpact})
		}
	}

	if len(out) == 0 {
		if a.TemperatureImpact == Positive && a.HumidityImpact == Positive && a.UVImpact == Positive {
			add(Trigger{Kind: TriggerOptimal, Category: CategoryGeneral, Severity: Positive})
		} else {
			add(Trigger{Kind: TriggerAcceptable, Category: CategoryGeneral, Severity: a.OverallImpact})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func rangeTrigger(add func(Trigger), cat Category, level ImpactLevel, v float64, r Range, low, high TriggerKind) {
	if !level.Adverse() {
		return
	}
	t := Trigger{Category: cat, Severity: level, Value: v, Min: r.Min, Max: r.Max}
	switch {
	case v < r.Min:
		t.Kind = low
	case v > r.Max:
		t.Kind = high
	default:
		return
	}
	add(t)
}

func forecastTriggers(add func(Trigger), snap weather.WeatherSnapshot, stage cannabis.Stage) {
	days := snap.NextDays(trendForecastDays)
	if len(days) == 0 {
		return
	}

	var (
		maxSwing, maxRain float64
		humid, heat, cold int
	)
	for _, d := range days {
		maxSwing = max(maxSwing, math.Abs(d.TemperatureMax-snap.Current.Temperature))
		maxRain = max(maxRain, d.PrecipitationProbability)
		if d.Humidity > trendHumidity {
			humid++
		}
		if d.TemperatureMax > trendHeatTemp {
			heat++
		}
		if d.TemperatureMin < trendColdTemp {
			cold++
		}
	}

	if maxSwing > swingDelta {
		add(Trigger{Kind: TriggerTemperatureSwing, Category: CategoryForecast, Severity: Neutral, Value: maxSwing})
	}
	if maxRain > trendRainChance {
		sev := Neutral
		if stage == cannabis.Late {
			sev = Negative
		}
		add(Trigger{Kind: TriggerRain, Category: CategoryForecast, Severity: sev, Probability: maxRain})
	}
	if humid >= minTrendHumidDays && stage != cannabis.Early {
		add(Trigger{Kind: TriggerHumidSpell, Category: CategoryForecast, Severity: Negative, Count: humid})
	}
	if heat >= minTrendHeatDays {
		add(Trigger{Kind: TriggerHeatSpell, Category: CategoryForecast, Severity: Neutral, Count: heat})
	}
	if cold >= minTrendColdDays {
		add(Trigger{Kind: TriggerColdSpell, Category: CategoryForecast, Severity: Neutral, Count: cold})
	}
}

func stageTriggers(add func(Trigger), a WeatherImpactAssessment, stage cannabis.Stage) {
	switch stage {
	case cannabis.Early:
		if a.TemperatureImpact == Positive && a.HumidityImpact == Positive {
			add(Trigger{Kind: TriggerEarlyIdeal, Category: CategoryStage, Severity: Positive, Favorable: true})
		}
		if a.UVImpact.Adverse() {
			add(Trigger{Kind: TriggerEarlyUV, Category: CategoryStage, Severity: a.UVImpact})
		}
	case cannabis.Mid:
		if a.TemperatureImpact != Positive || a.HumidityImpact != Positive {
			add(Trigger{Kind: TriggerMidUnstable, Category: CategoryStage, Severity: max(a.TemperatureImpact, a.HumidityImpact)})
		} else {
			add(Trigger{Kind: TriggerMidFavorable, Category: CategoryStage, Severity: Positive, Favorable: true})
		}
	case cannabis.Late:
		if a.HumidityImpact.Adverse() {
			add(Trigger{Kind: TriggerLateMoldRisk, Category: CategoryStage, Severity: a.HumidityImpact, Max: a.Ranges.Humidity.Max})
		}
		add(Trigger{Kind: TriggerLateTrichomes, Category: CategoryStage, Severity: a.TemperatureImpact, Favorable: a.TemperatureImpact == Positive})
	}
}
