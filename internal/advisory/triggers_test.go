package advisory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

func kinds(ts []Trigger) []TriggerKind {
	out := make([]TriggerKind, len(ts))
	for i, t := range ts {
		out[i] = t.Kind
	}
	return out
}

func evaluate(t *testing.T, snap weather.WeatherSnapshot, v *cannabis.Variety, stage cannabis.Stage) WeatherImpactAssessment {
	t.Helper()
	a, err := NewEngine(EngineOptions{Clock: clock.Fixed(now)}).Evaluate(snap, v, stage, cannabis.Balanced)
	require.NoError(t, err)
	return a
}

func TestTriggers_HailFirst(t *testing.T) {
	snap := snapshot(31, 66, 4, repeat(day(24, 18, 50, 10), 5)...)
	snap.Alerts = []weather.WeatherAlert{{Type: weather.AlertTypeHail, Severity: weather.SeverityModerate, Title: "Hail warning", End: now.Add(time.Hour)}}

	a := evaluate(t, snap, nil, cannabis.Mid)

	assert.Equal(t, []TriggerKind{
		TriggerHailAlert,
		TriggerTemperatureHigh,
		TriggerHumidityHigh,
		TriggerTemperatureSwing,
		TriggerMidUnstable,
	}, kinds(a.Recommendations))
	assert.Equal(t, "Hail warning", a.Recommendations[0].Title)
	assert.Equal(t, Negative, a.OverallImpact)

	temp := a.Recommendations[1]
	assert.Equal(t, 31.0, temp.Value)
	assert.Equal(t, 18.0, temp.Min)
	assert.Equal(t, 26.0, temp.Max)
	assert.Equal(t, cannabis.Mid, temp.Stage)
}

func TestTriggers_ForecastTrend(t *testing.T) {
	snap := snapshot(20, 40, 3, repeat(day(32, 10, 80, 80), 6)...)
	a := evaluate(t, snap, nil, cannabis.Late)

	assert.Equal(t, []TriggerKind{
		TriggerTemperatureSwing,
		TriggerRain,
		TriggerHumidSpell,
		TriggerHeatSpell,
		TriggerColdSpell,
		TriggerLateTrichomes,
	}, kinds(a.Recommendations))
	assert.Equal(t, Negative, a.Recommendations[1].Severity, "rain is worse late in flowering")
	assert.Equal(t, 5, a.Recommendations[2].Count, "only the next five days count")
	assert.True(t, a.Recommendations[5].Favorable)
}

func TestTriggers_HumidSpellSkippedEarly(t *testing.T) {
	snap := snapshot(24, 50, 4, repeat(day(26, 18, 80, 10), 5)...)
	a := evaluate(t, snap, nil, cannabis.Early)
	assert.NotContains(t, kinds(a.Recommendations), TriggerHumidSpell)
}

func TestTriggers_VarietyNotes(t *testing.T) {
	a := evaluate(t, snapshot(22, 56, 4), indica, cannabis.Mid)
	assert.Equal(t, Neutral, a.HumidityImpact)
	assert.Equal(t, []TriggerKind{TriggerMidUnstable, TriggerIndicaMold}, kinds(a.Recommendations))
	for _, tr := range a.Recommendations {
		assert.Equal(t, "Northern Lights", tr.Variety)
	}

	a = evaluate(t, snapshot(17, 45, 4), sativa, cannabis.Mid)
	assert.Equal(t, Neutral, a.TemperatureImpact)
	assert.Equal(t, []TriggerKind{TriggerMidUnstable, TriggerSativaWarmth}, kinds(a.Recommendations))
}

func TestTriggers_UV(t *testing.T) {
	a := evaluate(t, snapshot(24, 50, 10.5), nil, cannabis.Early)
	assert.Equal(t, Critical, a.UVImpact)
	assert.Equal(t, []TriggerKind{TriggerUVHigh, TriggerEarlyIdeal, TriggerEarlyUV}, kinds(a.Recommendations))
}

func TestTriggers_SingleFallback(t *testing.T) {
	a := evaluate(t, snapshot(30.5, 50, 4), nil, cannabis.Early)
	assert.Equal(t, Neutral, a.TemperatureImpact)
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, TriggerAcceptable, a.Recommendations[0].Kind)
	assert.Equal(t, CategoryGeneral, a.Recommendations[0].Category)
}
