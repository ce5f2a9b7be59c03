package advisory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/ripeness"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

type fakeSource struct {
	snap  weather.WeatherSnapshot
	err   error
	calls int
}

func (f *fakeSource) FetchCached(_ context.Context, _ weather.GeoLocation) (weather.WeatherSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

var madrid = &weather.GeoLocation{Latitude: 40.4168, Longitude: -3.7038, Name: "Madrid", Country: "ES"}

func fusionRequest() Request {
	return Request{
		Location:    madrid,
		Variety:     indica,
		Preferences: cannabis.UserPreferences{HarvestPreference: cannabis.Balanced, UseMicroscopicAnalysis: true},
		General: ripeness.Raw{
			Level:      "Medio",
			Confidence: fp(0.6),
			Harvest:    &ripeness.RawHarvest{DaysToHarvest: ip(10)},
		},
		Microscopic: &ripeness.Raw{
			Level:       "Tardío",
			Confidence:  fp(0.9),
			Microscopic: &ripeness.RawMicroscopic{Clear: fp(5), Milky: fp(60), Amber: fp(35)},
		},
	}
}

func TestEngine_Assess(t *testing.T) {
	src := &fakeSource{snap: snapshot(20, 38, 4, repeat(day(21, 16, 38, 10), 2)...)}
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now), Weather: src})

	adv, err := e.Assess(context.Background(), fusionRequest())
	require.NoError(t, err)

	_, err = uuid.Parse(adv.ID)
	assert.NoError(t, err)
	assert.Equal(t, now, adv.CreatedAt)
	assert.Equal(t, 1, src.calls)

	assert.Equal(t, ripeness.Late, adv.Ripeness.Level)
	assert.InDelta(t, 0.78, adv.Ripeness.Confidence, 1e-9)
	require.NotNil(t, adv.Ripeness.Harvest)
	assert.Equal(t, 0, adv.Ripeness.Harvest.DaysToHarvest)
	assert.Equal(t, cannabis.Late, adv.Stage)

	require.NotNil(t, adv.Assessment)
	assert.Nil(t, adv.Unavailable)
	assert.Equal(t, Positive, adv.Assessment.OverallImpact)
	assert.Equal(t, Shift(0), adv.Assessment.Adjustment)
	assert.Equal(t, []TriggerKind{TriggerLateTrichomes}, kinds(adv.Assessment.Recommendations))

	require.NotNil(t, adv.AdjustedHarvest)
	assert.Equal(t, "01/09/2026", adv.AdjustedHarvest.OptimalHarvestDate)
	require.NotNil(t, adv.Daylight)
	assert.True(t, adv.Daylight.Sunset.After(adv.Daylight.Sunrise))
}

func TestEngine_AssessWithoutMicroscopic(t *testing.T) {
	src := &fakeSource{snap: snapshot(22, 48, 4, repeat(day(24, 18, 60, 10), 7)...)}
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now), Weather: src})

	req := fusionRequest()
	req.Preferences.UseMicroscopicAnalysis = false
	req.Variety = nil
	adv, err := e.Assess(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ripeness.Mid, adv.Ripeness.Level)
	assert.Equal(t, "11/09/2026", adv.Ripeness.Harvest.OptimalHarvestDate)
	require.NotNil(t, adv.Assessment)
	assert.Equal(t, "11/09/2026", adv.AdjustedHarvest.OptimalHarvestDate)
}

func TestEngine_AssessWeatherUnavailable(t *testing.T) {
	src := &fakeSource{err: weather.ErrNoWeatherData}
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now), Weather: src})

	adv, err := e.Assess(context.Background(), fusionRequest())
	require.NoError(t, err)

	assert.Nil(t, adv.Assessment)
	assert.Nil(t, adv.Weather)
	assert.Nil(t, adv.AdjustedHarvest)
	require.NotNil(t, adv.Unavailable)
	assert.Equal(t, "could not produce an assessment", adv.Unavailable.Message)
	assert.Equal(t, "no weather data available", adv.Unavailable.Cause)
	assert.Equal(t, ripeness.Late, adv.Ripeness.Level, "ripeness is still returned")
}

func TestEngine_AssessWithoutLocation(t *testing.T) {
	src := &fakeSource{}
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now), Weather: src})

	req := fusionRequest()
	req.Location = nil
	adv, err := e.Assess(context.Background(), req)
	require.NoError(t, err)

	assert.Zero(t, src.calls)
	assert.Nil(t, adv.Assessment)
	assert.Nil(t, adv.Daylight)
	assert.Equal(t, "no location provided", adv.Unavailable.Cause)
}

func TestEngine_AssessCancelled(t *testing.T) {
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now), Weather: &fakeSource{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Assess(ctx, fusionRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_EvaluateInvalidSnapshot(t *testing.T) {
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now)})

	_, err := e.Evaluate(snapshot(20, math.Inf(1), 3), nil, cannabis.Mid, cannabis.Balanced)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssessmentUnavailable)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 422, appErr.HTTPStatus())
}

func TestEngine_EvaluateLateCritical(t *testing.T) {
	e := NewEngine(EngineOptions{Clock: clock.Fixed(now)})

	a, err := e.Evaluate(snapshot(20, 70, 3), nil, cannabis.Late, cannabis.Balanced)
	require.NoError(t, err)
	assert.Equal(t, Critical, a.OverallImpact)
	assert.True(t, a.Adjustment.IsHarvestNow())
	assert.Equal(t, LegacyHarvestNow, a.Adjustment.LegacyDays())
}
