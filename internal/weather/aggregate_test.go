package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_Empty(t *testing.T) {
	_, err := Combine(nil)
	assert.ErrorIs(t, err, ErrNoWeatherData)
}

func TestCombine_SingleSnapshotUnchanged(t *testing.T) {
	in := WeatherSnapshot{
		Current: CurrentWeather{Temperature: 21.37, Condition: "Clear"},
		Source:  "weatherapi",
	}
	out, err := Combine([]WeatherSnapshot{in})
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCombine_AveragesAndPicksLongestForecast(t *testing.T) {
	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	hail := WeatherAlert{Type: AlertTypeHail, Severity: SeveritySevere, Title: "Hail"}

	snaps := []WeatherSnapshot{
		{
			Location: GeoLocation{Latitude: 1, Longitude: 2},
			Current:  CurrentWeather{Temperature: 20, Humidity: 40, UVIndex: 3, WindSpeed: 10, Precipitation: 0, Condition: "Rain", Timestamp: t1},
			Forecast: []ForecastDay{{Date: "2026-05-02"}},
			Alerts:   []WeatherAlert{{Type: "wind", Title: "Wind"}},
			Source:   "a",
		},
		{
			Location: GeoLocation{Latitude: 1, Longitude: 2, Name: "Granada", Country: "ES"},
			Current:  CurrentWeather{Temperature: 22, Humidity: 50, UVIndex: 4, WindSpeed: 12, Precipitation: 1, Condition: "Clear", Timestamp: t1.Add(time.Minute)},
			Forecast: []ForecastDay{{Date: "2026-05-02"}, {Date: "2026-05-03"}, {Date: "2026-05-04"}},
			Alerts:   []WeatherAlert{hail},
			Source:   "b",
		},
		{
			Current:  CurrentWeather{Temperature: 24, Humidity: 61, UVIndex: 5, WindSpeed: 14, Precipitation: 2, Condition: "Clear", Timestamp: t1},
			Forecast: []ForecastDay{{Date: "2026-05-02"}, {Date: "2026-05-03"}},
			Source:   "c",
		},
	}

	out, err := Combine(snaps)
	require.NoError(t, err)

	assert.Equal(t, SourceCombined, out.Source)
	assert.Equal(t, 22.0, out.Current.Temperature)
	assert.Equal(t, 50.3, out.Current.Humidity)
	assert.Equal(t, 4.0, out.Current.UVIndex)
	assert.Equal(t, 12.0, out.Current.WindSpeed)
	assert.Equal(t, 1.0, out.Current.Precipitation)
	assert.Equal(t, "Clear", out.Current.Condition)
	assert.Equal(t, t1.Add(time.Minute), out.Current.Timestamp)
	assert.Len(t, out.Forecast, 3)
	assert.Equal(t, []WeatherAlert{hail}, out.Alerts)
	assert.Equal(t, "Granada", out.Location.Name)
	assert.Equal(t, []string{"a", "b", "c"}, out.Providers)
}

func TestCombine_WithinInputRange(t *testing.T) {
	sets := [][]float64{
		{20, 22, 24},
		{0.04, 0.04, 0.04},
		{-5.55, -5.55},
		{13.33, 13.34, 13.35, 13.36},
		{100, 99.99},
	}
	for _, temps := range sets {
		snaps := make([]WeatherSnapshot, 0, len(temps))
		lo, hi := temps[0], temps[0]
		for _, v := range temps {
			snaps = append(snaps, WeatherSnapshot{Current: CurrentWeather{Temperature: v, Humidity: v}})
			lo, hi = min(lo, v), max(hi, v)
		}
		out, err := Combine(snaps)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Current.Temperature, lo, "temps %v", temps)
		assert.LessOrEqual(t, out.Current.Temperature, hi, "temps %v", temps)
	}
}

func TestCombine_AlertsFallBackToFirstReporting(t *testing.T) {
	alert := WeatherAlert{Type: "storm"}
	out, err := Combine([]WeatherSnapshot{
		{Forecast: []ForecastDay{{}, {}}},
		{Alerts: []WeatherAlert{alert}},
	})
	require.NoError(t, err)
	assert.Equal(t, []WeatherAlert{alert}, out.Alerts)
	assert.Len(t, out.Forecast, 2)
}

func TestWeatherAlert_IsHail(t *testing.T) {
	assert.True(t, WeatherAlert{Type: "hail"}.IsHail())
	assert.True(t, WeatherAlert{Type: "storm", Description: "Posible granizo"}.IsHail())
	assert.False(t, WeatherAlert{Type: "storm", Title: "Thunderstorm"}.IsHail())
}

func TestWeatherAlert_ActiveAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, WeatherAlert{}.ActiveAt(now))
	assert.True(t, WeatherAlert{End: now.Add(time.Hour)}.ActiveAt(now))
	assert.False(t, WeatherAlert{End: now.Add(-time.Hour)}.ActiveAt(now))
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityExtreme, ParseSeverity("Extreme"))
	assert.Equal(t, SeveritySevere, ParseSeverity("severe"))
	assert.Equal(t, SeverityMinor, ParseSeverity(" Minor "))
	assert.Equal(t, SeverityModerate, ParseSeverity("whatever"))
	assert.True(t, SeverityMinor < SeverityExtreme)
}
