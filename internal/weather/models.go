package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
)

// SourceCombined labels a snapshot synthesized from more than one provider.
const SourceCombined = "combined"

// AlertTypeHail is the alert type providers assign to hail warnings.
const AlertTypeHail = "hail"

var hailKeywords = []string{"hail", "granizo"}

// GeoLocation identifies the grower's position. Latitude/Longitude are required.
type GeoLocation struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Name      string  `json:"name,omitempty"`
	Country   string  `json:"country,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded to ~100m so nearby lookups share a cache entry.
func (l GeoLocation) Key() string {
	return fmt.Sprintf("%.3f,%.3f", l.Latitude, l.Longitude)
}

// CurrentWeather is one provider's (or the combined) reading of current conditions.
type CurrentWeather struct {
	Temperature   float64   `json:"temperature" validate:"gte=-90,lte=70"`
	Humidity      float64   `json:"humidity" validate:"gte=0,lte=100"`
	UVIndex       float64   `json:"uv_index" validate:"gte=0,lte=20"`
	WindSpeed     float64   `json:"wind_speed" validate:"gte=0"`
	Precipitation float64   `json:"precipitation" validate:"gte=0"`
	Condition     string    `json:"condition"`
	Timestamp     time.Time `json:"timestamp"`
}

// ForecastDay is a single forecast entry, one per future day.
type ForecastDay struct {
	Date                     string   `json:"date"` // YYYY-MM-DD
	TemperatureMax           float64  `json:"temperature_max"`
	TemperatureMin           float64  `json:"temperature_min"`
	Humidity                 float64  `json:"humidity" validate:"gte=0,lte=100"`
	UVIndex                  float64  `json:"uv_index" validate:"gte=0"`
	PrecipitationProbability float64  `json:"precipitation_probability" validate:"gte=0,lte=100"`
	Condition                string   `json:"condition"`
	HailProbability          *float64 `json:"hail_probability,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// AlertSeverity is ordinal: minor < moderate < severe < extreme.
type AlertSeverity int

const (
	SeverityMinor AlertSeverity = iota
	SeverityModerate
	SeveritySevere
	SeverityExtreme
)

var severityNames = [...]string{"minor", "moderate", "severe", "extreme"}

func (s AlertSeverity) String() string {
	if s < SeverityMinor || s > SeverityExtreme {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity maps a provider severity label to an AlertSeverity.
// Unknown labels map to moderate.
func ParseSeverity(label string) AlertSeverity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "minor":
		return SeverityMinor
	case "severe":
		return SeveritySevere
	case "extreme":
		return SeverityExtreme
	default:
		return SeverityModerate
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s AlertSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AlertSeverity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// WeatherAlert is an active or upcoming weather warning.
type WeatherAlert struct {
	Type        string        `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Source      string        `json:"source"`
}

// IsHail reports whether the alert concerns hail.
func (a WeatherAlert) IsHail() bool {
	return strings.EqualFold(a.Type, AlertTypeHail) ||
		common.ContainsAnyFold(a.Title, hailKeywords...) ||
		common.ContainsAnyFold(a.Description, hailKeywords...)
}

// ActiveAt reports whether the alert has not yet expired at t. Alerts without
// an end time are considered active.
func (a WeatherAlert) ActiveAt(t time.Time) bool {
	return a.End.IsZero() || !t.After(a.End)
}

// WeatherSnapshot is the reconciled weather view consumed by the advisory engine.
type WeatherSnapshot struct {
	Location GeoLocation    `json:"location"`
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast" validate:"dive"`
	Alerts   []WeatherAlert `json:"alerts,omitempty"`
	Source   string         `json:"source"`

	// Providers contributing to this snapshot.
	Providers []string `json:"providers,omitempty"`
}

// HasForecast reports whether any forecast entries are available.
func (s WeatherSnapshot) HasForecast() bool {
	return len(s.Forecast) > 0
}

// NextDays returns at most n leading forecast entries.
func (s WeatherSnapshot) NextDays(n int) []ForecastDay {
	if n < len(s.Forecast) {
		return s.Forecast[:n]
	}
	return s.Forecast
}
