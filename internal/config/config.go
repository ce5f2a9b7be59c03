package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrorKind categorizes configuration loading failures.
type ErrorKind string

const (
	ErrParsing    ErrorKind = "PARSING_FAILED"
	ErrValidation ErrorKind = "VALIDATION_FAILED"
)

// Error is returned by Load when the environment cannot produce a usable Config.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config is the service configuration, read from the environment.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev prod"`
	Port      string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	OpenWeatherAPIKey    string `envconfig:"OPENWEATHER_API_KEY"`
	WeatherAPIKey        string `envconfig:"WEATHERAPI_API_KEY"`
	VisualCrossingAPIKey string `envconfig:"VISUALCROSSING_API_KEY"`
	AerisClientID        string `envconfig:"AERISWEATHER_CLIENT_ID"`
	AerisClientSecret    string `envconfig:"AERISWEATHER_CLIENT_SECRET"`
	OpenMeteoEnabled     bool   `envconfig:"OPENMETEO_ENABLED" default:"true"`
	GeocoderAPIKey       string `envconfig:"GEOCODER_API_KEY"`

	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"8s" validate:"gt=0"`

	// SnapshotMaxAge is how long a cached snapshot is served before refetching.
	SnapshotMaxAge time.Duration `envconfig:"SNAPSHOT_MAX_AGE" default:"15m" validate:"gt=0"`
	// FetchInterval controls how often configured locations are refreshed.
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m" validate:"gte=1m"`

	// Locations to keep warm, as parallel comma-separated lists.
	LocationCities    []string `envconfig:"WEATHER_LOCATION_CITY"`
	LocationCountries []string `envconfig:"WEATHER_LOCATION_COUNTRY"`

	VarietyCatalogPath string `envconfig:"VARIETY_CATALOG_PATH"`
	DefaultLanguage    string `envconfig:"DEFAULT_LANGUAGE" default:"es" validate:"oneof=es en"`
}

// Location is a configured city/country pair.
type Location struct {
	City    string
	Country string
}

// Load reads optional .env files (the working directory's .env by default), then
// the environment. Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Kind: ErrParsing, Message: "failed to process environment configuration", Err: err}
	}
	cfg.LocationCities = trimAll(cfg.LocationCities)
	cfg.LocationCountries = trimAll(cfg.LocationCountries)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Kind: ErrValidation, Message: "configuration validation failed", Err: err}
	}
	if len(cfg.LocationCities) != len(cfg.LocationCountries) {
		return nil, &Error{
			Kind:    ErrValidation,
			Message: fmt.Sprintf("number of cities (%d) and countries (%d) must be the same", len(cfg.LocationCities), len(cfg.LocationCountries)),
		}
	}
	return &cfg, nil
}

// Locations returns the configured city/country pairs.
func (c *Config) Locations() []Location {
	locs := make([]Location, 0, len(c.LocationCities))
	for i := range c.LocationCities {
		locs = append(locs, Location{City: c.LocationCities[i], Country: c.LocationCountries[i]})
	}
	return locs
}

// AerisConfigured reports whether both AerisWeather credentials are set.
func (c *Config) AerisConfigured() bool {
	return c.AerisClientID != "" && c.AerisClientSecret != ""
}

// LogLevelValue maps LogLevel to a slog.Level.
func (c *Config) LogLevelValue() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
