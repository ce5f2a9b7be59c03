package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// Fetch returns the provider's own snapshot; Source must be the provider name.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc GeoLocation) (WeatherSnapshot, error)
}

// Store is the contract the snapshot cache must satisfy.
type Store interface {
	SaveSnapshot(key string, snapshot WeatherSnapshot)
	GetLatest(key string) (WeatherSnapshot, error)
}
