// Package geo resolves place names to coordinates and computes daylight context.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// ErrLocationNotFound is returned when a place name cannot be geocoded.
var ErrLocationNotFound = common.NewAppError(common.ErrCodeValidationLocation, "location could not be geocoded", nil)

// Resolver turns a city/country pair into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, city, country string) (weather.GeoLocation, error)
}

type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// GoogleResolver resolves places through the Google geocoding API and keeps
// successful lookups in memory.
type GoogleResolver struct {
	lookup lookupFunc

	mu    sync.RWMutex
	cache map[string]weather.GeoLocation
}

// NewGoogleResolver configures the geocoder with apiKey.
func NewGoogleResolver(apiKey string) (*GoogleResolver, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("geo: missing geocoder API key")
	}
	geocoder.ApiKey = apiKey
	return newGoogleResolver(geocoder.Geocoding), nil
}

func newGoogleResolver(fn lookupFunc) *GoogleResolver {
	return &GoogleResolver{lookup: fn, cache: make(map[string]weather.GeoLocation)}
}

// Resolve implements Resolver.
func (r *GoogleResolver) Resolve(ctx context.Context, city, country string) (weather.GeoLocation, error) {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)
	if city == "" {
		return weather.GeoLocation{}, common.NewAppError(common.ErrCodeValidationLocation, "city is required", nil)
	}
	key := strings.ToLower(city + "|" + country)

	r.mu.RLock()
	loc, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}

	if err := ctx.Err(); err != nil {
		return weather.GeoLocation{}, err
	}

	res, err := r.lookup(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.GeoLocation{}, common.NewAppError(common.ErrCodeUpstreamGeocoder, "geocoding failed", fmt.Errorf("geocode %s, %s: %w", city, country, err))
	}
	if res.Latitude == 0 && res.Longitude == 0 {
		return weather.GeoLocation{}, fmt.Errorf("geocode %s, %s: %w", city, country, ErrLocationNotFound)
	}

	loc = weather.GeoLocation{Latitude: res.Latitude, Longitude: res.Longitude, Name: city, Country: country}
	r.mu.Lock()
	r.cache[key] = loc
	r.mu.Unlock()
	return loc, nil
}

// ResolveAll resolves each city/country pair in order.
func ResolveAll(ctx context.Context, r Resolver, cities, countries []string) ([]weather.GeoLocation, error) {
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("geo: %d cities but %d countries", len(cities), len(countries))
	}
	locs := make([]weather.GeoLocation, 0, len(cities))
	for i := range cities {
		loc, err := r.Resolve(ctx, cities[i], countries[i])
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
