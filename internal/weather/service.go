package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/harvest-advisor/internal/common"
)

var (
	// ErrNoWeatherData is returned when no provider produced a snapshot.
	ErrNoWeatherData = common.NewAppError(common.ErrCodeUpstreamWeather, "no weather data available", nil)
	// ErrNoProviders is wrapped into ErrNoWeatherData when nothing is configured.
	ErrNoProviders = errors.New("no weather providers configured")
)

const defaultProviderTimeout = 8 * time.Second

// ProviderStats is a point-in-time view of a provider's call outcomes.
type ProviderStats struct {
	Name      string `json:"name"`
	Successes int64  `json:"successes"`
	Failures  int64  `json:"failures"`
}

type providerCounters struct {
	successes *atomic.Int64
	failures  *atomic.Int64
}

// ServiceOptions tunes a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	ProviderTimeout time.Duration
	Logger          *slog.Logger
}

// Service orchestrates fetching from multiple providers and caching the combined snapshot.
type Service struct {
	store     Store
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
	counters  map[string]providerCounters
}

// NewService creates a new Service. store may be nil, in which case nothing is cached.
func NewService(store Store, providers []Provider, opts ServiceOptions) *Service {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	counters := make(map[string]providerCounters, len(providers))
	for _, p := range providers {
		counters[p.Name()] = providerCounters{
			successes: atomic.NewInt64(0),
			failures:  atomic.NewInt64(0),
		}
	}

	return &Service{
		store:     store,
		providers: providers,
		timeout:   opts.ProviderTimeout,
		logger:    opts.Logger,
		counters:  counters,
	}
}

// Providers returns the names of the configured providers in query order.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Fetch queries every provider in parallel and reconciles the successful
// snapshots. A provider failing or exceeding its timeout never aborts the others;
// only when every provider fails is ErrNoWeatherData returned.
func (s *Service) Fetch(ctx context.Context, loc GeoLocation) (WeatherSnapshot, error) {
	if len(s.providers) == 0 {
		s.logger.Error("no weather providers configured", "location", loc.Key())
		return WeatherSnapshot{}, fmt.Errorf("%w: %w", ErrNoWeatherData, ErrNoProviders)
	}

	// One slot per provider keeps combination order deterministic.
	results := make([]*WeatherSnapshot, len(s.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			snap, err := s.fetchOne(gctx, p, loc)
			if err != nil {
				s.logger.Warn("provider fetch failed",
					"provider", p.Name(), "location", loc.Key(), "error", err)
				return nil
			}
			results[i] = &snap
			return nil
		})
	}
	_ = g.Wait()

	successes := make([]WeatherSnapshot, 0, len(results))
	for _, r := range results {
		if r != nil {
			successes = append(successes, *r)
		}
	}

	if len(successes) == 0 {
		s.logger.Error("all weather providers failed", "location", loc.Key(), "providers", len(s.providers))
		return WeatherSnapshot{}, ErrNoWeatherData
	}

	s.logger.Debug("weather providers reconciled",
		"location", loc.Key(), "succeeded", len(successes), "configured", len(s.providers))
	return Combine(successes)
}

func (s *Service) fetchOne(ctx context.Context, p Provider, loc GeoLocation) (WeatherSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := p.Fetch(ctx, loc)
	c := s.counters[p.Name()]
	if err != nil {
		if c.failures != nil {
			c.failures.Inc()
		}
		return WeatherSnapshot{}, err
	}
	if c.successes != nil {
		c.successes.Inc()
	}

	if snap.Source == "" {
		snap.Source = p.Name()
	}
	if snap.Location == (GeoLocation{}) {
		snap.Location = loc
	}
	if len(snap.Providers) == 0 {
		snap.Providers = []string{p.Name()}
	}
	return snap, nil
}

// FetchCached returns the cached snapshot for loc when the store still holds a
// fresh one, otherwise it fetches and caches a new one.
func (s *Service) FetchCached(ctx context.Context, loc GeoLocation) (WeatherSnapshot, error) {
	if s.store != nil {
		if snap, err := s.store.GetLatest(loc.Key()); err == nil {
			return snap, nil
		}
	}
	return s.Refresh(ctx, loc)
}

// Refresh fetches a new snapshot and stores it. On failure the previously
// cached snapshot, if any, is left untouched.
func (s *Service) Refresh(ctx context.Context, loc GeoLocation) (WeatherSnapshot, error) {
	snap, err := s.Fetch(ctx, loc)
	if err != nil {
		return WeatherSnapshot{}, err
	}
	if s.store != nil {
		s.store.SaveSnapshot(loc.Key(), snap)
	}
	return snap, nil
}

// Stats returns per-provider call counters in provider order.
func (s *Service) Stats() []ProviderStats {
	out := make([]ProviderStats, 0, len(s.providers))
	for _, p := range s.providers {
		c := s.counters[p.Name()]
		out = append(out, ProviderStats{
			Name:      p.Name(),
			Successes: c.successes.Load(),
			Failures:  c.failures.Load(),
		})
	}
	return out
}
