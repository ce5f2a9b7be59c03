package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	httpapi "github.com/i474232898/harvest-advisor/internal/api/http"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/config"
	"github.com/i474232898/harvest-advisor/internal/geo"
	"github.com/i474232898/harvest-advisor/internal/render"
	"github.com/i474232898/harvest-advisor/internal/scheduler"
	"github.com/i474232898/harvest-advisor/internal/store"
	"github.com/i474232898/harvest-advisor/internal/weather"
	"github.com/i474232898/harvest-advisor/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	service := weather.NewService(
		store.NewMemoryStore(cfg.SnapshotMaxAge, clock.Real{}),
		buildProviders(cfg, httpClient),
		weather.ServiceOptions{ProviderTimeout: cfg.ProviderTimeout, Logger: log},
	)
	log.Info("weather providers configured", "providers", service.Providers())

	catalog, err := loadCatalog(cfg.VarietyCatalogPath)
	if err != nil {
		log.Error("failed to load variety catalog", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(cfg.DefaultLanguage)
	if err != nil {
		log.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	var resolver geo.Resolver
	if cfg.GeocoderAPIKey != "" {
		if resolver, err = geo.NewGoogleResolver(cfg.GeocoderAPIKey); err != nil {
			log.Error("failed to build geocoder", "error", err)
			os.Exit(1)
		}
	}

	// Scheduler that keeps configured locations warm in the cache.
	sched := scheduler.New(warmLocations(cfg, resolver, log), cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	engine := advisory.NewEngine(advisory.EngineOptions{Weather: service, Logger: log})

	app := fiber.New(fiber.Config{
		AppName:               "harvest-advisor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(compress.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Weather:  service,
		Catalog:  catalog,
		Engine:   engine,
		Renderer: renderer,
		Resolver: resolver,
		Logger:   log,
	})

	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevelValue()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// buildProviders registers every provider that has credentials. Open-Meteo
// needs none and is queried last.
func buildProviders(cfg *config.Config, client *http.Client) []weather.Provider {
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey))
	}
	if cfg.VisualCrossingAPIKey != "" {
		provs = append(provs, providers.NewVisualCrossingProvider(client, cfg.VisualCrossingAPIKey))
	}
	if cfg.AerisConfigured() {
		provs = append(provs, providers.NewAerisWeatherProvider(client, cfg.AerisClientID, cfg.AerisClientSecret))
	}
	if cfg.OpenMeteoEnabled {
		provs = append(provs, providers.NewOpenMeteoProvider(client))
	}
	return provs
}

func loadCatalog(path string) (*cannabis.Catalog, error) {
	if path == "" {
		return cannabis.DefaultCatalog()
	}
	return cannabis.LoadCatalog(path)
}

// warmLocations geocodes the configured cities. Without a geocoder nothing is warmed.
func warmLocations(cfg *config.Config, resolver geo.Resolver, log *slog.Logger) []weather.GeoLocation {
	if len(cfg.LocationCities) == 0 {
		return nil
	}
	if resolver == nil {
		log.Warn("GEOCODER_API_KEY is not set; skipping cache warm-up", "locations", cfg.Locations())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	locs, err := geo.ResolveAll(ctx, resolver, cfg.LocationCities, cfg.LocationCountries)
	if err != nil {
		log.Warn("failed to geocode configured locations", "locations", cfg.Locations(), "error", err)
		return nil
	}
	return locs
}
