package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/harvest-advisor/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute
	jobTimeout      = 30 * time.Second
)

// Refresher fetches a new snapshot for a location and caches it.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error)
}

// Scheduler periodically warms the snapshot cache for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
	refresher Refresher
	locations []weather.GeoLocation
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(locations []weather.GeoLocation, interval time.Duration, refresher Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval < time.Minute {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		locations: locations,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	job, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.job = job

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every configured location in parallel and reports how many succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.logger.Debug("scheduler: running weather refresh", "locations", len(s.locations))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.refresher.Refresh(ctx, loc); err != nil {
				s.logger.Warn("scheduler: refresh failed", "location", loc.Key(), "error", err)
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.logger.Info("scheduler: weather refresh completed", "succeeded", ok, "locations", len(s.locations))
	return ok
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
