package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh snapshot is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

type entry struct {
	snapshot weather.WeatherSnapshot
	savedAt  time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of the latest snapshot per location.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]entry

	maxAge time.Duration // 0 = never expires
	clock  clock.Clock
}

// NewMemoryStore creates a MemoryStore. Entries older than maxAge are treated as missing.
func NewMemoryStore(maxAge time.Duration, c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.Real{}
	}
	return &MemoryStore{
		data:   make(map[string]entry),
		maxAge: maxAge,
		clock:  c,
	}
}

// SaveSnapshot replaces the cached snapshot for key.
func (s *MemoryStore) SaveSnapshot(key string, snapshot weather.WeatherSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{snapshot: snapshot, savedAt: s.clock.Now()}
	s.evictLocked()
}

// GetLatest returns the cached snapshot for key if it has not expired.
func (s *MemoryStore) GetLatest(key string) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.expired(e) {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return e.snapshot, nil
}

// Len returns the number of cached locations, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(e entry) bool {
	return s.maxAge > 0 && s.clock.Now().Sub(e.savedAt) > s.maxAge
}

// evictLocked drops expired entries. Caller must hold the write lock.
func (s *MemoryStore) evictLocked() {
	if s.maxAge <= 0 {
		return
	}
	for k, e := range s.data {
		if s.expired(e) {
			delete(s.data, k)
		}
	}
}
