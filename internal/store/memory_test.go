package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/harvest-advisor/internal/weather"
)

type manualClock struct{ now time.Time }

func (m *manualClock) Now() time.Time { return m.now }

func TestMemoryStore_LatestWins(t *testing.T) {
	s := NewMemoryStore(0, nil)

	_, err := s.GetLatest("a")
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveSnapshot("a", weather.WeatherSnapshot{Source: "first"})
	s.SaveSnapshot("a", weather.WeatherSnapshot{Source: "second"})

	got, err := s.GetLatest("a")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Source)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	c := &manualClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(15*time.Minute, c)

	s.SaveSnapshot("a", weather.WeatherSnapshot{Source: "x"})

	c.now = c.now.Add(10 * time.Minute)
	_, err := s.GetLatest("a")
	require.NoError(t, err)

	c.now = c.now.Add(6 * time.Minute)
	_, err = s.GetLatest("a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Saving another key evicts the stale one.
	s.SaveSnapshot("b", weather.WeatherSnapshot{})
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_SatisfiesWeatherStore(t *testing.T) {
	var _ weather.Store = NewMemoryStore(time.Minute, nil)
}
