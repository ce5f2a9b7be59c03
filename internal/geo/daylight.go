package geo

import (
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// Daylight is informational sun context for a location and day.
type Daylight struct {
	Sunrise   time.Time     `json:"sunrise"`
	Sunset    time.Time     `json:"sunset"`
	DayLength time.Duration `json:"-"`
	// Hours is DayLength rounded to one decimal.
	Hours float64 `json:"day_length_hours"`
}

// DaylightAt returns sunrise, sunset and day length at loc on day's date (UTC).
// ok is false when the sun does not rise or set that day.
func DaylightAt(loc weather.GeoLocation, day time.Time) (Daylight, bool) {
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	times := suncalc.GetTimes(noon, loc.Latitude, loc.Longitude)

	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	if !nearNoon(sunrise, noon) || !nearNoon(sunset, noon) || !sunset.After(sunrise) {
		return Daylight{}, false
	}

	length := sunset.Sub(sunrise)
	return Daylight{
		Sunrise:   sunrise.UTC(),
		Sunset:    sunset.UTC(),
		DayLength: length,
		Hours:     common.Round1(length.Hours()),
	}, true
}

// nearNoon rejects the undefined times returned for polar day or night.
func nearNoon(t, noon time.Time) bool {
	d := t.Sub(noon)
	return !t.IsZero() && d > -24*time.Hour && d < 24*time.Hour
}
