package providers

import (
	"strings"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

var (
	hailWords    = []string{"hail", "granizo"}
	thunderWords = []string{"thunder", "tormenta"}
)

// Forecast hail probabilities assigned from day-level heuristics.
const (
	hailProbExplicit        = 90.0
	hailProbStormFavourable = 70.0
	hailProbStorm           = 40.0
	hailProbFavourable      = 20.0
)

// hailSignals are the day-level observations the hail heuristic combines.
type hailSignals struct {
	explicit     bool // a provider text or code names hail
	thunderstorm bool
	favourable   bool
}

// favourableForHail reports cold, moist, wet conditions that support hail formation.
// pop is a 0-1 probability.
func favourableForHail(temp, humidity, pop, rainMM float64) bool {
	return temp < 15 && humidity > 70 && (pop > 0.4 || rainMM > 5)
}

// probability returns the estimated hail probability (0-100), or nil when
// nothing points at hail.
func (h hailSignals) probability() *float64 {
	var p float64
	switch {
	case h.explicit:
		p = hailProbExplicit
	case h.thunderstorm && h.favourable:
		p = hailProbStormFavourable
	case h.thunderstorm:
		p = hailProbStorm
	case h.favourable:
		p = hailProbFavourable
	default:
		return nil
	}
	return &p
}

// isOWMThunderstorm matches OpenWeatherMap thunderstorm codes that carry rain.
func isOWMThunderstorm(id int) bool {
	return (id >= 200 && id <= 202) || (id >= 230 && id <= 232)
}

// newAlert normalizes a provider alert. Hail-related alerts get the "hail" type.
func newAlert(event, description, severity string, start, end time.Time, source string) weather.WeatherAlert {
	alertType := strings.ToLower(strings.TrimSpace(event))
	if common.ContainsAnyFold(event, hailWords...) || common.ContainsAnyFold(description, hailWords...) {
		alertType = weather.AlertTypeHail
	}
	if alertType == "" {
		alertType = "weather"
	}
	return weather.WeatherAlert{
		Type:        alertType,
		Severity:    weather.ParseSeverity(severity),
		Title:       event,
		Description: description,
		Start:       start,
		End:         end,
		Source:      source,
	}
}

func unixUTC(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
