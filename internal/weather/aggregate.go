package weather

import (
	"math"

	"github.com/i474232898/harvest-advisor/internal/common"
)

// Combine reconciles successful provider snapshots into a single WeatherSnapshot.
// The five scalar current-weather fields are averaged (one decimal); the condition
// is chosen by plurality, ties going to the first snapshot. Forecasts are not merged:
// the longest forecast sequence is used unmodified, along with its alerts.
// A single snapshot is returned unchanged.
func Combine(snapshots []WeatherSnapshot) (WeatherSnapshot, error) {
	switch len(snapshots) {
	case 0:
		return WeatherSnapshot{}, ErrNoWeatherData
	case 1:
		return snapshots[0], nil
	}

	var (
		temp, hum, uv, wind, precip = newRange(), newRange(), newRange(), newRange(), newRange()
		conditions                  = make([]string, 0, len(snapshots))
		providers                   = make([]string, 0, len(snapshots))
		newest                      = snapshots[0].Current.Timestamp
		forecastFrom                = 0
	)

	for i, s := range snapshots {
		temp.add(s.Current.Temperature)
		hum.add(s.Current.Humidity)
		uv.add(s.Current.UVIndex)
		wind.add(s.Current.WindSpeed)
		precip.add(s.Current.Precipitation)
		conditions = append(conditions, s.Current.Condition)
		providers = append(providers, s.Source)

		if s.Current.Timestamp.After(newest) {
			newest = s.Current.Timestamp
		}
		if len(s.Forecast) > len(snapshots[forecastFrom].Forecast) {
			forecastFrom = i
		}
	}

	out := WeatherSnapshot{
		Location: mergeLocation(snapshots),
		Current: CurrentWeather{
			Temperature:   temp.mean(),
			Humidity:      hum.mean(),
			UVIndex:       uv.mean(),
			WindSpeed:     wind.mean(),
			Precipitation: precip.mean(),
			Condition:     common.Plurality(conditions),
			Timestamp:     newest,
		},
		Forecast:  snapshots[forecastFrom].Forecast,
		Alerts:    pickAlerts(snapshots, forecastFrom),
		Source:    SourceCombined,
		Providers: providers,
	}
	return out, nil
}

// pickAlerts prefers the alerts of the snapshot that supplied the forecast,
// otherwise those of the first snapshot reporting any.
func pickAlerts(snapshots []WeatherSnapshot, preferred int) []WeatherAlert {
	if len(snapshots[preferred].Alerts) > 0 {
		return snapshots[preferred].Alerts
	}
	for _, s := range snapshots {
		if len(s.Alerts) > 0 {
			return s.Alerts
		}
	}
	return nil
}

func mergeLocation(snapshots []WeatherSnapshot) GeoLocation {
	loc := snapshots[0].Location
	for _, s := range snapshots[1:] {
		if loc.Name == "" {
			loc.Name = s.Location.Name
		}
		if loc.Country == "" {
			loc.Country = s.Location.Country
		}
		if loc.Region == "" {
			loc.Region = s.Location.Region
		}
	}
	return loc
}

// valueRange accumulates a mean and keeps the observed bounds so rounding
// never moves the result outside them.
type valueRange struct {
	sum, min, max float64
	n             int
}

func newRange() *valueRange {
	return &valueRange{min: math.Inf(1), max: math.Inf(-1)}
}

func (r *valueRange) add(v float64) {
	r.sum += v
	r.n++
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
}

func (r *valueRange) mean() float64 {
	if r.n == 0 {
		return 0
	}
	m := common.Round1(r.sum / float64(r.n))
	return math.Max(r.min, math.Min(r.max, m))
}
