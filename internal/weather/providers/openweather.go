package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	adapter
}

// NewOpenWeatherProvider builds the OpenWeatherMap adapter.
func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		adapter: newAdapter("openweathermap", "https://api.openweathermap.org/data/2.5", apiKey, client, opts),
	}
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmCurrent struct {
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	UVI  float64 `json:"uvi"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Weather []owmCondition `json:"weather"`
}

type owmSlot struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Pop  float64 `json:"pop"`
	Rain struct {
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Weather []owmCondition `json:"weather"`
}

type owmForecast struct {
	List []owmSlot `json:"list"`
}

type owmAlerts struct {
	Alerts []struct {
		SenderName  string `json:"sender_name"`
		Event       string `json:"event"`
		Start       int64  `json:"start"`
		End         int64  `json:"end"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	} `json:"alerts"`
}

// Fetch retrieves current conditions, the 5-day/3-hour forecast and, when the
// plan allows it, One Call alerts.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%s: %w", p.name, errMissingAPIKey)
	}

	var cur owmCurrent
	if err := p.getJSON(ctx, p.endpoint("/weather", loc, nil), &cur); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var fc owmForecast
	if err := p.getJSON(ctx, p.endpoint("/forecast", loc, nil), &fc); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	// Alerts need a One Call subscription; their absence is not a failure.
	var al owmAlerts
	extra := url.Values{"exclude": {"minutely,hourly"}}
	if err := p.getJSON(ctx, p.endpoint("/onecall", loc, extra), &al); err != nil {
		al = owmAlerts{}
	}

	alerts := make([]weather.WeatherAlert, 0, len(al.Alerts))
	for _, a := range al.Alerts {
		source := a.SenderName
		if source == "" {
			source = p.name
		}
		alerts = append(alerts, newAlert(a.Event, a.Description, a.Severity, unixUTC(a.Start), unixUTC(a.End), source))
	}

	ts := unixUTC(cur.Dt)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	out := loc
	out.Name = cur.Name
	out.Country = cur.Sys.Country

	return weather.WeatherSnapshot{
		Location: out,
		Current: weather.CurrentWeather{
			Temperature:   cur.Main.Temp,
			Humidity:      cur.Main.Humidity,
			UVIndex:       cur.UVI,
			WindSpeed:     msToKmh(cur.Wind.Speed),
			Precipitation: cur.Rain.OneH,
			Condition:     firstDescription(cur.Weather),
			Timestamp:     ts,
		},
		Forecast: groupOWMSlots(fc.List),
		Alerts:   alerts,
		Source:   p.name,
	}, nil
}

func (p *OpenWeatherProvider) endpoint(path string, loc weather.GeoLocation, extra url.Values) string {
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("lat", fmt.Sprintf("%f", loc.Latitude))
	values.Set("lon", fmt.Sprintf("%f", loc.Longitude))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	return p.baseURL + path + "?" + values.Encode()
}

// groupOWMSlots folds 3-hour slots into calendar days (UTC), preserving order.
func groupOWMSlots(slots []owmSlot) []weather.ForecastDay {
	var (
		order  []string
		byDate = map[string][]owmSlot{}
	)
	for _, s := range slots {
		date := time.Unix(s.Dt, 0).UTC().Format(time.DateOnly)
		if _, ok := byDate[date]; !ok {
			order = append(order, date)
		}
		byDate[date] = append(byDate[date], s)
	}

	days := make([]weather.ForecastDay, 0, len(order))
	for _, date := range order {
		days = append(days, summarizeOWMDay(date, byDate[date]))
	}
	return days
}

func summarizeOWMDay(date string, items []owmSlot) weather.ForecastDay {
	var (
		tMax, tMin   = math.Inf(-1), math.Inf(1)
		humSum, pMax float64
		wet          bool
		conditions   = make([]string, 0, len(items))
		signals      hailSignals
	)

	for _, it := range items {
		tMax = math.Max(tMax, it.Main.Temp)
		tMin = math.Min(tMin, it.Main.Temp)
		humSum += it.Main.Humidity
		pMax = math.Max(pMax, it.Pop*100)
		if it.Pop > 0.3 || it.Rain.ThreeH > 0 {
			wet = true
		}

		desc := firstDescription(it.Weather)
		conditions = append(conditions, desc)
		if common.ContainsAnyFold(desc, hailWords...) {
			signals.explicit = true
		}
		if len(it.Weather) > 0 && isOWMThunderstorm(it.Weather[0].ID) {
			signals.thunderstorm = true
		}
		if favourableForHail(it.Main.Temp, it.Main.Humidity, it.Pop, it.Rain.ThreeH) {
			signals.favourable = true
		}
	}

	day := weather.ForecastDay{
		Date:            date,
		TemperatureMax:  tMax,
		TemperatureMin:  tMin,
		Humidity:        common.Round1(humSum / float64(len(items))),
		Condition:       common.Plurality(conditions),
		HailProbability: signals.probability(),
	}
	if wet {
		day.PrecipitationProbability = pMax
	}
	return day
}

func firstDescription(items []owmCondition) string {
	if len(items) == 0 {
		return ""
	}
	if items[0].Description != "" {
		return items[0].Description
	}
	return items[0].Main
}
