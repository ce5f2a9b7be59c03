package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	adapter
}

// NewWeatherAPIProvider builds the WeatherAPI.com adapter.
func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		adapter: newAdapter("weatherapi", "https://api.weatherapi.com/v1", apiKey, client, opts),
	}
}

type weatherAPIPayload struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		LastUpdatedEpoch int64   `json:"last_updated_epoch"`
		TempC            float64 `json:"temp_c"`
		Humidity         float64 `json:"humidity"`
		UV               float64 `json:"uv"`
		WindKph          float64 `json:"wind_kph"`
		PrecipMm         float64 `json:"precip_mm"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC          float64 `json:"maxtemp_c"`
				MinTempC          float64 `json:"mintemp_c"`
				AvgHumidity       float64 `json:"avghumidity"`
				UV                float64 `json:"uv"`
				TotalPrecipMm     float64 `json:"totalprecip_mm"`
				DailyChanceOfRain float64 `json:"daily_chance_of_rain"`
				Condition         struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []struct {
			Headline  string `json:"headline"`
			Event     string `json:"event"`
			Severity  string `json:"severity"`
			Desc      string `json:"desc"`
			Effective string `json:"effective"`
			Expires   string `json:"expires"`
		} `json:"alert"`
	} `json:"alerts"`
}

// Fetch retrieves current conditions, a 7-day forecast and alerts in a single call.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%s: %w", p.name, errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))
	values.Set("days", "7")
	values.Set("alerts", "yes")

	var payload weatherAPIPayload
	if err := p.getJSON(ctx, p.baseURL+"/forecast.json?"+values.Encode(), &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	ts := unixUTC(payload.Current.LastUpdatedEpoch)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	forecast := make([]weather.ForecastDay, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		d := fd.Day
		signals := hailSignals{
			explicit:     common.ContainsAnyFold(d.Condition.Text, hailWords...),
			thunderstorm: common.ContainsAnyFold(d.Condition.Text, thunderWords...),
			favourable:   favourableForHail(d.MinTempC, d.AvgHumidity, d.DailyChanceOfRain/100, d.TotalPrecipMm),
		}
		forecast = append(forecast, weather.ForecastDay{
			Date:                     fd.Date,
			TemperatureMax:           d.MaxTempC,
			TemperatureMin:           d.MinTempC,
			Humidity:                 d.AvgHumidity,
			UVIndex:                  d.UV,
			PrecipitationProbability: d.DailyChanceOfRain,
			Condition:                d.Condition.Text,
			HailProbability:          signals.probability(),
		})
	}

	alerts := make([]weather.WeatherAlert, 0, len(payload.Alerts.Alert))
	for _, a := range payload.Alerts.Alert {
		title := a.Event
		if title == "" {
			title = a.Headline
		}
		alerts = append(alerts, newAlert(title, a.Desc, a.Severity, parseISO(a.Effective), parseISO(a.Expires), p.name))
	}

	out := loc
	out.Name = payload.Location.Name
	out.Country = payload.Location.Country
	out.Region = payload.Location.Region

	return weather.WeatherSnapshot{
		Location: out,
		Current: weather.CurrentWeather{
			Temperature:   payload.Current.TempC,
			Humidity:      payload.Current.Humidity,
			UVIndex:       payload.Current.UV,
			WindSpeed:     payload.Current.WindKph,
			Precipitation: payload.Current.PrecipMm,
			Condition:     payload.Current.Condition.Text,
			Timestamp:     ts,
		},
		Forecast: forecast,
		Alerts:   alerts,
		Source:   p.name,
	}, nil
}

// parseISO parses RFC 3339 timestamps, returning the zero time when absent or malformed.
func parseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
