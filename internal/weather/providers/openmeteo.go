package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/harvest-advisor/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	adapter
}

// NewOpenMeteoProvider builds the Open-Meteo adapter.
func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		adapter: newAdapter("openmeteo", "https://api.open-meteo.com/v1/forecast", "", client, opts),
	}
}

const openMeteoTimeLayout = "2006-01-02T15:04"

type openMeteoPayload struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		UVIndex       float64 `json:"uv_index"`
	} `json:"current"`
	Daily struct {
		Time         []string  `json:"time"`
		TempMax      []float64 `json:"temperature_2m_max"`
		TempMin      []float64 `json:"temperature_2m_min"`
		HumidityMean []float64 `json:"relative_humidity_2m_mean"`
		UVIndexMax   []float64 `json:"uv_index_max"`
		PrecipProb   []float64 `json:"precipitation_probability_max"`
		PrecipSum    []float64 `json:"precipitation_sum"`
		WeatherCode  []int     `json:"weather_code"`
	} `json:"daily"`
}

// Fetch retrieves current conditions and a 7-day daily forecast.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("current", "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m,uv_index")
	values.Set("daily", "temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,uv_index_max,"+
		"precipitation_probability_max,precipitation_sum,weather_code")
	values.Set("forecast_days", "7")
	values.Set("timezone", "UTC")

	var payload openMeteoPayload
	if err := p.getJSON(ctx, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	ts, err := time.Parse(openMeteoTimeLayout, payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	d := payload.Daily
	forecast := make([]weather.ForecastDay, 0, len(d.Time))
	for i, date := range d.Time {
		code := at(d.WeatherCode, i)
		signals := hailSignals{
			explicit:     code == 96 || code == 99,
			thunderstorm: code == 95,
			favourable:   favourableForHail(atf(d.TempMin, i), atf(d.HumidityMean, i), atf(d.PrecipProb, i)/100, atf(d.PrecipSum, i)),
		}
		forecast = append(forecast, weather.ForecastDay{
			Date:                     date,
			TemperatureMax:           atf(d.TempMax, i),
			TemperatureMin:           atf(d.TempMin, i),
			Humidity:                 atf(d.HumidityMean, i),
			UVIndex:                  atf(d.UVIndexMax, i),
			PrecipitationProbability: atf(d.PrecipProb, i),
			Condition:                openMeteoCondition(code),
			HailProbability:          signals.probability(),
		})
	}

	return weather.WeatherSnapshot{
		Location: loc,
		Current: weather.CurrentWeather{
			Temperature:   payload.Current.Temperature,
			Humidity:      payload.Current.Humidity,
			UVIndex:       payload.Current.UVIndex,
			WindSpeed:     payload.Current.WindSpeed,
			Precipitation: payload.Current.Precipitation,
			Condition:     openMeteoCondition(payload.Current.WeatherCode),
			Timestamp:     ts,
		},
		Forecast: forecast,
		Source:   p.name,
	}, nil
}

// openMeteoCondition maps WMO weather codes (simplified).
func openMeteoCondition(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow"
	case code == 95:
		return "Thunderstorm"
	case code == 96 || code == 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}

func atf(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

func at(xs []int, i int) int {
	if i < len(xs) {
		return xs[i]
	}
	return -1
}
