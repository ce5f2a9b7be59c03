package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

const aerisForecastDays = 7

var errAerisResponse = errors.New("unsuccessful response")

// AerisWeatherProvider implements the weather.Provider interface for the
// Xweather (Aeris) observations and forecasts endpoints. It authenticates with
// a client id and secret.
type AerisWeatherProvider struct {
	adapter
	clientSecret string
}

// NewAerisWeatherProvider builds the Aeris adapter.
func NewAerisWeatherProvider(client *http.Client, clientID, clientSecret string, opts ...Option) *AerisWeatherProvider {
	return &AerisWeatherProvider{
		adapter:      newAdapter("aerisweather", "https://api.aerisapi.com", clientID, client, opts),
		clientSecret: clientSecret,
	}
}

type aerisError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type aerisObservationPayload struct {
	Success  bool        `json:"success"`
	Error    *aerisError `json:"error"`
	Response struct {
		Place struct {
			Name    string `json:"name"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"place"`
		Ob *struct {
			Timestamp int64   `json:"timestamp"`
			TempC     float64 `json:"tempC"`
			Humidity  float64 `json:"humidity"`
			UVI       float64 `json:"uvi"`
			WindKPH   float64 `json:"windKPH"`
			PrecipMM  float64 `json:"precipMM"`
			Weather   string  `json:"weather"`
		} `json:"ob"`
	} `json:"response"`
}

type aerisForecastPayload struct {
	Success  bool        `json:"success"`
	Error    *aerisError `json:"error"`
	Response []struct {
		Periods []struct {
			Timestamp int64   `json:"timestamp"`
			MaxTempC  float64 `json:"maxTempC"`
			MinTempC  float64 `json:"minTempC"`
			Humidity  float64 `json:"humidity"`
			UVI       float64 `json:"uvi"`
			Pop       float64 `json:"pop"`
			PrecipMM  float64 `json:"precipMM"`
			Weather   string  `json:"weather"`
		} `json:"periods"`
	} `json:"response"`
}

// Fetch retrieves the latest observation and a seven-day daily forecast.
func (p *AerisWeatherProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" || p.clientSecret == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%s: %w", p.name, errMissingAPIKey)
	}

	var obs aerisObservationPayload
	if err := p.getJSON(ctx, p.endpoint("observations", loc, nil), &obs); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	if err := aerisCheck(p.name, obs.Success, obs.Error); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	ob := obs.Response.Ob
	if ob == nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%s: observation missing: %w", p.name, errAerisResponse)
	}

	extra := url.Values{}
	extra.Set("filter", "day")
	extra.Set("limit", fmt.Sprint(aerisForecastDays))
	var fc aerisForecastPayload
	if err := p.getJSON(ctx, p.endpoint("forecasts", loc, extra), &fc); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	if err := aerisCheck(p.name, fc.Success, fc.Error); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var forecast []weather.ForecastDay
	if len(fc.Response) > 0 {
		periods := fc.Response[0].Periods
		if len(periods) > aerisForecastDays {
			periods = periods[:aerisForecastDays]
		}
		forecast = make([]weather.ForecastDay, 0, len(periods))
		for _, d := range periods {
			signals := hailSignals{
				explicit:     common.ContainsAnyFold(d.Weather, hailWords...),
				thunderstorm: common.ContainsAnyFold(d.Weather, thunderWords...),
				favourable:   favourableForHail(d.MinTempC, d.Humidity, d.Pop/100, d.PrecipMM),
			}
			forecast = append(forecast, weather.ForecastDay{
				Date:                     unixUTC(d.Timestamp).Format(time.DateOnly),
				TemperatureMax:           d.MaxTempC,
				TemperatureMin:           d.MinTempC,
				Humidity:                 d.Humidity,
				UVIndex:                  d.UVI,
				PrecipitationProbability: d.Pop,
				Condition:                d.Weather,
				HailProbability:          signals.probability(),
			})
		}
	}

	ts := unixUTC(ob.Timestamp)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	out := loc
	if place := obs.Response.Place; place.Name != "" {
		out.Name, out.Country, out.Region = place.Name, place.Country, place.State
	}

	return weather.WeatherSnapshot{
		Location: out,
		Current: weather.CurrentWeather{
			Temperature:   ob.TempC,
			Humidity:      ob.Humidity,
			UVIndex:       ob.UVI,
			WindSpeed:     ob.WindKPH,
			Precipitation: ob.PrecipMM,
			Condition:     ob.Weather,
			Timestamp:     ts,
		},
		Forecast: forecast,
		Source:   p.name,
	}, nil
}

func (p *AerisWeatherProvider) endpoint(path string, loc weather.GeoLocation, extra url.Values) string {
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("client_id", p.apiKey)
	values.Set("client_secret", p.clientSecret)
	values.Set("format", "json")
	return fmt.Sprintf("%s/%s/%f,%f?%s", p.baseURL, path, loc.Latitude, loc.Longitude, values.Encode())
}

func aerisCheck(name string, success bool, apiErr *aerisError) error {
	if success {
		return nil
	}
	if apiErr != nil {
		return fmt.Errorf("%s: %s: %s: %w", name, apiErr.Code, apiErr.Description, errAerisResponse)
	}
	return fmt.Errorf("%s: %w", name, errAerisResponse)
}
