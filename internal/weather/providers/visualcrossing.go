package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/harvest-advisor/internal/common"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

const visualCrossingDays = 7

// VisualCrossingProvider implements the weather.Provider interface for the
// Visual Crossing timeline API.
type VisualCrossingProvider struct {
	adapter
}

// NewVisualCrossingProvider builds the Visual Crossing adapter.
func NewVisualCrossingProvider(client *http.Client, apiKey string, opts ...Option) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		adapter: newAdapter("visualcrossing",
			"https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
			apiKey, client, opts),
	}
}

type visualCrossingPayload struct {
	ResolvedAddress   string `json:"resolvedAddress"`
	CurrentConditions struct {
		DatetimeEpoch int64   `json:"datetimeEpoch"`
		Temp          float64 `json:"temp"`
		Humidity      float64 `json:"humidity"`
		UVIndex       float64 `json:"uvindex"`
		WindSpeed     float64 `json:"windspeed"`
		Precip        float64 `json:"precip"`
		Conditions    string  `json:"conditions"`
	} `json:"currentConditions"`
	Days []struct {
		Datetime    string   `json:"datetime"`
		TempMax     float64  `json:"tempmax"`
		TempMin     float64  `json:"tempmin"`
		Humidity    float64  `json:"humidity"`
		UVIndex     float64  `json:"uvindex"`
		Precip      float64  `json:"precip"`
		PrecipProb  float64  `json:"precipprob"`
		PrecipType  []string `json:"preciptype"`
		Conditions  string   `json:"conditions"`
		Description string   `json:"description"`
	} `json:"days"`
	Alerts []struct {
		Event       string `json:"event"`
		Headline    string `json:"headline"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
		OnsetEpoch  int64  `json:"onsetEpoch"`
		EndsEpoch   int64  `json:"endsEpoch"`
	} `json:"alerts"`
}

// Fetch retrieves current conditions, the first seven forecast days and alerts.
func (p *VisualCrossingProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%s: %w", p.name, errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("unitGroup", "metric")
	values.Set("include", "current,days,alerts")
	values.Set("key", p.apiKey)
	values.Set("contentType", "json")
	endpoint := fmt.Sprintf("%s/%f,%f?%s", p.baseURL, loc.Latitude, loc.Longitude, values.Encode())

	var payload visualCrossingPayload
	if err := p.getJSON(ctx, endpoint, &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	days := payload.Days
	if len(days) > visualCrossingDays {
		days = days[:visualCrossingDays]
	}
	forecast := make([]weather.ForecastDay, 0, len(days))
	for _, d := range days {
		text := d.Conditions + " " + d.Description
		signals := hailSignals{
			explicit:     common.ContainsAnyFold(text, hailWords...) || containsFold(d.PrecipType, "hail"),
			thunderstorm: common.ContainsAnyFold(text, thunderWords...),
			favourable:   favourableForHail(d.TempMin, d.Humidity, d.PrecipProb/100, d.Precip),
		}
		forecast = append(forecast, weather.ForecastDay{
			Date:                     d.Datetime,
			TemperatureMax:           d.TempMax,
			TemperatureMin:           d.TempMin,
			Humidity:                 d.Humidity,
			UVIndex:                  d.UVIndex,
			PrecipitationProbability: d.PrecipProb,
			Condition:                d.Conditions,
			HailProbability:          signals.probability(),
		})
	}

	alerts := make([]weather.WeatherAlert, 0, len(payload.Alerts))
	for _, a := range payload.Alerts {
		title := a.Event
		if title == "" {
			title = a.Headline
		}
		alerts = append(alerts, newAlert(title, a.Description, a.Severity, unixUTC(a.OnsetEpoch), unixUTC(a.EndsEpoch), p.name))
	}

	cc := payload.CurrentConditions
	ts := unixUTC(cc.DatetimeEpoch)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	out := loc
	if payload.ResolvedAddress != "" {
		out.Name = payload.ResolvedAddress
		parts := strings.Split(payload.ResolvedAddress, ",")
		out.Country = strings.TrimSpace(parts[len(parts)-1])
	}

	return weather.WeatherSnapshot{
		Location: out,
		Current: weather.CurrentWeather{
			Temperature:   cc.Temp,
			Humidity:      cc.Humidity,
			UVIndex:       cc.UVIndex,
			WindSpeed:     cc.WindSpeed,
			Precipitation: cc.Precip,
			Condition:     cc.Conditions,
			Timestamp:     ts,
		},
		Forecast: forecast,
		Alerts:   alerts,
		Source:   p.name,
	}, nil
}

func containsFold(items []string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(it, want) {
			return true
		}
	}
	return false
}
