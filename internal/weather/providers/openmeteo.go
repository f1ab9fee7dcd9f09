package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/weather-records/internal/weather"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

var errNoResults = errors.New("no geocoding results")

// OpenMeteoProvider implements weather.Geocoder and weather.Forecaster on
// the keyless Open-Meteo APIs.
type OpenMeteoProvider struct {
	name         string
	geocodingURL string
	forecastURL  string
	geocoding    *upstream
	forecast     *upstream
}

// NewOpenMeteoProvider creates a provider. Empty URLs use the public endpoints.
func NewOpenMeteoProvider(client *http.Client, geocodingURL, forecastURL string) *OpenMeteoProvider {
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		geocoding:    newUpstream("openmeteo-geocoding", client),
		forecast:     newUpstream("openmeteo-forecast", client),
	}
}

// WithBackoff overrides the retry policy.
func (p *OpenMeteoProvider) WithBackoff(b BackoffConfig) *OpenMeteoProvider {
	p.geocoding.backoff = b
	p.forecast.backoff = b
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Geocode returns the best match for query.
func (p *OpenMeteoProvider) Geocode(ctx context.Context, query string) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "1")

	var payload struct {
		Results []weather.Place `json:"results"`
	}
	if err := p.geocoding.getJSON(ctx, p.geocodingURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Place{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, errNoResults
	}
	return payload.Results[0], nil
}

// DailyRange returns daily max/min temperatures between start and end.
// Days the API reports without both values are skipped.
func (p *OpenMeteoProvider) DailyRange(ctx context.Context, lat, lon float64, start, end time.Time) ([]weather.DailyReading, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("start_date", start.Format(weather.DateLayout))
	values.Set("end_date", end.Format(weather.DateLayout))
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("timezone", "auto")

	var payload struct {
		Daily struct {
			Time []string   `json:"time"`
			Max  []*float64 `json:"temperature_2m_max"`
			Min  []*float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := p.forecast.getJSON(ctx, p.forecastURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	d := payload.Daily
	if len(d.Max) != len(d.Min) {
		return nil, fmt.Errorf("openmeteo: mismatched daily series (%d max, %d min)", len(d.Max), len(d.Min))
	}

	readings := make([]weather.DailyReading, 0, len(d.Max))
	for i := range d.Max {
		if d.Max[i] == nil || d.Min[i] == nil {
			continue
		}
		var date string
		if i < len(d.Time) {
			date = d.Time[i]
		}
		readings = append(readings, weather.DailyReading{
			Date: date,
			MaxC: *d.Max[i],
			MinC: *d.Min[i],
		})
	}
	return readings, nil
}
