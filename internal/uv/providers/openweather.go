package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/uv-alert/internal/uv"
)

const openWeatherURL = "https://api.openweathermap.org/data/3.0/onecall"

// OpenWeatherProvider reads current UV from the OpenWeatherMap One Call API.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweather",
		apiKey:  apiKey,
		baseURL: openWeatherURL,
		client:  client,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Source() uv.Source {
	return uv.SourceSecondary
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, at uv.Coordinates) (uv.Reading, error) {
	if p.apiKey == "" {
		return uv.Reading{}, ErrMissingAPIKey
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(at.Lon, 'f', 4, 64))
	values.Set("exclude", "minutely,hourly,daily,alerts")
	values.Set("appid", p.apiKey)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return uv.Reading{}, err
	}

	body, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return uv.Reading{}, err
	}

	var payload struct {
		Current struct {
			Dt  int64    `json:"dt"`
			UVI *float64 `json:"uvi"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return uv.Reading{}, fmt.Errorf("decode openweather response: %w", err)
	}
	if payload.Current.UVI == nil {
		return uv.Reading{}, fmt.Errorf("openweather: %w", ErrMissingField)
	}

	var observed time.Time
	if payload.Current.Dt > 0 {
		observed = time.Unix(payload.Current.Dt, 0).UTC()
	}

	return uv.Reading{
		Value:      *payload.Current.UVI,
		ObservedAt: observed,
		Source:     uv.SourceSecondary,
		Provider:   p.name,
	}, nil
}
