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

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider reads the modelled current UV index from Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: openMeteoURL,
		client:  client,
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Source() uv.Source {
	return uv.SourceSecondary
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, at uv.Coordinates) (uv.Reading, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(at.Lon, 'f', 4, 64))
	values.Set("current", "uv_index")
	values.Set("timezone", "GMT")

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
			Time    string   `json:"time"`
			UVIndex *float64 `json:"uv_index"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return uv.Reading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}
	if payload.Current.UVIndex == nil {
		return uv.Reading{}, fmt.Errorf("openmeteo: %w", ErrMissingField)
	}

	// times are ISO8601 without seconds or zone, in the requested GMT zone
	observed, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		observed = time.Time{}
	}

	return uv.Reading{
		Value:      *payload.Current.UVIndex,
		ObservedAt: observed,
		Source:     uv.SourceSecondary,
		Provider:   p.name,
	}, nil
}
