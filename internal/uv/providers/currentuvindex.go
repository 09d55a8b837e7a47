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

const currentUVIndexURL = "https://currentuvindex.com/api/v1/uvi"

// CurrentUVIndexProvider reads real-time UV from currentuvindex.com. No key is needed.
type CurrentUVIndexProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewCurrentUVIndexProvider(client *http.Client) *CurrentUVIndexProvider {
	return &CurrentUVIndexProvider{
		name:    "currentuvindex",
		baseURL: currentUVIndexURL,
		client:  client,
		circuit: newBreaker("currentuvindex"),
	}
}

func (p *CurrentUVIndexProvider) Name() string {
	return p.name
}

func (p *CurrentUVIndexProvider) Source() uv.Source {
	return uv.SourcePrimary
}

func (p *CurrentUVIndexProvider) Fetch(ctx context.Context, at uv.Coordinates) (uv.Reading, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(at.Lon, 'f', 4, 64))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return uv.Reading{}, err
	}

	body, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return uv.Reading{}, err
	}

	var payload struct {
		OK  bool `json:"ok"`
		Now struct {
			Time string   `json:"time"`
			UVI  *float64 `json:"uvi"`
		} `json:"now"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return uv.Reading{}, fmt.Errorf("decode currentuvindex response: %w", err)
	}
	if !payload.OK {
		return uv.Reading{}, fmt.Errorf("currentuvindex reported ok=false")
	}
	if payload.Now.UVI == nil {
		return uv.Reading{}, fmt.Errorf("currentuvindex: %w", ErrMissingField)
	}

	var observed time.Time
	if ts, err := time.Parse(time.RFC3339, payload.Now.Time); err == nil {
		observed = ts.UTC()
	}

	return uv.Reading{
		Value:      *payload.Now.UVI,
		ObservedAt: observed,
		Source:     uv.SourcePrimary,
		Provider:   p.name,
	}, nil
}
