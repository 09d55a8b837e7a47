package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/uv-alert/internal/uv"
)

const euskalmetURL = "https://api.euskalmet.euskadi.eus/uvi/estaciones/uvi/horaria"

// EuskalmetProvider reads hourly station UV from the Basque meteorological agency.
type EuskalmetProvider struct {
	name    string
	baseURL string
	station []string
	loc     *time.Location
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewEuskalmetProvider builds the provider. station is matched case-insensitively
// against station names; "gasteiz" is always tried as well. loc is the zone of
// hour stamps published without an offset; nil leaves those readings untimed.
func NewEuskalmetProvider(client *http.Client, station string, loc *time.Location) *EuskalmetProvider {
	matches := []string{"gasteiz"}
	if s := strings.ToLower(strings.TrimSpace(station)); s != "" {
		matches = append([]string{s}, matches...)
	}
	return &EuskalmetProvider{
		name:    "euskalmet",
		baseURL: euskalmetURL,
		station: matches,
		loc:     loc,
		client:  client,
		circuit: newBreaker("euskalmet"),
	}
}

func (p *EuskalmetProvider) Name() string {
	return p.name
}

func (p *EuskalmetProvider) Source() uv.Source {
	return uv.SourceSecondary
}

type euskalmetValue struct {
	Hora  string   `json:"hora"`
	Valor *float64 `json:"valor"`
}

type euskalmetStation struct {
	Nombre   string           `json:"nombre"`
	Latitud  *float64         `json:"latitud"`
	Longitud *float64         `json:"longitud"`
	Valores  []euskalmetValue `json:"valores"`
}

func (p *EuskalmetProvider) Fetch(ctx context.Context, at uv.Coordinates) (uv.Reading, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL, nil)
	if err != nil {
		return uv.Reading{}, err
	}

	body, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return uv.Reading{}, err
	}

	var stations []euskalmetStation
	if err := json.Unmarshal(body, &stations); err != nil {
		return uv.Reading{}, fmt.Errorf("decode euskalmet response: %w", err)
	}

	st, ok := p.pickStation(stations, at)
	if !ok {
		return uv.Reading{}, fmt.Errorf("euskalmet: no station with values: %w", ErrMissingField)
	}
	last := st.Valores[len(st.Valores)-1]
	if last.Valor == nil {
		return uv.Reading{}, fmt.Errorf("euskalmet station %q: %w", st.Nombre, ErrMissingField)
	}

	return uv.Reading{
		Value:      *last.Valor,
		ObservedAt: parseEuskalmetTime(last.Hora, p.loc),
		Source:     uv.SourceSecondary,
		Provider:   p.name + ":" + st.Nombre,
	}, nil
}

// pickStation prefers a station whose name matches, otherwise the nearest one.
func (p *EuskalmetProvider) pickStation(stations []euskalmetStation, at uv.Coordinates) (euskalmetStation, bool) {
	for _, match := range p.station {
		for _, st := range stations {
			if len(st.Valores) > 0 && strings.Contains(strings.ToLower(st.Nombre), match) {
				return st, true
			}
		}
	}

	var (
		best     euskalmetStation
		found    bool
		bestDist = math.Inf(1)
	)
	for _, st := range stations {
		if st.Latitud == nil || st.Longitud == nil || len(st.Valores) == 0 {
			continue
		}
		d := math.Hypot(*st.Latitud-at.Lat, *st.Longitud-at.Lon)
		if d < bestDist {
			best, bestDist, found = st, d, true
		}
	}
	return best, found
}

// parseEuskalmetTime returns zero when the hour carries no full timestamp.
// Stamps without an offset are local time in loc.
func parseEuskalmetTime(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	if loc == nil {
		return time.Time{}
	}
	if ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
