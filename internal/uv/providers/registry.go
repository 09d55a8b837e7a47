package providers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/i474232898/uv-alert/internal/uv"
)

// DefaultOrder is the provider priority used when none is configured.
var DefaultOrder = []string{"currentuvindex", "euskalmet", "openweather"}

// Options carries what individual providers need.
type Options struct {
	OpenWeatherAPIKey string
	EuskalmetStation  string
	// Location is the zone of provider timestamps published without an offset.
	Location *time.Location
}

// Build instantiates providers in the given order. Unknown names are logged and skipped.
func Build(order []string, client *http.Client, opts Options, logger *slog.Logger) []uv.Provider {
	if len(order) == 0 {
		order = DefaultOrder
	}

	var provs []uv.Provider
	for _, name := range order {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "currentuvindex":
			provs = append(provs, NewCurrentUVIndexProvider(client))
		case "euskalmet":
			provs = append(provs, NewEuskalmetProvider(client, opts.EuskalmetStation, opts.Location))
		case "openweather":
			provs = append(provs, NewOpenWeatherProvider(client, opts.OpenWeatherAPIKey))
		case "openmeteo":
			provs = append(provs, NewOpenMeteoProvider(client))
		case "":
		default:
			logger.Warn("unknown uv provider ignored", "provider", name)
		}
	}
	return provs
}
