package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/i474232898/uv-alert/internal/config"
	"github.com/i474232898/uv-alert/internal/store"
	"github.com/i474232898/uv-alert/internal/uv"
	"github.com/i474232898/uv-alert/internal/uv/providers"
)

// newChain builds the provider chain for the configured location.
func newChain(cfg *config.AppConfig, log *slog.Logger) *uv.Chain {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	provs := providers.Build(cfg.Providers, client, providers.Options{
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		EuskalmetStation:  cfg.EuskalmetStation,
		Location:          cfg.Location(),
	}, log)
	at := uv.Coordinates{Lat: cfg.Latitude, Lon: cfg.Longitude}
	return uv.NewChain(at, provs, cfg.HTTPTimeout, cfg.Location(), log)
}

func newFormatter(cfg *config.AppConfig) uv.Formatter {
	return uv.Formatter{
		Location:  cfg.LocationName,
		Threshold: cfg.UVThreshold,
		Zone:      cfg.Location(),
	}
}

// newEngine wires the engine around a file-backed sunscreen record.
func newEngine(cfg *config.AppConfig, notifier uv.Notifier, log *slog.Logger) (*uv.Engine, error) {
	var records uv.RecordStore
	if cfg.StatePath == "" {
		records = store.NewMemoryStore()
	} else {
		fs, err := store.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("open sunscreen state: %w", err)
		}
		records = fs
	}

	tracker := uv.NewTracker(records, cfg.SkinType, cfg.Location(), log)
	monitor := uv.NewMonitor(cfg.UVThreshold, cfg.SkinType)
	return uv.NewEngine(newChain(cfg, log), monitor, tracker, notifier, newFormatter(cfg), log), nil
}

// consoleNotifier prints notifications instead of sending them.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintf(n.w, "--- notification ---\n%s\n\n", text)
	return err
}
