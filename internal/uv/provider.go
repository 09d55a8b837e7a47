package uv

import (
	"context"
	"errors"
)

// ErrNoRecord is returned by a RecordStore when no sunscreen record is stored.
var ErrNoRecord = errors.New("no sunscreen record")

// Provider abstracts a UV data source (e.g. CurrentUVIndex, Euskalmet, OpenWeather).
type Provider interface {
	Name() string
	Source() Source
	Fetch(ctx context.Context, at Coordinates) (Reading, error)
}

// Notifier delivers rich-text (HTML) messages to the user.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// RecordStore persists the single active sunscreen record.
type RecordStore interface {
	Load() (SunscreenRecord, error)
	Save(rec SunscreenRecord) error
	Clear() error
}
