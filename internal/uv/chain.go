package uv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// MaxReadingAge is the oldest timestamped reading the chain accepts.
	MaxReadingAge = 75 * time.Minute

	defaultFetchTimeout = 20 * time.Second
)

var (
	// ErrProviderDisabled marks a provider that cannot run, e.g. a missing credential.
	ErrProviderDisabled = errors.New("provider disabled")
	// ErrStaleReading is returned for readings older than MaxReadingAge.
	ErrStaleReading = errors.New("stale reading")
	// ErrInvalidReading is returned for readings that cannot be a UV index.
	ErrInvalidReading = errors.New("invalid reading")
)

// Chain tries providers in priority order and falls back to Estimate.
type Chain struct {
	providers []Provider
	at        Coordinates
	timeout   time.Duration
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// NewChain builds a source chain. Providers are tried in the given order.
// loc is the local zone the estimator reads the hour and season in.
func NewChain(at Coordinates, providers []Provider, timeout time.Duration, loc *time.Location, logger *slog.Logger) *Chain {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Chain{
		providers: providers,
		at:        at,
		timeout:   timeout,
		loc:       loc,
		logger:    logger.With("component", "uv.chain"),
		now:       time.Now,
	}
}

// Reading returns the first acceptable provider reading, or an estimate.
// It never fails.
func (c *Chain) Reading(ctx context.Context) Reading {
	for _, p := range c.providers {
		r, err := c.try(ctx, p)
		if err == nil {
			c.logger.Info("uv reading accepted", "provider", p.Name(), "value", r.Value, "observed_at", r.ObservedAt)
			return r
		}
		if errors.Is(err, ErrProviderDisabled) {
			c.logger.Debug("uv provider skipped", "provider", p.Name(), "error", err)
			continue
		}
		c.logger.Warn("uv provider failed", "provider", p.Name(), "error", err)
	}

	now := c.now()
	r := Reading{
		Value:      Estimate(now.In(c.loc)),
		ObservedAt: now,
		Source:     SourceEstimate,
		Provider:   "estimator",
	}
	c.logger.Info("uv providers exhausted; using estimate", "value", r.Value)
	return r
}

// CurrentUV returns only the value of Reading.
func (c *Chain) CurrentUV(ctx context.Context) float64 {
	return c.Reading(ctx).Value
}

func (c *Chain) try(ctx context.Context, p Provider) (Reading, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	r, err := p.Fetch(fetchCtx, c.at)
	if err != nil {
		return Reading{}, err
	}
	if r.Value < 0 {
		return Reading{}, fmt.Errorf("%w: negative value %v", ErrInvalidReading, r.Value)
	}
	if !r.ObservedAt.IsZero() {
		if age := c.now().Sub(r.ObservedAt); age > MaxReadingAge {
			return Reading{}, fmt.Errorf("%w: observed %s ago", ErrStaleReading, age.Round(time.Minute))
		}
	}
	if r.Source == "" {
		r.Source = p.Source()
	}
	if r.Provider == "" {
		r.Provider = p.Name()
	}
	return r, nil
}
