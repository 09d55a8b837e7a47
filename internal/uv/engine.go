package uv

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReadingSource yields a UV reading and never fails. *Chain implements it.
type ReadingSource interface {
	Reading(ctx context.Context) Reading
}

// Engine owns the UV state and the sunscreen record. The check loop and the
// command listeners share one Engine; every state access goes through mu.
type Engine struct {
	mu       sync.Mutex
	source   ReadingSource
	monitor  *Monitor
	tracker  *Tracker
	notifier Notifier
	format   Formatter
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine wires the state machine, tracker and notifier together.
func NewEngine(source ReadingSource, monitor *Monitor, tracker *Tracker, notifier Notifier, format Formatter, logger *slog.Logger) *Engine {
	return &Engine{
		source:   source,
		monitor:  monitor,
		tracker:  tracker,
		notifier: notifier,
		format:   format,
		logger:   logger.With("component", "uv.engine"),
		now:      time.Now,
	}
}

// Formatter returns the message formatter used by the engine.
func (e *Engine) Formatter() Formatter { return e.format }

type outgoing struct {
	kind IntentKind
	text string
}

// RunCheck fetches a reading, updates the state, runs housekeeping and
// delivers any resulting notifications.
func (e *Engine) RunCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := e.logger.With("check_id", uuid.NewString())

	reading := e.source.Reading(ctx)

	e.mu.Lock()
	now := e.now()
	var out []outgoing
	if intent, ok := e.monitor.Evaluate(reading); ok {
		out = append(out, outgoing{kind: intent.Kind, text: e.format.Render(intent, SunscreenRecord{}, now)})
	}
	out = append(out, e.housekeepingLocked(now)...)
	state := e.monitor.State()
	e.mu.Unlock()

	level := LevelFor(state.CurrentValue)
	log.Info("uv check completed",
		"value", state.CurrentValue,
		"source", reading.Source,
		"provider", reading.Provider,
		"dangerous", state.IsDangerous,
		"level", level.Label,
	)

	e.deliver(ctx, log, out)
	return nil
}

// Housekeeping runs the daily reset and the reminder check without fetching.
func (e *Engine) Housekeeping(ctx context.Context) {
	e.mu.Lock()
	out := e.housekeepingLocked(e.now())
	e.mu.Unlock()

	e.deliver(ctx, e.logger, out)
}

func (e *Engine) housekeepingLocked(now time.Time) []outgoing {
	e.tracker.ResetIfNewDay(now)
	if !e.tracker.CheckExpiryReminder(now) {
		return nil
	}
	rec, _ := e.tracker.Current()
	return []outgoing{{kind: IntentReminder, text: e.format.Reminder(rec, now)}}
}

func (e *Engine) deliver(ctx context.Context, log *slog.Logger, out []outgoing) {
	for _, msg := range out {
		if err := e.notifier.Send(ctx, msg.text); err != nil {
			log.Error("failed to deliver notification", "kind", msg.kind, "error", err)
			continue
		}
		log.Info("notification delivered", "kind", msg.kind)
	}
}

// ApplySunscreen registers an application at the current UV value. The second
// result reports whether spf was out of range and replaced by DefaultSPF.
func (e *Engine) ApplySunscreen(ctx context.Context, spf int) (SunscreenRecord, bool) {
	e.mu.Lock()
	state := e.monitor.State()
	fresh := e.tracker.SameDay(state.LastUpdated, e.now())
	e.mu.Unlock()

	// a reading from an earlier day says nothing about the sun right now
	uvValue := state.CurrentValue
	if state.LastUpdated.IsZero() || !fresh {
		uvValue = e.source.Reading(ctx).Value
	}

	normalized, corrected := NormalizeSPF(spf)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Apply(normalized, uvValue, e.now()), corrected
}

// Status returns a snapshot of the UV state and sunscreen protection.
func (e *Engine) Status(_ context.Context) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	state := e.monitor.State()
	st := Status{
		State:       state,
		Level:       LevelFor(state.CurrentValue),
		Threshold:   e.monitor.Threshold(),
		SkinType:    e.monitor.SkinType(),
		SafeMinutes: SafeExposureMinutes(state.CurrentValue, e.monitor.SkinType()),
		Burn:        BurnTimesFor(state.CurrentValue),
		GeneratedAt: now,
	}
	if rec, ok := e.tracker.Current(); ok {
		st.Sunscreen = &rec
		if left := rec.ExpiresAt.Sub(now); left > 0 {
			st.ProtectionRemaining = int(math.Ceil(left.Minutes()))
		}
	}
	return st
}

// Flush persists the active sunscreen record.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Flush()
}
