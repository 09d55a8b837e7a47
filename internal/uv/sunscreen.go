package uv

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultSPF = 50
	MinSPF     = 15
	MaxSPF     = 100

	// ReminderLead is how long before expiry the reapply reminder opens.
	ReminderLead = 15 * time.Minute

	minProtectionMinutes      = 30
	maxProtectionMinutes      = 240
	fallbackProtectionMinutes = 120
)

var validate = validator.New()

// NormalizeSPF returns spf if it is within [MinSPF, MaxSPF], DefaultSPF otherwise.
// The second result reports whether a correction was made.
func NormalizeSPF(spf int) (int, bool) {
	if err := validate.Var(spf, "gte=15,lte=100"); err != nil {
		return DefaultSPF, true
	}
	return spf, false
}

// ProtectionMinutes is how long sunscreen of the given SPF protects skinType at uvValue.
func ProtectionMinutes(spf int, uvValue float64, skinType int) int {
	if uvValue <= 0 {
		return fallbackProtectionMinutes
	}
	minutes := int(math.Floor(BaseMinutes(skinType) * PhotosensitivityFactor * float64(spf) / uvValue))
	return min(max(minutes, minProtectionMinutes), maxProtectionMinutes)
}

// Tracker owns the active sunscreen record and its persistence. It is not
// safe for concurrent use; Engine serializes access.
type Tracker struct {
	store    RecordStore
	skinType int
	loc      *time.Location
	record   *SunscreenRecord
	logger   *slog.Logger
}

// NewTracker loads any stored record. Load failures are logged and the tracker
// starts empty.
func NewTracker(store RecordStore, skinType int, loc *time.Location, logger *slog.Logger) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	t := &Tracker{
		store:    store,
		skinType: skinType,
		loc:      loc,
		logger:   logger.With("component", "uv.sunscreen"),
	}

	rec, err := store.Load()
	switch {
	case err == nil:
		t.record = &rec
		t.logger.Info("sunscreen record restored", "applied_at", rec.AppliedAt, "expires_at", rec.ExpiresAt)
	case errors.Is(err, ErrNoRecord):
	default:
		t.logger.Error("failed to load sunscreen record", "error", err)
	}
	return t
}

// Current returns the active record, if any.
func (t *Tracker) Current() (SunscreenRecord, bool) {
	if t.record == nil {
		return SunscreenRecord{}, false
	}
	return *t.record, true
}

// Apply records a new application, replacing any previous record.
func (t *Tracker) Apply(spf int, uvAtApplication float64, now time.Time) SunscreenRecord {
	spf, _ = NormalizeSPF(spf)
	minutes := ProtectionMinutes(spf, uvAtApplication, t.skinType)

	rec := SunscreenRecord{
		AppliedAt:         now,
		SPF:               spf,
		UVAtApplication:   uvAtApplication,
		ExpiresAt:         now.Add(time.Duration(minutes) * time.Minute),
		ProtectionMinutes: minutes,
		ReminderSent:      false,
	}
	t.record = &rec
	t.persist()

	t.logger.Info("sunscreen applied", "spf", spf, "uv", uvAtApplication, "protection_minutes", minutes)
	return rec
}

// CheckExpiryReminder reports true once per record, when now falls within
// [ExpiresAt-ReminderLead, ExpiresAt]. The record is marked and persisted
// before it returns true.
func (t *Tracker) CheckExpiryReminder(now time.Time) bool {
	if t.record == nil || t.record.ReminderSent {
		return false
	}
	opens := t.record.ExpiresAt.Add(-ReminderLead)
	if now.Before(opens) || now.After(t.record.ExpiresAt) {
		return false
	}

	t.record.ReminderSent = true
	t.persist()
	return true
}

// ResetIfNewDay clears the record when it was applied on another calendar day.
// It reports whether the record was cleared.
func (t *Tracker) ResetIfNewDay(now time.Time) bool {
	if t.record == nil || t.SameDay(t.record.AppliedAt, now) {
		return false
	}

	t.logger.Info("sunscreen record reset for new day", "applied_at", t.record.AppliedAt)
	t.record = nil
	if err := t.store.Clear(); err != nil {
		t.logger.Error("failed to clear sunscreen record", "error", err)
	}
	return true
}

// Flush writes the active record, if any, to the store.
func (t *Tracker) Flush() error {
	if t.record == nil {
		return nil
	}
	return t.store.Save(*t.record)
}

func (t *Tracker) persist() {
	if err := t.store.Save(*t.record); err != nil {
		t.logger.Error("failed to persist sunscreen record", "error", err)
	}
}

// SameDay reports whether a and b fall on the same calendar day in the
// tracker's zone.
func (t *Tracker) SameDay(a, b time.Time) bool {
	return sameDay(a.In(t.loc), b.In(t.loc))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
