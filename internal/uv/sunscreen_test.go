package uv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rec     *SunscreenRecord
	saves   int
	clears  int
	saveErr error
	loadErr error
}

func (f *fakeStore) Load() (SunscreenRecord, error) {
	if f.loadErr != nil {
		return SunscreenRecord{}, f.loadErr
	}
	if f.rec == nil {
		return SunscreenRecord{}, ErrNoRecord
	}
	return *f.rec, nil
}

func (f *fakeStore) Save(rec SunscreenRecord) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rec = &rec
	return nil
}

func (f *fakeStore) Clear() error {
	f.clears++
	f.rec = nil
	return nil
}

var madrid = time.FixedZone("CEST", 2*60*60)

func TestNormalizeSPF(t *testing.T) {
	spf, corrected := NormalizeSPF(30)
	require.Equal(t, 30, spf)
	require.False(t, corrected)

	for _, bad := range []int{0, -5, 14, 101, 1000} {
		spf, corrected = NormalizeSPF(bad)
		require.Equal(t, DefaultSPF, spf)
		require.True(t, corrected)
	}

	spf, corrected = NormalizeSPF(MinSPF)
	require.Equal(t, MinSPF, spf)
	require.False(t, corrected)
	spf, _ = NormalizeSPF(MaxSPF)
	require.Equal(t, MaxSPF, spf)
}

func TestProtectionMinutes(t *testing.T) {
	require.Equal(t, 240, ProtectionMinutes(50, 8, 2))
	// floor(100 * 0.5 * 15 / 8) = 93
	require.Equal(t, 93, ProtectionMinutes(15, 8, 2))
	// floor(67 * 0.5 * 15 / 11) = 45
	require.Equal(t, 45, ProtectionMinutes(15, 11, 1))
	require.Equal(t, 30, ProtectionMinutes(15, 40, 1))
	require.Equal(t, 120, ProtectionMinutes(50, 0, 2))
}

func TestProtectionMinutesMonotonic(t *testing.T) {
	for skin := 1; skin <= 6; skin++ {
		for _, uvValue := range []float64{0.5, 2, 5, 8, 11} {
			prev := 0
			for spf := MinSPF; spf <= MaxSPF; spf += 5 {
				m := ProtectionMinutes(spf, uvValue, skin)
				require.GreaterOrEqual(t, m, prev)
				require.GreaterOrEqual(t, m, 30)
				require.LessOrEqual(t, m, 240)
				prev = m
			}
		}
		for spf := MinSPF; spf <= MaxSPF; spf += 17 {
			prev := 241
			for _, uvValue := range []float64{0.5, 1, 3, 6, 9, 12, 15} {
				m := ProtectionMinutes(spf, uvValue, skin)
				require.LessOrEqual(t, m, prev)
				prev = m
			}
		}
	}
}

func TestTrackerApplyPersistsAndReplaces(t *testing.T) {
	store := &fakeStore{}
	tr := NewTracker(store, 2, madrid, discardLogger())
	now := time.Date(2025, time.July, 1, 11, 0, 0, 0, madrid)

	rec := tr.Apply(50, 8, now)
	require.Equal(t, 240, rec.ProtectionMinutes)
	require.Equal(t, now.Add(240*time.Minute), rec.ExpiresAt)
	require.False(t, rec.ReminderSent)
	require.Equal(t, rec, *store.rec)

	rec = tr.Apply(7, 8, now.Add(time.Hour))
	require.Equal(t, DefaultSPF, rec.SPF)
	require.Equal(t, now.Add(time.Hour), store.rec.AppliedAt)
}

func TestTrackerReminderFiresOnce(t *testing.T) {
	store := &fakeStore{}
	tr := NewTracker(store, 2, madrid, discardLogger())
	now := time.Date(2025, time.July, 1, 11, 0, 0, 0, madrid)
	rec := tr.Apply(15, 8, now)

	require.False(t, tr.CheckExpiryReminder(rec.ExpiresAt.Add(-16*time.Minute)))
	require.True(t, tr.CheckExpiryReminder(rec.ExpiresAt.Add(-10*time.Minute)))
	require.True(t, store.rec.ReminderSent)
	require.False(t, tr.CheckExpiryReminder(rec.ExpiresAt.Add(-5*time.Minute)))

	// a new application starts a new reminder cycle
	rec = tr.Apply(15, 8, rec.ExpiresAt)
	require.True(t, tr.CheckExpiryReminder(rec.ExpiresAt))
}

func TestTrackerReminderNotAfterExpiry(t *testing.T) {
	tr := NewTracker(&fakeStore{}, 2, madrid, discardLogger())
	rec := tr.Apply(30, 6, time.Date(2025, time.July, 1, 11, 0, 0, 0, madrid))

	require.False(t, tr.CheckExpiryReminder(rec.ExpiresAt.Add(time.Second)))
}

func TestTrackerReminderSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{}
	tr := NewTracker(store, 2, madrid, discardLogger())
	rec := tr.Apply(30, 6, time.Date(2025, time.July, 1, 11, 0, 0, 0, madrid))

	store.saveErr = errors.New("disk full")
	require.True(t, tr.CheckExpiryReminder(rec.ExpiresAt.Add(-time.Minute)))
	require.False(t, tr.CheckExpiryReminder(rec.ExpiresAt))
}

func TestTrackerResetIfNewDay(t *testing.T) {
	store := &fakeStore{}
	tr := NewTracker(store, 2, madrid, discardLogger())
	yesterday := time.Date(2025, time.July, 1, 23, 30, 0, 0, madrid)
	tr.Apply(50, 0, yesterday)

	require.False(t, tr.ResetIfNewDay(yesterday.Add(20*time.Minute)))
	_, ok := tr.Current()
	require.True(t, ok)

	require.True(t, tr.ResetIfNewDay(yesterday.Add(31*time.Minute)))
	_, ok = tr.Current()
	require.False(t, ok)
	require.Nil(t, store.rec)
	require.Equal(t, 1, store.clears)
}

func TestTrackerResetUsesLocalCalendar(t *testing.T) {
	tr := NewTracker(&fakeStore{}, 2, madrid, discardLogger())
	// 23:30 UTC on the 1st is already the 2nd in Madrid
	tr.Apply(50, 3, time.Date(2025, time.July, 1, 23, 30, 0, 0, time.UTC))

	require.False(t, tr.ResetIfNewDay(time.Date(2025, time.July, 2, 9, 0, 0, 0, madrid)))
}

func TestTrackerRestoresStoredRecord(t *testing.T) {
	stored := SunscreenRecord{SPF: 30, AppliedAt: time.Date(2025, time.July, 1, 10, 0, 0, 0, madrid), ProtectionMinutes: 60}
	tr := NewTracker(&fakeStore{rec: &stored}, 2, madrid, discardLogger())

	rec, ok := tr.Current()
	require.True(t, ok)
	require.Equal(t, 30, rec.SPF)

	broken := NewTracker(&fakeStore{loadErr: errors.New("corrupt")}, 2, madrid, discardLogger())
	_, ok = broken.Current()
	require.False(t, ok)
}
