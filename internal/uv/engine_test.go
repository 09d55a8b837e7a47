package uv

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu      sync.Mutex
	reading Reading
	calls   int
}

func (s *stubSource) Reading(context.Context) Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reading
}

func (s *stubSource) set(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = Reading{Value: v, Source: SourcePrimary, Provider: "stub"}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

type engineFixture struct {
	engine   *Engine
	source   *stubSource
	notifier *recordingNotifier
	store    *fakeStore
	clock    *time.Time
}

func newEngineFixture(t *testing.T) engineFixture {
	t.Helper()
	clock := time.Date(2025, time.July, 1, 11, 0, 0, 0, madrid)
	source := &stubSource{}
	notifier := &recordingNotifier{}
	store := &fakeStore{}

	monitor := NewMonitor(6, 2)
	monitor.now = func() time.Time { return clock }
	tracker := NewTracker(store, 2, madrid, discardLogger())
	format := Formatter{Location: "Vitoria-Gasteiz", Threshold: 6, Zone: madrid}

	e := NewEngine(source, monitor, tracker, notifier, format, discardLogger())
	e.now = func() time.Time { return clock }
	return engineFixture{engine: e, source: source, notifier: notifier, store: store, clock: &clock}
}

func TestEngineDangerThenSafe(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	f.source.set(7.2)
	require.NoError(t, f.engine.RunCheck(ctx))
	require.True(t, f.engine.Status(ctx).State.IsDangerous)

	require.NoError(t, f.engine.RunCheck(ctx))
	sent := f.notifier.messages()
	require.Len(t, sent, 1)
	require.Contains(t, sent[0], "UV ALERT - Vitoria-Gasteiz")
	require.Contains(t, sent[0], "<b>7.2</b>")
	require.Contains(t, sent[0], "6 minutes")

	f.source.set(4.0)
	require.NoError(t, f.engine.RunCheck(ctx))
	sent = f.notifier.messages()
	require.Len(t, sent, 2)
	require.Contains(t, sent[1], "UV SAFE")
	require.False(t, f.engine.Status(ctx).State.IsDangerous)
}

func TestEngineNotifierFailureKeepsState(t *testing.T) {
	f := newEngineFixture(t)
	f.notifier.err = errors.New("telegram down")
	f.source.set(9)

	require.NoError(t, f.engine.RunCheck(context.Background()))
	st := f.engine.Status(context.Background())
	require.True(t, st.State.IsDangerous)
	require.Equal(t, 9.0, st.State.CurrentValue)
}

func TestEngineRunCheckHonoursCancellation(t *testing.T) {
	f := newEngineFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, f.engine.RunCheck(ctx), context.Canceled)
	require.Zero(t, f.source.calls)
}

func TestEngineApplyUsesLastValue(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.source.set(8)
	require.NoError(t, f.engine.RunCheck(ctx))
	calls := f.source.calls

	rec, corrected := f.engine.ApplySunscreen(ctx, 50)
	require.False(t, corrected)
	require.Equal(t, 240, rec.ProtectionMinutes)
	require.Equal(t, 8.0, rec.UVAtApplication)
	require.Equal(t, calls, f.source.calls)
	require.NotNil(t, f.store.rec)
}

func TestEngineApplyBeforeFirstCheckFetches(t *testing.T) {
	f := newEngineFixture(t)
	f.source.set(5)

	rec, corrected := f.engine.ApplySunscreen(context.Background(), 3)
	require.True(t, corrected)
	require.Equal(t, DefaultSPF, rec.SPF)
	require.Equal(t, 5.0, rec.UVAtApplication)
	require.Equal(t, 1, f.source.calls)
	require.False(t, f.engine.Status(context.Background()).State.IsDangerous)
}

func TestEngineApplyRefetchesAfterOvernightGap(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	*f.clock = time.Date(2025, time.June, 30, 20, 30, 0, 0, madrid)
	f.source.set(1.5)
	require.NoError(t, f.engine.RunCheck(ctx))
	calls := f.source.calls

	// before the first active check of the next morning
	*f.clock = time.Date(2025, time.July, 1, 6, 30, 0, 0, madrid)
	f.source.set(0.4)
	rec, _ := f.engine.ApplySunscreen(ctx, 30)
	require.Equal(t, 0.4, rec.UVAtApplication)
	require.Equal(t, calls+1, f.source.calls)
}

func TestEngineHousekeepingSendsReminderOnce(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.source.set(8)
	rec, _ := f.engine.ApplySunscreen(ctx, 15)

	*f.clock = rec.ExpiresAt.Add(-10 * time.Minute)
	f.engine.Housekeeping(ctx)
	f.engine.Housekeeping(ctx)

	sent := f.notifier.messages()
	require.Len(t, sent, 1)
	require.Contains(t, sent[0], "reapply")
	require.True(t, f.store.rec.ReminderSent)
}

func TestEngineCheckResetsRecordOnNewDay(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.source.set(2)
	f.engine.ApplySunscreen(ctx, 30)

	*f.clock = f.clock.Add(24 * time.Hour)
	require.NoError(t, f.engine.RunCheck(ctx))
	require.Nil(t, f.engine.Status(ctx).Sunscreen)
	require.Nil(t, f.store.rec)
}

func TestEngineStatus(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	st := f.engine.Status(ctx)
	require.True(t, st.Burn.NoRisk())
	require.Contains(t, f.engine.Formatter().StatusReport(st), "No UV reading yet")

	f.source.set(8)
	require.NoError(t, f.engine.RunCheck(ctx))
	f.engine.ApplySunscreen(ctx, 50)
	*f.clock = f.clock.Add(90 * time.Minute)

	st = f.engine.Status(ctx)
	require.Equal(t, 8.0, st.State.CurrentValue)
	require.Equal(t, "Very high", st.Level.Label)
	require.Equal(t, BurnTimes{Normal: 12, Photosensitive: 6}, st.Burn)
	require.Equal(t, 150, st.ProtectionRemaining)

	report := f.engine.Formatter().StatusReport(st)
	require.Contains(t, report, "SPF 50 active until 15:00")
	require.Contains(t, report, "Burn time: 12 min")
}

func TestEngineSerializesConcurrentAccess(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.source.set(7)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _ = f.engine.RunCheck(ctx) }()
		go func() { defer wg.Done(); f.engine.ApplySunscreen(ctx, 30) }()
		go func() { defer wg.Done(); _ = f.engine.Status(ctx) }()
	}
	wg.Wait()

	alerts := 0
	for _, m := range f.notifier.messages() {
		if strings.Contains(m, "UV ALERT") {
			alerts++
		}
	}
	require.Equal(t, 1, alerts)
	require.NoError(t, f.engine.Flush())
}
