package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/uv-alert/internal/uv"
)

func sampleRecord() uv.SunscreenRecord {
	applied := time.Date(2025, time.July, 1, 11, 0, 0, 0, time.UTC)
	return uv.SunscreenRecord{
		AppliedAt:         applied,
		SPF:               50,
		UVAtApplication:   8,
		ExpiresAt:         applied.Add(240 * time.Minute),
		ProtectionMinutes: 240,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sunscreen.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, uv.ErrNoRecord)

	rec := sampleRecord()
	require.NoError(t, s.Save(rec))

	got, err := s.Load()
	require.NoError(t, err)
	require.True(t, rec.AppliedAt.Equal(got.AppliedAt))
	require.Equal(t, rec.ProtectionMinutes, got.ProtectionMinutes)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"reminder_sent": false`)
	require.Contains(t, string(raw), `"protection_minutes": 240`)

	rec.ReminderSent = true
	require.NoError(t, s.Save(rec))
	got, err = s.Load()
	require.NoError(t, err)
	require.True(t, got.ReminderSent)
}

func TestFileStoreClear(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "sunscreen.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleRecord()))

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, uv.ErrNoRecord)
}

func TestFileStoreEmptyAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	for _, body := range []string{"", "  \n", "null", "{}"} {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		s, err := NewFileStore(path)
		require.NoError(t, err)

		_, err = s.Load()
		require.ErrorIs(t, err, uv.ErrNoRecord, "body %q", body)
	}

	path := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"spf":`), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Load()
	require.Error(t, err)
	require.NotErrorIs(t, err, uv.ErrNoRecord)
}

func TestNewFileStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load()
	require.ErrorIs(t, err, uv.ErrNoRecord)

	require.NoError(t, s.Save(sampleRecord()))
	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 50, got.SPF)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, uv.ErrNoRecord)
}
