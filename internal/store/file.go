package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/i474232898/uv-alert/internal/uv"
)

// FileStore keeps the sunscreen record as a single JSON object on disk.
// Every write replaces the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the parent directory of path if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the record. A missing file, an empty file, {} or null mean no record.
func (s *FileStore) Load() (uv.SunscreenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return uv.SunscreenRecord{}, uv.ErrNoRecord
	}
	if err != nil {
		return uv.SunscreenRecord{}, fmt.Errorf("read sunscreen record: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == "{}" {
		return uv.SunscreenRecord{}, uv.ErrNoRecord
	}

	var rec uv.SunscreenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return uv.SunscreenRecord{}, fmt.Errorf("decode sunscreen record: %w", err)
	}
	if rec.AppliedAt.IsZero() {
		return uv.SunscreenRecord{}, uv.ErrNoRecord
	}
	return rec, nil
}

// Save overwrites the file with rec.
func (s *FileStore) Save(rec uv.SunscreenRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sunscreen record: %w", err)
	}
	return s.write(data)
}

// Clear leaves an empty object in place of the record.
func (s *FileStore) Clear() error {
	return s.write([]byte("{}"))
}

func (s *FileStore) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := renameio.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write sunscreen record: %w", err)
	}
	return nil
}
