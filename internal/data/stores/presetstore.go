package stores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/taskboard/internal/core/preset"
	"github.com/colonyops/taskboard/pkg/kv"
)

// MemorySubstrate is the in-memory preset storage substrate.
type MemorySubstrate struct {
	store *kv.Store[string, string]
}

var _ preset.Substrate = (*MemorySubstrate)(nil)

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{store: kv.New[string, string]()}
}

// Get returns the stored value, or empty when absent.
func (m *MemorySubstrate) Get(key string) (string, error) {
	value, _ := m.store.Get(key)
	return value, nil
}

// Set stores the value.
func (m *MemorySubstrate) Set(key, value string) error {
	m.store.Set(key, value)
	return nil
}

// FileSubstrate persists substrate keys as one JSON object on disk. Reads
// serve from an in-memory copy loaded lazily; writes flush the whole map.
type FileSubstrate struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]string
}

var _ preset.Substrate = (*FileSubstrate)(nil)

// NewFileSubstrate creates a substrate backed by the given path. The file is
// created on first write.
func NewFileSubstrate(path string) *FileSubstrate {
	return &FileSubstrate{path: path}
}

func (f *FileSubstrate) load() error {
	if f.loaded {
		return nil
	}
	f.data = make(map[string]string)
	f.loaded = true

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preset file: %w", err)
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		// A corrupt file degrades to empty; the preset layer rewrites it.
		f.data = make(map[string]string)
	}
	return nil
}

// Get returns the stored value, or empty when absent.
func (f *FileSubstrate) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return "", err
	}
	return f.data[key], nil
}

// Set stores the value and flushes the file.
func (f *FileSubstrate) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	f.data[key] = value

	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preset file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create preset directory: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("write preset file: %w", err)
	}
	return nil
}
