// Package storage persists the local item collection as a single JSON blob.
// The blob is an ordered sequence of flat item records; a missing or corrupt
// file is never fatal and simply yields an empty starting collection.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/cartsync/cartsync/pkg/errors"
	"github.com/cartsync/cartsync/pkg/items"
	"github.com/cartsync/cartsync/pkg/logging"
)

// DefaultFileName is the per-install blob file name.
const DefaultFileName = ".shopping_list.json"

// Store is the opaque load/save handle the list store persists through.
type Store interface {
	Load() ([]items.Record, error)
	Save(records []items.Record) error
}

// File is a JSON-file backed Store. Single file, human-readable, portable.
type File struct {
	path string
}

// NewFile creates a file store at the given path. An empty path resolves to
// DefaultFileName in the working directory.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultFileName
	}
	return &File{path: path}
}

// Path returns the blob file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the persisted records. A missing file or unparseable content
// degrades to an empty collection.
func (f *File) Load() ([]items.Record, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn().Err(err).Str("path", f.path).Msg("Could not read persisted list; starting empty")
		}
		return []items.Record{}, nil
	}
	var records []items.Record
	if err := json.Unmarshal(b, &records); err != nil {
		logging.Warn().Err(err).Str("path", f.path).Msg("Persisted list is corrupt; starting empty")
		return []items.Record{}, nil
	}
	return records, nil
}

// Save writes the records, creating parent directories as needed.
func (f *File) Save(records []items.Record) error {
	if records == nil {
		records = []items.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return pkgerrors.WrapParse("json", f.path, err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.WrapIO("write", dir, err)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return pkgerrors.WrapIO("write", f.path, err)
	}
	return nil
}

// Memory is an in-process Store for tests and embedders that manage their
// own persistence.
type Memory struct {
	mu      sync.Mutex
	records []items.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored records.
func (m *Memory) Load() ([]items.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]items.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Save replaces the stored records.
func (m *Memory) Save(records []items.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]items.Record, len(records))
	copy(m.records, records)
	return nil
}
