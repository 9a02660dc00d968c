// Package position persists overlay placement records per (format, kind)
// pair.
package position

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/creativelab/compositor/pkg/schemas"
)

// Store caches position records in memory and rewrites the whole mapping to
// disk on every Set. It is the single source of truth for where overlays
// render; concurrent writers from other processes are not guarded against
// (last writer wins).
type Store struct {
	mu      sync.RWMutex
	path    string
	records map[schemas.PositionKey]schemas.Position
}

// NewStore loads the mapping at path. A missing file yields an empty store,
// not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: make(map[schemas.PositionKey]schemas.Position),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the saved position for a (format, kind) pair. A pair that has
// never been saved resolves to the documented default; Get never fails.
func (s *Store) Get(format schemas.Format, kind schemas.OverlayKind) schemas.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.records[schemas.PositionKey{Format: format, Kind: kind}]
	if !ok {
		return schemas.DefaultPosition()
	}
	return pos
}

// Set replaces the whole record for a (format, kind) pair and persists the
// store synchronously. There is no partial field update.
func (s *Store) Set(format schemas.Format, kind schemas.OverlayKind, pos schemas.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[schemas.PositionKey{Format: format, Kind: kind}] = pos.Normalized()
	return s.save()
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read position config: %w", err)
	}

	var raw map[string]schemas.Position
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse position config: %w", err)
	}

	for k, pos := range raw {
		key, err := schemas.ParsePositionKey(k)
		if err != nil {
			// Unknown keys are tolerated so older or newer config files
			// still load.
			continue
		}
		s.records[key] = pos.Normalized()
	}

	return nil
}

// save serializes the full mapping and replaces the backing file atomically
// via rename. Callers hold the write lock.
func (s *Store) save() error {
	raw := make(map[string]schemas.Position, len(s.records))
	for key, pos := range s.records {
		raw[key.String()] = pos
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode position config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".positions-*")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write position config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp config file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace position config: %w", err)
	}

	return nil
}
