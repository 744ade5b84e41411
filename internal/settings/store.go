// Package settings implements the file-backed persistent settings
// store the BSMS engine consumes through its abstract Get/Set/Save
// contract: a flat JSON file with unknown top-level keys
// preserved across load/save, and the transactional write-back
// discipline the "bsms" sub-map needs.
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/bsms/internal/atomicfile"
)

// Store is a JSON-file-backed key/value settings store.
type Store struct {
	path string
	data map[string]json.RawMessage
}

// Open loads an existing settings file, or returns an empty store if
// none exists yet at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return s, nil
}

// Get returns the raw JSON value stored under key, and whether it
// was present.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set marshals value to JSON and stores it under key.
func (s *Store) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal settings value for key %q: %w", key, err)
	}
	s.data[key] = raw
	return nil
}

// Delete removes key entirely.
func (s *Store) Delete(key string) {
	delete(s.data, key)
}

// Save persists the store to disk atomically.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return atomicfile.WriteFile(s.path, raw, 0600)
}

// snapshot captures key's current raw value (and whether it was
// present) for a later restore if a subsequent mutation fails to save.
func (s *Store) snapshot(key string) (json.RawMessage, bool) {
	return s.Get(key)
}

// restore reinstates a previously captured snapshot under key,
// deleting the key if it was absent at snapshot time.
func (s *Store) restore(key string, value json.RawMessage, present bool) {
	if !present {
		delete(s.data, key)
		return
	}
	s.data[key] = value
}

// SaveKeyTransactional sets key to value and saves under the
// transactional write-back discipline: snapshot the pre-modification
// value, attempt an atomic save; on failure, restore the snapshot,
// attempt a second save, and report failure regardless of whether the
// retry succeeds (the caller surfaces OutOfSpace either way, since a
// save that could fail once on a space-constrained device is not
// trustworthy).
func (s *Store) SaveKeyTransactional(key string, value interface{}) error {
	before, present := s.snapshot(key)

	if err := s.Set(key, value); err != nil {
		return err
	}
	if err := s.Save(); err == nil {
		return nil
	}

	s.restore(key, before, present)
	if err := s.Save(); err != nil {
		return fmt.Errorf("settings save failed even after restoring the previous value: %w", err)
	}
	return fmt.Errorf("settings save failed; previous value was restored")
}
