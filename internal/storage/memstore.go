// Package storage provides the JSON-file persistence collaborator: a
// key-value store the engine core serializes snapshots into, plus the
// save/load replay around it. It sits outside the core; the core only
// relies on the Get/Set contract.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const storeVersion = "1.0"

// envelope is the on-disk JSON shape: a metadata header around the
// raw key-value payload.
type envelope struct {
	Metadata metadata                   `json:"metadata"`
	Data     map[string]json.RawMessage `json:"data"`
}

type metadata struct {
	SavedAt      time.Time `json:"saved_at"`
	Version      string    `json:"version"`
	OriginalFile string    `json:"original_file,omitempty"`
}

// MemoryStore is an in-memory key-value store with optional JSON-file
// persistence. With an empty path it never touches the filesystem.
type MemoryStore struct {
	fs   afero.Fs
	path string
	data map[string]json.RawMessage
}

// NewMemoryStore opens a store over fs. When path is non-empty and the
// file exists, its contents are loaded immediately.
func NewMemoryStore(fs afero.Fs, path string) (*MemoryStore, error) {
	s := &MemoryStore{
		fs:   fs,
		path: path,
		data: make(map[string]json.RawMessage),
	}
	if path != "" {
		if ok, _ := afero.Exists(fs, path); ok {
			if err := s.loadFrom(path); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Set stores v under key and persists the store when a file is
// configured.
func (s *MemoryStore) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: marshal %q: %w", key, err)
	}
	s.data[key] = b
	return s.flush()
}

// Get unmarshals the value under key into out and reports whether the
// key existed.
func (s *MemoryStore) Get(key string, out any) (bool, error) {
	b, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return true, fmt.Errorf("storage: unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Delete removes a key and reports whether it existed.
func (s *MemoryStore) Delete(key string) (bool, error) {
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	return true, s.flush()
}

func (s *MemoryStore) Exists(key string) bool {
	_, ok := s.data[key]
	return ok
}

func (s *MemoryStore) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) Len() int { return len(s.data) }

// Clear drops every key.
func (s *MemoryStore) Clear() error {
	s.data = make(map[string]json.RawMessage)
	return s.flush()
}

// Backup writes the current contents to a second path.
func (s *MemoryStore) Backup(path string) error {
	return s.writeTo(path, s.path)
}

// Restore replaces the store contents from a backup file and persists
// them to the configured path.
func (s *MemoryStore) Restore(path string) error {
	if err := s.loadFrom(path); err != nil {
		return err
	}
	return s.flush()
}

func (s *MemoryStore) flush() error {
	if s.path == "" {
		return nil
	}
	return s.writeTo(s.path, "")
}

func (s *MemoryStore) writeTo(path, originalFile string) error {
	env := envelope{
		Metadata: metadata{
			SavedAt:      time.Now().UTC(),
			Version:      storeVersion,
			OriginalFile: originalFile,
		},
		Data: s.data,
	}
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal store: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: mkdir %q: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, path, b, 0o644); err != nil {
		return fmt.Errorf("storage: write %q: %w", path, err)
	}
	return nil
}

func (s *MemoryStore) loadFrom(path string) error {
	b, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage: %q does not exist", path)
		}
		return fmt.Errorf("storage: read %q: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("storage: bad store file %q: %w", path, err)
	}
	if env.Data == nil {
		return fmt.Errorf("storage: invalid store file %q: missing data", path)
	}
	s.data = env.Data
	return nil
}
