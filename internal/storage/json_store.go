package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const jsonStoreVersion = 1

type jsonFile struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// JSONStore keeps every label in one JSON file, the file-system analogue of
// browser local storage.
type JSONStore struct {
	path string

	mu   sync.RWMutex
	file *jsonFile
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = &jsonFile{Version: jsonStoreVersion, Entries: map[string]json.RawMessage{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	f := &jsonFile{}
	if err := json.Unmarshal(data, f); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if f.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version (%d) is newer than supported version (%d) - please upgrade hogar", f.Version, jsonStoreVersion)
	}
	if f.Entries == nil {
		f.Entries = map[string]json.RawMessage{}
	}

	s.mu.Lock()
	s.file = f
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(label string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.file == nil {
		return nil, false, ErrNotLoaded
	}
	v, ok := s.file.Entries[label]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *JSONStore) Put(label string, value []byte) error {
	return s.PutAll(map[string][]byte{label: value})
}

func (s *JSONStore) PutAll(entries map[string][]byte) error {
	for label, value := range entries {
		if !json.Valid(value) {
			return fmt.Errorf("invalid JSON value for %s", label)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrNotLoaded
	}
	prev := make(map[string]json.RawMessage, len(s.file.Entries))
	for k, v := range s.file.Entries {
		prev[k] = v
	}
	for label, value := range entries {
		s.file.Entries[label] = append(json.RawMessage(nil), value...)
	}
	if err := s.save(); err != nil {
		s.file.Entries = prev
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes through a temp file and rename. Caller holds mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".hogar-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
