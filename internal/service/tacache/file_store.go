package tacache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the cache as a single flat JSON object on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the JSON object from disk. A missing file yields an empty map;
// corrupt JSON is reported as an error so the caller can start empty.
func (s *FileStore) Load() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return entries, nil
}

// Save writes the whole object back to disk.
func (s *FileStore) Save(entries map[string]json.RawMessage) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
