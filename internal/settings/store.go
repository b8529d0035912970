package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the single CommuteSettings record as a JSON file.
type Store struct {
	path string
}

// NewStore creates a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted record. Returns (nil, nil) when no record has
// been saved yet.
func (s *Store) Load() (*CommuteSettings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings store: %w", err)
	}

	var cfg CommuteSettings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings store: %w", err)
	}
	return &cfg, nil
}

// Save writes the full record. The write goes through a temp file and a
// rename so a crash mid-write cannot lose the previously committed record.
func (s *Store) Save(cfg *CommuteSettings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}
