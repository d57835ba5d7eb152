// Package recorder records play sessions: every turn the engine makes, the
// events around it and the solving phases reached, into storage.
package recorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Checkpoint is what one run leaves for the next: the database it used,
// a session it failed to close and the cube it finished on.
type Checkpoint struct {
	DBPath      string    `yaml:"db_path,omitempty"`
	OpenSession string    `yaml:"open_session,omitempty"`
	LastCube    string    `yaml:"last_cube,omitempty"`
	SavedAt     time.Time `yaml:"saved_at,omitempty"`
}

// CheckpointStore keeps a Checkpoint in a YAML file. Writes go to a
// temporary file that is renamed over the old one.
type CheckpointStore struct {
	path string

	mu sync.Mutex
	cp Checkpoint
}

// DefaultCheckpointPath returns ~/.cubr/checkpoint.yaml, creating the
// directory if needed.
func DefaultCheckpointPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".cubr")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "checkpoint.yaml"), nil
}

// OpenCheckpoint reads the checkpoint at path. A missing file yields an
// empty checkpoint.
func OpenCheckpoint(path string) (*CheckpointStore, error) {
	s := &CheckpointStore{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", path, err)
	}
	return s, nil
}

// OpenDefaultCheckpoint opens the checkpoint at DefaultCheckpointPath.
func OpenDefaultCheckpoint() (*CheckpointStore, error) {
	path, err := DefaultCheckpointPath()
	if err != nil {
		return nil, err
	}
	return OpenCheckpoint(path)
}

// Get returns a copy of the checkpoint.
func (s *CheckpointStore) Get() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cp
}

// Update applies fn to the checkpoint and writes it out. The in-memory copy
// is left unchanged if the write fails.
func (s *CheckpointStore) Update(fn func(*Checkpoint)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cp
	fn(&next)
	next.SavedAt = time.Now().UTC()

	data, err := yaml.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".checkpoint-*")
	if err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	s.cp = next
	return nil
}
