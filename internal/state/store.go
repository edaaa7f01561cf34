// internal/state/store.go
//
// Durable persistence for the workflow snapshot. Saves are atomic: the
// snapshot is staged next to the target and renamed into place so a loader
// never observes a torn write.

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists workflow snapshots.
type Store interface {
	Load() (Workflow, error)
	Save(Workflow) error
}

// FileStore keeps the workflow snapshot in a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing file is first-run bootstrap
// and yields a fresh default workflow; a malformed or inconsistent file is
// an error, because resuming from a guessed state would break monotonicity.
func (s *FileStore) Load() (Workflow, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewWorkflow(), nil
		}
		return Workflow{}, fmt.Errorf("state: read %s: %w", s.path, err)
	}
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return Workflow{}, fmt.Errorf("state: parse %s: %w", s.path, err)
	}
	if err := w.Validate(); err != nil {
		return Workflow{}, fmt.Errorf("state: %s: %w", s.path, err)
	}
	return w, nil
}

// Save writes the snapshot atomically, creating the backing directory if it
// does not exist yet.
func (s *FileStore) Save(w Workflow) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("state: refusing to persist: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: ensure %s: %w", dir, err)
	}
	encoded, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}
	staged, err := os.CreateTemp(dir, ".workflow-*.json")
	if err != nil {
		return fmt.Errorf("state: stage snapshot: %w", err)
	}
	stagedPath := staged.Name()
	if _, err := staged.Write(append(encoded, '\n')); err != nil {
		staged.Close()
		os.Remove(stagedPath)
		return fmt.Errorf("state: write snapshot: %w", err)
	}
	if err := staged.Sync(); err != nil {
		staged.Close()
		os.Remove(stagedPath)
		return fmt.Errorf("state: sync snapshot: %w", err)
	}
	if err := staged.Close(); err != nil {
		os.Remove(stagedPath)
		return fmt.Errorf("state: close snapshot: %w", err)
	}
	if err := os.Rename(stagedPath, s.path); err != nil {
		os.Remove(stagedPath)
		return fmt.Errorf("state: install snapshot: %w", err)
	}
	return nil
}
