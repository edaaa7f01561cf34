// internal/audit/audit.go
//
// The append-only record of every gate decision. One JSON document per line,
// appended and synced before the matching state update is considered
// committed. The trail is write-only for the orchestrator; Read and Tail
// exist for external auditing and the TUI.

package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Action classifies a recorded gate decision.
type Action string

const (
	ActionApproved  Action = "approved"
	ActionPaused    Action = "paused"
	ActionCompleted Action = "completed"
)

// Entry is one recorded action. Entries are never mutated or removed.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Phase     int       `json:"phase"`
	Action    Action    `json:"action"`
	Comment   string    `json:"comment"`
}

// Trail is a durable, chronologically ordered sequence of entries.
type Trail struct {
	path string
}

// NewTrail creates a trail backed by the given file path. The file itself is
// created on first append.
func NewTrail(path string) *Trail {
	return &Trail{path: path}
}

// Path returns the file backing this trail.
func (t *Trail) Path() string {
	return t.path
}

// Append writes one entry to the end of the trail and syncs it to disk. An
// error here means the transition must not be treated as committed.
func (t *Trail) Append(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: encode entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("audit: ensure log dir: %w", err)
	}
	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", t.path, err)
	}
	defer file.Close()
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: append to %s: %w", t.path, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("audit: sync %s: %w", t.path, err)
	}
	return nil
}

// Read returns every entry in insertion order. A missing trail file is an
// empty trail; an unparseable line is an error, the trail is never repaired
// in place.
func (t *Trail) Read() ([]Entry, error) {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: open %s: %w", t.path, err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("audit: %s line %d: %w", t.path, len(entries)+1, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: read %s: %w", t.path, err)
	}
	return entries, nil
}

// Tail returns up to max of the most recent entries.
func (t *Trail) Tail(max int) ([]Entry, error) {
	if max <= 0 {
		return nil, nil
	}
	entries, err := t.Read()
	if err != nil {
		return nil, err
	}
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	return entries, nil
}
