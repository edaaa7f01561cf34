package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanhart/stagegate/internal/phase"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state", "workflow.json"))
}

func TestLoadMissingFileReturnsFreshWorkflow(t *testing.T) {
	store := tempStore(t)
	w, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.CurrentPhase != 0 || w.NextPhase != 1 {
		t.Fatalf("expected phase 0/1, got %d/%d", w.CurrentPhase, w.NextPhase)
	}
	if w.Status != StatusNotStarted {
		t.Fatalf("expected %s, got %s", StatusNotStarted, w.Status)
	}
	if w.RunID == "" {
		t.Fatalf("expected a minted run id on first load")
	}
	if w.PhaseName != phase.First.String() {
		t.Fatalf("unexpected phase name %q", w.PhaseName)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	want := Workflow{
		RunID:        "run-test",
		CurrentPhase: 5,
		NextPhase:    6,
		Status:       StatusPaused,
		PhaseName:    phase.Phase(5).String(),
		LastAction:   "Paused at phase 5",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	// Saving the loaded value again must not change the file content.
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := store.Save(got); err != nil {
		t.Fatalf("second save: %v", err)
	}
	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("save(load()) rewrote the snapshot:\n%s\nvs\n%s", before, after)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	store := tempStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected parse error for malformed snapshot")
	}
}

func TestLoadRejectsInconsistentShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		errPart string
	}{
		{
			"unknown status",
			`{"current_phase":3,"next_phase":4,"status":"running","phase_name":"","last_action":""}`,
			"unknown status",
		},
		{
			"phase out of domain",
			`{"current_phase":15,"next_phase":16,"status":"in_progress","phase_name":"","last_action":""}`,
			"outside",
		},
		{
			"broken next_phase",
			`{"current_phase":3,"next_phase":3,"status":"in_progress","phase_name":"","last_action":""}`,
			"does not follow",
		},
		{
			"completed too early",
			`{"current_phase":9,"next_phase":10,"status":"completed","phase_name":"","last_action":""}`,
			"inconsistent",
		},
		{
			"unfinished at phase 14",
			`{"current_phase":14,"next_phase":15,"status":"in_progress","phase_name":"","last_action":""}`,
			"inconsistent",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := tempStore(t)
			if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := os.WriteFile(store.Path(), []byte(tc.payload), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := store.Load()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func TestSaveRefusesInvalidSnapshot(t *testing.T) {
	store := tempStore(t)
	bad := NewWorkflow()
	bad.NextPhase = 7
	if err := store.Save(bad); err == nil {
		t.Fatalf("expected save to refuse an inconsistent snapshot")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("no file should exist after a refused save")
	}
}

func TestSaveLeavesNoStagingFiles(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(NewWorkflow()); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "workflow.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only workflow.json, found %v", names)
	}
}
