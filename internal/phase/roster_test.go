package phase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultRosterCoversEveryGatedPhase(t *testing.T) {
	roster := DefaultRoster()
	for p := First; !p.Terminal(); p = p.Next() {
		if roster.Agent(p) == UnknownAgent {
			t.Fatalf("default roster has no agent for phase %d", int(p))
		}
	}
}

func TestAgentFallsBackToUnknown(t *testing.T) {
	roster := DefaultRoster()
	delete(roster, PhaseSecurityReview)
	if got := roster.Agent(PhaseSecurityReview); got != UnknownAgent {
		t.Fatalf("expected %q for unmapped phase, got %q", UnknownAgent, got)
	}
	roster[PhaseSprintPlan] = ""
	if got := roster.Agent(PhaseSprintPlan); got != UnknownAgent {
		t.Fatalf("expected blank assignment to resolve to %q, got %q", UnknownAgent, got)
	}
}

func TestParseRoster(t *testing.T) {
	roster, err := ParseRoster([]byte("\"0\": Analyst\n\"13\": Release Manager\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if roster.Agent(PhaseProjectBrief) != "Analyst" {
		t.Fatalf("unexpected agent for phase 0: %q", roster.Agent(PhaseProjectBrief))
	}
	if roster.Agent(PhaseRequirements) != UnknownAgent {
		t.Fatalf("phase 1 should be unmapped")
	}
}

func TestParseRosterRejectsBadKeys(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		errPart string
	}{
		{"non-numeric", "planning: Analyst\n", "not a number"},
		{"out of range", "\"14\": Orchestrator\n", "outside"},
		{"not a map", "- Analyst\n", "decode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRoster([]byte(tc.payload))
			if err == nil {
				t.Fatalf("expected error for %q", tc.payload)
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func TestLoadRosterMissingFileYieldsDefaults(t *testing.T) {
	roster, err := LoadRoster(filepath.Join(t.TempDir(), "roster.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if roster.Agent(PhaseArchitecture) != "Architect" {
		t.Fatalf("expected default assignments, got %q", roster.Agent(PhaseArchitecture))
	}
}

func TestWriteAndLoadRosterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	want := DefaultRoster()
	want[PhaseImplementation] = "Pair of Developers"
	if err := WriteRoster(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "\"10\": Pair of Developers") {
		t.Fatalf("expected string phase keys in file, got:\n%s", data)
	}
	got, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for p := First; !p.Terminal(); p = p.Next() {
		if got.Agent(p) != want.Agent(p) {
			t.Fatalf("phase %d: got %q want %q", int(p), got.Agent(p), want.Agent(p))
		}
	}
}
