package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanhart/stagegate/internal/phase"
)

func TestInitProjectDirCreatesStructure(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	base := filepath.Join(projectDir, StagegateDir)
	for _, dir := range []string{"state", "logs"} {
		info, err := os.Stat(filepath.Join(base, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
	for _, file := range []string{"config.yaml", "roster.yaml"} {
		if _, err := os.Stat(filepath.Join(base, file)); err != nil {
			t.Fatalf("expected seeded %s: %v", file, err)
		}
	}
	roster, err := phase.LoadRoster(filepath.Join(base, "roster.yaml"))
	if err != nil {
		t.Fatalf("load seeded roster: %v", err)
	}
	if roster.Agent(phase.PhaseProjectBrief) != "Analyst" {
		t.Fatalf("seeded roster is not the default: %q", roster.Agent(phase.PhaseProjectBrief))
	}
}

func TestInitProjectDirIsIdempotent(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("first init: %v", err)
	}
	rosterPath := filepath.Join(projectDir, StagegateDir, "roster.yaml")
	custom := []byte("\"0\": Chief Analyst\n")
	if err := os.WriteFile(rosterPath, custom, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("second init: %v", err)
	}
	data, err := os.ReadFile(rosterPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != string(custom) {
		t.Fatalf("init overwrote an existing roster:\n%s", data)
	}
}

func TestNewDefaultsWhenConfigMissing(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := New(projectDir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Project.Version)
	}
	paths := cfg.Paths()
	base := filepath.Join(projectDir, StagegateDir)
	if paths.StateFile != filepath.Join(base, "state", "workflow.json") {
		t.Fatalf("unexpected state path %s", paths.StateFile)
	}
	if paths.AuditFile != filepath.Join(base, "state", "audit.log") {
		t.Fatalf("unexpected audit path %s", paths.AuditFile)
	}
	if paths.RosterFile != filepath.Join(base, "roster.yaml") {
		t.Fatalf("unexpected roster path %s", paths.RosterFile)
	}
}

func TestNewAppliesPathOverrides(t *testing.T) {
	projectDir := t.TempDir()
	base := filepath.Join(projectDir, StagegateDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
paths:
  state: custom/current.json
  audit: custom/trail.log
`)
	if err := os.WriteFile(filepath.Join(base, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := New(projectDir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	paths := cfg.Paths()
	if paths.StateFile != filepath.Join(base, "custom", "current.json") {
		t.Fatalf("override ignored: %s", paths.StateFile)
	}
	if paths.AuditFile != filepath.Join(base, "custom", "trail.log") {
		t.Fatalf("override ignored: %s", paths.AuditFile)
	}
	if paths.RosterFile != filepath.Join(base, "roster.yaml") {
		t.Fatalf("roster default lost: %s", paths.RosterFile)
	}
}

func TestNewRejectsMalformedConfig(t *testing.T) {
	projectDir := t.TempDir()
	base := filepath.Join(projectDir, StagegateDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "config.yaml"), []byte(":\nnot yaml {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(projectDir); err == nil {
		t.Fatalf("expected parse error")
	}
}
