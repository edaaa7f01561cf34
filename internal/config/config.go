// internal/config/config.go
//
// This package handles configuration and the .stagegate directory structure.
// Every project governed by stagegate gets a .stagegate/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evanhart/stagegate/internal/phase"
)

const (
	// StagegateDir is the name of the directory created in each project.
	StagegateDir = ".stagegate"

	stateFileName  = "workflow.json"
	auditFileName  = "audit.log"
	rosterFileName = "roster.yaml"
	logFileName    = "stagegate.log"
)

const defaultProjectConfigYAML = `# stagegate project configuration
version: 1

# Optional overrides, relative to .stagegate/ unless absolute:
# paths:
#   state: state/workflow.json
#   audit: state/audit.log
#   roster: roster.yaml
`

// PathOverrides lets a project relocate its backing files.
type PathOverrides struct {
	State  string `yaml:"state,omitempty"`
	Audit  string `yaml:"audit,omitempty"`
	Roster string `yaml:"roster,omitempty"`
}

// ProjectConfig models .stagegate/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Paths   PathOverrides `yaml:"paths,omitempty"`
}

// Paths names every backing file the orchestrator touches. Handing this
// value around (instead of package-level constants) keeps test instances
// isolated on their own temp directories.
type Paths struct {
	StateFile  string
	AuditFile  string
	RosterFile string
	LogFile    string
}

// Config holds the runtime configuration for stagegate.
type Config struct {
	// ProjectDir is the directory the operator ran `stagegate` from.
	ProjectDir string

	// StagegateDir is ProjectDir/.stagegate.
	StagegateDir string

	Project ProjectConfig
}

// InitProjectDir creates the .stagegate directory structure in the given
// project directory and seeds the default config and roster files. Existing
// files are left untouched.
//
// Structure created:
//
//	.stagegate/
//	├── state/    <- workflow snapshot and audit trail
//	├── logs/     <- diagnostic logbook
//	├── config.yaml
//	└── roster.yaml
func InitProjectDir(projectDir string) error {
	base := filepath.Join(projectDir, StagegateDir)
	for _, dir := range []string{
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := ensureFile(filepath.Join(base, "config.yaml"), []byte(defaultProjectConfigYAML)); err != nil {
		return err
	}
	rosterPath := filepath.Join(base, rosterFileName)
	if _, err := os.Stat(rosterPath); errors.Is(err, fs.ErrNotExist) {
		if err := phase.WriteRoster(rosterPath, phase.DefaultRoster()); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("config: stat %s: %w", rosterPath, err)
	}
	return nil
}

// New loads the project configuration rooted at projectDir. A missing
// config.yaml yields defaults; a malformed one is an error.
func New(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:   projectDir,
		StagegateDir: filepath.Join(projectDir, StagegateDir),
		Project:      defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.StagegateDir, "config.yaml")
}

// StateDir returns the directory holding the snapshot and audit trail.
func (c *Config) StateDir() string {
	return filepath.Join(c.StagegateDir, "state")
}

// LogsDir returns the diagnostics directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StagegateDir, "logs")
}

// Paths resolves the backing file locations, applying any overrides from
// config.yaml.
func (c *Config) Paths() Paths {
	return Paths{
		StateFile:  c.resolve(c.Project.Paths.State, filepath.Join("state", stateFileName)),
		AuditFile:  c.resolve(c.Project.Paths.Audit, filepath.Join("state", auditFileName)),
		RosterFile: c.resolve(c.Project.Paths.Roster, rosterFileName),
		LogFile:    filepath.Join(c.LogsDir(), logFileName),
	}
}

func (c *Config) resolve(override, fallback string) string {
	candidate := strings.TrimSpace(override)
	if candidate == "" {
		candidate = fallback
	}
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}
	return filepath.Join(c.StagegateDir, candidate)
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if parsed.Version == 0 {
		parsed.Version = 1
	}
	if parsed.Version < 1 {
		return fmt.Errorf("config: %s: version must be >= 1", path)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{Version: 1}
}

func ensureFile(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
