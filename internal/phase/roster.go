// internal/phase/roster.go
//
// Phase-to-agent assignments. The roster is informational for the audit
// trail: a missing entry degrades to UnknownAgent, it never blocks a gate.

package phase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// UnknownAgent is recorded when the roster has no entry for a phase.
	UnknownAgent = "Unknown Agent"

	// OrchestratorAgent signs the final completion entry in the audit trail.
	OrchestratorAgent = "Orchestrator"
)

// Roster maps each gated phase to the agent responsible for its artifact.
type Roster map[Phase]string

// DefaultRoster returns the built-in phase-to-agent assignments.
func DefaultRoster() Roster {
	return Roster{
		PhaseProjectBrief:   "Analyst",
		PhaseRequirements:   "Product Manager",
		PhaseUXSpec:         "UX Designer",
		PhaseArchitecture:   "Architect",
		PhaseTestStrategy:   "QA Lead",
		PhaseDataModel:      "Data Engineer",
		PhaseAPIContract:    "API Designer",
		PhaseSecurityReview: "Security Engineer",
		PhaseSprintPlan:     "Scrum Master",
		PhaseStoryBreakdown: "Product Owner",
		PhaseImplementation: "Developer",
		PhaseCodeReview:     "Reviewer",
		PhaseValidation:     "QA Engineer",
		PhaseReleaseNotes:   "Release Manager",
	}
}

// Agent resolves the name assigned to a phase, falling back to UnknownAgent.
func (r Roster) Agent(p Phase) string {
	if name, ok := r[p]; ok && name != "" {
		return name
	}
	return UnknownAgent
}

// MarshalYAML encodes the roster as a string-keyed map, ordered by phase
// number, matching the durable phase-agent map format.
func (r Roster) MarshalYAML() (any, error) {
	phases := make([]Phase, 0, len(r))
	for p := range r {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range phases {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(int(p)), Style: yaml.DoubleQuotedStyle}
		value := &yaml.Node{Kind: yaml.ScalarNode, Value: r[p]}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// ParseRoster decodes a roster payload. Keys are phase numbers as strings.
func ParseRoster(data []byte) (Roster, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("roster: decode: %w", err)
	}
	roster := make(Roster, len(raw))
	for key, agent := range raw {
		number, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("roster: phase key %q is not a number", key)
		}
		p := Phase(number)
		if p < First || p > Last {
			return nil, fmt.Errorf("roster: phase %d is outside [%d, %d]", number, int(First), int(Last))
		}
		roster[p] = agent
	}
	return roster, nil
}

// LoadRoster reads the roster file at path. A missing file is first-run
// bootstrap and yields the built-in defaults; a malformed file is an error
// because guessing assignments would taint the audit trail.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRoster(), nil
		}
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	roster, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("roster: %s: %w", path, err)
	}
	return roster, nil
}

// WriteRoster persists the roster to path in the durable map format.
func WriteRoster(path string, r Roster) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("roster: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("roster: write %s: %w", path, err)
	}
	return nil
}
