// internal/state/state.go
//
// The persisted snapshot of a single gated workflow run. One state file
// governs exactly one linear workflow; there is no multi-run bookkeeping.

package state

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/evanhart/stagegate/internal/phase"
)

// Status enumerates the coarse lifecycle of a workflow run.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

func (s Status) valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// Workflow captures the durable progress of a run.
//
// CurrentPhase is monotonically non-decreasing for the lifetime of a state
// file. NextPhase is always CurrentPhase+1 and is kept redundantly so the
// file reads well in external tooling. PhaseName and LastAction are display
// fields, never authoritative.
type Workflow struct {
	RunID        string `json:"run_id,omitempty"`
	CurrentPhase int    `json:"current_phase"`
	NextPhase    int    `json:"next_phase"`
	Status       Status `json:"status"`
	PhaseName    string `json:"phase_name"`
	LastAction   string `json:"last_action"`
}

// NewWorkflow returns the first-run state: phase 0, not started, with a
// freshly minted run identifier.
func NewWorkflow() Workflow {
	return Workflow{
		RunID:        gonanoid.Must(),
		CurrentPhase: int(phase.First),
		NextPhase:    int(phase.First) + 1,
		Status:       StatusNotStarted,
		PhaseName:    phase.First.String(),
	}
}

// Phase returns the typed current phase.
func (w Workflow) Phase() phase.Phase {
	return phase.Phase(w.CurrentPhase)
}

// Completed reports whether the workflow has cleared every gate.
func (w Workflow) Completed() bool {
	return w.Phase().Terminal()
}

// Validate rejects shapes that cannot have been produced by a healthy run.
// Loading such a file must fail loudly rather than silently reset progress.
func (w Workflow) Validate() error {
	if !w.Status.valid() {
		return fmt.Errorf("state: unknown status %q", w.Status)
	}
	if !w.Phase().Valid() {
		return fmt.Errorf("state: current_phase %d is outside [%d, %d]",
			w.CurrentPhase, int(phase.First), int(phase.PhaseDone))
	}
	if w.NextPhase != w.CurrentPhase+1 {
		return fmt.Errorf("state: next_phase %d does not follow current_phase %d",
			w.NextPhase, w.CurrentPhase)
	}
	if w.Completed() != (w.Status == StatusCompleted) {
		return fmt.Errorf("state: status %q inconsistent with current_phase %d",
			w.Status, w.CurrentPhase)
	}
	return nil
}
