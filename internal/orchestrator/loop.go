// internal/orchestrator/loop.go
//
// The orchestration loop drives the gate controller until the workflow
// pauses or completes. It holds no transition logic of its own: it is the
// one place operator input is solicited, and everything it learns goes
// through the controller's command interface.

package orchestrator

import (
	"fmt"

	"github.com/evanhart/stagegate/internal/gate"
	"github.com/evanhart/stagegate/internal/logbook"
)

// Outcome is the reason the loop returned.
type Outcome string

const (
	// OutcomePaused means the operator declined a gate; re-running resumes
	// at the same phase.
	OutcomePaused Outcome = "paused"
	// OutcomeCompleted means every gate cleared.
	OutcomeCompleted Outcome = "completed"
)

// Prompter solicits one gate decision from the operator. Confirm blocks
// until the operator answers.
type Prompter interface {
	Confirm(p gate.Prompt) (gate.Decision, error)
}

// Loop drives a controller with a prompter until a halting outcome.
type Loop struct {
	ctrl     *gate.Controller
	prompter Prompter
	log      *logbook.Logbook
}

// NewLoop wires the loop to its controller and prompter. The logbook is
// optional diagnostics; a nil logbook is safe.
func NewLoop(ctrl *gate.Controller, prompter Prompter, log *logbook.Logbook) (*Loop, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("orchestrator: gate controller is required")
	}
	if prompter == nil {
		return nil, fmt.Errorf("orchestrator: prompter is required")
	}
	return &Loop{ctrl: ctrl, prompter: prompter, log: log}, nil
}

// Run prompts gate after gate until the operator pauses or the final gate
// clears. Any persistence or audit failure aborts immediately: a transition
// that could not be recorded never happened.
func (l *Loop) Run() (Outcome, error) {
	for {
		if l.ctrl.Completed() {
			l.log.Info("workflow already complete, nothing to do")
			return OutcomeCompleted, nil
		}
		prompt := l.ctrl.Prompt()
		decision, err := l.prompter.Confirm(prompt)
		if err != nil {
			return "", fmt.Errorf("orchestrator: confirm phase %d: %w", prompt.Phase, err)
		}
		result, err := l.ctrl.SubmitDecision(decision)
		if err != nil {
			return "", fmt.Errorf("orchestrator: phase %d: %w", prompt.Phase, err)
		}
		switch result.Outcome {
		case gate.OutcomePaused:
			l.log.Info("paused at phase %d (%s)", prompt.Phase, prompt.Name)
			return OutcomePaused, nil
		case gate.OutcomeCompleted:
			l.log.Info("workflow complete after phase %d (%s)", prompt.Phase, prompt.Name)
			return OutcomeCompleted, nil
		default:
			l.log.Info("approved phase %d (%s), advancing", prompt.Phase, prompt.Name)
		}
	}
}
