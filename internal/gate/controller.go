// internal/gate/controller.go
//
// The gate state machine. Every transition commits an audit entry before the
// matching state snapshot, so a crash between the two reads as "transition
// not yet confirmed" on the next load.

package gate

import (
	"fmt"
	"time"

	"github.com/evanhart/stagegate/internal/audit"
	"github.com/evanhart/stagegate/internal/phase"
	"github.com/evanhart/stagegate/internal/state"
)

// Canned comments recorded when the operator leaves the comment blank.
const (
	DefaultApproveComment = "Approved without comment."
	DefaultPauseComment   = "User chose to pause."
	CompletionComment     = "Workflow finished."
)

// Decision is the operator's answer at a gate.
type Decision struct {
	Approved bool
	Comment  string
}

// Outcome classifies the effect of a submitted decision.
type Outcome string

const (
	// OutcomeAdvanced means the phase was approved and the next gate is open.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomePaused means the operator declined and the loop must halt.
	OutcomePaused Outcome = "paused"
	// OutcomeCompleted means the final gate cleared, or the workflow was
	// already complete and the decision was a no-op.
	OutcomeCompleted Outcome = "completed"
)

// TransitionResult reports what a decision did: the resulting snapshot and
// the audit entries committed on its behalf, in commit order.
type TransitionResult struct {
	Outcome Outcome
	State   state.Workflow
	Entries []audit.Entry
}

// Prompt carries everything an adapter needs to render a gate to the
// operator.
type Prompt struct {
	Phase        int
	Name         string
	Agent        string
	Instructions string
	Status       state.Status
}

// Controller is the gated state machine over one workflow run.
type Controller struct {
	store  state.Store
	trail  *audit.Trail
	roster phase.Roster
	ws     state.Workflow
	clock  func() time.Time
}

// Option customizes a controller.
type Option func(*Controller)

// WithClock injects a deterministic clock, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New loads the persisted workflow and wires the controller to its store,
// audit trail, and agent roster. A malformed snapshot fails here, before any
// gate is rendered.
func New(store state.Store, trail *audit.Trail, roster phase.Roster, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("gate: state store is required")
	}
	if trail == nil {
		return nil, fmt.Errorf("gate: audit trail is required")
	}
	ws, err := store.Load()
	if err != nil {
		return nil, err
	}
	c := &Controller{
		store:  store,
		trail:  trail,
		roster: roster,
		ws:     ws,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the controller's current snapshot.
func (c *Controller) State() state.Workflow {
	return c.ws
}

// Completed reports whether every gate has cleared.
func (c *Controller) Completed() bool {
	return c.ws.Completed()
}

// Prompt describes the gate currently awaiting a decision.
func (c *Controller) Prompt() Prompt {
	p := c.ws.Phase()
	return Prompt{
		Phase:        int(p),
		Name:         p.String(),
		Agent:        c.roster.Agent(p),
		Instructions: p.Instructions(),
		Status:       c.ws.Status,
	}
}

// SubmitDecision applies one operator decision to the current gate.
//
// Approval appends an approved entry, advances the phase, and persists the
// snapshot; clearing the final gate additionally appends the completion
// entry. Declining appends a paused entry and persists the paused snapshot.
// Submitting against a completed workflow commits nothing.
func (c *Controller) SubmitDecision(d Decision) (TransitionResult, error) {
	if c.ws.Completed() {
		return TransitionResult{Outcome: OutcomeCompleted, State: c.ws}, nil
	}
	if !d.Approved {
		return c.pause(d)
	}
	return c.approve(d)
}

func (c *Controller) approve(d Decision) (TransitionResult, error) {
	p := c.ws.Phase()
	entry := audit.Entry{
		Timestamp: c.clock(),
		Agent:     c.roster.Agent(p),
		Phase:     int(p),
		Action:    audit.ActionApproved,
		Comment:   orDefault(d.Comment, DefaultApproveComment),
	}
	if err := c.trail.Append(entry); err != nil {
		return TransitionResult{}, err
	}

	next := c.ws
	next.CurrentPhase = int(p.Next())
	next.NextPhase = next.CurrentPhase + 1
	next.Status = state.StatusInProgress
	next.PhaseName = p.Next().String()
	next.LastAction = fmt.Sprintf("Approved phase %d (%s)", int(p), p)
	entries := []audit.Entry{entry}

	if !next.Completed() {
		if err := c.store.Save(next); err != nil {
			return TransitionResult{}, err
		}
		c.ws = next
		return TransitionResult{Outcome: OutcomeAdvanced, State: next, Entries: entries}, nil
	}

	// The final gate just cleared: record completion before the terminal
	// snapshot, same ordering as any other transition.
	completion := audit.Entry{
		Timestamp: c.clock(),
		Agent:     phase.OrchestratorAgent,
		Phase:     int(phase.Last),
		Action:    audit.ActionCompleted,
		Comment:   CompletionComment,
	}
	if err := c.trail.Append(completion); err != nil {
		return TransitionResult{}, err
	}
	next.Status = state.StatusCompleted
	next.LastAction = CompletionComment
	if err := c.store.Save(next); err != nil {
		return TransitionResult{}, err
	}
	c.ws = next
	entries = append(entries, completion)
	return TransitionResult{Outcome: OutcomeCompleted, State: next, Entries: entries}, nil
}

func (c *Controller) pause(d Decision) (TransitionResult, error) {
	p := c.ws.Phase()
	entry := audit.Entry{
		Timestamp: c.clock(),
		Agent:     c.roster.Agent(p),
		Phase:     int(p),
		Action:    audit.ActionPaused,
		Comment:   orDefault(d.Comment, DefaultPauseComment),
	}
	if err := c.trail.Append(entry); err != nil {
		return TransitionResult{}, err
	}
	next := c.ws
	next.Status = state.StatusPaused
	next.LastAction = fmt.Sprintf("Paused at phase %d (%s)", int(p), p)
	if err := c.store.Save(next); err != nil {
		return TransitionResult{}, err
	}
	c.ws = next
	return TransitionResult{Outcome: OutcomePaused, State: next, Entries: []audit.Entry{entry}}, nil
}

func orDefault(comment, fallback string) string {
	if comment == "" {
		return fallback
	}
	return comment
}
