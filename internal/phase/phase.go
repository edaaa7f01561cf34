// internal/phase/phase.go
//
// The fixed fourteen-phase sequence of a stagegate workflow. Phases are
// numbered 0-13; 14 is the pseudo-phase a workflow lands on after the final
// gate clears.

package phase

import "fmt"

// Phase is one numbered stage of the governed workflow.
type Phase int

const (
	PhaseProjectBrief Phase = iota
	PhaseRequirements
	PhaseUXSpec
	PhaseArchitecture
	PhaseTestStrategy
	PhaseDataModel
	PhaseAPIContract
	PhaseSecurityReview
	PhaseSprintPlan
	PhaseStoryBreakdown
	PhaseImplementation
	PhaseCodeReview
	PhaseValidation
	PhaseReleaseNotes
	PhaseDone
)

// First and Last bound the gated portion of the sequence. PhaseDone sits
// past Last and is never prompted for.
const (
	First = PhaseProjectBrief
	Last  = PhaseReleaseNotes
)

// String returns the display name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseProjectBrief:
		return "Project Brief"
	case PhaseRequirements:
		return "Product Requirements"
	case PhaseUXSpec:
		return "UX Specification"
	case PhaseArchitecture:
		return "Architecture"
	case PhaseTestStrategy:
		return "Test Strategy"
	case PhaseDataModel:
		return "Data Model"
	case PhaseAPIContract:
		return "API Contract"
	case PhaseSecurityReview:
		return "Security Review"
	case PhaseSprintPlan:
		return "Sprint Plan"
	case PhaseStoryBreakdown:
		return "Story Breakdown"
	case PhaseImplementation:
		return "Implementation"
	case PhaseCodeReview:
		return "Code Review"
	case PhaseValidation:
		return "Validation"
	case PhaseReleaseNotes:
		return "Release Notes"
	case PhaseDone:
		return "Complete"
	default:
		return fmt.Sprintf("Phase %d", int(p))
	}
}

// Instructions returns the artifact-completion text shown to the operator at
// the gate for this phase. Display only; stagegate never inspects artifacts.
func (p Phase) Instructions() string {
	switch p {
	case PhaseProjectBrief:
		return "Confirm the project brief captures the problem, audience, and success criteria."
	case PhaseRequirements:
		return "Confirm the PRD lists every functional requirement with acceptance criteria."
	case PhaseUXSpec:
		return "Confirm the UX specification covers flows, wireframes, and interaction states."
	case PhaseArchitecture:
		return "Confirm the architecture document records components, boundaries, and decisions."
	case PhaseTestStrategy:
		return "Confirm the test strategy defines levels, tooling, and coverage expectations."
	case PhaseDataModel:
		return "Confirm the data model describes entities, relationships, and retention rules."
	case PhaseAPIContract:
		return "Confirm the API contract enumerates endpoints, payloads, and error shapes."
	case PhaseSecurityReview:
		return "Confirm the security review lists threats, mitigations, and open risks."
	case PhaseSprintPlan:
		return "Confirm the sprint plan sequences the work with owners and estimates."
	case PhaseStoryBreakdown:
		return "Confirm every story is sliced, estimated, and traceable to a requirement."
	case PhaseImplementation:
		return "Confirm the implementation is produced and linked from the story board."
	case PhaseCodeReview:
		return "Confirm the review record shows findings and their resolutions."
	case PhaseValidation:
		return "Confirm the validation report covers the test strategy and outcomes."
	case PhaseReleaseNotes:
		return "Confirm the release notes summarize the shipped scope and known issues."
	default:
		return ""
	}
}

// Next returns the phase that follows p. PhaseDone is absorbing.
func (p Phase) Next() Phase {
	if p >= PhaseDone {
		return PhaseDone
	}
	return p + 1
}

// Terminal reports whether the workflow has moved past the last gated phase.
func (p Phase) Terminal() bool {
	return p > Last
}

// Valid reports whether p lies within the persistable domain [First, PhaseDone].
func (p Phase) Valid() bool {
	return p >= First && p <= PhaseDone
}
