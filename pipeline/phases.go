// Package pipeline derives one status per workflow phase from artifact
// presence, checklist gate results, and the test-first policy.
//
// Phase flow for a feature:
//
//	constitution -> spec -> plan -> checklist -> testify -> tasks ->
//	analyze -> implement
//
// checklist, testify, and analyze are optional; testify becomes required
// when the governance document mandates a test-first policy.
package pipeline

// PhaseID identifies one phase of the document-driven workflow.
type PhaseID string

// Known phases, in workflow order.
const (
	// PhaseConstitution is complete once the governance document exists.
	PhaseConstitution PhaseID = "constitution"

	// PhaseSpec is complete once the requirements document exists.
	PhaseSpec PhaseID = "spec"

	// PhasePlan is complete once the plan document exists.
	PhasePlan PhaseID = "plan"

	// PhaseChecklist tracks checklist completion; optional.
	PhaseChecklist PhaseID = "checklist"

	// PhaseTestify tracks scenario authoring; optional unless the
	// test-first policy is mandatory.
	PhaseTestify PhaseID = "testify"

	// PhaseTasks is complete once the task list exists.
	PhaseTasks PhaseID = "tasks"

	// PhaseAnalyze tracks the cross-artifact analysis report; optional.
	PhaseAnalyze PhaseID = "analyze"

	// PhaseImplement tracks task execution by checkbox completion.
	PhaseImplement PhaseID = "implement"
)

// PhaseOrder lists every phase in workflow order. Compute emits phases in
// this order.
var PhaseOrder = []PhaseID{
	PhaseConstitution,
	PhaseSpec,
	PhasePlan,
	PhaseChecklist,
	PhaseTestify,
	PhaseTasks,
	PhaseAnalyze,
	PhaseImplement,
}

// PhaseStatus is the derived completion state of one phase.
type PhaseStatus string

// Phase statuses.
const (
	StatusNotStarted PhaseStatus = "not_started"
	StatusInProgress PhaseStatus = "in_progress"
	StatusComplete   PhaseStatus = "complete"
	StatusSkipped    PhaseStatus = "skipped"
)

// Phase is one phase's derived state.
type Phase struct {
	ID PhaseID `json:"id"`

	Status PhaseStatus `json:"status"`

	// Progress is a percentage string ("42%") for phases with meaningful
	// partial completion (checklist, implement); empty otherwise.
	Progress string `json:"progress,omitempty"`

	// Optional marks phases the workflow may legitimately skip.
	Optional bool `json:"optional"`

	// Clarifications counts open clarification markers in the phase's
	// source document.
	Clarifications int `json:"clarifications"`
}

// Policy is the governance-mandated test-first policy consumed when deriving
// the testify phase.
type Policy string

// Policy values.
const (
	PolicyMandatory Policy = "mandatory"
	PolicyOptional  Policy = "optional"
	PolicyForbidden Policy = "forbidden"
)

// IsValid reports whether p is a recognized policy value.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyMandatory, PolicyOptional, PolicyForbidden:
		return true
	default:
		return false
	}
}
