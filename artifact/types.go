// Package artifact extracts typed records from the raw text of spec-driven
// development documents: requirements, executable test scenarios, tasks, and
// checklists.
//
// Extraction is line-oriented and pattern based. Each rule is tolerant of
// surrounding prose: a document with no matching lines yields an empty
// collection, never an error. Malformed-but-readable input is surfaced as
// anomaly strings on the relevant parse result rather than raised.
package artifact

// RequirementKind classifies a requirement identifier.
type RequirementKind string

// Requirement kinds.
const (
	// KindFunctional covers FR-prefixed functional requirements.
	KindFunctional RequirementKind = "functional"

	// KindSuccessCriterion covers SC-prefixed success criteria.
	KindSuccessCriterion RequirementKind = "success-criterion"
)

// Requirement is one identified normative statement from the requirements
// document. Identity is the ID string; the extractor does not deduplicate,
// duplicate occurrences are retained in document order for the caller.
type Requirement struct {
	// ID is the stable identifier, e.g. "FR-001" or "SC-003".
	ID string `json:"id"`

	// Kind is derived from the identifier prefix.
	Kind RequirementKind `json:"kind"`
}

// ScenarioType classifies a test specification.
type ScenarioType string

// Scenario types, matching the type tags in scenario files.
const (
	TypeAcceptance ScenarioType = "acceptance"
	TypeContract   ScenarioType = "contract"
	TypeValidation ScenarioType = "validation"
)

// IsValid reports whether t is a recognized scenario type.
func (t ScenarioType) IsValid() bool {
	switch t {
	case TypeAcceptance, TypeContract, TypeValidation:
		return true
	default:
		return false
	}
}

// TestSpec is one executable scenario extracted from a scenario file.
type TestSpec struct {
	// ID is the scenario's own identifier tag, e.g. "TS-001".
	ID string `json:"id"`

	// Type is the declared scenario type. Empty when the type tag is
	// absent; absence is reported as an anomaly, never defaulted.
	Type ScenarioType `json:"type,omitempty"`

	// Traceability lists the requirement and user-story ids referenced by
	// the scenario's tags, in tag order with duplicates removed.
	Traceability []string `json:"traceability"`

	// File is the basename of the scenario file the spec came from.
	File string `json:"file,omitempty"`
}

// Task is one unit of implementation work from the task list.
type Task struct {
	// ID is the task identifier, e.g. "T001".
	ID string `json:"id"`

	// Description is the task text after the identifier.
	Description string `json:"description"`

	// TestSpecRefs are the TestSpec ids the task is declared to satisfy.
	TestSpecRefs []string `json:"test_spec_refs"`

	// Checked reports whether the task's checkbox is marked complete.
	Checked bool `json:"checked"`
}

// ChecklistColor is the severity color derived from completion percentage.
type ChecklistColor string

// Checklist colors.
const (
	ColorRed    ChecklistColor = "red"
	ColorYellow ChecklistColor = "yellow"
	ColorGreen  ChecklistColor = "green"
)

// ChecklistFile is one checklist document's evaluation.
type ChecklistFile struct {
	// Name is the checklist file's basename.
	Name string `json:"name"`

	// Total is the number of checkbox items found.
	Total int `json:"total"`

	// Checked is the number of checked items.
	Checked int `json:"checked"`

	// Percentage is round(checked/total*100), 0 when Total is 0.
	Percentage int `json:"percentage"`

	// Color is red (<=33), yellow (<=66) or green, from Percentage.
	Color ChecklistColor `json:"color"`
}
