package artifact

import (
	"regexp"
	"strings"
)

// Extraction patterns for the requirements document.
var (
	// requirementIDPattern matches functional-requirement and
	// success-criterion codes anywhere in prose.
	requirementIDPattern = regexp.MustCompile(`\b(FR|SC)-\d{3,}\b`)

	// clarificationPattern matches the open-question marker left by the
	// authoring workflow when a detail needs human input.
	clarificationPattern = regexp.MustCompile(`\[NEEDS CLARIFICATION`)
)

// ExtractRequirements scans the requirements document for requirement and
// success-criterion identifiers. Each match yields one Requirement, in
// document order. The same id appearing twice yields two records; duplicate
// handling belongs to the caller.
func ExtractRequirements(text string) []Requirement {
	reqs := []Requirement{}
	for _, line := range strings.Split(text, "\n") {
		for _, id := range requirementIDPattern.FindAllString(line, -1) {
			reqs = append(reqs, Requirement{
				ID:   id,
				Kind: kindForID(id),
			})
		}
	}
	return reqs
}

// kindForID maps an identifier prefix to its RequirementKind.
func kindForID(id string) RequirementKind {
	if strings.HasPrefix(id, "SC-") {
		return KindSuccessCriterion
	}
	return KindFunctional
}

// CountClarifications returns the number of open clarification markers in the
// given document text. Zero for empty or absent documents.
func CountClarifications(text string) int {
	return len(clarificationPattern.FindAllString(text, -1))
}
