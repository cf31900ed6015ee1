package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// Extraction patterns for Gherkin-style scenario files.
var (
	scenarioHeaderPattern = regexp.MustCompile(`(?i)^\s*Scenario(?: Outline)?:`)
	tagPattern            = regexp.MustCompile(`@([A-Za-z][\w.-]*)`)
	scenarioIDPattern     = regexp.MustCompile(`^TS-\d+$`)
	traceTagPattern       = regexp.MustCompile(`^(?:FR|SC)-\d{3,}$|^US\d+$`)
)

// ScenarioParseResult is the outcome of extracting test specifications from
// one or more scenario files.
type ScenarioParseResult struct {
	// Specs are the extracted test specifications, in file-then-document
	// order.
	Specs []TestSpec `json:"specs"`

	// Anomalies are human-readable descriptions of authoring defects:
	// scenarios without a type tag, without an id tag, or with an id
	// already used by an earlier scenario. Anomalies never remove a spec
	// from Specs (except for the missing-id case, where there is no
	// identity to record).
	Anomalies []string `json:"anomalies,omitempty"`
}

// ScenarioFile pairs a scenario file's basename with its full text. Callers
// are expected to supply files in sorted-name order so results are stable
// across directory enumeration differences.
type ScenarioFile struct {
	Name string
	Text string
}

// ExtractTestSpecs extracts one TestSpec per tagged scenario block across the
// given files. Tag lines immediately preceding a "Scenario:" header are
// accumulated; the TS-prefixed tag becomes the spec id, requirement and
// user-story tags become traceability entries, and a type tag (acceptance,
// contract, validation) classifies the spec.
func ExtractTestSpecs(files []ScenarioFile) *ScenarioParseResult {
	result := &ScenarioParseResult{Specs: []TestSpec{}}
	seen := map[string]bool{}

	for _, f := range files {
		var pending []string
		for _, line := range strings.Split(f.Text, "\n") {
			trimmed := strings.TrimSpace(line)

			if strings.HasPrefix(trimmed, "@") {
				for _, m := range tagPattern.FindAllStringSubmatch(trimmed, -1) {
					pending = append(pending, m[1])
				}
				continue
			}

			if scenarioHeaderPattern.MatchString(line) {
				spec, anomalies := buildSpec(f.Name, trimmed, pending)
				pending = nil
				result.Anomalies = append(result.Anomalies, anomalies...)
				if spec == nil {
					continue
				}
				if seen[spec.ID] {
					result.Anomalies = append(result.Anomalies,
						fmt.Sprintf("duplicate scenario id %s in %s", spec.ID, f.Name))
				}
				seen[spec.ID] = true
				result.Specs = append(result.Specs, *spec)
				continue
			}

			// Any other non-blank line breaks the tag run; tags only
			// apply to the scenario block they directly precede.
			if trimmed != "" {
				pending = nil
			}
		}
	}

	return result
}

// buildSpec assembles a TestSpec from the tags collected ahead of one
// scenario header. A nil spec means the scenario carried no id tag.
func buildSpec(file, header string, tags []string) (*TestSpec, []string) {
	spec := &TestSpec{File: file, Traceability: []string{}}
	var anomalies []string
	seenTrace := map[string]bool{}

	for _, tag := range tags {
		switch {
		case scenarioIDPattern.MatchString(tag):
			if spec.ID == "" {
				spec.ID = tag
			}
		case traceTagPattern.MatchString(tag):
			if !seenTrace[tag] {
				seenTrace[tag] = true
				spec.Traceability = append(spec.Traceability, tag)
			}
		case ScenarioType(strings.ToLower(tag)).IsValid():
			spec.Type = ScenarioType(strings.ToLower(tag))
		}
	}

	if spec.ID == "" {
		anomalies = append(anomalies,
			fmt.Sprintf("scenario without id tag in %s: %s", file, header))
		return nil, anomalies
	}
	if spec.Type == "" {
		anomalies = append(anomalies,
			fmt.Sprintf("scenario %s in %s has no type tag", spec.ID, file))
	}
	return spec, anomalies
}
