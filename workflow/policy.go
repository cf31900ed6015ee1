package workflow

import (
	"regexp"
	"strings"

	"github.com/c360studio/spectrace/pipeline"
)

// Patterns for deriving the test-first policy from the governance document.
var (
	testFirstPattern = regexp.MustCompile(`(?i)\btest[- ]first\b|\bTDD\b`)
	forbiddenPattern = regexp.MustCompile(`(?i)\bMUST NOT\b|\bforbidden\b`)
	mandatedPattern  = regexp.MustCompile(`(?i)\bNON-NEGOTIABLE\b|\bMANDATORY\b|\bMUST\b|\brequired\b`)
)

// DerivePolicy resolves the test-first policy. An explicit configured value
// wins; otherwise the governance document is re-parsed: a test-first
// principle line carrying a prohibition yields forbidden, one carrying
// mandating language yields mandatory, a mention without force yields
// optional, and no mention at all defaults to optional.
func DerivePolicy(configured string, constitution Document) pipeline.Policy {
	if p := pipeline.Policy(strings.ToLower(strings.TrimSpace(configured))); p.IsValid() {
		return p
	}
	if !constitution.Exists {
		return pipeline.PolicyOptional
	}

	for _, line := range strings.Split(constitution.Text, "\n") {
		if !testFirstPattern.MatchString(line) {
			continue
		}
		if forbiddenPattern.MatchString(line) {
			return pipeline.PolicyForbidden
		}
		if mandatedPattern.MatchString(line) {
			return pipeline.PolicyMandatory
		}
	}

	// Mentioned without force, or not mentioned at all.
	return pipeline.PolicyOptional
}
