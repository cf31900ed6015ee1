package artifact

import (
	"regexp"
	"strings"
)

// Extraction patterns for the task list document.
var (
	// taskLinePattern matches checkbox task lines:
	//   - [ ] T001 Set up project skeleton
	//   - [x] T002 [P] Implement parser (TS-001, TS-002)
	taskLinePattern = regexp.MustCompile(`^\s*-\s*\[([ xX])\]\s+(T\d+)\s*(.*)$`)

	// testSpecRefPattern matches embedded test-specification references
	// inside a task description.
	testSpecRefPattern = regexp.MustCompile(`\bTS-\d+\b`)
)

// ExtractTasks scans the task list for checkbox lines carrying a task
// identifier. Lines without the marker-plus-identifier shape are ignored as
// prose. Test-spec references anywhere in the description populate
// TestSpecRefs, deduplicated in first-seen order.
func ExtractTasks(text string) []Task {
	tasks := []Task{}
	for _, line := range strings.Split(text, "\n") {
		m := taskLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		desc := strings.TrimSpace(m[3])
		refs := []string{}
		seen := map[string]bool{}
		for _, ref := range testSpecRefPattern.FindAllString(desc, -1) {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}

		tasks = append(tasks, Task{
			ID:           m[2],
			Description:  desc,
			TestSpecRefs: refs,
			Checked:      m[1] != " ",
		})
	}
	return tasks
}
