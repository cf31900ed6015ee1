// Package workflow owns the filesystem layout of a spec-driven feature and
// the computation of its full traceability status.
//
// The Manager resolves paths and performs the one-shot document reads; the
// Engine feeds the resulting Snapshot through the pure computation packages
// (artifact, trace, gate, integrity, pipeline). File reads are the only
// boundary effect: given the same snapshot, the computed status is always
// identical.
package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Layout constants within the root directory.
const (
	// MemoryDir holds project-wide governance documents.
	MemoryDir = "memory"

	// ConstitutionFile is the governance document filename.
	ConstitutionFile = "constitution.md"

	// SpecsDir holds one subdirectory per feature.
	SpecsDir = "specs"

	// SpecFile is the requirements document filename.
	SpecFile = "spec.md"

	// PlanFile is the plan document filename.
	PlanFile = "plan.md"

	// TasksFile is the task list filename.
	TasksFile = "tasks.md"

	// AnalysisFile is the analyze-phase report filename.
	AnalysisFile = "analysis.md"

	// ChecklistsDir holds the feature's checklist documents.
	ChecklistsDir = "checklists"

	// TestifyDir holds the feature's scenario files.
	TestifyDir = "testify"

	// LockFile is the persisted assertion-integrity record. It is written
	// by the locking workflow, never by this engine.
	LockFile = ".assertion-lock.json"
)

// Sentinel errors for feature operations.
var (
	ErrFeatureNotFound = errors.New("feature not found")
	ErrInvalidSlug     = errors.New("invalid feature slug")
)

// slugPattern restricts feature slugs to path-safe names.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateSlug checks that a feature slug is safe to use in paths.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// Manager resolves document paths beneath one root directory.
type Manager struct {
	root string

	// scenarioGlob and checklistGlob select files within their
	// directories, matched against basenames with doublestar.
	scenarioGlob  string
	checklistGlob string
}

// NewManager creates a Manager rooted at the given directory with default
// file patterns.
func NewManager(root string) *Manager {
	return &Manager{
		root:          root,
		scenarioGlob:  "*.feature",
		checklistGlob: "*.md",
	}
}

// WithGlobs overrides the scenario and checklist file patterns. Empty values
// keep the defaults.
func (m *Manager) WithGlobs(scenario, checklist string) *Manager {
	if scenario != "" {
		m.scenarioGlob = scenario
	}
	if checklist != "" {
		m.checklistGlob = checklist
	}
	return m
}

// RootPath returns the root directory.
func (m *Manager) RootPath() string { return m.root }

// ConstitutionPath returns the path to the governance document.
func (m *Manager) ConstitutionPath() string {
	return filepath.Join(m.root, MemoryDir, ConstitutionFile)
}

// SpecsPath returns the directory holding all features.
func (m *Manager) SpecsPath() string { return filepath.Join(m.root, SpecsDir) }

// FeaturePath returns a feature's directory.
func (m *Manager) FeaturePath(slug string) string {
	return filepath.Join(m.SpecsPath(), slug)
}

// SpecPath returns a feature's requirements document path.
func (m *Manager) SpecPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), SpecFile)
}

// PlanPath returns a feature's plan document path.
func (m *Manager) PlanPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), PlanFile)
}

// TasksPath returns a feature's task list path.
func (m *Manager) TasksPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), TasksFile)
}

// AnalysisPath returns a feature's analysis report path.
func (m *Manager) AnalysisPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), AnalysisFile)
}

// ChecklistsPath returns a feature's checklist directory.
func (m *Manager) ChecklistsPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), ChecklistsDir)
}

// TestifyPath returns a feature's scenario directory.
func (m *Manager) TestifyPath(slug string) string {
	return filepath.Join(m.FeaturePath(slug), TestifyDir)
}

// LockPath returns a feature's assertion-lock record path.
func (m *Manager) LockPath(slug string) string {
	return filepath.Join(m.TestifyPath(slug), LockFile)
}

// ListFeatures enumerates feature slugs under the specs directory, in sorted
// order. A missing specs directory yields an empty list.
func (m *Manager) ListFeatures() ([]string, error) {
	entries, err := os.ReadDir(m.SpecsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	features := []string{}
	for _, e := range entries {
		if e.IsDir() {
			features = append(features, e.Name())
		}
	}
	return features, nil
}
