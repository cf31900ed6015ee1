package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/spectrace/artifact"
)

// Document is one input document's content and existence flag. Absence is an
// explicit empty-result variant, not a failure.
type Document struct {
	Exists bool
	Text   string
}

// NamedDocument is a Document with its file basename, for directories of
// documents.
type NamedDocument struct {
	Name string
	Text string
}

// Snapshot is the one-shot read of every input document for one feature.
// Each file is read to completion before parsing begins, so a computation
// never observes a torn read across files.
type Snapshot struct {
	Feature string

	Constitution Document
	Spec         Document
	Plan         Document
	Tasks        Document
	Analysis     Document

	// Scenarios holds scenario files in sorted-name order.
	Scenarios []artifact.ScenarioFile

	// Checklists holds checklist documents in sorted-name order.
	Checklists []NamedDocument

	// StoredHash is the persisted assertion hash, nil when the lock
	// record is absent or unreadable.
	StoredHash *string
}

// lockRecord is the on-disk shape of the assertion-lock file.
type lockRecord struct {
	Hash     string `json:"hash"`
	LockedAt string `json:"locked_at,omitempty"`
}

// LoadSnapshot reads every document for the feature exactly once. Absent
// files yield absent Documents; absent directories yield empty collections.
// Only filesystem-level failures other than non-existence propagate.
func (m *Manager) LoadSnapshot(ctx context.Context, slug string) (*Snapshot, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(m.FeaturePath(slug)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, slug)
		}
		return nil, fmt.Errorf("failed to stat feature: %w", err)
	}

	snap := &Snapshot{Feature: slug}

	var err error
	if snap.Constitution, err = readDocument(m.ConstitutionPath()); err != nil {
		return nil, err
	}
	if snap.Spec, err = readDocument(m.SpecPath(slug)); err != nil {
		return nil, err
	}
	if snap.Plan, err = readDocument(m.PlanPath(slug)); err != nil {
		return nil, err
	}
	if snap.Tasks, err = readDocument(m.TasksPath(slug)); err != nil {
		return nil, err
	}
	if snap.Analysis, err = readDocument(m.AnalysisPath(slug)); err != nil {
		return nil, err
	}

	scenarios, err := readDirectory(m.TestifyPath(slug), m.scenarioGlob)
	if err != nil {
		return nil, err
	}
	snap.Scenarios = make([]artifact.ScenarioFile, 0, len(scenarios))
	for _, d := range scenarios {
		snap.Scenarios = append(snap.Scenarios, artifact.ScenarioFile{Name: d.Name, Text: d.Text})
	}

	if snap.Checklists, err = readDirectory(m.ChecklistsPath(slug), m.checklistGlob); err != nil {
		return nil, err
	}

	snap.StoredHash = readStoredHash(m.LockPath(slug))

	return snap, nil
}

// readDocument reads one file, mapping non-existence to an absent Document.
func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Document{Exists: true, Text: string(data)}, nil
}

// readDirectory reads every file in dir whose basename matches the glob, in
// sorted-name order. A missing directory yields an empty list.
func readDirectory(dir, glob string) ([]NamedDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []NamedDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := doublestar.Match(glob, e.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", glob, err)
		}
		if ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]NamedDocument, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Join(dir, name), err)
		}
		docs = append(docs, NamedDocument{Name: name, Text: string(data)})
	}
	return docs, nil
}

// readStoredHash reads the persisted assertion hash. Any failure, including
// a malformed record, degrades to an absent hash so the integrity check
// reports missing rather than the engine erroring.
func readStoredHash(path string) *string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var rec lockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	if rec.Hash == "" {
		return nil
	}
	return &rec.Hash
}
