package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/c360studio/spectrace/artifact"
	"github.com/c360studio/spectrace/gate"
	"github.com/c360studio/spectrace/integrity"
	"github.com/c360studio/spectrace/pipeline"
	"github.com/c360studio/spectrace/trace"
)

// Status is the full derived state for one feature: the record collections,
// the traceability graph, the checklist gate, the assertion-integrity
// verdict, and the per-phase pipeline state. It is the exchange format
// between this engine and presentation consumers.
type Status struct {
	Feature     string    `json:"feature"`
	GeneratedAt time.Time `json:"generated_at"`

	Requirements []artifact.Requirement `json:"requirements"`
	TestSpecs    []artifact.TestSpec    `json:"test_specs"`
	Tasks        []artifact.Task        `json:"tasks"`

	// Anomalies are authoring defects surfaced by extraction (missing
	// type tags, duplicate scenario ids).
	Anomalies []string `json:"anomalies,omitempty"`

	Graph trace.Graph `json:"graph"`

	Checklists []artifact.ChecklistFile `json:"checklists"`
	Gate       gate.Status              `json:"gate"`

	Integrity integrity.Record `json:"integrity"`

	Phases []pipeline.Phase `json:"phases"`
	Policy pipeline.Policy  `json:"policy"`
}

// Engine computes feature Status. It holds no mutable state; every Compute
// call takes a fresh snapshot and runs the pure pipeline over it.
type Engine struct {
	manager *Manager

	// policyOverride, when set to a valid policy value, bypasses
	// constitution-derived policy.
	policyOverride string
}

// NewEngine creates an Engine over the given Manager.
func NewEngine(m *Manager) *Engine {
	return &Engine{manager: m}
}

// WithPolicyOverride sets an explicit test-first policy, taking precedence
// over the governance document.
func (e *Engine) WithPolicyOverride(policy string) *Engine {
	e.policyOverride = policy
	return e
}

// Manager returns the engine's Manager.
func (e *Engine) Manager() *Manager { return e.manager }

// Compute reads one consistent snapshot of the feature's document set and
// derives its full Status.
func (e *Engine) Compute(ctx context.Context, slug string) (*Status, error) {
	snap, err := e.manager.LoadSnapshot(ctx, slug)
	if err != nil {
		return nil, err
	}
	status := ComputeStatus(snap, e.policyOverride)
	status.GeneratedAt = time.Now().UTC()
	return status, nil
}

// ComputeStatus derives Status from an in-memory snapshot. It is a pure
// function: the same snapshot always yields the same result (GeneratedAt is
// set by the caller at the I/O boundary).
func ComputeStatus(snap *Snapshot, policyOverride string) *Status {
	status := &Status{Feature: snap.Feature}

	status.Requirements = artifact.ExtractRequirements(snap.Spec.Text)
	scenarios := artifact.ExtractTestSpecs(snap.Scenarios)
	status.TestSpecs = scenarios.Specs
	status.Anomalies = scenarios.Anomalies
	status.Tasks = artifact.ExtractTasks(snap.Tasks.Text)

	status.Graph = *trace.Build(status.Requirements, status.TestSpecs, status.Tasks)

	status.Checklists = make([]artifact.ChecklistFile, 0, len(snap.Checklists))
	for _, doc := range snap.Checklists {
		status.Checklists = append(status.Checklists, artifact.EvaluateChecklist(doc.Name, doc.Text))
	}
	status.Gate = gate.Evaluate(status.Checklists)

	status.Integrity = integrity.Verify(integrity.ComputeHash(concatScenarios(snap.Scenarios)), snap.StoredHash)

	status.Policy = DerivePolicy(policyOverride, snap.Constitution)
	status.Phases = pipeline.Compute(pipeline.Inputs{
		HasConstitution:            snap.Constitution.Exists,
		HasSpec:                    snap.Spec.Exists,
		HasPlan:                    snap.Plan.Exists,
		HasTasks:                   snap.Tasks.Exists,
		HasAnalysis:                snap.Analysis.Exists,
		ScenarioFiles:              len(snap.Scenarios),
		Checklists:                 status.Checklists,
		Tasks:                      status.Tasks,
		ConstitutionClarifications: artifact.CountClarifications(snap.Constitution.Text),
		SpecClarifications:         artifact.CountClarifications(snap.Spec.Text),
		PlanClarifications:         artifact.CountClarifications(snap.Plan.Text),
		Policy:                     status.Policy,
	})

	return status
}

// concatScenarios joins scenario file contents in the snapshot's sorted-name
// order, so the integrity hash never depends on directory enumeration.
func concatScenarios(files []artifact.ScenarioFile) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, "\n")
}
