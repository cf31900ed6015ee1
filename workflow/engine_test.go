package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/c360studio/spectrace/gate"
	"github.com/c360studio/spectrace/integrity"
	"github.com/c360studio/spectrace/pipeline"
)

// writeFile creates path's parent directories and writes content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fixtureRoot builds a complete document set for one feature and returns the
// root directory.
func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	m := NewManager(root)

	writeFile(t, m.ConstitutionPath(), "### III. Test-First (NON-NEGOTIABLE)\nTests before code.\n")
	writeFile(t, m.SpecPath("login"), "- **FR-001**: Users MUST log in.\n- **FR-002**: Sessions MUST expire.\n")
	writeFile(t, m.PlanPath("login"), "# Plan\n[NEEDS CLARIFICATION: session store?]\n")
	writeFile(t, m.TasksPath("login"), "- [x] T001 Implement login (TS-001)\n- [ ] T002 Expiry job\n")
	writeFile(t, filepath.Join(m.TestifyPath("login"), "login.feature"),
		"@TS-001 @FR-001 @acceptance\nScenario: Login works\n  Given a registered user\n  When they log in\n  Then they are authenticated\n")
	writeFile(t, filepath.Join(m.ChecklistsPath("login"), "security.md"),
		"- [x] threat model reviewed\n- [x] secrets audited\n")
	writeFile(t, filepath.Join(m.ChecklistsPath("login"), "ux.md"),
		"- [x] copy reviewed\n")

	return root
}

func TestEngineCompute_FullFeature(t *testing.T) {
	root := fixtureRoot(t)
	engine := NewEngine(NewManager(root))

	status, err := engine.Compute(context.Background(), "login")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(status.Requirements) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(status.Requirements))
	}
	if len(status.TestSpecs) != 1 || status.TestSpecs[0].ID != "TS-001" {
		t.Fatalf("expected one TS-001 spec, got %+v", status.TestSpecs)
	}
	if len(status.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(status.Tasks))
	}

	// FR-001 -> TS-001 -> T001; FR-002 has no coverage.
	if len(status.Graph.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %+v", status.Graph.Edges)
	}
	if got := status.Graph.Gap.UntestedRequirements; len(got) != 1 || got[0] != "FR-002" {
		t.Errorf("untested requirements = %v, want [FR-002]", got)
	}
	if len(status.Graph.Gap.UnimplementedTests) != 0 {
		t.Errorf("unimplemented tests = %v, want none", status.Graph.Gap.UnimplementedTests)
	}

	if status.Gate.Status != gate.StateOpen || status.Gate.Level != gate.LevelGreen {
		t.Errorf("gate = %+v, want open/green", status.Gate)
	}

	// No lock record was written, so integrity is missing.
	if status.Integrity.Status != integrity.StatusMissing {
		t.Errorf("integrity status = %s, want missing", status.Integrity.Status)
	}
	if status.Integrity.CurrentHash == nil {
		t.Error("expected a current hash for the step lines")
	}

	// Constitution mandates test-first.
	if status.Policy != pipeline.PolicyMandatory {
		t.Errorf("policy = %s, want mandatory", status.Policy)
	}

	wantStatuses := map[pipeline.PhaseID]pipeline.PhaseStatus{
		pipeline.PhaseConstitution: pipeline.StatusComplete,
		pipeline.PhaseSpec:         pipeline.StatusComplete,
		pipeline.PhasePlan:         pipeline.StatusComplete,
		pipeline.PhaseChecklist:    pipeline.StatusComplete,
		pipeline.PhaseTestify:      pipeline.StatusComplete,
		pipeline.PhaseTasks:        pipeline.StatusComplete,
		pipeline.PhaseAnalyze:      pipeline.StatusSkipped,
		pipeline.PhaseImplement:    pipeline.StatusInProgress,
	}
	for _, p := range status.Phases {
		if want, ok := wantStatuses[p.ID]; ok && p.Status != want {
			t.Errorf("phase %s = %s, want %s", p.ID, p.Status, want)
		}
		if p.ID == pipeline.PhasePlan && p.Clarifications != 1 {
			t.Errorf("plan clarifications = %d, want 1", p.Clarifications)
		}
		if p.ID == pipeline.PhaseImplement && p.Progress != "50%" {
			t.Errorf("implement progress = %q, want 50%%", p.Progress)
		}
	}
}

func TestEngineCompute_IntegrityValid(t *testing.T) {
	root := fixtureRoot(t)
	m := NewManager(root)

	// Persist the hash the engine will recompute.
	data, err := os.ReadFile(filepath.Join(m.TestifyPath("login"), "login.feature"))
	if err != nil {
		t.Fatalf("read scenario: %v", err)
	}
	current := integrity.ComputeHash(string(data))
	if current == nil {
		t.Fatal("expected a hash for fixture step lines")
	}
	writeFile(t, m.LockPath("login"), `{"hash":"`+*current+`","locked_at":"2026-08-30T12:00:00Z"}`)

	status, err := NewEngine(m).Compute(context.Background(), "login")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if status.Integrity.Status != integrity.StatusValid {
		t.Errorf("integrity status = %s, want valid", status.Integrity.Status)
	}
}

func TestEngineCompute_IntegrityTampered(t *testing.T) {
	root := fixtureRoot(t)
	m := NewManager(root)
	writeFile(t, m.LockPath("login"), `{"hash":"deadbeef"}`)

	status, err := NewEngine(m).Compute(context.Background(), "login")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if status.Integrity.Status != integrity.StatusTampered {
		t.Errorf("integrity status = %s, want tampered", status.Integrity.Status)
	}
}

func TestEngineCompute_MalformedLockDegradesToMissing(t *testing.T) {
	root := fixtureRoot(t)
	m := NewManager(root)
	writeFile(t, m.LockPath("login"), "not json at all")

	status, err := NewEngine(m).Compute(context.Background(), "login")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if status.Integrity.Status != integrity.StatusMissing {
		t.Errorf("integrity status = %s, want missing", status.Integrity.Status)
	}
	if status.Integrity.StoredHash != nil {
		t.Error("expected malformed lock to read as absent hash")
	}
}

func TestEngineCompute_FeatureNotFound(t *testing.T) {
	engine := NewEngine(NewManager(t.TempDir()))

	_, err := engine.Compute(context.Background(), "ghost")
	if !errors.Is(err, ErrFeatureNotFound) {
		t.Errorf("error = %v, want ErrFeatureNotFound", err)
	}
}

func TestEngineCompute_InvalidSlug(t *testing.T) {
	engine := NewEngine(NewManager(t.TempDir()))

	_, err := engine.Compute(context.Background(), "../escape")
	if !errors.Is(err, ErrInvalidSlug) {
		t.Errorf("error = %v, want ErrInvalidSlug", err)
	}
}

func TestEngineCompute_BareFeature(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)
	if err := os.MkdirAll(m.FeaturePath("empty"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	status, err := NewEngine(m).Compute(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(status.Requirements) != 0 || len(status.TestSpecs) != 0 || len(status.Tasks) != 0 {
		t.Errorf("expected empty collections, got %+v", status)
	}
	if status.Gate.Status != gate.StateBlocked || status.Gate.Level != gate.LevelRed {
		t.Errorf("gate = %+v, want blocked/red", status.Gate)
	}
	if status.Integrity.Status != integrity.StatusMissing {
		t.Errorf("integrity = %s, want missing", status.Integrity.Status)
	}
	for _, p := range status.Phases {
		if p.ID == pipeline.PhaseSpec && p.Status != pipeline.StatusNotStarted {
			t.Errorf("spec phase = %s, want not_started", p.Status)
		}
	}
}

func TestLoadSnapshot_ScenarioFilesSorted(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)
	writeFile(t, filepath.Join(m.TestifyPath("f"), "b.feature"), "Given b\n")
	writeFile(t, filepath.Join(m.TestifyPath("f"), "a.feature"), "Given a\n")
	writeFile(t, filepath.Join(m.TestifyPath("f"), "notes.txt"), "not a scenario\n")

	snap, err := m.LoadSnapshot(context.Background(), "f")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if len(snap.Scenarios) != 2 {
		t.Fatalf("expected 2 scenario files, got %d", len(snap.Scenarios))
	}
	if snap.Scenarios[0].Name != "a.feature" || snap.Scenarios[1].Name != "b.feature" {
		t.Errorf("scenario order = %s, %s; want a.feature, b.feature",
			snap.Scenarios[0].Name, snap.Scenarios[1].Name)
	}
}

func TestComputeStatus_Deterministic(t *testing.T) {
	root := fixtureRoot(t)
	m := NewManager(root)

	snap, err := m.LoadSnapshot(context.Background(), "login")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	first := ComputeStatus(snap, "")
	second := ComputeStatus(snap, "")

	if !reflect.DeepEqual(first, second) {
		t.Error("ComputeStatus is not deterministic over an unchanged snapshot")
	}
}

func TestManagerListFeatures(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	features, err := m.ListFeatures()
	if err != nil {
		t.Fatalf("ListFeatures() error = %v", err)
	}
	if len(features) != 0 {
		t.Errorf("expected no features, got %v", features)
	}

	writeFile(t, m.SpecPath("alpha"), "FR-001")
	writeFile(t, m.SpecPath("beta"), "FR-001")

	features, err = m.ListFeatures()
	if err != nil {
		t.Fatalf("ListFeatures() error = %v", err)
	}
	if !reflect.DeepEqual(features, []string{"alpha", "beta"}) {
		t.Errorf("features = %v, want [alpha beta]", features)
	}
}

func TestValidateSlug(t *testing.T) {
	for _, slug := range []string{"login", "user-auth", "v2.1", "a"} {
		if err := ValidateSlug(slug); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", slug, err)
		}
	}
	for _, slug := range []string{"", "../up", "UPPER", "/abs", ".hidden"} {
		if err := ValidateSlug(slug); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, want error", slug)
		}
	}
}
