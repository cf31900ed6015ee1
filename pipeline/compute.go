package pipeline

import (
	"fmt"
	"math"

	"github.com/c360studio/spectrace/artifact"
)

// Inputs carries everything the state computer consumes: artifact existence
// flags, parsed checklist and task detail, scenario presence, clarification
// counts, and the test-first policy. All fields describe one consistent
// snapshot of the document set.
type Inputs struct {
	HasConstitution bool
	HasSpec         bool
	HasPlan         bool
	HasTasks        bool
	HasAnalysis     bool

	// ScenarioFiles is the number of scenario files present.
	ScenarioFiles int

	Checklists []artifact.ChecklistFile
	Tasks      []artifact.Task

	// Clarification counts per source document.
	ConstitutionClarifications int
	SpecClarifications         int
	PlanClarifications         int

	Policy Policy
}

// Compute derives one Phase per known phase, in PhaseOrder. It is a pure
// function of its inputs.
func Compute(in Inputs) []Phase {
	phases := make([]Phase, 0, len(PhaseOrder))
	for _, id := range PhaseOrder {
		phases = append(phases, computePhase(id, in))
	}
	return phases
}

func computePhase(id PhaseID, in Inputs) Phase {
	switch id {
	case PhaseConstitution:
		return Phase{
			ID:             id,
			Status:         existenceStatus(in.HasConstitution),
			Clarifications: in.ConstitutionClarifications,
		}

	case PhaseSpec:
		return Phase{
			ID:             id,
			Status:         existenceStatus(in.HasSpec),
			Clarifications: in.SpecClarifications,
		}

	case PhasePlan:
		return Phase{
			ID:             id,
			Status:         existenceStatus(in.HasPlan),
			Clarifications: in.PlanClarifications,
		}

	case PhaseChecklist:
		return checklistPhase(in)

	case PhaseTestify:
		return testifyPhase(in)

	case PhaseTasks:
		return Phase{ID: id, Status: existenceStatus(in.HasTasks)}

	case PhaseAnalyze:
		return analyzePhase(in)

	case PhaseImplement:
		return implementPhase(in)
	}

	return Phase{ID: id, Status: StatusNotStarted}
}

func existenceStatus(exists bool) PhaseStatus {
	if exists {
		return StatusComplete
	}
	return StatusNotStarted
}

// checklistPhase derives status from aggregate checkbox completion across
// every checklist file.
func checklistPhase(in Inputs) Phase {
	p := Phase{ID: PhaseChecklist, Optional: true}

	if len(in.Checklists) == 0 {
		p.Status = StatusNotStarted
		return p
	}

	total, checked := 0, 0
	allComplete := true
	for _, f := range in.Checklists {
		total += f.Total
		checked += f.Checked
		if f.Percentage != 100 {
			allComplete = false
		}
	}

	p.Progress = percentString(checked, total)
	if allComplete {
		p.Status = StatusComplete
	} else {
		p.Status = StatusInProgress
	}
	return p
}

// testifyPhase honors the test-first policy: with scenarios present the phase
// is complete; with none present it is skipped only when the policy does not
// mandate test-first and the workflow has already moved on to tasks.
func testifyPhase(in Inputs) Phase {
	p := Phase{ID: PhaseTestify, Optional: in.Policy != PolicyMandatory}

	switch {
	case in.ScenarioFiles > 0:
		p.Status = StatusComplete
	case in.Policy != PolicyMandatory && in.HasTasks:
		p.Status = StatusSkipped
	default:
		p.Status = StatusNotStarted
	}
	return p
}

// analyzePhase is skipped once implementation has begun without a report.
func analyzePhase(in Inputs) Phase {
	p := Phase{ID: PhaseAnalyze, Optional: true}

	anyChecked := false
	for _, t := range in.Tasks {
		if t.Checked {
			anyChecked = true
			break
		}
	}

	switch {
	case in.HasAnalysis:
		p.Status = StatusComplete
	case anyChecked:
		p.Status = StatusSkipped
	default:
		p.Status = StatusNotStarted
	}
	return p
}

// implementPhase derives status from task checkbox completion.
func implementPhase(in Inputs) Phase {
	p := Phase{ID: PhaseImplement}

	if len(in.Tasks) == 0 {
		p.Status = StatusNotStarted
		return p
	}

	checked := 0
	for _, t := range in.Tasks {
		if t.Checked {
			checked++
		}
	}

	p.Progress = percentString(checked, len(in.Tasks))
	switch checked {
	case 0:
		p.Status = StatusNotStarted
	case len(in.Tasks):
		p.Status = StatusComplete
	default:
		p.Status = StatusInProgress
	}
	return p
}

func percentString(checked, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(checked)/float64(total)*100)))
}
