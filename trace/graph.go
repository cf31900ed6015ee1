// Package trace builds the traceability graph connecting requirements to test
// specifications to implementation tasks, and derives coverage gaps from it.
//
// Edges are only constructed between endpoints that exist in their record
// collections. A traceability tag or task reference pointing at a nonexistent
// id produces no edge; the absence then surfaces through gap detection, which
// is a pure function of "has at least one valid outgoing edge".
package trace

import (
	"github.com/c360studio/spectrace/artifact"
)

// EdgeType classifies a directed relation in the traceability graph.
type EdgeType string

// Edge types.
const (
	// EdgeRequirementToTest links a requirement to a scenario that tests it.
	EdgeRequirementToTest EdgeType = "requirement-to-test"

	// EdgeTestToTask links a scenario to a task that implements it.
	EdgeTestToTask EdgeType = "test-to-task"
)

// Edge is one directed relation between two record ids.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// Gap lists records lacking required downstream coverage. Derived, never
// stored.
type Gap struct {
	// UntestedRequirements are requirement ids with no outgoing
	// requirement-to-test edge.
	UntestedRequirements []string `json:"untested_requirements"`

	// UnimplementedTests are test-spec ids with no outgoing test-to-task
	// edge.
	UnimplementedTests []string `json:"unimplemented_tests"`
}

// Tier is one level of the coverage pyramid: the scenarios of a single type.
type Tier struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Pyramid partitions test specifications by type. Scenarios with no valid
// type tag belong to no tier; they remain visible through parse anomalies.
type Pyramid struct {
	Acceptance Tier `json:"acceptance"`
	Contract   Tier `json:"contract"`
	Validation Tier `json:"validation"`
}

// Duplicates lists identifiers extracted more than once. The record
// collections keep every occurrence; this field exists so callers can flag
// authoring defects without the engine guessing at a resolution.
type Duplicates struct {
	Requirements []string `json:"requirements,omitempty"`
	TestSpecs    []string `json:"test_specs,omitempty"`
}

// Graph is the full traceability result for one feature.
type Graph struct {
	Edges      []Edge     `json:"edges"`
	Gap        Gap        `json:"gap"`
	Pyramid    Pyramid    `json:"pyramid"`
	Duplicates Duplicates `json:"duplicates"`
}

// Build links requirements, test specs, and tasks into a Graph.
func Build(reqs []artifact.Requirement, specs []artifact.TestSpec, tasks []artifact.Task) *Graph {
	g := &Graph{
		Edges: []Edge{},
		Gap: Gap{
			UntestedRequirements: []string{},
			UnimplementedTests:   []string{},
		},
	}

	reqIDs := map[string]bool{}
	for _, r := range reqs {
		reqIDs[r.ID] = true
	}
	specIDs := map[string]bool{}
	for _, s := range specs {
		specIDs[s.ID] = true
	}

	testedReqs := map[string]bool{}
	for _, s := range specs {
		for _, ref := range s.Traceability {
			if !reqIDs[ref] {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: ref, To: s.ID, Type: EdgeRequirementToTest})
			testedReqs[ref] = true
		}
	}

	implementedSpecs := map[string]bool{}
	for _, t := range tasks {
		for _, ref := range t.TestSpecRefs {
			if !specIDs[ref] {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: ref, To: t.ID, Type: EdgeTestToTask})
			implementedSpecs[ref] = true
		}
	}

	seenReq := map[string]bool{}
	for _, r := range reqs {
		if seenReq[r.ID] {
			continue
		}
		seenReq[r.ID] = true
		if !testedReqs[r.ID] {
			g.Gap.UntestedRequirements = append(g.Gap.UntestedRequirements, r.ID)
		}
	}
	seenSpec := map[string]bool{}
	for _, s := range specs {
		if seenSpec[s.ID] {
			continue
		}
		seenSpec[s.ID] = true
		if !implementedSpecs[s.ID] {
			g.Gap.UnimplementedTests = append(g.Gap.UnimplementedTests, s.ID)
		}
	}

	g.Pyramid = buildPyramid(specs)
	g.Duplicates = findDuplicates(reqs, specs)

	return g
}

// buildPyramid partitions specs by type, preserving insertion order per tier.
func buildPyramid(specs []artifact.TestSpec) Pyramid {
	p := Pyramid{
		Acceptance: Tier{IDs: []string{}},
		Contract:   Tier{IDs: []string{}},
		Validation: Tier{IDs: []string{}},
	}
	for _, s := range specs {
		switch s.Type {
		case artifact.TypeAcceptance:
			p.Acceptance.IDs = append(p.Acceptance.IDs, s.ID)
		case artifact.TypeContract:
			p.Contract.IDs = append(p.Contract.IDs, s.ID)
		case artifact.TypeValidation:
			p.Validation.IDs = append(p.Validation.IDs, s.ID)
		}
	}
	p.Acceptance.Count = len(p.Acceptance.IDs)
	p.Contract.Count = len(p.Contract.IDs)
	p.Validation.Count = len(p.Validation.IDs)
	return p
}

// findDuplicates reports ids extracted more than once, in first-seen order.
func findDuplicates(reqs []artifact.Requirement, specs []artifact.TestSpec) Duplicates {
	var d Duplicates

	counts := map[string]int{}
	var order []string
	for _, r := range reqs {
		if counts[r.ID] == 0 {
			order = append(order, r.ID)
		}
		counts[r.ID]++
	}
	for _, id := range order {
		if counts[id] > 1 {
			d.Requirements = append(d.Requirements, id)
		}
	}

	counts = map[string]int{}
	order = order[:0]
	for _, s := range specs {
		if counts[s.ID] == 0 {
			order = append(order, s.ID)
		}
		counts[s.ID]++
	}
	for _, id := range order {
		if counts[id] > 1 {
			d.TestSpecs = append(d.TestSpecs, id)
		}
	}

	return d
}
