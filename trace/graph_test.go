package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/spectrace/artifact"
)

func TestBuild_LinksAndGaps(t *testing.T) {
	reqs := []artifact.Requirement{
		{ID: "FR-001", Kind: artifact.KindFunctional},
		{ID: "FR-002", Kind: artifact.KindFunctional},
	}
	specs := []artifact.TestSpec{
		{ID: "TS-001", Type: artifact.TypeAcceptance, Traceability: []string{"FR-001"}},
	}
	tasks := []artifact.Task{
		{ID: "T001", TestSpecRefs: []string{"TS-001"}},
	}

	g := Build(reqs, specs, tasks)

	require.Len(t, g.Edges, 2)
	assert.Equal(t, Edge{From: "FR-001", To: "TS-001", Type: EdgeRequirementToTest}, g.Edges[0])
	assert.Equal(t, Edge{From: "TS-001", To: "T001", Type: EdgeTestToTask}, g.Edges[1])

	assert.Equal(t, []string{"FR-002"}, g.Gap.UntestedRequirements)
	assert.Empty(t, g.Gap.UnimplementedTests)
}

func TestBuild_DanglingReferencesProduceNoEdges(t *testing.T) {
	specs := []artifact.TestSpec{
		{ID: "TS-001", Traceability: []string{"FR-999"}},
	}
	tasks := []artifact.Task{
		{ID: "T001", TestSpecRefs: []string{"TS-404"}},
	}

	g := Build(nil, specs, tasks)

	assert.Empty(t, g.Edges)
	assert.Equal(t, []string{"TS-001"}, g.Gap.UnimplementedTests)

	// Every edge endpoint must exist in its record collection; with no
	// requirements there can be no requirement edges at all.
	assert.Empty(t, g.Gap.UntestedRequirements)
}

func TestBuild_UnimplementedTests(t *testing.T) {
	reqs := []artifact.Requirement{{ID: "FR-001"}}
	specs := []artifact.TestSpec{
		{ID: "TS-001", Traceability: []string{"FR-001"}},
		{ID: "TS-002", Traceability: []string{"FR-001"}},
	}
	tasks := []artifact.Task{
		{ID: "T001", TestSpecRefs: []string{"TS-001"}},
	}

	g := Build(reqs, specs, tasks)

	assert.Equal(t, []string{"TS-002"}, g.Gap.UnimplementedTests)
	assert.Empty(t, g.Gap.UntestedRequirements)
}

func TestBuild_Pyramid(t *testing.T) {
	specs := []artifact.TestSpec{
		{ID: "TS-001", Type: artifact.TypeAcceptance},
		{ID: "TS-002", Type: artifact.TypeContract},
		{ID: "TS-003", Type: artifact.TypeAcceptance},
		{ID: "TS-004", Type: artifact.TypeValidation},
		{ID: "TS-005"}, // untyped: belongs to no tier
	}

	g := Build(nil, specs, nil)

	assert.Equal(t, 2, g.Pyramid.Acceptance.Count)
	assert.Equal(t, []string{"TS-001", "TS-003"}, g.Pyramid.Acceptance.IDs)
	assert.Equal(t, 1, g.Pyramid.Contract.Count)
	assert.Equal(t, 1, g.Pyramid.Validation.Count)
}

func TestBuild_DuplicatesSurfaced(t *testing.T) {
	reqs := []artifact.Requirement{
		{ID: "FR-001"}, {ID: "FR-002"}, {ID: "FR-001"},
	}
	specs := []artifact.TestSpec{
		{ID: "TS-001"}, {ID: "TS-001"},
	}

	g := Build(reqs, specs, nil)

	assert.Equal(t, []string{"FR-001"}, g.Duplicates.Requirements)
	assert.Equal(t, []string{"TS-001"}, g.Duplicates.TestSpecs)

	// Gap lists stay deduplicated even when the collections are not.
	assert.Equal(t, []string{"FR-001", "FR-002"}, g.Gap.UntestedRequirements)
	assert.Equal(t, []string{"TS-001"}, g.Gap.UnimplementedTests)
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, nil, nil)

	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Gap.UntestedRequirements)
	assert.Empty(t, g.Gap.UnimplementedTests)
	assert.Equal(t, 0, g.Pyramid.Acceptance.Count)
}
