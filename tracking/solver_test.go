package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelab/tracecore/trackgraph"
)

func bigRegion() trackgraph.Region {
	return trackgraph.Region{
		BeginT: 0, EndT: 10,
		BeginZ: -100, EndZ: 100,
		BeginY: -100, EndY: 100,
		BeginX: -100, EndX: 100,
	}
}

func mustGraph(t *testing.T, nodes []trackgraph.Node, edges []trackgraph.Edge, region trackgraph.Region) *trackgraph.TrackGraph {
	t.Helper()
	g, err := trackgraph.NewTrackGraph(nodes, edges, region)
	require.NoError(t, err)

	return g
}

// straightTrackGraph is a single four-node lineage with no division:
// 0 <- 1 <- 2 <- 3 (edge direction is child -> parent, per Edge.Source
// being the later frame).
func straightTrackGraph(t *testing.T) *trackgraph.TrackGraph {
	t.Helper()
	nodes := []trackgraph.Node{
		{ID: 0, T: 0, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 1, T: 1, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 2, T: 2, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 3, T: 3, X: 1, Y: 1, Z: 1, Score: 1},
	}
	edges := []trackgraph.Edge{
		{Source: 1, Target: 0, Score: 1},
		{Source: 2, Target: 1, Score: 1},
		{Source: 3, Target: 2, Score: 1},
	}

	return mustGraph(t, nodes, edges, bigRegion())
}

func straightTrackParams() Parameters {
	return Parameters{
		TrackCost:         4,
		WeightNodeScore:   -0.1,
		WeightEdgeScore:   0.1,
		SelectionConstant: -1,
		MaxCellMove:       0,
	}
}

func TestSolve_StraightTrackSelectsFullChain(t *testing.T) {
	g := straightTrackGraph(t)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	for _, id := range []trackgraph.NodeID{0, 1, 2, 3} {
		n, ok := g.Node(id)
		require.True(t, ok)
		assert.Truef(t, g.NodeSelected("sel", id), "node %d should be selected", id)
		assert.True(t, n.T >= 0)
	}
	assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 1, Target: 0}))
	assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 2, Target: 1}))
	assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 3, Target: 2}))

	tracks := ExtractTracks(g, "sel")
	require.Len(t, tracks, 1)
	assert.Equal(t, trackgraph.NodeID(0), tracks[0].TrackID)
	assert.Equal(t, 4, tracks[0].NumCells)
	assert.Equal(t, int64(0), tracks[0].StartFrame)
	assert.Equal(t, int64(3), tracks[0].EndFrame)
}

func TestSolve_EmptyGraphParametersRejectEverything(t *testing.T) {
	g := straightTrackGraph(t)
	params := straightTrackParams()
	params.TrackCost = 1000 // starting any track is ruinously expensive
	params.WeightEdgeScore = 1000
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	for _, id := range []trackgraph.NodeID{0, 1, 2, 3} {
		assert.False(t, g.NodeSelected("sel", id))
	}
	assert.Empty(t, ExtractTracks(g, "sel"))
}

// divisionGraph mirrors a track splitting in two: node 1 divides into
// nodes 2 and 3 at t=2, one of which (3) continues to node 4 at t=3.
// Node 2 is strictly worse than node 3 (lower score, costlier link into
// node 1) so the optimal selection is unambiguous (no tie to break).
func divisionGraph(t *testing.T) *trackgraph.TrackGraph {
	t.Helper()
	nodes := []trackgraph.Node{
		{ID: 0, T: 0, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 1, T: 1, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 2, T: 2, X: 0, Y: 1, Z: 1, Score: 0.1}, // weak candidate
		{ID: 3, T: 2, X: 2, Y: 1, Z: 1, Score: 1},   // strong candidate
		{ID: 4, T: 3, X: 2, Y: 1, Z: 1, Score: 1},
	}
	edges := []trackgraph.Edge{
		{Source: 1, Target: 0, Score: 1},
		{Source: 2, Target: 1, Score: 15}, // weak link

		{Source: 3, Target: 1, Score: 1},
		{Source: 4, Target: 3, Score: 1},
	}

	return mustGraph(t, nodes, edges, bigRegion())
}

func TestSolve_DivisionPrefersStrongerChild(t *testing.T) {
	g := divisionGraph(t)
	params := straightTrackParams()
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	// 3 and 4 form the strictly beneficial continuation chain; they
	// must always be selected regardless of what happens to node 2.
	assert.True(t, g.NodeSelected("sel", 3))
	assert.True(t, g.NodeSelected("sel", 4))
	assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 4, Target: 3}))
	assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 3, Target: 1}))

	// Node 2 is a net loss to select: as a non-exempt node it needs its
	// link into node 1, which costs 0.1*15 = 1.5, more than its own
	// reward of 0.1*0.1 + 1 = 1.01.
	assert.False(t, g.NodeSelected("sel", 2))
	assert.False(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: 2, Target: 1}))
}

// TestSolve_AtMostTwoChildrenEnforced builds a node with three
// candidate children, all with identical, strictly beneficial scores,
// and checks that no more than two of them ever end up selected
// together (a parent has at most two selected children), without
// pinning which two win the tie.
func TestSolve_AtMostTwoChildrenEnforced(t *testing.T) {
	nodes := []trackgraph.Node{
		{ID: 1, T: 1, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 2, T: 2, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 3, T: 2, X: 2, Y: 1, Z: 1, Score: 1},
		{ID: 4, T: 2, X: 3, Y: 1, Z: 1, Score: 1},
	}
	edges := []trackgraph.Edge{
		{Source: 2, Target: 1, Score: 1},
		{Source: 3, Target: 1, Score: 1},
		{Source: 4, Target: 1, Score: 1},
	}
	g := mustGraph(t, nodes, edges, bigRegion())
	params := straightTrackParams()
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	selectedChildren := 0
	for _, id := range []trackgraph.NodeID{2, 3, 4} {
		if g.NodeSelected("sel", id) {
			selectedChildren++
			assert.True(t, g.EdgeSelected("sel", trackgraph.EdgeKey{Source: id, Target: 1}))
		}
	}
	assert.LessOrEqual(t, selectedChildren, 2)
}

func TestSolve_EveryEdgeImpliesBothEndpointsSelected(t *testing.T) {
	g := divisionGraph(t)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	for _, e := range g.AllEdges() {
		if g.EdgeSelected("sel", e.Key()) {
			assert.True(t, g.NodeSelected("sel", e.Source))
			assert.True(t, g.NodeSelected("sel", e.Target))
		}
	}
}

func TestCheckNodeCloseToROIEdge_BoundaryExemption(t *testing.T) {
	region := trackgraph.Region{
		BeginT: 0, EndT: 4,
		BeginZ: 0, EndZ: 10,
		BeginY: 0, EndY: 10,
		BeginX: 0, EndX: 4,
	}
	g := mustGraph(t, []trackgraph.Node{
		{ID: 1, T: 0, X: 2, Y: 5, Z: 5},
	}, nil, region)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)

	interior := trackgraph.Node{T: 1, X: 2, Y: 5, Z: 5}  // distance 2 from x-faces
	nearLow := trackgraph.Node{T: 1, X: 0, Y: 5, Z: 5}   // distance 0
	nearHigh := trackgraph.Node{T: 1, X: 3.5, Y: 5, Z: 5} // distance 0.5

	assert.False(t, solver.CheckNodeCloseToROIEdge(interior, 1.0))
	assert.True(t, solver.CheckNodeCloseToROIEdge(nearLow, 1.0))
	assert.True(t, solver.CheckNodeCloseToROIEdge(nearHigh, 1.0))
	assert.False(t, solver.CheckNodeCloseToROIEdge(nearHigh, 0.25))
}

func TestSolve_BoundaryExemptionAllowsParentlessSelection(t *testing.T) {
	// node 1 at t=1 sits exactly on the region's x boundary and has no
	// candidate parent edge at all; without the exemption it could
	// never be selected (constraint 5 would force x_n == 0). With no
	// track cost, its node reward alone makes selecting it worthwhile.
	region := trackgraph.Region{
		BeginT: 0, EndT: 4,
		BeginZ: -100, EndZ: 100,
		BeginY: -100, EndY: 100,
		BeginX: 0, EndX: 100,
	}
	nodes := []trackgraph.Node{
		{ID: 1, T: 1, X: 0, Y: 1, Z: 1, Score: 1},
	}
	g := mustGraph(t, nodes, nil, region)

	params := straightTrackParams()
	params.MaxCellMove = 0
	params.TrackCost = 0
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	assert.True(t, g.NodeSelected("sel", 1))
}

func TestSolve_NonExemptNodeWithoutParentIsRejected(t *testing.T) {
	region := bigRegion()
	nodes := []trackgraph.Node{
		{ID: 1, T: 1, X: 0, Y: 0, Z: 0, Score: 1}, // interior of a huge region, no parent edge
	}
	g := mustGraph(t, nodes, nil, region)

	params := straightTrackParams()
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	assert.False(t, g.NodeSelected("sel", 1))
}

func TestUpdateObjective_MatchesFreshSolverWithSameParameters(t *testing.T) {
	g1 := divisionGraph(t)
	g2 := divisionGraph(t)

	paramsA := straightTrackParams()
	paramsB := straightTrackParams()
	paramsB.WeightEdgeScore = 0.05
	paramsB.SelectionConstant = -2

	// Path 1: one solver, solve under A, then UpdateObjective to B.
	s1, err := NewSolver(g1, paramsA, "a")
	require.NoError(t, err)
	require.NoError(t, s1.Solve(context.Background()))
	require.NoError(t, s1.UpdateObjective(paramsB, "b"))
	require.NoError(t, s1.Solve(context.Background()))

	// Path 2: a fresh solver built directly under B.
	s2, err := NewSolver(g2, paramsB, "b")
	require.NoError(t, err)
	require.NoError(t, s2.Solve(context.Background()))

	for _, id := range []trackgraph.NodeID{0, 1, 2, 3, 4} {
		assert.Equal(t, g2.NodeSelected("b", id), g1.NodeSelected("b", id), "node %d selection mismatch", id)
	}
	for _, e := range g1.AllEdges() {
		assert.Equal(t, g2.EdgeSelected("b", e.Key()), g1.EdgeSelected("b", e.Key()), "edge %v selection mismatch", e.Key())
	}
}

func TestUpdateObjective_RejectsCellCycleModeToggle(t *testing.T) {
	g := straightTrackGraph(t)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)

	withCellCycle := straightTrackParams()
	withCellCycle.CellCycle = &CellCycleParameters{WeightDivision: 1}
	err = solver.UpdateObjective(withCellCycle, "sel2")
	assert.ErrorIs(t, err, ErrParameterError)
}

func TestUpdateObjective_RejectsMaxCellMoveChange(t *testing.T) {
	g := straightTrackGraph(t)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)

	changed := straightTrackParams()
	changed.MaxCellMove = 5
	err = solver.UpdateObjective(changed, "sel2")
	assert.ErrorIs(t, err, ErrParameterError)
}

func TestSolve_CellCycleModeSolvesWithoutInfeasibility(t *testing.T) {
	nodes := []trackgraph.Node{
		{ID: 0, T: 0, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 1, T: 1, X: 1, Y: 1, Z: 1, Score: 1, CellCycleProbs: &trackgraph.CellCycleProbs{Division: 0.8, Child: 0.1, Continuation: 0.1}},
		{ID: 2, T: 2, X: 0, Y: 1, Z: 1, Score: 1, CellCycleProbs: &trackgraph.CellCycleProbs{Division: 0.1, Child: 0.1, Continuation: 0.8}},
		{ID: 3, T: 2, X: 2, Y: 1, Z: 1, Score: 1, CellCycleProbs: &trackgraph.CellCycleProbs{Division: 0.1, Child: 0.1, Continuation: 0.8}},
	}
	edges := []trackgraph.Edge{
		{Source: 1, Target: 0, Score: 1},
		{Source: 2, Target: 1, Score: 1},
		{Source: 3, Target: 1, Score: 1},
	}
	g := mustGraph(t, nodes, edges, bigRegion())

	params := straightTrackParams()
	params.CellCycle = &CellCycleParameters{WeightDivision: 1, WeightChild: 0.2, WeightContinuation: 0.2, DivisionConstant: -2}
	solver, err := NewSolver(g, params, "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	assert.True(t, g.NodeSelected("sel", 0))
	assert.True(t, g.NodeSelected("sel", 1))
	// Dividing into both 2 and 3 is strictly net-beneficial: node 1's
	// high division probability times the negative division constant
	// outweighs the division weight (1 - 2*0.8 = -0.6), and nothing in
	// this graph competes for node 1's two child slots.
	assert.True(t, g.NodeSelected("sel", 2))
	assert.True(t, g.NodeSelected("sel", 3))
}

func TestExtractTracks_SplitsOnUnselectedEdge(t *testing.T) {
	g := divisionGraph(t)
	solver, err := NewSolver(g, straightTrackParams(), "sel")
	require.NoError(t, err)
	require.NoError(t, solver.Solve(context.Background()))

	tracks := ExtractTracks(g, "sel")
	// node 2 and its edge are rejected, so exactly one weakly-connected
	// component remains: 0 <- 1 <- 3 <- 4.
	require.Len(t, tracks, 1)
	assert.Equal(t, trackgraph.NodeID(0), tracks[0].TrackID)
	assert.Equal(t, 4, tracks[0].NumCells)
}

func TestExtractTracks_DeterministicUnderNodeOrderPermutation(t *testing.T) {
	nodes := []trackgraph.Node{
		{ID: 5, T: 0, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 2, T: 1, X: 1, Y: 1, Z: 1, Score: 1},
		{ID: 9, T: 2, X: 1, Y: 1, Z: 1, Score: 1},
	}
	edges := []trackgraph.Edge{
		{Source: 2, Target: 5, Score: 1},
		{Source: 9, Target: 2, Score: 1},
	}
	g := mustGraph(t, nodes, edges, bigRegion())
	for _, id := range []trackgraph.NodeID{5, 2, 9} {
		g.SetLabel("sel", id, true)
	}
	g.SetLabel("sel", trackgraph.EdgeKey{Source: 2, Target: 5}, true)
	g.SetLabel("sel", trackgraph.EdgeKey{Source: 9, Target: 2}, true)

	tracks := ExtractTracks(g, "sel")
	require.Len(t, tracks, 1)
	// TrackID is the lowest node id in the component, not the first id
	// supplied to NewTrackGraph (which was 5).
	assert.Equal(t, trackgraph.NodeID(2), tracks[0].TrackID)
}
