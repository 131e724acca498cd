package tracking

import (
	"github.com/lineagelab/tracecore/ilp"
	"github.com/lineagelab/tracecore/trackgraph"
)

// nodeCloseToROIEdge reports whether n's spatial position lies within
// maxCellMove of any non-t face of region — the boundary exemption
// from constraint family 5. Exposed on Solver as
// CheckNodeCloseToROIEdge for tests that exercise it directly.
func nodeCloseToROIEdge(n trackgraph.Node, region trackgraph.Region, maxCellMove float64) bool {
	return region.DistanceToSpatialBoundary(n) <= maxCellMove
}

// addConstraints emits the seven constraint families of the
// ConstraintBuilder against backend, once per TrackGraph, returning
// the number of constraints emitted. cellCycle gates families 6 and 7.
func addConstraints(backend ilp.Backend, graph *trackgraph.TrackGraph, vt *variableTable, region trackgraph.Region, maxCellMove float64, cellCycle bool) (int, error) {
	beginFrame := region.BeginT

	emitted := 0
	add := func(c ilp.LinearConstraint) error {
		if err := backend.AddLinearConstraint(c); err != nil {
			return err
		}
		emitted++

		return nil
	}

	for _, e := range graph.AllEdges() {
		// 1. Edge implies endpoints: 2*x_e - x_u - x_v <= 0.
		if err := add(ilp.LinearConstraint{
			Name: "edge_implies_endpoints",
			Terms: map[ilp.VarID]float64{
				vt.edge[e.Key()]:  2,
				vt.node[e.Source]: -1,
				vt.node[e.Target]: -1,
			},
			Op:  ilp.LE,
			RHS: 0,
		}); err != nil {
			return emitted, err
		}
	}

	for _, n := range graph.AllNodes() {
		next := graph.NextEdges(n.ID) // parent link, at most one
		prev := graph.PrevEdges(n.ID) // children, at most two

		// 2. At most one parent.
		if len(next) > 0 {
			terms := make(map[ilp.VarID]float64, len(next))
			for _, e := range next {
				terms[vt.edge[e.Key()]] = 1
			}
			if err := add(ilp.LinearConstraint{Name: "at_most_one_parent", Terms: terms, Op: ilp.LE, RHS: 1}); err != nil {
				return emitted, err
			}
		}

		// 3. At most two children.
		if len(prev) > 0 {
			terms := make(map[ilp.VarID]float64, len(prev))
			for _, e := range prev {
				terms[vt.edge[e.Key()]] = 1
			}
			if err := add(ilp.LinearConstraint{Name: "at_most_two_children", Terms: terms, Op: ilp.LE, RHS: 2}); err != nil {
				return emitted, err
			}
		}

		// 4. Children imply selection: |E|*x_n - sum_{e in E} x_e >= 0.
		if len(prev) > 0 {
			terms := make(map[ilp.VarID]float64, len(prev)+1)
			terms[vt.node[n.ID]] = float64(len(prev))
			for _, e := range prev {
				terms[vt.edge[e.Key()]] -= 1
			}
			if err := add(ilp.LinearConstraint{Name: "children_imply_selection", Terms: terms, Op: ilp.GE, RHS: 0}); err != nil {
				return emitted, err
			}
		}

		// 5. Parent continuity (interior): x_n - sum_next(n) x_e <= 0,
		// exempting nodes in the region's first frame or close to a
		// spatial boundary.
		exempt := n.T == beginFrame || nodeCloseToROIEdge(n, region, maxCellMove)
		if !exempt {
			terms := map[ilp.VarID]float64{vt.node[n.ID]: 1}
			for _, e := range next {
				terms[vt.edge[e.Key()]] -= 1
			}
			if err := add(ilp.LinearConstraint{Name: "parent_continuity", Terms: terms, Op: ilp.LE, RHS: 0}); err != nil {
				return emitted, err
			}
		}

		// Track-start linearization: s_n >= x_n - sum_next(n) x_e. s_n's
		// own non-negativity is free (binary domain). This constraint is
		// structural — it supports the objective's track_cost term but,
		// like every other family here, is only ever emitted once and
		// reused across parameter sets.
		startTerms := map[ilp.VarID]float64{vt.start[n.ID]: 1, vt.node[n.ID]: -1}
		for _, e := range next {
			startTerms[vt.edge[e.Key()]] += 1
		}
		if err := add(ilp.LinearConstraint{Name: "track_start_indicator", Terms: startTerms, Op: ilp.GE, RHS: 0}); err != nil {
			return emitted, err
		}

		if !cellCycle {
			continue
		}

		// 6. Cell-cycle exclusivity: c_div + c_child + c_cont - x_n = 0.
		if err := add(ilp.LinearConstraint{
			Name: "cell_cycle_exclusivity",
			Terms: map[ilp.VarID]float64{
				vt.div[n.ID]:   1,
				vt.child[n.ID]: 1,
				vt.cont[n.ID]:  1,
				vt.node[n.ID]:  -1,
			},
			Op:  ilp.EQ,
			RHS: 0,
		}); err != nil {
			return emitted, err
		}

		// 7a. c_div = 1 iff exactly two children selected:
		// sum_prev - 2*c_div <= 1 and sum_prev - 2*c_div >= 0.
		divTerms := map[ilp.VarID]float64{vt.div[n.ID]: -2}
		for _, e := range prev {
			divTerms[vt.edge[e.Key()]] += 1
		}
		if err := add(ilp.LinearConstraint{Name: "cell_cycle_division_upper", Terms: cloneTerms(divTerms), Op: ilp.LE, RHS: 1}); err != nil {
			return emitted, err
		}
		if err := add(ilp.LinearConstraint{Name: "cell_cycle_division_lower", Terms: cloneTerms(divTerms), Op: ilp.GE, RHS: 0}); err != nil {
			return emitted, err
		}

		// 7b. c_cont = 1 iff exactly one child is selected. Upper
		// bounds: c_cont <= sum_prev and c_cont <= 2 - sum_prev, which
		// pin c_cont to 0 at sum_prev==0 or ==2. Lower bound:
		// c_cont >= sum_prev - 2*c_div, which forces c_cont = 1 at
		// sum_prev==1 (where 7a already forces c_div = 0) without
		// leaving the choice to objective coefficients — with tied
		// coefficients the split between c_cont and c_child would
		// otherwise fall to the backend's branch order. c_child is
		// never directly constrained against next_edges: it is the
		// complement left over by exclusivity (6) once c_div and
		// c_cont are pinned, meaning "this node has no selected
		// children" — a node may divide and still have its own parent
		// edge selected, so coupling c_child to the parent link would
		// conflict with exclusivity.
		contUpperA := map[ilp.VarID]float64{vt.cont[n.ID]: 1}
		contUpperB := map[ilp.VarID]float64{vt.cont[n.ID]: 1}
		contPin := map[ilp.VarID]float64{vt.cont[n.ID]: 1, vt.div[n.ID]: 2}
		for _, e := range prev {
			contUpperA[vt.edge[e.Key()]] -= 1
			contUpperB[vt.edge[e.Key()]] += 1
			contPin[vt.edge[e.Key()]] -= 1
		}
		if err := add(ilp.LinearConstraint{Name: "cell_cycle_continuation_lower", Terms: contUpperA, Op: ilp.LE, RHS: 0}); err != nil {
			return emitted, err
		}
		if err := add(ilp.LinearConstraint{Name: "cell_cycle_continuation_upper", Terms: contUpperB, Op: ilp.LE, RHS: 2}); err != nil {
			return emitted, err
		}
		if err := add(ilp.LinearConstraint{Name: "cell_cycle_continuation_pin", Terms: contPin, Op: ilp.GE, RHS: 0}); err != nil {
			return emitted, err
		}
	}

	return emitted, nil
}

func cloneTerms(m map[ilp.VarID]float64) map[ilp.VarID]float64 {
	out := make(map[ilp.VarID]float64, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
