package tracking

import (
	"github.com/lineagelab/tracecore/ilp"
	"github.com/lineagelab/tracecore/trackgraph"
)

// setObjective overwrites every variable's coefficient to reflect
// params. Called once from NewSolver and again, with new params, from
// UpdateObjective — in both cases it touches exactly the variables in
// vt, never adding or removing one, per the ObjectiveBuilder's sum-type
// design note (Basic vs. CellCycle switches which extra coefficients
// get written, not which variables exist).
func setObjective(backend ilp.Backend, graph *trackgraph.TrackGraph, vt *variableTable, params Parameters) error {
	for _, n := range graph.AllNodes() {
		nodeCoeff := params.WeightNodeScore*n.Score + params.SelectionConstant
		if err := backend.SetCoefficient(vt.node[n.ID], nodeCoeff); err != nil {
			return err
		}
		if err := backend.SetCoefficient(vt.start[n.ID], params.TrackCost); err != nil {
			return err
		}

		if params.CellCycle == nil {
			continue
		}
		probs := n.CellCycleProbs
		var pDiv, pChild, pCont float64
		if probs != nil {
			pDiv, pChild, pCont = probs.Division, probs.Child, probs.Continuation
		}
		divCoeff := params.CellCycle.WeightDivision + params.CellCycle.DivisionConstant*pDiv
		if err := backend.SetCoefficient(vt.div[n.ID], divCoeff); err != nil {
			return err
		}
		if err := backend.SetCoefficient(vt.child[n.ID], params.CellCycle.WeightChild*pChild); err != nil {
			return err
		}
		if err := backend.SetCoefficient(vt.cont[n.ID], params.CellCycle.WeightContinuation*pCont); err != nil {
			return err
		}
	}

	for _, e := range graph.AllEdges() {
		if err := backend.SetCoefficient(vt.edge[e.Key()], params.WeightEdgeScore*e.Score); err != nil {
			return err
		}
	}

	return nil
}
