package tracking

import (
	"strconv"

	"github.com/lineagelab/tracecore/ilp"
	"github.com/lineagelab/tracecore/trackgraph"
)

// variableTable is the one-time mapping from graph entities to ilp.Backend
// variable handles, built by buildVariables and never mutated again —
// UpdateObjective only ever calls SetCoefficient against the ids stored
// here.
type variableTable struct {
	node  map[trackgraph.NodeID]ilp.VarID
	edge  map[trackgraph.EdgeKey]ilp.VarID
	start map[trackgraph.NodeID]ilp.VarID // s_n, the track-start indicator

	// populated only when cell-cycle mode is on
	div   map[trackgraph.NodeID]ilp.VarID
	child map[trackgraph.NodeID]ilp.VarID
	cont  map[trackgraph.NodeID]ilp.VarID
}

func buildVariables(backend ilp.Backend, graph *trackgraph.TrackGraph, cellCycle bool) *variableTable {
	nodes := graph.AllNodes()
	edges := graph.AllEdges()

	vt := &variableTable{
		node:  make(map[trackgraph.NodeID]ilp.VarID, len(nodes)),
		edge:  make(map[trackgraph.EdgeKey]ilp.VarID, len(edges)),
		start: make(map[trackgraph.NodeID]ilp.VarID, len(nodes)),
	}
	if cellCycle {
		vt.div = make(map[trackgraph.NodeID]ilp.VarID, len(nodes))
		vt.child = make(map[trackgraph.NodeID]ilp.VarID, len(nodes))
		vt.cont = make(map[trackgraph.NodeID]ilp.VarID, len(nodes))
	}

	for _, n := range nodes {
		vt.node[n.ID] = backend.AddVariable(ilp.Variable{Name: nodeVarName(n.ID)})
		vt.start[n.ID] = backend.AddVariable(ilp.Variable{Name: startVarName(n.ID)})
		if cellCycle {
			vt.div[n.ID] = backend.AddVariable(ilp.Variable{Name: divVarName(n.ID)})
			vt.child[n.ID] = backend.AddVariable(ilp.Variable{Name: childVarName(n.ID)})
			vt.cont[n.ID] = backend.AddVariable(ilp.Variable{Name: contVarName(n.ID)})
		}
	}
	for _, e := range edges {
		vt.edge[e.Key()] = backend.AddVariable(ilp.Variable{Name: edgeVarName(e.Key())})
	}

	return vt
}

func nodeVarName(id trackgraph.NodeID) string  { return "x_n" + itoa(id) }
func startVarName(id trackgraph.NodeID) string { return "s_n" + itoa(id) }
func divVarName(id trackgraph.NodeID) string   { return "c_div" + itoa(id) }
func childVarName(id trackgraph.NodeID) string { return "c_child" + itoa(id) }
func contVarName(id trackgraph.NodeID) string  { return "c_cont" + itoa(id) }

func edgeVarName(k trackgraph.EdgeKey) string {
	return "x_e" + itoa(k.Source) + "_" + itoa(k.Target)
}

func itoa(id trackgraph.NodeID) string { return strconv.FormatInt(int64(id), 10) }
