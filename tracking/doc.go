// Package tracking implements the cell-lineage tracking core: the
// ConstraintBuilder/ObjectiveBuilder pair that turn a
// *trackgraph.TrackGraph into an ilp.Backend model, the Solver that
// drives repeated solves against one model under changing parameters,
// and the TrackExtractor that partitions a solved subgraph into
// lineages.
//
// # Variables
//
// One binary variable per node (x_n) and per edge (x_e), plus a
// per-node track-start indicator (s_n) used to linearize the
// track_cost term, plus — when Parameters.CellCycle is set — three
// additional per-node binaries (c_n^div, c_n^child, c_n^cont).
//
// # Reuse across parameter sets
//
// NewSolver builds the variable table and constraint set exactly once.
// UpdateObjective only overwrites SetCoefficient calls, never adds a
// variable or constraint — the expensive half of the problem
// (constraint generation) is paid once per block regardless of how
// many parameter sets are tried against it.
package tracking
