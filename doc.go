// Package tracecore reconstructs cell lineages from 4D (t, z, y, x)
// microscopy candidates.
//
// A neural prediction pipeline upstream emits detected cell centers
// and hypothesized parent-child links; this module selects the subset
// of them that forms a biologically plausible forest of lineages, by
// solving a small integer linear program per spatiotemporal block.
//
// The packages, in data-flow order:
//
//	candidatestore/ — region-keyed reads of candidate nodes/edges and
//	                  idempotent write-back of boolean selection flags
//	                  (in-memory and badger-backed implementations)
//	trackgraph/     — the frame-indexed directed candidate graph with
//	                  parent/children queries
//	tracking/       — constraint and objective assembly, the Solver
//	                  that reuses one model across parameter sets, and
//	                  track extraction from a solved labeling
//	ilp/            — the 0/1 integer-programming capability the
//	                  tracking package is built against
//	eval/           — scoring a reconstruction against ground truth:
//	                  node matching, edge/track/division statistics,
//	                  segment lengths
//
// Blocks are independent: a scheduler above this module dispatches one
// region per worker, each owning its own Solver, and the store's
// write regions never overlap.
package tracecore
