// Package trackgraph defines the candidate graph for cell-lineage
// tracking: Node, Edge, Region, and the frame-indexed TrackGraph that
// sits between candidate production and the ILP formulation in package
// tracking.
//
// A TrackGraph is a directed graph over discrete time frames. Nodes are
// detected cell centers; edges point from a later frame to the parent
// frame immediately before it (source.T == target.T + 1). The graph
// keeps a secondary frame index (t -> node ids) so "all nodes at frame
// t" and "the (at most two) children of n" / "the (at most one) parent
// of n" are O(1) amortized lookups instead of a full scan.
//
// # Construction
//
// NewTrackGraph(nodes, edges, region, opts...) builds the node/edge
// tables and the frame index in one pass. Edges whose endpoints are
// missing from the node set, or whose frame gap is not exactly 1, are
// discarded — the discard count is reported through the WithWarnf
// callback, which is a no-op unless the caller installs one.
//
// # Thread safety
//
// TrackGraph is safe for concurrent readers. SetLabel (the only mutator
// after construction) is guarded by its own lock, keeping the
// read-mostly structural state and the write-mostly label state under
// separate critical sections.
//
// # Determinism
//
// NodesAt, PrevEdges, and NextEdges all return results sorted by id, so
// two TrackGraphs built from the same node/edge set in different
// insertion order compare and iterate identically.
package trackgraph
