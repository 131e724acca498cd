// Package eval scores a reconstructed cell-lineage graph against a
// ground-truth one.
//
// Both inputs are *trackgraph.TrackGraph values whose nodes and edges
// are the already-selected subgraph (the evaluator never looks at
// selection labels). Evaluation proceeds in four passes:
//
//  1. Node matching: per frame, ground-truth and reconstruction nodes
//     are paired by Euclidean z/y/x distance, admissible within a
//     caller-supplied threshold, minimum distance first, ties broken by
//     node id. A node matches at most one counterpart.
//  2. Edge statistics: a ground-truth edge is matched iff both of its
//     endpoints are matched and their images form a reconstruction
//     edge; otherwise it is a false negative. A reconstruction edge
//     with both endpoints matched but no ground-truth pre-image is a
//     false positive.
//  3. Track and division statistics: weakly-connected components on
//     both sides, matched when at least one node is matched; a node
//     with two or more incoming edges is a division.
//  4. Segment length: the mean edge count of the branch-free maximal
//     paths inside matched reconstruction tracks, counting only paths
//     whose nodes are all matched.
//
// The result is a flat Scores record; Evaluate never mutates either
// graph.
package eval
