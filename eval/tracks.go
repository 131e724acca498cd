package eval

import (
	"sort"

	"github.com/lineagelab/tracecore/trackgraph"
)

// track is one weakly-connected component of an evaluation graph.
// Unlike the solver-side extractor, a single node with no edges still
// counts: a reconstruction that loses an edge splits one lineage into
// two tracks, one of which may be a lone detection, and the track
// counts must reflect that split.
type track struct {
	nodes []trackgraph.NodeID
	edges []trackgraph.Edge
}

// tracksOf partitions the whole graph into weakly-connected
// components, sorted by their lowest node id.
func tracksOf(g *trackgraph.TrackGraph) []track {
	nodes := g.AllNodes()
	if len(nodes) == 0 {
		return nil
	}

	parent := make(map[trackgraph.NodeID]trackgraph.NodeID, len(nodes))
	for _, n := range nodes {
		parent[n.ID] = n.ID
	}
	var find func(x trackgraph.NodeID) trackgraph.NodeID
	find = func(x trackgraph.NodeID) trackgraph.NodeID {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}

		return x
	}
	union := func(a, b trackgraph.NodeID) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}
	for _, e := range g.AllEdges() {
		union(e.Source, e.Target)
	}

	byRoot := make(map[trackgraph.NodeID]*track)
	for _, n := range nodes {
		root := find(n.ID)
		tr := byRoot[root]
		if tr == nil {
			tr = &track{}
			byRoot[root] = tr
		}
		tr.nodes = append(tr.nodes, n.ID)
	}
	for _, e := range g.AllEdges() {
		byRoot[find(e.Source)].edges = append(byRoot[find(e.Source)].edges, e)
	}

	roots := make([]trackgraph.NodeID, 0, len(byRoot))
	for root := range byRoot {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	out := make([]track, 0, len(roots))
	for _, root := range roots {
		out = append(out, *byRoot[root])
	}

	return out
}

// divisionsOf returns the ids of every node with two or more incoming
// edges (two selected children), sorted ascending.
func divisionsOf(g *trackgraph.TrackGraph) []trackgraph.NodeID {
	var out []trackgraph.NodeID
	for _, n := range g.AllNodes() {
		if len(g.PrevEdges(n.ID)) >= 2 {
			out = append(out, n.ID)
		}
	}

	return out
}

// segment is one maximal branch-free path inside a track: it runs
// between two branch points (a division, a track start, or a track
// end) and edgeCount is its length. A lone node is a degenerate
// segment of length zero.
type segment struct {
	nodes     []trackgraph.NodeID
	edgeCount int
}

// isBranchPoint reports whether id bounds a segment: a division (two
// or more children), a node with no children (latest end of a branch),
// or a node with no parent link (track start).
func isBranchPoint(g *trackgraph.TrackGraph, id trackgraph.NodeID) bool {
	in := len(g.PrevEdges(id))
	out := len(g.NextEdges(id))

	return in != 1 || out != 1
}

// segmentsOf decomposes one track into its maximal branch-free paths.
// Each edge belongs to exactly one segment; an isolated node yields a
// single zero-length segment.
func segmentsOf(g *trackgraph.TrackGraph, tr track) []segment {
	if len(tr.edges) == 0 {
		segs := make([]segment, 0, len(tr.nodes))
		for _, id := range tr.nodes {
			segs = append(segs, segment{nodes: []trackgraph.NodeID{id}})
		}

		return segs
	}

	// Undirected incidence within this track only.
	incident := make(map[trackgraph.NodeID][]trackgraph.Edge, len(tr.nodes))
	for _, e := range tr.edges {
		incident[e.Source] = append(incident[e.Source], e)
		incident[e.Target] = append(incident[e.Target], e)
	}

	visited := make(map[trackgraph.EdgeKey]bool, len(tr.edges))
	var segs []segment

	for _, start := range tr.nodes {
		if !isBranchPoint(g, start) {
			continue
		}
		for _, first := range incident[start] {
			if visited[first.Key()] {
				continue
			}
			seg := segment{nodes: []trackgraph.NodeID{start}}
			cur, e := start, first
			for {
				visited[e.Key()] = true
				seg.edgeCount++
				next := e.Source
				if next == cur {
					next = e.Target
				}
				seg.nodes = append(seg.nodes, next)
				if isBranchPoint(g, next) {
					break
				}
				cur = next
				e = otherEdge(incident[next], e)
			}
			segs = append(segs, seg)
		}
	}

	return segs
}

// otherEdge returns the incident edge that is not prev; callers only
// reach it through interior nodes, which have exactly two.
func otherEdge(edges []trackgraph.Edge, prev trackgraph.Edge) trackgraph.Edge {
	for _, e := range edges {
		if e.Key() != prev.Key() {
			return e
		}
	}

	return prev
}
