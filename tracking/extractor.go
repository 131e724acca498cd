package tracking

import (
	"sort"

	"github.com/lineagelab/tracecore/trackgraph"
)

// Track is one weakly-connected component of a solved subgraph: one
// cell lineage.
type Track struct {
	TrackID    trackgraph.NodeID
	StartFrame int64
	EndFrame   int64
	NumCells   int
	Edges      []trackgraph.Edge
}

// unionFind is a minimal disjoint-set over trackgraph.NodeID, used only
// to group selected nodes into weakly-connected components.
type unionFind struct {
	parent map[trackgraph.NodeID]trackgraph.NodeID
}

func newUnionFind(ids []trackgraph.NodeID) *unionFind {
	uf := &unionFind{parent: make(map[trackgraph.NodeID]trackgraph.NodeID, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}

	return uf
}

func (uf *unionFind) find(x trackgraph.NodeID) trackgraph.NodeID {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}

	return x
}

func (uf *unionFind) union(a, b trackgraph.NodeID) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	// Deterministic: always attach the larger root id under the smaller,
	// so the component's representative (and hence TrackID) is always
	// the lowest node id regardless of union order.
	if ra < rb {
		uf.parent[rb] = ra
	} else {
		uf.parent[ra] = rb
	}
}

// ExtractTracks partitions the subgraph selected under key into tracks.
// TrackID is the lowest node id in the component — deterministic and
// invariant under the order nodes/edges were supplied in, unlike a
// randomly generated id would be.
func ExtractTracks(graph *trackgraph.TrackGraph, key string) []Track {
	nodes := graph.SelectedNodes(key)
	if len(nodes) == 0 {
		return nil
	}
	edges := graph.SelectedEdges(key)

	ids := make([]trackgraph.NodeID, len(nodes))
	byID := make(map[trackgraph.NodeID]trackgraph.Node, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		byID[n.ID] = n
	}

	uf := newUnionFind(ids)
	for _, e := range edges {
		uf.union(e.Source, e.Target)
	}

	type component struct {
		nodes []trackgraph.Node
		edges []trackgraph.Edge
	}
	components := make(map[trackgraph.NodeID]*component)
	for _, n := range nodes {
		root := uf.find(n.ID)
		c := components[root]
		if c == nil {
			c = &component{}
			components[root] = c
		}
		c.nodes = append(c.nodes, n)
	}
	for _, e := range edges {
		root := uf.find(e.Source)
		if c := components[root]; c != nil {
			c.edges = append(c.edges, e)
		}
	}

	tracks := make([]Track, 0, len(components))
	for root, c := range components {
		if len(c.nodes) == 0 || len(c.edges) == 0 {
			continue
		}
		startFrame, endFrame := c.nodes[0].T, c.nodes[0].T
		for _, n := range c.nodes[1:] {
			if n.T < startFrame {
				startFrame = n.T
			}
			if n.T > endFrame {
				endFrame = n.T
			}
		}
		sort.Slice(c.edges, func(i, j int) bool {
			if c.edges[i].Source != c.edges[j].Source {
				return c.edges[i].Source < c.edges[j].Source
			}

			return c.edges[i].Target < c.edges[j].Target
		})
		tracks = append(tracks, Track{
			TrackID:    root,
			StartFrame: startFrame,
			EndFrame:   endFrame,
			NumCells:   len(c.nodes),
			Edges:      c.edges,
		})
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].TrackID < tracks[j].TrackID })

	return tracks
}
