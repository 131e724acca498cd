package trackgraph

import (
	"fmt"
	"sort"
	"sync"
)

// WarnFunc receives one human-readable message, carrying the discard
// count, when construction discards malformed edges. The default is a
// no-op; set it via
// WithWarnf to route discards into a caller's own logging story
// instead of this package importing one.
type WarnFunc func(format string, args ...interface{})

// Option configures NewTrackGraph.
type Option func(*buildConfig)

type buildConfig struct {
	frameKey string
	warnf    WarnFunc
}

// WithFrameKey overrides the conceptual name of the frame axis (default
// "t"); it is a documentation/metadata hook only — the graph always
// groups nodes by Node.T, but callers that round-trip
// candidatestore.NodeDocument values for tooling built on a different
// field name can record that name here for tooling to display.
func WithFrameKey(key string) Option {
	return func(c *buildConfig) { c.frameKey = key }
}

// WithWarnf installs a callback invoked once per NewTrackGraph call
// that discards at least one edge.
func WithWarnf(fn WarnFunc) Option {
	return func(c *buildConfig) { c.warnf = fn }
}

// TrackGraph is an in-memory, frame-indexed directed candidate graph.
//
// muStruct guards the node/edge tables and every derived index, all of
// which are fixed at construction time. muLabels guards the selection
// label maps, the only state that mutates after NewTrackGraph returns.
type TrackGraph struct {
	muStruct sync.RWMutex
	frameKey string
	region   Region

	nodes map[NodeID]Node
	edges map[EdgeKey]Edge

	frameIndex map[int64][]NodeID // t -> node ids, sorted
	nextEdges  map[NodeID][]Edge  // outgoing: to frame n.T-1 (the parent link)
	prevEdges  map[NodeID][]Edge  // incoming: from frame n.T+1 (children)

	beginFrame, endFrame int64

	muLabels sync.RWMutex
	labels   map[string]map[interface{}]bool // key -> (NodeID|EdgeKey) -> bool
}

// NewTrackGraph builds a TrackGraph from a node/edge sequence and a
// bounding region. Edges with an endpoint missing from nodes, or whose
// frame gap is not exactly 1, are discarded; the discard count is
// reported once via WithWarnf, not per edge, to keep large discard
// runs from flooding a caller's log.
//
// Complexity: O(V log V + E).
func NewTrackGraph(nodes []Node, edges []Edge, region Region, opts ...Option) (*TrackGraph, error) {
	cfg := buildConfig{frameKey: "t", warnf: func(string, ...interface{}) {}}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &TrackGraph{
		frameKey:   cfg.frameKey,
		region:     region,
		nodes:      make(map[NodeID]Node, len(nodes)),
		edges:      make(map[EdgeKey]Edge, len(edges)),
		frameIndex: make(map[int64][]NodeID),
		nextEdges:  make(map[NodeID][]Edge),
		prevEdges:  make(map[NodeID][]Edge),
		labels:     make(map[string]map[interface{}]bool),
	}

	first := true
	for _, n := range nodes {
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: id %d repeated", ErrDuplicateNode, n.ID)
		}
		g.nodes[n.ID] = n
		g.frameIndex[n.T] = append(g.frameIndex[n.T], n.ID)
		if first {
			g.beginFrame, g.endFrame = n.T, n.T+1
			first = false
		} else {
			if n.T < g.beginFrame {
				g.beginFrame = n.T
			}
			if n.T+1 > g.endFrame {
				g.endFrame = n.T + 1
			}
		}
	}
	for t := range g.frameIndex {
		sort.Slice(g.frameIndex[t], func(i, j int) bool { return g.frameIndex[t][i] < g.frameIndex[t][j] })
	}

	discarded := 0
	for _, e := range edges {
		src, okSrc := g.nodes[e.Source]
		tgt, okTgt := g.nodes[e.Target]
		if !okSrc || !okTgt {
			discarded++
			continue
		}
		if src.T-tgt.T != 1 {
			discarded++
			continue
		}
		g.edges[e.Key()] = e
		g.nextEdges[e.Source] = append(g.nextEdges[e.Source], e)
		g.prevEdges[e.Target] = append(g.prevEdges[e.Target], e)
	}
	if discarded > 0 {
		cfg.warnf("trackgraph: discarded %d edge(s) with missing endpoints or frame gap != 1", discarded)
	}
	for id := range g.nextEdges {
		sortEdges(g.nextEdges[id])
	}
	for id := range g.prevEdges {
		sortEdges(g.prevEdges[id])
	}

	return g, nil
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Source != es[j].Source {
			return es[i].Source < es[j].Source
		}

		return es[i].Target < es[j].Target
	})
}

// Region returns the bounding region this graph was constructed with.
func (g *TrackGraph) Region() Region { return g.region }

// FrameKey returns the conceptual frame-axis name recorded at
// construction (default "t").
func (g *TrackGraph) FrameKey() string { return g.frameKey }

// BeginFrame returns the first (inclusive) frame present in the graph.
func (g *TrackGraph) BeginFrame() int64 {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()

	return g.beginFrame
}

// EndFrame returns the half-open upper bound on frames present.
func (g *TrackGraph) EndFrame() int64 {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()

	return g.endFrame
}

// Node returns the node with the given id.
func (g *TrackGraph) Node(id NodeID) (Node, bool) {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	n, ok := g.nodes[id]

	return n, ok
}

// NumNodes returns the total node count.
func (g *TrackGraph) NumNodes() int {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()

	return len(g.nodes)
}

// NumEdges returns the total edge count.
func (g *TrackGraph) NumEdges() int {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()

	return len(g.edges)
}

// AllNodes returns every node, sorted by id.
func (g *TrackGraph) AllNodes() []Node {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AllEdges returns every edge, sorted by (Source, Target).
func (g *TrackGraph) AllEdges() []Edge {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sortEdges(out)

	return out
}

// NodesAt returns the ids of every node at frame t, sorted ascending.
func (g *TrackGraph) NodesAt(t int64) []NodeID {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	ids := g.frameIndex[t]
	out := make([]NodeID, len(ids))
	copy(out, ids)

	return out
}

// PrevEdges returns n's incoming edges: the (at most two) children
// pointing to n from frame n.T+1.
func (g *TrackGraph) PrevEdges(id NodeID) []Edge {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	es := g.prevEdges[id]
	out := make([]Edge, len(es))
	copy(out, es)

	return out
}

// NextEdges returns n's outgoing edges: the (at most one) parent link
// to frame n.T-1.
func (g *TrackGraph) NextEdges(id NodeID) []Edge {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	es := g.nextEdges[id]
	out := make([]Edge, len(es))
	copy(out, es)

	return out
}

// HasEdge reports whether an edge (source, target) exists.
func (g *TrackGraph) HasEdge(source, target NodeID) bool {
	g.muStruct.RLock()
	defer g.muStruct.RUnlock()
	_, ok := g.edges[EdgeKey{Source: source, Target: target}]

	return ok
}

// SetLabel sets the boolean selection label under key for either a
// NodeID or an EdgeKey. It is idempotent: setting the same value twice
// is a no-op observationally.
func (g *TrackGraph) SetLabel(key string, entity interface{}, value bool) {
	g.muLabels.Lock()
	defer g.muLabels.Unlock()
	if g.labels[key] == nil {
		g.labels[key] = make(map[interface{}]bool)
	}
	g.labels[key][entity] = value
}

// Label returns the boolean selection label under key for entity,
// defaulting to false if never set.
func (g *TrackGraph) Label(key string, entity interface{}) bool {
	g.muLabels.RLock()
	defer g.muLabels.RUnlock()

	return g.labels[key][entity]
}

// NodeSelected reports Label(key, id) for a node.
func (g *TrackGraph) NodeSelected(key string, id NodeID) bool { return g.Label(key, id) }

// EdgeSelected reports Label(key, ek) for an edge.
func (g *TrackGraph) EdgeSelected(key string, ek EdgeKey) bool { return g.Label(key, ek) }

// SelectedEdges returns every edge whose label under key is true,
// sorted by (Source, Target).
func (g *TrackGraph) SelectedEdges(key string) []Edge {
	g.muStruct.RLock()
	all := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		all = append(all, e)
	}
	g.muStruct.RUnlock()

	g.muLabels.RLock()
	defer g.muLabels.RUnlock()
	out := all[:0:0]
	for _, e := range all {
		if g.labels[key][e.Key()] {
			out = append(out, e)
		}
	}
	sortEdges(out)

	return out
}

// SelectedNodes returns every node whose label under key is true,
// sorted by id.
func (g *TrackGraph) SelectedNodes(key string) []Node {
	g.muStruct.RLock()
	all := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		all = append(all, n)
	}
	g.muStruct.RUnlock()

	g.muLabels.RLock()
	defer g.muLabels.RUnlock()
	out := all[:0:0]
	for _, n := range all {
		if g.labels[key][n.ID] {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
