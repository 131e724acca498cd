package candidatestore

import (
	"context"
	"sync"

	"github.com/lineagelab/tracecore/trackgraph"
)

// MemStore is an in-memory CandidateStore, the arena the rest of this
// module's test suite runs against. Structural state (the node/edge
// tables) and selection state are guarded by separate locks, since
// selection writes keep arriving long after the topology is fixed.
type MemStore struct {
	muData sync.RWMutex
	nodes  map[trackgraph.NodeID]trackgraph.Node
	edges  map[trackgraph.EdgeKey]trackgraph.Edge

	muSel sync.Mutex
	sel   map[EntityKey]map[string]bool
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[trackgraph.NodeID]trackgraph.Node),
		edges: make(map[trackgraph.EdgeKey]trackgraph.Edge),
		sel:   make(map[EntityKey]map[string]bool),
	}
}

// PutNode inserts or overwrites a node. Not part of CandidateStore; it
// is the seeding API a test or an upstream pipeline stage uses to
// populate the store.
func (m *MemStore) PutNode(n trackgraph.Node) {
	m.muData.Lock()
	defer m.muData.Unlock()
	m.nodes[n.ID] = n
}

// PutEdge inserts or overwrites an edge.
func (m *MemStore) PutEdge(e trackgraph.Edge) {
	m.muData.Lock()
	defer m.muData.Unlock()
	m.edges[e.Key()] = e
}

func (m *MemStore) ReadNodes(_ context.Context, region trackgraph.Region) ([]trackgraph.Node, error) {
	m.muData.RLock()
	defer m.muData.RUnlock()

	out := make([]trackgraph.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		if region.Contains(n) {
			out = append(out, n)
		}
	}

	return out, nil
}

func (m *MemStore) ReadEdges(_ context.Context, region trackgraph.Region, nodes map[trackgraph.NodeID]struct{}) ([]trackgraph.Edge, error) {
	m.muData.RLock()
	defer m.muData.RUnlock()

	out := make([]trackgraph.Edge, 0)
	for _, e := range m.edges {
		if _, ok := nodes[e.Source]; !ok {
			continue
		}
		if _, ok := nodes[e.Target]; !ok {
			continue
		}
		src, okSrc := m.nodes[e.Source]
		if !okSrc || !region.Contains(src) {
			continue
		}
		out = append(out, e)
	}

	return out, nil
}

func (m *MemStore) WriteSelection(_ context.Context, key EntityKey, selectionKey string, value bool) error {
	m.muSel.Lock()
	defer m.muSel.Unlock()
	if m.sel[key] == nil {
		m.sel[key] = make(map[string]bool)
	}
	m.sel[key][selectionKey] = value

	return nil
}

// Selection returns the recorded value for key under selectionKey and
// whether it was ever written.
func (m *MemStore) Selection(key EntityKey, selectionKey string) (bool, bool) {
	m.muSel.Lock()
	defer m.muSel.Unlock()
	v, ok := m.sel[key][selectionKey]

	return v, ok
}

func (m *MemStore) GetSubgraph(ctx context.Context, region trackgraph.Region) (*trackgraph.TrackGraph, error) {
	nodes, err := m.ReadNodes(ctx, region)
	if err != nil {
		return nil, err
	}
	nodeSet := make(map[trackgraph.NodeID]struct{}, len(nodes))
	for _, n := range nodes {
		nodeSet[n.ID] = struct{}{}
	}
	edges, err := m.ReadEdges(ctx, region, nodeSet)
	if err != nil {
		return nil, err
	}

	return trackgraph.NewTrackGraph(nodes, edges, region)
}

var _ CandidateStore = (*MemStore)(nil)
