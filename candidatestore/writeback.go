package candidatestore

import (
	"context"

	"github.com/lineagelab/tracecore/trackgraph"
)

// WriteGraphSelection persists the boolean labels recorded on g under
// selectionKey into store, one WriteSelection per node and per edge.
// Every entity gets an explicit true or false so a re-solve overwrites
// a previous run's answer rather than leaving stale positives behind.
// Stops at the first store error.
func WriteGraphSelection(ctx context.Context, store CandidateStore, g *trackgraph.TrackGraph, selectionKey string) error {
	for _, n := range g.AllNodes() {
		key := EntityKey{Kind: EntityNode, Node: n.ID}
		if err := store.WriteSelection(ctx, key, selectionKey, g.NodeSelected(selectionKey, n.ID)); err != nil {
			return err
		}
	}
	for _, e := range g.AllEdges() {
		key := EntityKey{Kind: EntityEdge, Edge: e.Key()}
		if err := store.WriteSelection(ctx, key, selectionKey, g.EdgeSelected(selectionKey, e.Key())); err != nil {
			return err
		}
	}

	return nil
}
