package candidatestore

import (
	"context"
	"errors"

	"github.com/lineagelab/tracecore/trackgraph"
)

// Sentinel errors, one per failure kind, matched with errors.Is.
var (
	// ErrStoreUnavailable indicates the backing store could not be
	// opened or a transaction on it failed (for example a transaction
	// conflict or a closed database). Failed transactions are not
	// retried.
	ErrStoreUnavailable = errors.New("candidatestore: store unavailable")

	// ErrMalformedRecord indicates a document failed to encode or
	// decode, or a WriteSelection key named an unknown entity kind.
	// Decoded documents are not otherwise checked against the schema.
	ErrMalformedRecord = errors.New("candidatestore: malformed record")

	// ErrNotFound indicates a WriteSelection target does not exist.
	ErrNotFound = errors.New("candidatestore: record not found")
)

// EntityKind distinguishes which document kind a key refers to.
type EntityKind int

const (
	EntityNode EntityKind = iota
	EntityEdge
)

// EntityKey identifies either a node or an edge document, depending on
// Kind. Only the field matching Kind is meaningful.
type EntityKey struct {
	Kind EntityKind
	Node trackgraph.NodeID
	Edge trackgraph.EdgeKey
}

// NodeDocument is the wire/storage schema for a detected cell center,
// field names matching the document-store schema: id, t, z, y, x,
// score, plus a selection-flag map absent from the in-memory Node type.
type NodeDocument struct {
	ID    int64   `json:"id"`
	T     int64   `json:"t"`
	Z     float64 `json:"z"`
	Y     float64 `json:"y"`
	X     float64 `json:"x"`
	Score float64 `json:"score"`

	CellCycleDivision     *float64 `json:"cell_cycle_division,omitempty"`
	CellCycleChild        *float64 `json:"cell_cycle_child,omitempty"`
	CellCycleContinuation *float64 `json:"cell_cycle_continuation,omitempty"`

	Selected map[string]bool `json:"selected,omitempty"`
}

// EdgeDocument is the wire/storage schema for a directed hypothesis:
// source, target, score, prediction_distance, plus a selection-flag map.
type EdgeDocument struct {
	Source             int64   `json:"source"`
	Target             int64   `json:"target"`
	Score              float64 `json:"score"`
	PredictionDistance float64 `json:"prediction_distance"`

	Selected map[string]bool `json:"selected,omitempty"`
}

// ToNode converts a NodeDocument into the in-memory trackgraph.Node.
func (d NodeDocument) ToNode() trackgraph.Node {
	n := trackgraph.Node{
		ID:    trackgraph.NodeID(d.ID),
		T:     d.T,
		Z:     d.Z,
		Y:     d.Y,
		X:     d.X,
		Score: d.Score,
	}
	if d.CellCycleDivision != nil && d.CellCycleChild != nil && d.CellCycleContinuation != nil {
		n.CellCycleProbs = &trackgraph.CellCycleProbs{
			Division:     *d.CellCycleDivision,
			Child:        *d.CellCycleChild,
			Continuation: *d.CellCycleContinuation,
		}
	}

	return n
}

// NodeDocumentFromNode builds a NodeDocument from a trackgraph.Node.
func NodeDocumentFromNode(n trackgraph.Node) NodeDocument {
	d := NodeDocument{ID: int64(n.ID), T: n.T, Z: n.Z, Y: n.Y, X: n.X, Score: n.Score}
	if n.CellCycleProbs != nil {
		div, child, cont := n.CellCycleProbs.Division, n.CellCycleProbs.Child, n.CellCycleProbs.Continuation
		d.CellCycleDivision, d.CellCycleChild, d.CellCycleContinuation = &div, &child, &cont
	}

	return d
}

// ToEdge converts an EdgeDocument into the in-memory trackgraph.Edge.
func (d EdgeDocument) ToEdge() trackgraph.Edge {
	return trackgraph.Edge{
		Source:             trackgraph.NodeID(d.Source),
		Target:             trackgraph.NodeID(d.Target),
		Score:              d.Score,
		PredictionDistance: d.PredictionDistance,
	}
}

// EdgeDocumentFromEdge builds an EdgeDocument from a trackgraph.Edge.
func EdgeDocumentFromEdge(e trackgraph.Edge) EdgeDocument {
	return EdgeDocument{Source: int64(e.Source), Target: int64(e.Target), Score: e.Score, PredictionDistance: e.PredictionDistance}
}

// CandidateStore is the boundary between candidate production and the
// tracking core: region-scoped reads of nodes/edges, and write-back of
// named boolean selection flags once a solve has run.
type CandidateStore interface {
	// ReadNodes returns every node whose position lies within region.
	ReadNodes(ctx context.Context, region trackgraph.Region) ([]trackgraph.Node, error)

	// ReadEdges returns every edge within region whose endpoints are
	// both present in nodes.
	ReadEdges(ctx context.Context, region trackgraph.Region, nodes map[trackgraph.NodeID]struct{}) ([]trackgraph.Edge, error)

	// WriteSelection records value under selectionKey for the node or
	// edge identified by key. Idempotent: writing the same value twice
	// has no additional effect.
	WriteSelection(ctx context.Context, key EntityKey, selectionKey string, value bool) error

	// GetSubgraph is a convenience composing ReadNodes/ReadEdges into a
	// ready-to-solve *trackgraph.TrackGraph.
	GetSubgraph(ctx context.Context, region trackgraph.Region) (*trackgraph.TrackGraph, error)
}
