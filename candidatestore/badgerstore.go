package candidatestore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/lineagelab/tracecore/trackgraph"
)

// BadgerStore is a CandidateStore backed by an embedded badger.DB,
// standing in for the production document store this module's scope
// deliberately excludes. Keys are big-endian encoded so a region read
// over a contiguous frame range is a single ordered prefix scan rather
// than a full-table filter.
//
// Key layout:
//
//	node: 'n' | t(int64 BE) | id(int64 BE)
//	edge: 'e' | source.t(int64 BE) | source(int64 BE) | target(int64 BE)
//
// Values are JSON-encoded NodeDocument/EdgeDocument. WriteSelection
// mutates the Selected map embedded in the target document's value
// rather than a separate key, so a single Get+Set pair is sufficient
// and the record remains self-describing when read back directly.
type BadgerStore struct {
	db *badger.DB
}

const (
	prefixNode byte = 'n'
	prefixEdge byte = 'e'
)

// OpenBadgerStore opens or creates a badger database at path. An empty
// path opens an in-memory instance.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (b *BadgerStore) Close() error { return b.db.Close() }

func nodeKey(t, id int64) []byte {
	key := make([]byte, 17)
	key[0] = prefixNode
	binary.BigEndian.PutUint64(key[1:9], uint64(t))
	binary.BigEndian.PutUint64(key[9:17], uint64(id))

	return key
}

func edgeKey(sourceT, source, target int64) []byte {
	key := make([]byte, 25)
	key[0] = prefixEdge
	binary.BigEndian.PutUint64(key[1:9], uint64(sourceT))
	binary.BigEndian.PutUint64(key[9:17], uint64(source))
	binary.BigEndian.PutUint64(key[17:25], uint64(target))

	return key
}

func framePrefix(kind byte, t int64) []byte {
	key := make([]byte, 9)
	key[0] = kind
	binary.BigEndian.PutUint64(key[1:9], uint64(t))

	return key
}

// PutNode inserts or overwrites a node document. Not part of
// CandidateStore; used to seed the store.
func (b *BadgerStore) PutNode(ctx context.Context, n trackgraph.Node) error {
	doc := NodeDocumentFromNode(n)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return b.withTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(nodeKey(n.T, int64(n.ID)), raw)
	})
}

// PutEdge inserts or overwrites an edge document.
func (b *BadgerStore) PutEdge(ctx context.Context, e trackgraph.Edge, sourceT int64) error {
	doc := EdgeDocumentFromEdge(e)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return b.withTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(edgeKey(sourceT, int64(e.Source), int64(e.Target)), raw)
	})
}

func (b *BadgerStore) withTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.db.Update(fn); err != nil {
		if errors.Is(err, ErrMalformedRecord) || errors.Is(err, ErrNotFound) {
			return err
		}

		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func (b *BadgerStore) ReadNodes(ctx context.Context, region trackgraph.Region) ([]trackgraph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []trackgraph.Node
	err := b.db.View(func(txn *badger.Txn) error {
		for t := region.BeginT; t < region.EndT; t++ {
			prefix := framePrefix(prefixNode, t)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				if err := item.Value(func(val []byte) error {
					var doc NodeDocument
					if err := json.Unmarshal(val, &doc); err != nil {
						return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
					}
					n := doc.ToNode()
					if region.Contains(n) {
						out = append(out, n)
					}

					return nil
				}); err != nil {
					it.Close()

					return err
				}
			}
			it.Close()
		}

		return nil
	})
	if err != nil {
		return nil, classifyReadErr(err)
	}

	return out, nil
}

func (b *BadgerStore) ReadEdges(ctx context.Context, region trackgraph.Region, nodes map[trackgraph.NodeID]struct{}) ([]trackgraph.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []trackgraph.Edge
	err := b.db.View(func(txn *badger.Txn) error {
		for t := region.BeginT; t < region.EndT; t++ {
			prefix := framePrefix(prefixEdge, t)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				if err := item.Value(func(val []byte) error {
					var doc EdgeDocument
					if err := json.Unmarshal(val, &doc); err != nil {
						return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
					}
					e := doc.ToEdge()
					if _, ok := nodes[e.Source]; !ok {
						return nil
					}
					if _, ok := nodes[e.Target]; !ok {
						return nil
					}
					out = append(out, e)

					return nil
				}); err != nil {
					it.Close()

					return err
				}
			}
			it.Close()
		}

		return nil
	})
	if err != nil {
		return nil, classifyReadErr(err)
	}

	return out, nil
}

// WriteSelection loads the target document, sets the flag, and writes
// it back inside one transaction — last write wins, making repeated
// calls with the same value observably idempotent.
func (b *BadgerStore) WriteSelection(ctx context.Context, key EntityKey, selectionKey string, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.withTxn(ctx, func(txn *badger.Txn) error {
		switch key.Kind {
		case EntityNode:
			return b.writeNodeSelection(txn, key.Node, selectionKey, value)
		case EntityEdge:
			return b.writeEdgeSelection(txn, key.Edge, selectionKey, value)
		default:
			return fmt.Errorf("%w: unknown entity kind %d", ErrMalformedRecord, key.Kind)
		}
	})
}

func (b *BadgerStore) writeNodeSelection(txn *badger.Txn, id trackgraph.NodeID, selectionKey string, value bool) error {
	doc, rawKey, err := b.findNodeDoc(txn, id)
	if err != nil {
		return err
	}
	if doc.Selected == nil {
		doc.Selected = make(map[string]bool)
	}
	doc.Selected[selectionKey] = value
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return txn.Set(rawKey, raw)
}

func (b *BadgerStore) writeEdgeSelection(txn *badger.Txn, ek trackgraph.EdgeKey, selectionKey string, value bool) error {
	doc, rawKey, err := b.findEdgeDoc(txn, ek)
	if err != nil {
		return err
	}
	if doc.Selected == nil {
		doc.Selected = make(map[string]bool)
	}
	doc.Selected[selectionKey] = value
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return txn.Set(rawKey, raw)
}

// findNodeDoc scans every node key for id, since WriteSelection is not
// given the node's frame; its cost is linear in the number of stored
// nodes.
func (b *BadgerStore) findNodeDoc(txn *badger.Txn, id trackgraph.NodeID) (NodeDocument, []byte, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek([]byte{prefixNode}); it.ValidForPrefix([]byte{prefixNode}); it.Next() {
		key := it.Item().KeyCopy(nil)
		if len(key) != 17 {
			continue
		}
		if int64(binary.BigEndian.Uint64(key[9:17])) != int64(id) {
			continue
		}
		var doc NodeDocument
		err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &doc) })
		if err != nil {
			return NodeDocument{}, nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}

		return doc, key, nil
	}

	return NodeDocument{}, nil, ErrNotFound
}

func (b *BadgerStore) findEdgeDoc(txn *badger.Txn, ek trackgraph.EdgeKey) (EdgeDocument, []byte, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek([]byte{prefixEdge}); it.ValidForPrefix([]byte{prefixEdge}); it.Next() {
		key := it.Item().KeyCopy(nil)
		if len(key) != 25 {
			continue
		}
		source := int64(binary.BigEndian.Uint64(key[9:17]))
		target := int64(binary.BigEndian.Uint64(key[17:25]))
		if source != int64(ek.Source) || target != int64(ek.Target) {
			continue
		}
		var doc EdgeDocument
		err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &doc) })
		if err != nil {
			return EdgeDocument{}, nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}

		return doc, key, nil
	}

	return EdgeDocument{}, nil, ErrNotFound
}

func (b *BadgerStore) GetSubgraph(ctx context.Context, region trackgraph.Region) (*trackgraph.TrackGraph, error) {
	nodes, err := b.ReadNodes(ctx, region)
	if err != nil {
		return nil, err
	}
	nodeSet := make(map[trackgraph.NodeID]struct{}, len(nodes))
	for _, n := range nodes {
		nodeSet[n.ID] = struct{}{}
	}
	edges, err := b.ReadEdges(ctx, region, nodeSet)
	if err != nil {
		return nil, err
	}

	return trackgraph.NewTrackGraph(nodes, edges, region)
}

func classifyReadErr(err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

var _ CandidateStore = (*BadgerStore)(nil)
