// Package candidatestore defines the CandidateStore interface — the
// boundary between candidate production (out of scope) and the
// trackgraph/tracking layers — plus two reference implementations:
// MemStore, an in-memory map-backed store used throughout this module's
// own test suite, and BadgerStore, an embedded-KV-backed persistent
// store built on github.com/dgraph-io/badger/v4.
//
// Both implementations read and write the same wire documents,
// NodeDocument and EdgeDocument, which mirror the JSON schema a real
// document store would hold: stable ids, frame/position fields, a
// score, and (for edges) the upstream model's predicted parent
// distance. Selection write-back is a small map of named boolean
// flags keyed by string, letting more than one solver run record a
// distinct result (e.g. "run-a", "run-b") against the same underlying
// record without clobbering one another.
package candidatestore
