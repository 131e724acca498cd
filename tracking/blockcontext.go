package tracking

import "github.com/google/uuid"

// BlockContext carries per-call correlation metadata for log and metric
// aggregation across block-scheduler retries. RequestID is random and
// therefore must never influence selection results — Solver never reads
// it except to stamp log lines, so the determinism invariant (solver
// output invariant under node-id permutation) is untouched by it.
type BlockContext struct {
	RequestID uuid.UUID
}

// NewBlockContext returns a BlockContext stamped with a fresh random id.
func NewBlockContext() BlockContext {
	return BlockContext{RequestID: uuid.New()}
}
