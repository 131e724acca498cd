package tracking

import (
	"context"
	"fmt"

	"github.com/lineagelab/tracecore/trackgraph"
)

// Solve is the external entrypoint the block driver calls: it runs
// paramsList[i] against sub and writes selectedKeys[i] onto every node
// and edge, for each i in order. The first parameter set pays
// constraint-generation cost; every subsequent one reuses the model via
// UpdateObjective. frameRange, when non-nil, overrides the region
// constraint family 5 evaluates the boundary exemption against;
// otherwise sub.Region() is used.
func Solve(ctx context.Context, sub *trackgraph.TrackGraph, paramsList []Parameters, selectedKeys []string, frameRange *trackgraph.Region) error {
	if len(paramsList) != len(selectedKeys) {
		return fmt.Errorf("%w: parameters and selected-key lists must have equal length", ErrParameterError)
	}
	if len(paramsList) == 0 {
		return nil
	}

	var opts []Option
	if frameRange != nil {
		opts = append(opts, WithRegion(*frameRange))
	}

	solver, err := NewSolver(sub, paramsList[0], selectedKeys[0], opts...)
	if err != nil {
		return err
	}
	if err := solver.Solve(ctx); err != nil {
		return err
	}

	for i := 1; i < len(paramsList); i++ {
		if err := solver.UpdateObjective(paramsList[i], selectedKeys[i]); err != nil {
			return err
		}
		if err := solver.Solve(ctx); err != nil {
			return err
		}
	}

	return nil
}
