package tracking

import "errors"

// Sentinel errors for the tracking package, matched with errors.Is.
var (
	// ErrParameterError indicates a Parameters value is missing a
	// required key or has an internally inconsistent cell-cycle
	// configuration.
	ErrParameterError = errors.New("tracking: parameter error")

	// ErrInfeasibleModel indicates the ILP backend proved no
	// assignment satisfies every constraint. Under the constraint
	// families this package emits this should be impossible; seeing it
	// indicates a bug in constraint generation, not a property of the
	// input data, and is surfaced immediately rather than retried.
	ErrInfeasibleModel = errors.New("tracking: infeasible model")

	// ErrBackendError indicates an opaque failure from the ILP backend
	// unrelated to feasibility.
	ErrBackendError = errors.New("tracking: backend error")

	// ErrTimeout indicates the solve deadline was exceeded. No partial
	// labeling is written back to the graph.
	ErrTimeout = errors.New("tracking: timeout")

	// ErrNotSolved indicates Solver.Solve has not yet been called
	// successfully.
	ErrNotSolved = errors.New("tracking: model has not been solved")
)
