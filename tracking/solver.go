package tracking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lineagelab/tracecore/ilp"
	"github.com/lineagelab/tracecore/trackgraph"
)

// State is the Solver lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateOptimizing
	StateSolved
)

// Solver drives repeated solves of one ILP model built from a
// *trackgraph.TrackGraph. NewSolver pays the (expensive) cost of
// variable and constraint generation exactly once; every subsequent
// parameter set goes through UpdateObjective, which only rewrites
// coefficients.
type Solver struct {
	graph       *trackgraph.TrackGraph
	backend     ilp.Backend
	vt          *variableTable
	cellCycle   bool
	maxCellMove float64
	region      trackgraph.Region
	verbose     bool
	blockCtx    BlockContext

	selectionKey string
	state        State
}

// Option configures NewSolver.
type Option func(*solverConfig)

type solverConfig struct {
	backend  ilp.Backend
	region   *trackgraph.Region
	blockCtx *BlockContext
}

// WithBackend overrides the ILP backend, default
// ilp.NewBranchAndBoundBackend().
func WithBackend(b ilp.Backend) Option {
	return func(c *solverConfig) { c.backend = b }
}

// WithRegion overrides the region constraint family 5's boundary
// exemption is evaluated against, default graph.Region(). Used by the
// top-level Solve helper to honor an explicit frame_range distinct from
// the subgraph's own bounding region.
func WithRegion(r trackgraph.Region) Option {
	return func(c *solverConfig) { c.region = &r }
}

// WithBlockContext stamps the solver's verbose log lines with a block
// scheduler's correlation id. Never read anywhere else.
func WithBlockContext(bc BlockContext) Option {
	return func(c *solverConfig) { c.blockCtx = &bc }
}

// NewSolver builds the variable table and constraint set for graph
// under params, attaches the initial objective, and returns a Solver in
// StateReady.
func NewSolver(graph *trackgraph.TrackGraph, params Parameters, selectionKey string, opts ...Option) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if selectionKey == "" {
		return nil, fmt.Errorf("%w: selectionKey must not be empty", ErrParameterError)
	}

	cfg := solverConfig{backend: ilp.NewBranchAndBoundBackend()}
	for _, opt := range opts {
		opt(&cfg)
	}
	region := graph.Region()
	if cfg.region != nil {
		region = *cfg.region
	}

	s := &Solver{
		graph:        graph,
		backend:      cfg.backend,
		cellCycle:    params.cellCycleMode(),
		maxCellMove:  params.MaxCellMove,
		region:       region,
		verbose:      params.Verbose,
		selectionKey: selectionKey,
		state:        StateUninitialized,
	}
	if cfg.blockCtx != nil {
		s.blockCtx = *cfg.blockCtx
	} else {
		s.blockCtx = NewBlockContext()
	}

	s.vt = buildVariables(s.backend, graph, s.cellCycle)
	numConstraints, err := addConstraints(s.backend, graph, s.vt, s.region, s.maxCellMove, s.cellCycle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendError, err)
	}
	if err := setObjective(s.backend, graph, s.vt, params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendError, err)
	}

	numVariables := len(s.vt.node) + len(s.vt.edge) + len(s.vt.start) + len(s.vt.div) + len(s.vt.child) + len(s.vt.cont)
	m := getMetrics()
	m.variableCount.Set(float64(numVariables))
	m.constraintCount.Set(float64(numConstraints))
	if s.verbose {
		fmt.Fprintf(os.Stderr, "tracking: %s: built model, %d variables, %d constraints\n",
			s.blockCtx.RequestID, numVariables, numConstraints)
	}

	s.state = StateReady

	return s, nil
}

// UpdateObjective reuses the existing variable table and constraint
// set, rewriting only the objective coefficients for a new parameter
// set. Returns ErrParameterError if params toggles cell-cycle mode
// relative to the model this Solver was built with — that requires a
// fresh Solver, not a coefficient rewrite.
func (s *Solver) UpdateObjective(params Parameters, selectionKey string) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if selectionKey == "" {
		return fmt.Errorf("%w: selectionKey must not be empty", ErrParameterError)
	}
	if params.cellCycleMode() != s.cellCycle {
		return fmt.Errorf("%w: cannot change cell-cycle mode via UpdateObjective", ErrParameterError)
	}
	if params.MaxCellMove != s.maxCellMove {
		return fmt.Errorf("%w: max_cell_move is structural (constraint 5) and cannot change via UpdateObjective", ErrParameterError)
	}

	if err := setObjective(s.backend, s.graph, s.vt, params); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendError, err)
	}
	s.verbose = params.Verbose
	s.selectionKey = selectionKey
	s.state = StateReady

	return nil
}

// CheckNodeCloseToROIEdge reports whether n's position lies within
// maxCellMove of a spatial region boundary — the public form of the
// boundary-exemption test used by constraint family 5.
func (s *Solver) CheckNodeCloseToROIEdge(n trackgraph.Node, maxCellMove float64) bool {
	return nodeCloseToROIEdge(n, s.region, maxCellMove)
}

// Solve invokes the ILP backend and, on success, writes
// s.selectionKey -> bool onto every node and edge of the graph.
// Failure leaves the graph's selection labels from any prior Solve
// call untouched — no partial labeling is ever written.
func (s *Solver) Solve(ctx context.Context) error {
	s.state = StateOptimizing
	m := getMetrics()
	start := time.Now()
	defer func() { m.solveDuration.Observe(time.Since(start).Seconds()) }()

	status, err := s.backend.Optimize(ctx)
	switch status {
	case ilp.StatusOptimal:
		// fall through to write-back below
	case ilp.StatusInfeasible:
		m.infeasibleTotal.Inc()

		return fmt.Errorf("%w: %v", ErrInfeasibleModel, err)
	case ilp.StatusTimeout:
		m.timeoutTotal.Inc()

		return ErrTimeout
	default:
		if err == nil {
			err = errors.New("unrecognized backend status")
		}

		return fmt.Errorf("%w: %v", ErrBackendError, err)
	}

	for id, v := range s.vt.node {
		val, verr := s.backend.Value(v)
		if verr != nil {
			return fmt.Errorf("%w: %v", ErrBackendError, verr)
		}
		s.graph.SetLabel(s.selectionKey, id, val > 0.5)
	}
	for key, v := range s.vt.edge {
		val, verr := s.backend.Value(v)
		if verr != nil {
			return fmt.Errorf("%w: %v", ErrBackendError, verr)
		}
		s.graph.SetLabel(s.selectionKey, key, val > 0.5)
	}

	s.state = StateSolved
	if s.verbose {
		fmt.Fprintf(os.Stderr, "tracking: %s: solved %q in %s\n",
			s.blockCtx.RequestID, s.selectionKey, time.Since(start))
	}

	return nil
}

// State returns the Solver's current lifecycle state.
func (s *Solver) State() State { return s.state }
