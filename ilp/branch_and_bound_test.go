package ilp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineagelab/tracecore/ilp"
)

func TestBranchAndBound_UnconstrainedMinimization(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	x := b.AddVariable(ilp.Variable{Name: "x"})
	y := b.AddVariable(ilp.Variable{Name: "y"})
	require.NoError(t, b.SetCoefficient(x, -1))
	require.NoError(t, b.SetCoefficient(y, 2))

	status, err := b.Optimize(context.Background())
	require.NoError(t, err)
	require.Equal(t, ilp.StatusOptimal, status)

	vx, err := b.Value(x)
	require.NoError(t, err)
	require.Equal(t, 1.0, vx)

	vy, err := b.Value(y)
	require.NoError(t, err)
	require.Equal(t, 0.0, vy)
}

func TestBranchAndBound_AtMostOneConstraint(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	x := b.AddVariable(ilp.Variable{Name: "x"})
	y := b.AddVariable(ilp.Variable{Name: "y"})
	// both want to be 1, but x+y <= 1
	require.NoError(t, b.SetCoefficient(x, -1))
	require.NoError(t, b.SetCoefficient(y, -1))
	require.NoError(t, b.AddLinearConstraint(ilp.LinearConstraint{
		Terms: map[ilp.VarID]float64{x: 1, y: 1},
		Op:    ilp.LE,
		RHS:   1,
	}))

	status, err := b.Optimize(context.Background())
	require.NoError(t, err)
	require.Equal(t, ilp.StatusOptimal, status)

	vx, _ := b.Value(x)
	vy, _ := b.Value(y)
	require.Equal(t, 1.0, vx+vy)
}

func TestBranchAndBound_EqualityConstraint(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	x := b.AddVariable(ilp.Variable{Name: "x"})
	y := b.AddVariable(ilp.Variable{Name: "y"})
	require.NoError(t, b.SetCoefficient(x, 1))
	require.NoError(t, b.SetCoefficient(y, 1))
	require.NoError(t, b.AddLinearConstraint(ilp.LinearConstraint{
		Terms: map[ilp.VarID]float64{x: 1, y: 1},
		Op:    ilp.EQ,
		RHS:   1,
	}))

	status, err := b.Optimize(context.Background())
	require.NoError(t, err)
	require.Equal(t, ilp.StatusOptimal, status)

	vx, _ := b.Value(x)
	vy, _ := b.Value(y)
	require.Equal(t, 1.0, vx+vy)
}

func TestBranchAndBound_Infeasible(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	x := b.AddVariable(ilp.Variable{Name: "x"})
	require.NoError(t, b.AddLinearConstraint(ilp.LinearConstraint{
		Terms: map[ilp.VarID]float64{x: 1},
		Op:    ilp.GE,
		RHS:   2, // unreachable for a binary variable
	}))

	status, err := b.Optimize(context.Background())
	require.ErrorIs(t, err, ilp.ErrInfeasibleModel)
	require.Equal(t, ilp.StatusInfeasible, status)
}

func TestBranchAndBound_ValueBeforeSolveErrors(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	x := b.AddVariable(ilp.Variable{Name: "x"})
	_, err := b.Value(x)
	require.ErrorIs(t, err, ilp.ErrNotSolved)
}

func TestBranchAndBound_UnknownVariable(t *testing.T) {
	b := ilp.NewBranchAndBoundBackend()
	b.AddVariable(ilp.Variable{Name: "x"})
	err := b.SetCoefficient(ilp.VarID(99), 1)
	require.ErrorIs(t, err, ilp.ErrUnknownVariable)
}
