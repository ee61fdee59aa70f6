// Package solvertest provides a scripted solve capability for tests.
package solvertest

import (
	"context"

	"github.com/jmarsden/flowplan/pkg/lp"
	"github.com/jmarsden/flowplan/pkg/solver"
)

// Scripted returns a fixed outcome (or error) regardless of input and
// records the last model it was handed, so extractor and planner tests
// can exercise every status path deterministically.
type Scripted struct {
	Outcome *solver.Outcome
	Err     error

	// LastModel is the model from the most recent Solve call.
	LastModel *lp.Model
	// Calls counts Solve invocations.
	Calls int
}

func (s *Scripted) Solve(_ context.Context, model *lp.Model) (*solver.Outcome, error) {
	s.Calls++
	s.LastModel = model
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Outcome, nil
}

// Factory wraps a Scripted in a solver.Factory.
func Factory(s *Scripted) solver.Factory {
	return solver.FactoryFunc(func() (solver.Solver, error) {
		return s, nil
	})
}

// FailingFactory always fails to construct a solver, for exercising the
// internal-error path.
func FailingFactory(err error) solver.Factory {
	return solver.FactoryFunc(func() (solver.Solver, error) {
		return nil, err
	})
}
