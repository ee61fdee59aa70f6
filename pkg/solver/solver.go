// Package solver defines the solve capability port: the externally
// provided ability to find an optimal assignment for a linear program.
// The compiler and extractor depend only on this package, never on a
// concrete solver's types.
package solver

import (
	"context"

	"github.com/jmarsden/flowplan/pkg/lp"
)

// Status is the raw solver outcome, before domain mapping.
type Status int

const (
	// StatusOptimal means an optimal assignment was found.
	StatusOptimal Status = iota
	// StatusFeasible means a feasible but not proven-optimal assignment
	// was found. Callers treat it as optimal with an explanatory note.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusUnbounded means the objective can grow without limit.
	StatusUnbounded
	// StatusModelInvalid means the model itself is malformed (NaN/Inf
	// coefficients, contradictory rows).
	StatusModelInvalid
	// StatusNotSolved means the solver did not run or stopped early.
	StatusNotSolved
	// StatusAbnormal means the solver ended abnormally.
	StatusAbnormal
	// StatusUnknown covers status codes this adapter does not recognize.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusModelInvalid:
		return "model_invalid"
	case StatusNotSolved:
		return "not_solved"
	case StatusAbnormal:
		return "abnormal"
	default:
		return "unknown"
	}
}

// Outcome is the raw solver output. VariableValues is indexed by lp.VarID
// and is only meaningful for StatusOptimal and StatusFeasible.
type Outcome struct {
	Status         Status
	ObjectiveValue float64
	VariableValues []float64
}

// Solver is the injected solve capability. Implementations must be
// deterministic: identical models yield identical outcomes up to
// floating-point tolerance. A non-nil error means the capability itself
// failed (a programming or environment fault), not that the model has no
// solution; "no solution" outcomes are carried in Outcome.Status.
//
// Solve may block for the duration of the numeric solve. The context is
// honored only at the capability boundary: most LP solvers cannot be
// interrupted mid-solve.
type Solver interface {
	Solve(ctx context.Context, model *lp.Model) (*Outcome, error)
}

// Factory builds solver instances. Solver state cannot be shared between
// concurrent solves, so each request (or each worker) constructs its own
// instance through a Factory.
type Factory interface {
	New() (Solver, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func() (Solver, error)

func (f FactoryFunc) New() (Solver, error) {
	return f()
}
