// Package simplex adapts gonum's dense simplex implementation to the
// solve capability port. The adapter only converts formats: the LP model
// becomes standard form (equalities over non-negative variables, one
// slack column per inequality) and gonum's result becomes an Outcome.
package simplex

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/jmarsden/flowplan/pkg/lp"
	"github.com/jmarsden/flowplan/pkg/solver"
)

// DefaultTolerance is the status-classification tolerance. It is distinct
// from, and configured independently of, the slack tolerance used for
// tight-constraint analysis.
const DefaultTolerance = 1e-7

// Options configures a Solver.
type Options struct {
	// Tolerance is passed to the simplex routine for optimality and
	// pivot decisions. Zero means DefaultTolerance.
	Tolerance float64
}

// Solver drives gonum's lp.Simplex. Instances are stateless and cheap,
// but per the capability contract callers still construct one per
// request/worker via Factory.
type Solver struct {
	tol float64
}

// New returns a Solver with default options.
func New() *Solver {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a configured Solver.
func NewWithOptions(opts Options) *Solver {
	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	return &Solver{tol: tol}
}

// Factory returns a solver.Factory producing independently owned
// instances with the given options.
func Factory(opts Options) solver.Factory {
	return solver.FactoryFunc(func() (solver.Solver, error) {
		return NewWithOptions(opts), nil
	})
}

// Solve converts the model to standard form and runs the simplex method.
// The numeric solve is synchronous and not interruptible; the context is
// checked once before it starts.
func (s *Solver) Solve(ctx context.Context, model *lp.Model) (*solver.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return &solver.Outcome{Status: solver.StatusNotSolved}, nil
	}

	n := len(model.Variables)

	// Maximization objective, accumulated per variable.
	cMax := make([]float64, n)
	for _, t := range model.Objective {
		cMax[t.Var] += t.Coef
	}
	for _, v := range cMax {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &solver.Outcome{Status: solver.StatusModelInvalid}, nil
		}
	}

	if n == 0 {
		return &solver.Outcome{Status: solver.StatusOptimal}, nil
	}

	rows, infeasible, invalid := normalizeRows(model, n)
	if invalid {
		return &solver.Outcome{Status: solver.StatusModelInvalid}, nil
	}
	if infeasible {
		return &solver.Outcome{Status: solver.StatusInfeasible}, nil
	}

	// Columns absent from every row are unconstrained above. If the
	// objective rewards growing one, the model is unbounded; otherwise
	// the variable sits at zero and is dropped before the solve (gonum
	// rejects all-zero columns).
	inRow := make([]bool, n)
	for _, r := range rows {
		for j, coef := range r.coefs {
			if coef != 0 {
				inRow[j] = true
			}
		}
	}
	colOf := make([]int, n)
	keep := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if inRow[j] {
			colOf[j] = len(keep)
			keep = append(keep, j)
			continue
		}
		if cMax[j] > 0 {
			return &solver.Outcome{Status: solver.StatusUnbounded}, nil
		}
		colOf[j] = -1
	}

	// Standard form: one slack column per inequality row.
	slacks := 0
	for _, r := range rows {
		if r.sense == lp.SenseLessEq {
			slacks++
		}
	}
	cols := len(keep) + slacks

	if len(rows) == 0 || cols == 0 {
		// Nothing constrains the kept variables; cMax <= 0 everywhere
		// (checked above), so zero is optimal.
		return &solver.Outcome{
			Status:         solver.StatusOptimal,
			VariableValues: make([]float64, n),
		}, nil
	}

	a := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	cMin := make([]float64, cols)
	for k, j := range keep {
		cMin[k] = -cMax[j]
	}

	slack := len(keep)
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			// Rows are all equalities once slacks are in place, so both
			// sides can flip to keep b non-negative.
			sign = -1
		}
		for j, coef := range r.coefs {
			if coef != 0 && colOf[j] >= 0 {
				a.Set(i, colOf[j], sign*coef)
			}
		}
		b[i] = sign * r.rhs
		if r.sense == lp.SenseLessEq {
			a.Set(i, slack, sign)
			slack++
		}
	}

	optF, optX, err := gonumlp.Simplex(cMin, a, b, s.tol, nil)
	if status, done := mapSimplexError(err); done {
		return &solver.Outcome{Status: status}, nil
	}

	values := make([]float64, n)
	for k, j := range keep {
		values[j] = optX[k]
	}

	return &solver.Outcome{
		Status:         solver.StatusOptimal,
		ObjectiveValue: -optF,
		VariableValues: values,
	}, nil
}

// row is a dense accumulated constraint row.
type row struct {
	coefs []float64
	sense lp.Sense
	rhs   float64
}

// normalizeRows accumulates constraint terms into dense rows, discards
// vacuous rows, and detects trivially contradictory or malformed ones.
func normalizeRows(model *lp.Model, n int) (rows []row, infeasible, invalid bool) {
	for _, c := range model.Constraints {
		r := row{coefs: make([]float64, n), sense: c.Sense, rhs: c.RHS}
		if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return nil, false, true
		}
		for _, t := range c.Terms {
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return nil, false, true
			}
			r.coefs[t.Var] += t.Coef
		}

		empty := true
		for _, coef := range r.coefs {
			if coef != 0 {
				empty = false
				break
			}
		}
		if empty {
			switch {
			case c.Sense == lp.SenseEq && c.RHS != 0:
				return nil, true, false
			case c.Sense == lp.SenseLessEq && c.RHS < 0:
				return nil, true, false
			default:
				continue // 0 = 0 or 0 <= rhs
			}
		}

		rows = append(rows, r)
	}
	return rows, false, false
}

func mapSimplexError(err error) (solver.Status, bool) {
	switch {
	case err == nil:
		return solver.StatusOptimal, false
	case errors.Is(err, gonumlp.ErrInfeasible):
		return solver.StatusInfeasible, true
	case errors.Is(err, gonumlp.ErrUnbounded):
		return solver.StatusUnbounded, true
	case errors.Is(err, gonumlp.ErrZeroColumn), errors.Is(err, gonumlp.ErrZeroRow):
		return solver.StatusModelInvalid, true
	case errors.Is(err, gonumlp.ErrSingular), errors.Is(err, gonumlp.ErrBland), errors.Is(err, gonumlp.ErrLinSolve):
		return solver.StatusAbnormal, true
	default:
		return solver.StatusUnknown, true
	}
}
