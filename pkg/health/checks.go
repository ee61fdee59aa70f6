package health

import (
	"github.com/jmarsden/flowplan/pkg/solver"
)

// SolverCheck verifies the solve capability can be constructed. A factory
// that cannot produce a solver is an internal fault that makes the
// service not ready.
func SolverCheck(factory solver.Factory) CheckFunc {
	return func() Check {
		if _, err := factory.New(); err != nil {
			return Check{Status: StatusUnhealthy, Message: "solver construction failed: " + err.Error()}
		}
		return Check{Status: StatusHealthy}
	}
}

// AlwaysHealthy is a trivial liveness check.
func AlwaysHealthy() CheckFunc {
	return func() Check {
		return Check{Status: StatusHealthy}
	}
}
