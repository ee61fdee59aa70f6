package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/lp"
	"github.com/jmarsden/flowplan/pkg/metrics"
	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/solver"
)

// Config assembles a Planner. Factory is required; Logger defaults to a
// no-op logger and Metrics may be nil.
type Config struct {
	Factory        solver.Factory
	Logger         logging.Logger
	Metrics        *metrics.Registry
	SlackTolerance float64
}

// Planner runs the full solve pipeline: schema check, semantic
// validation, compilation, solving, extraction. A Planner holds no
// per-request state and is safe for concurrent use; each request gets a
// fresh solve capability instance from the factory.
type Planner struct {
	factory  solver.Factory
	log      logging.Logger
	metrics  *metrics.Registry
	slackTol float64
}

// New creates a Planner.
func New(cfg Config) (*Planner, error) {
	if cfg.Factory == nil {
		return nil, errors.New("plan: solver factory is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Planner{
		factory:  cfg.Factory,
		log:      log.With(logging.Component("planner")),
		metrics:  cfg.Metrics,
		slackTol: cfg.SlackTolerance,
	}, nil
}

// Solve processes one request. Schema and domain violations come back as
// typed errors (*network.SchemaError, *network.DomainError); solver
// outcomes, including infeasible and unbounded, come back as a Result. A
// plain error means the solve capability itself failed.
func (p *Planner) Solve(ctx context.Context, req *network.Request) (*network.Result, error) {
	start := time.Now()

	if err := network.CheckSchema(req); err != nil {
		p.recordFailure("schema")
		return nil, err
	}
	if err := network.Validate(req); err != nil {
		p.recordFailure("domain")
		return nil, err
	}

	model, idx, err := lp.Compile(req)
	if err != nil {
		p.recordFailure("domain")
		return nil, err
	}

	slv, err := p.factory.New()
	if err != nil {
		return nil, fmt.Errorf("plan: constructing solver: %w", err)
	}

	outcome, err := slv.Solve(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("plan: solver failed: %w", err)
	}

	result := Extract(req, idx, outcome, p.slackTol)

	elapsed := time.Since(start)
	p.log.Info("solve completed",
		logging.NodeCount(len(req.Nodes)),
		logging.EdgeCount(len(req.Edges)),
		logging.SolveStatus(string(result.Status)),
		logging.Int("variables", len(model.Variables)),
		logging.Int("constraints", len(model.Constraints)),
		logging.Latency(elapsed),
	)
	if p.metrics != nil {
		p.metrics.RecordSolve(string(result.Status), elapsed,
			len(model.Variables), len(model.Constraints), len(result.TightConstraints))
	}

	return result, nil
}

func (p *Planner) recordFailure(category string) {
	if p.metrics != nil {
		p.metrics.RecordValidationFailure(category)
	}
}
