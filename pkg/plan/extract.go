// Package plan turns raw solver output back into domain results and
// exposes the planner facade that runs the full solve pipeline.
package plan

import (
	"fmt"
	"sort"

	"github.com/jmarsden/flowplan/pkg/lp"
	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/solver"
)

// DefaultSlackTolerance classifies a capacity constraint as tight when
// its remaining slack is at or below this value. It is a business-level
// tolerance, configured independently of the solver's status tolerance.
const DefaultSlackTolerance = 1e-6

// Extract maps a solver outcome onto the domain result. Optimal and
// feasible outcomes produce populated flow/run/delivered maps plus the
// tight-constraint list; every other status produces an empty result with
// a status-specific message. slackTol <= 0 means DefaultSlackTolerance.
func Extract(req *network.Request, idx *lp.Index, out *solver.Outcome, slackTol float64) *network.Result {
	if slackTol <= 0 {
		slackTol = DefaultSlackTolerance
	}

	var message string
	switch out.Status {
	case solver.StatusOptimal:
	case solver.StatusFeasible:
		message = "solver returned feasible (treated as optimal)"
	case solver.StatusInfeasible:
		return network.EmptyResult(network.StatusInfeasible, "model is infeasible")
	case solver.StatusUnbounded:
		return network.EmptyResult(network.StatusUnbounded, "model is unbounded")
	case solver.StatusModelInvalid:
		return network.EmptyResult(network.StatusError, "model is invalid (NaN/Inf coefficients or malformed constraints)")
	case solver.StatusNotSolved:
		return network.EmptyResult(network.StatusError, "model not solved (solver did not run or stopped early)")
	case solver.StatusAbnormal:
		return network.EmptyResult(network.StatusError, "solver ended abnormally")
	default:
		return network.EmptyResult(network.StatusError, fmt.Sprintf("unknown solver status: %s", out.Status))
	}

	need := len(idx.EdgeVars) + len(idx.RunVars)
	if len(out.VariableValues) < need {
		return network.EmptyResult(network.StatusError,
			fmt.Sprintf("solver returned %d variable values, model has %d variables", len(out.VariableValues), need))
	}

	edgeFlows := make(map[string]float64, len(idx.EdgeVars))
	for id, v := range idx.EdgeVars {
		edgeFlows[id] = out.VariableValues[v]
	}
	processRuns := make(map[string]float64, len(idx.RunVars))
	for id, v := range idx.RunVars {
		processRuns[id] = out.VariableValues[v]
	}

	// Delivered per sink: inflow of its commodity, summed over the
	// adjacency index rather than a fresh graph walk.
	sinkDelivered := make(map[string]float64)
	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != network.KindSink || n.Sink == nil {
			continue
		}
		var total float64
		for _, eid := range idx.Incoming[lp.NodeCommodity{Node: n.ID, Commodity: n.Sink.Commodity}] {
			total += edgeFlows[eid]
		}
		sinkDelivered[n.ID] = total
	}

	objective := out.ObjectiveValue
	return &network.Result{
		Status:           network.StatusOptimal,
		ObjectiveValue:   &objective,
		Message:          message,
		EdgeFlows:        edgeFlows,
		ProcessRuns:      processRuns,
		SinkDelivered:    sinkDelivered,
		TightConstraints: tightConstraints(req, idx, edgeFlows, processRuns, slackTol),
	}
}

// tightConstraints computes slack = cap - used for every capacity-bearing
// construct and keeps those within tolerance of zero. Constructs are
// enumerated in request order per category; the final list is sorted
// ascending by slack with a stable sort, so ties keep enumeration order.
func tightConstraints(req *network.Request, idx *lp.Index, edgeFlows, processRuns map[string]float64, tol float64) []network.TightConstraint {
	tight := []network.TightConstraint{}

	add := func(category, id string, slack float64) {
		if slack <= tol {
			tight = append(tight, network.TightConstraint{Name: category + ":" + id, Slack: slack})
		}
	}

	for i := range req.Edges {
		e := &req.Edges[i]
		if capacity, ok := idx.EdgeCaps[e.ID]; ok {
			add("edge_cap", e.ID, capacity-edgeFlows[e.ID])
		}
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		capacity, ok := idx.SourceSupplyCaps[n.ID]
		if !ok || n.Source == nil {
			continue
		}
		var used float64
		for _, eid := range idx.Outgoing[lp.NodeCommodity{Node: n.ID, Commodity: n.Source.Commodity}] {
			used += edgeFlows[eid]
		}
		add("source_supply", n.ID, capacity-used)
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		capacity, ok := idx.SinkDemandCaps[n.ID]
		if !ok || n.Sink == nil {
			continue
		}
		var used float64
		for _, eid := range idx.Incoming[lp.NodeCommodity{Node: n.ID, Commodity: n.Sink.Commodity}] {
			used += edgeFlows[eid]
		}
		add("sink_demand", n.ID, capacity-used)
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if capacity, ok := idx.ProcessRunCaps[n.ID]; ok {
			add("process_run_cap", n.ID, capacity-processRuns[n.ID])
		}
	}

	sort.SliceStable(tight, func(i, j int) bool {
		return tight[i].Slack < tight[j].Slack
	})
	return tight
}
