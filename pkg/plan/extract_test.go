package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarsden/flowplan/pkg/lp"
	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/network/networktest"
	"github.com/jmarsden/flowplan/pkg/solver"
)

func compileScenario(t *testing.T, req *network.Request) *lp.Index {
	t.Helper()
	_, idx, err := lp.Compile(req)
	require.NoError(t, err)
	return idx
}

func TestExtractStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     solver.Status
		wantStatus network.SolveStatus
		wantMsg    string
	}{
		{
			name:       "infeasible",
			status:     solver.StatusInfeasible,
			wantStatus: network.StatusInfeasible,
			wantMsg:    "model is infeasible",
		},
		{
			name:       "unbounded",
			status:     solver.StatusUnbounded,
			wantStatus: network.StatusUnbounded,
			wantMsg:    "model is unbounded",
		},
		{
			name:       "model invalid",
			status:     solver.StatusModelInvalid,
			wantStatus: network.StatusError,
			wantMsg:    "model is invalid (NaN/Inf coefficients or malformed constraints)",
		},
		{
			name:       "not solved",
			status:     solver.StatusNotSolved,
			wantStatus: network.StatusError,
			wantMsg:    "model not solved (solver did not run or stopped early)",
		},
		{
			name:       "abnormal",
			status:     solver.StatusAbnormal,
			wantStatus: network.StatusError,
			wantMsg:    "solver ended abnormally",
		},
		{
			name:       "unknown",
			status:     solver.Status(99),
			wantStatus: network.StatusError,
			wantMsg:    "unknown solver status: unknown",
		},
	}

	req := networktest.SimpleChain()
	idx := compileScenario(t, req)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(req, idx, &solver.Outcome{Status: tt.status}, 0)

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Nil(t, res.ObjectiveValue)

			// Non-optimal results are all-or-nothing: empty but non-nil maps.
			require.NotNil(t, res.EdgeFlows)
			require.NotNil(t, res.ProcessRuns)
			require.NotNil(t, res.SinkDelivered)
			assert.Empty(t, res.EdgeFlows)
			assert.Empty(t, res.ProcessRuns)
			assert.Empty(t, res.SinkDelivered)
			assert.Empty(t, res.TightConstraints)
		})
	}
}

func TestExtractOptimal(t *testing.T) {
	req := networktest.SimpleChain()
	idx := compileScenario(t, req)

	res := Extract(req, idx, &solver.Outcome{
		Status:         solver.StatusOptimal,
		ObjectiveValue: 450,
		VariableValues: []float64{50},
	}, 0)

	assert.Equal(t, network.StatusOptimal, res.Status)
	require.NotNil(t, res.ObjectiveValue)
	assert.Equal(t, 450.0, *res.ObjectiveValue)
	assert.Empty(t, res.Message)

	assert.Equal(t, map[string]float64{"e1": 50}, res.EdgeFlows)
	assert.Empty(t, res.ProcessRuns)
	assert.Equal(t, map[string]float64{"snk": 50}, res.SinkDelivered)

	// Demand 50 is exhausted; supply 100 has slack 50 and stays out.
	require.Len(t, res.TightConstraints, 1)
	assert.Equal(t, "sink_demand:snk", res.TightConstraints[0].Name)
	assert.InDelta(t, 0.0, res.TightConstraints[0].Slack, 1e-9)
}

func TestExtractFeasibleTreatedAsOptimal(t *testing.T) {
	req := networktest.SimpleChain()
	idx := compileScenario(t, req)

	res := Extract(req, idx, &solver.Outcome{
		Status:         solver.StatusFeasible,
		ObjectiveValue: 450,
		VariableValues: []float64{50},
	}, 0)

	assert.Equal(t, network.StatusOptimal, res.Status)
	assert.Equal(t, "solver returned feasible (treated as optimal)", res.Message)
	assert.Equal(t, map[string]float64{"e1": 50}, res.EdgeFlows)
}

func TestExtractRejectsShortValueVector(t *testing.T) {
	req := networktest.Bottleneck()
	idx := compileScenario(t, req)

	res := Extract(req, idx, &solver.Outcome{
		Status:         solver.StatusOptimal,
		VariableValues: []float64{1},
	}, 0)

	assert.Equal(t, network.StatusError, res.Status)
	assert.Contains(t, res.Message, "1 variable values")
	assert.Contains(t, res.Message, "3 variables")
	assert.Empty(t, res.EdgeFlows)
}

func TestTightConstraintsSortedBySlack(t *testing.T) {
	// A generous tolerance makes distinct slacks classify as tight, so the
	// ascending sort is observable.
	req := &network.Request{
		Nodes: []network.Node{
			network.NewSource("src", network.SourceSpec{Commodity: "water", SupplyCap: 10}),
			network.NewSink("snk", network.SinkSpec{Commodity: "water", DemandCap: 6}),
		},
		Edges: []network.Edge{
			{ID: "e1", U: "src", V: "snk", Commodity: "water", Cap: networktest.Float(5)},
		},
	}
	idx := compileScenario(t, req)

	res := Extract(req, idx, &solver.Outcome{
		Status:         solver.StatusOptimal,
		VariableValues: []float64{4.5},
	}, 2.0)

	// Slacks: edge_cap 0.5, sink_demand 1.5, source_supply 5.5 (not tight).
	require.Len(t, res.TightConstraints, 2)
	assert.Equal(t, "edge_cap:e1", res.TightConstraints[0].Name)
	assert.InDelta(t, 0.5, res.TightConstraints[0].Slack, 1e-9)
	assert.Equal(t, "sink_demand:snk", res.TightConstraints[1].Name)
	assert.InDelta(t, 1.5, res.TightConstraints[1].Slack, 1e-9)
}

func TestTightConstraintsTieOrderIsStable(t *testing.T) {
	// Two edges and two sinks saturate simultaneously; equal slacks keep
	// category-then-request enumeration order.
	req := &network.Request{
		Nodes: []network.Node{
			network.NewSource("src", network.SourceSpec{Commodity: "water", SupplyCap: 10}),
			network.NewSink("snk1", network.SinkSpec{Commodity: "water", DemandCap: 4}),
			network.NewSink("snk2", network.SinkSpec{Commodity: "water", DemandCap: 4}),
		},
		Edges: []network.Edge{
			{ID: "e1", U: "src", V: "snk1", Commodity: "water", Cap: networktest.Float(4)},
			{ID: "e2", U: "src", V: "snk2", Commodity: "water", Cap: networktest.Float(4)},
		},
	}
	idx := compileScenario(t, req)

	res := Extract(req, idx, &solver.Outcome{
		Status:         solver.StatusOptimal,
		VariableValues: []float64{4, 4},
	}, 0)

	names := make([]string, 0, len(res.TightConstraints))
	for _, tc := range res.TightConstraints {
		names = append(names, tc.Name)
	}
	assert.Equal(t, []string{"edge_cap:e1", "edge_cap:e2", "sink_demand:snk1", "sink_demand:snk2"}, names)
}
