package lp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/network/networktest"
)

func constraintNames(m *Model) []string {
	names := make([]string, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		names = append(names, c.Name)
	}
	return names
}

func findConstraint(t *testing.T, m *Model, name string) Constraint {
	t.Helper()
	for _, c := range m.Constraints {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("model has no constraint %q; have %v", name, constraintNames(m))
	return Constraint{}
}

func TestCompileSimpleChain(t *testing.T) {
	m, idx, err := Compile(networktest.SimpleChain())
	require.NoError(t, err)

	require.Len(t, m.Variables, 1)
	assert.Equal(t, "f[e1]", m.Variables[0].Name)
	assert.Equal(t, VarID(0), idx.EdgeVars["e1"])

	// Uncapped edge: no cap row; just supply and demand.
	assert.Equal(t, []string{"supply[src]", "demand[snk]"}, constraintNames(m))

	supply := findConstraint(t, m, "supply[src]")
	assert.Equal(t, SenseLessEq, supply.Sense)
	assert.Equal(t, 100.0, supply.RHS)
	require.Len(t, supply.Terms, 1)
	assert.Equal(t, Term{Var: idx.EdgeVars["e1"], Coef: 1}, supply.Terms[0])

	demand := findConstraint(t, m, "demand[snk]")
	assert.Equal(t, 50.0, demand.RHS)

	// max_profit objective: +10 revenue and -1 extraction cost on e1.
	assert.ElementsMatch(t, []Term{
		{Var: idx.EdgeVars["e1"], Coef: 10},
		{Var: idx.EdgeVars["e1"], Coef: -1},
	}, m.Objective)
}

func TestCompileBottleneck(t *testing.T) {
	m, idx, err := Compile(networktest.Bottleneck())
	require.NoError(t, err)

	// Flow vars in edge order, then run vars in node order.
	require.Len(t, m.Variables, 3)
	assert.Equal(t, "f[e1]", m.Variables[0].Name)
	assert.Equal(t, "f[e2]", m.Variables[1].Name)
	assert.Equal(t, "r[proc]", m.Variables[2].Name)

	capRow := findConstraint(t, m, "cap_edge[e1]")
	assert.Equal(t, SenseLessEq, capRow.Sense)
	assert.Equal(t, 7.0, capRow.RHS)

	// Conservation at the process, per commodity in sorted order.
	syrup := findConstraint(t, m, "cons[proc,syrup]")
	assert.Equal(t, SenseEq, syrup.Sense)
	assert.Equal(t, 0.0, syrup.RHS)
	assert.ElementsMatch(t, []Term{
		{Var: idx.EdgeVars["e2"], Coef: 1},
		{Var: idx.RunVars["proc"], Coef: -1},
	}, syrup.Terms)

	water := findConstraint(t, m, "cons[proc,water]")
	assert.ElementsMatch(t, []Term{
		{Var: idx.EdgeVars["e1"], Coef: -1},
		{Var: idx.RunVars["proc"], Coef: 1},
	}, water.Terms)

	assert.Equal(t, 7.0, idx.EdgeCaps["e1"])
	assert.NotContains(t, idx.ProcessRunCaps, "proc")
}

func TestCompileRunCapChain(t *testing.T) {
	m, idx, err := Compile(networktest.RunCapChain())
	require.NoError(t, err)

	runCap := findConstraint(t, m, "run_cap[proc]")
	assert.Equal(t, SenseLessEq, runCap.Sense)
	assert.Equal(t, 3.0, runCap.RHS)
	require.Len(t, runCap.Terms, 1)
	assert.Equal(t, Term{Var: idx.RunVars["proc"], Coef: 1}, runCap.Terms[0])
	assert.Equal(t, 3.0, idx.ProcessRunCaps["proc"])
}

func TestCompileDeterministic(t *testing.T) {
	first, _, err := Compile(networktest.Bottleneck())
	require.NoError(t, err)
	second, _, err := Compile(networktest.Bottleneck())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileBoundaryRows(t *testing.T) {
	t.Run("valid topology emits none", func(t *testing.T) {
		m, _, err := Compile(networktest.Bottleneck())
		require.NoError(t, err)
		for _, c := range m.Constraints {
			assert.NotContains(t, c.Name, "no_in_to_source")
			assert.NotContains(t, c.Name, "no_out_from_sink")
		}
	})

	t.Run("edge into source forces zero flow", func(t *testing.T) {
		req := networktest.SimpleChain()
		req.Edges = append(req.Edges, network.Edge{ID: "bad", U: "snk", V: "src", Commodity: "water"})

		m, idx, err := Compile(req)
		require.NoError(t, err)

		in := findConstraint(t, m, "no_in_to_source[src,water]")
		assert.Equal(t, SenseEq, in.Sense)
		assert.Equal(t, 0.0, in.RHS)
		require.Len(t, in.Terms, 1)
		assert.Equal(t, Term{Var: idx.EdgeVars["bad"], Coef: 1}, in.Terms[0])

		out := findConstraint(t, m, "no_out_from_sink[snk,water]")
		assert.Equal(t, SenseEq, out.Sense)
		assert.Equal(t, 0.0, out.RHS)
	})
}

func TestCompileMaxFlowObjective(t *testing.T) {
	req := networktest.Bottleneck()
	req.Objective = network.Objective{Kind: network.MaxFlowToSink, SinkNodeID: "snk"}

	m, idx, err := Compile(req)
	require.NoError(t, err)

	assert.Equal(t, []Term{{Var: idx.EdgeVars["e2"], Coef: 1}}, m.Objective)
}

func TestCompileDefensiveErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      *network.Request
		contains string
	}{
		{
			name:     "nil request",
			req:      nil,
			contains: "cannot be nil",
		},
		{
			name:     "duplicate node id",
			req:      networktest.DuplicateNodeIDs(),
			contains: "duplicate node id",
		},
		{
			name: "missing edge endpoint",
			req: func() *network.Request {
				r := networktest.SimpleChain()
				r.Edges[0].V = "ghost"
				return r
			}(),
			contains: "missing node v='ghost'",
		},
		{
			name: "reserved objective kind",
			req: func() *network.Request {
				r := networktest.SimpleChain()
				r.Objective = network.Objective{Kind: network.MinCost}
				return r
			}(),
			contains: "not implemented",
		},
		{
			name: "max_flow_to_sink without sink id",
			req: func() *network.Request {
				r := networktest.SimpleChain()
				r.Objective = network.Objective{Kind: network.MaxFlowToSink}
				return r
			}(),
			contains: "sink_node_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compile(tt.req)
			require.Error(t, err)
			var domainErr *network.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
