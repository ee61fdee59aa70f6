package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *Request {
	return &Request{
		Nodes: []Node{
			NewSource("src", SourceSpec{Commodity: "water", SupplyCap: 100, UnitCost: 1}),
			NewSink("snk", SinkSpec{Commodity: "water", DemandCap: 50, UnitValue: 10}),
		},
		Edges: []Edge{
			{ID: "e1", U: "src", V: "snk", Commodity: "water"},
		},
	}
}

func TestCheckSchemaValid(t *testing.T) {
	require.NoError(t, CheckSchema(validRequest()))
}

func TestCheckSchemaNilRequest(t *testing.T) {
	err := CheckSchema(nil)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestCheckSchemaRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{
			name:   "no nodes",
			mutate: func(r *Request) { r.Nodes = nil; r.Edges = nil },
		},
		{
			name:   "empty node id",
			mutate: func(r *Request) { r.Nodes[0].ID = "" },
		},
		{
			name:   "unknown node kind",
			mutate: func(r *Request) { r.Nodes[0].Kind = "factory" },
		},
		{
			name:   "negative supply cap",
			mutate: func(r *Request) { r.Nodes[0].Source.SupplyCap = -1 },
		},
		{
			name:   "negative demand cap",
			mutate: func(r *Request) { r.Nodes[1].Sink.DemandCap = -0.5 },
		},
		{
			name:   "empty source commodity",
			mutate: func(r *Request) { r.Nodes[0].Source.Commodity = "" },
		},
		{
			name:   "negative edge cap",
			mutate: func(r *Request) { r.Edges[0].Cap = ptr(-2.0) },
		},
		{
			name:   "empty edge commodity",
			mutate: func(r *Request) { r.Edges[0].Commodity = "" },
		},
		{
			name:   "missing payload for kind",
			mutate: func(r *Request) { r.Nodes[0].Source = nil },
		},
		{
			name: "foreign payload present",
			mutate: func(r *Request) {
				r.Nodes[0].Sink = &SinkSpec{Commodity: "water", DemandCap: 1}
			},
		},
		{
			name: "non-positive process qty",
			mutate: func(r *Request) {
				r.Nodes = append(r.Nodes, NewProcess("proc", ProcessSpec{
					Inputs:  []ProcessIO{{Commodity: "water", Qty: 0}},
					Outputs: []ProcessIO{{Commodity: "syrup", Qty: 1}},
				}))
			},
		},
		{
			name: "negative process run cap",
			mutate: func(r *Request) {
				r.Nodes = append(r.Nodes, NewProcess("proc", ProcessSpec{
					Inputs:  []ProcessIO{{Commodity: "water", Qty: 1}},
					Outputs: []ProcessIO{{Commodity: "syrup", Qty: 1}},
					RunCap:  ptr(-3.0),
				}))
			},
		},
		{
			name:   "unknown objective kind",
			mutate: func(r *Request) { r.Objective.Kind = "make_money_fast" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := CheckSchema(req)
			require.Error(t, err)

			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr, "expected a schema error, got %T: %v", err, err)
		})
	}
}

func TestCheckSchemaPayloadMessagesNameNode(t *testing.T) {
	req := validRequest()
	req.Nodes[0].Source = nil

	err := CheckSchema(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src")
}

func ptr(v float64) *float64 {
	return &v
}
