// Package networktest builds canonical flow-network requests shared by
// tests across packages.
package networktest

import "github.com/jmarsden/flowplan/pkg/network"

// Float returns a pointer to v, for optional cap fields.
func Float(v float64) *float64 {
	return &v
}

// SimpleChain is a profitable source -> sink chain: water supply 100 at
// unit cost 1, uncapped edge, demand 50 at unit value 10. The optimal
// plan ships 50 units for an objective of 450 and a binding sink demand.
func SimpleChain() *network.Request {
	return &network.Request{
		Nodes: []network.Node{
			network.NewSource("src", network.SourceSpec{Commodity: "water", SupplyCap: 100, UnitCost: 1}),
			network.NewSink("snk", network.SinkSpec{Commodity: "water", DemandCap: 50, UnitValue: 10}),
		},
		Edges: []network.Edge{
			{ID: "e1", U: "src", V: "snk", Commodity: "water"},
		},
		Objective: network.Objective{Kind: network.MaxProfit},
	}
}

// Bottleneck runs a profitable chain through an edge capped at 7:
// source(water) -> cap-7 edge -> process(water->syrup, 1:1) -> uncapped
// edge -> sink(syrup, demand 100). The capped edge binds at 7.
func Bottleneck() *network.Request {
	return &network.Request{
		Nodes: []network.Node{
			network.NewSource("src", network.SourceSpec{Commodity: "water", SupplyCap: 100, UnitCost: 1}),
			network.NewProcess("proc", network.ProcessSpec{
				Inputs:  []network.ProcessIO{{Commodity: "water", Qty: 1}},
				Outputs: []network.ProcessIO{{Commodity: "syrup", Qty: 1}},
			}),
			network.NewSink("snk", network.SinkSpec{Commodity: "syrup", DemandCap: 100, UnitValue: 10}),
		},
		Edges: []network.Edge{
			{ID: "e1", U: "src", V: "proc", Commodity: "water", Cap: Float(7)},
			{ID: "e2", U: "proc", V: "snk", Commodity: "syrup"},
		},
		Objective: network.Objective{Kind: network.MaxProfit},
	}
}

// RunCapChain is the Bottleneck chain with the edge cap removed and a
// process run cap of 3, so the run cap binds instead.
func RunCapChain() *network.Request {
	req := Bottleneck()
	req.Edges[0].Cap = nil
	req.Nodes[1].Process.RunCap = Float(3)
	return req
}

// UnreachableSink demands a commodity nothing produces.
func UnreachableSink() *network.Request {
	return &network.Request{
		Nodes: []network.Node{
			network.NewSource("src", network.SourceSpec{Commodity: "water", SupplyCap: 100}),
			network.NewSink("snk", network.SinkSpec{Commodity: "gold", DemandCap: 10, UnitValue: 5}),
		},
		Edges:     []network.Edge{},
		Objective: network.Objective{Kind: network.MaxProfit},
	}
}

// InertSink is UnreachableSink with zero demand; the reachability check
// does not apply to inert sinks.
func InertSink() *network.Request {
	req := UnreachableSink()
	req.Nodes[1].Sink.DemandCap = 0
	return req
}

// DuplicateNodeIDs contains two nodes sharing an id.
func DuplicateNodeIDs() *network.Request {
	return &network.Request{
		Nodes: []network.Node{
			network.NewSource("dup", network.SourceSpec{Commodity: "water", SupplyCap: 100}),
			network.NewSink("dup", network.SinkSpec{Commodity: "water", DemandCap: 50}),
		},
		Edges:     []network.Edge{},
		Objective: network.Objective{Kind: network.MaxProfit},
	}
}
