package lp

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/jmarsden/flowplan/pkg/network"
)

// Compile turns a validated request into an LP model plus extraction
// indices. It does not assume the semantic validator already ran: the
// structural checks it depends on are repeated defensively, and the
// topology safety-net rows below keep the model correct even for graphs
// the validator would have rejected.
//
// Constraint generation iterates derived sets (commodities) in sorted
// order so identical requests always compile to identical models.
func Compile(req *network.Request) (*Model, *Index, error) {
	if err := defensiveCheck(req); err != nil {
		return nil, nil, err
	}

	m := &Model{}
	idx := newIndex()

	// Flow variable per edge, in request order.
	for i := range req.Edges {
		e := &req.Edges[i]
		idx.EdgeVars[e.ID] = VarID(len(m.Variables))
		m.Variables = append(m.Variables, Variable{Name: fmt.Sprintf("f[%s]", e.ID)})

		idx.Outgoing[NodeCommodity{e.U, e.Commodity}] = append(idx.Outgoing[NodeCommodity{e.U, e.Commodity}], e.ID)
		idx.Incoming[NodeCommodity{e.V, e.Commodity}] = append(idx.Incoming[NodeCommodity{e.V, e.Commodity}], e.ID)
	}

	// Run variable per process node, in request order.
	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind == network.KindProcess {
			idx.RunVars[n.ID] = VarID(len(m.Variables))
			m.Variables = append(m.Variables, Variable{Name: fmt.Sprintf("r[%s]", n.ID)})
		}
	}

	commodities := collectCommodities(req)

	addCapacityRows(req, m, idx)
	addBoundaryRows(req, m, idx, commodities)
	addConservationRows(req, m, idx, commodities)

	if err := addObjective(req, m, idx); err != nil {
		return nil, nil, err
	}

	return m, idx, nil
}

// defensiveCheck repeats the structural subset of semantic validation the
// compiler relies on. It mirrors the validator on purpose; the compiler
// must stay safe when called out of order.
func defensiveCheck(req *network.Request) error {
	if req == nil {
		return &network.DomainError{Reason: "request cannot be nil"}
	}

	seen := make(map[string]bool, len(req.Nodes))
	for i := range req.Nodes {
		n := &req.Nodes[i]
		if seen[n.ID] {
			return &network.DomainError{Reason: fmt.Sprintf("duplicate node id '%s'", n.ID)}
		}
		seen[n.ID] = true

		var ok bool
		switch n.Kind {
		case network.KindSource:
			ok = n.Source != nil
		case network.KindSink:
			ok = n.Sink != nil
		case network.KindProcess:
			ok = n.Process != nil
		}
		if !ok {
			return &network.DomainError{Reason: fmt.Sprintf("node '%s' has no payload matching kind '%s'", n.ID, n.Kind)}
		}
	}

	seen = make(map[string]bool, len(req.Edges))
	nodesByID := req.NodesByID()
	for i := range req.Edges {
		e := &req.Edges[i]
		if seen[e.ID] {
			return &network.DomainError{Reason: fmt.Sprintf("duplicate edge id '%s'", e.ID)}
		}
		seen[e.ID] = true

		if _, ok := nodesByID[e.U]; !ok {
			return &network.DomainError{Reason: fmt.Sprintf("edge '%s' references missing node u='%s'", e.ID, e.U)}
		}
		if _, ok := nodesByID[e.V]; !ok {
			return &network.DomainError{Reason: fmt.Sprintf("edge '%s' references missing node v='%s'", e.ID, e.V)}
		}
	}

	kind := req.ObjectiveKindOrDefault()
	if !kind.Implemented() {
		return &network.DomainError{Reason: fmt.Sprintf("objective '%s' is not implemented", kind)}
	}
	if kind == network.MaxFlowToSink {
		sinkID := req.Objective.SinkNodeID
		if sinkID == "" {
			return &network.DomainError{Reason: "objective 'max_flow_to_sink' requires objective.sink_node_id"}
		}
		n, ok := nodesByID[sinkID]
		if !ok || n.Kind != network.KindSink {
			return &network.DomainError{Reason: fmt.Sprintf("objective 'max_flow_to_sink' requires an existing sink node, got '%s'", sinkID)}
		}
	}

	return nil
}

// collectCommodities gathers every commodity mentioned on an edge or in a
// node payload, sorted for deterministic row generation.
func collectCommodities(req *network.Request) []string {
	set := make(map[string]bool)
	for i := range req.Edges {
		set[req.Edges[i].Commodity] = true
	}
	for i := range req.Nodes {
		n := &req.Nodes[i]
		switch n.Kind {
		case network.KindSource:
			if n.Source != nil {
				set[n.Source.Commodity] = true
			}
		case network.KindSink:
			if n.Sink != nil {
				set[n.Sink.Commodity] = true
			}
		case network.KindProcess:
			if n.Process != nil {
				for _, io := range n.Process.Inputs {
					set[io.Commodity] = true
				}
				for _, io := range n.Process.Outputs {
					set[io.Commodity] = true
				}
			}
		}
	}

	commodities := maps.Keys(set)
	slices.Sort(commodities)
	return commodities
}

// addCapacityRows emits edge-cap, source-supply, sink-demand and process
// run-cap inequalities, recording each finite cap in the index.
func addCapacityRows(req *network.Request, m *Model, idx *Index) {
	for i := range req.Edges {
		e := &req.Edges[i]
		if e.Cap == nil {
			continue
		}
		idx.EdgeCaps[e.ID] = *e.Cap
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("cap_edge[%s]", e.ID),
			Terms: []Term{{Var: idx.EdgeVars[e.ID], Coef: 1}},
			Sense: SenseLessEq,
			RHS:   *e.Cap,
		})
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != network.KindSource || n.Source == nil {
			continue
		}
		idx.SourceSupplyCaps[n.ID] = n.Source.SupplyCap
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("supply[%s]", n.ID),
			Terms: flowTerms(idx, idx.Outgoing[NodeCommodity{n.ID, n.Source.Commodity}], 1),
			Sense: SenseLessEq,
			RHS:   n.Source.SupplyCap,
		})
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != network.KindSink || n.Sink == nil {
			continue
		}
		idx.SinkDemandCaps[n.ID] = n.Sink.DemandCap
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("demand[%s]", n.ID),
			Terms: flowTerms(idx, idx.Incoming[NodeCommodity{n.ID, n.Sink.Commodity}], 1),
			Sense: SenseLessEq,
			RHS:   n.Sink.DemandCap,
		})
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != network.KindProcess || n.Process == nil || n.Process.RunCap == nil {
			continue
		}
		idx.ProcessRunCaps[n.ID] = *n.Process.RunCap
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("run_cap[%s]", n.ID),
			Terms: []Term{{Var: idx.RunVars[n.ID], Coef: 1}},
			Sense: SenseLessEq,
			RHS:   *n.Process.RunCap,
		})
	}
}

// addBoundaryRows is the topology safety net: inflow into a source and
// outflow from a sink are forced to zero. On a validated request such
// edges cannot exist, so no rows are emitted and the model size is
// unchanged; the rows appear only when the validator was bypassed.
func addBoundaryRows(req *network.Request, m *Model, idx *Index, commodities []string) {
	for i := range req.Nodes {
		n := &req.Nodes[i]
		switch n.Kind {
		case network.KindSource:
			for _, c := range commodities {
				in := idx.Incoming[NodeCommodity{n.ID, c}]
				if len(in) == 0 {
					continue
				}
				m.Constraints = append(m.Constraints, Constraint{
					Name:  fmt.Sprintf("no_in_to_source[%s,%s]", n.ID, c),
					Terms: flowTerms(idx, in, 1),
					Sense: SenseEq,
					RHS:   0,
				})
			}
		case network.KindSink:
			for _, c := range commodities {
				out := idx.Outgoing[NodeCommodity{n.ID, c}]
				if len(out) == 0 {
					continue
				}
				m.Constraints = append(m.Constraints, Constraint{
					Name:  fmt.Sprintf("no_out_from_sink[%s,%s]", n.ID, c),
					Terms: flowTerms(idx, out, 1),
					Sense: SenseEq,
					RHS:   0,
				})
			}
		}
	}
}

// addConservationRows links flow to run count at every process node:
// outflow(c) - inflow(c) = run * (produced(c) - consumed(c)) for every
// commodity c in the network. Sources and sinks are boundary nodes; their
// balance is the supply/demand rows.
func addConservationRows(req *network.Request, m *Model, idx *Index, commodities []string) {
	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != network.KindProcess || n.Process == nil {
			continue
		}

		for _, c := range commodities {
			out := idx.Outgoing[NodeCommodity{n.ID, c}]
			in := idx.Incoming[NodeCommodity{n.ID, c}]

			var produced, consumed float64
			for _, io := range n.Process.Outputs {
				if io.Commodity == c {
					produced += io.Qty
				}
			}
			for _, io := range n.Process.Inputs {
				if io.Commodity == c {
					consumed += io.Qty
				}
			}

			delta := produced - consumed
			if len(out) == 0 && len(in) == 0 && delta == 0 {
				continue // trivially 0 = 0
			}

			terms := flowTerms(idx, out, 1)
			terms = append(terms, flowTerms(idx, in, -1)...)
			terms = append(terms, Term{Var: idx.RunVars[n.ID], Coef: -delta})

			m.Constraints = append(m.Constraints, Constraint{
				Name:  fmt.Sprintf("cons[%s,%s]", n.ID, c),
				Terms: terms,
				Sense: SenseEq,
				RHS:   0,
			})
		}
	}
}

func addObjective(req *network.Request, m *Model, idx *Index) error {
	switch req.ObjectiveKindOrDefault() {
	case network.MaxProfit:
		// Revenue at sinks.
		for i := range req.Nodes {
			n := &req.Nodes[i]
			if n.Kind == network.KindSink && n.Sink != nil {
				in := idx.Incoming[NodeCommodity{n.ID, n.Sink.Commodity}]
				m.Objective = append(m.Objective, flowTerms(idx, in, n.Sink.UnitValue)...)
			}
		}
		// Extraction cost at sources.
		for i := range req.Nodes {
			n := &req.Nodes[i]
			if n.Kind == network.KindSource && n.Source != nil {
				out := idx.Outgoing[NodeCommodity{n.ID, n.Source.Commodity}]
				m.Objective = append(m.Objective, flowTerms(idx, out, -n.Source.UnitCost)...)
			}
		}
		// Transport cost per edge.
		for i := range req.Edges {
			e := &req.Edges[i]
			if e.UnitCost != 0 {
				m.Objective = append(m.Objective, Term{Var: idx.EdgeVars[e.ID], Coef: -e.UnitCost})
			}
		}
		// Run cost per process.
		for i := range req.Nodes {
			n := &req.Nodes[i]
			if n.Kind == network.KindProcess && n.Process != nil && n.Process.RunCost != 0 {
				m.Objective = append(m.Objective, Term{Var: idx.RunVars[n.ID], Coef: -n.Process.RunCost})
			}
		}
		return nil

	case network.MaxFlowToSink:
		sinkID := req.Objective.SinkNodeID
		var commodity string
		for i := range req.Nodes {
			n := &req.Nodes[i]
			if n.ID == sinkID && n.Kind == network.KindSink && n.Sink != nil {
				commodity = n.Sink.Commodity
			}
		}
		in := idx.Incoming[NodeCommodity{sinkID, commodity}]
		m.Objective = append(m.Objective, flowTerms(idx, in, 1)...)
		return nil

	default:
		// Unreachable after defensiveCheck; mirrors it anyway.
		return &network.DomainError{Reason: fmt.Sprintf("objective '%s' is not implemented", req.ObjectiveKindOrDefault())}
	}
}

// flowTerms maps edge ids to terms with the given coefficient, skipping
// zero coefficients.
func flowTerms(idx *Index, edgeIDs []string, coef float64) []Term {
	if coef == 0 || len(edgeIDs) == 0 {
		return nil
	}
	terms := make([]Term, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		terms = append(terms, Term{Var: idx.EdgeVars[id], Coef: coef})
	}
	return terms
}
