package network

import (
	"sort"
	"strings"
)

// Validate performs semantic validation of a schema-clean request. Checks
// run in a fixed order and short-circuit at the first failing group:
//
//  1. node/edge id uniqueness
//  2. payload-shape consistency per node
//  3. process recipe sanity (non-empty, no duplicate commodities per side)
//  4. per-edge endpoint, direction and commodity compatibility
//  5. objective-level checks
//  6. reachability of every positive-demand sink from some producer
//
// The first violation is returned as a *DomainError naming the offending
// entity; no multi-error aggregation.
func Validate(req *Request) error {
	if err := validateUniqueIDs(req); err != nil {
		return err
	}

	nodesByID := req.NodesByID()

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if err := validateNodeShape(n); err != nil {
			return err
		}
		if n.Kind == KindProcess {
			if err := validateProcessNode(n); err != nil {
				return err
			}
		}
	}

	for i := range req.Edges {
		if err := validateEdge(&req.Edges[i], nodesByID); err != nil {
			return err
		}
	}

	if err := validateObjective(req, nodesByID); err != nil {
		return err
	}

	return validateSinkReachability(req)
}

func validateUniqueIDs(req *Request) error {
	seen := make(map[string]bool, len(req.Nodes))
	for i := range req.Nodes {
		id := req.Nodes[i].ID
		if seen[id] {
			return domainErrorf("duplicate node id '%s'", id)
		}
		seen[id] = true
	}

	seen = make(map[string]bool, len(req.Edges))
	for i := range req.Edges {
		id := req.Edges[i].ID
		if seen[id] {
			return domainErrorf("duplicate edge id '%s'", id)
		}
		seen[id] = true
	}

	return nil
}

// validateNodeShape repeats the payload/kind consistency check at the
// semantic layer so Validate stands alone even when CheckSchema was skipped.
func validateNodeShape(n *Node) error {
	switch n.Kind {
	case KindSource:
		if n.Source == nil {
			return domainErrorf("source node '%s' must include the 'source' payload", n.ID)
		}
		if n.Sink != nil || n.Process != nil {
			return domainErrorf("source node '%s' forbids 'sink'/'process' payloads", n.ID)
		}
	case KindSink:
		if n.Sink == nil {
			return domainErrorf("sink node '%s' must include the 'sink' payload", n.ID)
		}
		if n.Source != nil || n.Process != nil {
			return domainErrorf("sink node '%s' forbids 'source'/'process' payloads", n.ID)
		}
	case KindProcess:
		if n.Process == nil {
			return domainErrorf("process node '%s' must include the 'process' payload", n.ID)
		}
		if n.Source != nil || n.Sink != nil {
			return domainErrorf("process node '%s' forbids 'source'/'sink' payloads", n.ID)
		}
	default:
		return domainErrorf("node '%s' has unknown kind '%s'", n.ID, n.Kind)
	}
	return nil
}

func validateProcessNode(n *Node) error {
	if len(n.Process.Inputs) == 0 {
		return domainErrorf("process node '%s' must have at least one input", n.ID)
	}
	if len(n.Process.Outputs) == 0 {
		return domainErrorf("process node '%s' must have at least one output", n.ID)
	}

	if err := validateUniqueIOCommodities(n.ID, "inputs", n.Process.Inputs); err != nil {
		return err
	}
	return validateUniqueIOCommodities(n.ID, "outputs", n.Process.Outputs)
}

func validateUniqueIOCommodities(nodeID, side string, ios []ProcessIO) error {
	counts := make(map[string]int, len(ios))
	for _, io := range ios {
		counts[io.Commodity]++
	}
	if len(counts) == len(ios) {
		return nil
	}

	dups := make([]string, 0)
	for c, k := range counts {
		if k > 1 {
			dups = append(dups, c)
		}
	}
	sort.Strings(dups)

	return domainErrorf(
		"process node '%s' has duplicate commodities in process.%s: [%s]; use a single entry per commodity",
		nodeID, side, strings.Join(dups, ", "))
}

func validateEdge(e *Edge, nodesByID map[string]*Node) error {
	u, ok := nodesByID[e.U]
	if !ok {
		return domainErrorf("edge '%s' references missing node u='%s'", e.ID, e.U)
	}
	v, ok := nodesByID[e.V]
	if !ok {
		return domainErrorf("edge '%s' references missing node v='%s'", e.ID, e.V)
	}
	if e.U == e.V {
		return domainErrorf("edge '%s' is a self-loop on '%s'; not supported", e.ID, e.U)
	}

	if u.Kind == KindSink {
		return domainErrorf("edge '%s' cannot originate from sink node '%s'", e.ID, u.ID)
	}
	if v.Kind == KindSource {
		return domainErrorf("edge '%s' cannot point into source node '%s'", e.ID, v.ID)
	}

	if produced := u.Producible(); !produced[e.Commodity] {
		return domainErrorf(
			"edge '%s' carries '%s', but node '%s' (kind=%s) does not produce it; produces: %s",
			e.ID, e.Commodity, u.ID, u.Kind, formatCommoditySet(produced))
	}
	if accepted := v.Acceptable(); !accepted[e.Commodity] {
		return domainErrorf(
			"edge '%s' carries '%s', but node '%s' (kind=%s) does not accept it; accepts: %s",
			e.ID, e.Commodity, v.ID, v.Kind, formatCommoditySet(accepted))
	}

	return nil
}

func formatCommoditySet(set map[string]bool) string {
	if len(set) == 0 {
		return "none"
	}
	list := make([]string, 0, len(set))
	for c := range set {
		list = append(list, c)
	}
	sort.Strings(list)
	return "[" + strings.Join(list, ", ") + "]"
}

func validateObjective(req *Request, nodesByID map[string]*Node) error {
	kind := req.ObjectiveKindOrDefault()

	switch {
	case kind == MaxProfit:
		return nil
	case kind == MaxFlowToSink:
		sinkID := req.Objective.SinkNodeID
		if sinkID == "" {
			return domainErrorf("objective 'max_flow_to_sink' requires objective.sink_node_id")
		}
		n, ok := nodesByID[sinkID]
		if !ok {
			return domainErrorf("objective 'max_flow_to_sink' references missing node '%s'", sinkID)
		}
		if n.Kind != KindSink {
			return domainErrorf("objective 'max_flow_to_sink' requires a sink node, but '%s' has kind '%s'", sinkID, n.Kind)
		}
		return nil
	case kind.Reserved():
		return domainErrorf("objective '%s' is not implemented", kind)
	default:
		return domainErrorf("unknown objective kind '%s'", kind)
	}
}

// validateSinkReachability checks that every sink with positive demand can
// be reached, over edges carrying its exact commodity, from some producer
// of that commodity. Zero-demand sinks are inert and skipped.
func validateSinkReachability(req *Request) error {
	// Reverse adjacency restricted per commodity: radj[commodity][v] -> [u...]
	radj := make(map[string]map[string][]string)
	for i := range req.Edges {
		e := &req.Edges[i]
		byNode := radj[e.Commodity]
		if byNode == nil {
			byNode = make(map[string][]string)
			radj[e.Commodity] = byNode
		}
		byNode[e.V] = append(byNode[e.V], e.U)
	}

	producers := make(map[string]map[string]bool)
	addProducer := func(commodity, nodeID string) {
		set := producers[commodity]
		if set == nil {
			set = make(map[string]bool)
			producers[commodity] = set
		}
		set[nodeID] = true
	}
	for i := range req.Nodes {
		n := &req.Nodes[i]
		switch n.Kind {
		case KindSource:
			if n.Source != nil {
				addProducer(n.Source.Commodity, n.ID)
			}
		case KindProcess:
			if n.Process != nil {
				for _, out := range n.Process.Outputs {
					addProducer(out.Commodity, n.ID)
				}
			}
		}
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		if n.Kind != KindSink || n.Sink == nil {
			continue
		}
		if n.Sink.DemandCap <= 0 {
			continue
		}

		commodity := n.Sink.Commodity
		prods := producers[commodity]
		if len(prods) == 0 {
			return domainErrorf("sink '%s' demands '%s', but no node produces '%s'", n.ID, commodity, commodity)
		}

		if !reverseReachesProducer(radj[commodity], prods, n.ID) {
			return domainErrorf(
				"sink '%s' demands '%s', but no producer of '%s' can reach it via edges carrying '%s'",
				n.ID, commodity, commodity, commodity)
		}
	}

	return nil
}

// reverseReachesProducer is a breadth-first walk over the reverse adjacency
// of one commodity, starting at the sink.
func reverseReachesProducer(radj map[string][]string, producers map[string]bool, sinkID string) bool {
	queue := []string{sinkID}
	seen := map[string]bool{sinkID: true}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		if producers[v] {
			return true
		}
		for _, u := range radj[v] {
			if !seen[u] {
				seen[u] = true
				queue = append(queue, u)
			}
		}
	}

	return false
}
