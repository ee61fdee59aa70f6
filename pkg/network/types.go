package network

// NodeKind discriminates the three node roles in a flow network.
type NodeKind string

const (
	KindSource  NodeKind = "source"
	KindProcess NodeKind = "process"
	KindSink    NodeKind = "sink"
)

// SourceSpec describes a node that injects a single commodity into the
// network, up to SupplyCap units, at UnitCost per unit shipped out.
type SourceSpec struct {
	Commodity string  `json:"commodity" validate:"required,min=1"`
	SupplyCap float64 `json:"supply_cap" validate:"gte=0"`
	UnitCost  float64 `json:"unit_cost"`
}

// SinkSpec describes a node that consumes a single commodity, up to
// DemandCap units, earning UnitValue per unit delivered.
type SinkSpec struct {
	Commodity string  `json:"commodity" validate:"required,min=1"`
	DemandCap float64 `json:"demand_cap" validate:"gte=0"`
	UnitValue float64 `json:"unit_value"`
}

// ProcessIO is one line of a process recipe: Qty units of Commodity per
// unit run.
type ProcessIO struct {
	Commodity string  `json:"commodity" validate:"required,min=1"`
	Qty       float64 `json:"qty" validate:"gt=0"`
}

// ProcessSpec describes a transformation node. Each unit of run consumes
// the Inputs quantities and produces the Outputs quantities. A nil RunCap
// means the run count is unbounded.
type ProcessSpec struct {
	Inputs  []ProcessIO `json:"inputs" validate:"dive"`
	Outputs []ProcessIO `json:"outputs" validate:"dive"`
	RunCap  *float64    `json:"run_cap,omitempty" validate:"omitempty,gte=0"`
	RunCost float64     `json:"run_cost"`
}

// Node is a tagged union: Kind selects exactly one of the three payload
// pointers. Construct through NewSource/NewProcess/NewSink to keep the
// invariant; CheckSchema enforces it for decoded input.
type Node struct {
	ID   string   `json:"id" validate:"required,min=1"`
	Kind NodeKind `json:"kind" validate:"required,oneof=source process sink"`
	Name string   `json:"name,omitempty"`

	Source  *SourceSpec  `json:"source,omitempty"`
	Sink    *SinkSpec    `json:"sink,omitempty"`
	Process *ProcessSpec `json:"process,omitempty"`
}

// NewSource builds a well-formed source node.
func NewSource(id string, spec SourceSpec) Node {
	return Node{ID: id, Kind: KindSource, Source: &spec}
}

// NewSink builds a well-formed sink node.
func NewSink(id string, spec SinkSpec) Node {
	return Node{ID: id, Kind: KindSink, Sink: &spec}
}

// NewProcess builds a well-formed process node.
func NewProcess(id string, spec ProcessSpec) Node {
	return Node{ID: id, Kind: KindProcess, Process: &spec}
}

// Producible returns the set of commodities this node can emit on an
// outgoing edge: a source emits its commodity, a process emits its recipe
// outputs, a sink emits nothing.
func (n *Node) Producible() map[string]bool {
	out := make(map[string]bool)
	switch n.Kind {
	case KindSource:
		if n.Source != nil {
			out[n.Source.Commodity] = true
		}
	case KindProcess:
		if n.Process != nil {
			for _, io := range n.Process.Outputs {
				out[io.Commodity] = true
			}
		}
	}
	return out
}

// Acceptable returns the set of commodities this node can receive on an
// incoming edge: a sink accepts its commodity, a process accepts its recipe
// inputs, a source accepts nothing.
func (n *Node) Acceptable() map[string]bool {
	in := make(map[string]bool)
	switch n.Kind {
	case KindSink:
		if n.Sink != nil {
			in[n.Sink.Commodity] = true
		}
	case KindProcess:
		if n.Process != nil {
			for _, io := range n.Process.Inputs {
				in[io.Commodity] = true
			}
		}
	}
	return in
}

// Edge carries Commodity from node U to node V. A nil Cap means the edge
// is uncapacitated.
type Edge struct {
	ID        string   `json:"id" validate:"required,min=1"`
	U         string   `json:"u" validate:"required,min=1"`
	V         string   `json:"v" validate:"required,min=1"`
	Commodity string   `json:"commodity" validate:"required,min=1"`
	Cap       *float64 `json:"cap,omitempty" validate:"omitempty,gte=0"`
	UnitCost  float64  `json:"unit_cost"`
}

// ObjectiveKind is a closed set. Only MaxProfit and MaxFlowToSink are
// implemented; the reserved kinds decode but are rejected with a
// not-implemented domain error rather than silently ignored.
type ObjectiveKind string

const (
	MaxProfit     ObjectiveKind = "max_profit"
	MaxFlowToSink ObjectiveKind = "max_flow_to_sink"

	// Reserved, unimplemented kinds.
	MaxSinkConsumption  ObjectiveKind = "max_sink_consumption"
	MaxProduction       ObjectiveKind = "max_production"
	MaxProcessRuns      ObjectiveKind = "max_process_runs"
	MinCost             ObjectiveKind = "min_cost"
	MinTotalProcessRuns ObjectiveKind = "min_total_process_runs"
)

// Implemented reports whether the compiler can build this objective.
func (k ObjectiveKind) Implemented() bool {
	return k == MaxProfit || k == MaxFlowToSink
}

// Reserved reports whether the kind is a known-but-unimplemented arm.
func (k ObjectiveKind) Reserved() bool {
	switch k {
	case MaxSinkConsumption, MaxProduction, MaxProcessRuns, MinCost, MinTotalProcessRuns:
		return true
	}
	return false
}

// Objective selects what the solve maximizes. SinkNodeID is required for
// MaxFlowToSink and ignored otherwise.
type Objective struct {
	Kind       ObjectiveKind `json:"kind" validate:"omitempty,oneof=max_profit max_flow_to_sink max_sink_consumption max_production max_process_runs min_cost min_total_process_runs"`
	SinkNodeID string        `json:"sink_node_id,omitempty"`
}

// Request is a complete solve input. It is immutable once validated; every
// solve is a pure function of its request.
type Request struct {
	Nodes     []Node    `json:"nodes" validate:"required,min=1,dive"`
	Edges     []Edge    `json:"edges" validate:"dive"`
	Objective Objective `json:"objective"`
}

// ObjectiveKindOrDefault returns MaxProfit when the request leaves the
// objective kind empty.
func (r *Request) ObjectiveKindOrDefault() ObjectiveKind {
	if r.Objective.Kind == "" {
		return MaxProfit
	}
	return r.Objective.Kind
}

// NodesByID indexes the request's nodes. Later duplicates win, so callers
// that care about duplicates must check id uniqueness first.
func (r *Request) NodesByID() map[string]*Node {
	m := make(map[string]*Node, len(r.Nodes))
	for i := range r.Nodes {
		m[r.Nodes[i].ID] = &r.Nodes[i]
	}
	return m
}
