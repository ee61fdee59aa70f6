package network

// SolveStatus is the domain-level outcome of a solve. Non-optimal statuses
// are data, not errors: "no feasible plan exists" is a valid answer.
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"
	StatusInfeasible SolveStatus = "infeasible"
	StatusUnbounded  SolveStatus = "unbounded"
	StatusError      SolveStatus = "error"
)

// TightConstraint is a capacity constraint whose slack is within tolerance
// of zero at the reported solution. Name is "<category>:<id>" with category
// one of edge_cap, source_supply, sink_demand, process_run_cap.
type TightConstraint struct {
	Name  string  `json:"name"`
	Slack float64 `json:"slack"`
}

// Result is the domain output of one solve. It is constructed once and
// never mutated after return. For any status other than optimal the maps
// and tight-constraint list are empty: no partial data on failure.
type Result struct {
	Status         SolveStatus `json:"status"`
	ObjectiveValue *float64    `json:"objective_value,omitempty"`

	EdgeFlows     map[string]float64 `json:"edge_flows"`
	ProcessRuns   map[string]float64 `json:"process_runs"`
	SinkDelivered map[string]float64 `json:"sink_delivered"`

	TightConstraints []TightConstraint `json:"tight_constraints"`
	Message          string            `json:"message,omitempty"`
}

// EmptyResult returns an all-or-nothing failure result with initialized
// (empty, non-nil) maps so API responses keep a consistent shape.
func EmptyResult(status SolveStatus, message string) *Result {
	return &Result{
		Status:           status,
		Message:          message,
		EdgeFlows:        map[string]float64{},
		ProcessRuns:      map[string]float64{},
		SinkDelivered:    map[string]float64{},
		TightConstraints: []TightConstraint{},
	}
}
