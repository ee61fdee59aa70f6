// Package lp compiles a validated flow network into a solver-agnostic
// linear program and carries the index structures the solution extractor
// needs to map raw variable values back onto the graph.
package lp

import "fmt"

// VarID indexes into Model.Variables.
type VarID int

// Sense is the comparison direction of a constraint row.
type Sense int

const (
	SenseLessEq Sense = iota
	SenseEq
)

func (s Sense) String() string {
	switch s {
	case SenseLessEq:
		return "<="
	case SenseEq:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Term is one linear coefficient. A term list may mention the same
// variable more than once; consumers accumulate coefficients additively.
type Term struct {
	Var  VarID
	Coef float64
}

// Constraint is one linear row: sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Variable is a non-negative continuous decision variable. There are no
// integer variables in this model.
type Variable struct {
	Name string
}

// Model is a complete linear program with a maximization objective,
// expressed purely as data so any solve capability can consume it.
type Model struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   []Term
}

// NodeCommodity keys per-node, per-commodity adjacency.
type NodeCommodity struct {
	Node      string
	Commodity string
}

// Index carries the auxiliary structures emitted alongside the model:
// variable positions, finite caps per construct, and (node, commodity)
// adjacency. The extractor recomputes aggregate flows from these instead
// of re-deriving the graph.
type Index struct {
	EdgeVars map[string]VarID // edge id -> flow variable
	RunVars  map[string]VarID // process node id -> run variable

	EdgeCaps         map[string]float64 // finite edge caps only
	SourceSupplyCaps map[string]float64
	SinkDemandCaps   map[string]float64
	ProcessRunCaps   map[string]float64 // finite run caps only

	Outgoing map[NodeCommodity][]string // edge ids leaving node with commodity
	Incoming map[NodeCommodity][]string // edge ids entering node with commodity
}

func newIndex() *Index {
	return &Index{
		EdgeVars:         make(map[string]VarID),
		RunVars:          make(map[string]VarID),
		EdgeCaps:         make(map[string]float64),
		SourceSupplyCaps: make(map[string]float64),
		SinkDemandCaps:   make(map[string]float64),
		ProcessRunCaps:   make(map[string]float64),
		Outgoing:         make(map[NodeCommodity][]string),
		Incoming:         make(map[NodeCommodity][]string),
	}
}
