package network

import "fmt"

// SchemaError reports malformed or out-of-range input shape: wrong payload
// for a node kind, negative capacity, empty required id. It is detected
// before semantic validation runs and never reaches the LP layer.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return e.Reason
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// DomainError reports a structurally well-typed but semantically invalid
// graph: duplicate ids, dangling edge references, wrong-direction edges,
// commodity mismatches, unreachable positive-demand sinks, unimplemented
// objective kinds. The message always identifies the offending entity ids.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return e.Reason
}

func domainErrorf(format string, args ...any) *DomainError {
	return &DomainError{Reason: fmt.Sprintf(format, args...)}
}
