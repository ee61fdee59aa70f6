package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// CheckSchema rejects malformed input shape before semantic validation:
// empty required ids, out-of-range scalars (negative caps, non-positive
// recipe quantities), unknown node kinds, and payloads that do not match
// the node kind. Semantically invalid but well-shaped graphs pass here and
// fail in Validate instead.
func CheckSchema(req *Request) error {
	if req == nil {
		return &SchemaError{Reason: "request cannot be nil"}
	}

	if err := validate.Struct(req); err != nil {
		return formatSchemaError(err)
	}

	for i := range req.Nodes {
		if err := checkNodePayload(&req.Nodes[i]); err != nil {
			return err
		}
	}

	return nil
}

// checkNodePayload enforces the tagged-union invariant: exactly one payload,
// and it must match the node kind.
func checkNodePayload(n *Node) error {
	var want string
	var have, forbidden []string

	if n.Source != nil {
		have = append(have, "source")
	}
	if n.Sink != nil {
		have = append(have, "sink")
	}
	if n.Process != nil {
		have = append(have, "process")
	}

	switch n.Kind {
	case KindSource:
		want = "source"
	case KindSink:
		want = "sink"
	case KindProcess:
		want = "process"
	default:
		return schemaErrorf("node '%s' has unknown kind '%s'", n.ID, n.Kind)
	}

	found := false
	for _, h := range have {
		if h == want {
			found = true
		} else {
			forbidden = append(forbidden, h)
		}
	}

	if !found {
		return schemaErrorf("node '%s' of kind '%s' must include the '%s' payload", n.ID, n.Kind, want)
	}
	if len(forbidden) > 0 {
		return schemaErrorf("node '%s' of kind '%s' forbids payload(s): %s", n.ID, n.Kind, strings.Join(forbidden, ", "))
	}

	return nil
}

// formatSchemaError converts validator errors into a user-facing message.
func formatSchemaError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "min":
			return schemaErrorf("%s: required field is missing or empty", fe.Namespace())
		case "gte":
			return schemaErrorf("%s: value %v must be >= %s", fe.Namespace(), fe.Value(), fe.Param())
		case "gt":
			return schemaErrorf("%s: value %v must be > %s", fe.Namespace(), fe.Value(), fe.Param())
		case "oneof":
			return schemaErrorf("%s: value '%v' is not one of [%s]", fe.Namespace(), fe.Value(), fe.Param())
		default:
			return schemaErrorf("%s: failed '%s' validation", fe.Namespace(), fe.Tag())
		}
	}
	return &SchemaError{Reason: fmt.Sprintf("invalid request: %v", err)}
}
