// Package distribute runs solves in separate worker processes over a
// mangos req/rep socket pair, so each process owns its solver instances
// outright. Frames are JSON, snappy-compressed.
package distribute

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"github.com/jmarsden/flowplan/pkg/network"
)

// Error categories carried across the wire so the client can rebuild the
// typed error the worker-side planner produced.
const (
	errCategorySchema   = "schema"
	errCategoryDomain   = "domain"
	errCategoryInternal = "internal"
)

type requestFrame struct {
	Request *network.Request `json:"request"`
}

type responseFrame struct {
	Result        *network.Result `json:"result,omitempty"`
	ErrorCategory string          `json:"error_category,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

func encodeFrame(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("distribute: encoding frame: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

func decodeFrame(data []byte, v any) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("distribute: decompressing frame: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("distribute: decoding frame: %w", err)
	}
	return nil
}
