// Package oracle defines the boundary to the external text-generation
// service. Call sites declare their input and output fields explicitly so
// the contract stays typed at the orchestration boundary.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks transport or availability failures. Callers check it
// with errors.Is to distinguish a dead oracle from content they merely
// cannot parse.
var ErrUnavailable = errors.New("oracle unavailable")

// Request is one call to the oracle: a natural-language instruction, named
// string inputs, and the names of the output fields the caller expects back.
type Request struct {
	// Instruction tells the model what to do with the inputs.
	Instruction string
	// Inputs are named document fragments interpolated into the prompt.
	Inputs map[string]string
	// Outputs declares the response fields. Implementations guarantee a
	// value for every declared name, empty when the model omitted it.
	Outputs []string
}

// Validate rejects requests that cannot produce a usable response.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Instruction) == "" {
		return errors.New("instruction is required")
	}
	if len(r.Outputs) == 0 {
		return errors.New("at least one output field is required")
	}
	for name, value := range r.Inputs {
		if strings.TrimSpace(name) == "" {
			return errors.New("input names must not be empty")
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("input %q must not be empty", name)
		}
	}
	return nil
}

// Oracle answers requests with a value for every declared output field.
// Content quality is untrusted; shape is guaranteed.
type Oracle interface {
	Call(ctx context.Context, req Request) (map[string]string, error)
}
