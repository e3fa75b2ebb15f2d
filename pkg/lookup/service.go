// Package lookup defines the asynchronous auto-fill service contract and the
// fixture implementation the engine is compatibility-tested against.
package lookup

import "context"

// Service resolves a flat key/value trigger input into a flat result object,
// or fails with an error carrying a human-readable message. Implementations
// are expected to be safe for concurrent use; the orchestrator issues
// overlapping calls when trigger tuples change while a request is in flight.
type Service interface {
	Lookup(ctx context.Context, input map[string]string) (map[string]string, error)
}

// Func adapts a plain function into a Service.
type Func func(ctx context.Context, input map[string]string) (map[string]string, error)

// Lookup delegates to the underlying function.
func (fn Func) Lookup(ctx context.Context, input map[string]string) (map[string]string, error) {
	return fn(ctx, input)
}
