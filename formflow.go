// Package formflow evaluates schema-driven forms: conditional visibility,
// declarative validation, lookup-backed auto-fill, and nested submission
// output. The root package is a thin facade over the pkg/ packages so common
// flows need a single import.
package formflow

import (
	"fmt"

	internalloader "github.com/goliatone/go-formflow/internal/schema/loader"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/renderers/vanilla"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Re-exported core types so callers composing simple flows do not need the
// individual packages.
type (
	Schema  = schema.Schema
	Field   = schema.Field
	Session = session.Session
	Result  = session.Result
)

// Parse decodes a JSON or YAML schema document.
func Parse(raw []byte) (Schema, error) {
	return schema.Decode(raw)
}

// NewLoader constructs a document loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options schema.LoaderOptions) schema.Loader {
	return internalloader.New(options)
}

// NewSession starts a form session over the schema. Options wire the lookup
// service, timings, and listeners.
func NewSession(sch Schema, opts ...session.Option) *Session {
	return session.New(sch, opts...)
}

// DefaultRegistry returns a registry with the built-in renderers registered.
func DefaultRegistry(tuiOpts ...tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	htmlRenderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("formflow: build vanilla renderer: %w", err)
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}

	tuiRenderer, err := tui.New(tuiOpts...)
	if err != nil {
		return nil, fmt.Errorf("formflow: build tui renderer: %w", err)
	}
	if err := registry.Register(tuiRenderer); err != nil {
		return nil, err
	}

	return registry, nil
}
