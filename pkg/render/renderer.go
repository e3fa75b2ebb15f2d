package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Renderer converts a schema into a byte representation (HTML, JSON output
// from an interactive walkthrough, etc.). Renderers receive the resolved
// state through RenderOptions and must not mutate the schema.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, sch schema.Schema, options RenderOptions) ([]byte, error)
}
