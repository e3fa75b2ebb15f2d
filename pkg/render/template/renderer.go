package template

import "io"

// TemplateRenderer is the seam HTML renderers rely on so the concrete
// template engine stays swappable.
type TemplateRenderer interface {
	// Render resolves name as a template path, or treats it as inline
	// template content when it contains template markup.
	Render(name string, data any, out ...io.Writer) (string, error)
	// RenderTemplate resolves name against the configured template set.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// RenderString parses and executes inline template content.
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
