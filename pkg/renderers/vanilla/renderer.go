// Package vanilla renders a schema's currently visible fields as plain,
// dependency-free HTML. It is a one-shot view of the form state; live
// behavior (visibility changes, auto-fill, submission) stays server-side in
// pkg/session.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	gotemplate "github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer implements render.Renderer for static HTML output.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType reports the output media type.
func (r *Renderer) ContentType() string { return "text/html" }

// Render produces the HTML for every currently visible field, honoring the
// same visibility semantics the evaluation engine applies: a hidden group
// suppresses its whole subtree, a hidden leaf is skipped, and per-field
// errors plus the auto-fill banner are surfaced from the options.
func (r *Renderer) Render(ctx context.Context, sch schema.Schema, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("vanilla: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	known := sch.LeafNames()
	fieldsHTML, err := r.renderFields(sch.Fields, options, known)
	if err != nil {
		return nil, err
	}

	// Field failures gate submission, so their presence always yields the
	// form-level banner, merged and deduplicated with any caller-supplied
	// messages.
	formErrors := render.MergeFormErrors(options.FormErrors, render.Summary(options.Errors)...)

	output, err := r.templates.RenderTemplate("templates/form", map[string]any{
		"fields":         fieldsHTML,
		"form_errors":    formErrors,
		"autofill_error": sanitizeText(options.AutoFillError),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla: render form: %w", err)
	}
	return []byte(output), nil
}

func (r *Renderer) renderFields(fields []schema.Field, options render.RenderOptions, known map[string]struct{}) (string, error) {
	var out strings.Builder
	for _, field := range fields {
		if !visibility.EvalCondition(field.VisibleIf, options.Values, known) {
			continue
		}

		if field.Type.IsGroup() {
			children, err := r.renderFields(field.Fields, options, known)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(children) == "" {
				continue
			}
			html, err := r.templates.RenderTemplate("templates/group", map[string]any{
				"label":    sanitizeText(field.Label),
				"children": children,
			})
			if err != nil {
				return "", fmt.Errorf("vanilla: render group %q: %w", field.Label, err)
			}
			out.WriteString(html)
			continue
		}

		html, err := r.renderLeaf(field, options)
		if err != nil {
			return "", err
		}
		out.WriteString(html)
	}
	return out.String(), nil
}

func (r *Renderer) renderLeaf(field schema.Field, options render.RenderOptions) (string, error) {
	value := schema.ValueString(options.Values[field.Name])
	data := map[string]any{
		"type":  string(field.Type),
		"name":  field.Name,
		"label": sanitizeText(field.Label),
		"value": value,
		"error": options.Errors[field.Name],
	}

	var tmpl string
	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeTextArea:
		tmpl = "templates/field_input"
		data["multiline"] = field.Type == schema.FieldTypeTextArea
	case schema.FieldTypeDropdown:
		tmpl = "templates/field_dropdown"
		data["options"] = optionViews(field.Options, value)
	case schema.FieldTypeRadio:
		tmpl = "templates/field_radio"
		data["options"] = optionViews(field.Options, value)
	case schema.FieldTypeCheckbox:
		tmpl = "templates/field_checkbox"
		data["checked"] = schema.Truthy(options.Values[field.Name])
	default:
		return "", fmt.Errorf("vanilla: unsupported field type %q", field.Type)
	}

	html, err := r.templates.RenderTemplate(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("vanilla: render field %q: %w", field.Name, err)
	}
	return html, nil
}

func optionViews(options []schema.Option, selected string) []map[string]any {
	views := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		views = append(views, map[string]any{
			"label":    opt.Label,
			"value":    opt.Value,
			"selected": selected != "" && opt.Label == selected,
		})
	}
	return views
}
