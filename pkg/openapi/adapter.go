package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Option configures the converter.
type Option func(*Converter)

// WithExternalRefs allows the loader to follow references outside the
// document. Off by default.
func WithExternalRefs(allowed bool) Option {
	return func(c *Converter) {
		c.externalRefs = allowed
	}
}

// Converter derives form schemas from OpenAPI 3 request bodies. It lets an
// existing API document serve as the form definition instead of a dedicated
// schema file.
type Converter struct {
	externalRefs bool
}

// New constructs a Converter.
func New(options ...Option) *Converter {
	c := &Converter{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Convert loads an OpenAPI document and builds a form schema from the request
// body of the operation identified by operationID. The request body must
// declare an object schema under a JSON or form media type.
func (c *Converter) Convert(ctx context.Context, raw []byte, operationID string) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	if len(raw) == 0 {
		return schema.Schema{}, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return schema.Schema{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: c.externalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q has no object request body", operationID)
	}

	fields := convertProperties(body)
	if len(fields) == 0 {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q request body has no usable properties", operationID)
	}

	out := schema.Schema{Fields: fields}
	if err := out.Validate(); err != nil {
		return schema.Schema{}, err
	}
	return out, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		mt, ok := content[mediaType]
		if !ok || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		if schemaType(mt.Schema.Value) == "object" {
			return mt.Schema.Value
		}
	}
	return nil
}

// convertProperties maps an object schema's properties to form fields.
// OpenAPI property maps are unordered, so output is sorted by property name
// with the required properties first.
func convertProperties(src *openapi3.Schema) []schema.Field {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		_, ri := required[names[i]]
		_, rj := required[names[j]]
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, must := required[name]
		if field, ok := convertProperty(name, ref.Value, must); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

func convertProperty(name string, src *openapi3.Schema, required bool) (schema.Field, bool) {
	label := src.Title
	if label == "" {
		label = titleFromName(name)
	}

	switch schemaType(src) {
	case "object":
		children := convertProperties(src)
		if len(children) == 0 {
			return schema.Field{}, false
		}
		return schema.Field{
			Type:   schema.FieldTypeGroup,
			Label:  label,
			Fields: children,
		}, true

	case "boolean":
		return schema.Field{
			Type:       schema.FieldTypeCheckbox,
			Name:       name,
			Label:      label,
			Validation: requiredOnly(required),
		}, true

	case "integer", "number":
		field := schema.Field{
			Type:  schema.FieldTypeText,
			Name:  name,
			Label: label,
		}
		spec := stringValidation(src, required)
		if spec == nil {
			spec = &schema.ValidationSpec{}
		}
		spec.CustomValidation = "number"
		field.Validation = spec
		return field, true

	case "string", "":
		if len(src.Enum) > 0 {
			return schema.Field{
				Type:       schema.FieldTypeDropdown,
				Name:       name,
				Label:      label,
				Options:    enumOptions(src.Enum),
				Validation: requiredOnly(required),
			}, true
		}
		field := schema.Field{
			Type:       schema.FieldTypeText,
			Name:       name,
			Label:      label,
			Validation: stringValidation(src, required),
		}
		if src.Format == "email" {
			if field.Validation == nil {
				field.Validation = &schema.ValidationSpec{}
			}
			field.Validation.CustomValidation = "email"
		}
		return field, true

	default:
		// Arrays and other composite types have no form widget.
		return schema.Field{}, false
	}
}

func stringValidation(src *openapi3.Schema, required bool) *schema.ValidationSpec {
	spec := &schema.ValidationSpec{}
	used := false
	if required {
		spec.Required = &schema.RequiredSpec{Value: true}
		used = true
	}
	if src.MinLength > 0 {
		spec.MinLength = &schema.BoundSpec{Value: int(src.MinLength)}
		used = true
	}
	if src.MaxLength != nil {
		spec.MaxLength = &schema.BoundSpec{Value: int(*src.MaxLength)}
		used = true
	}
	if src.Pattern != "" {
		spec.Regex = &schema.RegexSpec{Value: src.Pattern}
		used = true
	}
	if !used {
		return nil
	}
	return spec
}

func requiredOnly(required bool) *schema.ValidationSpec {
	if !required {
		return nil
	}
	return &schema.ValidationSpec{Required: &schema.RequiredSpec{Value: true}}
}

func enumOptions(values []any) []schema.Option {
	options := make([]schema.Option, 0, len(values))
	for _, value := range values {
		text := fmt.Sprintf("%v", value)
		options = append(options, schema.Option{Label: text, Value: text})
	}
	return options
}

func schemaType(src *openapi3.Schema) string {
	if src == nil || src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// titleFromName turns a camelCase or snake_case property name into a label,
// the inverse of the group-key normalization applied at submit time.
func titleFromName(name string) string {
	var b strings.Builder
	prevLower := false
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
			continue
		case i == 0:
			b.WriteRune(unicodeUpper(r))
		case prevLower && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prevLower = r >= 'a' && r <= 'z'
	}
	return b.String()
}

func unicodeUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
