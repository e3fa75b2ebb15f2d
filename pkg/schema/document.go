package schema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document wraps a raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Parse decodes the payload into a Schema and checks its structural
// invariants. JSON and YAML documents are both accepted.
func (d Document) Parse() (Schema, error) {
	return Decode(d.raw)
}

// Decode unmarshals a schema document. Payloads that do not start with a JSON
// object are treated as YAML and normalized to JSON first, so both formats
// share the same decoding path (and the same shorthand handling for options
// and validation rules).
func Decode(raw []byte) (Schema, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return Schema{}, errors.New("schema: document is empty")
	}

	if data[0] != '{' {
		converted, err := yamlToJSON(data)
		if err != nil {
			return Schema{}, fmt.Errorf("schema: decode yaml: %w", err)
		}
		data = converted
	}

	var sch Schema
	if err := json.Unmarshal(data, &sch); err != nil {
		return Schema{}, fmt.Errorf("schema: decode document: %w", err)
	}
	if sch.Fields == nil {
		return Schema{}, errors.New("schema: document is missing a fields array")
	}
	if err := sch.Validate(); err != nil {
		return Schema{}, err
	}
	return sch, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var node any
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(node))
}

// normalizeYAML rewrites yaml.v3's map[string]any / []any output so nested
// keys are always strings, making the tree marshalable as JSON.
func normalizeYAML(node any) any {
	switch typed := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return typed
	}
}
