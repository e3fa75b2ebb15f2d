package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ValidationSpec captures the declared constraints for one field. Rule
// composition lives in pkg/validation; this type only models the schema
// grammar, which allows several shorthand forms per rule.
type ValidationSpec struct {
	Required         *RequiredSpec `json:"required,omitempty"`
	MinLength        *BoundSpec    `json:"minLength,omitempty"`
	MaxLength        *BoundSpec    `json:"maxLength,omitempty"`
	CustomValidation string        `json:"customValidation,omitempty"`
	Regex            *RegexSpec    `json:"regex,omitempty"`
}

// RequiredSpec accepts `true`, a bare message string, or {value, message}.
type RequiredSpec struct {
	Value   bool
	Message string
}

func (r *RequiredSpec) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		r.Value = flag
		return nil
	}

	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		r.Value = message != ""
		r.Message = message
		return nil
	}

	var full struct {
		Value   bool   `json:"value"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("schema: required must be a bool, message, or {value, message}: %w", err)
	}
	r.Value = full.Value
	r.Message = full.Message
	return nil
}

// BoundSpec accepts a bare numeric bound or {value, message}.
type BoundSpec struct {
	Value   int
	Message string
}

func (b *BoundSpec) UnmarshalJSON(data []byte) error {
	var bound int
	if err := json.Unmarshal(data, &bound); err == nil {
		b.Value = bound
		return nil
	}

	var full struct {
		Value   int    `json:"value"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("schema: length bound must be a number or {value, message}: %w", err)
	}
	b.Value = full.Value
	b.Message = full.Message
	return nil
}

// RegexSpec applies an additional pattern on top of any preset.
type RegexSpec struct {
	Value   string `json:"value"`
	Message string `json:"message,omitempty"`
}
