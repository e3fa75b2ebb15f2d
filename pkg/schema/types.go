package schema

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// FieldType enumerates the widget kinds a schema may declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeGroup    FieldType = "group"
)

// IsGroup reports whether the type owns child fields instead of a value.
func (t FieldType) IsGroup() bool { return t == FieldTypeGroup }

// Option pairs a display label with the stored value for dropdown/radio
// fields. Schemas may declare options as plain strings, in which case label
// and value are identical.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts either a bare string or a {label, value} object.
func (o *Option) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		o.Label = plain
		o.Value = plain
		return nil
	}

	var pair struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("schema: option must be a string or {label, value}: %w", err)
	}
	o.Label = pair.Label
	o.Value = pair.Value
	if o.Value == "" {
		o.Value = o.Label
	}
	return nil
}

// VisibleIf conditions a field's visibility on another field holding an exact
// value. Comparison is strict: no type coercion is applied.
type VisibleIf struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Field is one node of the schema tree. A group owns Fields and no value of
// its own; every other type owns a Name and no children.
type Field struct {
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Name        string            `json:"name,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	VisibleIf   *VisibleIf        `json:"visibleIf,omitempty"`
	Fields      []Field           `json:"fields,omitempty"`
	Validation  *ValidationSpec   `json:"validation,omitempty"`
	APITrigger  []string          `json:"apiTrigger,omitempty"`
	APIAutoFill map[string]string `json:"apiAutoFill,omitempty"`
}

// AutoFillCapable reports whether the field declares both trigger inputs and
// a result mapping.
func (f Field) AutoFillCapable() bool {
	return len(f.APITrigger) > 0 && len(f.APIAutoFill) > 0
}

// Option resolves a display label to its declared option, if any.
func (f Field) Option(label string) (Option, bool) {
	for _, opt := range f.Options {
		if opt.Label == label {
			return opt, true
		}
	}
	return Option{}, false
}

// Schema is the immutable field tree one form instance evaluates against.
// Replacing the schema means constructing a new engine instance, never
// mutating an existing one.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Walk visits every field depth-first in document order, groups included.
// Returning false from the visitor stops the traversal.
func (s Schema) Walk(visit func(Field) bool) {
	walkFields(s.Fields, visit)
}

func walkFields(fields []Field, visit func(Field) bool) bool {
	for _, field := range fields {
		if !visit(field) {
			return false
		}
		if len(field.Fields) > 0 {
			if !walkFields(field.Fields, visit) {
				return false
			}
		}
	}
	return true
}

// Leaves returns every non-group field in document order.
func (s Schema) Leaves() []Field {
	var leaves []Field
	s.Walk(func(f Field) bool {
		if !f.Type.IsGroup() {
			leaves = append(leaves, f)
		}
		return true
	})
	return leaves
}

// LeafNames returns the set of names declared by non-group fields. Duplicate
// names are undefined behavior; the set simply collapses them.
func (s Schema) LeafNames() map[string]struct{} {
	names := make(map[string]struct{})
	s.Walk(func(f Field) bool {
		if !f.Type.IsGroup() && f.Name != "" {
			names[f.Name] = struct{}{}
		}
		return true
	})
	return names
}

// HasLeaf reports whether a named leaf field exists anywhere in the tree.
func (s Schema) HasLeaf(name string) bool {
	found := false
	s.Walk(func(f Field) bool {
		if !f.Type.IsGroup() && f.Name == name {
			found = true
			return false
		}
		return true
	})
	return found
}

// AutoFillFields returns the leaves carrying both apiTrigger and apiAutoFill.
func (s Schema) AutoFillFields() []Field {
	var fields []Field
	s.Walk(func(f Field) bool {
		if f.AutoFillCapable() {
			fields = append(fields, f)
		}
		return true
	})
	return fields
}

// Validate checks the structural invariants the engine assumes: groups own
// children and no name, leaves own a name and no children. It does not police
// duplicate names or dangling visibleIf references; both degrade gracefully
// at evaluation time.
func (s Schema) Validate() error {
	return validateFields(s.Fields, "")
}

func validateFields(fields []Field, path string) error {
	for i, field := range fields {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case field.Type == "":
			return fmt.Errorf("schema: field %s: type is required", at)
		case field.Type.IsGroup():
			if len(field.Fields) == 0 {
				return fmt.Errorf("schema: group %s: fields are required", at)
			}
			if err := validateFields(field.Fields, at+".fields"); err != nil {
				return err
			}
		default:
			if strings.TrimSpace(field.Name) == "" {
				return fmt.Errorf("schema: field %s: name is required", at)
			}
			if len(field.Fields) > 0 {
				return fmt.Errorf("schema: field %s: only groups may declare nested fields", at)
			}
		}
	}
	return nil
}
