package session

import (
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// FilterVisible recomputes the visible set against the raw values and keeps
// only entries whose keys belong to it. This is the submit-time guarantee
// that hidden fields never leak values into output.
func FilterVisible(fields []schema.Field, raw map[string]any) map[string]any {
	set := visibility.Resolve(fields, raw)
	out := make(map[string]any, len(raw))
	for name, value := range raw {
		if set.Has(name) {
			out[name] = value
		}
	}
	return out
}

// Transform reshapes the filtered flat value map into a nested object
// mirroring the schema's group structure:
//
//   - a group contributes a nested object keyed by its normalized label
//     ("Billing Address" → "billingAddress"), omitted entirely when empty;
//   - a dropdown with declared options maps the submitted display label back
//     to its stored value, omitting the field when no option matches;
//   - every other leaf passes its value through, included only when present
//     in the filtered map.
func Transform(fields []schema.Field, data map[string]any) map[string]any {
	result := make(map[string]any)
	for _, field := range fields {
		switch {
		case field.Type.IsGroup():
			nested := Transform(field.Fields, data)
			if len(nested) > 0 {
				result[schema.GroupKey(field.Label)] = nested
			}
		case field.Type == schema.FieldTypeDropdown && field.Name != "" && len(field.Options) > 0:
			raw, ok := data[field.Name]
			if !ok {
				continue
			}
			if opt, matched := field.Option(schema.ValueString(raw)); matched {
				result[field.Name] = opt.Value
			}
		default:
			if field.Name == "" {
				continue
			}
			if value, ok := data[field.Name]; ok {
				result[field.Name] = value
			}
		}
	}
	return result
}
