package schema

import "strconv"

// Truthy reports whether a form value should count as "set" for auto-fill
// readiness. Empty strings, false booleans, zero numbers, and absent values
// are all falsy, mirroring the readiness semantics of the form runtime.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

// ValueString renders a form value as the string the validation and lookup
// layers consume. A false checkbox stringifies to "" so required rules treat
// it as unset.
func ValueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// CloneValues copies a value map so callers can hand out snapshots without
// sharing the session's backing storage.
func CloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
