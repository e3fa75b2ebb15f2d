package render

import "strings"

// SummaryBanner is the form-level message gating submission while any field
// fails validation.
const SummaryBanner = "Please fix the errors above before submitting"

// MergeFormErrors concatenates and normalises form-level error messages,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// Summary builds the form-level banner for a set of field failures: empty
// input yields no banner.
func Summary(fieldErrors map[string]string) []string {
	if len(fieldErrors) == 0 {
		return nil
	}
	return []string{SummaryBanner}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
