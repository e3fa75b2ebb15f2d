// Package validation composes a field's declared constraints into an
// effective, ordered rule chain. Rules are pure functions over the current
// string value; they report a human-readable message on failure and never
// panic.
package validation

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Messages surfaced by the named presets.
const (
	MsgOnlyLetters  = "Only letters are allowed"
	MsgOnlyNumbers  = "Only numbers are allowed"
	MsgInvalidEmail = "Invalid email format"
)

// Default messages used when the schema declares a rule without one.
const (
	defaultRequiredMessage = "This field is required"
	defaultRegexMessage    = "Invalid format"
)

var (
	lettersPattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type check func(value string) string

// Rules is the composed, ordered rule chain for one field.
type Rules struct {
	required bool
	checks   []check
}

// Compose builds the effective rule chain from a declared spec. A nil spec
// yields an empty chain that accepts every value. Order: required, length
// bounds, preset, regex. The preset gates the regex: the regex only runs once
// the preset passes, and the first failing check's message wins.
func Compose(spec *schema.ValidationSpec) Rules {
	if spec == nil {
		return Rules{}
	}

	var rules Rules

	if spec.Required != nil && spec.Required.Value {
		rules.required = true
		message := spec.Required.Message
		if message == "" {
			message = defaultRequiredMessage
		}
		rules.checks = append(rules.checks, func(value string) string {
			if value == "" {
				return message
			}
			return ""
		})
	}

	if spec.MinLength != nil {
		min := spec.MinLength.Value
		message := spec.MinLength.Message
		if message == "" {
			message = fmt.Sprintf("Must be at least %d characters", min)
		}
		rules.checks = append(rules.checks, func(value string) string {
			if value != "" && len([]rune(value)) < min {
				return message
			}
			return ""
		})
	}

	if spec.MaxLength != nil {
		max := spec.MaxLength.Value
		message := spec.MaxLength.Message
		if message == "" {
			message = fmt.Sprintf("Must be at most %d characters", max)
		}
		rules.checks = append(rules.checks, func(value string) string {
			if len([]rune(value)) > max {
				return message
			}
			return ""
		})
	}

	if preset := presetCheck(spec.CustomValidation); preset != nil {
		rules.checks = append(rules.checks, preset)
	}

	if spec.Regex != nil && spec.Regex.Value != "" {
		if pattern, err := regexp.Compile(spec.Regex.Value); err == nil {
			message := spec.Regex.Message
			if message == "" {
				message = defaultRegexMessage
			}
			rules.checks = append(rules.checks, func(value string) string {
				if !pattern.MatchString(value) {
					return message
				}
				return ""
			})
		}
		// An uncompilable pattern degrades to a no-op rather than failing
		// every value; validation functions never throw.
	}

	return rules
}

func presetCheck(name string) check {
	var (
		pattern *regexp.Regexp
		message string
	)
	switch name {
	case "string":
		pattern, message = lettersPattern, MsgOnlyLetters
	case "number":
		pattern, message = digitsPattern, MsgOnlyNumbers
	case "email":
		pattern, message = emailPattern, MsgInvalidEmail
	default:
		return nil
	}
	return func(value string) string {
		if !pattern.MatchString(value) {
			return message
		}
		return ""
	}
}

// Validate runs the chain against the current value and returns the first
// failing message, or "" when every check passes. Length bounds skip the
// unset value; presets and the regex evaluate it like any other input, so an
// optional email field still rejects "".
func (r Rules) Validate(value string) string {
	for _, run := range r.checks {
		if msg := run(value); msg != "" {
			return msg
		}
	}
	return ""
}

// Required reports whether the chain includes a required rule.
func (r Rules) Required() bool { return r.required }

// Empty reports whether the chain has no checks at all.
func (r Rules) Empty() bool { return len(r.checks) == 0 }
