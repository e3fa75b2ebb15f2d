package validation_test

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func TestCompose_NilSpecAcceptsEverything(t *testing.T) {
	t.Parallel()

	rules := validation.Compose(nil)
	if !rules.Empty() {
		t.Fatal("nil spec should compose an empty chain")
	}
	if msg := rules.Validate("anything at all"); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}
}

func TestCompose_Required(t *testing.T) {
	t.Parallel()

	withMessage := validation.Compose(&schema.ValidationSpec{
		Required: &schema.RequiredSpec{Value: true, Message: "Name is mandatory"},
	})
	if !withMessage.Required() {
		t.Fatal("expected required chain")
	}
	if msg := withMessage.Validate(""); msg != "Name is mandatory" {
		t.Fatalf("got %q", msg)
	}
	if msg := withMessage.Validate("x"); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}

	defaulted := validation.Compose(&schema.ValidationSpec{
		Required: &schema.RequiredSpec{Value: true},
	})
	if msg := defaulted.Validate(""); msg != "This field is required" {
		t.Fatalf("default required message missing, got %q", msg)
	}

	disabled := validation.Compose(&schema.ValidationSpec{
		Required: &schema.RequiredSpec{Value: false, Message: "ignored"},
	})
	if disabled.Required() {
		t.Fatal("required=false must not mark the chain required")
	}
	if msg := disabled.Validate(""); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}
}

func TestCompose_LengthBounds(t *testing.T) {
	t.Parallel()

	rules := validation.Compose(&schema.ValidationSpec{
		MinLength: &schema.BoundSpec{Value: 3},
		MaxLength: &schema.BoundSpec{Value: 5, Message: "Keep it short"},
	})

	if msg := rules.Validate("ab"); msg != "Must be at least 3 characters" {
		t.Fatalf("min bound: got %q", msg)
	}
	if msg := rules.Validate("abcdef"); msg != "Keep it short" {
		t.Fatalf("max bound: got %q", msg)
	}
	if msg := rules.Validate("abcd"); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}
	// Length bounds skip the unset value.
	if msg := rules.Validate(""); msg != "" {
		t.Fatalf("empty value must pass optional bounds, got %q", msg)
	}
}

func TestCompose_Presets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		preset string
		pass   []string
		fail   []string
		msg    string
	}{
		{
			preset: "string",
			pass:   []string{"Jane Doe", "abc"},
			fail:   []string{"abc123", "n0pe"},
			msg:    validation.MsgOnlyLetters,
		},
		{
			preset: "number",
			pass:   []string{"0", "12345"},
			fail:   []string{"12a", "-1", "1.5"},
			msg:    validation.MsgOnlyNumbers,
		},
		{
			preset: "email",
			pass:   []string{"a@b.co", "first.last@example.com"},
			fail:   []string{"plain", "a@b", "a b@c.d"},
			msg:    validation.MsgInvalidEmail,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.preset, func(t *testing.T) {
			t.Parallel()
			rules := validation.Compose(&schema.ValidationSpec{CustomValidation: tc.preset})
			for _, value := range tc.pass {
				if msg := rules.Validate(value); msg != "" {
					t.Fatalf("%q should pass, got %q", value, msg)
				}
			}
			for _, value := range tc.fail {
				if msg := rules.Validate(value); msg != tc.msg {
					t.Fatalf("%q should fail with %q, got %q", value, tc.msg, msg)
				}
			}
			// Presets run on the unset value too: an optional preset field
			// still rejects "".
			if msg := rules.Validate(""); msg != tc.msg {
				t.Fatalf("empty value should fail with %q, got %q", tc.msg, msg)
			}
		})
	}
}

func TestCompose_UnknownPresetIsIgnored(t *testing.T) {
	t.Parallel()

	rules := validation.Compose(&schema.ValidationSpec{CustomValidation: "phone"})
	if !rules.Empty() {
		t.Fatal("unknown preset should contribute no checks")
	}
}

func TestCompose_RegexAfterPreset(t *testing.T) {
	t.Parallel()

	rules := validation.Compose(&schema.ValidationSpec{
		CustomValidation: "email",
		Regex:            &schema.RegexSpec{Value: "^a", Message: "Must start with a"},
	})

	// Fails the preset first; the regex never gets a say.
	if msg := rules.Validate("not-an-email"); msg != validation.MsgInvalidEmail {
		t.Fatalf("preset should fail first, got %q", msg)
	}
	// Passes the preset, then fails the chained regex.
	if msg := rules.Validate("b@example.com"); msg != "Must start with a" {
		t.Fatalf("chained regex should fail, got %q", msg)
	}
	if msg := rules.Validate("a@example.com"); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}
}

func TestCompose_RegexDefaultsAndBadPattern(t *testing.T) {
	t.Parallel()

	defaulted := validation.Compose(&schema.ValidationSpec{
		Regex: &schema.RegexSpec{Value: "^[0-9]{4}$"},
	})
	if msg := defaulted.Validate("12"); msg != "Invalid format" {
		t.Fatalf("default regex message missing, got %q", msg)
	}
	if msg := defaulted.Validate(""); msg != "Invalid format" {
		t.Fatalf("regex should reject the unset value, got %q", msg)
	}

	broken := validation.Compose(&schema.ValidationSpec{
		Regex: &schema.RegexSpec{Value: "(["},
	})
	if msg := broken.Validate("anything"); msg != "" {
		t.Fatalf("uncompilable pattern must degrade to a no-op, got %q", msg)
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	t.Parallel()

	rules := validation.Compose(&schema.ValidationSpec{
		Required:         &schema.RequiredSpec{Value: true},
		MinLength:        &schema.BoundSpec{Value: 3},
		CustomValidation: "number",
	})

	if msg := rules.Validate(""); msg != "This field is required" {
		t.Fatalf("required should win on empty, got %q", msg)
	}
	if msg := rules.Validate("1a"); msg != "Must be at least 3 characters" {
		t.Fatalf("minLength should win before preset, got %q", msg)
	}
	if msg := rules.Validate("12a"); msg != validation.MsgOnlyNumbers {
		t.Fatalf("preset should fail, got %q", msg)
	}
	if msg := rules.Validate("123"); msg != "" {
		t.Fatalf("unexpected failure: %q", msg)
	}
}
