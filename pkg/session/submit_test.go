package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

func submitSchema() schema.Schema {
	return schema.Schema{Fields: []schema.Field{
		{Type: schema.FieldTypeText, Name: "name", Label: "Name"},
		{Type: schema.FieldTypeCheckbox, Name: "hasSecret", Label: "Has secret"},
		{
			Type:      schema.FieldTypeText,
			Name:      "secret",
			Label:     "Secret",
			VisibleIf: &schema.VisibleIf{Field: "hasSecret", Value: true},
		},
		{
			Type:  schema.FieldTypeGroup,
			Label: "Billing Address",
			Fields: []schema.Field{
				{Type: schema.FieldTypeText, Name: "street", Label: "Street"},
				{Type: schema.FieldTypeText, Name: "city", Label: "City"},
			},
		},
		{
			Type:  schema.FieldTypeDropdown,
			Name:  "plan",
			Label: "Plan",
			Options: []schema.Option{
				{Label: "Starter", Value: "starter"},
				{Label: "Professional", Value: "pro"},
			},
		},
	}}
}

func TestSubmit_FiltersHiddenValues(t *testing.T) {
	t.Parallel()

	form := session.New(submitSchema(), session.WithSubmitDelay(10*time.Millisecond))
	defer form.Close()

	form.SetValue("hasSecret", true)
	form.SetValue("secret", "hunter2")
	form.SetValue("name", "Ada")
	form.SetValue("hasSecret", false) // hides and clears secret

	result, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected a submission id")
	}
	if _, leaked := result.Filtered["secret"]; leaked {
		t.Fatal("hidden value leaked into filtered output")
	}
	if _, leaked := result.Nested["secret"]; leaked {
		t.Fatal("hidden value leaked into nested output")
	}
	if result.Filtered["name"] != "Ada" {
		t.Fatalf("filtered output mismatch: %v", result.Filtered)
	}
}

func TestSubmit_NestedShape(t *testing.T) {
	t.Parallel()

	form := session.New(submitSchema(), session.WithSubmitDelay(10*time.Millisecond))
	defer form.Close()

	form.SetValue("name", "Ada")
	form.SetValue("street", "12 Main St")
	form.SetValue("city", "London")
	form.SetValue("plan", "Professional")

	result, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := map[string]any{
		"name": "Ada",
		"billingAddress": map[string]any{
			"street": "12 Main St",
			"city":   "London",
		},
		"plan": "pro",
	}
	if diff := cmp.Diff(want, result.Nested); diff != "" {
		t.Fatalf("nested output mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_EmptyGroupOmitted(t *testing.T) {
	t.Parallel()

	form := session.New(submitSchema(), session.WithSubmitDelay(10*time.Millisecond))
	defer form.Close()

	form.SetValue("name", "Ada")

	result, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, present := result.Nested["billingAddress"]; present {
		t.Fatal("empty group should be omitted from nested output")
	}
}

func TestSubmit_UnmatchedDropdownLabelOmitted(t *testing.T) {
	t.Parallel()

	form := session.New(submitSchema(), session.WithSubmitDelay(10*time.Millisecond))
	defer form.Close()

	form.SetValue("plan", "Enterprise")

	result, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, present := result.Nested["plan"]; present {
		t.Fatal("unmatched dropdown label should be omitted")
	}
	// The raw filtered map still carries the submitted label.
	if result.Filtered["plan"] != "Enterprise" {
		t.Fatalf("filtered output mismatch: %v", result.Filtered)
	}
}

func TestSubmit_ValidationBlocks(t *testing.T) {
	t.Parallel()

	sch := schema.Schema{Fields: []schema.Field{
		{
			Type:       schema.FieldTypeText,
			Name:       "email",
			Validation: &schema.ValidationSpec{Required: &schema.RequiredSpec{Value: true}},
		},
	}}
	form := session.New(sch)
	defer form.Close()

	_, err := form.Submit()
	if !errors.Is(err, session.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if msg := form.FieldError("email"); msg != "This field is required" {
		t.Fatalf("failure should be recorded on the field, got %q", msg)
	}
	if form.Submitting() {
		t.Fatal("failed submit must not enter submitting state")
	}
}

func TestSubmit_DelayedResetAndListener(t *testing.T) {
	t.Parallel()

	done := make(chan session.Result, 1)
	form := session.New(submitSchema(),
		session.WithSubmitDelay(20*time.Millisecond),
		session.WithSubmitListener(func(r session.Result) {
			done <- r
		}),
	)
	defer form.Close()

	form.SetValue("name", "Ada")

	result, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !form.Submitting() {
		t.Fatal("expected submitting state immediately after submit")
	}

	// A second submit while the first is settling is rejected.
	if _, err := form.Submit(); !errors.Is(err, session.ErrSubmitting) {
		t.Fatalf("expected ErrSubmitting, got %v", err)
	}

	select {
	case notified := <-done:
		if notified.ID != result.ID {
			t.Fatalf("listener got %q, want %q", notified.ID, result.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("submit listener never fired")
	}

	if form.Submitting() {
		t.Fatal("submitting state should clear after the delay")
	}
	if len(form.Values()) != 0 {
		t.Fatalf("form should reset, still holds %v", form.Values())
	}
	if len(form.Visible().Names()) != 0 {
		t.Fatal("visible snapshot should be emptied by the reset")
	}
}

func TestFilterVisible(t *testing.T) {
	t.Parallel()

	fields := submitSchema().Fields
	raw := map[string]any{
		"name":      "Ada",
		"hasSecret": false,
		"secret":    "stale",
	}

	filtered := session.FilterVisible(fields, raw)
	if _, leaked := filtered["secret"]; leaked {
		t.Fatal("secret should be filtered while hidden")
	}
	if filtered["name"] != "Ada" {
		t.Fatalf("unexpected filtered map: %v", filtered)
	}
}

func TestTransform_PassThroughAndMapping(t *testing.T) {
	t.Parallel()

	fields := submitSchema().Fields
	data := map[string]any{
		"name":   "Ada",
		"street": "12 Main St",
		"plan":   "Starter",
	}

	got := session.Transform(fields, data)
	want := map[string]any{
		"name": "Ada",
		"billingAddress": map[string]any{
			"street": "12 Main St",
		},
		"plan": "starter",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestResult_NestedJSON(t *testing.T) {
	t.Parallel()

	result := session.Result{Nested: map[string]any{"name": "Ada"}}
	payload, err := result.NestedJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n  \"name\": \"Ada\"\n}"
	if string(payload) != want {
		t.Fatalf("payload = %q, want %q", payload, want)
	}
}
