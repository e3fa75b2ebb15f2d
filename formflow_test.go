package formflow_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow"
)

func TestParse(t *testing.T) {
	t.Parallel()

	sch, err := formflow.Parse([]byte(`{"fields": [{"type": "text", "name": "email"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sch.Fields) != 1 {
		t.Fatalf("unexpected schema: %+v", sch)
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	sch, err := formflow.Parse([]byte(`{"fields": [{"type": "text", "name": "email"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	form := formflow.NewSession(sch)
	defer form.Close()

	form.SetValue("email", "a@b.co")
	if v, _ := form.Value("email"); v != "a@b.co" {
		t.Fatalf("value = %v", v)
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry, err := formflow.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}
