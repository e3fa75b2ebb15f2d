package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/render"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	if banner := render.Summary(nil); banner != nil {
		t.Fatalf("no failures should yield no banner, got %v", banner)
	}
	banner := render.Summary(map[string]string{"email": "Invalid email format"})
	if diff := cmp.Diff([]string{render.SummaryBanner}, banner); diff != "" {
		t.Fatalf("banner mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	got := render.MergeFormErrors(
		[]string{"  first  ", "second", ""},
		"second", "third", "   ",
	)
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if out := render.MergeFormErrors(nil); out != nil {
		t.Fatalf("empty input should yield nil, got %v", out)
	}
}
