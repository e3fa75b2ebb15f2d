// Package visibility computes which leaf fields of a schema tree are
// currently eligible for display and submission. Resolution is a pure
// function of the field tree and the current value map; the stateful
// diff-and-clear step lives in pkg/session.
package visibility

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Set holds the names of currently visible leaf fields.
type Set map[string]struct{}

// Has reports whether a leaf name is visible.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the visible names sorted for deterministic output.
func (s Set) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve walks the tree depth-first in document order and returns the set of
// visible leaf names. A leaf is visible when it carries no visibleIf, when
// its condition matches the current value under strict equality, or when the
// condition references a name that does not exist in the schema (dangling
// references degrade to always visible). A hidden group hides every
// descendant regardless of the descendants' own conditions.
//
// Resolve never follows visibleIf chains: it reads the referenced value as it
// stands, so cycles between conditions cannot loop and a reference to a
// hidden field simply compares against whatever (possibly stale) value the
// map holds.
func Resolve(fields []schema.Field, values map[string]any) Set {
	set := make(Set)
	known := schema.Schema{Fields: fields}.LeafNames()
	collect(fields, values, known, set)
	return set
}

func collect(fields []schema.Field, values map[string]any, known map[string]struct{}, set Set) {
	for _, field := range fields {
		if !EvalCondition(field.VisibleIf, values, known) {
			continue
		}
		if field.Type.IsGroup() {
			collect(field.Fields, values, known, set)
			continue
		}
		if field.Name != "" {
			set[field.Name] = struct{}{}
		}
	}
}

// EvalCondition evaluates one visibleIf condition against the current value
// map. known is the set of leaf names declared by the schema; conditions
// referencing unknown names default open. Renderers walking the tree
// themselves share this predicate so their pruning matches Resolve.
func EvalCondition(cond *schema.VisibleIf, values map[string]any, known map[string]struct{}) bool {
	if cond == nil {
		return true
	}
	ref := strings.TrimSpace(cond.Field)
	if ref == "" {
		return true
	}
	if _, ok := known[ref]; !ok {
		// Unresolved reference: visibility defaults open.
		return true
	}
	return values[ref] == cond.Value
}
