// Package session hosts the stateful form runtime: one Session owns the
// value map, field errors, and the previous visible-field snapshot for a
// single schema instance. Every mutation funnels through the same pass
// (visibility resolution, reconciliation of newly hidden fields, then
// auto-fill observation) so user edits and programmatic writes follow
// identical rules. Replacing a schema means constructing a new Session; the
// old one is closed, never mutated in place.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/autofill"
	"github.com/goliatone/go-formflow/pkg/lookup"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// DefaultSubmitDelay is how long the transient "submitting" state lasts
// before success is signalled and the form resets.
const DefaultSubmitDelay = 2 * time.Second

var (
	// ErrValidation reports that one or more visible fields failed their
	// composed rules; submission is blocked, not attempted.
	ErrValidation = errors.New("session: validation failed")
	// ErrSubmitting reports that a submission is already in progress.
	ErrSubmitting = errors.New("session: submission already in progress")
	// ErrClosed reports use of a torn-down session.
	ErrClosed = errors.New("session: closed")
)

// Option configures a Session.
type Option func(*Session)

// WithLookup wires the external lookup service that backs auto-fill. Without
// it, apiTrigger/apiAutoFill declarations are inert.
func WithLookup(service lookup.Service) Option {
	return func(s *Session) {
		s.service = service
	}
}

// WithDebounce overrides the auto-fill quiet period (default 500ms).
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithSubmitDelay overrides the transient submitting duration (default 2s).
func WithSubmitDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.submitDelay = d
		}
	}
}

// WithAutoFillListener registers a callback invoked after each lookup
// settles (err is nil on success). Called outside the session lock.
func WithAutoFillListener(fn func(field string, err error)) Option {
	return func(s *Session) {
		s.onAutoFill = fn
	}
}

// WithSubmitListener registers a callback invoked when the submitting delay
// elapses and the form has been reset. Called outside the session lock.
func WithSubmitListener(fn func(Result)) Option {
	return func(s *Session) {
		s.onSubmit = fn
	}
}

// Session is the live form engine for one schema instance. All exported
// methods are safe for concurrent use; internally a single mutex serializes
// every mutation so a read and its corresponding write never straddle a
// suspension point.
type Session struct {
	mu     sync.Mutex
	schema schema.Schema

	values    map[string]any
	fieldErrs map[string]string
	rules     map[string]validation.Rules

	// visible is the one generation of history the reconciler keeps.
	visible visibility.Set

	service     lookup.Service
	debounce    time.Duration
	orch        *autofill.Orchestrator
	autoFillErr string

	submitting  bool
	submitDelay time.Duration
	submitTimer *time.Timer

	onAutoFill func(field string, err error)
	onSubmit   func(Result)

	closed bool
}

// New constructs a Session for the given schema. The value map starts empty;
// validation rules are composed once per leaf up front (duplicate leaf names
// are undefined behavior and simply collapse, last one wins).
func New(sch schema.Schema, opts ...Option) *Session {
	s := &Session{
		schema:      sch,
		values:      make(map[string]any),
		fieldErrs:   make(map[string]string),
		rules:       make(map[string]validation.Rules),
		submitDelay: DefaultSubmitDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	for _, leaf := range sch.Leaves() {
		if leaf.Name == "" {
			continue
		}
		s.rules[leaf.Name] = validation.Compose(leaf.Validation)
	}

	if s.service != nil {
		var orchOpts []autofill.Option
		if s.debounce > 0 {
			orchOpts = append(orchOpts, autofill.WithDebounce(s.debounce))
		}
		s.orch = autofill.New(sch, s.service, sink{s}, orchOpts...)
	}

	// Seed the snapshot so the first reconciliation diffs against the
	// schema's initial visible set rather than the empty set.
	s.visible = visibility.Resolve(sch.Fields, s.values)

	return s
}

// Schema returns the immutable field tree this session evaluates.
func (s *Session) Schema() schema.Schema { return s.schema }

// SetValue records a user edit, validates the field as dirty, and runs the
// reactive pass: visibility resolution, reconciliation, and auto-fill
// observation, in that order.
func (s *Session) SetValue(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.values[name] = value
	s.setFieldError(name, s.rules[name].Validate(schema.ValueString(value)))
	s.runPass()
}

// Value returns the current value for a field name.
func (s *Session) Value(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// Values returns a snapshot of the full value map.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.CloneValues(s.values)
}

// Visible returns a copy of the current visible-field set.
func (s *Session) Visible() visibility.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(visibility.Set, len(s.visible))
	for name := range s.visible {
		out[name] = struct{}{}
	}
	return out
}

// VisibleFields returns the currently visible leaves in document order.
func (s *Session) VisibleFields() []schema.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schema.Field
	for _, leaf := range s.schema.Leaves() {
		if s.visible.Has(leaf.Name) {
			out = append(out, leaf)
		}
	}
	return out
}

// Rules returns the composed rule chain for a field.
func (s *Session) Rules(name string) validation.Rules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules[name]
}

// FieldError returns the current validation error for a field, if any.
func (s *Session) FieldError(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrs[name]
}

// FieldErrors returns a snapshot of all current field errors.
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.fieldErrs))
	for k, v := range s.fieldErrs {
		out[k] = v
	}
	return out
}

// AutoFillError returns the banner-level auto-fill error, or "".
func (s *Session) AutoFillError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoFillErr
}

// Submitting reports whether the transient submitting state is active.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Validate runs the composed rules for every currently visible field,
// records the results, and returns the failures.
func (s *Session) Validate() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateVisibleLocked()
}

// Close tears the session down: pending debounce timers are cancelled, the
// submit timer is stopped, and late lookup results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.submitTimer != nil {
		s.submitTimer.Stop()
		s.submitTimer = nil
	}
	orch := s.orch
	s.mu.Unlock()

	orch.Close()
}

// runPass executes the fixed-order reactive pass. Callers hold s.mu.
func (s *Session) runPass() {
	s.reconcile()
	if s.orch != nil {
		s.orch.Observe(schema.CloneValues(s.values))
	}
}

// reconcile diffs the freshly resolved visible set against the previous
// snapshot and structurally clears fields that just became hidden: the value
// is unset and any error removed, without marking the field dirty or
// re-validating. Clearing a value can hide further dependent fields, so the
// diff repeats until it reaches a fixpoint. Callers hold s.mu.
func (s *Session) reconcile() {
	for {
		current := visibility.Resolve(s.schema.Fields, s.values)
		cleared := false
		for name := range s.visible {
			if current.Has(name) {
				continue
			}
			if _, ok := s.values[name]; ok {
				delete(s.values, name)
				cleared = true
			}
			delete(s.fieldErrs, name)
		}
		s.visible = current
		if !cleared {
			return
		}
	}
}

func (s *Session) validateVisibleLocked() map[string]string {
	failures := make(map[string]string)
	for _, leaf := range s.schema.Leaves() {
		if leaf.Name == "" || !s.visible.Has(leaf.Name) {
			continue
		}
		msg := s.rules[leaf.Name].Validate(schema.ValueString(s.values[leaf.Name]))
		s.setFieldError(leaf.Name, msg)
		if msg != "" {
			failures[leaf.Name] = msg
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return failures
}

func (s *Session) setFieldError(name, msg string) {
	if msg == "" {
		delete(s.fieldErrs, name)
		return
	}
	s.fieldErrs[name] = msg
}

// reset clears all values and errors and empties the visible-field snapshot,
// ready for step-by-step re-evaluation. Callers hold s.mu.
func (s *Session) reset() {
	s.values = make(map[string]any)
	s.fieldErrs = make(map[string]string)
	s.autoFillErr = ""
	s.visible = make(visibility.Set)
}

// sink adapts the Session to the autofill.Sink contract without exporting
// the callbacks on Session itself.
type sink struct {
	s *Session
}

// AutoFillResolved writes mapped lookup results into the value map. Writes
// are dirty, user-style edits: the target is validated immediately, and the
// same reactive pass runs so a write that flips a visibleIf condition
// propagates before anything else reads the map. Writes targeting fields
// that no longer exist are dropped.
func (k sink) AutoFillResolved(field string, writes map[string]string) {
	s := k.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	for target, value := range writes {
		if !s.schema.HasLeaf(target) {
			continue
		}
		s.values[target] = value
		s.setFieldError(target, s.rules[target].Validate(value))
	}
	s.autoFillErr = ""
	s.runPass()
	notify := s.onAutoFill
	s.mu.Unlock()

	if notify != nil {
		notify(field, nil)
	}
}

// AutoFillFailed surfaces the lookup error as the banner-level auto-fill
// error and clears every mapped target to the empty string so no partial or
// stale auto-filled values survive. Failures are scoped to one capable
// field: other fields' values are untouched.
func (k sink) AutoFillFailed(field string, targets []string, err error) {
	s := k.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.autoFillErr = err.Error()
	for _, target := range targets {
		if !s.schema.HasLeaf(target) {
			continue
		}
		s.values[target] = ""
		delete(s.fieldErrs, target)
	}
	s.runPass()
	notify := s.onAutoFill
	s.mu.Unlock()

	if notify != nil {
		notify(field, err)
	}
}
