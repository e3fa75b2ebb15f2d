// Package autofill watches trigger fields and coalesces their changes into
// debounced, deduplicated lookup calls whose results flow back into the form
// through a Sink. It owns no form state beyond the per-field cache of the
// last submitted trigger tuple.
package autofill

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/lookup"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// DefaultDebounce is the quiet period applied to each reactive pass.
const DefaultDebounce = 500 * time.Millisecond

// Sink receives the outcome of resolved lookups. The session implements it;
// both methods are invoked from lookup goroutines, never while the
// orchestrator's own lock is held.
type Sink interface {
	// AutoFillResolved delivers the mapped target writes for one capable
	// field after a successful lookup. Keys are target field names.
	AutoFillResolved(field string, writes map[string]string)

	// AutoFillFailed reports a failed lookup together with the field's
	// mapped target names, which must be cleared to empty strings so no
	// partial auto-filled state survives.
	AutoFillFailed(field string, targets []string, err error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce overrides the quiet period. Values <= 0 fall back to the
// default.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Orchestrator coordinates the auto-fill lifecycle for one schema instance.
//
// Each Observe call replaces the pending snapshot and restarts the debounce
// timer, so only the last state within a burst is evaluated. When the timer
// fires, every capable field whose trigger values are all truthy builds its
// ordered trigger tuple; tuples equal to the last submitted one are skipped,
// and new tuples are recorded before the lookup is issued so a concurrent
// pass cannot re-submit the same input while the first call is in flight.
//
// Calls for the same field are not serialized, only deduplicated by tuple
// equality. If a field becomes ready again with a different tuple while a
// prior call is pending, a second call is issued and results are applied in
// completion order, even when that lets a stale result land last. That race
// is inherited behavior; the session drops writes only when the whole
// instance has been torn down.
type Orchestrator struct {
	mu       sync.Mutex
	service  lookup.Service
	sink     Sink
	fields   []schema.Field
	debounce time.Duration

	pending map[string]any
	timer   *time.Timer
	last    map[string]map[string]string

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New builds an orchestrator for the auto-fill capable fields of a schema.
// A nil service disables scheduling entirely.
func New(sch schema.Schema, service lookup.Service, sink Sink, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		service:  service,
		sink:     sink,
		fields:   sch.AutoFillFields(),
		debounce: DefaultDebounce,
		last:     make(map[string]map[string]string),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Observe records the latest value snapshot and (re)arms the debounce timer.
// Calls after Close are ignored.
func (o *Orchestrator) Observe(values map[string]any) {
	if o == nil || o.service == nil || o.sink == nil || len(o.fields) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.pending = schema.CloneValues(values)
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.fire)
}

// Close cancels any pending debounce timer and marks the orchestrator torn
// down; no further lookups are issued. In-flight calls observe a cancelled
// context but are not forcibly aborted.
func (o *Orchestrator) Close() {
	if o == nil {
		return
	}
	o.mu.Lock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.pending = nil
	o.mu.Unlock()
	o.cancel()
}

func (o *Orchestrator) fire() {
	type pendingCall struct {
		field schema.Field
		input map[string]string
	}

	o.mu.Lock()
	if o.closed || o.pending == nil {
		o.mu.Unlock()
		return
	}
	values := o.pending
	o.pending = nil

	var calls []pendingCall
	for _, field := range o.fields {
		if !ready(field, values) {
			continue
		}
		input := triggerTuple(field, values)
		if maps.Equal(o.last[field.Name], input) {
			continue
		}
		// Record before the call resolves so an identical tuple observed
		// while this call is in flight does not re-invoke the lookup.
		o.last[field.Name] = input
		calls = append(calls, pendingCall{field: field, input: input})
	}
	o.mu.Unlock()

	for _, call := range calls {
		go o.invoke(call.field, call.input)
	}
}

func (o *Orchestrator) invoke(field schema.Field, input map[string]string) {
	result, err := o.service.Lookup(o.ctx, input)
	if err != nil {
		o.sink.AutoFillFailed(field.Name, targets(field), err)
		return
	}

	writes := make(map[string]string, len(field.APIAutoFill))
	for resultKey, target := range field.APIAutoFill {
		if value, ok := result[resultKey]; ok {
			writes[target] = value
		}
	}
	o.sink.AutoFillResolved(field.Name, writes)
}

// ready reports whether every trigger field currently holds a truthy value.
func ready(field schema.Field, values map[string]any) bool {
	for _, trigger := range field.APITrigger {
		if !schema.Truthy(values[trigger]) {
			return false
		}
	}
	return true
}

// triggerTuple snapshots the trigger values in apiTrigger order.
func triggerTuple(field schema.Field, values map[string]any) map[string]string {
	tuple := make(map[string]string, len(field.APITrigger))
	for _, trigger := range field.APITrigger {
		tuple[trigger] = schema.ValueString(values[trigger])
	}
	return tuple
}

func targets(field schema.Field) []string {
	out := make([]string, 0, len(field.APIAutoFill))
	for _, target := range field.APIAutoFill {
		out = append(out, target)
	}
	return out
}
