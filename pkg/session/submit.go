package session

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Result is the outcome of a successful submission: the raw value map
// filtered down to fields visible at submit time, and the nested object
// shaped by the schema's grouping and option-mapping rules.
type Result struct {
	ID       string         `json:"id"`
	Filtered map[string]any `json:"filtered"`
	Nested   map[string]any `json:"nested"`
}

// NestedJSON serializes the nested output object.
func (r Result) NestedJSON() ([]byte, error) {
	return json.MarshalIndent(r.Nested, "", "  ")
}

// Submit validates every visible field and, when all pass, produces the
// submission result. Values belonging to fields hidden at submit time never
// reach the output, even if they were populated earlier. The session then
// holds a transient "submitting" state for the configured delay, after which
// the submit listener fires and the form resets to its unset state.
//
// The result is returned immediately; only the success signal and reset are
// deferred.
func (s *Session) Submit() (Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, ErrClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return Result{}, ErrSubmitting
	}
	if failures := s.validateVisibleLocked(); len(failures) > 0 {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %d field(s) need attention", ErrValidation, len(failures))
	}

	raw := schema.CloneValues(s.values)
	filtered := FilterVisible(s.schema.Fields, raw)
	result := Result{
		ID:       uuid.NewString(),
		Filtered: filtered,
		Nested:   Transform(s.schema.Fields, filtered),
	}

	s.submitting = true
	s.submitTimer = time.AfterFunc(s.submitDelay, func() {
		s.finishSubmit(result)
	})
	s.mu.Unlock()

	return result, nil
}

func (s *Session) finishSubmit(result Result) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.submitting = false
	s.submitTimer = nil
	s.reset()
	notify := s.onSubmit
	s.mu.Unlock()

	if notify != nil {
		notify(result)
	}
}
