// Package tui walks a live form session through terminal prompts. Unlike the
// vanilla renderer it exercises the full evaluation loop: answers feed the
// session one at a time, visibility reshapes the remaining prompts, and
// auto-fill results surface as prompt defaults.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formflow/pkg/lookup"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/validation"
)

const skipChoice = "(leave empty)"

// Option configures the renderer.
type Option func(*Renderer)

// WithDriver injects a custom prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLookup wires the auto-fill lookup service into the session the
// walkthrough drives.
func WithLookup(service lookup.Service) Option {
	return func(r *Renderer) {
		r.service = service
	}
}

// WithDebounce overrides the session's auto-fill quiet period.
func WithDebounce(d time.Duration) Option {
	return func(r *Renderer) {
		r.debounce = d
	}
}

// WithSettle overrides how long the walkthrough waits after the last answer
// for pending auto-fill lookups to land before finishing.
func WithSettle(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.settle = d
		}
	}
}

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver   PromptDriver
	service  lookup.Service
	debounce time.Duration
	settle   time.Duration
}

// New constructs a TUI renderer with the survey-backed driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver: newSurveyDriver(),
		settle: time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "tui" }

// ContentType reports the serialization format of the walkthrough output.
func (r *Renderer) ContentType() string { return "application/json" }

// Render runs the interactive walkthrough and returns the nested submission
// output as JSON. Prefilled values from the options are applied before the
// first prompt.
func (r *Renderer) Render(ctx context.Context, sch schema.Schema, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{
		session.WithAutoFillListener(func(field string, err error) {
			if err != nil {
				_ = r.driver.Info(ctx, fmt.Sprintf("auto-fill failed: %v", err))
				return
			}
			_ = r.driver.Info(ctx, fmt.Sprintf("auto-filled from %s", field))
		}),
	}
	if r.service != nil {
		sessionOpts = append(sessionOpts, session.WithLookup(r.service))
	}
	if r.debounce > 0 {
		sessionOpts = append(sessionOpts, session.WithDebounce(r.debounce))
	}

	form := session.New(sch, sessionOpts...)
	defer form.Close()

	answered := make(map[string]struct{}, len(options.Values))
	for name, value := range options.Values {
		form.SetValue(name, value)
		answered[name] = struct{}{}
	}

	if err := r.walk(ctx, form, answered); err != nil {
		return nil, err
	}

	if failures := form.Validate(); len(failures) > 0 {
		if err := r.repair(ctx, form, failures); err != nil {
			return nil, err
		}
	}

	result, err := form.Submit()
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}
	return result.NestedJSON()
}

// walk prompts every visible, unanswered leaf in document order; prefilled
// fields start out answered. After the queue drains it waits for pending
// auto-fill lookups to settle, then checks once more: a lookup write can
// reveal new fields.
func (r *Renderer) walk(ctx context.Context, form *session.Session, answered map[string]struct{}) error {
	for {
		field, ok := r.next(form, answered)
		if !ok {
			r.wait(ctx)
			if field, ok = r.next(form, answered); !ok {
				return nil
			}
		}
		if err := r.prompt(ctx, form, field); err != nil {
			return err
		}
		answered[field.Name] = struct{}{}
	}
}

func (r *Renderer) next(form *session.Session, answered map[string]struct{}) (schema.Field, bool) {
	for _, field := range form.VisibleFields() {
		if _, done := answered[field.Name]; !done {
			return field, true
		}
	}
	return schema.Field{}, false
}

func (r *Renderer) wait(ctx context.Context) {
	if r.service == nil {
		return
	}
	timer := time.NewTimer(r.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (r *Renderer) prompt(ctx context.Context, form *session.Session, field schema.Field) error {
	current, _ := form.Value(field.Name)
	rules := form.Rules(field.Name)
	label := field.Label
	if label == "" {
		label = field.Name
	}

	switch field.Type {
	case schema.FieldTypeCheckbox:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: schema.Truthy(current),
		})
		if err != nil {
			return err
		}
		form.SetValue(field.Name, answer)

	case schema.FieldTypeDropdown, schema.FieldTypeRadio:
		choices := make([]string, 0, len(field.Options)+1)
		if !rules.Required() {
			choices = append(choices, skipChoice)
		}
		defaultIndex := 0
		for _, opt := range field.Options {
			if opt.Label == schema.ValueString(current) {
				defaultIndex = len(choices)
			}
			choices = append(choices, opt.Label)
		}
		index, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      choices,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return err
		}
		if !rules.Required() && index == 0 {
			form.SetValue(field.Name, "")
			return nil
		}
		form.SetValue(field.Name, choices[index])

	case schema.FieldTypeTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: schema.ValueString(current),
		})
		if err != nil {
			return err
		}
		form.SetValue(field.Name, answer)

	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   schema.ValueString(current),
			Validator: ruleValidator(rules),
		})
		if err != nil {
			return err
		}
		form.SetValue(field.Name, answer)
	}

	return nil
}

// repair re-prompts just the fields that failed validation, typically ones
// populated by auto-fill or prefill rather than a prompt.
func (r *Renderer) repair(ctx context.Context, form *session.Session, failures map[string]string) error {
	for _, field := range form.VisibleFields() {
		if _, failed := failures[field.Name]; !failed {
			continue
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Name, failures[field.Name])); err != nil {
			return err
		}
		if err := r.prompt(ctx, form, field); err != nil {
			return err
		}
	}
	if remaining := form.Validate(); len(remaining) > 0 {
		return fmt.Errorf("tui: %d field(s) still failing validation", len(remaining))
	}
	return nil
}

func ruleValidator(rules validation.Rules) func(string) error {
	return func(value string) error {
		if msg := rules.Validate(value); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}
