// Package tui runs a form as an interactive terminal session. A Runner walks
// the controller's active fields in declaration order, prompts for each one
// through a PromptDriver, and stores answers as it goes, so fields revealed
// mid-session are picked up and asked before submission. After the walk the
// runner submits; when validation rejects the payload it reports the messages
// and re-prompts only the fields that failed, looping until the submission is
// accepted, the session is aborted, or the context expires.
//
// The default driver speaks survey; tests script a stub instead.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/inputs"
	"github.com/goliatone/go-formflow/pkg/model"
)

const noneOption = "(none)"

// Runner drives one controller through a terminal session.
type Runner struct {
	controller *form.Controller
	driver     PromptDriver
	theme      Theme
	pageSize   int
}

// NewRunner wires a runner around an existing controller. Without
// WithPromptDriver the runner prompts through survey on the real terminal.
func NewRunner(controller *form.Controller, options ...Option) (*Runner, error) {
	if controller == nil {
		return nil, errors.New("tui: controller is required")
	}
	r := &Runner{
		controller: controller,
		driver:     newSurveyDriver(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Run conducts the session and returns the accepted submission. A rejected
// submission is returned as-is only when none of its messages point at a
// field the user could answer again; otherwise the runner keeps re-prompting.
// Abort surfaces as ErrAborted.
func (r *Runner) Run(ctx context.Context) (form.Submission, error) {
	if ctx == nil {
		return form.Submission{}, errors.New("tui: context is required")
	}

	if title := r.controller.Definition().Title; title != "" {
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+title)
	}

	if err := r.promptAll(ctx, nil); err != nil {
		return form.Submission{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return form.Submission{}, err
		}
		submission, err := r.controller.Submit(ctx)
		if err != nil {
			return form.Submission{}, err
		}
		if submission.Accepted {
			return submission, nil
		}

		r.reportRejection(ctx, submission)

		retry := r.retrySet(submission)
		if len(retry) == 0 {
			return submission, nil
		}
		if err := r.promptAll(ctx, retry); err != nil {
			return form.Submission{}, err
		}
	}
}

// promptAll asks each active field at most once, in declaration order. A nil
// filter asks everything; otherwise only the named fields. Answers can reveal
// new fields, so the active set is re-read until nothing is left to ask.
func (r *Runner) promptAll(ctx context.Context, filter map[string]bool) error {
	asked := make(map[string]bool)
	for {
		field, ok := r.nextField(asked, filter)
		if !ok {
			return nil
		}
		asked[field.Name] = true
		if err := r.promptField(ctx, field); err != nil {
			return err
		}
	}
}

func (r *Runner) nextField(asked, filter map[string]bool) (model.Field, bool) {
	for _, field := range r.controller.Fields() {
		if asked[field.Name] {
			continue
		}
		if filter != nil && !filter[field.Name] {
			continue
		}
		return field, true
	}
	return model.Field{}, false
}

// promptField asks until the answer survives normalization. Rejections other
// than input errors (an unknown field, a broken registry) end the session.
func (r *Runner) promptField(ctx context.Context, field model.Field) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := r.ask(ctx, field)
		if err != nil {
			return err
		}
		if err := r.controller.SetValue(field.Name, raw); err != nil {
			var inputErr *inputs.InputError
			if errors.As(err, &inputErr) {
				_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, field.Name, inputErr.Reason))
				continue
			}
			return err
		}
		return nil
	}
}

func (r *Runner) ask(ctx context.Context, field model.Field) (any, error) {
	switch field.Type {
	case model.FieldTypePassword:
		return r.driver.Password(ctx, InputConfig{
			Message: r.promptMessage(field),
			Help:    promptHelp(field),
		})
	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: r.promptMessage(field),
			Default: r.stringValue(field.Name),
			Help:    promptHelp(field),
		})
	case model.FieldTypeCheckbox:
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.promptMessage(field),
			Default: r.boolValue(field.Name),
			Help:    promptHelp(field),
		})
	case model.FieldTypeRadio, model.FieldTypeSelect:
		return r.askChoice(ctx, field)
	case model.FieldTypeRating:
		return r.askRating(ctx, field)
	case model.FieldTypeFile:
		return r.driver.Input(ctx, InputConfig{
			Message: r.promptMessage(field) + " (path)",
			Default: r.stringValue(field.Name),
			Help:    promptHelp(field),
		})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: r.promptMessage(field),
			Default: r.stringValue(field.Name),
			Help:    promptHelp(field),
		})
	}
}

// askChoice presents option labels and maps the picked index back to the
// option's value. Optional fields get a leading skip entry that stores the
// empty string.
func (r *Runner) askChoice(ctx context.Context, field model.Field) (any, error) {
	offset := 0
	labels := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, noneOption)
		offset = 1
	}
	for _, opt := range field.Options {
		labels = append(labels, optionLabel(opt))
	}

	current := r.stringValue(field.Name)
	defaultIdx := -1
	for i, opt := range field.Options {
		if opt.Value == current {
			defaultIdx = i + offset
			break
		}
	}
	if defaultIdx < 0 && offset == 1 {
		defaultIdx = 0
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.promptMessage(field),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         promptHelp(field),
		PageSize:     r.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if idx < offset {
		return "", nil
	}
	if idx >= len(labels) {
		return nil, fmt.Errorf("tui: selection out of range for %s", field.Name)
	}
	return field.Options[idx-offset].Value, nil
}

// askRating presents the scores 1..Max and applies the toggle rule: picking
// the stored score again clears the rating to zero.
func (r *Runner) askRating(ctx context.Context, field model.Field) (any, error) {
	current := r.intValue(field.Name)
	scores := make([]string, 0, field.Max)
	for i := 1; i <= field.Max; i++ {
		scores = append(scores, strconv.Itoa(i))
	}

	help := promptHelp(field)
	if help == "" {
		help = "picking the current score again clears it"
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.promptMessage(field),
		Options:      scores,
		DefaultIndex: current - 1,
		Help:         help,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(scores) {
		return nil, fmt.Errorf("tui: selection out of range for %s", field.Name)
	}
	return inputs.RatingToggle(current, idx+1), nil
}

func (r *Runner) reportRejection(ctx context.Context, submission form.Submission) {
	for _, msg := range submission.FormErrors {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
	}
	for _, field := range r.controller.Fields() {
		for _, msg := range submission.Errors[field.Name] {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.Name, msg))
		}
	}
}

// retrySet returns the rejected fields the user can still answer. Messages on
// fields that are no longer active have nothing to re-prompt.
func (r *Runner) retrySet(submission form.Submission) map[string]bool {
	retry := make(map[string]bool)
	for _, field := range r.controller.Fields() {
		if len(submission.Errors[field.Name]) > 0 {
			retry[field.Name] = true
		}
	}
	return retry
}

func (r *Runner) promptMessage(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	return r.theme.PromptPrefix + label
}

func promptHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func optionLabel(opt model.Option) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func (r *Runner) stringValue(name string) string {
	value, _ := r.controller.Value(name)
	s, _ := value.(string)
	return s
}

func (r *Runner) boolValue(name string) bool {
	value, _ := r.controller.Value(name)
	b, _ := value.(bool)
	return b
}

func (r *Runner) intValue(name string) int {
	value, _ := r.controller.Value(name)
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
