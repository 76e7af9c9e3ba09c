// Package tui drives a wizard.Controller from the terminal using survey
// prompts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// BackCommand typed into a text prompt navigates back.
const BackCommand = "/back"

const backHelp = "Type " + BackCommand + " to return to the previous question."

// Runner walks one wizard run in the terminal.
type Runner struct {
	ctrl         *wizard.Controller
	driver       PromptDriver
	theme        Theme
	hero         content.Hero
	fieldOptions map[string][]string
	backLabel    string
	logger       *zap.Logger
}

// New constructs a Runner with the survey driver unless overridden.
func New(ctrl *wizard.Controller, options ...Option) (*Runner, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	r := &Runner{
		ctrl:         ctrl,
		fieldOptions: make(map[string][]string),
		backLabel:    "← Back",
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Run prompts until the wizard succeeds, the user declines to start, or
// input fails. It returns the last observed state.
func (r *Runner) Run(ctx context.Context) (wizard.State, error) {
	if ctx == nil {
		return wizard.State{}, errors.New("tui: context is required")
	}

	reported := false
	for {
		s := r.ctrl.State()
		if err := ctx.Err(); err != nil {
			return s, err
		}

		switch s.Phase {
		case wizard.PhaseHero:
			start, err := r.askStart(ctx)
			if err != nil || !start {
				return s, err
			}
			r.ctrl.Dispatch(wizard.Start{})

		case wizard.PhaseStep:
			if s.Failed() && !reported {
				reported = true
				if err := r.driver.Info(ctx, r.theme.ErrorPrefix+s.Message); err != nil {
					return s, err
				}
			}
			back, err := r.askStep(ctx, s)
			if err != nil {
				return r.ctrl.State(), err
			}
			if back {
				r.ctrl.Dispatch(wizard.Back{})
				continue
			}
			r.ctrl.Dispatch(wizard.Next{})

		case wizard.PhaseSubmitting:
			reported = false
			if err := r.driver.Info(ctx, r.theme.InfoPrefix+wizard.LabelSubmitting); err != nil {
				return s, err
			}
			r.ctrl.Wait()
			if next := r.ctrl.State(); next.Phase == wizard.PhaseSubmitting {
				return next, wizard.ErrClosed
			}

		case wizard.PhaseSuccess:
			msg := s.Message
			if s.ResponseID != "" {
				msg = fmt.Sprintf("%s (reference %s)", msg, s.ResponseID)
			}
			r.logger.Debug("terminal wizard completed", zap.String("response_id", s.ResponseID))
			return s, r.driver.Info(ctx, r.theme.InfoPrefix+msg)

		default:
			return s, fmt.Errorf("tui: unexpected phase %q", s.Phase)
		}
	}
}

func (r *Runner) askStart(ctx context.Context) (bool, error) {
	if r.hero.Title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+r.hero.Title); err != nil {
			return false, err
		}
	}
	if r.hero.Subtitle != "" {
		if err := r.driver.Info(ctx, r.hero.Subtitle); err != nil {
			return false, err
		}
	}
	label := r.hero.CTA
	if label == "" {
		label = "Start"
	}
	return r.driver.Confirm(ctx, ConfirmConfig{Message: label + "?", Default: true})
}

// askStep prompts for the current step and dispatches the answer. It
// reports true when the user chose to go back.
func (r *Runner) askStep(ctx context.Context, s wizard.State) (bool, error) {
	m := r.ctrl.Machine()
	step, ok := m.Step(s.CurrentStepIndex)
	if !ok {
		return false, fmt.Errorf("tui: no step at index %d", s.CurrentStepIndex)
	}
	message := fmt.Sprintf("[%d/%d] %s", s.CurrentStepIndex+1, m.Len(), step.Question)

	switch step.Field.FieldType {
	case wizard.FieldTypeRadio, wizard.FieldTypeSelect:
		current, _ := s.FormData.String(step.ID)
		value, back, err := r.choose(ctx, message, step.Field.Options, current)
		if err != nil || back {
			return back, err
		}
		if value != "" {
			r.ctrl.Dispatch(wizard.Answer{StepID: step.ID, Value: value})
		}
		return false, nil

	case wizard.FieldTypeCheckbox:
		return r.askCheckbox(ctx, message, step, s)

	case wizard.FieldTypeForm:
		if err := r.driver.Info(ctx, message); err != nil {
			return false, err
		}
		values := s.FormData.Fields(step.ID)
		for _, sub := range subFields(step.Field) {
			value, back, err := r.askSubField(ctx, sub, values[sub.FieldName])
			if err != nil || back {
				return back, err
			}
			r.ctrl.Dispatch(wizard.AnswerField{StepID: step.ID, Field: sub.FieldName, Value: value})
		}
		return false, nil

	case wizard.FieldTypeTextarea:
		current, _ := s.FormData.String(step.ID)
		value, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: backHelp})
		if err != nil {
			return false, err
		}
		if isBack(value) {
			return true, nil
		}
		r.ctrl.Dispatch(wizard.Answer{StepID: step.ID, Value: strings.TrimSpace(value)})
		return false, nil

	default:
		current, _ := s.FormData.String(step.ID)
		value, err := r.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: backHelp})
		if err != nil {
			return false, err
		}
		if isBack(value) {
			return true, nil
		}
		r.ctrl.Dispatch(wizard.Answer{StepID: step.ID, Value: strings.TrimSpace(value)})
		return false, nil
	}
}

func (r *Runner) askCheckbox(ctx context.Context, message string, step wizard.Step, s wizard.State) (bool, error) {
	options := append(append([]string(nil), step.Field.Options...), r.backLabel)
	selected, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  options,
		Defaults: indicesOf(step.Field.Options, s.FormData.List(step.ID)),
	})
	if err != nil {
		return false, err
	}

	values := make([]string, 0, len(selected))
	for _, idx := range selected {
		if idx == len(step.Field.Options) {
			return true, nil
		}
		if idx >= 0 && idx < len(step.Field.Options) {
			values = append(values, step.Field.Options[idx])
		}
	}
	r.ctrl.Dispatch(wizard.Select{StepID: step.ID, Values: values})
	return false, nil
}

func (r *Runner) askSubField(ctx context.Context, sub wizard.FieldSpec, current string) (string, bool, error) {
	label := sub.Label
	if label == "" {
		label = sub.FieldName
	}

	options := sub.Options
	if len(options) == 0 {
		options = r.fieldOptions[sub.FieldName]
	}
	if len(options) > 0 {
		return r.choose(ctx, label, options, current)
	}

	value, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: backHelp})
	if err != nil {
		return "", false, err
	}
	if isBack(value) {
		return "", true, nil
	}
	return strings.TrimSpace(value), false, nil
}

// choose asks a single-choice question with a trailing back option.
func (r *Runner) choose(ctx context.Context, message string, options []string, current string) (string, bool, error) {
	choices := append(append([]string(nil), options...), r.backLabel)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      choices,
		DefaultIndex: indexOf(options, current),
		PageSize:     10,
	})
	if err != nil {
		return "", false, err
	}
	switch {
	case idx == len(options):
		return "", true, nil
	case idx < 0 || idx > len(options):
		return "", false, nil
	}
	return options[idx], false, nil
}

// subFields returns declared sub-fields, or the personal-info set when a
// composite declares none.
func subFields(field wizard.FieldSpec) []wizard.FieldSpec {
	if len(field.Fields) > 0 {
		return field.Fields
	}
	return wizard.PersonalInfoField(field.FieldName).Fields
}

func isBack(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), BackCommand)
}
