package wizard

import (
	"context"
	"fmt"
	"strings"
)

// Button labels exposed through Controls.
const (
	LabelNext       = "Next"
	LabelSubmit     = "Submit"
	LabelSubmitting = "Submitting…"
	LabelBack       = "Back"
)

// Machine holds the immutable step list and configuration of one wizard and
// computes state transitions.
type Machine struct {
	steps []Step
	index map[string]int
	cfg   Config
}

// NewMachine validates steps and freezes a copy of them.
func NewMachine(steps []Step, cfg Config) (*Machine, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	m := &Machine{
		steps: make([]Step, len(steps)),
		index: make(map[string]int, len(steps)),
		cfg:   cfg.normalize(),
	}
	for i, step := range steps {
		id := strings.TrimSpace(step.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: step %d has no id", ErrInvalidStep, i)
		}
		if _, dup := m.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidStep, id)
		}
		step.ID = id
		m.index[id] = i
		m.steps[i] = cloneStep(step)
	}
	return m, nil
}

// Build runs cfg.StepBuilder and constructs a Machine from its result.
func Build(ctx context.Context, cfg Config) (*Machine, error) {
	if cfg.StepBuilder == nil {
		return nil, ErrNoStepBuilder
	}
	steps, err := cfg.StepBuilder(ctx)
	if err != nil {
		return nil, err
	}
	return NewMachine(steps, cfg)
}

// Steps returns a copy of the step list.
func (m *Machine) Steps() []Step {
	out := make([]Step, len(m.steps))
	for i, step := range m.steps {
		out[i] = cloneStep(step)
	}
	return out
}

// Config returns the normalised configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Len returns the number of steps.
func (m *Machine) Len() int {
	return len(m.steps)
}

// Step returns steps[i].
func (m *Machine) Step(i int) (Step, bool) {
	if i < 0 || i >= len(m.steps) {
		return Step{}, false
	}
	return cloneStep(m.steps[i]), true
}

// Initial returns the hero state with no answers.
func (m *Machine) Initial() State {
	return State{
		Phase:            PhaseHero,
		FormData:         FormData{},
		SubmissionStatus: StatusIdle,
	}
}

// IsStepValid reports whether step i of s holds a valid answer.
func (m *Machine) IsStepValid(s State, i int) bool {
	return IsStepValid(m.steps, s.FormData, i)
}

// Submission builds the payload for s.
func (m *Machine) Submission(s State) Submission {
	return Submission{
		Endpoint:  m.cfg.Endpoint,
		Responses: Flatten(m.steps, s.FormData),
		Fields:    FlattenInquiry(m.steps, s.FormData),
	}
}

// Reduce returns the state that follows s after action. It never mutates s;
// actions that do not apply to the current phase return s unchanged.
func (m *Machine) Reduce(s State, action Action) State {
	switch act := action.(type) {
	case Start:
		if s.Phase != PhaseHero {
			return s
		}
		next := s.clone()
		next.Phase = PhaseStep
		next.CurrentStepIndex = 0
		next.SubmissionStatus = StatusIdle
		next.Message = ""
		next.ResponseID = ""
		next.ShowcaseVisible = false
		return next

	case Answer:
		return m.answer(s, act)
	case Select:
		return m.selectAll(s, act)
	case Toggle:
		return m.toggle(s, act)
	case AnswerField:
		return m.answerField(s, act)

	case Next:
		if s.Phase != PhaseStep {
			return s
		}
		i := s.CurrentStepIndex
		if !m.IsStepValid(s, i) {
			return s
		}
		if i == len(m.steps)-1 {
			return m.submit(s)
		}
		next := s.clone()
		next.markCompleted(i)
		next.CurrentStepIndex = i + 1
		return next

	case Back:
		if s.Phase != PhaseStep {
			return s
		}
		if s.CurrentStepIndex > 0 {
			next := s.clone()
			next.CurrentStepIndex--
			// a failed submission alert belongs to the last step only
			if next.Failed() {
				next.SubmissionStatus = StatusIdle
				next.Message = ""
			}
			return next
		}
		if !m.cfg.PreserveOnExit {
			return m.Initial()
		}
		next := s.clone()
		next.Phase = PhaseHero
		next.SubmissionStatus = StatusIdle
		next.Message = ""
		return next

	case Submit:
		return m.submit(s)

	case SubmitSucceeded:
		if s.Phase != PhaseSubmitting {
			return s
		}
		next := s.clone()
		next.Phase = PhaseSuccess
		next.SubmissionStatus = StatusSuccess
		next.Message = m.cfg.SuccessMessage
		next.ResponseID = act.ResponseID
		next.ShowcaseVisible = m.cfg.CompletionPolicy == ShowPostSubmissionView
		return next

	case SubmitFailed:
		if s.Phase != PhaseSubmitting {
			return s
		}
		next := s.clone()
		next.Phase = PhaseStep
		next.CurrentStepIndex = len(m.steps) - 1
		next.SubmissionStatus = StatusError
		next.Message = strings.TrimSpace(act.Message)
		if next.Message == "" {
			next.Message = m.cfg.GenericErrorMessage
		}
		return next

	case ResetElapsed:
		if s.Phase != PhaseSuccess || m.cfg.CompletionPolicy != ResetToHero {
			return s
		}
		return m.Initial()

	case Exit:
		if s.Phase == PhaseSubmitting {
			return s
		}
		return m.Initial()
	}
	return s
}

func (m *Machine) submit(s State) State {
	last := len(m.steps) - 1
	if s.Phase != PhaseStep || s.CurrentStepIndex != last || !m.IsStepValid(s, last) {
		return s
	}
	next := s.clone()
	next.markCompleted(last)
	next.Phase = PhaseSubmitting
	next.SubmissionStatus = StatusSubmitting
	next.Message = ""
	return next
}

// editable reports whether answers may change in s. Only the active step can
// be edited.
func (m *Machine) editable(s State, stepID string) (Step, bool) {
	if s.Phase != PhaseStep {
		return Step{}, false
	}
	i, ok := m.index[stepID]
	if !ok || i != s.CurrentStepIndex {
		return Step{}, false
	}
	return m.steps[i], true
}

func (m *Machine) answer(s State, act Answer) State {
	step, ok := m.editable(s, act.StepID)
	if !ok {
		return s
	}
	switch step.Field.FieldType {
	case FieldTypeCheckbox, FieldTypeForm:
		return s
	case FieldTypeRadio, FieldTypeSelect:
		if len(step.Field.Options) > 0 && act.Value != "" && !step.HasOption(act.Value) {
			return s
		}
	}
	next := s.clone()
	next.FormData[step.ID] = act.Value
	return next
}

func (m *Machine) selectAll(s State, act Select) State {
	step, ok := m.editable(s, act.StepID)
	if !ok || step.Field.FieldType != FieldTypeCheckbox {
		return s
	}
	selected := make([]string, 0, len(act.Values))
	for _, option := range step.Field.Options {
		for _, value := range act.Values {
			if value == option {
				selected = append(selected, option)
				break
			}
		}
	}
	next := s.clone()
	next.FormData[step.ID] = selected
	return next
}

func (m *Machine) toggle(s State, act Toggle) State {
	step, ok := m.editable(s, act.StepID)
	if !ok || step.Field.FieldType != FieldTypeCheckbox || !step.HasOption(act.Option) {
		return s
	}
	current := s.FormData.List(step.ID)
	var values []string
	removed := false
	for _, v := range current {
		if v == act.Option {
			removed = true
			continue
		}
		values = append(values, v)
	}
	if !removed {
		values = append(values, act.Option)
	}
	return m.selectAll(s, Select{StepID: step.ID, Values: values})
}

func (m *Machine) answerField(s State, act AnswerField) State {
	step, ok := m.editable(s, act.StepID)
	if !ok || step.Field.FieldType != FieldTypeForm || strings.TrimSpace(act.Field) == "" {
		return s
	}
	next := s.clone()
	fields := next.FormData.Fields(step.ID)
	if fields == nil {
		fields = make(map[string]string)
	}
	fields[act.Field] = act.Value
	next.FormData[step.ID] = fields
	return next
}

// Controls describes the navigation buttons for s.
type Controls struct {
	NextLabel   string
	NextEnabled bool
	BackEnabled bool
	IsLastStep  bool
}

// Controls computes the navigation view model for s.
func (m *Machine) Controls(s State) Controls {
	last := s.CurrentStepIndex == len(m.steps)-1
	switch s.Phase {
	case PhaseSubmitting:
		return Controls{NextLabel: LabelSubmitting, IsLastStep: true}
	case PhaseStep:
		label := LabelNext
		if last {
			label = LabelSubmit
		}
		return Controls{
			NextLabel:   label,
			NextEnabled: m.IsStepValid(s, s.CurrentStepIndex),
			BackEnabled: true,
			IsLastStep:  last,
		}
	default:
		return Controls{NextLabel: LabelNext}
	}
}

func cloneStep(step Step) Step {
	step.Field = cloneField(step.Field)
	return step
}

func cloneField(field FieldSpec) FieldSpec {
	field.Options = append([]string(nil), field.Options...)
	if len(field.Fields) > 0 {
		subs := make([]FieldSpec, len(field.Fields))
		for i, sub := range field.Fields {
			subs[i] = cloneField(sub)
		}
		field.Fields = subs
	}
	return field
}
