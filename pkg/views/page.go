// Package views renders wizard states to HTML with pongo2 templates. Every
// phase maps to one template: hero, step (also used while submitting),
// success, and a terminal error page for content-load failures.
package views

import (
	"io"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// Template names.
const (
	TemplateHero    = "hero"
	TemplateStep    = "step"
	TemplateSuccess = "success"
	TemplateError   = "error"
)

// DefaultLoadErrorMessage is shown when the form could not be loaded.
const DefaultLoadErrorMessage = "We could not load this form. Please try again later."

// PageOption configures a Renderer.
type PageOption func(*Renderer)

// WithTitle sets the document title.
func WithTitle(title string) PageOption {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithHero sets the hero block.
func WithHero(hero content.Hero) PageOption {
	return func(r *Renderer) {
		r.hero = hero
	}
}

// WithFieldOptions supplies choices for a composite sub-field, e.g. the
// country list.
func WithFieldOptions(field string, options []string) PageOption {
	return func(r *Renderer) {
		r.fieldOptions[field] = append([]string(nil), options...)
	}
}

// WithLoadErrorMessage overrides the content-load failure text.
func WithLoadErrorMessage(message string) PageOption {
	return func(r *Renderer) {
		if message != "" {
			r.loadError = message
		}
	}
}

// Renderer turns machine states into pages.
type Renderer struct {
	engine       *Engine
	title        string
	hero         content.Hero
	fieldOptions map[string][]string
	loadError    string
}

// NewRenderer wraps engine.
func NewRenderer(engine *Engine, opts ...PageOption) *Renderer {
	r := &Renderer{
		engine:       engine,
		title:        "Get in touch",
		fieldOptions: make(map[string][]string),
		loadError:    DefaultLoadErrorMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// TemplateFor returns the template used for s.
func TemplateFor(s wizard.State) string {
	switch s.Phase {
	case wizard.PhaseHero:
		return TemplateHero
	case wizard.PhaseSuccess:
		return TemplateSuccess
	default:
		return TemplateStep
	}
}

// Render writes the page for s.
func (r *Renderer) Render(w io.Writer, m *wizard.Machine, s wizard.State) error {
	_, err := r.engine.RenderTemplate(TemplateFor(s), r.Data(m, s), w)
	return err
}

// RenderError writes the terminal content-load failure page. The cause is
// not shown to the user.
func (r *Renderer) RenderError(w io.Writer) error {
	_, err := r.engine.RenderTemplate(TemplateError, map[string]any{
		"title":   r.title,
		"phase":   "error",
		"message": r.loadError,
	}, w)
	return err
}

// Data builds the template context for s.
func (r *Renderer) Data(m *wizard.Machine, s wizard.State) map[string]any {
	controls := m.Controls(s)
	data := map[string]any{
		"title":       r.title,
		"phase":       string(s.Phase),
		"status":      string(s.SubmissionStatus),
		"message":     s.Message,
		"response_id": s.ResponseID,
		"showcase":    s.ShowcaseVisible,
		"hero": map[string]any{
			"title":    r.hero.Title,
			"subtitle": r.hero.Subtitle,
			"media":    r.hero.Media,
			"cta":      r.hero.CTA,
		},
		"controls": map[string]any{
			"next_label":   controls.NextLabel,
			"next_enabled": controls.NextEnabled,
			"back_enabled": controls.BackEnabled,
			"is_last":      controls.IsLastStep,
		},
		"progress": progress(m, s),
	}

	if step, ok := m.Step(s.CurrentStepIndex); ok && s.Phase != wizard.PhaseHero {
		data["step"] = r.stepData(step, s, m.Len())
	}
	return data
}

func (r *Renderer) stepData(step wizard.Step, s wizard.State, total int) map[string]any {
	value, _ := s.FormData.String(step.ID)
	selected := s.FormData.List(step.ID)

	options := make([]map[string]any, 0, len(step.Field.Options))
	for _, opt := range step.Field.Options {
		options = append(options, map[string]any{
			"value":   opt,
			"checked": contains(selected, opt),
		})
	}

	var fields []map[string]any
	if step.Field.FieldType == wizard.FieldTypeForm {
		values := s.FormData.Fields(step.ID)
		for _, sub := range subFields(step.Field) {
			label := sub.Label
			if label == "" {
				label = sub.FieldName
			}
			fields = append(fields, map[string]any{
				"name":     sub.FieldName,
				"label":    label,
				"type":     string(sub.FieldType),
				"required": sub.Required,
				"value":    values[sub.FieldName],
				"options":  r.subOptions(sub),
			})
		}
	}

	return map[string]any{
		"id":       step.ID,
		"number":   s.CurrentStepIndex + 1,
		"total":    total,
		"question": step.Question,
		"image":    step.Image,
		"name":     step.Field.FieldName,
		"type":     string(step.Field.FieldType),
		"required": step.Field.Required,
		"value":    value,
		"options":  options,
		"fields":   fields,
	}
}

func (r *Renderer) subOptions(sub wizard.FieldSpec) []string {
	if len(sub.Options) > 0 {
		return sub.Options
	}
	return r.fieldOptions[sub.FieldName]
}

// subFields returns declared sub-fields, or the personal-info set when a
// composite declares none.
func subFields(field wizard.FieldSpec) []wizard.FieldSpec {
	if len(field.Fields) > 0 {
		return field.Fields
	}
	return wizard.PersonalInfoField(field.FieldName).Fields
}

func progress(m *wizard.Machine, s wizard.State) int {
	if m.Len() == 0 {
		return 0
	}
	if s.Phase == wizard.PhaseSuccess {
		return 100
	}
	return len(s.CompletedSteps) * 100 / m.Len()
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
