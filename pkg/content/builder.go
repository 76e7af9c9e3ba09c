package content

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// BuildSteps maps the sections of def to wizard steps: one step per section
// with at least one field, options taken from the section's field names.
// CMS text is stripped of markup.
func BuildSteps(def FormDefinition) []wizard.Step {
	var steps []wizard.Step
	used := make(map[string]struct{})

	for i, section := range def.Sections {
		fields := cleanFields(section.Fields)
		if len(fields) == 0 {
			continue
		}

		title := sanitizeText(section.Title)
		question := sanitizeText(section.Question)
		if question == "" {
			question = title
		}

		id := uniqueID(used, stepID(section, title, i))
		name := strings.TrimSpace(section.FieldName)
		if name == "" {
			name = title
		}
		if name == "" {
			name = id
		}

		fieldType := parseFieldType(section.FieldType, len(fields))
		spec := wizard.FieldSpec{
			FieldName: name,
			FieldType: fieldType,
			Required:  section.Required == nil || *section.Required,
			Options:   fields,
		}
		if fieldType == wizard.FieldTypeForm {
			spec.Fields = compositeFields(fields)
		}

		steps = append(steps, wizard.Step{
			ID:       id,
			Question: question,
			Field:    spec,
			Image:    strings.TrimSpace(section.Image),
		})
	}
	return steps
}

// LoadForm fetches src and returns the first published form of formType.
// Fetch and decode failures wrap ErrLoadFailed; a missing form wraps
// ErrNoForms.
func LoadForm(ctx context.Context, loader *Loader, src Source, formType string) (FormDefinition, error) {
	if loader == nil {
		loader = NewLoader()
	}
	raw, err := loader.Load(ctx, src)
	if err != nil {
		return FormDefinition{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defs, err := ParseDocuments(raw)
	if err != nil {
		return FormDefinition{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return FirstPublished(defs, formType)
}

// NewStepBuilder returns a wizard.StepBuilder backed by CMS content.
func NewStepBuilder(loader *Loader, src Source, formType string) wizard.StepBuilder {
	return func(ctx context.Context) ([]wizard.Step, error) {
		def, err := LoadForm(ctx, loader, src, formType)
		if err != nil {
			return nil, err
		}
		steps := BuildSteps(def)
		if len(steps) == 0 {
			return nil, fmt.Errorf("%w: form %q has no sections with fields", ErrNoForms, def.ID)
		}
		return steps, nil
	}
}

func parseFieldType(raw string, fieldCount int) wizard.FieldType {
	switch ft := wizard.FieldType(strings.ToLower(strings.TrimSpace(raw))); ft {
	case wizard.FieldTypeRadio, wizard.FieldTypeCheckbox, wizard.FieldTypeSelect,
		wizard.FieldTypeText, wizard.FieldTypeEmail, wizard.FieldTypeTel,
		wizard.FieldTypeTextarea, wizard.FieldTypeForm:
		return ft
	case "multiselect", "multi-select":
		return wizard.FieldTypeCheckbox
	case "personal", "personal-info", "contact":
		return wizard.FieldTypeForm
	}
	if fieldCount == 1 {
		return wizard.FieldTypeText
	}
	return wizard.FieldTypeRadio
}

func compositeFields(names []string) []wizard.FieldSpec {
	out := make([]wizard.FieldSpec, 0, len(names))
	for _, name := range names {
		out = append(out, wizard.FieldSpec{
			FieldName: name,
			FieldType: inferSubFieldType(name),
			Label:     name,
			Required:  true,
		})
	}
	return out
}

func inferSubFieldType(name string) wizard.FieldType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return wizard.FieldTypeEmail
	case strings.Contains(lower, "phone"), strings.Contains(lower, "tel"):
		return wizard.FieldTypeTel
	case strings.Contains(lower, "country"):
		return wizard.FieldTypeSelect
	default:
		return wizard.FieldTypeText
	}
}

func cleanFields(fields []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := sanitizeText(field)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func stepID(section Section, title string, index int) string {
	if id := slug(section.FieldName); id != "" {
		return id
	}
	if id := slug(title); id != "" {
		return id
	}
	return fmt.Sprintf("section-%d", index)
}

// uniqueID returns id, or the first free "id-N" when id is taken, and marks
// the result as used.
func uniqueID(used map[string]struct{}, id string) string {
	candidate := id
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
}

func slug(raw string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}
