package content

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoForms reports that no published form of the requested type exists
	// or that the form has no usable sections.
	ErrNoForms = errors.New("content: no forms found")
	// ErrLoadFailed wraps fetch and parse failures of CMS content.
	ErrLoadFailed = errors.New("content: failed to load")
)

// FormDefinition is a CMS form document: an ordered list of sections plus the
// hero media shown before the first step.
type FormDefinition struct {
	ID        string    `yaml:"id" json:"id"`
	Type      string    `yaml:"type" json:"type"`
	Title     string    `yaml:"title" json:"title"`
	Published *bool     `yaml:"published,omitempty" json:"published,omitempty"`
	Hero      Hero      `yaml:"hero" json:"hero"`
	Sections  []Section `yaml:"sections" json:"sections"`
}

// IsPublished treats documents without an explicit flag as published.
func (d FormDefinition) IsPublished() bool {
	return d.Published == nil || *d.Published
}

// Hero is the promotional block of the hero screen.
type Hero struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Media    string `yaml:"media" json:"media"`
	CTA      string `yaml:"cta" json:"cta"`
}

// Section is one CMS section; it becomes a step when it lists at least one
// field.
type Section struct {
	Title     string   `yaml:"title" json:"title"`
	Question  string   `yaml:"question" json:"question"`
	FieldName string   `yaml:"fieldName" json:"fieldName"`
	FieldType string   `yaml:"fieldType" json:"fieldType"`
	Required  *bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Fields    []string `yaml:"fields" json:"fields"`
	Image     string   `yaml:"image" json:"image"`
}

// ParseDocuments decodes JSON or YAML CMS content. It accepts a list of
// forms, a single form, or an envelope with a "forms" or "result" key.
func ParseDocuments(raw []byte) ([]FormDefinition, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("content: document is empty")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("content: decode document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("content: document is empty")
	}
	return decodeForms(root.Content[0])
}

func decodeForms(node *yaml.Node) ([]FormDefinition, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var defs []FormDefinition
		if err := node.Decode(&defs); err != nil {
			return nil, fmt.Errorf("content: decode forms: %w", err)
		}
		return defs, nil
	case yaml.MappingNode:
		if inner := envelope(node); inner != nil {
			return decodeForms(inner)
		}
		var def FormDefinition
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("content: decode form: %w", err)
		}
		return []FormDefinition{def}, nil
	default:
		return nil, fmt.Errorf("content: unexpected document node kind %d", node.Kind)
	}
}

func envelope(node *yaml.Node) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "forms", "result":
			return node.Content[i+1]
		}
	}
	return nil
}

// FirstPublished returns the first published form whose type matches
// formType (case-insensitive). An empty formType matches any form.
func FirstPublished(defs []FormDefinition, formType string) (FormDefinition, error) {
	want := strings.TrimSpace(formType)
	for _, def := range defs {
		if !def.IsPublished() {
			continue
		}
		if want == "" || strings.EqualFold(def.Type, want) {
			return def, nil
		}
	}
	if want == "" {
		return FormDefinition{}, ErrNoForms
	}
	return FormDefinition{}, fmt.Errorf("%w: type %q", ErrNoForms, want)
}
