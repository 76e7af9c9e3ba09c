// Package leadwizard wires CMS content, the wizard state machine and the
// submission client into ready-to-run survey and inquiry flows.
package leadwizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/submission"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// Flavour names one of the two lead flows.
type Flavour string

const (
	// Survey collects product answers and resets to the hero once done.
	Survey Flavour = "survey"
	// Inquiry collects contact details and keeps a post-submission view.
	Inquiry Flavour = "inquiry"
)

// ErrInsecureSource is returned when a plain http content source is used
// without AllowHTTP.
var ErrInsecureSource = errors.New("leadwizard: plain http content source not allowed")

// ParseFlavour maps a user supplied name onto a Flavour.
func ParseFlavour(raw string) (Flavour, error) {
	switch Flavour(strings.ToLower(strings.TrimSpace(raw))) {
	case Survey:
		return Survey, nil
	case Inquiry:
		return Inquiry, nil
	}
	return "", fmt.Errorf("leadwizard: unknown flavour %q", raw)
}

// SurveyConfig returns the survey defaults. fns run after the defaults.
func SurveyConfig(builder wizard.StepBuilder, fns ...wizard.ConfigFn) wizard.Config {
	base := []wizard.ConfigFn{
		wizard.WithCompletionPolicy(wizard.ResetToHero),
		wizard.WithEndpoint(submission.SurveyPath),
		wizard.WithStepBuilder(builder),
	}
	return wizard.NewConfig(append(base, fns...)...)
}

// InquiryConfig returns the inquiry defaults. fns run after the defaults.
func InquiryConfig(builder wizard.StepBuilder, fns ...wizard.ConfigFn) wizard.Config {
	base := []wizard.ConfigFn{
		wizard.WithCompletionPolicy(wizard.ShowPostSubmissionView),
		wizard.WithEndpoint(submission.InquiryPath),
		wizard.WithStepBuilder(builder),
	}
	return wizard.NewConfig(append(base, fns...)...)
}

// ConfigFor dispatches to SurveyConfig or InquiryConfig.
func ConfigFor(flavour Flavour, builder wizard.StepBuilder, fns ...wizard.ConfigFn) wizard.Config {
	if flavour == Inquiry {
		return InquiryConfig(builder, fns...)
	}
	return SurveyConfig(builder, fns...)
}

// SubmitterFor returns the submission client matching flavour.
func SubmitterFor(flavour Flavour, opts ...submission.Option) *submission.Client {
	if flavour == Inquiry {
		return submission.NewInquiry(opts...)
	}
	return submission.NewSurvey(opts...)
}

// NewController builds the machine from cfg and binds a controller to ctx.
func NewController(ctx context.Context, cfg wizard.Config, submitter wizard.Submitter, opts ...wizard.ControllerOption) (*wizard.Controller, error) {
	machine, err := wizard.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wizard.NewController(ctx, machine, submitter, opts...)
}

// CheckSource rejects plain http locations unless allowHTTP is set.
func CheckSource(src content.Source, allowHTTP bool) error {
	if src == nil {
		return errors.New("leadwizard: content source is required")
	}
	if src.Kind() == content.SourceKindURL && !allowHTTP &&
		strings.HasPrefix(strings.ToLower(src.Location()), "http://") {
		return fmt.Errorf("%w: %s", ErrInsecureSource, src.Location())
	}
	return nil
}

// FlowConfig describes one flow to open.
type FlowConfig struct {
	Flavour   Flavour
	FormType  string
	Source    content.Source
	Loader    *content.Loader
	AllowHTTP bool
	// Operation, when set, reads Source as an OpenAPI document and builds
	// the steps from that operation's request body. The flow has no hero.
	Operation string
	// Submitter defaults to SubmitterFor(Flavour, Submission...).
	Submitter  wizard.Submitter
	Submission []submission.Option
	Wizard     []wizard.ConfigFn
	Controller []wizard.ControllerOption
}

// Flow is an opened wizard together with the hero of its form.
type Flow struct {
	Flavour    Flavour
	Form       content.FormDefinition
	Hero       content.Hero
	Controller *wizard.Controller
}

// Close disposes the controller.
func (f *Flow) Close() {
	if f != nil && f.Controller != nil {
		f.Controller.Close()
	}
}

// Open loads the form once and starts a controller over its steps.
func Open(ctx context.Context, fc FlowConfig) (*Flow, error) {
	if err := CheckSource(fc.Source, fc.AllowHTTP); err != nil {
		return nil, err
	}
	formType := fc.FormType
	if formType == "" {
		formType = string(fc.Flavour)
	}

	var (
		def   content.FormDefinition
		steps []wizard.Step
		err   error
	)
	if fc.Operation != "" {
		steps, err = content.NewOpenAPIStepBuilder(fc.Loader, fc.Source, fc.Operation)(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		def, err = content.LoadForm(ctx, fc.Loader, fc.Source, formType)
		if err != nil {
			return nil, err
		}
		steps = content.BuildSteps(def)
		if len(steps) == 0 {
			return nil, fmt.Errorf("%w: form %q has no sections with fields", content.ErrNoForms, def.ID)
		}
	}

	builder := func(context.Context) ([]wizard.Step, error) { return steps, nil }
	cfg := ConfigFor(fc.Flavour, builder, fc.Wizard...)

	submitter := fc.Submitter
	if submitter == nil {
		submitter = SubmitterFor(fc.Flavour, fc.Submission...)
	}

	ctrl, err := NewController(ctx, cfg, submitter, fc.Controller...)
	if err != nil {
		return nil, err
	}
	return &Flow{Flavour: fc.Flavour, Form: def, Hero: def.Hero, Controller: ctrl}, nil
}
