package main

import (
	"context"
	"net/http"

	leadwizard "github.com/goliatone/go-leadwizard"
	"github.com/goliatone/go-leadwizard/components/countries"
	"github.com/goliatone/go-leadwizard/internal/config"
	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/submission"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// contentFor builds the loader and source described by cc.
func contentFor(cc config.ContentConfig) (*content.Loader, content.Source, error) {
	src, err := content.ParseSource(cc.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := leadwizard.CheckSource(src, cc.AllowHTTP); err != nil {
		return nil, nil, err
	}

	var opts []content.LoaderOption
	if src.Kind() == content.SourceKindURL {
		opts = append(opts, content.WithHTTPClient(http.DefaultClient))
	}
	if cc.Timeout > 0 {
		opts = append(opts, content.WithRequestTimeout(cc.Timeout))
	}
	for key, value := range cc.Headers {
		opts = append(opts, content.WithHeader(key, value))
	}
	return content.NewLoader(opts...), src, nil
}

func wizardConfig(c *config.Config, flavour leadwizard.Flavour) config.WizardConfig {
	if flavour == leadwizard.Inquiry {
		return c.Inquiry
	}
	return c.Survey
}

// wizardFns translates one flavour section of the config file.
func wizardFns(wc config.WizardConfig) ([]wizard.ConfigFn, error) {
	policy, err := wc.Policy()
	if err != nil {
		return nil, err
	}
	return []wizard.ConfigFn{
		wizard.WithCompletionPolicy(policy),
		wizard.WithResetDelay(wc.ResetDelay),
		wizard.WithSuccessMessage(wc.SuccessMessage),
		wizard.WithPreserveOnExit(wc.PreserveOnExit),
	}, nil
}

// stepSource returns the step builder for the configured content format.
func stepSource(cc config.ContentConfig, loader *content.Loader, src content.Source, formType string) wizard.StepBuilder {
	if cc.Format == config.FormatOpenAPI {
		return content.NewOpenAPIStepBuilder(loader, src, cc.Operation)
	}
	return content.NewStepBuilder(loader, src, formType)
}

// buildMachine loads the flavour's steps and applies its config section.
// OpenAPI content carries no form definition, so the returned one is zero.
func buildMachine(ctx context.Context, c *config.Config, loader *content.Loader, src content.Source, flavour leadwizard.Flavour) (*wizard.Machine, content.FormDefinition, error) {
	wc := wizardConfig(c, flavour)
	fns, err := wizardFns(wc)
	if err != nil {
		return nil, content.FormDefinition{}, err
	}

	var def content.FormDefinition
	var steps []wizard.Step
	if c.Content.Format == config.FormatOpenAPI {
		steps, err = stepSource(c.Content, loader, src, wc.FormType)(ctx)
	} else {
		def, err = content.LoadForm(ctx, loader, src, wc.FormType)
		steps = content.BuildSteps(def)
	}
	if err != nil {
		return nil, def, err
	}

	machine, err := wizard.NewMachine(steps, leadwizard.ConfigFor(flavour, nil, fns...))
	if err != nil {
		return nil, def, err
	}
	return machine, def, nil
}

// openFlow loads the flavour's form and starts a controller that submits to
// the configured base URL.
func openFlow(ctx context.Context, c *config.Config, flavour leadwizard.Flavour) (*leadwizard.Flow, error) {
	loader, src, err := contentFor(c.Content)
	if err != nil {
		return nil, err
	}
	wc := wizardConfig(c, flavour)
	fns, err := wizardFns(wc)
	if err != nil {
		return nil, err
	}

	return leadwizard.Open(ctx, leadwizard.FlowConfig{
		Flavour:   flavour,
		FormType:  wc.FormType,
		Source:    src,
		Loader:    loader,
		AllowHTTP: c.Content.AllowHTTP,
		Operation: operation(c.Content),
		Submission: []submission.Option{
			submission.WithBaseURL(c.Submission.BaseURL),
			submission.WithTimeout(c.Submission.Timeout),
			submission.WithLogger(logger.Named("submission")),
		},
		Wizard:     fns,
		Controller: []wizard.ControllerOption{wizard.WithLogger(logger.Named("wizard"))},
	})
}

func operation(cc config.ContentConfig) string {
	if cc.Format == config.FormatOpenAPI {
		return cc.Operation
	}
	return ""
}

func countryComponent(c *config.Config) *countries.Component {
	return countries.New(countries.WithPreferred(c.Countries.Preferred...))
}

func parseFlavourArg(args []string) (leadwizard.Flavour, error) {
	if len(args) == 0 {
		return leadwizard.Survey, nil
	}
	return leadwizard.ParseFlavour(args[0])
}
