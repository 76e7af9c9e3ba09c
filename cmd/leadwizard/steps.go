package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	leadwizard "github.com/goliatone/go-leadwizard"
	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/views"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

var stepsCmd = &cobra.Command{
	Use:   "steps [survey|inquiry]",
	Short: "Print the steps built from the configured content as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flavour, err := parseFlavourArg(args)
		if err != nil {
			return err
		}
		machine, _, err := loadMachine(cmd, flavour)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(machine.Steps())
	},
}

var (
	previewPhase  string
	previewStep   int
	previewOutput string
)

var previewCmd = &cobra.Command{
	Use:   "preview [survey|inquiry]",
	Short: "Render a wizard page to HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flavour, err := parseFlavourArg(args)
		if err != nil {
			return err
		}

		engine, err := views.New(views.WithBaseDir(cfg.Views.TemplateDir))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if previewOutput != "" {
			f, err := os.Create(previewOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		machine, def, err := loadMachine(cmd, flavour)
		if err != nil {
			logger.Warn("Failed to load wizard, rendering error page", zap.Error(err))
			return views.NewRenderer(engine).RenderError(out)
		}

		state, err := previewState(machine, previewPhase, previewStep)
		if err != nil {
			return err
		}

		opts := []views.PageOption{views.WithHero(def.Hero)}
		if names, err := countryComponent(cfg).Names(); err == nil {
			opts = append(opts, views.WithFieldOptions(wizard.FieldCountry, names))
		}
		if err := views.NewRenderer(engine, opts...).Render(out, machine, state); err != nil {
			return err
		}
		if previewOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Page written to %s\n", previewOutput)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewPhase, "phase", "hero", "Phase to render: hero, step or success")
	previewCmd.Flags().IntVar(&previewStep, "step", 0, "Zero-based step index for --phase step")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Output file (stdout if empty)")
}

func loadMachine(cmd *cobra.Command, flavour leadwizard.Flavour) (*wizard.Machine, content.FormDefinition, error) {
	loader, src, err := contentFor(cfg.Content)
	if err != nil {
		return nil, content.FormDefinition{}, err
	}
	return buildMachine(cmd.Context(), cfg, loader, src, flavour)
}

// previewState builds a representative state for phase.
func previewState(m *wizard.Machine, phase string, step int) (wizard.State, error) {
	switch strings.ToLower(strings.TrimSpace(phase)) {
	case "", string(wizard.PhaseHero):
		return m.Initial(), nil
	case string(wizard.PhaseStep):
		if _, ok := m.Step(step); !ok {
			return wizard.State{}, fmt.Errorf("step %d out of range (0-%d)", step, m.Len()-1)
		}
		s := m.Reduce(m.Initial(), wizard.Start{})
		s.CurrentStepIndex = step
		return s, nil
	case string(wizard.PhaseSuccess):
		wc := m.Config()
		return wizard.State{
			Phase:            wizard.PhaseSuccess,
			SubmissionStatus: wizard.StatusSuccess,
			Message:          wc.SuccessMessage,
			ShowcaseVisible:  wc.CompletionPolicy == wizard.ShowPostSubmissionView,
		}, nil
	}
	return wizard.State{}, fmt.Errorf("unknown phase %q", phase)
}
