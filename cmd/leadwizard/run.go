package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/pkg/renderers/tui"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

var runCmd = &cobra.Command{
	Use:   "run [survey|inquiry]",
	Short: "Run a wizard in the terminal and submit it to the configured endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flavour, err := parseFlavourArg(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		flow, err := openFlow(ctx, cfg, flavour)
		if err != nil {
			return err
		}
		defer flow.Close()

		names, err := countryComponent(cfg).Names()
		if err != nil {
			return err
		}

		runner, err := tui.New(flow.Controller,
			tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
			tui.WithHero(flow.Hero),
			tui.WithFieldOptions(wizard.FieldCountry, names),
			tui.WithLogger(logger.Named("tui")),
		)
		if err != nil {
			return err
		}

		state, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if state.Phase == wizard.PhaseSuccess {
			logger.Info("Wizard submitted", zap.String("flavour", string(flavour)), zap.String("response_id", state.ResponseID))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing submitted.")
		return nil
	},
}
