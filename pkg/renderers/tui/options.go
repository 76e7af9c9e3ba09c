package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/pkg/content"
)

// Theme captures optional formatting hints the runner applies when printing
// messages. Keep minimal to avoid coupling runner logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithHero sets the text shown on the hero screen.
func WithHero(hero content.Hero) Option {
	return func(r *Runner) {
		r.hero = hero
	}
}

// WithFieldOptions supplies choices for a composite sub-field such as the
// country list. Sub-fields with options are asked with a select prompt.
func WithFieldOptions(field string, options []string) Option {
	return func(r *Runner) {
		r.fieldOptions[field] = append([]string(nil), options...)
	}
}

// WithBackLabel overrides the choice that navigates back.
func WithBackLabel(label string) Option {
	return func(r *Runner) {
		if label != "" {
			r.backLabel = label
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
