package wizard

import (
	"context"
	"strings"
	"time"
)

// CompletionPolicy selects what happens after a successful submission.
type CompletionPolicy string

const (
	// ResetToHero clears the answers and returns to the hero after
	// Config.ResetDelay.
	ResetToHero CompletionPolicy = "reset_to_hero"
	// ShowPostSubmissionView keeps the success phase and flags the showcase
	// view as visible until the user exits.
	ShowPostSubmissionView CompletionPolicy = "show_post_submission_view"
)

const (
	DefaultResetDelay          = 3 * time.Second
	DefaultSuccessMessage      = "Thank you! Your submission has been received."
	DefaultGenericErrorMessage = "Something went wrong. Please try again."
)

// StepBuilder produces the ordered step list for a run, typically from CMS
// content.
type StepBuilder func(ctx context.Context) ([]Step, error)

// Config parameterises one wizard flavour (survey, inquiry, ...).
type Config struct {
	CompletionPolicy    CompletionPolicy
	Endpoint            string
	StepBuilder         StepBuilder
	ResetDelay          time.Duration
	SuccessMessage      string
	GenericErrorMessage string
	// PreserveOnExit keeps answers when Back leaves the first step.
	PreserveOnExit bool
}

// ConfigFn mutates a Config during NewConfig.
type ConfigFn func(*Config)

// DefaultConfig returns the reset-to-hero survey defaults.
func DefaultConfig() Config {
	return Config{
		CompletionPolicy:    ResetToHero,
		ResetDelay:          DefaultResetDelay,
		SuccessMessage:      DefaultSuccessMessage,
		GenericErrorMessage: DefaultGenericErrorMessage,
	}
}

// NewConfig applies fns over the defaults and restores defaults for any field
// left empty.
func NewConfig(fns ...ConfigFn) Config {
	cfg := DefaultConfig()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&cfg)
	}
	return cfg.normalize()
}

func (c Config) normalize() Config {
	switch c.CompletionPolicy {
	case ResetToHero, ShowPostSubmissionView:
	default:
		c.CompletionPolicy = ResetToHero
	}
	if c.ResetDelay <= 0 {
		c.ResetDelay = DefaultResetDelay
	}
	if strings.TrimSpace(c.SuccessMessage) == "" {
		c.SuccessMessage = DefaultSuccessMessage
	}
	if strings.TrimSpace(c.GenericErrorMessage) == "" {
		c.GenericErrorMessage = DefaultGenericErrorMessage
	}
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	return c
}

func WithCompletionPolicy(policy CompletionPolicy) ConfigFn {
	return func(c *Config) {
		c.CompletionPolicy = policy
	}
}

func WithEndpoint(endpoint string) ConfigFn {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

func WithStepBuilder(builder StepBuilder) ConfigFn {
	return func(c *Config) {
		c.StepBuilder = builder
	}
}

func WithResetDelay(delay time.Duration) ConfigFn {
	return func(c *Config) {
		c.ResetDelay = delay
	}
}

func WithSuccessMessage(msg string) ConfigFn {
	return func(c *Config) {
		c.SuccessMessage = msg
	}
}

func WithGenericErrorMessage(msg string) ConfigFn {
	return func(c *Config) {
		c.GenericErrorMessage = msg
	}
}

func WithPreserveOnExit(preserve bool) ConfigFn {
	return func(c *Config) {
		c.PreserveOnExit = preserve
	}
}
