// Package config loads leadwizard settings from a YAML file, optional .env
// files and LEADWIZARD_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEADWIZARD_"

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Content    ContentConfig    `yaml:"content"`
	Submission SubmissionConfig `yaml:"submission"`
	Survey     WizardConfig     `yaml:"survey"`
	Inquiry    WizardConfig     `yaml:"inquiry"`
	Countries  CountriesConfig  `yaml:"countries"`
	Views      ViewsConfig      `yaml:"views"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Content formats.
const (
	FormatCMS     = "cms"
	FormatOpenAPI = "openapi"
)

// ContentConfig locates the CMS form definitions.
type ContentConfig struct {
	// Source is a file path or an http(s) URL.
	Source string `yaml:"source"`
	// Format is "cms" (forms document) or "openapi". OpenAPI sources build
	// one step per property of Operation's request body.
	Format    string        `yaml:"format"`
	Operation string        `yaml:"operation"`
	AllowHTTP bool          `yaml:"allow_http"`
	Timeout   time.Duration `yaml:"timeout"`
	// Headers are sent with HTTP content requests (e.g. CMS tokens).
	Headers map[string]string `yaml:"headers"`
}

// SubmissionConfig configures the outbound submission client.
type SubmissionConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WizardConfig configures one wizard flavour.
type WizardConfig struct {
	FormType         string        `yaml:"form_type"`
	CompletionPolicy string        `yaml:"completion_policy"`
	ResetDelay       time.Duration `yaml:"reset_delay"`
	SuccessMessage   string        `yaml:"success_message"`
	PreserveOnExit   bool          `yaml:"preserve_on_exit"`
}

// Policy returns the parsed completion policy.
func (c WizardConfig) Policy() (wizard.CompletionPolicy, error) {
	return ParsePolicy(c.CompletionPolicy)
}

// CountriesConfig tunes the country option list.
type CountriesConfig struct {
	Preferred []string `yaml:"preferred"`
}

// ViewsConfig tunes the page renderer.
type ViewsConfig struct {
	// TemplateDir holds templates that override the built-in ones by name.
	TemplateDir string `yaml:"template_dir"`
}

// LoggingConfig selects the zap preset.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{Path: "leadwizard.db"},
		Content: ContentConfig{
			Source:  "forms.yaml",
			Format:  FormatCMS,
			Timeout: 10 * time.Second,
		},
		Submission: SubmissionConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Survey: WizardConfig{
			FormType:         "survey",
			CompletionPolicy: string(wizard.ResetToHero),
			ResetDelay:       wizard.DefaultResetDelay,
		},
		Inquiry: WizardConfig{
			FormType:         "inquiry",
			CompletionPolicy: string(wizard.ShowPostSubmissionView),
			ResetDelay:       wizard.DefaultResetDelay,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty or missing), then any existing
// envFiles, then LEADWIZARD_* variables, and validates the result.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("config: database.path is required")
	}
	switch c.Content.Format {
	case "", FormatCMS:
	case FormatOpenAPI:
		if strings.TrimSpace(c.Content.Operation) == "" {
			return errors.New("config: content.operation is required for the openapi format")
		}
	default:
		return fmt.Errorf("config: unknown content.format %q", c.Content.Format)
	}
	if _, err := c.Survey.Policy(); err != nil {
		return fmt.Errorf("config: survey: %w", err)
	}
	if _, err := c.Inquiry.Policy(); err != nil {
		return fmt.Errorf("config: inquiry: %w", err)
	}
	return nil
}

// ParsePolicy accepts the policy constants plus the short forms "reset" and
// "showcase".
func ParsePolicy(raw string) (wizard.CompletionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "reset", string(wizard.ResetToHero):
		return wizard.ResetToHero, nil
	case "showcase", string(wizard.ShowPostSubmissionView):
		return wizard.ShowPostSubmissionView, nil
	default:
		return "", fmt.Errorf("unknown completion policy %q", raw)
	}
}

func overrideWithEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_HOST", &cfg.Server.Host)
	integer("SERVER_PORT", &cfg.Server.Port)
	str("DATABASE_PATH", &cfg.Database.Path)
	str("CONTENT_SOURCE", &cfg.Content.Source)
	str("CONTENT_FORMAT", &cfg.Content.Format)
	str("CONTENT_OPERATION", &cfg.Content.Operation)
	boolean("CONTENT_ALLOW_HTTP", &cfg.Content.AllowHTTP)
	duration("CONTENT_TIMEOUT", &cfg.Content.Timeout)
	str("SUBMISSION_BASE_URL", &cfg.Submission.BaseURL)
	duration("SUBMISSION_TIMEOUT", &cfg.Submission.Timeout)
	str("SURVEY_COMPLETION_POLICY", &cfg.Survey.CompletionPolicy)
	duration("SURVEY_RESET_DELAY", &cfg.Survey.ResetDelay)
	str("INQUIRY_COMPLETION_POLICY", &cfg.Inquiry.CompletionPolicy)
	duration("INQUIRY_RESET_DELAY", &cfg.Inquiry.ResetDelay)
	str("VIEWS_TEMPLATE_DIR", &cfg.Views.TemplateDir)
	str("LOG_LEVEL", &cfg.Logging.Level)
	boolean("LOG_DEVELOPMENT", &cfg.Logging.Development)

	return errors.Join(errs...)
}
