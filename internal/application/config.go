// Package application loads and validates the benchmark configuration that
// ties the core components together: the model set, the concurrency and
// retry policy for the run orchestrator, and the store locations.
package application

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-rubric/infrastructure/llm"
	"github.com/ahrav/go-rubric/internal/domain"
)

// modelFormatPattern matches composite "vendor/name" model identifiers.
// The name segment may contain dots, dashes, and version suffixes.
var modelFormatPattern = regexp.MustCompile(`^[a-z0-9]+/[A-Za-z0-9\-_.:]+$`)

// Config is the full benchmark configuration, loaded from YAML.
// API keys are deliberately absent; they come from the environment.
type Config struct {
	// Models lists the composite identifiers under test.
	Models []string `yaml:"models" validate:"required,min=1,dive,modelformat"`

	// Gateway selects single-transport mode: every model is routed through
	// the named provider with its composite identifier. "none" selects
	// native per-vendor routing, which needs one API key per vendor.
	// Defaults to "openrouter".
	Gateway string `yaml:"gateway" validate:"omitempty,oneof=none openrouter"`

	// Run configures the orchestrator.
	Run RunConfig `yaml:"run"`

	// Paths locates the task file and the two stores.
	Paths PathsConfig `yaml:"paths"`
}

// RunConfig controls orchestration and transport behavior for a run.
type RunConfig struct {
	// Concurrency caps in-flight model calls.
	Concurrency int `yaml:"concurrency" validate:"omitempty,min=1,max=64"`

	// RequestsPerSecond paces calls to respect provider rate limits.
	// Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`

	// Burst is the pacing token bucket depth.
	Burst int `yaml:"burst" validate:"min=0"`

	// AttemptTimeout bounds each individual call attempt.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// Retry is the transient-failure backoff schedule.
	Retry llm.RetryConfig `yaml:"retry"`

	// Temperature and MaxTokens are the sampling options sent with every
	// prompt so responses are comparable across models.
	Temperature float64 `yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"min=0,max=100000"`
}

// PathsConfig locates the external data files.
type PathsConfig struct {
	// Tasks is the JSONL task file.
	Tasks string `yaml:"tasks" validate:"required"`

	// Outputs is the output artifact root directory.
	Outputs string `yaml:"outputs" validate:"required"`

	// ScoreDB is the SQLite score store path.
	ScoreDB string `yaml:"score_db" validate:"required"`
}

// newValidator builds the validator with the modelformat rule registered.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("modelformat", func(fl validator.FieldLevel) bool {
		return modelFormatPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register modelformat validator: %w", err)
	}
	return v, nil
}

// Load reads, defaults, and validates a benchmark config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates config bytes.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.applyDefaults()

	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// applyDefaults fills unset fields with the documented defaults.
func (c *Config) applyDefaults() {
	if c.Gateway == "" {
		c.Gateway = "openrouter"
	}
	if c.Run.Concurrency == 0 {
		c.Run.Concurrency = 4
	}
	if c.Run.AttemptTimeout == 0 {
		c.Run.AttemptTimeout = 60 * time.Second
	}
	if c.Run.Retry.MaxAttempts == 0 {
		c.Run.Retry = llm.DefaultRetryConfig()
	}
	if c.Run.Temperature == 0 {
		c.Run.Temperature = llm.DefaultTemperature
	}
	if c.Run.MaxTokens == 0 {
		c.Run.MaxTokens = llm.DefaultMaxTokens
	}
	if c.Paths.Tasks == "" {
		c.Paths.Tasks = "data/tasks.jsonl"
	}
	if c.Paths.Outputs == "" {
		c.Paths.Outputs = "outputs"
	}
	if c.Paths.ScoreDB == "" {
		c.Paths.ScoreDB = "scores/scores.db"
	}
}

// ModelSpecs parses the configured model identifiers.
func (c *Config) ModelSpecs() ([]domain.ModelSpec, error) {
	specs := make([]domain.ModelSpec, 0, len(c.Models))
	seen := make(map[string]struct{}, len(c.Models))
	for _, id := range c.Models {
		spec, err := domain.ParseModelSpec(id)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[spec.ID()]; dup {
			return nil, fmt.Errorf("duplicate model %q in config", spec.ID())
		}
		seen[spec.ID()] = struct{}{}
		specs = append(specs, spec)
	}
	return specs, nil
}

// RequestOptions returns the per-call sampling options for the orchestrator.
func (c *Config) RequestOptions() map[string]any {
	return map[string]any{
		"temperature": c.Run.Temperature,
		"max_tokens":  c.Run.MaxTokens,
	}
}
