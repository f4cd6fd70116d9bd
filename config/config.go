// Package config loads the toolcall YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/toolcall"
	"github.com/skosovsky/toolcall/provider"
)

// DefaultAnswerPrefix marks a direct answer in a model reply.
const DefaultAnswerPrefix = "Answer:"

type Config struct {
	AnswerPrefix string         `yaml:"answer_prefix"`
	LogLevel     string         `yaml:"log_level"`
	Planner      string         `yaml:"planner"`
	Dispatch     DispatchConfig `yaml:"dispatch"`
	// Tools lists the built-in tools to register; empty means all of them.
	Tools []string `yaml:"tools"`
}

type DispatchConfig struct {
	MaxConcurrency int           `yaml:"max_concurrency"`
	ToolTimeout    time.Duration `yaml:"tool_timeout"`
	// RecoverPanics defaults to true. false is for debugging only and lets a
	// panicking tool crash the process.
	RecoverPanics  *bool         `yaml:"recover_panics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		AnswerPrefix: DefaultAnswerPrefix,
		LogLevel:     "info",
		Planner:      string(provider.Anthropic),
		Dispatch:     DispatchConfig{MaxConcurrency: 10},
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// expandEnv replaces ${VAR} with its value; unset variables are left as is.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, expands ${VAR} references, applies
// TOOLCALL_* environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.AnswerPrefix = expandEnv(cfg.AnswerPrefix)
	cfg.LogLevel = expandEnv(cfg.LogLevel)
	cfg.Planner = expandEnv(cfg.Planner)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("TOOLCALL_ANSWER_PREFIX"); ok {
		c.AnswerPrefix = v
	}
	if v, ok := os.LookupEnv("TOOLCALL_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("TOOLCALL_PLANNER"); ok {
		c.Planner = v
	}
	if v, ok := os.LookupEnv("TOOLCALL_MAX_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOOLCALL_MAX_CONCURRENCY: %w", err)
		}
		c.Dispatch.MaxConcurrency = n
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := provider.ParseName(c.Planner); err != nil {
		errs = append(errs, err)
	}
	if c.Dispatch.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_concurrency must be >= 0, got %d", c.Dispatch.MaxConcurrency))
	}
	if c.Dispatch.ToolTimeout < 0 {
		errs = append(errs, fmt.Errorf("dispatch.tool_timeout must be >= 0, got %s", c.Dispatch.ToolTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// PlannerName returns the validated planner backend. classify --decode uses it
// to pick the response decoder.
func (c *Config) PlannerName() provider.Name {
	n, _ := provider.ParseName(c.Planner)
	return n
}

// RegistryOptions maps the dispatch section onto registry options.
func (c *Config) RegistryOptions() []toolcall.RegistryOption {
	opts := []toolcall.RegistryOption{toolcall.WithMaxConcurrency(c.Dispatch.MaxConcurrency)}
	if c.Dispatch.RecoverPanics != nil {
		opts = append(opts, toolcall.WithRecoverPanics(*c.Dispatch.RecoverPanics))
	}
	return opts
}

// Middlewares returns the middleware chain for the registry: logging and,
// when tool_timeout is set, a per-call deadline.
func (c *Config) Middlewares(logger *slog.Logger) []toolcall.Middleware {
	mws := []toolcall.Middleware{toolcall.WithLogging(logger)}
	if c.Dispatch.ToolTimeout > 0 {
		mws = append(mws, toolcall.WithTimeoutMiddleware(c.Dispatch.ToolTimeout))
	}
	return mws
}
