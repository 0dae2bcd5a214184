package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/soochol/wfcheck/internal/flow"
	"github.com/soochol/wfcheck/internal/validate"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvDatabaseURL = "WFCHECK_DATABASE_URL"
	EnvJWTSecret   = "WFCHECK_JWT_SECRET"
)

// Config holds the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Validation ValidationConfig `yaml:"validation"`
	Check      CheckConfig      `yaml:"check"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// report history in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds API authentication settings. An empty secret disables
// authentication.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// ValidationConfig holds settings for the workflow validator.
type ValidationConfig struct {
	TriggerTypes       []string        `yaml:"trigger_types"`
	ScheduleTypes      []string        `yaml:"schedule_types"`
	UnreachableAsError bool            `yaml:"unreachable_as_error"`
	Rules              []validate.Rule `yaml:"rules"`
}

// Options converts the settings into validator options.
func (c ValidationConfig) Options() validate.Options {
	return validate.Options{
		TriggerTypes:       c.TriggerTypes,
		ScheduleTypes:      c.ScheduleTypes,
		UnreachableAsError: c.UnreachableAsError,
		Rules:              c.Rules,
	}
}

// CheckConfig holds settings for batch file checking.
type CheckConfig struct {
	Concurrency int `yaml:"concurrency"` // files validated in parallel (default: 4)
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Validation: ValidationConfig{
			TriggerTypes:  flow.DefaultTriggerTypes(),
			ScheduleTypes: []string{flow.NodeTypeScheduleTrigger},
		},
		Check: CheckConfig{Concurrency: 4},
	}
}

// Load reads a YAML configuration file at path and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Check.Concurrency <= 0 {
		cfg.Check.Concurrency = 1
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries to load "config.yaml" from the current directory.
// If the file does not exist, it returns sensible defaults.
// Any other error (e.g. permission denied, malformed YAML) is returned.
func LoadDefault() (*Config, error) {
	cfg, err := Load("config.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = defaults()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
}
