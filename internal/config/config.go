package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config represents the fast configuration
type Config struct {
	Version string `yaml:"version"`
	Lint    Lint   `yaml:"lint,omitempty"`
	Sync    Sync   `yaml:"sync,omitempty"`
	Hooks   Hooks  `yaml:"hooks,omitempty"`
}

// Lint lists the tool lines run by lint and check, in order. The type
// checker always runs last and may be switched off with SKIP_MYPY.
type Lint struct {
	Tools       []string `yaml:"tools,omitempty"`
	CheckTools  []string `yaml:"check_tools,omitempty"`
	TypeChecker string   `yaml:"type_checker,omitempty"`
}

// Sync represents settings of the sync command
type Sync struct {
	Requirements string `yaml:"requirements,omitempty"`
}

// Hooks represents the post-bump hooks configuration
type Hooks struct {
	PostBump []Hook `yaml:"post_bump,omitempty"`
}

// Hook represents a single shell command run after a version bump
type Hook struct {
	Command string            `yaml:"command"`
	Env     map[string]string `yaml:"env,omitempty"`
	WorkDir string            `yaml:"work_dir,omitempty"`
}

const (
	ConfigFileName      = ".fast.yml"
	CurrentVersion      = "1.0"
	DefaultRequirements = "dev_requirements.txt"
	DefaultTypeChecker  = "mypy"
)

var (
	DefaultLintTools  = []string{"isort", "black", "ruff --fix"}
	DefaultCheckTools = []string{"isort --check-only", "black --check --fast", "ruff"}
)

// Default returns the configuration used when no .fast.yml exists
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// LoadConfig loads configuration from .fast.yml in the project root
func LoadConfig(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate fills in defaults and validates the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if len(c.Lint.Tools) == 0 {
		c.Lint.Tools = append([]string{}, DefaultLintTools...)
	}
	if len(c.Lint.CheckTools) == 0 {
		c.Lint.CheckTools = append([]string{}, DefaultCheckTools...)
	}
	if c.Lint.TypeChecker == "" {
		c.Lint.TypeChecker = DefaultTypeChecker
	}
	if c.Sync.Requirements == "" {
		c.Sync.Requirements = DefaultRequirements
	}

	for i, line := range c.Lint.Tools {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("lint tool %d is empty", i+1)
		}
	}
	for i, line := range c.Lint.CheckTools {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("check tool %d is empty", i+1)
		}
	}

	for i, hook := range c.Hooks.PostBump {
		if err := hook.Validate(); err != nil {
			return fmt.Errorf("invalid hook %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate validates a single hook configuration
func (h *Hook) Validate() error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook requires 'command' field")
	}
	return nil
}

// HasHooks returns true if the configuration has any post-bump hooks
func (c *Config) HasHooks() bool {
	return len(c.Hooks.PostBump) > 0
}

// Template is the commented configuration written by fast init
const Template = `# fast configuration
version: "1.0"

lint:
  # Tools run by "fast lint", in order. isort gets --src added automatically.
  tools:
    - isort
    - black
    - ruff --fix
  # Tools run by "fast check" and "fast lint --check-only"
  check_tools:
    - isort --check-only
    - black --check --fast
    - ruff
  # Runs after the tools above unless SKIP_MYPY is set
  type_checker: mypy

sync:
  # Requirements file exported by "fast sync"
  requirements: dev_requirements.txt

# Commands that run after "fast bump" rewrites the version.
# FAST_OLD_VERSION and FAST_NEW_VERSION are set in their environment.
hooks:
  post_bump:
    # - command: echo "bumped $FAST_OLD_VERSION to $FAST_NEW_VERSION"
    # - command: sed -i "s/$FAST_OLD_VERSION/$FAST_NEW_VERSION/" app/__init__.py
`
