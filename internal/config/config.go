// Package config loads application settings from a YAML file with
// environment overrides. Precedence, lowest to highest: built-in defaults,
// config file, SQLCOACH_* environment variables, command-line flags (applied
// by the caller after Load).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "90s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the app-level settings. LLM provider selection stays in the
// environment (see the llm package); this covers identity, content paths,
// and session behavior.
type Config struct {
	User       string  `yaml:"user"`
	Topic      string  `yaml:"topic"`
	Difficulty string  `yaml:"difficulty"`
	Paths      Paths   `yaml:"paths"`
	Session    Session `yaml:"session"`
}

// Paths locates the curriculum content and data directories.
type Paths struct {
	DataDir  string `yaml:"data_dir"`
	Graph    string `yaml:"graph"`
	Problems string `yaml:"problems"`
	DB       string `yaml:"db"`
}

// Session controls the interactive loop.
type Session struct {
	// StatusInterval is how many attempts pass between progress summaries.
	StatusInterval int `yaml:"status_interval"`
	// CallTimeout bounds each external model call.
	CallTimeout Duration `yaml:"call_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:       "default_user",
		Difficulty: "easy",
		Paths: Paths{
			DataDir:  "data",
			Graph:    filepath.Join("data", "knowledge_graph.json"),
			Problems: filepath.Join("data", "problem_bank.json"),
		},
		Session: Session{
			StatusInterval: 3,
			CallTimeout:    Duration(60 * time.Second),
		},
	}
}

// Load builds the effective configuration. With an empty path it tries, in
// order: $SQLCOACH_CONFIG, ./sqlcoach.yaml, and
// $XDG_CONFIG_HOME/sqlcoach/config.yaml; a missing file at any of those is
// fine. An explicitly given path must exist. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// Fall through to env and defaults.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv("SQLCOACH_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("sqlcoach.yaml"); err == nil {
		return "sqlcoach.yaml"
	}
	if base, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(base, "sqlcoach", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SQLCOACH_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("SQLCOACH_TOPIC"); v != "" {
		c.Topic = v
	}
	if v := os.Getenv("SQLCOACH_DIFFICULTY"); v != "" {
		c.Difficulty = v
	}
	if v := os.Getenv("SQLCOACH_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("SQLCOACH_GRAPH"); v != "" {
		c.Paths.Graph = v
	}
	if v := os.Getenv("SQLCOACH_PROBLEMS"); v != "" {
		c.Paths.Problems = v
	}
	if v := os.Getenv("SQLCOACH_DB"); v != "" {
		c.Paths.DB = v
	}
	if v := os.Getenv("SQLCOACH_STATUS_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.StatusInterval = n
		}
	}
	if v := os.Getenv("SQLCOACH_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Session.CallTimeout = Duration(d)
		}
	}
}

// UsersDir returns the directory holding per-user progress snapshots.
func (c Config) UsersDir() string {
	return filepath.Join(c.Paths.DataDir, "users")
}

// Validate rejects settings the session cannot run with.
func (c Config) Validate() error {
	switch c.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return fmt.Errorf("invalid difficulty %q (want easy, medium, or hard)", c.Difficulty)
	}
	if c.User == "" {
		return errors.New("user must not be empty")
	}
	if c.Session.StatusInterval < 1 {
		return fmt.Errorf("status_interval must be at least 1, got %d", c.Session.StatusInterval)
	}
	if c.Session.CallTimeout <= 0 {
		return errors.New("call_timeout must be positive")
	}
	return nil
}
