// Package config loads accredit settings from ~/.accredit/config.yaml and
// the ACCREDIT_* environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/accredit/internal/llm"
	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

type Config struct {
	// DBPath is the SQLite file holding dataset snapshots.
	DBPath    string          `yaml:"db_path"`
	Addr      string          `yaml:"addr"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Logging   LoggingConfig   `yaml:"logging"`
	LLM       llm.LLMConfig   `yaml:"llm"`
}

type SnapshotsConfig struct {
	Keep int `yaml:"keep"`
}

type LoggingConfig struct {
	UseCases bool   `yaml:"use_cases"`
	Format   string `yaml:"format"` // text, json
}

// Dir is the directory holding the config file and the default database:
// $ACCREDIT_HOME, or ~/.accredit.
func Dir() (string, error) {
	if v := os.Getenv("ACCREDIT_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".accredit"), nil
}

// Default returns the configuration used when no file exists.
func Default(dir string) *Config {
	return &Config{
		DBPath:    filepath.Join(dir, "accredit.db"),
		Addr:      "127.0.0.1:8080",
		Snapshots: SnapshotsConfig{Keep: 50},
		Logging:   LoggingConfig{UseCases: false, Format: "text"},
		LLM:       llm.DefaultConfig(),
	}
}

// Load reads dir/config.yaml over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ACCREDIT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ACCREDIT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ACCREDIT_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.UseCases = b
		}
	}
	if v := os.Getenv("ACCREDIT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ACCREDIT_SNAPSHOT_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Snapshots.Keep = n
		}
	}
	llm.ApplyEnv(&c.LLM)
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path must not be empty")
	}
	if c.Snapshots.Keep < 1 {
		return fmt.Errorf("config: snapshots.keep must be at least 1, got %d", c.Snapshots.Keep)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be text or json, got %q", c.Logging.Format)
	}
	return c.LLM.Validate()
}

// Save writes cfg to dir/config.yaml, creating dir if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
