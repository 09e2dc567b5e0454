package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level lambda.yaml configuration.
type Config struct {
	// MaxDepth bounds the evaluator's recursion. Exceeding it is a resource
	// error. Defaults to DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// LogLevel is one of debug, info, warn or error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Globals lists YAML files whose top-level mappings are merged, in order,
	// into the global registry. Relative paths are resolved against the
	// directory of lambda.yaml.
	Globals []string `yaml:"globals,omitempty"`

	// GlobalsDB is a SQLite database holding further globals. Its rows are
	// loaded after the YAML files and win on conflicts.
	GlobalsDB string `yaml:"globals_db,omitempty"`

	// GlobalsTable is the table read from GlobalsDB. Defaults to "globals".
	GlobalsTable string `yaml:"globals_table,omitempty"`

	dir string
}

// Default returns the configuration used when no lambda.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a lambda.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses lambda.yaml content from bytes.
// The path argument is used for error messages and to resolve relative paths.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// FindConfig searches for lambda.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// Also check lambda.yml
		candidate = strings.TrimSuffix(candidate, ".yaml") + ".yml"
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for i, g := range c.Globals {
		if g == "" {
			return fmt.Errorf("%s: globals[%d]: path is empty", path, i)
		}
	}
	if c.GlobalsTable != "" && c.GlobalsDB == "" {
		return fmt.Errorf("%s: globals_table requires globals_db", path)
	}
	if c.GlobalsTable != "" && !isIdentifier(c.GlobalsTable) {
		return fmt.Errorf("%s: globals_table %q is not a valid table name", path, c.GlobalsTable)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.GlobalsTable == "" {
		c.GlobalsTable = DefaultGlobalsTable
	}
}

// Resolve returns path relative to the directory of the config file.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
