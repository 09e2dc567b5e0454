package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "lambda.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("max_depth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("log_level = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.GlobalsTable != DefaultGlobalsTable {
		t.Errorf("globals_table = %q, want %q", cfg.GlobalsTable, DefaultGlobalsTable)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("level = %v, want warn", cfg.Level())
	}
}

func TestParseConfig_Full(t *testing.T) {
	yaml := `
max_depth: 200
log_level: debug
globals:
  - fixtures/people.yaml
  - /etc/lambda/shared.yaml
globals_db: data/globals.db
globals_table: bindings
`
	cfg, err := ParseConfig([]byte(yaml), "/srv/app/lambda.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 200 {
		t.Errorf("max_depth = %d, want 200", cfg.MaxDepth)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.Level())
	}
	if got := cfg.Resolve(cfg.Globals[0]); got != "/srv/app/fixtures/people.yaml" {
		t.Errorf("Resolve(globals[0]) = %q", got)
	}
	if got := cfg.Resolve(cfg.Globals[1]); got != "/etc/lambda/shared.yaml" {
		t.Errorf("Resolve(globals[1]) = %q", got)
	}
	if got := cfg.Resolve(cfg.GlobalsDB); got != "/srv/app/data/globals.db" {
		t.Errorf("Resolve(globals_db) = %q", got)
	}
	if cfg.GlobalsTable != "bindings" {
		t.Errorf("globals_table = %q, want bindings", cfg.GlobalsTable)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative depth", "max_depth: -1", "max_depth must not be negative"},
		{"bad level", "log_level: loud", "unknown log_level"},
		{"empty globals path", "globals: ['']", "globals[0]: path is empty"},
		{"table without db", "globals_table: t", "globals_table requires globals_db"},
		{"bad table name", "globals_db: x.db\nglobals_table: 'a; drop'", "not a valid table name"},
		{"malformed yaml", "max_depth: [", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "lambda.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if path, err := FindConfig(nested); err != nil || path != "" {
		t.Fatalf("FindConfig without config = %q, %v", path, err)
	}

	want := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(want, []byte("max_depth: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if path != want {
		t.Errorf("FindConfig = %q, want %q", path, want)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("max_depth = %d, want 5", cfg.MaxDepth)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("error = %v, want a read error", err)
	}
}
