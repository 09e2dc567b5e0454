// Package globals holds the read-only table of host values that free
// variables fall back to.
//
// A Registry is filled once at startup, from Go maps, YAML files or a
// SQLite table, and is never written by evaluation.
package globals

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/funvibe/lambda/internal/config"
	"gopkg.in/yaml.v3"
)

// Registry maps global names to host values. It satisfies evaluator.Globals.
type Registry struct {
	values map[string]interface{}
}

// New returns a registry holding a copy of values.
func New(values map[string]interface{}) *Registry {
	r := &Registry{values: make(map[string]interface{}, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Global implements evaluator.Globals.
func (r *Registry) Global(name string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Names returns the bound names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.values))
	for k := range r.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int { return len(r.values) }

// Merge returns a registry with the bindings of both; other wins on
// conflicts. Neither input is modified.
func (r *Registry) Merge(other *Registry) *Registry {
	out := New(r.values)
	for k, v := range other.values {
		out.values[k] = v
	}
	return out
}

// ParseYAML reads a YAML mapping of global names to values.
// The path argument is used only for error messages.
func ParseYAML(data []byte, path string) (*Registry, error) {
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing globals %s: %w", path, err)
	}
	return New(values), nil
}

// LoadYAML reads a YAML globals file.
func LoadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading globals %s: %w", path, err)
	}
	return ParseYAML(data, path)
}

// Load builds the registry described by cfg: the YAML files in order, then
// the SQLite table if one is configured.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := New(nil)
	for _, file := range cfg.Globals {
		path := cfg.Resolve(file)
		next, err := LoadYAML(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded globals", "source", path, "count", next.Len())
		reg = reg.Merge(next)
	}
	if cfg.GlobalsDB != "" {
		path := cfg.Resolve(cfg.GlobalsDB)
		next, err := LoadSQLite(ctx, path, cfg.GlobalsTable)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded globals", "source", path, "table", cfg.GlobalsTable, "count", next.Len())
		reg = reg.Merge(next)
	}
	return reg, nil
}
