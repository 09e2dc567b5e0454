// Package lambda is the host embedding API: bind Go values as globals,
// type-check and evaluate expression trees, and call back into results.
package lambda

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/funvibe/lambda/internal/analyzer"
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/evaluator"
	"github.com/funvibe/lambda/internal/globals"
	"github.com/funvibe/lambda/internal/typesystem"
	"github.com/google/uuid"
)

// VM evaluates expression trees against bound host values.
type VM struct {
	machine  *evaluator.Evaluator
	base     *globals.Registry
	bindings map[string]interface{}
	scope    evaluator.Scope
	runID    string
	logger   *slog.Logger
}

// New creates a VM with the default configuration and no globals.
func New() *VM {
	return NewWithConfig(config.Default(), nil)
}

// NewWithConfig creates a VM whose unbound names fall back to reg.
func NewWithConfig(cfg *config.Config, reg *globals.Registry) *VM {
	v := &VM{
		base:     reg,
		bindings: make(map[string]interface{}),
		runID:    uuid.NewString(),
	}
	v.machine = evaluator.New(v)
	v.machine.MaxDepth = cfg.MaxDepth
	v.SetLogger(slog.Default())
	return v
}

// Global implements evaluator.Globals: bindings first, then the registry.
func (v *VM) Global(name string) (interface{}, bool) {
	if val, ok := v.bindings[name]; ok {
		return val, true
	}
	return v.base.Global(name)
}

// SetLogger replaces the logger. Every record carries the VM's run id.
func (v *VM) SetLogger(l *slog.Logger) {
	v.logger = l.With("run", v.runID)
	v.machine.Logger = v.logger
}

// RunID identifies this VM in log records.
func (v *VM) RunID() string { return v.runID }

// Bind registers a Go value or function as a global.
func (v *VM) Bind(name string, val interface{}) {
	v.bindings[name] = val
}

// Get resolves a name the way a free variable would be and returns it as
// a host value.
func (v *VM) Get(name string) (interface{}, error) {
	scope, err := v.defaults()
	if err != nil {
		return nil, err
	}
	val, err := v.machine.Eval(&ast.Variable{Name: name}, scope)
	if err != nil {
		return nil, err
	}
	return v.machine.Marshal(val)
}

// Names lists the names bound with Bind.
func (v *VM) Names() []string {
	names := make([]string, 0, len(v.bindings))
	for k := range v.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (v *VM) defaults() (evaluator.Scope, error) {
	if v.scope.Len() > 0 {
		return v.scope, nil
	}
	scope, err := v.machine.DefaultContext()
	if err != nil {
		return scope, err
	}
	v.scope = scope
	return scope, nil
}

// TypeOf type-checks a tree in the default context.
func (v *VM) TypeOf(node ast.Expression) (typesystem.Type, error) {
	scope, err := v.defaults()
	if err != nil {
		return nil, err
	}
	v.logger.Debug("type-checking", "node", node.String())
	a := analyzer.New(v)
	a.Logger = v.logger
	return a.TypeOf(node, analyzer.DefaultContext(scope))
}

// EvalValue evaluates a tree in the default context without type-checking
// it first.
func (v *VM) EvalValue(node ast.Expression) (evaluator.Value, error) {
	scope, err := v.defaults()
	if err != nil {
		return nil, err
	}
	v.logger.Debug("evaluating", "node", node.String())
	return v.machine.Eval(node, scope)
}

// EvalNode type-checks and evaluates a tree and marshals the result.
func (v *VM) EvalNode(node ast.Expression) (interface{}, error) {
	if _, err := v.TypeOf(node); err != nil {
		return nil, err
	}
	val, err := v.EvalValue(node)
	if err != nil {
		return nil, err
	}
	return v.machine.Marshal(val)
}

// Marshal converts a value returned by EvalValue to host data.
func (v *VM) Marshal(val evaluator.Value) (interface{}, error) {
	return v.machine.Marshal(val)
}

// Eval decodes a YAML tree, then type-checks and evaluates it.
func (v *VM) Eval(src string) (interface{}, error) {
	node, err := ast.Decode([]byte(src))
	if err != nil {
		return nil, err
	}
	return v.EvalNode(node)
}

// EvalFile evaluates the tree stored at path.
func (v *VM) EvalFile(path string) (interface{}, error) {
	node, err := ast.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return v.EvalNode(node)
}

// Call applies the function bound to name to args.
func (v *VM) Call(name string, args ...interface{}) (interface{}, error) {
	scope, err := v.defaults()
	if err != nil {
		return nil, err
	}
	fnVal, err := v.machine.Eval(&ast.Variable{Name: name}, scope)
	if err != nil {
		return nil, err
	}
	fn, ok := fnVal.(*evaluator.Closure)
	if !ok {
		return nil, fmt.Errorf("%s is not a function, got %s", name, fnVal.Tag())
	}
	in := make([]evaluator.Value, len(args))
	for i, arg := range args {
		if in[i], err = v.machine.Unmarshal(arg); err != nil {
			return nil, fmt.Errorf("argument %d conversion failed: %w", i, err)
		}
	}
	out, err := v.machine.ApplyAll(fn, in...)
	if err != nil {
		return nil, err
	}
	return v.machine.Marshal(out)
}
