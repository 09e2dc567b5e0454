// Package evaluator implements the call-by-value evaluation of expression
// trees, the runtime value model and the host marshaling boundary.
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
)

// Globals is the read-only registry consulted for names missing from the
// scope. Values are host data and are unmarshaled on every lookup.
type Globals interface {
	Global(name string) (interface{}, bool)
}

type noGlobals struct{}

func (noGlobals) Global(string) (interface{}, bool) { return nil, false }

// UserError is an exception raised by throw or by host code. It is the
// only error try/catch intercepts.
type UserError struct {
	Value Value
}

func (e *UserError) Error() string          { return "UserError: " + e.Value.Inspect() }
func (e *UserError) Kind() diagnostics.Kind { return diagnostics.KindUser }

// HostError carries an exception out of a marshaled closure. Payload is
// the marshaled thrown value. Returning a HostError from a host function
// rethrows the payload inside the evaluator.
type HostError struct {
	Payload interface{}
}

func (e *HostError) Error() string { return fmt.Sprintf("uncaught exception: %v", e.Payload) }

// Evaluator evaluates trees. It is not safe for concurrent use: the depth
// counter is shared by nested calls, including calls re-entering through
// marshaled closures.
type Evaluator struct {
	Globals  Globals
	MaxDepth int
	Logger   *slog.Logger

	depth int
	fix   Value
	seq   Value
}

// New returns an evaluator resolving free names in globals, which may be
// nil.
func New(globals Globals) *Evaluator {
	if globals == nil {
		globals = noGlobals{}
	}
	return &Evaluator{
		Globals:  globals,
		MaxDepth: config.DefaultMaxDepth,
	}
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Eval evaluates node in scope.
func (e *Evaluator) Eval(node ast.Expression, scope Scope) (Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.MaxDepth > 0 && e.depth > e.MaxDepth {
		return nil, diagnostics.Resource("evaluation depth exceeds %d", e.MaxDepth)
	}

	switch n := node.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)
	case *ast.ListLiteral:
		return e.evalListLiteral(n, scope)
	case *ast.Variable:
		return e.evalVariable(n, scope)
	case *ast.Fix:
		return e.fixpoint()
	case *ast.This:
		return e.evalReserved(config.ThisName, n, scope)
	case *ast.Error:
		return e.evalReserved(config.ErrorName, n, scope)
	case *ast.FieldAccess:
		return e.evalFieldAccess(n, scope)
	case *ast.Subscript:
		return e.evalSubscript(n, scope)
	case *ast.Lambda:
		return &Closure{Lambda: n, Capture: scope}, nil
	case *ast.Application:
		return e.evalApplication(n, scope)
	case *ast.Let:
		return e.evalLet(n, scope)
	case *ast.If:
		return e.evalIf(n, scope)
	case *ast.Throw:
		return e.evalThrow(n, scope)
	case *ast.TryCatch:
		return e.evalTryCatch(n, scope)
	case *ast.TryFinally:
		return e.evalTryFinally(n, scope)
	case *ast.TryCatchFinally:
		return e.evalTryCatchFinally(n, scope)
	case *Native:
		return e.evalNative(n, scope)
	case *Operator:
		return e.evalOperator(n, scope)
	case nil:
		return nil, diagnostics.Internal("nil expression")
	}
	return nil, diagnostics.Internal("unknown node type %T", node)
}
