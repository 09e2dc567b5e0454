// Package analyzer computes the static type of an expression tree against
// a type context.
package analyzer

import (
	"log/slog"
	"strconv"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/env"
	"github.com/funvibe/lambda/internal/evaluator"
	"github.com/funvibe/lambda/internal/typesystem"
)

// Context maps names to their static types.
type Context = env.Context[typesystem.Type]

// Analyzer performs type judgments. Like the evaluator it is meant for a
// single goroutine: fresh type variable names come from a counter.
type Analyzer struct {
	Logger  *slog.Logger
	TypeMap map[ast.Expression]typesystem.Type // inferred types, recorded when non-nil

	values *evaluator.Evaluator // host data conversion for literals and globals
	fresh  int
}

// New returns an analyzer that types free names by the runtime type of
// the global of the same name.
func New(globals evaluator.Globals) *Analyzer {
	return &Analyzer{values: evaluator.New(globals)}
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *Analyzer) freshVariable() typesystem.Variable {
	a.fresh++
	return typesystem.Variable{Name: "t" + strconv.Itoa(a.fresh)}
}

// TypeOf judges node in ctx. Violations are TypeErrors.
func (a *Analyzer) TypeOf(node ast.Expression, ctx Context) (typesystem.Type, error) {
	t, err := a.typeOf(node, ctx)
	if err != nil {
		return nil, err
	}
	if a.TypeMap != nil {
		a.TypeMap[node] = t
	}
	return t, nil
}

func (a *Analyzer) typeOf(node ast.Expression, ctx Context) (typesystem.Type, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return a.inferLiteral(n)
	case *ast.ListLiteral:
		return a.inferListLiteral(n, ctx)
	case *ast.Variable:
		return a.inferVariable(n, ctx)
	case *ast.Fix:
		return fixType(), nil
	case *ast.This:
		return inferReserved(config.ThisName, n, ctx)
	case *ast.Error:
		return inferReserved(config.ErrorName, n, ctx)
	case *ast.FieldAccess:
		return a.inferFieldAccess(n, ctx)
	case *ast.Subscript:
		return a.inferSubscript(n, ctx)
	case *ast.Lambda:
		return a.inferLambda(n, ctx)
	case *ast.Application:
		return a.inferApplication(n, ctx)
	case *ast.Let:
		return a.inferLet(n, ctx)
	case *ast.If:
		return a.inferIf(n, ctx)
	case *ast.Throw:
		if _, err := a.TypeOf(n.Value, ctx); err != nil {
			return nil, err
		}
		return typesystem.Unknown{}, nil
	case *ast.TryCatch:
		return a.inferTry(n.Try, n.Catch, nil, ctx)
	case *ast.TryFinally:
		return a.inferTry(n.Try, nil, n.Finally, ctx)
	case *ast.TryCatchFinally:
		return a.inferTry(n.Try, n.Catch, n.Finally, ctx)
	case ast.HostExpression:
		// Host code has no static signature.
		return typesystem.Unknown{}, nil
	case nil:
		return nil, diagnostics.Internal("nil expression")
	}
	return nil, diagnostics.Internal("unknown node type %T", node)
}
