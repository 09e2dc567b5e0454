package evaluator

import (
	"errors"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func (e *Evaluator) evalIf(node *ast.If, scope Scope) (Value, error) {
	cond, err := e.Eval(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return nil, diagnostics.Runtime("condition must be a bool, got %s", cond.Tag()).At(node)
	}
	if b.Value {
		return e.Eval(node.Then, scope)
	}
	return e.Eval(node.Else, scope)
}

func (e *Evaluator) evalThrow(node *ast.Throw, scope Scope) (Value, error) {
	v, err := e.Eval(node.Value, scope)
	if err != nil {
		return nil, err
	}
	return nil, &UserError{Value: v}
}

// catch runs handler with error bound to the thrown value. Anything other
// than a UserError propagates unchanged.
func (e *Evaluator) catch(err error, handler ast.Expression, scope Scope) (Value, error) {
	var ue *UserError
	if !errors.As(err, &ue) {
		return nil, err
	}
	return e.Eval(handler, scope.Add(config.ErrorName, ue.Value))
}

func (e *Evaluator) evalTryCatch(node *ast.TryCatch, scope Scope) (Value, error) {
	v, err := e.Eval(node.Try, scope)
	if err == nil {
		return v, nil
	}
	return e.catch(err, node.Catch, scope)
}

// finally runs the finally clause once. Its own failure replaces the
// outcome of the protected expression; its value is discarded.
func (e *Evaluator) finally(v Value, err error, clause ast.Expression, scope Scope) (Value, error) {
	if _, ferr := e.Eval(clause, scope); ferr != nil {
		return nil, ferr
	}
	return v, err
}

func (e *Evaluator) evalTryFinally(node *ast.TryFinally, scope Scope) (Value, error) {
	v, err := e.Eval(node.Try, scope)
	return e.finally(v, err, node.Finally, scope)
}

func (e *Evaluator) evalTryCatchFinally(node *ast.TryCatchFinally, scope Scope) (Value, error) {
	v, err := e.Eval(node.Try, scope)
	if err != nil {
		v, err = e.catch(err, node.Catch, scope)
	}
	return e.finally(v, err, node.Finally, scope)
}
