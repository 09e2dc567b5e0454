package evaluator

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func (e *Evaluator) evalApplication(node *ast.Application, scope Scope) (Value, error) {
	left, err := e.Eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	fn, ok := left.(*Closure)
	if !ok {
		return nil, diagnostics.Runtime("%s value is not a function", left.Tag()).At(node)
	}
	arg, err := e.Eval(node.Right, scope)
	if err != nil {
		return nil, err
	}
	return e.Apply(fn, arg)
}

// Apply calls fn with a single argument.
func (e *Evaluator) Apply(fn *Closure, arg Value) (Value, error) {
	return e.Eval(fn.Lambda.Body, fn.Capture.Add(fn.Lambda.Name, arg))
}

// ApplyAll calls a curried closure with args, one lambda per argument.
func (e *Evaluator) ApplyAll(fn *Closure, args ...Value) (Value, error) {
	if len(args) == 0 {
		return fn, nil
	}
	lambda := fn.Lambda
	scope := fn.Capture
	for i, arg := range args {
		scope = scope.Add(lambda.Name, arg)
		if i == len(args)-1 {
			break
		}
		next, ok := lambda.Body.(*ast.Lambda)
		if !ok {
			// The body returns a function value; keep applying it.
			result, err := e.Eval(lambda.Body, scope)
			if err != nil {
				return nil, err
			}
			c, ok := result.(*Closure)
			if !ok {
				return nil, diagnostics.Runtime("%s value is not a function", result.Tag())
			}
			return e.ApplyAll(c, args[i+1:]...)
		}
		lambda = next
	}
	return e.Eval(lambda.Body, scope)
}

// Z = fn f -> (fn x -> f (fn v -> x x v)) (fn x -> f (fn v -> x x v))
func zCombinator() ast.Expression {
	half := &ast.Lambda{Name: "x", Body: &ast.Application{
		Left: &ast.Variable{Name: "f"},
		Right: &ast.Lambda{Name: "v", Body: ast.Call(
			&ast.Variable{Name: "x"}, &ast.Variable{Name: "x"}, &ast.Variable{Name: "v"},
		)},
	}}
	return &ast.Lambda{Name: "f", Body: &ast.Application{Left: half, Right: half}}
}

// fixpoint returns the shared Z combinator closure.
func (e *Evaluator) fixpoint() (Value, error) {
	if e.fix == nil {
		v, err := e.Eval(zCombinator(), EmptyScope())
		if err != nil {
			return nil, err
		}
		e.fix = v
	}
	return e.fix, nil
}
