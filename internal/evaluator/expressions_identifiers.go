package evaluator

import (
	"errors"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func (e *Evaluator) evalVariable(node *ast.Variable, scope Scope) (Value, error) {
	if v, ok := scope.Lookup(node.Name); ok {
		return v, nil
	}
	if v, ok, err := e.global(node.Name); err != nil {
		return nil, atNode(err, node)
	} else if ok {
		return v, nil
	}
	return nil, diagnostics.Runtime("undefined variable %q", node.Name).At(node)
}

// global resolves name in the registry, unmarshaling the host value.
func (e *Evaluator) global(name string) (Value, bool, error) {
	raw, ok := e.Globals.Global(name)
	if !ok {
		return nil, false, nil
	}
	e.logger().Debug("resolved global", "name", name)
	v, err := e.Unmarshal(raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// evalReserved reads this or error, which only the evaluator binds.
func (e *Evaluator) evalReserved(name string, node ast.Expression, scope Scope) (Value, error) {
	if v, ok := scope.Lookup(name); ok {
		return v, nil
	}
	return nil, diagnostics.Runtime("%s is not bound here", name).At(node)
}

// atNode annotates taxonomy errors with the node being evaluated.
func atNode(err error, node ast.Expression) error {
	var de *diagnostics.Error
	if errors.As(err, &de) {
		return de.At(node)
	}
	return err
}
