package evaluator

import (
	"github.com/funvibe/lambda/internal/ast"
)

func (e *Evaluator) evalLiteral(node *ast.Literal) (Value, error) {
	v, err := e.Unmarshal(node.Value)
	if err != nil {
		return nil, atNode(err, node)
	}
	return v, nil
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, scope Scope) (Value, error) {
	elements := make([]Value, len(node.Elements))
	for i, el := range node.Elements {
		v, err := e.Eval(el, scope)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return NewList(elements), nil
}
