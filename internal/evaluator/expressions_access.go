package evaluator

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccess, scope Scope) (Value, error) {
	left, err := e.Eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	rec, ok := left.(Record)
	if !ok {
		return nil, diagnostics.Runtime("%s value has no fields", left.Tag()).At(node)
	}
	field, ok := rec.Fields().Lookup(node.Name)
	if !ok {
		return nil, diagnostics.Runtime("no field %q", node.Name).At(node)
	}
	// Methods see the record they were read from as this.
	if c, ok := field.(*Closure); ok && c.IsMethod() {
		return e.Eval(c.Lambda.Body, c.Capture.Add(config.ThisName, left))
	}
	return field, nil
}

func (e *Evaluator) evalSubscript(node *ast.Subscript, scope Scope) (Value, error) {
	target, err := e.Eval(node.Target, scope)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(node.Index, scope)
	if err != nil {
		return nil, err
	}
	seq, ok := target.(Indexed)
	if !ok {
		return nil, diagnostics.Runtime("%s value cannot be indexed", target.Tag()).At(node)
	}
	var i int64
	switch idx := index.(type) {
	case *Natural:
		i = idx.Value
	case *Integer:
		i = idx.Value
	default:
		return nil, diagnostics.Runtime("index must be an integer, got %s", index.Tag()).At(node)
	}
	v, err := seq.Index(i)
	if err != nil {
		return nil, atNode(err, node)
	}
	return v, nil
}

func (e *Evaluator) evalLet(node *ast.Let, scope Scope) (Value, error) {
	if len(node.Names) == 0 {
		return nil, diagnostics.Internal("let without a name").At(node)
	}
	value, err := e.Eval(node.Value, scope)
	if err != nil {
		return nil, err
	}
	inner, err := e.bind(scope, node.Names, value)
	if err != nil {
		return nil, atNode(err, node)
	}
	return e.Eval(node.Body, inner)
}

// bind adds value under path. A dotted path extends the record already
// bound to its root, or the global of that name, without mutating it.
func (e *Evaluator) bind(scope Scope, path []string, value Value) (Scope, error) {
	root := path[0]
	if len(path) == 1 {
		return scope.Add(root, value), nil
	}
	current, ok := scope.Lookup(root)
	if !ok {
		g, _, err := e.global(root)
		if err != nil {
			return scope, err
		}
		current = g
	}
	return scope.Add(root, withPath(current, path[1:], value)), nil
}

// withPath keeps the fields of a record and starts anything else, missing
// segments included, over as an empty record.
func withPath(current Value, path []string, value Value) Record {
	rec, ok := current.(Record)
	if !ok {
		rec = &Undefined{}
	}
	name := path[0]
	if len(path) > 1 {
		child, _ := rec.Fields().Lookup(name)
		value = withPath(child, path[1:], value)
	}
	return rec.WithFields(rec.Fields().Add(name, value))
}
