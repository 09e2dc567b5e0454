package analyzer

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"
)

// Field access on a method yields the method's result: the receiver is
// applied implicitly.
func (a *Analyzer) inferFieldAccess(node *ast.FieldAccess, ctx Context) (typesystem.Type, error) {
	left, err := a.TypeOf(node.Left, ctx)
	if err != nil {
		return nil, err
	}
	if typesystem.IsDynamic(left) {
		return typesystem.Unknown{}, nil
	}
	rec, ok := left.(typesystem.Record)
	if !ok {
		return nil, diagnostics.Type("%s has no fields", left).At(node)
	}
	field, ok := rec.FieldTypes().Lookup(node.Name)
	if !ok {
		return nil, diagnostics.Type("%s has no field %q", left, node.Name).At(node)
	}
	switch method := field.(type) {
	case typesystem.Lambda:
		if method.Receiver {
			return method.Result, nil
		}
	case typesystem.ForEach:
		if fn, ok := method.Inner.(typesystem.Lambda); ok && fn.Receiver {
			return typesystem.Instantiate(method, left), nil
		}
	}
	return field, nil
}

func (a *Analyzer) inferSubscript(node *ast.Subscript, ctx Context) (typesystem.Type, error) {
	target, err := a.TypeOf(node.Target, ctx)
	if err != nil {
		return nil, err
	}
	index, err := a.TypeOf(node.Index, ctx)
	if err != nil {
		return nil, err
	}
	if !index.SubTypeOf(typesystem.Integer{}) && !typesystem.IsDynamic(index) {
		return nil, diagnostics.Type("index must be an integer, got %s", index).At(node)
	}
	if typesystem.IsDynamic(target) {
		return typesystem.Unknown{}, nil
	}
	seq, ok := target.(typesystem.IndexedType)
	if !ok {
		return nil, diagnostics.Type("%s cannot be indexed", target).At(node)
	}
	return seq.Inner(), nil
}

// inferLet mirrors the evaluator's path binding with types.
func (a *Analyzer) inferLet(node *ast.Let, ctx Context) (typesystem.Type, error) {
	if len(node.Names) == 0 {
		return nil, diagnostics.Internal("let without a name").At(node)
	}
	value, err := a.TypeOf(node.Value, ctx)
	if err != nil {
		return nil, err
	}
	return a.TypeOf(node.Body, a.bind(ctx, node.Names, value))
}

func (a *Analyzer) bind(ctx Context, path []string, value typesystem.Type) Context {
	root := path[0]
	if len(path) == 1 {
		return ctx.Add(root, value)
	}
	current, ok := ctx.Lookup(root)
	if !ok {
		current = a.globalType(root)
	}
	return ctx.Add(root, withPath(current, path[1:], value))
}

// withPath keeps the fields of a record type and starts any other type
// over as an empty record.
func withPath(current typesystem.Type, path []string, value typesystem.Type) typesystem.Record {
	rec, ok := current.(typesystem.Record)
	if !ok {
		rec = typesystem.Undefined{}
	}
	name := path[0]
	if len(path) > 1 {
		child, _ := rec.FieldTypes().Lookup(name)
		value = withPath(child, path[1:], value)
	}
	return rec.WithFields(rec.FieldTypes().Add(name, value))
}
