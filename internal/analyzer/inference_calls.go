package analyzer

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"
)

// fixType is t => ((t) -> (t)) -> (t). It is not in the directly
// instantiable form, so applying fix yields unknown.
func fixType() typesystem.Type {
	t := typesystem.Variable{Name: "t"}
	return typesystem.ForEach{
		Name:  t.Name,
		Inner: typesystem.NewLambda(typesystem.NewLambda(t, t), t),
	}
}

// An annotated parameter gives a plain function type; an un-annotated one
// is generic over a fresh type variable.
func (a *Analyzer) inferLambda(node *ast.Lambda, ctx Context) (typesystem.Type, error) {
	param := node.Type
	var quantified *typesystem.Variable
	if param == nil {
		v := a.freshVariable()
		quantified = &v
		param = v
	}
	result, err := a.TypeOf(node.Body, ctx.Add(node.Name, param))
	if err != nil {
		return nil, err
	}
	fn := typesystem.Lambda{
		Param:    param,
		Result:   result,
		Receiver: node.Name == config.ThisName,
	}
	if quantified == nil {
		return fn, nil
	}
	return typesystem.ForEach{Name: quantified.Name, Inner: fn}, nil
}

func (a *Analyzer) inferApplication(node *ast.Application, ctx Context) (typesystem.Type, error) {
	left, err := a.TypeOf(node.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := a.TypeOf(node.Right, ctx)
	if err != nil {
		return nil, err
	}
	switch fn := left.(type) {
	case typesystem.Lambda:
		if !right.SubTypeOf(fn.Param) && !typesystem.IsDynamic(right) && !typesystem.IsDynamic(fn.Param) {
			return nil, diagnostics.Type("cannot pass %s as %s", right, fn.Param).At(node)
		}
		return fn.Result, nil
	case typesystem.ForEach:
		return typesystem.Instantiate(fn, right), nil
	}
	if typesystem.IsDynamic(left) {
		return typesystem.Unknown{}, nil
	}
	return nil, diagnostics.Type("%s is not a function", left).At(node)
}
