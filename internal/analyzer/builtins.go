package analyzer

import (
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/env"
	"github.com/funvibe/lambda/internal/evaluator"
	"github.com/funvibe/lambda/internal/typesystem"
)

func binary(left, right, result typesystem.Type) typesystem.Type {
	return typesystem.NewLambda(left, typesystem.NewLambda(right, result))
}

// builtinTypes refines the runtime types of the default operators whose
// result kind does not depend on the overload chosen.
func builtinTypes() map[string]typesystem.Type {
	unknown := typesystem.Unknown{}
	boolean := typesystem.Boolean{}
	predicate := binary(unknown, unknown, boolean)
	logic := binary(boolean, boolean, boolean)
	return map[string]typesystem.Type{
		config.TypeOfFuncName: typesystem.NewLambda(unknown, typesystem.String{}),
		config.NotFuncName:    typesystem.NewLambda(boolean, boolean),
		"<":                   predicate,
		"<=":                  predicate,
		">":                   predicate,
		">=":                  predicate,
		"=":                   predicate,
		"!=":                  predicate,
		"and":                 logic,
		"or":                  logic,
		"xor":                 logic,
	}
}

// DefaultContext types a value scope, typically the evaluator's default
// context, by runtime type with the operator signatures above.
func DefaultContext(scope evaluator.Scope) Context {
	ctx := env.Map(scope, func(v evaluator.Value) typesystem.Type { return v.RuntimeType() })
	for name, t := range builtinTypes() {
		if ctx.Has(name) {
			ctx = ctx.Add(name, t)
		}
	}
	return ctx
}
