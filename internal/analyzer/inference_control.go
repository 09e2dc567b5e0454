package analyzer

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"
)

func (a *Analyzer) inferIf(node *ast.If, ctx Context) (typesystem.Type, error) {
	cond, err := a.TypeOf(node.Condition, ctx)
	if err != nil {
		return nil, err
	}
	if !cond.SubTypeOf(typesystem.Boolean{}) && !typesystem.IsDynamic(cond) {
		return nil, diagnostics.Type("condition must be a bool, got %s", cond).At(node)
	}
	then, err := a.TypeOf(node.Then, ctx)
	if err != nil {
		return nil, err
	}
	els, err := a.TypeOf(node.Else, ctx)
	if err != nil {
		return nil, err
	}
	t, err := join(then, els)
	if err != nil {
		return nil, diagnostics.Type("branches have unrelated types %s and %s", then, els).At(node)
	}
	return t, nil
}

// inferTry types the three try forms; catch or finally may be nil. The
// thrown value is unknown inside catch and the finally clause's type is
// discarded.
func (a *Analyzer) inferTry(try, catch, finally ast.Expression, ctx Context) (typesystem.Type, error) {
	t, err := a.TypeOf(try, ctx)
	if err != nil {
		return nil, err
	}
	if catch != nil {
		c, err := a.TypeOf(catch, ctx.Add(config.ErrorName, typesystem.Unknown{}))
		if err != nil {
			return nil, err
		}
		joined, err := join(t, c)
		if err != nil {
			return nil, diagnostics.Type("try and catch have unrelated types %s and %s", t, c).At(catch)
		}
		t = joined
	}
	if finally != nil {
		if _, err := a.TypeOf(finally, ctx); err != nil {
			return nil, err
		}
	}
	return t, nil
}
