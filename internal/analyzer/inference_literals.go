package analyzer

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"
)

// Literals are typed by the value they denote.
func (a *Analyzer) inferLiteral(node *ast.Literal) (typesystem.Type, error) {
	v, err := a.values.Unmarshal(node.Value)
	if err != nil {
		return nil, diagnostics.Type("literal %s has no type: %v", node, err).At(node)
	}
	return v.RuntimeType(), nil
}

// An empty list has an unknown element type; otherwise the element types
// are joined pairwise.
func (a *Analyzer) inferListLiteral(node *ast.ListLiteral, ctx Context) (typesystem.Type, error) {
	var elem typesystem.Type = typesystem.Unknown{}
	for i, el := range node.Elements {
		t, err := a.TypeOf(el, ctx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			elem = t
			continue
		}
		joined, err := join(elem, t)
		if err != nil {
			return nil, diagnostics.Type("list elements have unrelated types %s and %s", elem, t).At(node)
		}
		elem = joined
	}
	return typesystem.NewList(elem), nil
}

func (a *Analyzer) inferVariable(node *ast.Variable, ctx Context) (typesystem.Type, error) {
	if t, ok := ctx.Lookup(node.Name); ok {
		return t, nil
	}
	return a.globalType(node.Name), nil
}

// globalType is the runtime type of the named global, or Unknown when
// there is none: missing globals only fail at evaluation.
func (a *Analyzer) globalType(name string) typesystem.Type {
	raw, ok := a.values.Globals.Global(name)
	if !ok {
		a.logger().Debug("unresolved global typed as unknown", "name", name)
		return typesystem.Unknown{}
	}
	v, err := a.values.Unmarshal(raw)
	if err != nil {
		return typesystem.Unknown{}
	}
	return v.RuntimeType()
}

func inferReserved(name string, node ast.Expression, ctx Context) (typesystem.Type, error) {
	if t, ok := ctx.Lookup(name); ok {
		return t, nil
	}
	return nil, diagnostics.Type("%s is not bound here", name).At(node)
}

var errUnrelated = diagnostics.Type("unrelated types")

// join is the dominance join. Dynamic types absorb everything.
func join(x, y typesystem.Type) (typesystem.Type, error) {
	if t, ok := typesystem.Join(x, y); ok {
		return t, nil
	}
	if typesystem.IsDynamic(x) || typesystem.IsDynamic(y) {
		return typesystem.Unknown{}, nil
	}
	return nil, errUnrelated
}
