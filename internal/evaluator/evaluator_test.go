package evaluator

import (
	"errors"
	"testing"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

type mapGlobals map[string]interface{}

func (g mapGlobals) Global(name string) (interface{}, bool) {
	v, ok := g[name]
	return v, ok
}

func lit(x interface{}) ast.Expression { return &ast.Literal{Value: x} }
func v(name string) ast.Expression     { return &ast.Variable{Name: name} }

func lam(name string, body ast.Expression) *ast.Lambda {
	return &ast.Lambda{Name: name, Body: body}
}

func let(path string, value, body ast.Expression) ast.Expression {
	return &ast.Let{Names: ast.Path(path), Value: value, Body: body}
}

func field(left ast.Expression, name string) ast.Expression {
	return &ast.FieldAccess{Left: left, Name: name}
}

func run(t *testing.T, e *Evaluator, node ast.Expression) (Value, error) {
	t.Helper()
	scope, err := e.DefaultContext()
	if err != nil {
		t.Fatalf("DefaultContext: %v", err)
	}
	return e.Eval(node, scope)
}

func mustRun(t *testing.T, globals Globals, node ast.Expression) Value {
	t.Helper()
	val, err := run(t, New(globals), node)
	if err != nil {
		t.Fatalf("Eval(%s) error: %v", node, err)
	}
	return val
}

func factorial() ast.Expression {
	return ast.Call(&ast.Fix{}, lam("f", lam("n", &ast.If{
		Condition: ast.Call(v("="), v("n"), lit(0)),
		Then:      lit(1),
		Else:      ast.Call(v("*"), v("n"), ast.Call(v("f"), ast.Call(v("-"), v("n"), lit(1)))),
	})))
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		node ast.Expression
		want string
	}{
		{"literal", lit(42), "42"},
		{"negative literal", lit(-3), "-3"},
		{"whole float", lit(2.0), "2"},
		{"real literal", lit(1.5), "1.5"},
		{"string literal", lit("hi"), "hi"},
		{"list literal", &ast.ListLiteral{Elements: []ast.Expression{lit(1), lit("a")}}, "{ 1, a }"},
		{"identity", ast.Call(lam("x", v("x")), lit(7)), "7"},
		{"closure capture", ast.Call(ast.Call(lam("x", lam("y", v("x"))), lit(1)), lit(2)), "1"},
		{"shadowing", ast.Call(lam("x", ast.Call(lam("x", v("x")), lit(2))), lit(1)), "2"},
		{"subscript list", &ast.Subscript{Target: &ast.ListLiteral{Elements: []ast.Expression{lit(1), lit(2)}}, Index: lit(1)}, "2"},
		{"subscript string", &ast.Subscript{Target: lit("héllo"), Index: lit(1)}, "é"},
		{"let", let("x", lit(3), v("x")), "3"},
		{"let merges paths", let("a.b", lit(1), let("a.c", lit(2), v("a"))), "{b: 1, c: 2}"},
		{"nested path", let("a.b.c", lit(1), field(field(v("a"), "b"), "c")), "1"},
		{"fields on numbers", let("n", lit(5), let("n.unit", lit("m"), field(v("n"), "unit"))), "m"},
		{"if true", &ast.If{Condition: lit(true), Then: lit(1), Else: &ast.Throw{Value: lit(2)}}, "1"},
		{"if false", &ast.If{Condition: lit(false), Then: &ast.Throw{Value: lit(1)}, Else: lit(2)}, "2"},
		{"try catch", &ast.TryCatch{Try: &ast.Throw{Value: lit(42)}, Catch: &ast.Error{}}, "42"},
		{"try without throw", &ast.TryCatch{Try: lit(1), Catch: lit(2)}, "1"},
		{"factorial", ast.Call(factorial(), lit(5)), "120"},
		{"method", let("p.x", lit(3), let("p.getX", lam("this", field(&ast.This{}, "x")), field(v("p"), "getX"))), "3"},
		{"typeof", ast.Call(v("typeof"), lit(1)), "natural"},
		{"host null", field(v("host"), "NULL"), "null"},
		{"let replaces non-records", let("n", field(v("host"), "NULL"), let("n.x", lit(1), v("n"))), "{x: 1}"},
		{"seq", ast.Call(ast.Call(v("seq"), lit(1)), lit(2)), "fn v -> ((x x) v)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, nil, tt.node)
			if got.Inspect() != tt.want {
				t.Errorf("Eval(%s) = %s, want %s", tt.node, got.Inspect(), tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	list := &ast.ListLiteral{Elements: []ast.Expression{lit(1), lit(2), lit(3)}}
	tests := []struct {
		name string
		node ast.Expression
		kind diagnostics.Kind
	}{
		{"index below range", &ast.Subscript{Target: list, Index: lit(-1)}, diagnostics.KindRuntime},
		{"index at length", &ast.Subscript{Target: list, Index: lit(3)}, diagnostics.KindRuntime},
		{"string index at length", &ast.Subscript{Target: lit("ab"), Index: lit(2)}, diagnostics.KindRuntime},
		{"real index", &ast.Subscript{Target: list, Index: lit(0.5)}, diagnostics.KindRuntime},
		{"index a number", &ast.Subscript{Target: lit(1), Index: lit(0)}, diagnostics.KindRuntime},
		{"undefined variable", v("nope"), diagnostics.KindRuntime},
		{"apply a number", ast.Call(lit(1), lit(2)), diagnostics.KindRuntime},
		{"missing field", field(lit(1), "x"), diagnostics.KindRuntime},
		{"non-bool condition", &ast.If{Condition: lit(1), Then: lit(1), Else: lit(2)}, diagnostics.KindRuntime},
		{"this outside method", &ast.This{}, diagnostics.KindRuntime},
		{"error outside catch", &ast.Error{}, diagnostics.KindRuntime},
		{"throw", &ast.Throw{Value: lit(1)}, diagnostics.KindUser},
		{"runtime errors are not caught", &ast.TryCatch{Try: v("nope"), Catch: lit(1)}, diagnostics.KindRuntime},
		{"overload miss", ast.Call(v("+"), lit("a"), lit(1)), diagnostics.KindRuntime},
		{"division by zero", ast.Call(v("/"), lit(1), lit(0)), diagnostics.KindRuntime},
		{"empty let", &ast.Let{Value: lit(1), Body: lit(2)}, diagnostics.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, New(nil), tt.node)
			if got := diagnostics.KindOf(err); got != tt.kind {
				t.Errorf("Eval(%s) error = %v, want %s", tt.node, err, tt.kind)
			}
		})
	}
}

func TestFinally(t *testing.T) {
	count := 0
	globals := mapGlobals{"tick": func() int { count++; return count }}
	tick := ast.Call(v("tick"), lit(0))

	tests := []struct {
		name string
		node ast.Expression
		want string
		kind diagnostics.Kind
	}{
		{"catch then finally", &ast.TryCatchFinally{Try: &ast.Throw{Value: lit("boom")}, Catch: &ast.Error{}, Finally: tick}, "boom", diagnostics.KindUnknown},
		{"no throw", &ast.TryCatchFinally{Try: lit(1), Catch: lit(2), Finally: tick}, "1", diagnostics.KindUnknown},
		{"finally after failure", &ast.TryFinally{Try: v("nope"), Finally: tick}, "", diagnostics.KindRuntime},
		{"rethrow from catch", &ast.TryCatchFinally{Try: &ast.Throw{Value: lit(1)}, Catch: &ast.Throw{Value: lit(2)}, Finally: tick}, "", diagnostics.KindUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count = 0
			got, err := run(t, New(globals), tt.node)
			if count != 1 {
				t.Errorf("finally ran %d times, want 1", count)
			}
			if tt.kind != diagnostics.KindUnknown {
				if diagnostics.KindOf(err) != tt.kind {
					t.Errorf("error = %v, want %s", err, tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Inspect() != tt.want {
				t.Errorf("got %s, want %s", got.Inspect(), tt.want)
			}
		})
	}
}

func TestFinallyErrorReplacesOutcome(t *testing.T) {
	node := &ast.TryFinally{Try: &ast.Throw{Value: lit(1)}, Finally: &ast.Throw{Value: lit(2)}}
	_, err := run(t, New(nil), node)
	var ue *UserError
	if !errors.As(err, &ue) || ue.Value.Inspect() != "2" {
		t.Errorf("error = %v, want UserError: 2", err)
	}
}

func TestMaxDepth(t *testing.T) {
	loop := ast.Call(&ast.Fix{}, lam("f", lam("x", ast.Call(v("f"), v("x")))))
	e := New(nil)
	e.MaxDepth = 500
	_, err := run(t, e, ast.Call(loop, lit(0)))
	if !diagnostics.Is(err, diagnostics.KindResource) {
		t.Fatalf("error = %v, want ResourceError", err)
	}

	// Resource errors are not catchable.
	_, err = run(t, e, &ast.TryCatch{Try: ast.Call(loop, lit(0)), Catch: lit(1)})
	if !diagnostics.Is(err, diagnostics.KindResource) {
		t.Errorf("caught error = %v, want ResourceError", err)
	}
	if e.depth != 0 {
		t.Errorf("depth = %d after unwinding", e.depth)
	}
}

func TestGlobals(t *testing.T) {
	globals := mapGlobals{
		"Host":  map[string]interface{}{"a": 1},
		"scale": 10,
	}
	tests := []struct {
		name string
		node ast.Expression
		want string
	}{
		{"global", v("scale"), "10"},
		{"scope shadows global", let("scale", lit(2), v("scale")), "2"},
		{"host map field", field(v("Host"), "a"), "1"},
		{"let extends global", let("Host.b", lit(2), ast.Call(v("+"), field(v("Host"), "a"), field(v("Host"), "b"))), "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, globals, tt.node)
			if got.Inspect() != tt.want {
				t.Errorf("Eval(%s) = %s, want %s", tt.node, got.Inspect(), tt.want)
			}
		})
	}
}

func TestLetDoesNotMutate(t *testing.T) {
	e := New(nil)
	base := EmptyScope().Add("a", &Undefined{Members: EmptyScope().Add("b", &Natural{Value: 1})})
	got, err := e.Eval(let("a.c", lit(2), v("a")), base)
	if err != nil {
		t.Fatal(err)
	}
	if got.(Record).Fields().Len() != 2 {
		t.Errorf("extended record = %s", got.Inspect())
	}
	if base.Top("a").(Record).Fields().Len() != 1 {
		t.Errorf("original record was mutated: %s", base.Top("a").Inspect())
	}
}
