package evaluator

import (
	"math"
	"testing"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func list(elements ...ast.Expression) ast.Expression {
	return &ast.ListLiteral{Elements: elements}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		op   string
		args []ast.Expression
		tag  ValueTag
		want string
	}{
		{"+", []ast.Expression{lit(2), lit(3)}, NATURAL_VAL, "5"},
		{"+", []ast.Expression{lit(-2), lit(3)}, NATURAL_VAL, "1"},
		{"-", []ast.Expression{lit(2), lit(3)}, INTEGER_VAL, "-1"},
		{"*", []ast.Expression{lit(2), lit(1.5)}, REAL_VAL, "3"},
		{"/", []ast.Expression{lit(7), lit(2)}, NATURAL_VAL, "3"},
		{"/", []ast.Expression{lit(-7), lit(2)}, INTEGER_VAL, "-3"},
		{"/", []ast.Expression{lit(7.5), lit(2.5)}, REAL_VAL, "3"},
		{"%", []ast.Expression{lit(7), lit(3)}, NATURAL_VAL, "1"},
		{"**", []ast.Expression{lit(2), lit(10)}, NATURAL_VAL, "1024"},
		{"**", []ast.Expression{lit(2), lit(-1)}, REAL_VAL, "0.5"},
		{"**", []ast.Expression{lit(-3), lit(3)}, INTEGER_VAL, "-27"},
		{"+", []ast.Expression{lit(complex(1, 1)), lit(1)}, COMPLEX_VAL, "2+1i"},
		{"+", []ast.Expression{lit(1), lit(complex(0, 2))}, COMPLEX_VAL, "1+2i"},
		{"+", []ast.Expression{lit("ab"), lit("cd")}, STRING_VAL, "abcd"},
		{"+", []ast.Expression{list(lit(1)), list(lit(2))}, LIST_VAL, "{ 1, 2 }"},
		{"<", []ast.Expression{lit(1), lit(2)}, BOOLEAN_VAL, "true"},
		{"<", []ast.Expression{lit(1.5), lit(1)}, BOOLEAN_VAL, "false"},
		{"<=", []ast.Expression{lit(2), lit(2)}, BOOLEAN_VAL, "true"},
		{">", []ast.Expression{lit("b"), lit("a")}, BOOLEAN_VAL, "true"},
		{">=", []ast.Expression{lit(-1), lit(0)}, BOOLEAN_VAL, "false"},
		{"<<", []ast.Expression{lit(1), lit(4)}, NATURAL_VAL, "16"},
		{"<<", []ast.Expression{lit(1), lit(62)}, NATURAL_VAL, "4611686018427387904"},
		{"<<", []ast.Expression{lit(1), lit(63)}, REAL_VAL, "9.223372036854776e+18"},
		{"<<", []ast.Expression{lit(-1), lit(63)}, INTEGER_VAL, "-9223372036854775808"},
		{"<<", []ast.Expression{lit(0), lit(100)}, NATURAL_VAL, "0"},
		{"+", []ast.Expression{lit(int64(math.MaxInt64)), lit(1)}, REAL_VAL, "9.223372036854776e+18"},
		{"-", []ast.Expression{lit(int64(math.MinInt64)), lit(1)}, REAL_VAL, "-9.223372036854776e+18"},
		{"*", []ast.Expression{lit(int64(1) << 62), lit(4)}, REAL_VAL, "1.8446744073709552e+19"},
		{"*", []ast.Expression{lit(int64(math.MinInt64)), lit(-1)}, REAL_VAL, "9.223372036854776e+18"},
		{"/", []ast.Expression{lit(int64(math.MinInt64)), lit(-1)}, REAL_VAL, "9.223372036854776e+18"},
		{"**", []ast.Expression{lit(2), lit(62)}, NATURAL_VAL, "4611686018427387904"},
		{"**", []ast.Expression{lit(2), lit(64)}, REAL_VAL, "1.8446744073709552e+19"},
		{"**", []ast.Expression{lit(-2), lit(63)}, INTEGER_VAL, "-9223372036854775808"},
		{">>", []ast.Expression{lit(-8), lit(1)}, INTEGER_VAL, "-4"},
		{"=", []ast.Expression{lit(1), lit(1.0)}, BOOLEAN_VAL, "true"},
		{"=", []ast.Expression{lit(2), lit(2.5)}, BOOLEAN_VAL, "false"},
		{"=", []ast.Expression{lit("a"), lit(1)}, BOOLEAN_VAL, "false"},
		{"=", []ast.Expression{list(lit(1), lit("x")), list(lit(1), lit("x"))}, BOOLEAN_VAL, "true"},
		{"!=", []ast.Expression{list(lit(1)), list(lit(2))}, BOOLEAN_VAL, "true"},
		{"=", []ast.Expression{lit([]int{1, 2}), list(lit(1), lit(2))}, BOOLEAN_VAL, "true"},
		{"and", []ast.Expression{lit(true), lit(false)}, BOOLEAN_VAL, "false"},
		{"or", []ast.Expression{lit(true), lit(false)}, BOOLEAN_VAL, "true"},
		{"xor", []ast.Expression{lit(true), lit(true)}, BOOLEAN_VAL, "false"},
		{"not", []ast.Expression{lit(false)}, BOOLEAN_VAL, "true"},
		{"typeof", []ast.Expression{list(lit(1), lit(-1))}, STRING_VAL, "(integer)*"},
		{"typeof", []ast.Expression{lit("s")}, STRING_VAL, "string"},
	}
	for _, tt := range tests {
		node := ast.Call(v(tt.op), tt.args...)
		t.Run(node.String(), func(t *testing.T) {
			got := mustRun(t, nil, node)
			if got.Tag() != tt.tag || got.Inspect() != tt.want {
				t.Errorf("%s = %s %s, want %s %s", node, got.Tag(), got.Inspect(), tt.tag, tt.want)
			}
		})
	}
}

func TestOperatorMisses(t *testing.T) {
	tests := []ast.Expression{
		ast.Call(v("+"), lit("a"), lit(1)),
		ast.Call(v("+"), lit(1), lit("a")),
		ast.Call(v("%"), lit(complex(1, 1)), lit(1)),
		ast.Call(v("<<"), lit(1), lit(-1)),
		ast.Call(v("and"), lit(1), lit(true)),
		ast.Call(v("not"), lit(0)),
		ast.Call(v("<"), lit(true), lit(false)),
	}
	for _, node := range tests {
		t.Run(node.String(), func(t *testing.T) {
			_, err := run(t, New(nil), node)
			if !diagnostics.Is(err, diagnostics.KindRuntime) {
				t.Errorf("%s error = %v, want RuntimeError", node, err)
			}
		})
	}
}

func TestOverloadOrder(t *testing.T) {
	first := func([]Value) (Value, error) { return &String{Value: "first"}, nil }
	second := func([]Value) (Value, error) { return &String{Value: "second"}, nil }
	table := Overloads{Do("natural|integer", first), Do("natural", second)}
	impl, err := table.Resolve([]Value{&Natural{Value: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := impl(nil); got.Inspect() != "first" {
		t.Errorf("resolved %s, want the first declared overload", got.Inspect())
	}

	// Patterns are anchored: "nat" must not match "natural".
	partial := Overloads{Do("nat", first)}
	if _, err := partial.Resolve([]Value{&Natural{Value: 1}}); !diagnostics.Is(err, diagnostics.KindRuntime) {
		t.Errorf("unanchored match: error = %v", err)
	}

	shallow := Overloads{Do(".*", first)}
	if _, err := shallow.Resolve([]Value{NULL, NULL}); !diagnostics.Is(err, diagnostics.KindInternal) {
		t.Errorf("table shallower than arity: error = %v, want InternalError", err)
	}
}

func TestNewNatural(t *testing.T) {
	if n, err := NewNatural(3); err != nil || n.Value != 3 {
		t.Errorf("NewNatural(3) = %v, %v", n, err)
	}
	if _, err := NewNatural(-1); !diagnostics.Is(err, diagnostics.KindInternal) {
		t.Errorf("NewNatural(-1) error = %v, want InternalError", err)
	}
}

func TestValuesEqual(t *testing.T) {
	e := New(nil)
	unmarshal := func(x interface{}) Value {
		t.Helper()
		v, err := e.Unmarshal(x)
		if err != nil {
			t.Fatalf("Unmarshal(%#v) error: %v", x, err)
		}
		return v
	}
	ints := NewList([]Value{&Natural{Value: 1}, &Natural{Value: 2}})
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"host slice and list", unmarshal([]int{1, 2}), ints, true},
		{"list and host array", ints, unmarshal([2]int64{1, 2}), true},
		{"different lengths", unmarshal([]int{1}), ints, false},
		{"different elements", unmarshal([]int{1, 3}), ints, false},
		{"string and list", &String{Value: "ab"}, NewList([]Value{&String{Value: "a"}, &String{Value: "b"}}), false},
		{"strings", &String{Value: "ab"}, unmarshal("ab"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual(%s, %s) = %v, want %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
			}
		})
	}
}
