package analyzer

import (
	"testing"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unrelated list elements", `{list: [1, {literal: s}]}`},
		{"argument not a subtype", `{apply: [{lambda: x, type: natural, body: x}, {literal: s}]}`},
		{"list argument not a subtype", `{apply: [{lambda: x, type: {list: natural}, body: x}, {list: [-1]}]}`},
		{"applying a number", `{apply: [1, 2]}`},
		{"non-bool condition", `{if: 1, then: 1, else: 2}`},
		{"unrelated branches", `{if: true, then: 1, else: {literal: s}}`},
		{"missing field", `{field: y, of: {let: a.x, value: 1, in: a}}`},
		{"real index", `{index: 1.5, of: {list: [1]}}`},
		{"indexing a number", `{index: 0, of: 1}`},
		{"this outside a method", `this`},
		{"error outside catch", `error`},
		{"unrelated catch", `{try: 1, catch: {literal: s}}`},
		{"not on a number", `{apply: [not, 1]}`},
		{"and on strings", `{apply: [and, {literal: a}, true]}`},
		{"error inside finally", `{try: 1, finally: {apply: [1, 1]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := typeOfSource(t, nil, tt.src)
			if err == nil {
				t.Fatalf("expected a type error, got %s", got)
			}
			if !diagnostics.Is(err, diagnostics.KindType) {
				t.Errorf("error kind = %v, want %v (%v)", diagnostics.KindOf(err), diagnostics.KindType, err)
			}
		})
	}
}

func TestEmptyLetIsInternal(t *testing.T) {
	node := &ast.Let{Value: &ast.Literal{Value: 1}, Body: &ast.Literal{Value: 2}}
	_, err := New(nil).TypeOf(node, Context{})
	if !diagnostics.Is(err, diagnostics.KindInternal) {
		t.Errorf("error = %v, want an internal error", err)
	}
}

func TestErrorsCarryNode(t *testing.T) {
	node := &ast.If{Condition: &ast.Literal{Value: 1}, Then: &ast.Literal{Value: 1}, Else: &ast.Literal{Value: 2}}
	_, err := New(nil).TypeOf(node, Context{})
	derr, ok := err.(*diagnostics.Error)
	if !ok {
		t.Fatalf("error = %T, want *diagnostics.Error", err)
	}
	if derr.Node != node.String() {
		t.Errorf("error node = %q, want %q", derr.Node, node.String())
	}
}
