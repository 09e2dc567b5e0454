package lambda_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/evaluator"
	"github.com/funvibe/lambda/internal/globals"
	lambda "github.com/funvibe/lambda/pkg/embed"
	"github.com/google/uuid"
)

// User represents a Go struct exposed as a record
type User struct {
	Name  string
	Score int
	notes string
}

func TestEmbedAPI(t *testing.T) {
	vm := lambda.New()

	vm.Bind("double", func(x int) int {
		return x * 2
	})
	vm.Bind("player", &User{Name: "Alice", Score: 10, notes: "hidden"})

	res, err := vm.Eval(`
list:
  - {apply: [double, 21]}
  - {field: Name, of: player}
  - {apply: ["+", {field: Score, of: player}, 5]}
`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := []interface{}{int64(42), "Alice", int64(15)}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("Eval = %#v, want %#v", res, want)
	}

	if _, err := vm.Eval(`{field: notes, of: player}`); !diagnostics.Is(err, diagnostics.KindType) {
		t.Errorf("unexported field: error = %v, want a type error", err)
	}
}

func TestCall(t *testing.T) {
	vm := lambda.New()
	vm.Bind("twice", func(f func(interface{}) (interface{}, error), x interface{}) (interface{}, error) {
		y, err := f(x)
		if err != nil {
			return nil, err
		}
		return f(y)
	})
	vm.Bind("n", 1)

	got, err := vm.Call("+", 1, 2)
	if err != nil {
		t.Fatalf("Call(+): %v", err)
	}
	if got != int64(3) {
		t.Errorf("Call(+) = %#v, want 3", got)
	}

	inc, err := vm.Eval(`{lambda: x, body: {apply: ["+", x, 1]}}`)
	if err != nil {
		t.Fatalf("Eval(inc): %v", err)
	}
	got, err = vm.Call("twice", inc, 5)
	if err != nil {
		t.Fatalf("Call(twice): %v", err)
	}
	if got != int64(7) {
		t.Errorf("Call(twice) = %#v, want 7", got)
	}

	if _, err := vm.Call("n"); err == nil {
		t.Error("calling a number should fail")
	}
	if _, err := vm.Call("not", 1); !diagnostics.Is(err, diagnostics.KindRuntime) {
		t.Errorf("Call(not, 1) error = %v, want a runtime error", err)
	}
}

func TestEvalReturnsFunction(t *testing.T) {
	vm := lambda.New()
	res, err := vm.Eval(`{lambda: x, body: {apply: ["*", x, x]}}`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	square, ok := res.(func(interface{}) (interface{}, error))
	if !ok {
		t.Fatalf("Eval = %T, want a host function", res)
	}
	got, err := square(9)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(81) {
		t.Errorf("square(9) = %#v, want 81", got)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diagnostics.Kind
	}{
		{"thrown value", `{throw: {literal: boom}}`, diagnostics.KindUser},
		{"ill-typed", `{apply: [1, 2]}`, diagnostics.KindType},
		{"missing global", `nope`, diagnostics.KindRuntime},
		{"bad tree", `{frobnicate: 1}`, diagnostics.KindSyntax},
		{"unbounded recursion", `{apply: [{apply: [fix, {lambda: f, body: {lambda: x, body: {apply: [f, x]}}}]}, 1]}`, diagnostics.KindResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.MaxDepth = 200
			_, err := lambda.NewWithConfig(cfg, nil).Eval(tt.src)
			if got := diagnostics.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", got, tt.kind, err)
			}
		})
	}
}

func TestTypeCheckRunsFirst(t *testing.T) {
	vm := lambda.New()
	calls := 0
	vm.Bind("tick", func() { calls++ })
	_, err := vm.Eval(`{if: 1, then: {apply: [tick, 0]}, else: 2}`)
	if !diagnostics.Is(err, diagnostics.KindType) {
		t.Fatalf("error = %v, want a type error", err)
	}
	if calls != 0 {
		t.Errorf("host function ran %d times before the type check", calls)
	}
}

func TestGlobalsFallback(t *testing.T) {
	reg := globals.New(map[string]interface{}{"x": 5, "y": 6})
	vm := lambda.NewWithConfig(config.Default(), reg)
	vm.Bind("y", 60)

	res, err := vm.Eval(`{apply: ["+", x, y]}`)
	if err != nil {
		t.Fatal(err)
	}
	if res != int64(65) {
		t.Errorf("x + y = %#v, want 65", res)
	}
	if got := vm.Names(); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestGet(t *testing.T) {
	vm := lambda.New()
	host, err := vm.Get("host")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"NULL": nil, "UNDEFINED": evaluator.Nothing{}}
	if !reflect.DeepEqual(host, want) {
		t.Errorf("Get(host) = %#v, want %#v", host, want)
	}
	if _, err := vm.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestEvalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum"+config.TreeFileExt)
	if err := os.WriteFile(path, []byte("{let: a.b, value: 2, in: {apply: [\"**\", {field: b, of: a}, 10]}}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := lambda.New().EvalFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if res != int64(1024) {
		t.Errorf("EvalFile = %#v, want 1024", res)
	}
}

func TestRunID(t *testing.T) {
	a, b := lambda.New(), lambda.New()
	if _, err := uuid.Parse(a.RunID()); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", a.RunID(), err)
	}
	if a.RunID() == b.RunID() {
		t.Error("run ids should differ between VMs")
	}
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"null", nil, `null`},
		{"void", evaluator.Nothing{}, `null`},
		{"natural", int64(3), `3`},
		{"string", "hi", `"hi"`},
		{"complex", complex(1, -2), `{"real": 1, "imag": -2}`},
		{"typed slice", []int{1, 2}, `[1, 2]`},
		{"nested", map[string]interface{}{"a": []interface{}{true, nil}}, `{"a": [true, null]}`},
		{"struct", User{Name: "Bob", Score: 2}, `{"Name": "Bob", "Score": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := lambda.ToJSON(tt.in)
			if err != nil {
				t.Fatalf("ToJSON: %v", err)
			}
			var got, want interface{}
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("invalid JSON %s: %v", out, err)
			}
			if err := json.Unmarshal([]byte(tt.want), &want); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ToJSON = %s, want %s", out, tt.want)
			}
		})
	}

	if _, err := lambda.ToJSON(func() {}); err == nil {
		t.Error("functions should not render as JSON")
	}
	if _, err := lambda.ToJSON(map[int]int{1: 1}); err == nil {
		t.Error("non-string keys should not render as JSON")
	}
}
