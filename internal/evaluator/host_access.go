package evaluator

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
)

// HostFunc is host code called from a Native node. this is the marshaled
// receiver when the node runs inside a method, nil otherwise.
type HostFunc func(this interface{}, args []interface{}) (interface{}, error)

// Native calls host code with the marshaled values of the named arguments.
type Native struct {
	ast.HostNode
	Name string
	Args []string
	Fn   HostFunc
}

func (n *Native) String() string {
	return "native " + n.Name + "(" + strings.Join(n.Args, ", ") + ")"
}

// NewNative builds the curried closure around fn. A host function of arity
// zero still takes one argument, which is ignored.
func NewNative(name string, arity int, fn HostFunc) *Closure {
	args := make([]string, arity)
	for i := range args {
		args[i] = argumentName(i)
	}
	var body ast.Expression = &Native{Name: name, Args: args, Fn: fn}
	if arity == 0 {
		body = &ast.Lambda{Name: argumentName(0), Body: body}
	}
	for i := arity - 1; i >= 0; i-- {
		body = &ast.Lambda{Name: args[i], Body: body}
	}
	return &Closure{Lambda: body.(*ast.Lambda), Capture: EmptyScope()}
}

func (e *Evaluator) evalNative(node *Native, scope Scope) (Value, error) {
	var this interface{}
	if v, ok := scope.Lookup(config.ThisName); ok {
		m, err := e.Marshal(v)
		if err != nil {
			return nil, err
		}
		this = m
	}
	args := make([]interface{}, len(node.Args))
	for i, name := range node.Args {
		v, ok := scope.Lookup(name)
		if !ok {
			return nil, diagnostics.Internal("native argument %q is not bound", name).At(node)
		}
		m, err := e.Marshal(v)
		if err != nil {
			return nil, err
		}
		args[i] = m
	}

	e.logger().Debug("host call", "native", node.Name, "args", len(args))
	result, err := callHost(node.Fn, this, args)
	if err != nil {
		return nil, e.hostFailure(err)
	}
	return e.Unmarshal(result)
}

// callHost turns panics into host exceptions.
func callHost(fn HostFunc, this interface{}, args []interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok && (diagnostics.IsLanguageError(rerr) || isHostError(rerr)) {
				err = rerr
				return
			}
			err = &HostError{Payload: r}
		}
	}()
	return fn(this, args)
}

func isHostError(err error) bool {
	var he *HostError
	return errors.As(err, &he)
}

// hostFailure maps an error returned by host code. Language errors pass
// through untouched; everything else becomes a catchable exception.
func (e *Evaluator) hostFailure(err error) error {
	if diagnostics.IsLanguageError(err) {
		return err
	}
	var he *HostError
	if errors.As(err, &he) {
		v, uerr := e.Unmarshal(he.Payload)
		if uerr != nil {
			return uerr
		}
		return &UserError{Value: v}
	}
	return &UserError{Value: &String{Value: err.Error()}}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// fromFunc wraps a host function. Arguments are converted to the declared
// parameter types; a trailing error result becomes an exception.
func (e *Evaluator) fromFunc(fn reflect.Value) *Closure {
	t := fn.Type()
	name := t.String()
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		name = f.Name()
	}
	return NewNative(name, t.NumIn(), func(_ interface{}, args []interface{}) (interface{}, error) {
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			v, err := convertArg(arg, t.In(i))
			if err != nil {
				return nil, fmt.Errorf("argument %d conversion failed: %w", i, err)
			}
			in[i] = v
		}
		var out []reflect.Value
		if t.IsVariadic() {
			out = fn.CallSlice(in)
		} else {
			out = fn.Call(in)
		}
		return hostResults(out)
	})
}

func hostResults(out []reflect.Value) (interface{}, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return Nothing{}, nil
	case 1:
		return out[0].Interface(), nil
	}
	results := make([]interface{}, len(out))
	for i, r := range out {
		results[i] = r.Interface()
	}
	return results, nil
}

func isNumberKind(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

func isComplexKind(k reflect.Kind) bool {
	return k == reflect.Complex64 || k == reflect.Complex128
}

// convertArg converts a marshaled value to a host parameter type.
func convertArg(val interface{}, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use null as %s", t)
	}
	if _, ok := val.(Nothing); ok && t.Kind() != reflect.Interface {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	switch {
	case isNumberKind(rv.Kind()) && isNumberKind(t.Kind()),
		isComplexKind(rv.Kind()) && isComplexKind(t.Kind()):
		return rv.Convert(t), nil
	case isNumberKind(rv.Kind()) && isComplexKind(t.Kind()):
		return reflect.ValueOf(complex(rv.Convert(reflect.TypeOf(float64(0))).Float(), 0)).Convert(t), nil
	case rv.Kind() == reflect.Slice && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := convertArg(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(el)
		}
		return out, nil
	case rv.Kind() == reflect.Map && t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			el, err := convertArg(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", iter.Key(), err)
			}
			out.SetMapIndex(reflect.ValueOf(iter.Key().String()).Convert(t.Key()), el)
		}
		return out, nil
	case rv.Kind() == reflect.Func && t.Kind() == reflect.Func:
		return adaptFunc(rv, t)
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
}

// adaptFunc gives a marshaled closure the signature a host function
// expects. Failures surface as a trailing error result when t has one and
// as a panic otherwise.
func adaptFunc(fn reflect.Value, t reflect.Type) (reflect.Value, error) {
	if fn.Type().NumIn() != t.NumIn() || fn.Type().NumOut() != 2 || t.IsVariadic() {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", fn.Type(), t)
	}
	returnsError := t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType
	if t.NumOut() > 2 || (t.NumOut() == 2 && !returnsError) {
		return reflect.Value{}, fmt.Errorf("unsupported callback type %s", t)
	}
	return reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = anyValue(a.Interface())
		}
		out := fn.Call(in)
		result := out[0].Interface()
		err, _ := out[1].Interface().(error)

		results := make([]reflect.Value, 0, t.NumOut())
		if t.NumOut() == 2 || (t.NumOut() == 1 && !returnsError) {
			var v reflect.Value
			if err == nil {
				v, err = convertArg(result, t.Out(0))
			}
			if err != nil {
				v = reflect.Zero(t.Out(0))
			}
			results = append(results, v)
		}
		if returnsError {
			results = append(results, errorValue(err))
		} else if err != nil {
			panic(err)
		}
		return results
	}), nil
}

var anyType = reflect.TypeOf((*interface{})(nil)).Elem()

// anyValue returns x as a reflect.Value of type interface{}, valid even
// for nil.
func anyValue(x interface{}) reflect.Value {
	return reflect.ValueOf(&x).Elem()
}

func errorValue(err error) reflect.Value {
	return reflect.ValueOf(&err).Elem()
}
