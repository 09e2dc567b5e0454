package evaluator

import (
	"errors"
	"math"
	"reflect"

	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/env"
)

// Unmarshal converts host data to a value:
//
//	nil                    null sentinel
//	Nothing{}              void sentinel
//	bool                   Boolean
//	integers               Natural when >= 0, Integer otherwise
//	floats                 as integers when whole, Real otherwise
//	complex                Complex
//	string                 String
//	error                  String with the error message
//	slices and arrays      NativeArray, elements converted on access
//	string-keyed maps      Undefined record, fields converted on access
//	structs                Undefined record of the exported fields
//	functions              curried Closure over a Native node
//
// Values are returned unchanged.
func (e *Evaluator) Unmarshal(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return NULL, nil
	case Nothing:
		return VOID, nil
	case Value:
		return v, nil
	case bool:
		return nativeBoolToBooleanObject(v), nil
	case string:
		return &String{Value: v}, nil
	case complex128:
		return &Complex{Value: v}, nil
	case complex64:
		return &Complex{Value: complex128(v)}, nil
	case error:
		return &String{Value: v.Error()}, nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return integral(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return &Real{Value: float64(u)}, nil
		}
		n, err := NewNatural(int64(u))
		if err != nil {
			return nil, err
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float()), nil
	case reflect.Bool:
		return nativeBoolToBooleanObject(rv.Bool()), nil
	case reflect.String:
		return &String{Value: rv.String()}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NULL, nil
		}
		return &NativeArray{Array: rv, eval: e}, nil
	case reflect.Map:
		if rv.IsNil() {
			return NULL, nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, diagnostics.Runtime("cannot represent map with %s keys", rv.Type().Key())
		}
		return &Undefined{Members: env.FromLookup[Value](hostMap{m: rv, eval: e})}, nil
	case reflect.Struct:
		return &Undefined{Members: env.FromLookup[Value](hostStruct{s: rv, eval: e})}, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NULL, nil
		}
		return e.Unmarshal(rv.Elem().Interface())
	case reflect.Func:
		if rv.IsNil() {
			return NULL, nil
		}
		return e.fromFunc(rv), nil
	}
	return nil, diagnostics.Runtime("cannot represent host value of type %T", x)
}

// fromFloat keeps whole numbers integral so that host data decoded as
// float64 (JSON, YAML) still takes the natural-number overloads.
func fromFloat(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return integral(int64(f))
	}
	return &Real{Value: f}
}

// Marshal converts a value to host data. Natural and Integer become int64,
// Real float64, Complex complex128, lists []interface{}, plain records
// map[string]interface{} and closures functions taking and returning
// interface{}. Other record kinds drop their fields.
func (e *Evaluator) Marshal(v Value) (interface{}, error) {
	switch val := v.(type) {
	case *Null:
		return nil, nil
	case *Void:
		return Nothing{}, nil
	case *Boolean:
		return val.Value, nil
	case *Natural:
		return val.Value, nil
	case *Integer:
		return val.Value, nil
	case *Real:
		return val.Value, nil
	case *Complex:
		return val.Value, nil
	case *String:
		return val.Value, nil
	case *List:
		out := make([]interface{}, len(val.Elements))
		for i, el := range val.Elements {
			m, err := e.Marshal(el)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case *NativeArray:
		return val.Array.Interface(), nil
	case *Closure:
		return e.marshalClosure(val, NULL), nil
	case *Undefined:
		return e.marshalRecord(val)
	}
	return nil, diagnostics.Internal("cannot marshal %T", v)
}

func (e *Evaluator) marshalRecord(rec *Undefined) (map[string]interface{}, error) {
	out := make(map[string]interface{}, rec.Members.Len())
	var err error
	rec.Members.Each(func(name string, field Value) {
		if err != nil {
			return
		}
		if c, ok := field.(*Closure); ok && c.IsMethod() {
			out[name] = e.marshalClosure(c, rec)
			return
		}
		out[name], err = e.Marshal(field)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// marshalClosure returns a host function taking one interface{} per
// curried argument, minus the receiver for methods, and returning
// (interface{}, error). A thrown value leaves as *HostError.
func (e *Evaluator) marshalClosure(c *Closure, receiver Value) interface{} {
	arity := c.Arity()
	method := c.IsMethod()
	if method {
		arity--
	}
	in := make([]reflect.Type, arity)
	for i := range in {
		in[i] = anyType
	}
	fnType := reflect.FuncOf(in, []reflect.Type{anyType, errorType}, false)

	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		values := make([]Value, 0, arity+1)
		if method {
			values = append(values, receiver)
		}
		for _, a := range args {
			v, err := e.Unmarshal(a.Interface())
			if err != nil {
				return []reflect.Value{anyValue(nil), errorValue(err)}
			}
			values = append(values, v)
		}
		result, err := e.ApplyAll(c, values...)
		if err != nil {
			return []reflect.Value{anyValue(nil), errorValue(e.escape(err))}
		}
		out, err := e.Marshal(result)
		return []reflect.Value{anyValue(out), errorValue(err)}
	}).Interface()
}

// escape converts an exception leaving the evaluator into a HostError.
func (e *Evaluator) escape(err error) error {
	var ue *UserError
	if !errors.As(err, &ue) {
		return err
	}
	payload, merr := e.Marshal(ue.Value)
	if merr != nil {
		return merr
	}
	return &HostError{Payload: payload}
}
