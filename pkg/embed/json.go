package lambda

import (
	"fmt"
	"reflect"

	"github.com/funvibe/lambda/internal/evaluator"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToJSON renders a marshaled result as JSON. Complex numbers become
// {"real": r, "imag": i} and host.UNDEFINED becomes null. Functions cannot
// be rendered.
func ToJSON(x interface{}) ([]byte, error) {
	plain, err := jsonValue(reflect.ValueOf(x))
	if err != nil {
		return nil, err
	}
	pb, err := structpb.NewValue(plain)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return protojson.MarshalOptions{Indent: "  "}.Marshal(pb)
}

// jsonValue normalises typed host values to the shapes structpb accepts.
func jsonValue(rv reflect.Value) (interface{}, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if _, ok := rv.Interface().(evaluator.Nothing); ok {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return map[string]interface{}{"real": real(c), "imag": imag(c)}, nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return jsonValue(rv.Elem())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			item, err := jsonValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = item
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot render map with %s keys as JSON", rv.Type().Key())
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := jsonValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	case reflect.Struct:
		out := make(map[string]interface{})
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			item, err := jsonValue(rv.Field(i))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			out[f.Name] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot render %s as JSON", rv.Type())
}
