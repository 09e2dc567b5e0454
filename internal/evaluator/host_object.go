package evaluator

import (
	"reflect"
	"sort"

	"github.com/funvibe/lambda/internal/typesystem"
)

// Nothing is the host's "undefined": a value that is present but carries
// nothing. It is distinct from nil, the host's null.
type Nothing struct{}

// Null is the host nil seen from inside the evaluator.
type Null struct{}

func (n *Null) Tag() ValueTag                { return NULL_VAL }
func (n *Null) Inspect() string              { return "null" }
func (n *Null) RuntimeType() typesystem.Type { return typesystem.Unknown{} }

// Void is Nothing{} seen from inside the evaluator.
type Void struct{}

func (v *Void) Tag() ValueTag                { return VOID_VAL }
func (v *Void) Inspect() string              { return "void" }
func (v *Void) RuntimeType() typesystem.Type { return typesystem.Unknown{} }

var (
	NULL = &Null{}
	VOID = &Void{}
)

// hostMap serves the fields of a string-keyed host map.
type hostMap struct {
	m    reflect.Value
	eval *Evaluator
}

func (h hostMap) Lookup(name string) (Value, bool) {
	key := reflect.ValueOf(name).Convert(h.m.Type().Key())
	v := h.m.MapIndex(key)
	if !v.IsValid() {
		return nil, false
	}
	val, err := h.eval.Unmarshal(v.Interface())
	if err != nil {
		h.eval.logger().Debug("host field not representable", "field", name, "error", err)
		return nil, false
	}
	return val, true
}

func (h hostMap) Names() []string {
	names := make([]string, 0, h.m.Len())
	for _, key := range h.m.MapKeys() {
		names = append(names, key.String())
	}
	sort.Strings(names)
	return names
}

// hostStruct serves the exported fields of a host struct.
type hostStruct struct {
	s    reflect.Value
	eval *Evaluator
}

func (h hostStruct) Lookup(name string) (Value, bool) {
	field, ok := h.s.Type().FieldByName(name)
	if !ok || !field.IsExported() || field.Anonymous || len(field.Index) != 1 {
		return nil, false
	}
	val, err := h.eval.Unmarshal(h.s.Field(field.Index[0]).Interface())
	if err != nil {
		h.eval.logger().Debug("host field not representable", "field", name, "error", err)
		return nil, false
	}
	return val, true
}

func (h hostStruct) Names() []string {
	t := h.s.Type()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() && !f.Anonymous {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}
