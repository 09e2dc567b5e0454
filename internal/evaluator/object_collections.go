package evaluator

import (
	"reflect"
	"strings"

	"github.com/funvibe/lambda/internal/typesystem"
)

// List is an immutable sequence of values.
type List struct {
	Elements []Value
	Members  Scope
}

func NewList(elements []Value) *List { return &List{Elements: elements} }

func (l *List) Tag() ValueTag             { return LIST_VAL }
func (l *List) Fields() Scope             { return l.Members }
func (l *List) WithFields(f Scope) Record { return &List{Elements: l.Elements, Members: f} }
func (l *List) Len() int                  { return len(l.Elements) }

func (l *List) Index(i int64) (Value, error) {
	if i < 0 || i >= int64(len(l.Elements)) {
		return nil, indexError(i, len(l.Elements))
	}
	return l.Elements[i], nil
}

// RuntimeType joins the element types; unrelated elements give an unknown
// element type.
func (l *List) RuntimeType() typesystem.Type {
	var elem typesystem.Type = typesystem.Unknown{}
	for i, el := range l.Elements {
		t := el.RuntimeType()
		if i == 0 {
			elem = t
			continue
		}
		joined, ok := typesystem.Join(elem, t)
		if !ok {
			elem = typesystem.Unknown{}
			break
		}
		elem = joined
	}
	return typesystem.List{Elem: elem, Fields: fieldTypes(l.Members)}
}

func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// NativeArray is a host slice or array. Elements are unmarshaled on access
// and the original slice is handed back when marshaled.
type NativeArray struct {
	Array   reflect.Value
	Members Scope
	eval    *Evaluator
}

func (a *NativeArray) Tag() ValueTag { return ARRAY_VAL }
func (a *NativeArray) Fields() Scope { return a.Members }
func (a *NativeArray) WithFields(f Scope) Record {
	return &NativeArray{Array: a.Array, Members: f, eval: a.eval}
}
func (a *NativeArray) Len() int { return a.Array.Len() }

func (a *NativeArray) Index(i int64) (Value, error) {
	if i < 0 || i >= int64(a.Array.Len()) {
		return nil, indexError(i, a.Array.Len())
	}
	return a.eval.Unmarshal(a.Array.Index(int(i)).Interface())
}

func (a *NativeArray) RuntimeType() typesystem.Type {
	return typesystem.List{Elem: typesystem.Unknown{}, Fields: fieldTypes(a.Members)}
}

func (a *NativeArray) Inspect() string {
	parts := make([]string, a.Array.Len())
	for i := range parts {
		el, err := a.Index(int64(i))
		if err != nil {
			parts[i] = "?"
			continue
		}
		parts[i] = el.Inspect()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func inspectFields(fields Scope) string {
	parts := []string{}
	fields.Each(func(name string, v Value) {
		parts = append(parts, name+": "+v.Inspect())
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
