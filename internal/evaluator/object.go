package evaluator

import (
	"github.com/funvibe/lambda/internal/env"
	"github.com/funvibe/lambda/internal/typesystem"
)

// ValueTag is the runtime type tag matched by operator overloads.
type ValueTag string

const (
	UNDEFINED_VAL ValueTag = "undefined"
	BOOLEAN_VAL   ValueTag = "bool"
	COMPLEX_VAL   ValueTag = "complex"
	REAL_VAL      ValueTag = "real"
	INTEGER_VAL   ValueTag = "integer"
	NATURAL_VAL   ValueTag = "natural"
	STRING_VAL    ValueTag = "string"
	LIST_VAL      ValueTag = "list"
	ARRAY_VAL     ValueTag = "array" // host slice, unmarshaled lazily
	CLOSURE_VAL   ValueTag = "closure"
	NULL_VAL      ValueTag = "null" // host nil
	VOID_VAL      ValueTag = "void" // host Nothing{}
)

// Value is a runtime value.
type Value interface {
	Tag() ValueTag
	Inspect() string
	RuntimeType() typesystem.Type // structural type of the value
}

// Scope maps names to values. Closures capture it, records use it for
// their fields.
type Scope = env.Context[Value]

// EmptyScope returns a scope with no bindings.
func EmptyScope() Scope { return env.Empty[Value]() }

// Record is implemented by every value except the host sentinels. Any
// record can carry named fields.
type Record interface {
	Value
	Fields() Scope
	// WithFields returns a copy of the same kind and payload with the
	// given fields.
	WithFields(Scope) Record
}

// Indexed is implemented by strings, lists and host arrays.
type Indexed interface {
	Record
	Len() int
	// Index returns the element at i or a RuntimeError when i is out of
	// range.
	Index(i int64) (Value, error)
}

// fieldTypes maps record fields to their runtime types.
func fieldTypes(fields Scope) typesystem.Fields {
	if fields.Len() == 0 {
		return typesystem.Fields{}
	}
	return env.Map(fields, func(v Value) typesystem.Type { return v.RuntimeType() })
}
