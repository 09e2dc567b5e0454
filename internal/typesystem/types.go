package typesystem

import (
	"sort"
	"strings"

	"github.com/funvibe/lambda/internal/env"
)

// Fields holds the named field types of a record-like type.
type Fields = env.Context[Type]

// Type is the interface for all types in the lattice.
type Type interface {
	String() string
	// SubTypeOf reports whether the receiver is assignable to super.
	SubTypeOf(super Type) bool
}

// Record is implemented by the record-like family rooted at Undefined:
// every type except Unknown, Variable and ForEach.
type Record interface {
	Type
	Kind() Kind
	FieldTypes() Fields
	WithFields(Fields) Record
}

// IndexedType is implemented by types supporting integer element access.
type IndexedType interface {
	Record
	Inner() Type
}

// Unknown is the top of the lattice.
type Unknown struct{}

func (Unknown) String() string { return "unknown" }

func (Unknown) SubTypeOf(super Type) bool {
	_, ok := super.(Unknown)
	return ok
}

// Variable is a type variable introduced for an un-annotated parameter.
type Variable struct {
	Name string
}

func (t Variable) String() string { return t.Name }

func (t Variable) SubTypeOf(super Type) bool {
	switch s := super.(type) {
	case Unknown:
		return true
	case Variable:
		return s.Name == t.Name
	}
	return false
}

// ForEach universally quantifies Name over Inner.
type ForEach struct {
	Name  string
	Inner Type
}

func (t ForEach) String() string { return t.Name + " => " + t.Inner.String() }

func (t ForEach) SubTypeOf(super Type) bool {
	switch s := super.(type) {
	case Unknown:
		return true
	case ForEach:
		// Compare bodies after renaming the super's bound variable to ours.
		renamed := Substitute(s.Inner, s.Name, Variable{Name: t.Name})
		return t.Inner.SubTypeOf(renamed)
	}
	return false
}

// Undefined is the base record type. Its Fields describe the record's
// named members.
type Undefined struct {
	Fields Fields
}

func (t Undefined) String() string             { return "undefined" + fieldsString(t.Fields) }
func (t Undefined) Kind() Kind                 { return KindUndefined }
func (t Undefined) FieldTypes() Fields         { return t.Fields }
func (t Undefined) WithFields(f Fields) Record { return Undefined{Fields: f} }
func (t Undefined) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

type Boolean struct {
	Fields Fields
}

func (t Boolean) String() string             { return "bool" + fieldsString(t.Fields) }
func (t Boolean) Kind() Kind                 { return KindBoolean }
func (t Boolean) FieldTypes() Fields         { return t.Fields }
func (t Boolean) WithFields(f Fields) Record { return Boolean{Fields: f} }
func (t Boolean) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

type Complex struct {
	Fields Fields
}

func (t Complex) String() string             { return "complex" + fieldsString(t.Fields) }
func (t Complex) Kind() Kind                 { return KindComplex }
func (t Complex) FieldTypes() Fields         { return t.Fields }
func (t Complex) WithFields(f Fields) Record { return Complex{Fields: f} }
func (t Complex) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

type Real struct {
	Fields Fields
}

func (t Real) String() string             { return "real" + fieldsString(t.Fields) }
func (t Real) Kind() Kind                 { return KindReal }
func (t Real) FieldTypes() Fields         { return t.Fields }
func (t Real) WithFields(f Fields) Record { return Real{Fields: f} }
func (t Real) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

type Integer struct {
	Fields Fields
}

func (t Integer) String() string             { return "integer" + fieldsString(t.Fields) }
func (t Integer) Kind() Kind                 { return KindInteger }
func (t Integer) FieldTypes() Fields         { return t.Fields }
func (t Integer) WithFields(f Fields) Record { return Integer{Fields: f} }
func (t Integer) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

type Natural struct {
	Fields Fields
}

func (t Natural) String() string             { return "natural" + fieldsString(t.Fields) }
func (t Natural) Kind() Kind                 { return KindNatural }
func (t Natural) FieldTypes() Fields         { return t.Fields }
func (t Natural) WithFields(f Fields) Record { return Natural{Fields: f} }
func (t Natural) SubTypeOf(super Type) bool  { return recordSubTypeOf(t, super) }

// Indexed is the base of the element-access family.
type Indexed struct {
	Elem   Type
	Fields Fields
}

func (t Indexed) String() string             { return "(" + t.Elem.String() + ")[]" + fieldsString(t.Fields) }
func (t Indexed) Kind() Kind                 { return KindIndexed }
func (t Indexed) Inner() Type                { return t.Elem }
func (t Indexed) FieldTypes() Fields         { return t.Fields }
func (t Indexed) WithFields(f Fields) Record { return Indexed{Elem: t.Elem, Fields: f} }
func (t Indexed) SubTypeOf(super Type) bool  { return indexedSubTypeOf(t, super) }

// String is indexed by itself: subscripting a string yields a string.
// The self-reference is late-bound through Inner rather than stored.
type String struct {
	Fields Fields
}

func (t String) String() string             { return "string" + fieldsString(t.Fields) }
func (t String) Kind() Kind                 { return KindString }
func (t String) Inner() Type                { return t }
func (t String) FieldTypes() Fields         { return t.Fields }
func (t String) WithFields(f Fields) Record { return String{Fields: f} }
func (t String) SubTypeOf(super Type) bool  { return indexedSubTypeOf(t, super) }

// List is indexed by an explicit element type.
type List struct {
	Elem   Type
	Fields Fields
}

func NewList(elem Type) List { return List{Elem: elem} }

func (t List) String() string             { return "(" + t.Elem.String() + ")*" + fieldsString(t.Fields) }
func (t List) Kind() Kind                 { return KindList }
func (t List) Inner() Type                { return t.Elem }
func (t List) FieldTypes() Fields         { return t.Fields }
func (t List) WithFields(f Fields) Record { return List{Elem: t.Elem, Fields: f} }
func (t List) SubTypeOf(super Type) bool  { return indexedSubTypeOf(t, super) }

// Lambda is the function type. Receiver marks functions whose parameter is
// the reserved receiver name; field access applies them to the record.
type Lambda struct {
	Param    Type
	Result   Type
	Receiver bool
	Fields   Fields
}

func NewLambda(param, result Type) Lambda { return Lambda{Param: param, Result: result} }

func (t Lambda) String() string {
	return "(" + t.Param.String() + ") -> (" + t.Result.String() + ")" + fieldsString(t.Fields)
}
func (t Lambda) Kind() Kind         { return KindLambda }
func (t Lambda) FieldTypes() Fields { return t.Fields }
func (t Lambda) WithFields(f Fields) Record {
	return Lambda{Param: t.Param, Result: t.Result, Receiver: t.Receiver, Fields: f}
}

func (t Lambda) SubTypeOf(super Type) bool {
	if !recordSubTypeOf(t, super) {
		return false
	}
	if s, ok := super.(Lambda); ok {
		return s.Param.SubTypeOf(t.Param) && t.Result.SubTypeOf(s.Result)
	}
	return true
}

func fieldsString(f Fields) string {
	names := f.Names()
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + f.Top(name).String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
