package typesystem

import "github.com/funvibe/lambda/internal/env"

// Kind identifies a member of the record-like family. Kinds form a tree
// rooted at KindUndefined; a record type is a subtype of another only if
// its kind descends from the other's kind.
type Kind int

const (
	KindUndefined Kind = iota
	KindBoolean
	KindComplex
	KindReal
	KindInteger
	KindNatural
	KindIndexed
	KindString
	KindList
	KindLambda
)

var kindParents = map[Kind]Kind{
	KindBoolean: KindUndefined,
	KindComplex: KindUndefined,
	KindReal:    KindComplex,
	KindInteger: KindReal,
	KindNatural: KindInteger,
	KindIndexed: KindUndefined,
	KindString:  KindIndexed,
	KindList:    KindIndexed,
	KindLambda:  KindUndefined,
}

// IsA reports whether k is super or descends from it.
func (k Kind) IsA(super Kind) bool {
	for {
		if k == super {
			return true
		}
		parent, ok := kindParents[k]
		if !ok {
			return false
		}
		k = parent
	}
}

// recordSubTypeOf implements width-and-depth structural subtyping: the kinds
// must be related and every field required by super must be present in sub
// with a subtype.
func recordSubTypeOf(sub Record, super Type) bool {
	switch s := super.(type) {
	case Unknown:
		return true
	case Record:
		if !sub.Kind().IsA(s.Kind()) {
			return false
		}
		want := s.FieldTypes()
		have := sub.FieldTypes()
		for _, name := range want.Names() {
			field, ok := have.Lookup(name)
			if !ok || !field.SubTypeOf(want.Top(name)) {
				return false
			}
		}
		return true
	}
	return false
}

func indexedSubTypeOf(sub IndexedType, super Type) bool {
	if !recordSubTypeOf(sub, super) {
		return false
	}
	s, ok := super.(IndexedType)
	if !ok {
		return true
	}
	if _, self := s.(String); self {
		// A string's element type is the string itself, so the inner
		// premise is the judgment being decided.
		return true
	}
	return sub.Inner().SubTypeOf(s.Inner())
}

// IsDynamic reports whether t is not statically known (Unknown or a type
// variable). Dynamic types are accepted wherever a specific kind is required.
func IsDynamic(t Type) bool {
	switch t.(type) {
	case Unknown, Variable:
		return true
	}
	return false
}

// Join returns the more general of a and b when they are related by
// subtyping.
func Join(a, b Type) (Type, bool) {
	if a.SubTypeOf(b) {
		return b, true
	}
	if b.SubTypeOf(a) {
		return a, true
	}
	return nil, false
}

// Instantiate applies a quantified function type to an argument type.
// Only the direct form `a => (a) -> (R)` is instantiated, by substituting
// the argument for a in R; anything else yields Unknown.
func Instantiate(t ForEach, arg Type) Type {
	fn, ok := t.Inner.(Lambda)
	if !ok {
		return Unknown{}
	}
	if v, ok := fn.Param.(Variable); !ok || v.Name != t.Name {
		return Unknown{}
	}
	return Substitute(fn.Result, t.Name, arg)
}

// Substitute replaces free occurrences of the variable name in t.
func Substitute(t Type, name string, with Type) Type {
	subst := func(inner Type) Type { return Substitute(inner, name, with) }
	switch typ := t.(type) {
	case Variable:
		if typ.Name == name {
			return with
		}
		return typ
	case ForEach:
		if typ.Name == name {
			return typ
		}
		return ForEach{Name: typ.Name, Inner: subst(typ.Inner)}
	case Lambda:
		return Lambda{
			Param:    subst(typ.Param),
			Result:   subst(typ.Result),
			Receiver: typ.Receiver,
			Fields:   substFields(typ.Fields, subst),
		}
	case List:
		return List{Elem: subst(typ.Elem), Fields: substFields(typ.Fields, subst)}
	case Indexed:
		return Indexed{Elem: subst(typ.Elem), Fields: substFields(typ.Fields, subst)}
	case Record:
		if typ.FieldTypes().Len() == 0 {
			return typ
		}
		return typ.WithFields(substFields(typ.FieldTypes(), subst))
	default:
		return t
	}
}

func substFields(f Fields, subst func(Type) Type) Fields {
	if f.Len() == 0 {
		return f
	}
	return env.Map(f, subst)
}
