package evaluator

import (
	"strconv"

	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"
)

// Undefined is the plain record. Most programs build objects by adding
// fields to it with let.
type Undefined struct {
	Members Scope
}

func (u *Undefined) Tag() ValueTag             { return UNDEFINED_VAL }
func (u *Undefined) Fields() Scope             { return u.Members }
func (u *Undefined) WithFields(f Scope) Record { return &Undefined{Members: f} }
func (u *Undefined) RuntimeType() typesystem.Type {
	return typesystem.Undefined{Fields: fieldTypes(u.Members)}
}
func (u *Undefined) Inspect() string {
	if u.Members.Len() == 0 {
		return "undefined"
	}
	return inspectFields(u.Members)
}

// Boolean
type Boolean struct {
	Value   bool
	Members Scope
}

func (b *Boolean) Tag() ValueTag             { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string           { return strconv.FormatBool(b.Value) }
func (b *Boolean) Fields() Scope             { return b.Members }
func (b *Boolean) WithFields(f Scope) Record { return &Boolean{Value: b.Value, Members: f} }
func (b *Boolean) RuntimeType() typesystem.Type {
	return typesystem.Boolean{Fields: fieldTypes(b.Members)}
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Complex
type Complex struct {
	Value   complex128
	Members Scope
}

func (c *Complex) Tag() ValueTag             { return COMPLEX_VAL }
func (c *Complex) Fields() Scope             { return c.Members }
func (c *Complex) WithFields(f Scope) Record { return &Complex{Value: c.Value, Members: f} }
func (c *Complex) RuntimeType() typesystem.Type {
	return typesystem.Complex{Fields: fieldTypes(c.Members)}
}
func (c *Complex) Inspect() string {
	re, im := real(c.Value), imag(c.Value)
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return formatFloat(re) + sign + formatFloat(im) + "i"
}

// Real
type Real struct {
	Value   float64
	Members Scope
}

func (r *Real) Tag() ValueTag             { return REAL_VAL }
func (r *Real) Inspect() string           { return formatFloat(r.Value) }
func (r *Real) Fields() Scope             { return r.Members }
func (r *Real) WithFields(f Scope) Record { return &Real{Value: r.Value, Members: f} }
func (r *Real) RuntimeType() typesystem.Type {
	return typesystem.Real{Fields: fieldTypes(r.Members)}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// Integer holds any whole number. Reals are truncated toward zero.
type Integer struct {
	Value   int64
	Members Scope
}

func (i *Integer) Tag() ValueTag             { return INTEGER_VAL }
func (i *Integer) Inspect() string           { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Fields() Scope             { return i.Members }
func (i *Integer) WithFields(f Scope) Record { return &Integer{Value: i.Value, Members: f} }
func (i *Integer) RuntimeType() typesystem.Type {
	return typesystem.Integer{Fields: fieldTypes(i.Members)}
}

// Natural holds a non-negative whole number. Host data goes through
// NewNatural; arithmetic results go through integral.
type Natural struct {
	Value   int64
	Members Scope
}

// NewNatural returns an InternalError for negative n: producing one is an
// evaluator bug, never a user mistake.
func NewNatural(n int64) (*Natural, error) {
	if n < 0 {
		return nil, diagnostics.Internal("natural number cannot be negative: %d", n)
	}
	return &Natural{Value: n}, nil
}

func (n *Natural) Tag() ValueTag             { return NATURAL_VAL }
func (n *Natural) Inspect() string           { return strconv.FormatInt(n.Value, 10) }
func (n *Natural) Fields() Scope             { return n.Members }
func (n *Natural) WithFields(f Scope) Record { return &Natural{Value: n.Value, Members: f} }
func (n *Natural) RuntimeType() typesystem.Type {
	return typesystem.Natural{Fields: fieldTypes(n.Members)}
}

// integral picks the narrowest kind for a whole number.
func integral(n int64) Value {
	if n >= 0 {
		return &Natural{Value: n}
	}
	return &Integer{Value: n}
}

// String indexes by rune; each element is a one-character string.
type String struct {
	Value   string
	Members Scope
}

func (s *String) Tag() ValueTag             { return STRING_VAL }
func (s *String) Inspect() string           { return s.Value }
func (s *String) Fields() Scope             { return s.Members }
func (s *String) WithFields(f Scope) Record { return &String{Value: s.Value, Members: f} }
func (s *String) RuntimeType() typesystem.Type {
	return typesystem.String{Fields: fieldTypes(s.Members)}
}

func (s *String) Len() int { return len([]rune(s.Value)) }

func (s *String) Index(i int64) (Value, error) {
	runes := []rune(s.Value)
	if i < 0 || i >= int64(len(runes)) {
		return nil, indexError(i, len(runes))
	}
	return &String{Value: string(runes[i])}, nil
}

func indexError(i int64, length int) error {
	return diagnostics.Runtime("index %d out of range [0, %d)", i, length)
}
