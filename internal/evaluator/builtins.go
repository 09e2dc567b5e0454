package evaluator

import (
	"cmp"
	"math"
	"math/cmplx"
	"strings"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
)

// Tag patterns shared by the operator tables.
const (
	patIntegral = "natural|integer"
	patReal     = "natural|integer|real"
	patNumber   = "natural|integer|real|complex"
	patAny      = ".*"
)

func isIntegral(v Value) bool {
	switch v.(type) {
	case *Natural, *Integer:
		return true
	}
	return false
}

func isNumber(v Value) bool {
	switch v.(type) {
	case *Natural, *Integer, *Real, *Complex:
		return true
	}
	return false
}

func toInt(v Value) int64 {
	switch n := v.(type) {
	case *Natural:
		return n.Value
	case *Integer:
		return n.Value
	}
	return 0
}

func toReal(v Value) float64 {
	switch n := v.(type) {
	case *Natural:
		return float64(n.Value)
	case *Integer:
		return float64(n.Value)
	case *Real:
		return n.Value
	}
	return 0
}

func toComplex(v Value) complex128 {
	if c, ok := v.(*Complex); ok {
		return c.Value
	}
	return complex(toReal(v), 0)
}

// Integral results that leave the int64 range are computed as reals.
func addInts(a, b int64) Value {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return &Real{Value: float64(a) + float64(b)}
	}
	return integral(s)
}

func subInts(a, b int64) Value {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return &Real{Value: float64(a) - float64(b)}
	}
	return integral(d)
}

func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	p := a * b
	return p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64)
}

func mulInts(a, b int64) Value {
	if mulOverflows(a, b) {
		return &Real{Value: float64(a) * float64(b)}
	}
	return integral(a * b)
}

func powInts(a, b int64) Value {
	base, exp, result := a, b, int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			if mulOverflows(result, base) {
				return &Real{Value: math.Pow(float64(a), float64(b))}
			}
			result *= base
		}
		exp >>= 1
		if exp > 0 {
			if mulOverflows(base, base) {
				return &Real{Value: math.Pow(float64(a), float64(b))}
			}
			base *= base
		}
	}
	return integral(result)
}

func shiftLeft(a, n int64) Value {
	if a == 0 {
		return integral(0)
	}
	if n < 64 {
		r := a << uint(n)
		if r>>uint(n) == a {
			return integral(r)
		}
	}
	return &Real{Value: math.Ldexp(float64(a), int(min(n, 2048)))}
}

type (
	intOp     func(a, b int64) (Value, error)
	realOp    func(a, b float64) (Value, error)
	complexOp func(a, b complex128) (Value, error)
)

// numeric builds a binary table over the numeric tower: both integral
// stays integral, otherwise the wider of the two kinds is used. A nil
// complexOp leaves complex operands unsupported.
func numeric(ints intOp, reals realOp, complexes complexOp) Overloads {
	onInts := func(args []Value) (Value, error) { return ints(toInt(args[0]), toInt(args[1])) }
	onReals := func(args []Value) (Value, error) { return reals(toReal(args[0]), toReal(args[1])) }

	integralLeft := On(patIntegral, Do(patIntegral, onInts), Do("real", onReals))
	realLeft := On("real", Do(patReal, onReals))
	table := Overloads{integralLeft, realLeft}
	if complexes != nil {
		onComplex := func(args []Value) (Value, error) {
			return complexes(toComplex(args[0]), toComplex(args[1]))
		}
		integralLeft.Next = append(integralLeft.Next, Do("complex", onComplex))
		realLeft.Next = append(realLeft.Next, Do("complex", onComplex))
		table = append(table, On("complex", Do(patNumber, onComplex)))
	}
	return table
}

func plusOverloads() Overloads {
	table := numeric(
		func(a, b int64) (Value, error) { return addInts(a, b), nil },
		func(a, b float64) (Value, error) { return &Real{Value: a + b}, nil },
		func(a, b complex128) (Value, error) { return &Complex{Value: a + b}, nil },
	)
	return append(table,
		On("string", Do("string", func(args []Value) (Value, error) {
			return &String{Value: args[0].(*String).Value + args[1].(*String).Value}, nil
		})),
		On("list", Do("list", func(args []Value) (Value, error) {
			left, right := args[0].(*List).Elements, args[1].(*List).Elements
			elements := make([]Value, 0, len(left)+len(right))
			elements = append(append(elements, left...), right...)
			return NewList(elements), nil
		})),
	)
}

func minusOverloads() Overloads {
	return numeric(
		func(a, b int64) (Value, error) { return subInts(a, b), nil },
		func(a, b float64) (Value, error) { return &Real{Value: a - b}, nil },
		func(a, b complex128) (Value, error) { return &Complex{Value: a - b}, nil },
	)
}

func multiplyOverloads() Overloads {
	return numeric(
		func(a, b int64) (Value, error) { return mulInts(a, b), nil },
		func(a, b float64) (Value, error) { return &Real{Value: a * b}, nil },
		func(a, b complex128) (Value, error) { return &Complex{Value: a * b}, nil },
	)
}

var errDivisionByZero = diagnostics.Runtime("division by zero")

// Integral division truncates toward zero.
func divideOverloads() Overloads {
	return numeric(
		func(a, b int64) (Value, error) {
			if b == 0 {
				return nil, errDivisionByZero
			}
			if a == math.MinInt64 && b == -1 {
				return &Real{Value: -float64(a)}, nil
			}
			return integral(a / b), nil
		},
		func(a, b float64) (Value, error) { return &Real{Value: a / b}, nil },
		func(a, b complex128) (Value, error) { return &Complex{Value: a / b}, nil },
	)
}

func modulusOverloads() Overloads {
	return numeric(
		func(a, b int64) (Value, error) {
			if b == 0 {
				return nil, errDivisionByZero
			}
			return integral(a % b), nil
		},
		func(a, b float64) (Value, error) { return &Real{Value: math.Mod(a, b)}, nil },
		nil,
	)
}

// A negative integral exponent gives a real.
func powerOverloads() Overloads {
	return numeric(
		func(a, b int64) (Value, error) {
			if b < 0 {
				return &Real{Value: math.Pow(float64(a), float64(b))}, nil
			}
			return powInts(a, b), nil
		},
		func(a, b float64) (Value, error) { return &Real{Value: math.Pow(a, b)}, nil },
		func(a, b complex128) (Value, error) { return &Complex{Value: cmplx.Pow(a, b)}, nil },
	)
}

// ordering builds a comparison over real numbers and strings.
func ordering(holds func(c int) bool) Overloads {
	result := func(c int) (Value, error) { return nativeBoolToBooleanObject(holds(c)), nil }
	onInts := func(args []Value) (Value, error) { return result(cmp.Compare(toInt(args[0]), toInt(args[1]))) }
	onReals := func(args []Value) (Value, error) { return result(cmp.Compare(toReal(args[0]), toReal(args[1]))) }
	return Overloads{
		On(patIntegral, Do(patIntegral, onInts), Do("real", onReals)),
		On("real", Do(patReal, onReals)),
		On("string", Do("string", func(args []Value) (Value, error) {
			return result(strings.Compare(args[0].(*String).Value, args[1].(*String).Value))
		})),
	}
}

// Shift counts must be natural. A left shift past the int64 range gives a
// real; a right shift by 64 or more saturates.
func shiftOverloads(left bool) Overloads {
	return Overloads{
		On(patIntegral, Do("natural", func(args []Value) (Value, error) {
			a, n := toInt(args[0]), toInt(args[1])
			if left {
				return shiftLeft(a, n), nil
			}
			if n >= 64 {
				n = 63
			}
			return integral(a >> uint(n)), nil
		})),
	}
}

func equalityOverloads(negate bool) Overloads {
	return Overloads{
		On(patAny, Do(patAny, func(args []Value) (Value, error) {
			return nativeBoolToBooleanObject(ValuesEqual(args[0], args[1]) != negate), nil
		})),
	}
}

func logicOverloads(op func(a, b bool) bool) Overloads {
	return Overloads{
		On("bool", Do("bool", func(args []Value) (Value, error) {
			return nativeBoolToBooleanObject(op(args[0].(*Boolean).Value, args[1].(*Boolean).Value)), nil
		})),
	}
}

func notOverloads() Overloads {
	return Overloads{
		Do("bool", func(args []Value) (Value, error) {
			return nativeBoolToBooleanObject(!args[0].(*Boolean).Value), nil
		}),
	}
}

func typeOfOverloads() Overloads {
	return Overloads{
		Do(patAny, func(args []Value) (Value, error) {
			return &String{Value: args[0].RuntimeType().String()}, nil
		}),
	}
}

// Builtins lists the default operators in declaration order.
var Builtins = []struct {
	Name     string
	Operator *ast.Lambda
}{
	{config.TypeOfFuncName, UnaryOperator(config.TypeOfFuncName, typeOfOverloads())},
	{config.NotFuncName, UnaryOperator(config.NotFuncName, notOverloads())},
	{"+", BinaryOperator("+", plusOverloads())},
	{"-", BinaryOperator("-", minusOverloads())},
	{"*", BinaryOperator("*", multiplyOverloads())},
	{"/", BinaryOperator("/", divideOverloads())},
	{"**", BinaryOperator("**", powerOverloads())},
	{"%", BinaryOperator("%", modulusOverloads())},
	{"<", BinaryOperator("<", ordering(func(c int) bool { return c < 0 }))},
	{"<=", BinaryOperator("<=", ordering(func(c int) bool { return c <= 0 }))},
	{">", BinaryOperator(">", ordering(func(c int) bool { return c > 0 }))},
	{">=", BinaryOperator(">=", ordering(func(c int) bool { return c >= 0 }))},
	{"<<", BinaryOperator("<<", shiftOverloads(true))},
	{">>", BinaryOperator(">>", shiftOverloads(false))},
	{"=", BinaryOperator("=", equalityOverloads(false))},
	{"!=", BinaryOperator("!=", equalityOverloads(true))},
	{"and", BinaryOperator("and", logicOverloads(func(a, b bool) bool { return a && b }))},
	{"or", BinaryOperator("or", logicOverloads(func(a, b bool) bool { return a || b }))},
	{"xor", BinaryOperator("xor", logicOverloads(func(a, b bool) bool { return a != b }))},
}

// seq ignores any number of arguments: seq = fix (fn f -> fn x -> f).
func seqExpression() ast.Expression {
	return &ast.Application{
		Left:  &ast.Fix{},
		Right: &ast.Lambda{Name: "f", Body: &ast.Lambda{Name: "x", Body: &ast.Variable{Name: "f"}}},
	}
}

// DefaultContext returns the scope holding the default operators, seq and
// the host namespace with the NULL and UNDEFINED sentinels.
func (e *Evaluator) DefaultContext() (Scope, error) {
	scope := EmptyScope()
	for _, b := range Builtins {
		scope = scope.Add(b.Name, &Closure{Lambda: b.Operator, Capture: EmptyScope()})
	}
	if e.seq == nil {
		seq, err := e.Eval(seqExpression(), EmptyScope())
		if err != nil {
			return scope, err
		}
		e.seq = seq
	}
	scope = scope.Add(config.SeqFuncName, e.seq)
	host := EmptyScope().
		Add(config.HostNullName, NULL).
		Add(config.HostUndefName, VOID)
	return scope.Add(config.HostNamespace, &Undefined{Members: host}), nil
}
