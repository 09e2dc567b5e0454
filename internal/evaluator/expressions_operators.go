package evaluator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/diagnostics"
)

// Impl implements one resolved overload.
type Impl func(args []Value) (Value, error)

// Overload matches the tag of one argument against Pattern, a regular
// expression anchored at both ends. Inner overloads carry Next (the table
// for the following argument); the last level carries Impl.
type Overload struct {
	Pattern string
	Next    Overloads
	Impl    Impl

	re *regexp.Regexp
}

// Overloads is tried in declaration order; the first match wins.
type Overloads []*Overload

// On declares an overload that continues with the next argument.
func On(pattern string, next ...*Overload) *Overload {
	return &Overload{Pattern: pattern, Next: next, re: compilePattern(pattern)}
}

// Do declares the overload resolved by the last argument.
func Do(pattern string, impl Impl) *Overload {
	return &Overload{Pattern: pattern, Impl: impl, re: compilePattern(pattern)}
}

func compilePattern(pattern string) *regexp.Regexp {
	return regexp.MustCompile("^(?:" + pattern + ")$")
}

func (o *Overload) matches(tag ValueTag) bool {
	re := o.re
	if re == nil {
		re = compilePattern(o.Pattern)
	}
	return re.MatchString(string(tag))
}

func (o Overloads) match(tag ValueTag) *Overload {
	for _, ov := range o {
		if ov.matches(tag) {
			return ov
		}
	}
	return nil
}

// Resolve walks the table one argument at a time.
func (o Overloads) Resolve(args []Value) (Impl, error) {
	if len(args) == 0 {
		return nil, diagnostics.Internal("operator without arguments")
	}
	table := o
	for i, arg := range args {
		ov := table.match(arg.Tag())
		if ov == nil {
			return nil, diagnostics.Runtime("no overload accepts %s", describeTags(args[:i+1]))
		}
		if i == len(args)-1 {
			if ov.Impl == nil {
				return nil, diagnostics.Internal("overload %q expects more arguments", ov.Pattern)
			}
			return ov.Impl, nil
		}
		if ov.Next == nil {
			return nil, diagnostics.Internal("overload %q expects fewer arguments", ov.Pattern)
		}
		table = ov.Next
	}
	return nil, diagnostics.Internal("unreachable overload resolution")
}

func describeTags(args []Value) string {
	tags := make([]string, len(args))
	for i, a := range args {
		tags[i] = string(a.Tag())
	}
	return "(" + strings.Join(tags, ", ") + ")"
}

// Operator dispatches on the runtime tags of the arguments bound to "0",
// "1", ... in the scope.
type Operator struct {
	ast.HostNode
	Name      string
	Overloads Overloads
	Arity     int
}

func (o *Operator) String() string { return "operator " + o.Name }

func argumentName(i int) string { return strconv.Itoa(i) }

func (e *Evaluator) evalOperator(node *Operator, scope Scope) (Value, error) {
	args := make([]Value, node.Arity)
	for i := range args {
		v, ok := scope.Lookup(argumentName(i))
		if !ok {
			return nil, diagnostics.Internal("operator argument %d is not bound", i).At(node)
		}
		args[i] = v
	}
	impl, err := node.Overloads.Resolve(args)
	if err != nil {
		return nil, atNode(err, node)
	}
	v, err := impl(args)
	if err != nil {
		return nil, atNode(err, node)
	}
	return v, nil
}

// NewOperator wraps an operator node in one lambda per argument. Arity
// must be positive.
func NewOperator(name string, arity int, overloads Overloads) *ast.Lambda {
	var body ast.Expression = &Operator{Name: name, Overloads: overloads, Arity: arity}
	for i := arity - 1; i >= 0; i-- {
		body = &ast.Lambda{Name: argumentName(i), Body: body}
	}
	return body.(*ast.Lambda)
}

func UnaryOperator(name string, overloads Overloads) *ast.Lambda {
	return NewOperator(name, 1, overloads)
}

func BinaryOperator(name string, overloads Overloads) *ast.Lambda {
	return NewOperator(name, 2, overloads)
}
