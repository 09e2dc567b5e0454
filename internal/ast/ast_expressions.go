package ast

import (
	"strings"

	"github.com/funvibe/lambda/internal/typesystem"
)

// FieldAccess reads a named field of a record-like value, e.g. p.name
type FieldAccess struct {
	Left Expression
	Name string
}

func (fa *FieldAccess) expressionNode() {}
func (fa *FieldAccess) String() string  { return fa.Left.String() + "." + fa.Name }

// Subscript indexes a list or string, e.g. xs[i]
type Subscript struct {
	Target Expression
	Index  Expression
}

func (s *Subscript) expressionNode() {}
func (s *Subscript) String() string {
	return s.Target.String() + "[" + s.Index.String() + "]"
}

// Lambda is a single-parameter function. A nil Type makes the parameter
// generic.
type Lambda struct {
	Name string
	Type typesystem.Type
	Body Expression
}

func (l *Lambda) expressionNode() {}
func (l *Lambda) String() string {
	if l.Type != nil {
		return "fn " + l.Name + ": " + l.Type.String() + " -> " + l.Body.String()
	}
	return "fn " + l.Name + " -> " + l.Body.String()
}

// Application applies Left to Right (call-by-value).
type Application struct {
	Left  Expression
	Right Expression
}

func (a *Application) expressionNode() {}
func (a *Application) String() string {
	return "(" + a.Left.String() + " " + a.Right.String() + ")"
}

// Let binds Value under the path Names (a.b.c merges into nested records)
// for the evaluation of Body.
type Let struct {
	Names []string
	Value Expression
	Body  Expression
}

func (l *Let) expressionNode() {}
func (l *Let) String() string {
	return "let " + strings.Join(l.Names, ".") + " = " + l.Value.String() + " in " + l.Body.String()
}

// If is the conditional expression.
type If struct {
	Condition Expression
	Then      Expression
	Else      Expression
}

func (i *If) expressionNode() {}
func (i *If) String() string {
	return "if " + i.Condition.String() + " then " + i.Then.String() + " else " + i.Else.String()
}

// Throw raises its value as a catchable exception.
type Throw struct {
	Value Expression
}

func (t *Throw) expressionNode() {}
func (t *Throw) String() string  { return "throw " + t.Value.String() }

type TryCatch struct {
	Try   Expression
	Catch Expression
}

func (tc *TryCatch) expressionNode() {}
func (tc *TryCatch) String() string {
	return "try " + tc.Try.String() + " catch " + tc.Catch.String()
}

type TryFinally struct {
	Try     Expression
	Finally Expression
}

func (tf *TryFinally) expressionNode() {}
func (tf *TryFinally) String() string {
	return "try " + tf.Try.String() + " finally " + tf.Finally.String()
}

type TryCatchFinally struct {
	Try     Expression
	Catch   Expression
	Finally Expression
}

func (tcf *TryCatchFinally) expressionNode() {}
func (tcf *TryCatchFinally) String() string {
	return "try " + tcf.Try.String() + " catch " + tcf.Catch.String() + " finally " + tcf.Finally.String()
}

// Call builds the curried application fn(args[0])(args[1])...
func Call(fn Expression, args ...Expression) Expression {
	for _, arg := range args {
		fn = &Application{Left: fn, Right: arg}
	}
	return fn
}

// Path splits a dotted let path.
func Path(path string) []string {
	return strings.Split(path, ".")
}
