package evaluator

import (
	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/typesystem"
)

// Closure is a lambda paired with the scope it was created in.
type Closure struct {
	Lambda  *ast.Lambda
	Capture Scope
	Members Scope
}

func (c *Closure) Tag() ValueTag   { return CLOSURE_VAL }
func (c *Closure) Inspect() string { return c.Lambda.String() }
func (c *Closure) Fields() Scope   { return c.Members }
func (c *Closure) WithFields(f Scope) Record {
	return &Closure{Lambda: c.Lambda, Capture: c.Capture, Members: f}
}

// RuntimeType uses the parameter annotation when present. Result types are
// not tracked at run time.
func (c *Closure) RuntimeType() typesystem.Type {
	var param typesystem.Type = typesystem.Unknown{}
	if c.Lambda.Type != nil {
		param = c.Lambda.Type
	}
	return typesystem.Lambda{
		Param:    param,
		Result:   typesystem.Unknown{},
		Receiver: c.IsMethod(),
		Fields:   fieldTypes(c.Members),
	}
}

// IsMethod reports whether the closure takes the receiver as its parameter.
func (c *Closure) IsMethod() bool { return c.Lambda.Name == config.ThisName }

// Arity counts the directly nested lambdas, i.e. the number of arguments
// the closure takes before its body stops being a lambda.
func (c *Closure) Arity() int {
	n := 1
	for l := c.Lambda; ; n++ {
		next, ok := l.Body.(*ast.Lambda)
		if !ok {
			return n
		}
		l = next
	}
}
