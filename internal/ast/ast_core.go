// Package ast defines the expression tree handed to the analyzer and the
// evaluator.
package ast

import (
	"fmt"
	"strings"
)

// Expression is the base interface for all tree nodes.
type Expression interface {
	String() string
	expressionNode()
}

// HostNode is embedded by expressions that bridge into host code. Such nodes
// are built by embedders (never decoded from a tree file) and have no static
// type.
type HostNode struct{}

func (HostNode) expressionNode() {}
func (HostNode) hostNode()       {}

// HostExpression is implemented by nodes embedding HostNode.
type HostExpression interface {
	Expression
	hostNode()
}

// Literal is a constant given as host data: bool, any Go integer or float,
// complex128, string, or slices and string-keyed maps of those.
type Literal struct {
	Value interface{}
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.Value)
}

// ListLiteral builds a list from its elements in order.
type ListLiteral struct {
	Elements []Expression
}

func (ll *ListLiteral) expressionNode() {}
func (ll *ListLiteral) String() string {
	parts := make([]string, len(ll.Elements))
	for i, el := range ll.Elements {
		parts[i] = el.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Variable references a name bound in the context or in the global registry.
type Variable struct {
	Name string
}

func (v *Variable) expressionNode() {}
func (v *Variable) String() string  { return v.Name }

// Fix denotes the fixed-point combinator.
type Fix struct{}

func (f *Fix) expressionNode() {}
func (f *Fix) String() string  { return "fix" }

// This references the receiver of a method.
type This struct{}

func (t *This) expressionNode() {}
func (t *This) String() string  { return "this" }

// Error references the exception bound by the enclosing catch clause.
type Error struct{}

func (e *Error) expressionNode() {}
func (e *Error) String() string  { return "error" }
