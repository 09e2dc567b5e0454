// Package diagnostics defines the failure taxonomy shared by the analyzer and
// the evaluator.
package diagnostics

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindType
	KindRuntime
	KindUser
	KindInternal
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindType:
		return "TypeError"
	case KindRuntime:
		return "RuntimeError"
	case KindUser:
		return "UserError"
	case KindInternal:
		return "InternalError"
	case KindResource:
		return "ResourceError"
	default:
		return "Error"
	}
}

// Classified is implemented by every error that belongs to the taxonomy.
type Classified interface {
	error
	Kind() Kind
}

// Error is a syntax, type, runtime, internal or resource failure.
// User-level thrown values have their own error type in the evaluator.
type Error struct {
	kind    Kind
	Message string
	Node    string // rendering of the offending node, if known
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.kind, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

// At returns a copy of e annotated with the offending node.
func (e *Error) At(node fmt.Stringer) *Error {
	if node == nil || e.Node != "" {
		return e
	}
	c := *e
	c.Node = node.String()
	return &c
}

func newError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{kind: kind, Message: fmt.Sprintf(format, a...)}
}

func Syntax(format string, a ...interface{}) *Error {
	return newError(KindSyntax, format, a...)
}

func Type(format string, a ...interface{}) *Error {
	return newError(KindType, format, a...)
}

func Runtime(format string, a ...interface{}) *Error {
	return newError(KindRuntime, format, a...)
}

func Internal(format string, a ...interface{}) *Error {
	return newError(KindInternal, format, a...)
}

// Resource reports exhaustion of the evaluation depth budget.
func Resource(format string, a ...interface{}) *Error {
	return newError(KindResource, format, a...)
}

// KindOf classifies err. Errors outside the taxonomy are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var c Classified
	if errors.As(err, &c) {
		return c.Kind()
	}
	return KindUnknown
}

// Is reports whether err belongs to kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsLanguageError reports whether err already belongs to the taxonomy and
// must cross the host boundary untouched.
func IsLanguageError(err error) bool {
	return KindOf(err) != KindUnknown
}
