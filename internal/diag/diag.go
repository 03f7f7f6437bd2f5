// Package diag implements the diagnostic taxonomy and stable,
// string-matchable message formatting described in spec.md §7.
package diag

import "fmt"

// Class names one of the four error categories spec.md §7 defines.
type Class string

const (
	Lexical  Class = "lexical"
	Syntax   Class = "syntax"
	Semantic Class = "semantic"
	Resource Class = "resource"
)

// Diagnostic is a single reported error. Message text is kept stable
// across releases so tests can string-match the classes spec.md §7 names
// (e.g. "Undefined variable", "Array index must be a string or number").
type Diagnostic struct {
	Class   Class
	Message string
	Line    int
	Column  int
}

// Error implements the error interface so a *Diagnostic can be returned
// and compared like any other Go error.
func (d *Diagnostic) Error() string {
	return d.Message
}

// New builds a Diagnostic with a formatted message.
func New(class Class, format string, args ...any) *Diagnostic {
	return &Diagnostic{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Lexf, Syntaxf, Semanticf, Resourcef are per-class convenience
// constructors mirroring the reference's createError helper
// (objects/builtins.go's createError(format string, a ...any) pattern).
func Lexf(format string, args ...any) *Diagnostic      { return New(Lexical, format, args...) }
func Syntaxf(format string, args ...any) *Diagnostic   { return New(Syntax, format, args...) }
func Semanticf(format string, args ...any) *Diagnostic { return New(Semantic, format, args...) }
func Resourcef(format string, args ...any) *Diagnostic { return New(Resource, format, args...) }
