// Package errors defines the diagnostic model of the compiler: the closed
// taxonomy of error kinds, positioned diagnostics, and formatting with
// source context and caret indicators.
package errors

import (
	"fmt"
	"sort"

	"github.com/compiscript/compiscript/internal/lexer"
)

// Kind identifies one of the closed set of diagnostic categories.
type Kind string

// The diagnostic taxonomy. Every diagnostic produced by the compiler
// carries exactly one of these kinds.
const (
	Syntax                    Kind = "Syntax"
	DuplicateDeclaration      Kind = "DuplicateDeclaration"
	UndeclaredIdentifier      Kind = "UndeclaredIdentifier"
	UninitializedRead         Kind = "UninitializedRead"
	TypeMismatch              Kind = "TypeMismatch"
	ArityMismatch             Kind = "ArityMismatch"
	BadCondition              Kind = "BadCondition"
	BreakContinueOutsideLoop  Kind = "BreakContinueOutsideLoop"
	ReturnOutsideFunction     Kind = "ReturnOutsideFunction"
	ReturnTypeMismatch        Kind = "ReturnTypeMismatch"
	MissingReturn             Kind = "MissingReturn"
	BadPropertyAccess         Kind = "BadPropertyAccess"
	BadMethodCall             Kind = "BadMethodCall"
	BadInheritance            Kind = "BadInheritance"
	ThisOutsideClass          Kind = "ThisOutsideClass"
	AssignToImmutable         Kind = "AssignToImmutable"
	BadArrayLiteral           Kind = "BadArrayLiteral"
	BadIndex                  Kind = "BadIndex"
	OverrideSignatureMismatch Kind = "OverrideSignatureMismatch"
)

// Diagnostic is a single positioned compiler diagnostic.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
}

// New creates a diagnostic at the given position.
func New(kind Kind, pos lexer.Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
	}
}

// String renders the diagnostic in the driver's stderr format.
func (d Diagnostic) String() string {
	return fmt.Sprintf("Line %d:%d - %s: %s", d.Line, d.Column, d.Kind, d.Message)
}

// Error implements the error interface.
func (d Diagnostic) Error() string { return d.String() }

// List accumulates diagnostics across the pipeline. Analysis never stops
// at the first error; the run succeeds iff the list is empty afterwards.
type List struct {
	diags []Diagnostic
}

// Add appends a diagnostic built from the arguments.
func (l *List) Add(kind Kind, pos lexer.Position, format string, args ...any) {
	l.diags = append(l.diags, New(kind, pos, format, args...))
}

// Append appends an already-built diagnostic.
func (l *List) Append(d Diagnostic) {
	l.diags = append(l.diags, d)
}

// All returns the accumulated diagnostics in the order they were reported.
func (l *List) All() []Diagnostic {
	return l.diags
}

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.diags) }

// Empty reports whether no diagnostics were accumulated.
func (l *List) Empty() bool { return len(l.diags) == 0 }

// Sorted returns the diagnostics ordered by source position.
// Reporting order is preserved for equal positions.
func (l *List) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(l.diags))
	copy(out, l.diags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}
