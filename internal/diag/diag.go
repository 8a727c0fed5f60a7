// Package diag defines the diagnostics emitted by extraction, reconciliation,
// and code generation. Diagnostics are data, not errors: a phase collects as
// many as it can and the caller decides whether the run proceeds.
package diag

import (
	"fmt"
	"sort"
)

// Severity indicates whether a diagnostic blocks graph acceptance.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Kind identifies the category of a diagnostic. The set is closed.
type Kind string

const (
	KindMalformedAttribute   Kind = "MalformedAttribute"
	KindDuplicateDefinition  Kind = "DuplicateDefinition"
	KindUnresolvedType       Kind = "UnresolvedType"
	KindGenericArityMismatch Kind = "GenericArityMismatch"
	KindNotRepresentable     Kind = "NotRepresentable"
	KindInvalidConfiguration Kind = "InvalidConfiguration"
)

// Position locates a diagnostic in the source input. Line and Column are
// 1-based; a zero Position means no location is available.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsZero reports whether the position carries no location information.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	if p.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Diagnostic is a single finding tied to a source position when one exists.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
	Pos      Position `json:"pos,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Pos.IsZero() {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s %s: %s: %s", d.Severity, d.Kind, d.Pos, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(kind Kind, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(kind Kind, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders diagnostics by position, then kind, then message, so that the
// same set of findings always renders identically regardless of the order in
// which phases produced them.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Pos.File != b.Pos.File {
			return a.Pos.File < b.Pos.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

// Err converts the error-severity diagnostics into a single error, or nil if
// there are none.
func (l List) Err() error {
	errs := l.Errors()
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("%s", errs[0])
	}
	return fmt.Errorf("%s (and %d more diagnostics)", errs[0], len(errs)-1)
}
