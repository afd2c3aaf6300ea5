// Package diag implements the structured diagnostics shared by every stage
// of the core: the symbol table, the expression compiler, the semantic
// analyzer and the degree engine all report through a diag.Reporter rather
// than returning bare errors, so that a user sees a full batch of problems
// rather than only the first one found.
package diag

import (
	"fmt"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Kind is a stable tag identifying the category of a Diagnostic.
type Kind uint

const (
	// DuplicateIdentifier is raised when a name is declared twice within a
	// module.
	DuplicateIdentifier Kind = iota
	// UndeclaredIdentifier is raised when an identifier does not resolve.
	UndeclaredIdentifier
	// MissingMainTrace is raised when a module declares no main trace
	// binding.
	MissingMainTrace
	// EmptyTrace is raised when a trace binding group has width zero.
	EmptyTrace
	// EmptyPublicInputs is raised when a module declares no public input.
	EmptyPublicInputs
	// InvalidPeriodicLength is raised when a periodic column's pattern
	// length is not a power of two ≥ 2.
	InvalidPeriodicLength
	// IndexOutOfRange is raised when an indexed or sliced access falls
	// outside a binding's declared length.
	IndexOutOfRange
	// ShapeMismatch is raised when the operands of an element-wise
	// operation, or the sources zipped by a comprehension, disagree in
	// length.
	ShapeMismatch
	// ExpectedScalar is raised when a vector- or matrix-shaped expression
	// appears where a scalar is required.
	ExpectedScalar
	// ExpectedVector is raised when a scalar- or matrix-shaped expression
	// appears where a vector is required.
	ExpectedVector
	// BoundaryConflict is raised when more than one boundary constraint
	// targets the same (segment, column, boundary) triple.
	BoundaryConflict
	// BoundaryReferencesPeriodic is raised when a boundary constraint
	// references a periodic column.
	BoundaryReferencesPeriodic
	// BoundaryReferencesNext is raised when a boundary constraint uses the
	// next-row operator.
	BoundaryReferencesNext
	// IntegrityReferencesPublicInput is raised when an integrity
	// constraint references a public input.
	IntegrityReferencesPublicInput
	// IntegrityReferencesBoundary is raised when an integrity constraint
	// uses a boundary accessor.
	IntegrityReferencesBoundary
	// NextAppliedToNonTrace is raised when the next-row operator is
	// applied to something other than a trace column.
	NextAppliedToNonTrace
	// NonLiteralExponent is raised when a power expression's exponent is
	// not a literal non-negative integer.
	NonLiteralExponent
	// OverflowError is raised when a power expression's exponent does not
	// fit an unsigned 64-bit word.  Constant folding is exact and never
	// overflows.
	OverflowError
	// DegreeOverflow is raised when degree arithmetic overflows.
	DegreeOverflow
	// UnsupportedFeature is raised for constructs the grammar accepts but
	// this core refuses to lower.
	UnsupportedFeature
	// EmptyFold is raised when a sum or product fold is applied to a
	// list folding value that resolves to zero elements.
	EmptyFold
)

var kindNames = map[Kind]string{
	DuplicateIdentifier:            "DuplicateIdentifier",
	UndeclaredIdentifier:           "UndeclaredIdentifier",
	MissingMainTrace:               "MissingMainTrace",
	EmptyTrace:                     "EmptyTrace",
	EmptyPublicInputs:              "EmptyPublicInputs",
	InvalidPeriodicLength:          "InvalidPeriodicLength",
	IndexOutOfRange:                "IndexOutOfRange",
	ShapeMismatch:                  "ShapeMismatch",
	ExpectedScalar:                 "ExpectedScalar",
	ExpectedVector:                 "ExpectedVector",
	BoundaryConflict:               "BoundaryConflict",
	BoundaryReferencesPeriodic:     "BoundaryReferencesPeriodic",
	BoundaryReferencesNext:         "BoundaryReferencesNext",
	IntegrityReferencesPublicInput: "IntegrityReferencesPublicInput",
	IntegrityReferencesBoundary:    "IntegrityReferencesBoundary",
	NextAppliedToNonTrace:          "NextAppliedToNonTrace",
	NonLiteralExponent:             "NonLiteralExponent",
	OverflowError:                  "OverflowError",
	DegreeOverflow:                 "DegreeOverflow",
	UnsupportedFeature:             "UnsupportedFeature",
	EmptyFold:                      "EmptyFold",
}

//nolint:revive
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "UnknownKind"
}

// Diagnostic is a single structured error or warning.  Secondary is the
// span of a "previously declared here" hint, or nil; it is present only for
// kinds that name a conflicting earlier declaration (chiefly
// DuplicateIdentifier and BoundaryConflict).
type Diagnostic struct {
	Kind             Kind
	Message          string
	Primary          sexp.Span
	Secondary        *sexp.Span
	SecondaryMessage string
}

// Error implements the error interface, so a Diagnostic can be returned
// or wrapped like any other error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// New constructs a Diagnostic with no secondary span.
func New(kind Kind, primary sexp.Span, message string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(message, args...), Primary: primary}
}

// WithSecondary attaches a secondary span and its own message (e.g.
// "previously declared here") to a Diagnostic, returning it for chaining.
func (d *Diagnostic) WithSecondary(span sexp.Span, message string) *Diagnostic {
	d.Secondary = &span
	d.SecondaryMessage = message

	return d
}
