package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

func TestReporterBatchesOrdinaryDiagnostics(t *testing.T) {
	r := NewReporter()
	span := sexp.NewSpan(0, 1)

	r.Report(New(UndeclaredIdentifier, span, "first"))
	r.Report(New(UndeclaredIdentifier, span, "second"))

	assert.True(t, r.HasErrors())
	assert.Len(t, r.Diagnostics(), 2)
}

func TestFatalDiscardsTheBatch(t *testing.T) {
	r := NewReporter()
	span := sexp.NewSpan(0, 1)

	r.Report(New(UndeclaredIdentifier, span, "ordinary problem"))
	r.Fatal(New(DegreeOverflow, span, "fatal problem"))
	r.Report(New(UndeclaredIdentifier, span, "ignored after fatal"))

	diags := r.Diagnostics()
	assert.Len(t, diags, 1)
	assert.Equal(t, DegreeOverflow, diags[0].Kind)
}

func TestWithSecondaryAttachesNoteSpan(t *testing.T) {
	primary := sexp.NewSpan(10, 11)
	secondary := sexp.NewSpan(0, 1)

	d := New(DuplicateIdentifier, primary, "identifier %q already declared", "x").
		WithSecondary(secondary, "previously declared here")

	assert.Equal(t, secondary, *d.Secondary)
	assert.Equal(t, "previously declared here", d.SecondaryMessage)
	assert.Equal(t, `identifier "x" already declared`, d.Message)
}

func TestDiagnosticErrorIncludesKind(t *testing.T) {
	d := New(OverflowError, sexp.NewSpan(0, 1), "boom")
	assert.Contains(t, d.Error(), "OverflowError")
	assert.Contains(t, d.Error(), "boom")
}
