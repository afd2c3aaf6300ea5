package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

func TestDeclareRejectsDuplicateModuleScopeNames(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	assert.True(t, table.Declare("x", span, PublicInputBinding{Ordinal: 0, Length: 1}, r))
	assert.False(t, table.Declare("x", span, PublicInputBinding{Ordinal: 1, Length: 1}, r))

	diags := r.Diagnostics()
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.DuplicateIdentifier, diags[0].Kind)
}

func TestResolveFindsModuleScopeBindings(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	table.Declare("col", span, TraceBinding{Segment: graph.Main, Column: 0, Width: 1}, r)

	binding, ok := table.Resolve("col", span, r)
	assert.True(t, ok)
	assert.Equal(t, TraceKind, binding.Kind())
	assert.False(t, r.HasErrors())
}

func TestResolveReportsUndeclaredIdentifier(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	_, ok := table.Resolve("nope", span, r)

	assert.False(t, ok)
	diags := r.Diagnostics()
	assert.Len(t, diags, 1)
	assert.Equal(t, diag.UndeclaredIdentifier, diags[0].Kind)
}

func TestNestedScopeShadowsModuleScope(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	table.Declare("x", span, PublicInputBinding{Ordinal: 0, Length: 1}, r)

	table.EnterScope()
	table.DeclareLocal("x", span, LocalBinding{}, r)

	binding, ok := table.Resolve("x", span, r)
	assert.True(t, ok)
	assert.Equal(t, LocalKind, binding.Kind(), "the local scope's binding must shadow the module-scope one")

	table.LeaveScope()

	binding, ok = table.Resolve("x", span, r)
	assert.True(t, ok)
	assert.Equal(t, PublicInputKind, binding.Kind(), "leaving the scope must restore visibility of the shadowed binding")

	assert.False(t, r.HasErrors())
}

func TestNestedScopesAreIndependentCopies(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	table.EnterScope()
	table.DeclareLocal("a", span, LocalBinding{}, r)

	table.EnterScope()
	table.DeclareLocal("b", span, LocalBinding{}, r)

	_, aVisible := table.Lookup("a")
	_, bVisible := table.Lookup("b")
	assert.True(t, aVisible)
	assert.True(t, bVisible)

	table.LeaveScope()

	_, aStillVisible := table.Lookup("a")
	_, bVisible = table.Lookup("b")
	assert.True(t, aStillVisible, "outer scope's own binding must survive popping the inner one")
	assert.False(t, bVisible, "inner scope's binding must not leak into the outer scope")

	table.LeaveScope()
}

func TestDeclareLocalRejectsDuplicateWithinSameFrame(t *testing.T) {
	table := New()
	r := diag.NewReporter()
	span := sexp.NewSpan(0, 1)

	table.EnterScope()
	defer table.LeaveScope()

	assert.True(t, table.DeclareLocal("x", span, LocalBinding{}, r))
	assert.False(t, table.DeclareLocal("x", span, LocalBinding{}, r))
	assert.True(t, r.HasErrors())
}

func TestLookupDoesNotReportDiagnostics(t *testing.T) {
	table := New()

	_, ok := table.Lookup("nope")
	assert.False(t, ok)
}
