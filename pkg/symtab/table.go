// Package symtab implements the symbol table: resolution of identifiers
// to declarations under lexical scoping, for the expression compiler and
// semantic analyzer in pkg/lower.
package symtab

import (
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Table resolves identifiers declared at module scope (constants, trace
// columns, public inputs, periodic columns, random values) and, nested
// within that, identifiers bound by let statements.  Comprehension
// iterators and evaluator parameters are not bound here: pkg/lower keeps
// them on its own value stack.
//
// Scopes are a stack of maps, each a copy of its parent at the point it
// was pushed (mirroring the teacher's own LocalScope.NestedScope), so
// that resolution only ever has to consult the top frame and the global
// map. EnterScope/LeaveScope must be paired on every exit path, including
// error paths; callers typically use defer.
type Table struct {
	globals map[string]Binding
	spans   map[string]sexp.Span
	scopes  []map[string]Binding
}

// New returns an empty symbol table with no declarations and no open
// scopes.
func New() *Table {
	return &Table{globals: make(map[string]Binding), spans: make(map[string]sexp.Span)}
}

// Declare registers a module-level declaration.  It reports
// DuplicateIdentifier, with the earlier declaration's span attached as a
// secondary span, if name is already declared at module scope.
func (t *Table) Declare(name string, span sexp.Span, binding Binding, r *diag.Reporter) bool {
	if prior, ok := t.spans[name]; ok {
		r.Report(diag.New(diag.DuplicateIdentifier, span, "identifier %q is already declared", name).
			WithSecondary(prior, "previously declared here"))

		return false
	}

	t.globals[name] = binding
	t.spans[name] = span

	return true
}

// EnterScope pushes a new local scope, seeded with a copy of the
// innermost currently-open scope (or empty, if none is open).
func (t *Table) EnterScope() {
	next := make(map[string]Binding)

	if len(t.scopes) > 0 {
		for k, v := range t.scopes[len(t.scopes)-1] {
			next[k] = v
		}
	}

	t.scopes = append(t.scopes, next)
}

// LeaveScope pops the innermost local scope.  It panics if no scope is
// open, since that indicates an EnterScope/LeaveScope mismatch in the
// caller.
func (t *Table) LeaveScope() {
	if len(t.scopes) == 0 {
		panic("symtab: LeaveScope called with no open scope")
	}

	t.scopes = t.scopes[:len(t.scopes)-1]
}

// DeclareLocal binds name within the innermost open scope, shadowing any
// outer binding of the same name.  It reports DuplicateIdentifier if name
// is already bound within this same scope frame (not an outer one: local
// shadowing of globals and of enclosing lets is permitted, per §4.2's
// nested-scope model, but re-binding within one frame is not).
func (t *Table) DeclareLocal(name string, span sexp.Span, binding Binding, r *diag.Reporter) bool {
	if len(t.scopes) == 0 {
		panic("symtab: DeclareLocal called with no open scope")
	}

	top := t.scopes[len(t.scopes)-1]

	if existing, ok := top[name]; ok {
		// top starts as a copy of its parent frame, so a binding equal to
		// the parent's was inherited from an enclosing scope, not bound here.
		inherited := false

		if len(t.scopes) > 1 {
			outer, found := t.scopes[len(t.scopes)-2][name]
			inherited = found && outer == existing
		}

		if !inherited {
			r.Report(diag.New(diag.DuplicateIdentifier, span, "identifier %q is already declared in this scope", name))

			return false
		}
	}

	top[name] = binding

	return true
}

// Resolve looks up name, preferring the innermost open scope over module
// scope.  It reports UndeclaredIdentifier at span if name is bound
// nowhere.
func (t *Table) Resolve(name string, span sexp.Span, r *diag.Reporter) (Binding, bool) {
	if len(t.scopes) > 0 {
		if b, ok := t.scopes[len(t.scopes)-1][name]; ok {
			return b, true
		}
	}

	if b, ok := t.globals[name]; ok {
		return b, true
	}

	r.Report(diag.New(diag.UndeclaredIdentifier, span, "undeclared identifier %q", name))

	return nil, false
}

// Lookup is like Resolve but does not report a diagnostic, for callers
// that want to probe without committing to an error (e.g. disambiguating
// $main.x / $aux.x segment-qualified access).
func (t *Table) Lookup(name string) (Binding, bool) {
	if len(t.scopes) > 0 {
		if b, ok := t.scopes[len(t.scopes)-1][name]; ok {
			return b, true
		}
	}

	b, ok := t.globals[name]

	return b, ok
}
