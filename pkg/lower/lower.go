package lower

import (
	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/ir"
	"github.com/airscript-lang/airscript/pkg/sexp"
	"github.com/airscript-lang/airscript/pkg/symtab"
	"github.com/airscript-lang/airscript/pkg/util/collection/set"
)

// boundaryKey identifies the (segment, column, boundary) triple that
// §4.4 requires to be unique across a module's boundary constraints.
type boundaryKey struct {
	segment graph.Segment
	column  uint
	domain  ir.Domain
}

type lowerer struct {
	module      *ast.Module
	table       *symtab.Table
	store       *graph.Store
	reporter    *diag.Reporter
	evaluators  map[string]*ast.EvaluatorDecl
	callStack   []string
	boundaries  map[boundaryKey]sexp.Span
	degrees     map[graph.Index]uint64
	mainWidth   uint
	auxWidth    uint
	section     sectionKind
	valueScopes []map[string]value
}

// Compile lowers a fully-parsed AST module into a validated IR, or
// returns the diagnostics collected while trying.  No partial IR is ever
// returned: on any error the first return value is nil.
func Compile(module *ast.Module) (*ir.IR, []*diag.Diagnostic) {
	l := &lowerer{
		module:     module,
		table:      symtab.New(),
		store:      graph.NewStore(),
		reporter:   diag.NewReporter(),
		evaluators: make(map[string]*ast.EvaluatorDecl),
		boundaries: make(map[boundaryKey]sexp.Span),
		degrees:    make(map[graph.Index]uint64),
	}

	l.declare()

	allRoots := l.lowerSection(module.BoundaryConstraints, boundarySection)
	allRoots = append(allRoots, l.lowerSection(module.IntegrityConstraints, integritySection)...)

	if l.reporter.HasErrors() {
		return nil, l.reporter.Diagnostics()
	}

	result := &ir.IR{
		Name:      module.Name,
		MainWidth: l.mainWidth,
		AuxWidth:  l.auxWidth,
		Graph:     l.store,
	}

	for _, c := range module.Constants {
		result.Constants = append(result.Constants, ir.ConstDecl{
			Name: c.Name, Scalar: c.Scalar, Vector: c.Vector, Matrix: c.Matrix,
		})
	}

	for _, p := range module.PublicInputs {
		result.PublicInputs = append(result.PublicInputs, ir.PublicInputDecl{Name: p.Name, Length: p.Length})
	}

	for _, p := range module.PeriodicColumns {
		result.PeriodicColumns = append(result.PeriodicColumns, ir.PeriodicColumnDecl{
			Name: p.Name, Pattern: p.Pattern,
		})
	}

	mainCols, auxCols := set.NewSortedSet(), set.NewSortedSet()

	for _, root := range allRoots {
		if root.aux {
			result.AuxRoots = append(result.AuxRoots, root.ConstraintRoot)
		} else {
			result.MainRoots = append(result.MainRoots, root.ConstraintRoot)
		}

		l.store.VisitReachable(root.Node, func(n graph.Node) {
			if n.Kind != graph.TraceAccess {
				return
			}

			if n.Seg == graph.Aux {
				auxCols.Insert(n.Column)
			} else {
				mainCols.Insert(n.Column)
			}
		})
	}

	result.ReferencedMainColumns = mainCols.Elements()
	result.ReferencedAuxColumns = auxCols.Elements()

	return result, nil
}

// declare performs the declaration phase: registering every module-level
// identifier and checking the invariants of §3 that are checkable without
// looking inside any expression.
func (l *lowerer) declare() {
	for _, c := range l.module.Constants {
		l.table.Declare(c.Name, c.Span(), symtab.ConstBinding{Decl: c}, l.reporter)
	}

	l.declareTrace(l.module.MainTrace, graph.Main)
	l.declareTrace(l.module.AuxTrace, graph.Aux)

	if l.mainWidth == 0 {
		l.reporter.Report(diag.New(diag.MissingMainTrace, l.module.Span(),
			"module %q declares no main trace column", l.module.Name))
	}

	if len(l.module.PublicInputs) == 0 {
		l.reporter.Report(diag.New(diag.EmptyPublicInputs, l.module.Span(),
			"module %q declares no public input", l.module.Name))
	}

	for i, p := range l.module.PublicInputs {
		l.table.Declare(p.Name, p.Span(), symtab.PublicInputBinding{Ordinal: uint(i), Length: p.Length}, l.reporter)
	}

	for i, p := range l.module.PeriodicColumns {
		if !isValidPeriodicLength(len(p.Pattern)) {
			l.reporter.Report(diag.New(diag.InvalidPeriodicLength, p.Span(),
				"periodic column %q has length %d, which is not a power of two >= 2", p.Name, len(p.Pattern)))
		}

		l.table.Declare(p.Name, p.Span(), symtab.PeriodicColumnBinding{
			Ordinal: uint(i), Length: uint(len(p.Pattern)), Decl: p,
		}, l.reporter)
	}

	l.declareRandomValues()

	for _, e := range l.module.Evaluators {
		l.table.Declare(e.Name, e.Span(), symtab.EvaluatorBinding{Decl: e}, l.reporter)
		l.evaluators[e.Name] = e
	}
}

func (l *lowerer) declareTrace(decls []*ast.TraceBindingDecl, seg graph.Segment) {
	var running uint

	for _, d := range decls {
		if d.Width == 0 {
			l.reporter.Report(diag.New(diag.EmptyTrace, d.Span(), "trace binding %q has width 0", d.Name))
		}

		l.table.Declare(d.Name, d.Span(), symtab.TraceBinding{Segment: seg, Column: running, Width: d.Width}, l.reporter)
		running += d.Width
	}

	if seg == graph.Main {
		l.mainWidth = running
	} else {
		l.auxWidth = running
	}
}

func (l *lowerer) declareRandomValues() {
	rv := l.module.RandomValues
	if rv == nil {
		return
	}

	l.table.Declare(rv.Name, rv.Span(), symtab.RandomArrayBinding{Offset: 0, Length: rv.Length}, l.reporter)

	var offset uint

	for _, b := range rv.Bindings {
		l.table.Declare(b.Name, b.Span(), symtab.RandomElementBinding{Offset: offset, Width: b.Width}, l.reporter)
		offset += b.Width
	}
}

func isValidPeriodicLength(n int) bool {
	if n < 2 {
		return false
	}

	return n&(n-1) == 0
}
