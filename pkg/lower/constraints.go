package lower

import (
	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/ir"
	"github.com/airscript-lang/airscript/pkg/symtab"
)

// loweredRoot is a constraint root together with the segment classification
// decided for it; segment membership is computed once, here, rather than
// carried on ir.ConstraintRoot itself, since the IR keeps main and
// auxiliary roots in separate lists.
type loweredRoot struct {
	ir.ConstraintRoot
	aux bool
}

// lowerSection lowers every statement of one constraint section in source
// order, within a single scope that the section's lets are declared into
// and that evaluator calls push nested frames onto (§9's "scoped
// acquisition with guaranteed release").
func (l *lowerer) lowerSection(stmts []ast.Statement, section sectionKind) []loweredRoot {
	l.section = section
	l.table.EnterScope()

	defer l.table.LeaveScope()

	var roots []loweredRoot

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.LetStatement:
			l.table.DeclareLocal(s.Name, s.Span(), symtab.LocalBinding{Value: s.Value}, l.reporter)
		case *ast.ConstraintStatement:
			if root, aux, ok := l.lowerConstraintStatement(s); ok {
				roots = append(roots, loweredRoot{root, aux})
			}
		}
	}

	return roots
}

func (l *lowerer) lowerConstraintStatement(s *ast.ConstraintStatement) (ir.ConstraintRoot, bool, bool) {
	left, lok := l.lowerExpr(s.Left)
	right, rok := l.lowerExpr(s.Right)

	if !lok || !rok {
		return ir.ConstraintRoot{}, false, false
	}

	diffValue, ok := l.mapBinary(left, right, s.Span(), graph.Sub)
	if !ok {
		return ir.ConstraintRoot{}, false, false
	}

	node, ok := l.asScalar(diffValue, s.Span())
	if !ok {
		return ir.ConstraintRoot{}, false, false
	}

	if s.When != nil {
		whenValue, ok := l.lowerExpr(s.When)
		if !ok {
			return ir.ConstraintRoot{}, false, false
		}

		whenNode, ok := l.asScalar(whenValue, s.When.Span())
		if !ok {
			return ir.ConstraintRoot{}, false, false
		}

		mulNode, err := l.store.BinaryNode(graph.Mul, whenNode, node)
		if err != nil {
			l.reporter.Fatal(diag.New(diag.OverflowError, s.Span(), err.Error()))
			return ir.ConstraintRoot{}, false, false
		}

		node = mulNode
	}

	domain, ok := l.constraintDomain(s, node)
	if !ok {
		return ir.ConstraintRoot{}, false, false
	}

	degree, ok := l.degree(node, s.Span())
	if !ok {
		return ir.ConstraintRoot{}, false, false
	}

	aux := l.store.AnyReachable(node, func(n graph.Node) bool {
		return n.Kind == graph.RandomRef || (n.Kind == graph.TraceAccess && n.Seg == graph.Aux)
	})

	return ir.ConstraintRoot{Node: node, Domain: domain, Degree: degree, Span: s.Span()}, aux, true
}

// constraintDomain decides, and for boundary constraints validates the
// uniqueness of, the domain a constraint root applies to (§4.3/§4.4).
func (l *lowerer) constraintDomain(s *ast.ConstraintStatement, node graph.Index) (ir.Domain, bool) {
	if l.section == integritySection {
		hasNext := l.store.AnyReachable(node, func(n graph.Node) bool {
			return n.Kind == graph.TraceAccess && n.Row == 1
		})

		if hasNext {
			return ir.EveryFrame, true
		}

		return ir.EveryRow, true
	}

	b := findBoundary(s.Left)
	if b == nil {
		b = findBoundary(s.Right)
	}

	if b == nil {
		l.reporter.Report(diag.New(diag.UnsupportedFeature, s.Span(),
			"boundary constraint does not reference a boundary accessor"))

		return 0, false
	}

	domain := ir.FirstRow
	if b.Kind == ast.LastRow {
		domain = ir.LastRow
	}

	if seg, col, ok := l.traceTargetBase(b.Inner); ok {
		key := boundaryKey{segment: seg, column: col, domain: domain}

		if prior, exists := l.boundaries[key]; exists {
			l.reporter.Report(diag.New(diag.BoundaryConflict, s.Span(),
				"boundary constraint already declared for this column and boundary").
				WithSecondary(prior, "previously declared here"))

			return 0, false
		}

		l.boundaries[key] = s.Span()
	}

	return domain, true
}

// findBoundary searches e for a boundary accessor, returning the first one
// found in a left-to-right, outside-in walk.  It does not descend into
// EvaluatorCall arguments or comprehension bodies: a boundary accessor
// there would not name a single, meaningful (segment, column) target for
// this constraint.
func findBoundary(e ast.Expr) *ast.Boundary {
	switch n := e.(type) {
	case *ast.Boundary:
		return n
	case *ast.BinaryOp:
		if b := findBoundary(n.Left); b != nil {
			return b
		}

		return findBoundary(n.Right)
	case *ast.UnaryMinus:
		return findBoundary(n.Inner)
	case *ast.Paren:
		return findBoundary(n.Inner)
	case *ast.Power:
		return findBoundary(n.Base)
	case *ast.IndexAccess:
		return findBoundary(n.Base)
	case *ast.SliceAccess:
		return findBoundary(n.Base)
	case *ast.VectorLiteral:
		for _, elem := range n.Elements {
			if b := findBoundary(elem); b != nil {
				return b
			}
		}
	case *ast.MatrixLiteral:
		for _, row := range n.Rows {
			if b := findBoundary(row); b != nil {
				return b
			}
		}
	}

	return nil
}

// traceTargetBase resolves e, without emitting any graph node, to the
// (segment, column) it names, for boundary-conflict tracking.  It
// understands identifiers, segment-qualified access and index access; a
// slice, or any other form, names no single column and yields false.
func (l *lowerer) traceTargetBase(e ast.Expr) (graph.Segment, uint, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		b, ok := l.table.Lookup(n.Name)
		if !ok {
			return 0, 0, false
		}

		tb, ok := b.(symtab.TraceBinding)
		if !ok {
			return 0, 0, false
		}

		return tb.Segment, tb.Column, true
	case *ast.SegmentAccess:
		b, ok := l.table.Lookup(n.Name)
		if !ok {
			return 0, 0, false
		}

		tb, ok := b.(symtab.TraceBinding)
		if !ok {
			return 0, 0, false
		}

		return tb.Segment, tb.Column, true
	case *ast.IndexAccess:
		seg, col, ok := l.traceTargetBase(n.Base)
		if !ok {
			return 0, 0, false
		}

		return seg, col + n.Index, true
	default:
		return 0, 0, false
	}
}
