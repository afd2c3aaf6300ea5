package lower

import (
	"math/big"

	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/sexp"
	"github.com/airscript-lang/airscript/pkg/symtab"
)

// sectionKind distinguishes the two constraint sections, which enforce
// different access policies (§4.4).
type sectionKind uint8

const (
	boundarySection sectionKind = iota
	integritySection
)

// lowerExpr translates e into a value at the current row (row offset 0),
// dispatching by AST kind per §4.3's table.
func (l *lowerer) lowerExpr(e ast.Expr) (value, bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return scalarValue(l.store.Const(n.Value)), true
	case *ast.Ident:
		return l.lowerIdent(n, 0)
	case *ast.Next:
		return l.lowerNext(n)
	case *ast.Boundary:
		return l.lowerBoundaryExpr(n)
	case *ast.IndexAccess:
		return l.lowerIndexAccess(n, 0)
	case *ast.SliceAccess:
		return l.lowerSliceAccess(n, 0)
	case *ast.SegmentAccess:
		return l.lowerSegmentAccess(n)
	case *ast.RandomAccess:
		return l.lowerRandomAccess(n)
	case *ast.UnaryMinus:
		return l.lowerUnaryMinus(n)
	case *ast.BinaryOp:
		return l.lowerBinaryOp(n)
	case *ast.Power:
		return l.lowerPower(n)
	case *ast.Paren:
		return l.lowerExpr(n.Inner)
	case *ast.VectorLiteral:
		return l.lowerVectorLiteral(n)
	case *ast.MatrixLiteral:
		return l.lowerMatrixLiteral(n)
	case *ast.Comprehension:
		return l.lowerComprehension(n)
	case *ast.Fold:
		return l.lowerFold(n)
	case *ast.EvaluatorCall:
		return l.lowerEvaluatorCall(n)
	default:
		l.reporter.Report(diag.New(diag.UnsupportedFeature, e.Span(), "unsupported expression form"))
		return value{}, false
	}
}

func (l *lowerer) lowerIdent(n *ast.Ident, row uint8) (value, bool) {
	if v, ok := l.lookupValue(n.Name); ok {
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, n.Span(), "next-row operator applied to a local variable"))
			return value{}, false
		}

		return v, true
	}

	binding, ok := l.table.Resolve(n.Name, n.Span(), l.reporter)
	if !ok {
		return value{}, false
	}

	return l.lowerBinding(binding, n.Span(), row)
}

func (l *lowerer) lowerBinding(binding symtab.Binding, span sexp.Span, row uint8) (value, bool) {
	switch b := binding.(type) {
	case symtab.ConstBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a constant"))
			return value{}, false
		}

		return l.lowerConstDecl(b.Decl)
	case symtab.TraceBinding:
		if b.Width == 1 {
			return scalarValue(l.store.TraceAccessNode(b.Segment, b.Column, row)), true
		}

		nodes := make([]graph.Index, b.Width)

		for i := uint(0); i < b.Width; i++ {
			nodes[i] = l.store.TraceAccessNode(b.Segment, b.Column+i, row)
		}

		return vectorValue(nodes), true
	case symtab.PublicInputBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a public input"))
			return value{}, false
		}

		if l.section == integritySection {
			l.reporter.Report(diag.New(diag.IntegrityReferencesPublicInput, span,
				"integrity constraint references public input"))

			return value{}, false
		}

		nodes := make([]graph.Index, b.Length)

		for i := uint(0); i < b.Length; i++ {
			nodes[i] = l.store.PublicRefNode(b.Ordinal, i)
		}

		return vectorValue(nodes), true
	case symtab.PeriodicColumnBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a periodic column"))
			return value{}, false
		}

		if l.section == boundarySection {
			l.reporter.Report(diag.New(diag.BoundaryReferencesPeriodic, span,
				"boundary constraint references periodic column"))

			return value{}, false
		}

		return scalarValue(l.store.PeriodicRefNode(b.Ordinal)), true
	case symtab.RandomArrayBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a random-values array"))
			return value{}, false
		}

		nodes := make([]graph.Index, b.Length)

		for i := uint(0); i < b.Length; i++ {
			nodes[i] = l.store.RandomRefNode(b.Offset + i)
		}

		return vectorValue(nodes), true
	case symtab.RandomElementBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a random value"))
			return value{}, false
		}

		if b.Width == 1 {
			return scalarValue(l.store.RandomRefNode(b.Offset)), true
		}

		nodes := make([]graph.Index, b.Width)

		for i := uint(0); i < b.Width; i++ {
			nodes[i] = l.store.RandomRefNode(b.Offset + i)
		}

		return vectorValue(nodes), true
	case symtab.LocalBinding:
		if row != 0 {
			l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, span, "next-row operator applied to a local variable"))
			return value{}, false
		}

		return l.lowerExpr(b.Value)
	case symtab.EvaluatorBinding:
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, span, "evaluator %q used as a value", b.Decl.Name))
		return value{}, false
	default:
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, span, "identifier does not resolve to a value"))
		return value{}, false
	}
}

func (l *lowerer) lowerRandomAccess(n *ast.RandomAccess) (value, bool) {
	rv := l.module.RandomValues
	if rv == nil || n.Index >= rv.Length {
		length := uint(0)
		if rv != nil {
			length = rv.Length
		}

		l.reporter.Report(diag.New(diag.IndexOutOfRange, n.Span(),
			"index %d out of range for random-values array of length %d", n.Index, length))

		return value{}, false
	}

	return scalarValue(l.store.RandomRefNode(n.Index)), true
}

func (l *lowerer) lowerConstDecl(d *ast.ConstDecl) (value, bool) {
	switch {
	case d.Scalar != nil:
		return scalarValue(l.store.Const(d.Scalar)), true
	case d.Vector != nil:
		nodes := make([]graph.Index, len(d.Vector))
		for i, v := range d.Vector {
			nodes[i] = l.store.Const(v)
		}

		return vectorValue(nodes), true
	default:
		rows := make([][]graph.Index, len(d.Matrix))

		for i, row := range d.Matrix {
			nodes := make([]graph.Index, len(row))
			for j, v := range row {
				nodes[j] = l.store.Const(v)
			}

			rows[i] = nodes
		}

		return matrixValue(rows), true
	}
}

func (l *lowerer) lowerNext(n *ast.Next) (value, bool) {
	if l.section == boundarySection {
		l.reporter.Report(diag.New(diag.BoundaryReferencesNext, n.Span(), "boundary constraint uses the next-row operator"))
		return value{}, false
	}

	return l.lowerTraceRow(n.Inner, 1)
}

// lowerTraceRow lowers an expression that must denote a trace-column
// access at the given row offset. Only identifiers, index/slice access
// and segment-qualified access can denote a trace column; anything else
// is NextAppliedToNonTrace.
func (l *lowerer) lowerTraceRow(e ast.Expr, row uint8) (value, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		return l.lowerIdent(n, row)
	case *ast.IndexAccess:
		return l.lowerIndexAccess(n, row)
	case *ast.SliceAccess:
		return l.lowerSliceAccess(n, row)
	case *ast.SegmentAccess:
		return l.lowerSegmentAccessRow(n, row)
	default:
		l.reporter.Report(diag.New(diag.NextAppliedToNonTrace, e.Span(), "next-row operator applied to a non-trace expression"))
		return value{}, false
	}
}

func (l *lowerer) lowerBoundaryExpr(n *ast.Boundary) (value, bool) {
	if l.section == integritySection {
		l.reporter.Report(diag.New(diag.IntegrityReferencesBoundary, n.Span(), "integrity constraint uses a boundary accessor"))
		return value{}, false
	}

	return l.lowerTraceRow(n.Inner, 0)
}

func (l *lowerer) lowerIndexAccess(n *ast.IndexAccess, row uint8) (value, bool) {
	base, ok := l.lowerTraceRowOrExpr(n.Base, row)
	if !ok {
		return value{}, false
	}

	switch base.shape {
	case vectorShape:
		if int(n.Index) >= len(base.vector) {
			l.reporter.Report(diag.New(diag.IndexOutOfRange, n.Span(),
				"index %d out of range for length %d", n.Index, len(base.vector)))

			return value{}, false
		}

		return scalarValue(base.vector[n.Index]), true
	case matrixShape:
		if int(n.Index) >= len(base.matrix) {
			l.reporter.Report(diag.New(diag.IndexOutOfRange, n.Span(),
				"index %d out of range for %d rows", n.Index, len(base.matrix)))

			return value{}, false
		}

		return vectorValue(base.matrix[n.Index]), true
	default:
		l.reporter.Report(diag.New(diag.ExpectedVector, n.Base.Span(), "indexed access requires a vector or matrix"))
		return value{}, false
	}
}

func (l *lowerer) lowerSliceAccess(n *ast.SliceAccess, row uint8) (value, bool) {
	base, ok := l.lowerTraceRowOrExpr(n.Base, row)
	if !ok {
		return value{}, false
	}

	if base.shape != vectorShape {
		l.reporter.Report(diag.New(diag.ExpectedVector, n.Base.Span(), "slice access requires a vector"))
		return value{}, false
	}

	if n.High > uint(len(base.vector)) || n.Low > n.High {
		l.reporter.Report(diag.New(diag.IndexOutOfRange, n.Span(),
			"slice [%d..%d) out of range for length %d", n.Low, n.High, len(base.vector)))

		return value{}, false
	}

	slice := make([]graph.Index, n.High-n.Low)
	copy(slice, base.vector[n.Low:n.High])

	return vectorValue(slice), true
}

// lowerTraceRowOrExpr lowers e at the given row if row != 0 (meaning a
// Next encloses it), otherwise lowers it normally.
func (l *lowerer) lowerTraceRowOrExpr(e ast.Expr, row uint8) (value, bool) {
	if row != 0 {
		return l.lowerTraceRow(e, row)
	}

	return l.lowerExpr(e)
}

func (l *lowerer) lowerSegmentAccess(n *ast.SegmentAccess) (value, bool) {
	return l.lowerSegmentAccessRow(n, 0)
}

func (l *lowerer) lowerSegmentAccessRow(n *ast.SegmentAccess, row uint8) (value, bool) {
	binding, ok := l.table.Lookup(n.Name)
	if !ok {
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, n.Span(), "undeclared identifier %q", n.Name))
		return value{}, false
	}

	tb, ok := binding.(symtab.TraceBinding)
	if !ok {
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, n.Span(), "%q is not a trace binding", n.Name))
		return value{}, false
	}

	wantSeg := graph.Main
	if n.Segment == ast.AuxSegment {
		wantSeg = graph.Aux
	}

	if tb.Segment != wantSeg {
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, n.Span(),
			"%q is not declared in the %s segment", n.Name, wantSeg))

		return value{}, false
	}

	return l.lowerBinding(tb, n.Span(), row)
}

func (l *lowerer) lowerUnaryMinus(n *ast.UnaryMinus) (value, bool) {
	inner, ok := l.lowerExpr(n.Inner)
	if !ok {
		return value{}, false
	}

	zero := l.store.Const(big.NewInt(0))

	return l.mapUnary(inner, n.Span(), func(idx graph.Index) (graph.Index, bool) {
		res, err := l.store.BinaryNode(graph.Sub, zero, idx)
		if err != nil {
			l.reporter.Fatal(diag.New(diag.OverflowError, n.Span(), err.Error()))
			return 0, false
		}

		return res, true
	})
}

func (l *lowerer) lowerBinaryOp(n *ast.BinaryOp) (value, bool) {
	left, lok := l.lowerExpr(n.Left)
	right, rok := l.lowerExpr(n.Right)

	if !lok || !rok {
		return value{}, false
	}

	kind := graph.Add

	switch n.Kind {
	case ast.Sub:
		kind = graph.Sub
	case ast.Mul:
		kind = graph.Mul
	}

	return l.mapBinary(left, right, n.Span(), kind)
}

func (l *lowerer) mapBinary(left, right value, span sexp.Span, kind graph.Kind) (value, bool) {
	if left.shape != right.shape {
		l.reporter.Report(diag.New(diag.ShapeMismatch, span, "operands have different shapes"))
		return value{}, false
	}

	combine := func(a, b graph.Index) (graph.Index, bool) {
		idx, err := l.store.BinaryNode(kind, a, b)
		if err != nil {
			l.reporter.Fatal(diag.New(diag.OverflowError, span, err.Error()))
			return 0, false
		}

		return idx, true
	}

	switch left.shape {
	case scalarShape:
		idx, ok := combine(left.node, right.node)
		return scalarValue(idx), ok
	case vectorShape:
		if len(left.vector) != len(right.vector) {
			l.reporter.Report(diag.New(diag.ShapeMismatch, span,
				"vector operands have lengths %d and %d", len(left.vector), len(right.vector)))

			return value{}, false
		}

		nodes := make([]graph.Index, len(left.vector))

		for i := range left.vector {
			idx, ok := combine(left.vector[i], right.vector[i])
			if !ok {
				return value{}, false
			}

			nodes[i] = idx
		}

		return vectorValue(nodes), true
	default:
		if len(left.matrix) != len(right.matrix) {
			l.reporter.Report(diag.New(diag.ShapeMismatch, span, "matrix operands have different row counts"))
			return value{}, false
		}

		rows := make([][]graph.Index, len(left.matrix))

		for i := range left.matrix {
			if len(left.matrix[i]) != len(right.matrix[i]) {
				l.reporter.Report(diag.New(diag.ShapeMismatch, span, "matrix operands have different row widths"))
				return value{}, false
			}

			row := make([]graph.Index, len(left.matrix[i]))

			for j := range left.matrix[i] {
				idx, ok := combine(left.matrix[i][j], right.matrix[i][j])
				if !ok {
					return value{}, false
				}

				row[j] = idx
			}

			rows[i] = row
		}

		return matrixValue(rows), true
	}
}

func (l *lowerer) mapUnary(v value, span sexp.Span, fn func(graph.Index) (graph.Index, bool)) (value, bool) {
	switch v.shape {
	case scalarShape:
		idx, ok := fn(v.node)
		return scalarValue(idx), ok
	case vectorShape:
		nodes := make([]graph.Index, len(v.vector))

		for i, n := range v.vector {
			idx, ok := fn(n)
			if !ok {
				return value{}, false
			}

			nodes[i] = idx
		}

		return vectorValue(nodes), true
	default:
		rows := make([][]graph.Index, len(v.matrix))

		for i, row := range v.matrix {
			nodes := make([]graph.Index, len(row))

			for j, n := range row {
				idx, ok := fn(n)
				if !ok {
					return value{}, false
				}

				nodes[j] = idx
			}

			rows[i] = nodes
		}

		return matrixValue(rows), true
	}
}

func (l *lowerer) lowerPower(n *ast.Power) (value, bool) {
	base, ok := l.lowerExpr(n.Base)
	if !ok {
		return value{}, false
	}

	lit, ok := n.Exponent.(*ast.IntLiteral)
	if !ok {
		l.reporter.Report(diag.New(diag.NonLiteralExponent, n.Exponent.Span(), "exponent must be a literal integer"))
		return value{}, false
	}

	if lit.Value.Sign() < 0 {
		l.reporter.Report(diag.New(diag.NonLiteralExponent, n.Exponent.Span(),
			"exponent must be a non-negative integer literal"))

		return value{}, false
	}

	if !lit.Value.IsUint64() {
		l.reporter.Report(diag.New(diag.OverflowError, n.Exponent.Span(),
			"exponent %s does not fit an unsigned 64-bit word", lit.Value.String()))

		return value{}, false
	}

	exponent := lit.Value.Uint64()

	return l.mapUnary(base, n.Span(), func(idx graph.Index) (graph.Index, bool) {
		res, err := l.store.ExpNode(idx, exponent)
		if err != nil {
			l.reporter.Fatal(diag.New(diag.OverflowError, n.Span(), err.Error()))
			return 0, false
		}

		return res, true
	})
}

func (l *lowerer) lowerVectorLiteral(n *ast.VectorLiteral) (value, bool) {
	nodes := make([]graph.Index, 0, len(n.Elements))

	for _, e := range n.Elements {
		v, ok := l.lowerExpr(e)
		if !ok {
			return value{}, false
		}

		scalar, ok := l.asScalar(v, e.Span())
		if !ok {
			return value{}, false
		}

		nodes = append(nodes, scalar)
	}

	return vectorValue(nodes), true
}

func (l *lowerer) lowerMatrixLiteral(n *ast.MatrixLiteral) (value, bool) {
	rows := make([][]graph.Index, 0, len(n.Rows))

	for _, r := range n.Rows {
		v, ok := l.lowerVectorLiteral(r)
		if !ok {
			return value{}, false
		}

		rows = append(rows, v.vector)
	}

	return matrixValue(rows), true
}

func (l *lowerer) asScalar(v value, span sexp.Span) (graph.Index, bool) {
	if v.shape != scalarShape {
		l.reporter.Report(diag.New(diag.ExpectedScalar, span, "expected a scalar expression"))
		return 0, false
	}

	return v.node, true
}

func (l *lowerer) asVector(v value, span sexp.Span) ([]graph.Index, bool) {
	if v.shape != vectorShape {
		l.reporter.Report(diag.New(diag.ExpectedVector, span, "expected a vector expression"))
		return nil, false
	}

	return v.vector, true
}
