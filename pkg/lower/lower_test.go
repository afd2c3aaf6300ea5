package lower

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/ir"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

var sp = sexp.NewSpan(0, 1)

func base() ast.BaseNode { return ast.BaseNode{Span_: sp} }

func ident(name string) *ast.Ident { return &ast.Ident{BaseNode: base(), Name: name} }

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{BaseNode: base(), Value: big.NewInt(v)} }

func enf(left, right ast.Expr) *ast.ConstraintStatement {
	return &ast.ConstraintStatement{BaseNode: base(), Left: left, Right: right}
}

func enfWhen(left, right, when ast.Expr) *ast.ConstraintStatement {
	return &ast.ConstraintStatement{BaseNode: base(), Left: left, Right: right, When: when}
}

func trace(name string, width uint) *ast.TraceBindingDecl {
	return &ast.TraceBindingDecl{BaseNode: base(), Name: name, Width: width}
}

func pub(name string, length uint) *ast.PublicInputDecl {
	return &ast.PublicInputDecl{BaseNode: base(), Name: name, Length: length}
}

// minimalModule returns a module with one main column and one public
// input, which alone satisfies declare()'s module-shape invariants.
func minimalModule(name string) *ast.Module {
	return &ast.Module{
		BaseNode:     base(),
		Name:         name,
		MainTrace:    []*ast.TraceBindingDecl{trace("a", 1)},
		PublicInputs: []*ast.PublicInputDecl{pub("in", 1)},
	}
}

func TestCompileSucceedsOnMinimalModule(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{enf(ident("a"), intLit(0))}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.NotNil(t, result)

	require.Len(t, result.MainRoots, 1)
	assert.Equal(t, ir.EveryRow, result.MainRoots[0].Domain)
	assert.EqualValues(t, 1, result.MainRoots[0].Degree)
}

func TestCompileReportsMissingMainTrace(t *testing.T) {
	m := &ast.Module{BaseNode: base(), Name: "m", PublicInputs: []*ast.PublicInputDecl{pub("in", 1)}}

	result, diags := Compile(m)
	assert.Nil(t, result)
	require.NotEmpty(t, diags)

	found := false
	for _, d := range diags {
		if d.Kind == diag.MissingMainTrace {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileReportsEmptyPublicInputs(t *testing.T) {
	m := &ast.Module{BaseNode: base(), Name: "m", MainTrace: []*ast.TraceBindingDecl{trace("a", 1)}}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EmptyPublicInputs, diags[0].Kind)
}

func TestCompileReportsDuplicateTraceColumnName(t *testing.T) {
	m := minimalModule("m")
	m.MainTrace = append(m.MainTrace, trace("a", 1))
	m.IntegrityConstraints = []ast.Statement{enf(ident("a"), intLit(0))}

	_, diags := Compile(m)

	found := false
	for _, d := range diags {
		if d.Kind == diag.DuplicateIdentifier {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileClassifiesNextRowConstraintAsEveryFrame(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Next{BaseNode: base(), Inner: ident("a")}, ident("a")),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.Len(t, result.MainRoots, 1)
	assert.Equal(t, ir.EveryFrame, result.MainRoots[0].Domain)
}

func TestCompileClassifiesFirstRowBoundaryConstraint(t *testing.T) {
	m := minimalModule("m")
	m.BoundaryConstraints = []ast.Statement{
		enf(&ast.Boundary{BaseNode: base(), Kind: ast.FirstRow, Inner: ident("a")}, intLit(0)),
	}
	m.IntegrityConstraints = []ast.Statement{enf(ident("a"), ident("a"))}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.Len(t, result.MainRoots, 2)
	assert.Equal(t, ir.FirstRow, result.MainRoots[0].Domain)
}

func TestCompileRejectsDuplicateBoundaryConstraint(t *testing.T) {
	m := minimalModule("m")
	boundary := func() *ast.Boundary { return &ast.Boundary{BaseNode: base(), Kind: ast.FirstRow, Inner: ident("a")} }
	m.BoundaryConstraints = []ast.Statement{
		enf(boundary(), intLit(0)),
		enf(boundary(), intLit(1)),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.BoundaryConflict, diags[0].Kind)
	require.NotNil(t, diags[0].Secondary)
}

func TestCompileRejectsBoundaryReferencingNext(t *testing.T) {
	m := minimalModule("m")
	m.BoundaryConstraints = []ast.Statement{
		enf(
			&ast.Next{BaseNode: base(), Inner: ident("a")},
			&ast.Boundary{BaseNode: base(), Kind: ast.FirstRow, Inner: ident("a")},
		),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.BoundaryReferencesNext, diags[0].Kind)
}

func TestCompileRejectsIntegrityReferencingPublicInput(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.IndexAccess{BaseNode: base(), Base: ident("in"), Index: 0}, ident("a")),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.IntegrityReferencesPublicInput, diags[0].Kind)
}

func TestCompileClassifiesAuxRootBySegment(t *testing.T) {
	m := minimalModule("m")
	m.AuxTrace = []*ast.TraceBindingDecl{trace("b", 1)}
	m.IntegrityConstraints = []ast.Statement{
		enf(ident("a"), intLit(0)),
		enf(ident("b"), intLit(0)),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)
	assert.Len(t, result.MainRoots, 1)
	assert.Len(t, result.AuxRoots, 1)
}

func TestCompileAppliesWhenAsMultiplier(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enfWhen(ident("a"), intLit(0), ident("a")),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.Len(t, result.MainRoots, 1)
	// degree(a * (a - 0)) = degree(a) + degree(a) = 2
	assert.EqualValues(t, 2, result.MainRoots[0].Degree)
}

func TestCompileReportsVectorScalarShapeMismatch(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.VectorLiteral{BaseNode: base(), Elements: []ast.Expr{intLit(1), intLit(2)}}, ident("a")),
	}

	_, diags := Compile(m)
	require.NotEmpty(t, diags)

	found := false
	for _, d := range diags {
		if d.Kind == diag.ShapeMismatch {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileRejectsNonLiteralExponent(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Power{BaseNode: base(), Base: ident("a"), Exponent: ident("a")}, intLit(0)),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.NonLiteralExponent, diags[0].Kind)
}

func TestCompileFoldsConstantExponent(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Power{BaseNode: base(), Base: intLit(2), Exponent: intLit(10)}, ident("a")),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)

	node := result.Graph.Get(result.MainRoots[0].Node)
	// left side folds to the constant 1024 at compile time, so the root
	// is a single Sub node over (const, trace).
	assert.Equal(t, graph.Sub, node.Kind)
}

func TestCompileReportsUndeclaredEvaluator(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.EvaluatorCall{BaseNode: base(), Name: "missing", Args: nil}, ident("a")),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UndeclaredIdentifier, diags[0].Kind)
}

func TestCompileInlinesEvaluatorCall(t *testing.T) {
	m := minimalModule("m")
	m.Evaluators = []*ast.EvaluatorDecl{{
		BaseNode: base(), Name: "isZero", Params: []string{"x"}, Result: ident("x"),
	}}
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.EvaluatorCall{BaseNode: base(), Name: "isZero", Args: []ast.Expr{ident("a")}}, intLit(0)),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.Len(t, result.MainRoots, 1)
}

func TestCompileRejectsRecursiveEvaluatorCall(t *testing.T) {
	m := minimalModule("m")

	var call *ast.EvaluatorCall
	call = &ast.EvaluatorCall{BaseNode: base(), Name: "loop", Args: []ast.Expr{ident("a")}}

	m.Evaluators = []*ast.EvaluatorDecl{{
		BaseNode: base(), Name: "loop", Params: []string{"x"}, Result: call,
	}}
	m.IntegrityConstraints = []ast.Statement{enf(call, intLit(0))}

	_, diags := Compile(m)

	found := false
	for _, d := range diags {
		if d.Kind == diag.UnsupportedFeature {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileRejectsFoldOverEmptyVector(t *testing.T) {
	m := minimalModule("m")
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Fold{
			BaseNode: base(), Kind: ast.FoldSum,
			Source: &ast.VectorLiteral{BaseNode: base()},
		}, ident("a")),
	}

	_, diags := Compile(m)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EmptyFold, diags[0].Kind)
}

func TestCompileLowersComprehensionOverTraceGroup(t *testing.T) {
	m := minimalModule("m")
	m.MainTrace = append(m.MainTrace, trace("cols", 3))
	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Fold{
			BaseNode: base(), Kind: ast.FoldSum,
			Source: &ast.Comprehension{
				BaseNode: base(),
				Iterators: []*ast.ComprehensionIterator{
					{BaseNode: base(), Name: "c", Source: ident("cols")},
				},
				Body: ident("c"),
			},
		}, ident("a")),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)
	require.Len(t, result.MainRoots, 1)
}

func TestCompileReportsFatalDegreeOverflow(t *testing.T) {
	m := minimalModule("m")

	squared := &ast.BinaryOp{BaseNode: base(), Kind: ast.Mul, Left: ident("a"), Right: ident("a")}
	hugeExponent := new(big.Int).Lsh(big.NewInt(1), 63)

	m.IntegrityConstraints = []ast.Statement{
		enf(&ast.Power{
			BaseNode: base(), Base: squared,
			Exponent: &ast.IntLiteral{BaseNode: base(), Value: hugeExponent},
		}, intLit(0)),
	}

	result, diags := Compile(m)
	assert.Nil(t, result)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.DegreeOverflow, diags[0].Kind)
}

func TestCompileTracksReferencedColumnsPerSegment(t *testing.T) {
	m := minimalModule("m")
	m.MainTrace = append(m.MainTrace, trace("unused", 1))
	m.AuxTrace = []*ast.TraceBindingDecl{trace("b", 1)}
	m.IntegrityConstraints = []ast.Statement{
		enf(ident("a"), intLit(0)),
		enf(ident("b"), intLit(0)),
	}

	result, diags := Compile(m)
	require.Empty(t, diags)

	assert.Equal(t, []uint{0}, result.ReferencedMainColumns, "column 1 (\"unused\") is declared but never constrained")
	assert.Equal(t, []uint{0}, result.ReferencedAuxColumns)
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	build := func() *ir.IR {
		m := minimalModule("m")
		m.IntegrityConstraints = []ast.Statement{
			enf(&ast.BinaryOp{BaseNode: base(), Kind: ast.Add, Left: ident("a"), Right: ident("a")}, intLit(0)),
		}

		result, diags := Compile(m)
		require.Empty(t, diags)

		return result
	}

	a, b := build(), build()
	assert.Equal(t, a.Graph.Len(), b.Graph.Len())
	assert.Equal(t, a.MainRoots[0].Node, b.MainRoots[0].Node)
	assert.Equal(t, a.MainRoots[0].Degree, b.MainRoots[0].Degree)
}
