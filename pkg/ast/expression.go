package ast

import (
	"fmt"
	"math/big"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Expr is a scalar-, vector-, or matrix-shaped expression.  Shape is not
// tracked on the node itself: it is inferred during lowering from the
// declarations an identifier resolves to (spec §4.4).
type Expr interface {
	Node
}

// IntLiteral is a bare integer literal.
type IntLiteral struct {
	BaseNode
	Value *big.Int
}

// Lisp converts this node into its lisp representation.
func (e *IntLiteral) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Value.String())
}

// Ident references a name bound by a const, trace column, public input,
// periodic column, let, comprehension iterator, or evaluator parameter.
type Ident struct {
	BaseNode
	Name string
}

// Lisp converts this node into its lisp representation.
func (e *Ident) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Name)
}

// Next applies the trace-frame shift operator to a trace-column
// expression: Inner' in surface syntax.  Only valid where Inner resolves
// (directly or through index/slice access) to a trace column; spec §4.4.
type Next struct {
	BaseNode
	Inner Expr
}

// Lisp converts this node into its lisp representation.
func (e *Next) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("next"), e.Inner.Lisp()})
}

// BoundaryKind identifies which row of the trace a Boundary expression
// refers to.
type BoundaryKind uint8

const (
	// FirstRow refers to row 0 of the trace.
	FirstRow BoundaryKind = iota
	// LastRow refers to the final row of the trace.
	LastRow
)

//nolint:revive
func (k BoundaryKind) String() string {
	if k == LastRow {
		return "last"
	}

	return "first"
}

// Boundary wraps an expression that is only meaningful at a single row of
// the trace, inside a boundary_constraints section; spec §3's Boundary
// domain.
type Boundary struct {
	BaseNode
	Kind  BoundaryKind
	Inner Expr
}

// Lisp converts this node into its lisp representation.
func (e *Boundary) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(e.Kind.String()), e.Inner.Lisp()})
}

// IndexAccess indexes a single element out of a vector-, matrix-, or
// column-group-shaped expression: Base[Index].
type IndexAccess struct {
	BaseNode
	Base  Expr
	Index uint
}

// Lisp converts this node into its lisp representation.
func (e *IndexAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("index"), e.Base.Lisp(), sexp.NewSymbol(fmt.Sprintf("%d", e.Index)),
	})
}

// SliceAccess extracts a contiguous run of elements, Base[Low..High)
// (High exclusive), producing a vector-shaped value of width High-Low.
type SliceAccess struct {
	BaseNode
	Base Expr
	Low  uint
	High uint
}

// Lisp converts this node into its lisp representation.
func (e *SliceAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("slice"), e.Base.Lisp(),
		sexp.NewSymbol(fmt.Sprintf("%d", e.Low)), sexp.NewSymbol(fmt.Sprintf("%d", e.High)),
	})
}

// SegmentAccess names which trace segment (main or aux) an identifier
// refers to, disambiguating a name that exists in both: $segment.Name.
type SegmentAccess struct {
	BaseNode
	Segment Segment
	Name    string
}

// Lisp converts this node into its lisp representation.
func (e *SegmentAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol(e.Segment.String()), sexp.NewSymbol(e.Name),
	})
}

// RandomAccess references an element of the random-values array by
// literal index: $rand[Index]; spec §9's accepted vocabulary.
type RandomAccess struct {
	BaseNode
	Index uint
}

// Lisp converts this node into its lisp representation.
func (e *RandomAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("rand"), sexp.NewSymbol(fmt.Sprintf("%d", e.Index))})
}

// UnaryMinus negates a scalar expression.
type UnaryMinus struct {
	BaseNode
	Inner Expr
}

// Lisp converts this node into its lisp representation.
func (e *UnaryMinus) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("-"), e.Inner.Lisp()})
}

// BinaryOpKind identifies an arithmetic binary operator.
type BinaryOpKind uint8

const (
	// Add is addition.
	Add BinaryOpKind = iota
	// Sub is subtraction.
	Sub
	// Mul is multiplication.
	Mul
)

//nolint:revive
func (k BinaryOpKind) String() string {
	switch k {
	case Add:
		return "+"
	case Sub:
		return "-"
	default:
		return "*"
	}
}

// BinaryOp applies Kind to a pair of equally-shaped operands, element-wise
// for vector/matrix operands; spec §4.3.
type BinaryOp struct {
	BaseNode
	Kind  BinaryOpKind
	Left  Expr
	Right Expr
}

// Lisp converts this node into its lisp representation.
func (e *BinaryOp) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(e.Kind.String()), e.Left.Lisp(), e.Right.Lisp()})
}

// Power raises Base to Exponent: Base^Exponent.  Exponent is the literal
// AST of the exponent expression, not a pre-validated integer: lowering
// requires it to be a literal non-negative integer (NonLiteralExponent
// otherwise) that fits an unsigned 64-bit word (OverflowError otherwise);
// spec §4.3/§4.1.
type Power struct {
	BaseNode
	Base     Expr
	Exponent Expr
}

// Lisp converts this node into its lisp representation.
func (e *Power) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("^"), e.Base.Lisp(), e.Exponent.Lisp()})
}

// Paren is a parenthesised sub-expression.  It carries no semantics beyond
// its Inner expression; kept distinct only so diagnostics can point at the
// parentheses the author wrote.
type Paren struct {
	BaseNode
	Inner Expr
}

// Lisp converts this node into its lisp representation.
func (e *Paren) Lisp() sexp.SExp {
	return e.Inner.Lisp()
}

// VectorLiteral is a bracketed list of equally-shaped element expressions:
// [e0, e1, ...].
type VectorLiteral struct {
	BaseNode
	Elements []Expr
}

// Lisp converts this node into its lisp representation.
func (e *VectorLiteral) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("vector"))

	for _, elem := range e.Elements {
		list.Append(elem.Lisp())
	}

	return list
}

// MatrixLiteral is a bracketed list of equal-width VectorLiterals:
// [[...], [...], ...].
type MatrixLiteral struct {
	BaseNode
	Rows []*VectorLiteral
}

// Lisp converts this node into its lisp representation.
func (e *MatrixLiteral) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("matrix"))

	for _, row := range e.Rows {
		list.Append(row.Lisp())
	}

	return list
}

// ComprehensionIterator binds Name to successive elements of Source (a
// vector- or column-group-shaped expression) over one pass of a
// Comprehension.  A Comprehension with more than one iterator zips its
// sources element-wise; all Sources must share the same length (spec
// §4.3's ShapeMismatch edge case).
type ComprehensionIterator struct {
	BaseNode
	Name   string
	Source Expr
}

// Comprehension evaluates Body once per position of its (possibly
// zipped) Iterators, producing a vector-shaped value: [Body for
// Iterators[0], Iterators[1], ... ].
type Comprehension struct {
	BaseNode
	Iterators []*ComprehensionIterator
	Body      Expr
}

// Lisp converts this node into its lisp representation.
func (e *Comprehension) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("comprehension"))
	list.Append(e.Body.Lisp())

	for _, it := range e.Iterators {
		list.Append(sexp.NewList([]sexp.SExp{sexp.NewSymbol(it.Name), it.Source.Lisp()}))
	}

	return list
}

// FoldOpKind identifies the combining operator of a Fold.
type FoldOpKind uint8

const (
	// FoldSum combines elements by addition, with identity 0.
	FoldSum FoldOpKind = iota
	// FoldProd combines elements by multiplication, with identity 1.
	FoldProd
)

//nolint:revive
func (k FoldOpKind) String() string {
	if k == FoldProd {
		return "prod"
	}

	return "sum"
}

// Fold reduces a vector-shaped expression to a scalar by repeated
// application of Kind's operator: sum(Source) or prod(Source).
type Fold struct {
	BaseNode
	Kind   FoldOpKind
	Source Expr
}

// Lisp converts this node into its lisp representation.
func (e *Fold) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(e.Kind.String()), e.Source.Lisp()})
}

// EvaluatorCall invokes a named EvaluatorDecl with a fixed argument list,
// one per declared parameter; spec §4.3.
type EvaluatorCall struct {
	BaseNode
	Name string
	Args []Expr
}

// Lisp converts this node into its lisp representation.
func (e *EvaluatorCall) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("call"))
	list.Append(sexp.NewSymbol(e.Name))

	for _, arg := range e.Args {
		list.Append(arg.Lisp())
	}

	return list
}
