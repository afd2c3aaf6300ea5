package ast

import (
	"fmt"
	"math/big"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Segment identifies one of the two logical groupings of trace columns.
type Segment uint8

const (
	// MainSegment is the always-present main trace segment.
	MainSegment Segment = iota
	// AuxSegment is the optional auxiliary trace segment, whose columns may
	// depend on verifier-supplied random values.
	AuxSegment
)

//nolint:revive
func (s Segment) String() string {
	if s == AuxSegment {
		return "aux"
	}

	return "main"
}

// Module is the root of the AST: a single AirScript source module.
type Module struct {
	BaseNode
	Name string
	// Constants declares module-level constant bindings, in source order.
	Constants []*ConstDecl
	// MainTrace declares the main segment's columns, in source order.
	MainTrace []*TraceBindingDecl
	// AuxTrace declares the auxiliary segment's columns, in source order.
	// Empty if the module has no auxiliary segment.
	AuxTrace []*TraceBindingDecl
	// PublicInputs declares the module's public input arrays, in source
	// order.
	PublicInputs []*PublicInputDecl
	// PeriodicColumns declares periodic column patterns, in source order;
	// their ordinal is their position in this slice.
	PeriodicColumns []*PeriodicColumnDecl
	// RandomValues declares the (single, optional) verifier-challenge
	// array binding.
	RandomValues *RandomValuesDecl
	// Evaluators declares reusable constraint-valued functions, in source
	// order.
	Evaluators []*EvaluatorDecl
	// BoundaryConstraints is the ordered list of statements in the
	// module's "boundary_constraints" section.
	BoundaryConstraints []Statement
	// IntegrityConstraints is the ordered list of statements in the
	// module's "integrity_constraints" section.
	IntegrityConstraints []Statement
}

// Lisp converts this node into its lisp representation.
func (m *Module) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("module"))
	list.Append(sexp.NewSymbol(m.Name))

	return list
}

// ConstDecl declares a module-level constant.  Exactly one of Scalar,
// Vector or Matrix is non-nil, per spec §3's Constant declaration kind.
type ConstDecl struct {
	BaseNode
	Name   string
	Scalar *big.Int
	Vector []*big.Int
	Matrix [][]*big.Int
}

// Lisp converts this node into its lisp representation.
func (d *ConstDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("const"), sexp.NewSymbol(d.Name)})
}

// TraceBindingDecl declares one trace column or column group within a
// segment.  Width is 1 for a single column, >1 for a group addressable by
// index or slice.
type TraceBindingDecl struct {
	BaseNode
	Name  string
	Width uint
}

// Lisp converts this node into its lisp representation.
func (d *TraceBindingDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("column"), sexp.NewSymbol(d.Name),
		sexp.NewSymbol(fmt.Sprintf("%d", d.Width)),
	})
}

// PublicInputDecl declares a named, fixed-length public input array.
type PublicInputDecl struct {
	BaseNode
	Name   string
	Length uint
}

// Lisp converts this node into its lisp representation.
func (d *PublicInputDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("public_input"), sexp.NewSymbol(d.Name),
		sexp.NewSymbol(fmt.Sprintf("%d", d.Length)),
	})
}

// PeriodicColumnDecl declares a fixed repeating pattern of scalars.  Its
// ordinal is determined by this declaration's position amongst its
// siblings, not stored here.
type PeriodicColumnDecl struct {
	BaseNode
	Name    string
	Pattern []*big.Int
}

// Lisp converts this node into its lisp representation.
func (d *PeriodicColumnDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("periodic_column"), sexp.NewSymbol(d.Name)})
}

// RandomSubBinding names an individual element, or a sub-group of
// elements, within a RandomValuesDecl's array.  Width is 1 for an
// individual name.
type RandomSubBinding struct {
	BaseNode
	Name  string
	Width uint
}

// RandomValuesDecl declares the module's single verifier-challenge array.
// Bindings subdivides the array into named elements/sub-groups in
// declaration order; if empty, the array has no named sub-bindings and is
// only accessible via $name[i].
type RandomValuesDecl struct {
	BaseNode
	Name     string
	Length   uint
	Bindings []*RandomSubBinding
}

// Lisp converts this node into its lisp representation.
func (d *RandomValuesDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("random_values"), sexp.NewSymbol(d.Name)})
}

// EvaluatorDecl declares a reusable, constraint-valued function.  Calling
// it substitutes Args for Params and lowers Result (after any local Lets)
// as if written inline at the call site; spec §4.3.
type EvaluatorDecl struct {
	BaseNode
	Name   string
	Params []string
	Lets   []*LetStatement
	Result Expr
}

// Lisp converts this node into its lisp representation.
func (d *EvaluatorDecl) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("evaluator"), sexp.NewSymbol(d.Name)})
}

// Statement is either a LetStatement (introducing a scoped local variable
// for the remainder of its enclosing section) or a ConstraintStatement (an
// "enf" assertion).
type Statement interface {
	Node
}

// LetStatement binds a name to a scalar-, vector-, or matrix-shaped
// expression for the remainder of the enclosing constraint section.
// Lowering substitutes it at every use site; it does not exist in the IR.
type LetStatement struct {
	BaseNode
	Name  string
	Value Expr
}

// Lisp converts this node into its lisp representation.
func (s *LetStatement) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("let"), sexp.NewSymbol(s.Name), s.Value.Lisp()})
}

// ConstraintStatement is a single "enf Left = Right [when When]" assertion.
type ConstraintStatement struct {
	BaseNode
	Left  Expr
	Right Expr
	// When is non-nil for a selected constraint ("enf C when s"); lowering
	// rewrites the pair into "s * (Left - Right)" per spec §4.3.
	When Expr
}

// Lisp converts this node into its lisp representation.
func (s *ConstraintStatement) Lisp() sexp.SExp {
	list := sexp.NewList([]sexp.SExp{sexp.NewSymbol("enf"), s.Left.Lisp(), s.Right.Lisp()})

	if s.When != nil {
		list.Append(sexp.NewSymbol("when"))
		list.Append(s.When.Lisp())
	}

	return list
}
