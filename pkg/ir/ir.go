// Package ir defines the compiled output of the core: the frozen,
// validated intermediate representation that a downstream emitter reads.
// Everything here is built once, by pkg/lower, and never mutated
// afterwards.
package ir

import (
	"fmt"
	"math/big"

	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Domain identifies which rows of the trace a ConstraintRoot applies to.
type Domain uint8

const (
	// FirstRow restricts a root to row 0.  Produced only by boundary
	// constraints.
	FirstRow Domain = iota
	// LastRow restricts a root to the trace's final row.  Produced only
	// by boundary constraints.
	LastRow
	// EveryRow applies a root to every row.  Produced by integrity
	// constraints that reference no row-offset-1 access.
	EveryRow
	// EveryFrame applies a root to every adjacent pair of rows.  Produced
	// by integrity constraints that reference a row-offset-1 access.
	EveryFrame
)

//nolint:revive
func (d Domain) String() string {
	switch d {
	case FirstRow:
		return "first"
	case LastRow:
		return "last"
	case EveryRow:
		return "every-row"
	default:
		return "every-frame"
	}
}

// ConstDecl is a named, frozen constant: exactly one of Scalar, Vector or
// Matrix is non-nil.
type ConstDecl struct {
	Name   string
	Scalar *big.Int
	Vector []*big.Int
	Matrix [][]*big.Int
}

// PublicInputDecl is a named, fixed-length public input array.
type PublicInputDecl struct {
	Name   string
	Length uint
}

// PeriodicColumnDecl is a named periodic pattern, in declaration order;
// its ordinal is its position in IR.PeriodicColumns.
type PeriodicColumnDecl struct {
	Name    string
	Pattern []*big.Int
}

// ConstraintRoot is one validated, degree-annotated constraint: a single
// node of the graph, the domain of rows it applies to, its degree, and
// its source span.  Its segment is given by which of IR.MainRoots and
// IR.AuxRoots holds it.
type ConstraintRoot struct {
	Node   graph.Index
	Domain Domain
	Degree uint64
	Span   sexp.Span
}

// IR is the compiled output of a single module.  It owns the arithmetic
// graph and both per-segment constraint-root lists; nothing in it
// references source-text memory beyond spans kept for diagnostics.
type IR struct {
	Name            string
	MainWidth       uint
	AuxWidth        uint
	Constants       []ConstDecl
	PublicInputs    []PublicInputDecl
	PeriodicColumns []PeriodicColumnDecl
	Graph           *graph.Store
	MainRoots       []ConstraintRoot
	AuxRoots        []ConstraintRoot
	// ReferencedMainColumns and ReferencedAuxColumns list, in ascending
	// order, the absolute column indices any constraint root actually
	// touches in each segment. A column declared but absent from both
	// lists is unconstrained.
	ReferencedMainColumns []uint
	ReferencedAuxColumns  []uint
}

// Lisp converts the whole module into its lisp representation: a module
// header followed by every constraint root, main segment first.
func (m *IR) Lisp() sexp.SExp {
	list := sexp.EmptyList()
	list.Append(sexp.NewSymbol("module"))
	list.Append(sexp.NewSymbol(m.Name))
	list.Append(sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("widths"),
		sexp.NewSymbol(fmt.Sprintf("%d", m.MainWidth)),
		sexp.NewSymbol(fmt.Sprintf("%d", m.AuxWidth)),
	}))

	for _, r := range m.MainRoots {
		list.Append(rootLisp(m.Graph, "main", r))
	}

	for _, r := range m.AuxRoots {
		list.Append(rootLisp(m.Graph, "aux", r))
	}

	return list
}

func rootLisp(store *graph.Store, segment string, r ConstraintRoot) sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("root"), sexp.NewSymbol(segment), sexp.NewSymbol(r.Domain.String()),
		sexp.NewSymbol(fmt.Sprintf("degree=%d", r.Degree)), store.Lisp(r.Node),
	})
}
