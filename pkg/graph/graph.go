// Package graph implements the hash-consed arithmetic constraint graph:
// the arena of nodes described by the data model's nine node kinds, and
// the interner that guarantees structurally-equal nodes share one index.
package graph

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/airscript-lang/airscript/pkg/sexp"
	"github.com/airscript-lang/airscript/pkg/util/collection/hash"
)

// Index addresses a single node in a Store.  Indices are dense, starting
// at zero, and are assigned in interning order.
type Index uint32

// Segment identifies which trace segment a TraceAccess belongs to, for
// segment-classification purposes.
type Segment uint8

const (
	// Main identifies the always-present main trace segment.
	Main Segment = iota
	// Aux identifies the auxiliary trace segment.
	Aux
)

//nolint:revive
func (s Segment) String() string {
	if s == Aux {
		return "aux"
	}

	return "main"
}

// Kind identifies which of the nine arithmetic node kinds a Node is.
type Kind uint8

const (
	// Const is a literal integer value.
	Const Kind = iota
	// TraceAccess is the value of a trace cell relative to the current
	// row.
	TraceAccess
	// PeriodicRef is the value of a periodic column's pattern at the
	// current row.
	PeriodicRef
	// PublicRef is an element of a declared public input array.
	PublicRef
	// RandomRef is a verifier-supplied challenge.
	RandomRef
	// Add is field addition.
	Add
	// Sub is field subtraction.
	Sub
	// Mul is field multiplication.
	Mul
	// Exp is repeated multiplication by a constant, non-negative integer
	// exponent.
	Exp
)

var kindNames = [...]string{
	Const: "const", TraceAccess: "trace", PeriodicRef: "periodic", PublicRef: "public",
	RandomRef: "rand", Add: "+", Sub: "-", Mul: "*", Exp: "^",
}

//nolint:revive
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "?"
}

// Node is a single entry in the arena.  Which fields are meaningful
// depends on Kind:
//
//   - Const: Literal.
//   - TraceAccess: Seg, Column, Row (0 = current row, 1 = next row).
//   - PeriodicRef: Ordinal.
//   - PublicRef: Ordinal, Element.
//   - RandomRef: Ordinal.
//   - Add, Sub, Mul: Left, Right.
//   - Exp: Left (base), Exponent.
type Node struct {
	Kind     Kind
	Literal  *big.Int
	Seg      Segment
	Column   uint
	Row      uint8
	Ordinal  uint
	Element  uint
	Left     Index
	Right    Index
	Exponent uint64
}

// Store owns every arithmetic node created during a single compilation.
// It is append-only: nodes are never removed or mutated once interned.
type Store struct {
	nodes  []Node
	lookup *hash.Map[nodeKey, Index]
}

// NewStore returns an empty node store.
func NewStore() *Store {
	return &Store{lookup: hash.NewMap[nodeKey, Index](1024)}
}

// Len returns the number of distinct nodes interned so far.
func (s *Store) Len() uint {
	return uint(len(s.nodes))
}

// Get returns the node at index idx.
func (s *Store) Get(idx Index) Node {
	return s.nodes[idx]
}

// Const interns a literal integer constant.
func (s *Store) Const(value *big.Int) Index {
	return s.intern(Node{Kind: Const, Literal: value})
}

// TraceAccessNode interns a trace-cell access at the given segment, column
// and row offset.
func (s *Store) TraceAccessNode(seg Segment, column uint, row uint8) Index {
	return s.intern(Node{Kind: TraceAccess, Seg: seg, Column: column, Row: row})
}

// PeriodicRefNode interns a reference to a periodic column's value at the
// current row.
func (s *Store) PeriodicRefNode(ordinal uint) Index {
	return s.intern(Node{Kind: PeriodicRef, Ordinal: ordinal})
}

// PublicRefNode interns a reference to a single element of a public input
// array.
func (s *Store) PublicRefNode(ordinal, element uint) Index {
	return s.intern(Node{Kind: PublicRef, Ordinal: ordinal, Element: element})
}

// RandomRefNode interns a reference to a single element of the
// random-values array, addressed by its absolute index.
func (s *Store) RandomRefNode(ordinal uint) Index {
	return s.intern(Node{Kind: RandomRef, Ordinal: ordinal})
}

// BinaryNode interns an Add, Sub or Mul node over two existing operand
// indices, folding the result immediately if both operands are constants.
func (s *Store) BinaryNode(kind Kind, left, right Index) (Index, error) {
	if lv, ok := s.constOf(left); ok {
		if rv, ok := s.constOf(right); ok {
			folded, err := foldBinary(kind, lv, rv)
			if err != nil {
				return 0, err
			}

			return s.Const(folded), nil
		}
	}

	return s.intern(Node{Kind: kind, Left: left, Right: right}), nil
}

// ExpNode interns an Exp node raising the node at base to a non-negative
// integer exponent, folding immediately if base is a constant.
func (s *Store) ExpNode(base Index, exponent uint64) (Index, error) {
	if bv, ok := s.constOf(base); ok {
		folded := new(big.Int).Exp(bv, new(big.Int).SetUint64(exponent), nil)
		return s.Const(folded), nil
	}

	return s.intern(Node{Kind: Exp, Left: base, Exponent: exponent}), nil
}

func (s *Store) constOf(idx Index) (*big.Int, bool) {
	n := s.nodes[idx]
	if n.Kind == Const {
		return n.Literal, true
	}

	return nil, false
}

func foldBinary(kind Kind, left, right *big.Int) (*big.Int, error) {
	result := new(big.Int)

	switch kind {
	case Add:
		result.Add(left, right)
	case Sub:
		result.Sub(left, right)
	case Mul:
		result.Mul(left, right)
	default:
		return nil, fmt.Errorf("cannot fold non-arithmetic kind %s", kind)
	}

	return result, nil
}

// CheckExponent reports whether exponent fits the platform's native uint.
// bits.UintSize distinguishes 32- and
// 64-bit platforms; on a 64-bit platform every uint64 value fits, so this
// only ever rejects on a 32-bit build.
func CheckExponent(exponent uint64) bool {
	if bits.UintSize >= 64 {
		return true
	}

	return exponent <= uint64(^uint(0))
}

func (s *Store) intern(n Node) Index {
	key := keyOf(n)

	if idx, ok := s.lookup.Get(key); ok {
		return idx
	}

	idx := Index(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.lookup.Insert(key, idx)

	return idx
}

// Lisp converts the node at idx into its lisp representation, recursing
// into operands.
func (s *Store) Lisp(idx Index) sexp.SExp {
	n := s.nodes[idx]

	switch n.Kind {
	case Const:
		return sexp.NewSymbol(n.Literal.String())
	case TraceAccess:
		return sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("trace"), sexp.NewSymbol(n.Seg.String()),
			sexp.NewSymbol(fmt.Sprintf("%d", n.Column)), sexp.NewSymbol(fmt.Sprintf("%d", n.Row)),
		})
	case PeriodicRef:
		return sexp.NewList([]sexp.SExp{sexp.NewSymbol("periodic"), sexp.NewSymbol(fmt.Sprintf("%d", n.Ordinal))})
	case PublicRef:
		return sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("public"), sexp.NewSymbol(fmt.Sprintf("%d", n.Ordinal)),
			sexp.NewSymbol(fmt.Sprintf("%d", n.Element)),
		})
	case RandomRef:
		return sexp.NewList([]sexp.SExp{sexp.NewSymbol("rand"), sexp.NewSymbol(fmt.Sprintf("%d", n.Ordinal))})
	case Exp:
		return sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("^"), s.Lisp(n.Left), sexp.NewSymbol(fmt.Sprintf("%d", n.Exponent)),
		})
	default:
		return sexp.NewList([]sexp.SExp{sexp.NewSymbol(n.Kind.String()), s.Lisp(n.Left), s.Lisp(n.Right)})
	}
}
