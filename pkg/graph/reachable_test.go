package graph

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyReachableFindsDeeplyNestedMatch(t *testing.T) {
	s := NewStore()

	trace := s.TraceAccessNode(Main, 0, 0)
	one := s.Const(big.NewInt(1))

	sum, err := s.BinaryNode(Add, trace, one)
	assert.NoError(t, err)

	product, err := s.BinaryNode(Mul, sum, sum)
	assert.NoError(t, err)

	found := s.AnyReachable(product, func(n Node) bool { return n.Kind == TraceAccess })
	assert.True(t, found)

	notFound := s.AnyReachable(product, func(n Node) bool { return n.Kind == RandomRef })
	assert.False(t, notFound)
}

func TestAnyReachableOverConstantIsFalseForNonMatchingPredicate(t *testing.T) {
	s := NewStore()

	c := s.Const(big.NewInt(42))

	assert.False(t, s.AnyReachable(c, func(n Node) bool { return n.Kind == TraceAccess }))
	assert.True(t, s.AnyReachable(c, func(n Node) bool { return n.Kind == Const }))
}

func TestAnyReachableDetectsNextRowAccess(t *testing.T) {
	s := NewStore()

	here := s.TraceAccessNode(Main, 0, 0)
	next := s.TraceAccessNode(Main, 0, 1)

	diff, err := s.BinaryNode(Sub, next, here)
	assert.NoError(t, err)

	assert.True(t, s.AnyReachable(diff, func(n Node) bool { return n.Kind == TraceAccess && n.Row == 1 }))
	assert.False(t, s.AnyReachable(here, func(n Node) bool { return n.Kind == TraceAccess && n.Row == 1 }))
}

func TestVisitReachableVisitsEveryNodeExactlyOnce(t *testing.T) {
	s := NewStore()

	col := s.TraceAccessNode(Main, 3, 0)

	sum, err := s.BinaryNode(Add, col, col)
	assert.NoError(t, err)

	visits := 0
	var columns []uint

	s.VisitReachable(sum, func(n Node) {
		visits++

		if n.Kind == TraceAccess {
			columns = append(columns, n.Column)
		}
	})

	assert.Equal(t, 2, visits, "the shared operand must be visited once, not twice")
	assert.Equal(t, []uint{3}, columns)
}
