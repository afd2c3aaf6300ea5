package graph

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstInterningIsUnique(t *testing.T) {
	s := NewStore()

	a := s.Const(big.NewInt(7))
	b := s.Const(big.NewInt(7))
	c := s.Const(big.NewInt(8))

	assert.Equal(t, a, b, "two constants with equal value must share one index")
	assert.NotEqual(t, a, c)
	assert.EqualValues(t, 2, s.Len())
}

func TestBinaryNodeInterningIsStructural(t *testing.T) {
	s := NewStore()

	x := s.TraceAccessNode(Main, 0, 0)
	y := s.TraceAccessNode(Main, 1, 0)

	sum1, err := s.BinaryNode(Add, x, y)
	assert.NoError(t, err)

	sum2, err := s.BinaryNode(Add, x, y)
	assert.NoError(t, err)

	assert.Equal(t, sum1, sum2, "two structurally equal Add nodes must share one index")

	// Addition is not commutative in the interner's key: operand order is
	// part of a node's structural identity.
	swapped, err := s.BinaryNode(Add, y, x)
	assert.NoError(t, err)
	assert.NotEqual(t, sum1, swapped)
}

func TestBinaryNodeFoldsConstants(t *testing.T) {
	s := NewStore()

	before := s.Len()

	a := s.Const(big.NewInt(3))
	b := s.Const(big.NewInt(4))
	sum, err := s.BinaryNode(Add, a, b)

	assert.NoError(t, err)
	assert.EqualValues(t, before+3, s.Len(), "folding must not create a non-constant Add node")

	node := s.Get(sum)
	assert.Equal(t, Const, node.Kind)
	assert.Equal(t, big.NewInt(7), node.Literal)
}

func TestExpNodeFoldsConstantBase(t *testing.T) {
	s := NewStore()

	base := s.Const(big.NewInt(2))
	idx, err := s.ExpNode(base, 10)

	assert.NoError(t, err)

	node := s.Get(idx)
	assert.Equal(t, Const, node.Kind)
	assert.Equal(t, big.NewInt(1024), node.Literal)
}

func TestExpNodeOverNonConstantIsNotFolded(t *testing.T) {
	s := NewStore()

	x := s.TraceAccessNode(Main, 0, 0)
	idx, err := s.ExpNode(x, 3)

	assert.NoError(t, err)

	node := s.Get(idx)
	assert.Equal(t, Exp, node.Kind)
	assert.Equal(t, x, node.Left)
	assert.EqualValues(t, 3, node.Exponent)
}

func TestDistinctTraceAccessesAreDistinctNodes(t *testing.T) {
	s := NewStore()

	main0 := s.TraceAccessNode(Main, 0, 0)
	main0Next := s.TraceAccessNode(Main, 0, 1)
	aux0 := s.TraceAccessNode(Aux, 0, 0)

	assert.NotEqual(t, main0, main0Next)
	assert.NotEqual(t, main0, aux0)
	assert.Equal(t, main0, s.TraceAccessNode(Main, 0, 0))
}
