package ir

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

func TestDomainStringCoversEveryValue(t *testing.T) {
	assert.Equal(t, "first", FirstRow.String())
	assert.Equal(t, "last", LastRow.String())
	assert.Equal(t, "every-row", EveryRow.String())
	assert.Equal(t, "every-frame", EveryFrame.String())
}

func TestLispRendersWidthsAndRoots(t *testing.T) {
	store := graph.NewStore()
	a := store.TraceAccessNode(graph.Main, 0, 0)
	one := store.Const(big.NewInt(1))
	sum, err := store.BinaryNode(graph.Add, a, one)
	assert.NoError(t, err)

	m := &IR{
		Name:      "fib",
		MainWidth: 1,
		Graph:     store,
		MainRoots: []ConstraintRoot{
			{Node: sum, Domain: EveryRow, Degree: 1, Span: sexp.NewSpan(0, 1)},
		},
	}

	out := m.Lisp().String()
	assert.True(t, strings.Contains(out, "fib"))
	assert.True(t, strings.Contains(out, "every-row"))
	assert.True(t, strings.Contains(out, "degree=1"))
}

func TestLispOrdersMainRootsBeforeAuxRoots(t *testing.T) {
	store := graph.NewStore()
	mainNode := store.Const(big.NewInt(1))
	auxNode := store.Const(big.NewInt(2))

	m := &IR{
		Name:  "m",
		Graph: store,
		MainRoots: []ConstraintRoot{
			{Node: mainNode, Domain: EveryRow, Degree: 0},
		},
		AuxRoots: []ConstraintRoot{
			{Node: auxNode, Domain: EveryRow, Degree: 0},
		},
	}

	out := m.Lisp().String()
	assert.True(t, strings.Index(out, "main") < strings.Index(out, "aux"))
}
