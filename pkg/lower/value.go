// Package lower implements the expression compiler, the semantic
// analyzer and the degree engine: it translates a pkg/ast.Module into a
// pkg/ir.IR, reporting through a pkg/diag.Reporter.
package lower

import "github.com/airscript-lang/airscript/pkg/graph"

// shape classifies the rank of a lowered value.  Only Scalar survives
// into the graph as a single node; Vector and Matrix exist only inside
// the expression compiler, as shaped collections of node indices (§9).
type shape uint8

const (
	scalarShape shape = iota
	vectorShape
	matrixShape
)

// value is the result of lowering one AST expression: either a single
// graph node (scalar), a vector of nodes, or a matrix of nodes.
type value struct {
	shape  shape
	node   graph.Index
	vector []graph.Index
	matrix [][]graph.Index
}

func scalarValue(n graph.Index) value {
	return value{shape: scalarShape, node: n}
}

func vectorValue(ns []graph.Index) value {
	return value{shape: vectorShape, vector: ns}
}

func matrixValue(ns [][]graph.Index) value {
	return value{shape: matrixShape, matrix: ns}
}
