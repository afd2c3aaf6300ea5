package graph

import "github.com/bits-and-blooms/bitset"

// AnyReachable reports whether any node reachable from root (root
// included) satisfies pred.  Used by the semantic analyzer for
// segment classification and domain inference (§4.4/§8 properties 3-4),
// where "reachable" means "appears anywhere in the sub-graph rooted at
// this constraint".
func (s *Store) AnyReachable(root Index, pred func(Node) bool) bool {
	visited := bitset.New(uint(len(s.nodes)))
	stack := []Index{root}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Test(uint(idx)) {
			continue
		}

		visited.Set(uint(idx))
		n := s.nodes[idx]

		if pred(n) {
			return true
		}

		switch n.Kind {
		case Add, Sub, Mul:
			stack = append(stack, n.Left, n.Right)
		case Exp:
			stack = append(stack, n.Left)
		}
	}

	return false
}

// VisitReachable calls visit once for every node reachable from root (root
// included), each exactly once regardless of how many operands share it.
// Used to collect summary information about a constraint root's sub-graph,
// such as which trace columns it touches.
func (s *Store) VisitReachable(root Index, visit func(Node)) {
	visited := bitset.New(uint(len(s.nodes)))
	stack := []Index{root}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Test(uint(idx)) {
			continue
		}

		visited.Set(uint(idx))
		n := s.nodes[idx]
		visit(n)

		switch n.Kind {
		case Add, Sub, Mul:
			stack = append(stack, n.Left, n.Right)
		case Exp:
			stack = append(stack, n.Left)
		}
	}
}
