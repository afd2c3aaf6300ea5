package lower

import (
	"math/bits"

	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

// degree computes the polynomial degree of the node at idx in the trace
// variables, bottom-up per §4.4's table, memoized by node index. Overflow
// in the underlying uint64 arithmetic is a fatal error (§4.4): it aborts
// the whole diagnostic batch, since a corrupted degree cannot be trusted
// downstream.
func (l *lowerer) degree(idx graph.Index, span sexp.Span) (uint64, bool) {
	if d, ok := l.degrees[idx]; ok {
		return d, true
	}

	n := l.store.Get(idx)

	var (
		d  uint64
		ok = true
	)

	switch n.Kind {
	case graph.Const, graph.PublicRef, graph.RandomRef, graph.PeriodicRef:
		d = 0
	case graph.TraceAccess:
		d = 1
	case graph.Add, graph.Sub:
		dl, lok := l.degree(n.Left, span)
		dr, rok := l.degree(n.Right, span)
		ok = lok && rok
		d = max(dl, dr)
	case graph.Mul:
		dl, lok := l.degree(n.Left, span)
		dr, rok := l.degree(n.Right, span)

		if !lok || !rok {
			return 0, false
		}

		sum, carry := bits.Add64(dl, dr, 0)
		if carry != 0 {
			l.reporter.Fatal(diag.New(diag.DegreeOverflow, span, "degree overflow computing Mul"))
			return 0, false
		}

		d = sum
	case graph.Exp:
		dbase, bok := l.degree(n.Left, span)
		if !bok {
			return 0, false
		}

		hi, lo := bits.Mul64(dbase, n.Exponent)
		if hi != 0 {
			l.reporter.Fatal(diag.New(diag.DegreeOverflow, span, "degree overflow computing Exp"))
			return 0, false
		}

		d = lo
	}

	if ok {
		l.degrees[idx] = d
	}

	return d, ok
}
