package lower

import (
	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/graph"
	"github.com/airscript-lang/airscript/pkg/symtab"
)

// pushValueScope/popValueScope/bindValue/lookupValue manage a second,
// lowering-private stack of name bindings, parallel to the symbol
// table's scope stack, for names bound directly to an already-lowered
// value rather than to an AST expression: comprehension iterators and
// evaluator parameters. Unlike symtab's scopes these are not copy-on-push,
// since they are always balanced with a single matching pop and never
// queried across an EnterScope/LeaveScope boundary of their own.
func (l *lowerer) pushValueScope() {
	l.valueScopes = append(l.valueScopes, map[string]value{})
}

func (l *lowerer) popValueScope() {
	l.valueScopes = l.valueScopes[:len(l.valueScopes)-1]
}

func (l *lowerer) bindValue(name string, v value) {
	l.valueScopes[len(l.valueScopes)-1][name] = v
}

func (l *lowerer) lookupValue(name string) (value, bool) {
	for i := len(l.valueScopes) - 1; i >= 0; i-- {
		if v, ok := l.valueScopes[i][name]; ok {
			return v, true
		}
	}

	return value{}, false
}

func (l *lowerer) lowerComprehension(n *ast.Comprehension) (value, bool) {
	sources := make([][]graph.Index, len(n.Iterators))
	length := -1

	for i, it := range n.Iterators {
		v, ok := l.lowerExpr(it.Source)
		if !ok {
			return value{}, false
		}

		vec, ok := l.asVector(v, it.Source.Span())
		if !ok {
			return value{}, false
		}

		sources[i] = vec

		if length == -1 {
			length = len(vec)
		} else if length != len(vec) {
			l.reporter.Report(diag.New(diag.ShapeMismatch, n.Span(),
				"comprehension iterators zip lengths %d and %d", length, len(vec)))

			return value{}, false
		}
	}

	result := make([]graph.Index, length)

	for pos := 0; pos < length; pos++ {
		l.pushValueScope()

		for i, it := range n.Iterators {
			l.bindValue(it.Name, scalarValue(sources[i][pos]))
		}

		v, ok := l.lowerExpr(n.Body)
		l.popValueScope()

		if !ok {
			return value{}, false
		}

		scalar, ok := l.asScalar(v, n.Body.Span())
		if !ok {
			return value{}, false
		}

		result[pos] = scalar
	}

	return vectorValue(result), true
}

func (l *lowerer) lowerFold(n *ast.Fold) (value, bool) {
	v, ok := l.lowerExpr(n.Source)
	if !ok {
		return value{}, false
	}

	vec, ok := l.asVector(v, n.Source.Span())
	if !ok {
		return value{}, false
	}

	if len(vec) == 0 {
		l.reporter.Report(diag.New(diag.EmptyFold, n.Span(), "list folding value cannot be an empty list"))
		return value{}, false
	}

	kind := graph.Add
	if n.Kind == ast.FoldProd {
		kind = graph.Mul
	}

	acc := vec[0]

	for _, idx := range vec[1:] {
		next, err := l.store.BinaryNode(kind, acc, idx)
		if err != nil {
			l.reporter.Fatal(diag.New(diag.OverflowError, n.Span(), err.Error()))
			return value{}, false
		}

		acc = next
	}

	return scalarValue(acc), true
}

func (l *lowerer) lowerEvaluatorCall(n *ast.EvaluatorCall) (value, bool) {
	decl, ok := l.evaluators[n.Name]
	if !ok {
		l.reporter.Report(diag.New(diag.UndeclaredIdentifier, n.Span(), "undeclared evaluator %q", n.Name))
		return value{}, false
	}

	for _, name := range l.callStack {
		if name == n.Name {
			l.reporter.Report(diag.New(diag.UnsupportedFeature, n.Span(),
				"recursive evaluator call to %q is not supported", n.Name))

			return value{}, false
		}
	}

	if len(n.Args) != len(decl.Params) {
		l.reporter.Report(diag.New(diag.ShapeMismatch, n.Span(),
			"evaluator %q expects %d arguments, got %d", n.Name, len(decl.Params), len(n.Args)))

		return value{}, false
	}

	argValues := make([]value, len(n.Args))

	for i, a := range n.Args {
		v, ok := l.lowerExpr(a)
		if !ok {
			return value{}, false
		}

		argValues[i] = v
	}

	l.callStack = append(l.callStack, n.Name)
	defer func() { l.callStack = l.callStack[:len(l.callStack)-1] }()

	l.pushValueScope()
	defer l.popValueScope()

	for i, p := range decl.Params {
		l.bindValue(p, argValues[i])
	}

	l.table.EnterScope()
	defer l.table.LeaveScope()

	for _, let := range decl.Lets {
		l.table.DeclareLocal(let.Name, let.Span(), symtab.LocalBinding{Value: let.Value}, l.reporter)
	}

	return l.lowerExpr(decl.Result)
}
