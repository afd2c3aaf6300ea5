// Package ast defines the input contract between the AirScript core
// (pkg/lower, pkg/symtab, pkg/graph) and its surface-syntax front end.
// Lexing and grammar-driven parsing of ".air" source text are external
// collaborators (see spec §1): this package only fixes the shape of the
// tree such a parser is expected to hand to the core.  Nothing in this
// package looks inside a Span except to report it in a diagnostic.
package ast

import "github.com/airscript-lang/airscript/pkg/sexp"

// Node provides common functionality across all elements of the AST: every
// node carries the byte-offset span of the source text it was parsed from,
// and can be rendered in Lisp form for debugging.
type Node interface {
	// Span returns the source span covered by this node.
	Span() sexp.Span
	// Lisp converts this node into its lisp representation, for debugging.
	Lisp() sexp.SExp
}

// BaseNode is embedded by every concrete AST node to supply Span().
type BaseNode struct {
	Span_ sexp.Span
}

// Span returns the source span covered by this node.
func (n BaseNode) Span() sexp.Span {
	return n.Span_
}
