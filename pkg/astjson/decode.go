// Package astjson decodes the interim JSON envelope accepted by the
// "airscript transpile" command into a pkg/ast.Module.  A real AirScript
// grammar and lexer are an external collaborator (spec §1); this package
// exists only so the CLI and the core can be exercised end to end without
// one. It is not part of the contract a future grammar-driven parser has to
// satisfy.
//
// The envelope carries both the AST and the original source text its spans
// index into, so that pkg/diag can render a caret under the offending
// source the same way it would for a real parser's output:
//
//	{"source": "...", "module": {"kind": "module", ...}}
package astjson

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

type envelope struct {
	Source string          `json:"source"`
	Module json.RawMessage `json:"module"`
}

// Decode parses bytes as an envelope and builds the module it describes,
// returning the source text the module's spans index into alongside it.
func Decode(bytes []byte) (*ast.Module, string, error) {
	var env envelope
	if err := json.Unmarshal(bytes, &env); err != nil {
		return nil, "", fmt.Errorf("malformed envelope: %w", err)
	}

	module, err := decodeModule(env.Module)
	if err != nil {
		return nil, "", err
	}

	return module, env.Source, nil
}

type wireSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (w wireSpan) span() sexp.Span {
	return sexp.NewSpan(w.Start, w.End)
}

func parseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer literal %q", s)
	}

	return v, nil
}

func parseBigInts(ss []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(ss))

	for i, s := range ss {
		v, err := parseBigInt(s)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

type wireModule struct {
	Span                 wireSpan          `json:"span"`
	Name                 string            `json:"name"`
	Constants            []wireConst       `json:"constants"`
	MainTrace            []wireTrace       `json:"main_trace"`
	AuxTrace             []wireTrace       `json:"aux_trace"`
	PublicInputs         []wirePublic      `json:"public_inputs"`
	PeriodicColumns      []wirePeriodic    `json:"periodic_columns"`
	RandomValues         *wireRandomValues `json:"random_values"`
	Evaluators           []wireEvaluator   `json:"evaluators"`
	BoundaryConstraints  []json.RawMessage `json:"boundary_constraints"`
	IntegrityConstraints []json.RawMessage `json:"integrity_constraints"`
}

func decodeModule(raw json.RawMessage) (*ast.Module, error) {
	var w wireModule
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("module: %w", err)
	}

	m := &ast.Module{
		BaseNode: ast.BaseNode{Span_: w.Span.span()},
		Name:     w.Name,
	}

	for _, c := range w.Constants {
		d, err := decodeConst(c)
		if err != nil {
			return nil, err
		}

		m.Constants = append(m.Constants, d)
	}

	for _, t := range w.MainTrace {
		m.MainTrace = append(m.MainTrace, decodeTrace(t))
	}

	for _, t := range w.AuxTrace {
		m.AuxTrace = append(m.AuxTrace, decodeTrace(t))
	}

	for _, p := range w.PublicInputs {
		m.PublicInputs = append(m.PublicInputs, decodePublic(p))
	}

	for _, p := range w.PeriodicColumns {
		d, err := decodePeriodic(p)
		if err != nil {
			return nil, err
		}

		m.PeriodicColumns = append(m.PeriodicColumns, d)
	}

	if w.RandomValues != nil {
		m.RandomValues = decodeRandomValues(*w.RandomValues)
	}

	for _, e := range w.Evaluators {
		d, err := decodeEvaluator(e)
		if err != nil {
			return nil, err
		}

		m.Evaluators = append(m.Evaluators, d)
	}

	for _, raw := range w.BoundaryConstraints {
		s, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}

		m.BoundaryConstraints = append(m.BoundaryConstraints, s)
	}

	for _, raw := range w.IntegrityConstraints {
		s, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}

		m.IntegrityConstraints = append(m.IntegrityConstraints, s)
	}

	return m, nil
}

type wireConst struct {
	Span   wireSpan   `json:"span"`
	Name   string     `json:"name"`
	Scalar *string    `json:"scalar"`
	Vector []string   `json:"vector"`
	Matrix [][]string `json:"matrix"`
}

func decodeConst(w wireConst) (*ast.ConstDecl, error) {
	d := &ast.ConstDecl{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name}

	switch {
	case w.Scalar != nil:
		v, err := parseBigInt(*w.Scalar)
		if err != nil {
			return nil, err
		}

		d.Scalar = v
	case w.Vector != nil:
		v, err := parseBigInts(w.Vector)
		if err != nil {
			return nil, err
		}

		d.Vector = v
	default:
		rows := make([][]*big.Int, len(w.Matrix))

		for i, row := range w.Matrix {
			v, err := parseBigInts(row)
			if err != nil {
				return nil, err
			}

			rows[i] = v
		}

		d.Matrix = rows
	}

	return d, nil
}

type wireTrace struct {
	Span  wireSpan `json:"span"`
	Name  string   `json:"name"`
	Width uint     `json:"width"`
}

func decodeTrace(w wireTrace) *ast.TraceBindingDecl {
	return &ast.TraceBindingDecl{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name, Width: w.Width}
}

type wirePublic struct {
	Span   wireSpan `json:"span"`
	Name   string   `json:"name"`
	Length uint     `json:"length"`
}

func decodePublic(w wirePublic) *ast.PublicInputDecl {
	return &ast.PublicInputDecl{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name, Length: w.Length}
}

type wirePeriodic struct {
	Span    wireSpan `json:"span"`
	Name    string   `json:"name"`
	Pattern []string `json:"pattern"`
}

func decodePeriodic(w wirePeriodic) (*ast.PeriodicColumnDecl, error) {
	pattern, err := parseBigInts(w.Pattern)
	if err != nil {
		return nil, err
	}

	return &ast.PeriodicColumnDecl{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name, Pattern: pattern}, nil
}

type wireRandomSub struct {
	Span  wireSpan `json:"span"`
	Name  string   `json:"name"`
	Width uint     `json:"width"`
}

type wireRandomValues struct {
	Span     wireSpan        `json:"span"`
	Name     string          `json:"name"`
	Length   uint            `json:"length"`
	Bindings []wireRandomSub `json:"bindings"`
}

func decodeRandomValues(w wireRandomValues) *ast.RandomValuesDecl {
	d := &ast.RandomValuesDecl{
		BaseNode: ast.BaseNode{Span_: w.Span.span()},
		Name:     w.Name,
		Length:   w.Length,
	}

	for _, b := range w.Bindings {
		d.Bindings = append(d.Bindings, &ast.RandomSubBinding{
			BaseNode: ast.BaseNode{Span_: b.Span.span()}, Name: b.Name, Width: b.Width,
		})
	}

	return d
}

type wireEvaluator struct {
	Span   wireSpan        `json:"span"`
	Name   string          `json:"name"`
	Params []string        `json:"params"`
	Lets   []wireLet       `json:"lets"`
	Result json.RawMessage `json:"result"`
}

func decodeEvaluator(w wireEvaluator) (*ast.EvaluatorDecl, error) {
	d := &ast.EvaluatorDecl{
		BaseNode: ast.BaseNode{Span_: w.Span.span()},
		Name:     w.Name,
		Params:   w.Params,
	}

	for _, l := range w.Lets {
		let, err := decodeLet(l)
		if err != nil {
			return nil, err
		}

		d.Lets = append(d.Lets, let)
	}

	result, err := decodeExpr(w.Result)
	if err != nil {
		return nil, err
	}

	d.Result = result

	return d, nil
}

type wireLet struct {
	Span  wireSpan        `json:"span"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeLet(w wireLet) (*ast.LetStatement, error) {
	v, err := decodeExpr(w.Value)
	if err != nil {
		return nil, err
	}

	return &ast.LetStatement{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name, Value: v}, nil
}

type wireStatementHeader struct {
	Kind string `json:"kind"`
}

func decodeStatement(raw json.RawMessage) (ast.Statement, error) {
	var h wireStatementHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("statement: %w", err)
	}

	switch h.Kind {
	case "let":
		var w wireLet
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("let statement: %w", err)
		}

		return decodeLet(w)
	case "constraint":
		var w wireConstraint
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("constraint statement: %w", err)
		}

		return decodeConstraint(w)
	default:
		return nil, fmt.Errorf("unknown statement kind %q", h.Kind)
	}
}

type wireConstraint struct {
	Span  wireSpan        `json:"span"`
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`
	When  json.RawMessage `json:"when"`
}

func decodeConstraint(w wireConstraint) (*ast.ConstraintStatement, error) {
	left, err := decodeExpr(w.Left)
	if err != nil {
		return nil, err
	}

	right, err := decodeExpr(w.Right)
	if err != nil {
		return nil, err
	}

	s := &ast.ConstraintStatement{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Left: left, Right: right}

	if len(w.When) > 0 && string(w.When) != "null" {
		when, err := decodeExpr(w.When)
		if err != nil {
			return nil, err
		}

		s.When = when
	}

	return s, nil
}
