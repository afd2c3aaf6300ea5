package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/airscript-lang/airscript/pkg/ast"
)

type wireExprHeader struct {
	Kind string `json:"kind"`
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("expression: missing")
	}

	var h wireExprHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("expression: %w", err)
	}

	switch h.Kind {
	case "int_literal":
		var w struct {
			Span  wireSpan `json:"span"`
			Value string   `json:"value"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("int_literal: %w", err)
		}

		v, err := parseBigInt(w.Value)
		if err != nil {
			return nil, err
		}

		return &ast.IntLiteral{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Value: v}, nil

	case "ident":
		var w struct {
			Span wireSpan `json:"span"`
			Name string   `json:"name"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("ident: %w", err)
		}

		return &ast.Ident{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name}, nil

	case "next":
		var w struct {
			Span  wireSpan        `json:"span"`
			Inner json.RawMessage `json:"inner"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("next: %w", err)
		}

		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.Next{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Inner: inner}, nil

	case "boundary":
		var w struct {
			Span  wireSpan        `json:"span"`
			Which string          `json:"which"`
			Inner json.RawMessage `json:"inner"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("boundary: %w", err)
		}

		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		kind := ast.FirstRow
		if w.Which == "last" {
			kind = ast.LastRow
		}

		return &ast.Boundary{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Kind: kind, Inner: inner}, nil

	case "index":
		var w struct {
			Span  wireSpan        `json:"span"`
			Base  json.RawMessage `json:"base"`
			Index uint            `json:"index"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}

		base, err := decodeExpr(w.Base)
		if err != nil {
			return nil, err
		}

		return &ast.IndexAccess{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Base: base, Index: w.Index}, nil

	case "slice":
		var w struct {
			Span wireSpan        `json:"span"`
			Base json.RawMessage `json:"base"`
			Low  uint            `json:"low"`
			High uint            `json:"high"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("slice: %w", err)
		}

		base, err := decodeExpr(w.Base)
		if err != nil {
			return nil, err
		}

		return &ast.SliceAccess{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Base: base, Low: w.Low, High: w.High}, nil

	case "segment":
		var w struct {
			Span    wireSpan `json:"span"`
			Segment string   `json:"segment"`
			Name    string   `json:"name"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}

		seg := ast.MainSegment
		if w.Segment == "aux" {
			seg = ast.AuxSegment
		}

		return &ast.SegmentAccess{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Segment: seg, Name: w.Name}, nil

	case "rand":
		var w struct {
			Span  wireSpan `json:"span"`
			Index uint     `json:"index"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("rand: %w", err)
		}

		return &ast.RandomAccess{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Index: w.Index}, nil

	case "neg":
		var w struct {
			Span  wireSpan        `json:"span"`
			Inner json.RawMessage `json:"inner"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("neg: %w", err)
		}

		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.UnaryMinus{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Inner: inner}, nil

	case "binary":
		var w struct {
			Span  wireSpan        `json:"span"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("binary: %w", err)
		}

		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}

		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}

		kind := ast.Add

		switch w.Op {
		case "-":
			kind = ast.Sub
		case "*":
			kind = ast.Mul
		}

		return &ast.BinaryOp{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Kind: kind, Left: left, Right: right}, nil

	case "pow":
		var w struct {
			Span     wireSpan        `json:"span"`
			Base     json.RawMessage `json:"base"`
			Exponent json.RawMessage `json:"exponent"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("pow: %w", err)
		}

		base, err := decodeExpr(w.Base)
		if err != nil {
			return nil, err
		}

		exponent, err := decodeExpr(w.Exponent)
		if err != nil {
			return nil, err
		}

		return &ast.Power{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Base: base, Exponent: exponent}, nil

	case "paren":
		var w struct {
			Span  wireSpan        `json:"span"`
			Inner json.RawMessage `json:"inner"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("paren: %w", err)
		}

		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.Paren{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Inner: inner}, nil

	case "vector":
		return decodeVector(raw)

	case "matrix":
		var w struct {
			Span wireSpan          `json:"span"`
			Rows []json.RawMessage `json:"rows"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("matrix: %w", err)
		}

		m := &ast.MatrixLiteral{BaseNode: ast.BaseNode{Span_: w.Span.span()}}

		for _, rawRow := range w.Rows {
			row, err := decodeVector(rawRow)
			if err != nil {
				return nil, err
			}

			m.Rows = append(m.Rows, row)
		}

		return m, nil

	case "comprehension":
		var w struct {
			Span      wireSpan        `json:"span"`
			Body      json.RawMessage `json:"body"`
			Iterators []struct {
				Span   wireSpan        `json:"span"`
				Name   string          `json:"name"`
				Source json.RawMessage `json:"source"`
			} `json:"iterators"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("comprehension: %w", err)
		}

		body, err := decodeExpr(w.Body)
		if err != nil {
			return nil, err
		}

		c := &ast.Comprehension{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Body: body}

		for _, it := range w.Iterators {
			source, err := decodeExpr(it.Source)
			if err != nil {
				return nil, err
			}

			c.Iterators = append(c.Iterators, &ast.ComprehensionIterator{
				BaseNode: ast.BaseNode{Span_: it.Span.span()}, Name: it.Name, Source: source,
			})
		}

		return c, nil

	case "fold":
		var w struct {
			Span   wireSpan        `json:"span"`
			Op     string          `json:"op"`
			Source json.RawMessage `json:"source"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("fold: %w", err)
		}

		source, err := decodeExpr(w.Source)
		if err != nil {
			return nil, err
		}

		kind := ast.FoldSum
		if w.Op == "prod" {
			kind = ast.FoldProd
		}

		return &ast.Fold{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Kind: kind, Source: source}, nil

	case "call":
		var w struct {
			Span wireSpan          `json:"span"`
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("call: %w", err)
		}

		call := &ast.EvaluatorCall{BaseNode: ast.BaseNode{Span_: w.Span.span()}, Name: w.Name}

		for _, rawArg := range w.Args {
			arg, err := decodeExpr(rawArg)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)
		}

		return call, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", h.Kind)
	}
}

func decodeVector(raw json.RawMessage) (*ast.VectorLiteral, error) {
	var w struct {
		Span     wireSpan          `json:"span"`
		Elements []json.RawMessage `json:"elements"`
	}

	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}

	v := &ast.VectorLiteral{BaseNode: ast.BaseNode{Span_: w.Span.span()}}

	for _, rawElem := range w.Elements {
		elem, err := decodeExpr(rawElem)
		if err != nil {
			return nil, err
		}

		v.Elements = append(v.Elements, elem)
	}

	return v, nil
}
