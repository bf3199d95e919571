// Package query compiles path expressions and evaluates them against
// document roots. Two dialects live behind one surface: an XPath tree
// dialect for parsed HTML/XML documents and a JSONPath structured dialect
// for decoded JSON-like values. The dialect is inferred from the expression
// text once, at compile time.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/theory/jsonpath"
	"golang.org/x/net/html"
)

var (
	// ErrCompile indicates an expression that is invalid for its dialect.
	ErrCompile = errors.New("path compile error")
	// ErrRoot indicates a tree query over a root type the dialect cannot walk.
	ErrRoot = errors.New("unsupported document root")
)

// Dialect identifies which expression language a Path was compiled for.
type Dialect int

const (
	// Tree selects nodes from a parsed HTML or XML document via XPath.
	Tree Dialect = iota
	// Structured selects values from a decoded JSON-like structure via JSONPath.
	Structured
)

// DialectOf reports the dialect an expression text belongs to. Expressions
// starting with "/" or "./" are tree queries; everything else is structured.
func DialectOf(text string) Dialect {
	if strings.HasPrefix(text, "/") || strings.HasPrefix(text, "./") {
		return Tree
	}
	return Structured
}

// Path is an immutable compiled path expression. Compile once, evaluate
// against any number of documents.
type Path struct {
	raw        string
	dialect    Dialect
	tree       *xpath.Expr
	structured *jsonpath.Path
}

// Compile infers the dialect of text and compiles it. Syntactically invalid
// expressions fail with an error wrapping ErrCompile.
func Compile(text string) (*Path, error) {
	p := &Path{raw: text, dialect: DialectOf(text)}

	switch p.dialect {
	case Tree:
		expr, err := xpath.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrCompile, text, err)
		}
		p.tree = expr
	case Structured:
		expr, err := jsonpath.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrCompile, text, err)
		}
		p.structured = expr
	}

	return p, nil
}

// String returns the raw expression text.
func (p *Path) String() string { return p.raw }

// Dialect returns the dialect the expression was compiled for.
func (p *Path) Dialect() Dialect { return p.dialect }

// Query evaluates the path to a single value. The boolean reports presence:
// false means nothing matched and the caller should omit the value entirely.
// A present empty string, zero, or false is still reported as present.
//
// Tree dialect: a node-set result has the string values of its nodes
// concatenated with no separator; an empty node-set is absent; scalar XPath
// results (string, number, boolean) are returned as-is. Structured dialect:
// no match or a null match is absent; one match is returned verbatim;
// multiple matches are returned as a slice.
func (p *Path) Query(root any) (any, bool, error) {
	if p.dialect == Structured {
		results := p.structured.Select(root)
		switch len(results) {
		case 0:
			return nil, false, nil
		case 1:
			if results[0] == nil {
				return nil, false, nil
			}
			return results[0], true, nil
		default:
			out := make([]any, len(results))
			copy(out, results)
			return out, true, nil
		}
	}

	nav, err := navigator(root)
	if err != nil {
		return nil, false, err
	}

	switch v := p.tree.Evaluate(nav).(type) {
	case *xpath.NodeIterator:
		var sb strings.Builder
		matched := false
		for v.MoveNext() {
			matched = true
			sb.WriteString(v.Current().Value())
		}
		if !matched {
			return nil, false, nil
		}
		return sb.String(), true, nil
	default:
		return v, true, nil
	}
}

// Select evaluates the path to an ordered sequence, in document or match
// order. The result is possibly empty, never nil.
//
// Tree dialect: the matched nodes, with no reduction. Structured dialect: a
// single matched sequence is returned as that sequence; a null or missing
// match is empty; a single scalar or object is wrapped in a singleton so
// callers can always iterate uniformly.
func (p *Path) Select(root any) ([]any, error) {
	if p.dialect == Structured {
		results := p.structured.Select(root)
		if len(results) == 1 {
			switch v := results[0].(type) {
			case nil:
				return []any{}, nil
			case []any:
				return v, nil
			default:
				return []any{v}, nil
			}
		}
		out := make([]any, 0, len(results))
		for _, r := range results {
			out = append(out, r)
		}
		return out, nil
	}

	switch n := root.(type) {
	case *html.Node:
		nodes := htmlquery.QuerySelectorAll(n, p.tree)
		out := make([]any, 0, len(nodes))
		for _, m := range nodes {
			out = append(out, m)
		}
		return out, nil
	case *xmlquery.Node:
		nodes := xmlquery.QuerySelectorAll(n, p.tree)
		out := make([]any, 0, len(nodes))
		for _, m := range nodes {
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: tree query over %T", ErrRoot, root)
	}
}

func navigator(root any) (xpath.NodeNavigator, error) {
	switch n := root.(type) {
	case *html.Node:
		return htmlquery.CreateXPathNavigator(n), nil
	case *xmlquery.Node:
		return xmlquery.CreateXPathNavigator(n), nil
	default:
		return nil, fmt.Errorf("%w: tree query over %T", ErrRoot, root)
	}
}
