package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
)

func TestDialectOf(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dialect
	}{
		{name: "absolute", text: "//h1/text()", want: Tree},
		{name: "root", text: "/html/body", want: Tree},
		{name: "relative", text: "./h3/text()", want: Tree},
		{name: "jsonpath_root", text: "$.title", want: Structured},
		{name: "jsonpath_descendant", text: "$..name", want: Structured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DialectOf(tt.text); got != tt.want {
				t.Fatalf("DialectOf(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "tree_valid", text: "//h1//text()"},
		{name: "tree_invalid", text: "//h1[", wantErr: true},
		{name: "structured_valid", text: "$.store.book[0].title"},
		{name: "structured_invalid", text: "$[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrCompile) {
				t.Fatalf("Compile(%q) error = %v, want ErrCompile", tt.text, err)
			}
		})
	}
}

func mustCompile(t *testing.T, text string) *Path {
	t.Helper()
	p, err := Compile(text)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", text, err)
	}
	return p
}

func htmlRoot(t *testing.T, text string) any {
	t.Helper()
	root, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return root
}

func xmlRoot(t *testing.T, text string) any {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse xml: %v", err)
	}
	return root
}

func TestQueryTree(t *testing.T) {
	tests := []struct {
		name   string
		root   any
		path   string
		want   any
		wantOK bool
	}{
		{
			name:   "text_concatenation_no_separator",
			root:   htmlRoot(t, `<html><body><h1>The Shining <span>(1980)</span></h1></body></html>`),
			path:   "//h1//text()",
			want:   "The Shining (1980)",
			wantOK: true,
		},
		{
			name:   "no_match_is_absent",
			root:   htmlRoot(t, `<html><body><h1>The Shining</h1></body></html>`),
			path:   "//h2//text()",
			wantOK: false,
		},
		{
			name:   "empty_attribute_is_present",
			root:   xmlRoot(t, `<root><foo val=""/></root>`),
			path:   "//foo/@val",
			want:   "",
			wantOK: true,
		},
		{
			name:   "element_nodes_concatenate_text",
			root:   xmlRoot(t, `<root><a>x</a><a>y</a></root>`),
			path:   "/root/a",
			want:   "xy",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := mustCompile(t, tt.path).Query(tt.root)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Query() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Query() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestQueryTreeUnsupportedRoot(t *testing.T) {
	_, _, err := mustCompile(t, "//h1").Query(map[string]any{"h1": "x"})
	if !errors.Is(err, ErrRoot) {
		t.Fatalf("Query() error = %v, want ErrRoot", err)
	}
}

func TestQueryStructured(t *testing.T) {
	data := map[string]any{
		"title": "The Shining",
		"year":  float64(1980),
		"empty": "",
		"missing_value": nil,
		"cast": []any{
			map[string]any{"name": "Jack Nicholson"},
			map[string]any{"name": "Shelley Duvall"},
		},
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "scalar", path: "$.title", want: "The Shining", wantOK: true},
		{name: "number", path: "$.year", want: float64(1980), wantOK: true},
		{name: "falsy_present", path: "$.empty", want: "", wantOK: true},
		{name: "missing_is_absent", path: "$.nope", wantOK: false},
		{name: "null_is_absent", path: "$.missing_value", wantOK: false},
		{
			name:   "multiple_matches",
			path:   "$.cast[*].name",
			want:   []any{"Jack Nicholson", "Shelley Duvall"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := mustCompile(t, tt.path).Query(data)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Query() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Query() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSelectStructured(t *testing.T) {
	data := map[string]any{
		"items":  []any{"a", "b"},
		"scalar": "x",
		"null":   nil,
	}

	tests := []struct {
		name string
		path string
		want []any
	}{
		{name: "sequence_unwrapped", path: "$.items", want: []any{"a", "b"}},
		{name: "scalar_wrapped", path: "$.scalar", want: []any{"x"}},
		{name: "null_is_empty", path: "$.null", want: []any{}},
		{name: "missing_is_empty", path: "$.nope", want: []any{}},
		{name: "star_matches", path: "$.items[*]", want: []any{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustCompile(t, tt.path).Select(data)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got == nil {
				t.Fatalf("Select() = nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Select() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSelectTree(t *testing.T) {
	root := htmlRoot(t, `<html><body>
		<div class="info"><h3>Language:</h3></div>
		<div class="info"><h3>Runtime:</h3></div>
	</body></html>`)

	nodes, err := mustCompile(t, `//div[@class='info']`).Select(root)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Select() returned %d nodes, want 2", len(nodes))
	}

	// Subroot-relative queries see only their own subtree.
	head, ok, err := mustCompile(t, "./h3/text()").Query(nodes[0])
	if err != nil || !ok {
		t.Fatalf("Query() = ok %v, error %v", ok, err)
	}
	if head != "Language:" {
		t.Fatalf("Query() = %q, want %q", head, "Language:")
	}
}
