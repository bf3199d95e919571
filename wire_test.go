package sift

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSpec(t *testing.T) {
	def, err := ParseSpec(strings.NewReader(`
doctype: html
pre: [drop_ads]
items:
  - key: title
    value:
      path: "//h1//text()"
      transform: strip
  - foreach: "//div[@class='info']"
    key:
      path: "./h3/text()"
      transform: lower
    value:
      path: "./p/text()"
  - key: cast
    value:
      foreach: "//table//tr"
      items:
        - key: name
          value:
            path: "./td/a/text()"
post: [prune]
`))
	if err != nil {
		t.Fatalf("ParseSpec() error = %v", err)
	}

	if def.Doctype != "html" {
		t.Fatalf("Doctype = %q, want %q", def.Doctype, "html")
	}
	if len(def.Pre) != 1 || def.Pre[0] != "drop_ads" {
		t.Fatalf("Pre = %v, want [drop_ads]", def.Pre)
	}
	if len(def.Post) != 1 || def.Post[0] != "prune" {
		t.Fatalf("Post = %v, want [prune]", def.Post)
	}
	if len(def.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(def.Items))
	}

	literal := def.Items[0]
	if literal.Key.Literal != "title" || literal.Key.Path != nil {
		t.Fatalf("rule 1 key = %+v, want literal title", literal.Key)
	}
	if literal.Value.Picker == nil || literal.Value.Picker.Path != "//h1//text()" {
		t.Fatalf("rule 1 value = %+v, want picker", literal.Value)
	}
	if literal.Value.Picker.Transform != "strip" {
		t.Fatalf("rule 1 transform = %q, want strip", literal.Value.Picker.Transform)
	}

	dynamic := def.Items[1]
	if dynamic.Key.Path == nil || dynamic.Key.Path.Path != "./h3/text()" {
		t.Fatalf("rule 2 key = %+v, want path key", dynamic.Key)
	}
	if dynamic.Key.Path.Transform != "lower" {
		t.Fatalf("rule 2 key transform = %q, want lower", dynamic.Key.Path.Transform)
	}
	if dynamic.Foreach != "//div[@class='info']" {
		t.Fatalf("rule 2 foreach = %q", dynamic.Foreach)
	}

	nested := def.Items[2]
	if nested.Value.Collector == nil {
		t.Fatalf("rule 3 value = %+v, want collector", nested.Value)
	}
	if nested.Value.Collector.Foreach != "//table//tr" {
		t.Fatalf("rule 3 collector foreach = %q", nested.Value.Collector.Foreach)
	}
	if len(nested.Value.Collector.Items) != 1 {
		t.Fatalf("rule 3 collector items = %d, want 1", len(nested.Value.Collector.Items))
	}
}

func TestParseSpecJSONInput(t *testing.T) {
	def, err := ParseSpec(strings.NewReader(
		`{"doctype": "json", "items": [{"key": "a", "value": {"path": "$.a"}}]}`))
	if err != nil {
		t.Fatalf("ParseSpec() error = %v", err)
	}
	if def.Doctype != "json" || len(def.Items) != 1 {
		t.Fatalf("ParseSpec() = %+v", def)
	}
	if def.Items[0].Value.Picker == nil {
		t.Fatalf("value = %+v, want picker", def.Items[0].Value)
	}
}

func TestParseSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "value_not_mapping", in: "doctype: html\nitems:\n  - key: a\n    value: nope\n"},
		{name: "not_yaml", in: ": : :"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSpec(strings.NewReader(tt.in)); !errors.Is(err, ErrSpec) {
				t.Fatalf("ParseSpec() error = %v, want ErrSpec", err)
			}
		})
	}
}
