package sift

import (
	"fmt"
	"io"

	yaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

// SpecDef is the declarative, serialization-agnostic shape of a spec:
// mappings, lists, and strings only. It binds against a Registry to become
// an executable Spec.
type SpecDef struct {
	Doctype string    `yaml:"doctype"`
	Pre     []string  `yaml:"pre,omitempty"`
	Items   []RuleDef `yaml:"items"`
	Post    []string  `yaml:"post,omitempty"`
}

// RuleDef pairs a key with a value extractor. Foreach turns the rule into
// a multi-entry generator over subroots; Section reroots strictly to
// exactly one node. The two fields are mutually exclusive.
type RuleDef struct {
	Key     KeyDef   `yaml:"key"`
	Value   ValueDef `yaml:"value"`
	Foreach string   `yaml:"foreach,omitempty"`
	Section string   `yaml:"section,omitempty"`
}

// KeyDef is either a literal string or a path-derived dynamic key.
type KeyDef struct {
	Literal string
	Path    *PathDef
}

// PathDef is a dynamic key definition: a path whose per-subroot result,
// after the optional transform chain, becomes the entry key.
type PathDef struct {
	Path      string `yaml:"path"`
	Transform string `yaml:"transform,omitempty"`
}

// ValueDef is either a Picker (leaf path) or a Collector (nested items)
// definition. Exactly one side is set after decoding.
type ValueDef struct {
	Picker    *PickerDef
	Collector *CollectorDef
}

// PickerDef is a leaf extractor definition. Transform names a chain with
// "|" separators, e.g. "strip|int".
type PickerDef struct {
	Path      string `yaml:"path"`
	Foreach   string `yaml:"foreach,omitempty"`
	Transform string `yaml:"transform,omitempty"`
}

// CollectorDef is a composite extractor definition: an ordered rule list
// merged into one mapping, with the same foreach/transform contract as a
// picker.
type CollectorDef struct {
	Items     []RuleDef `yaml:"items"`
	Foreach   string    `yaml:"foreach,omitempty"`
	Transform string    `yaml:"transform,omitempty"`
}

// ParseSpec decodes a declarative spec from YAML. JSON input works too,
// since YAML subsumes it.
func ParseSpec(r io.Reader) (*SpecDef, error) {
	var def SpecDef
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpec, err)
	}
	return &def, nil
}

// UnmarshalYAML implements the string-or-mapping union for rule keys.
func (k *KeyDef) UnmarshalYAML(node ast.Node) error {
	switch node.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		var def PathDef
		if err := yaml.NodeToValue(node, &def); err != nil {
			return fmt.Errorf("%w: key: %v", ErrSpec, err)
		}
		k.Path = &def
		return nil
	default:
		var literal string
		if err := yaml.NodeToValue(node, &literal); err != nil {
			return fmt.Errorf("%w: key must be a string or a path mapping", ErrSpec)
		}
		k.Literal = literal
		return nil
	}
}

// UnmarshalYAML implements the picker-or-collector union for rule values,
// switched on the presence of an "items" entry.
func (v *ValueDef) UnmarshalYAML(node ast.Node) error {
	var hasItems bool
	switch n := node.(type) {
	case *ast.MappingNode:
		hasItems = mappingHasKey(n.Values, "items")
	case *ast.MappingValueNode:
		hasItems = mappingHasKey([]*ast.MappingValueNode{n}, "items")
	default:
		return fmt.Errorf("%w: value must be a mapping", ErrSpec)
	}

	if hasItems {
		var def CollectorDef
		if err := yaml.NodeToValue(node, &def); err != nil {
			return fmt.Errorf("%w: value: %v", ErrSpec, err)
		}
		v.Collector = &def
		return nil
	}

	var def PickerDef
	if err := yaml.NodeToValue(node, &def); err != nil {
		return fmt.Errorf("%w: value: %v", ErrSpec, err)
	}
	v.Picker = &def
	return nil
}

func mappingHasKey(values []*ast.MappingValueNode, key string) bool {
	for _, kv := range values {
		if s, ok := kv.Key.(*ast.StringNode); ok && s.Value == key {
			return true
		}
	}
	return false
}
