package sift

import (
	"fmt"
	"strings"

	"github.com/jacoelho/sift/document"
	"github.com/jacoelho/sift/query"
)

// Bind resolves a declarative spec against a registry: every path is
// compiled and every referenced name becomes a direct callable reference.
// An unresolved name fails here with ErrUnknownName, before any document
// is ever processed. The returned Spec is immutable.
func Bind(def *SpecDef, reg Registry) (*Spec, error) {
	if !document.IsSupportedDoctype(def.Doctype) {
		return nil, fmt.Errorf("%w: doctype %q", ErrSpec, def.Doctype)
	}

	pre := make([]Preprocess, 0, len(def.Pre))
	for _, name := range def.Pre {
		fn, ok := reg.Preprocessors[name]
		if !ok {
			return nil, fmt.Errorf("%w: preprocessor %q", ErrUnknownName, name)
		}
		pre = append(pre, fn)
	}

	post := make([]Postprocess, 0, len(def.Post))
	for _, name := range def.Post {
		fn, ok := reg.Postprocessors[name]
		if !ok {
			return nil, fmt.Errorf("%w: postprocessor %q", ErrUnknownName, name)
		}
		post = append(post, fn)
	}

	rules, err := bindRules(def.Items, reg)
	if err != nil {
		return nil, err
	}

	return &Spec{
		doctype: def.Doctype,
		pre:     pre,
		root:    &Collector{rules: rules},
		post:    post,
	}, nil
}

func bindRules(defs []RuleDef, reg Registry) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(defs))
	for i, d := range defs {
		r, err := bindRule(d, reg)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func bindRule(def RuleDef, reg Registry) (*Rule, error) {
	if def.Foreach != "" && def.Section != "" {
		return nil, fmt.Errorf("%w: foreach and section are mutually exclusive", ErrSpec)
	}

	r := &Rule{}

	switch {
	case def.Key.Path != nil:
		kp, err := bindPicker(PickerDef{
			Path:      def.Key.Path.Path,
			Transform: def.Key.Path.Transform,
		}, reg)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		r.keyPicker = kp
	case def.Key.Literal != "":
		r.key = def.Key.Literal
	default:
		return nil, fmt.Errorf("%w: rule key is empty", ErrSpec)
	}

	switch {
	case def.Value.Collector != nil:
		c, err := bindCollector(def.Value.Collector, reg)
		if err != nil {
			return nil, err
		}
		r.extractor = c
	case def.Value.Picker != nil:
		p, err := bindPicker(*def.Value.Picker, reg)
		if err != nil {
			return nil, err
		}
		r.extractor = p
	default:
		return nil, fmt.Errorf("%w: rule value is empty", ErrSpec)
	}

	if def.Foreach != "" {
		p, err := query.Compile(def.Foreach)
		if err != nil {
			return nil, err
		}
		r.foreach = p
	}
	if def.Section != "" {
		p, err := query.Compile(def.Section)
		if err != nil {
			return nil, err
		}
		r.section = p
	}

	return r, nil
}

func bindPicker(def PickerDef, reg Registry) (*Picker, error) {
	if def.Path == "" {
		return nil, fmt.Errorf("%w: picker path is empty", ErrSpec)
	}
	path, err := query.Compile(def.Path)
	if err != nil {
		return nil, err
	}
	c, err := bindContract(def.Foreach, def.Transform, reg)
	if err != nil {
		return nil, err
	}
	return &Picker{path: path, contract: c}, nil
}

func bindCollector(def *CollectorDef, reg Registry) (*Collector, error) {
	if len(def.Items) == 0 {
		return nil, fmt.Errorf("%w: collector has no items", ErrSpec)
	}
	rules, err := bindRules(def.Items, reg)
	if err != nil {
		return nil, err
	}
	c, err := bindContract(def.Foreach, def.Transform, reg)
	if err != nil {
		return nil, err
	}
	return &Collector{rules: rules, contract: c}, nil
}

func bindContract(foreach, transform string, reg Registry) (contract, error) {
	var c contract
	if foreach != "" {
		p, err := query.Compile(foreach)
		if err != nil {
			return c, err
		}
		c.foreach = p
	}
	chain, err := transformChain(transform, reg)
	if err != nil {
		return c, err
	}
	c.transforms = chain
	return c, nil
}

// transformChain resolves a "|"-separated transform specification into
// direct callable references, in application order.
func transformChain(spec string, reg Registry) ([]Transform, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	names := strings.Split(spec, "|")
	chain := make([]Transform, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty transform name in %q", ErrSpec, spec)
		}
		fn, ok := reg.Transforms[name]
		if !ok {
			return nil, fmt.Errorf("%w: transform %q", ErrUnknownName, name)
		}
		chain = append(chain, fn)
	}
	return chain, nil
}
