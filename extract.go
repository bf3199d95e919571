package sift

import (
	"fmt"

	"github.com/jacoelho/sift/query"
)

// Extractor produces the value side of a rule: a Picker for scalars and
// lists, a Collector for nested mappings. The variant set is closed; no
// type outside this package satisfies it.
type Extractor interface {
	// Extract returns the value for one invocation root. ok=false means
	// nothing matched and the caller must omit the corresponding key;
	// present-but-falsy values ("" or 0 or false) still report ok=true.
	Extract(root any) (value any, ok bool, err error)

	sealed()
}

// contract is the foreach/transform behavior shared by Picker and
// Collector: an optional per-node foreach that turns a scalar extractor
// into a list builder, and a transform chain applied to each present value.
type contract struct {
	foreach    *query.Path
	transforms []Transform
}

func (c contract) apply(v any) (any, error) {
	for _, fn := range c.transforms {
		var err error
		if v, err = fn(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// extract implements the shared extraction algorithm. Without a foreach
// the extractor produces one value with the transform chain applied;
// absence short-circuits before any transform runs. With a foreach it
// builds an ordered list from the selected nodes, dropping absent entries
// and transforming each survivor independently; an empty list collapses to
// absence rather than surfacing as [].
func (c contract) extract(one func(any) (any, bool, error), root any) (any, bool, error) {
	if c.foreach == nil {
		v, ok, err := one(root)
		if err != nil || !ok {
			return nil, false, err
		}
		v, err = c.apply(v)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}

	subroots, err := c.foreach.Select(root)
	if err != nil {
		return nil, false, err
	}

	values := make([]any, 0, len(subroots))
	for _, sub := range subroots {
		v, ok, err := one(sub)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		v, err = c.apply(v)
		if err != nil {
			return nil, false, err
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, false, nil
	}
	return values, true, nil
}

// Picker is the leaf extractor: one path, an optional per-node foreach and
// a transform chain.
type Picker struct {
	path *query.Path
	contract
}

func (p *Picker) sealed() {}

func (p *Picker) Extract(root any) (any, bool, error) {
	return p.contract.extract(p.extractOne, root)
}

func (p *Picker) extractOne(root any) (any, bool, error) {
	return p.path.Query(root)
}

// Collector merges an ordered rule set into one mapping. It honors the
// same foreach/transform contract as Picker, with mapping-valued elements.
type Collector struct {
	rules []*Rule
	contract
}

func (c *Collector) sealed() {}

func (c *Collector) Extract(root any) (any, bool, error) {
	return c.contract.extract(c.extractOne, root)
}

func (c *Collector) extractOne(root any) (any, bool, error) {
	out := make(map[string]any)
	for _, r := range c.rules {
		if err := r.apply(root, out); err != nil {
			return nil, false, err
		}
	}
	if len(out) == 0 {
		// Empty nested records vanish from their parent instead of
		// appearing as {}.
		return nil, false, nil
	}
	return out, true, nil
}

// Rule binds one key, literal or derived via its own Picker, to an
// extractor. A rule-level foreach iterates subroots and contributes one
// entry per subroot into the same mapping; section is the strict variant
// that requires exactly one subroot. The two are never conflated.
type Rule struct {
	key       string
	keyPicker *Picker
	extractor Extractor
	foreach   *query.Path
	section   *query.Path
}

// apply merges the rule's entries into out. Subroots are processed in
// selection order and later subroots overwrite earlier ones on key
// collision. A subroot whose value or dynamic key is absent contributes
// nothing.
func (r *Rule) apply(root any, out map[string]any) error {
	subroots := []any{root}

	switch {
	case r.section != nil:
		nodes, err := r.section.Select(root)
		if err != nil {
			return err
		}
		if len(nodes) != 1 {
			return fmt.Errorf("%w: %q matched %d nodes, want exactly 1",
				ErrRootSelection, r.section.String(), len(nodes))
		}
		subroots = nodes
	case r.foreach != nil:
		nodes, err := r.foreach.Select(root)
		if err != nil {
			return err
		}
		subroots = nodes
	}

	for _, sub := range subroots {
		value, ok, err := r.extractor.Extract(sub)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		key := r.key
		if r.keyPicker != nil {
			kv, ok, err := r.keyPicker.Extract(sub)
			if err != nil {
				return err
			}
			if !ok {
				// No key, no entry, regardless of the value.
				continue
			}
			s, isString := kv.(string)
			if !isString {
				return fmt.Errorf("%w: %q produced %T, want string",
					ErrKey, r.keyPicker.path.String(), kv)
			}
			key = s
		}

		out[key] = value
	}

	return nil
}
