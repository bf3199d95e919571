package sift

// Transform rewrites one extracted value. A transform error aborts the
// whole extraction; transforms are never retried or silently skipped.
type Transform func(value any) (any, error)

// Preprocess adjusts a document root before extraction runs. It may mutate
// the root in place or return a different root entirely; later
// preprocessors see the returned root.
type Preprocess func(root any) (any, error)

// Postprocess adjusts the final result mapping after extraction.
type Postprocess func(data map[string]any) (map[string]any, error)

// Registry supplies the callables a declarative spec may reference by
// name. Every referenced name is resolved exactly once, at bind time, into
// a direct reference; extraction never performs a name lookup.
type Registry struct {
	Transforms     map[string]Transform
	Preprocessors  map[string]Preprocess
	Postprocessors map[string]Postprocess
}
