// Package sift extracts structured data from documents driven by
// declarative specifications. A spec describes what to pull out of a
// document as data, not code: rules pair keys with path expressions, and
// the engine walks a parsed HTML, XML, or JSON document producing a nested
// mapping. One bound spec is reused across any number of documents.
package sift

import (
	"github.com/jacoelho/sift/document"
)

// Spec is a bound, immutable extraction specification. Binding resolves
// every referenced registry name eagerly, so a Spec is callable-complete:
// extraction never fails a name lookup. Once built, a Spec is read-only
// and safe to share across concurrent callers.
type Spec struct {
	doctype string
	pre     []Preprocess
	root    *Collector
	post    []Postprocess
}

// Doctype returns the document type this spec extracts from.
func (s *Spec) Doctype() string { return s.doctype }

// Extract runs the root collector over an already-parsed root. A spec
// whose rules all contributed nothing yields an empty mapping, never nil.
// Preprocessors and postprocessors do not run; use Scrape for the full
// pipeline.
func (s *Spec) Extract(root any) (map[string]any, error) {
	v, ok, err := s.root.Extract(root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{}, nil
	}
	return v.(map[string]any), nil
}

// Scrape runs the full pipeline over one document: parse if needed,
// preprocess, extract, postprocess. Raw []byte or string documents are
// parsed according to the spec's doctype; any other value is treated as an
// already-built root. Failures are fail-fast with no partial result.
func (s *Spec) Scrape(doc any) (map[string]any, error) {
	root := doc
	switch d := doc.(type) {
	case []byte:
		var err error
		if root, err = document.Build(d, s.doctype); err != nil {
			return nil, err
		}
	case string:
		var err error
		if root, err = document.Build([]byte(d), s.doctype); err != nil {
			return nil, err
		}
	}

	for _, pre := range s.pre {
		var err error
		if root, err = pre(root); err != nil {
			return nil, err
		}
	}

	data, err := s.Extract(root)
	if err != nil {
		return nil, err
	}

	for _, post := range s.post {
		if data, err = post(data); err != nil {
			return nil, err
		}
	}

	return data, nil
}
