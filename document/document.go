// Package document builds queryable roots from raw document text and
// provides the HTML-to-well-formed-XML normalizer.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
)

var (
	// ErrParse indicates malformed document text.
	ErrParse = errors.New("document parse error")
	// ErrDoctype indicates a document type the builder does not know.
	ErrDoctype = errors.New("unsupported doctype")
)

// Supported document types.
const (
	DoctypeHTML = "html"
	DoctypeXML  = "xml"
	DoctypeJSON = "json"
)

// IsSupportedDoctype reports whether doctype names a buildable document type.
func IsSupportedDoctype(doctype string) bool {
	switch doctype {
	case DoctypeHTML, DoctypeXML, DoctypeJSON:
		return true
	default:
		return false
	}
}

// Build parses raw document text into a root suitable for querying:
// *html.Node for html, *xmlquery.Node for xml, and a decoded value for
// json. Build is pure and deterministic; malformed input fails with an
// error wrapping ErrParse.
func Build(text []byte, doctype string) (any, error) {
	switch doctype {
	case DoctypeHTML:
		root, err := htmlquery.Parse(bytes.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("%w: html: %v", ErrParse, err)
		}
		return root, nil
	case DoctypeXML:
		root, err := xmlquery.Parse(bytes.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("%w: xml: %v", ErrParse, err)
		}
		return root, nil
	case DoctypeJSON:
		var root any
		if err := json.Unmarshal(text, &root); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrParse, err)
		}
		return root, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDoctype, doctype)
	}
}
