package sift

import "errors"

var (
	// ErrSpec is the sentinel for structurally invalid declarative specs.
	ErrSpec = errors.New("invalid spec")

	// ErrUnknownName indicates a transform, preprocessor, or postprocessor
	// name with no registry entry. It is raised at bind time, never during
	// extraction.
	ErrUnknownName = errors.New("unknown registry name")

	// ErrRootSelection indicates a section expression that did not match
	// exactly one node.
	ErrRootSelection = errors.New("section selection failed")

	// ErrKey indicates a dynamic key picker that produced a non-string value.
	ErrKey = errors.New("invalid dynamic key")
)
