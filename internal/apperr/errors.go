// Package apperr holds the sentinel errors shared by the conversion pipeline.
package apperr

import "errors"

var (
	ErrMissingMetadata   = errors.New("missing meta.json")
	ErrMalformedMetadata = errors.New("malformed meta.json")
	ErrMissingContent    = errors.New("missing content.json")
	ErrMalformedContent  = errors.New("malformed content.json")
	ErrImageCopy         = errors.New("image copy failed")
	ErrDateParse         = errors.New("date parse failed")
	ErrMissingTitle      = errors.New("missing title")

	// ErrUnsupportedCellKind is recoverable: it is reported as a diagnostic
	// and never aborts a conversion.
	ErrUnsupportedCellKind = errors.New("unsupported cell type")
)
