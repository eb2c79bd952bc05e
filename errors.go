// FILE: livery/errors.go
package livery

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (possibly wrapped) by schema construction,
// resolution, and serialization.
var (
	// ErrNilSchema indicates an operation that requires a schema received nil.
	ErrNilSchema = errors.New("schema is nil")

	// ErrEmptyPath indicates an empty token path in a schema definition.
	ErrEmptyPath = errors.New("token path cannot be empty")

	// ErrInvalidPathSegment indicates a path segment with characters outside
	// A-Za-z0-9, underscore, and dash.
	ErrInvalidPathSegment = errors.New("invalid path segment")

	// ErrUnknownTokenType indicates a schema leaf declared a type outside the
	// recognized set.
	ErrUnknownTokenType = errors.New("unknown token type")

	// ErrEmptySchema indicates a schema definition with no leaves.
	ErrEmptySchema = errors.New("schema defines no tokens")

	// ErrFetch wraps a failure reported by the external fetcher.
	ErrFetch = errors.New("theme fetch failed")

	// ErrPayloadNotFound indicates a FileFetcher found no payload file for
	// the requested theme identifier.
	ErrPayloadNotFound = errors.New("theme payload not found")

	// ErrPayloadSize indicates a payload file exceeded MaxPayloadSize.
	ErrPayloadSize = errors.New("theme payload exceeds maximum size")

	// ErrDefaultThemeMissing indicates ToCSSStringAll was given a default
	// theme identifier that is not a key of the theme map.
	ErrDefaultThemeMissing = errors.New("default theme is not in theme set")
)

// ValidationError reports a present override value that does not satisfy the
// schema at its path: a value violating the declared token type, a subtree
// sitting on a leaf path, or a scalar sitting on a group path. Absent values
// never produce one; they fall back to the schema default.
type ValidationError struct {
	Path  string    // offending token path, e.g. "brand.primary"
	Want  TokenType // declared type at that path; empty for group paths
	Value any       // the rejected value
}

func (e *ValidationError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("invalid value %v at %q: a token group cannot be overridden with a single value", e.Value, e.Path)
	}
	return fmt.Sprintf("invalid value %v for token %q: want %s", e.Value, e.Path, e.Want)
}

// AsValidationErrors unwraps err into the validation errors it carries.
// Merge joins one ValidationError per failing path; this flattens them back
// out for callers that report per-path diagnostics.
func AsValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	collect(err, &out)
	return out
}

func collect(err error, out *[]*ValidationError) {
	if err == nil {
		return
	}
	if ve, ok := err.(*ValidationError); ok {
		*out = append(*out, ve)
		return
	}
	// errors.As stops at the first match; walk the whole wrap tree instead.
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, sub := range x.Unwrap() {
			collect(sub, out)
		}
	case interface{ Unwrap() error }:
		collect(x.Unwrap(), out)
	}
}
