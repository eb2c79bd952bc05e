// FILE: livery/headers.go
package livery

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CacheHeaderOptions configures the Cache-Control and Vary headers for
// responses carrying theme-dependent content.
type CacheHeaderOptions struct {
	// MaxAge in seconds. Defaults to DefaultMaxAgeSeconds.
	MaxAge int

	// StaleWhileRevalidate in seconds. Defaults to DefaultSWRSeconds.
	StaleWhileRevalidate int

	// Scope is "public" or "private". Defaults to "public".
	Scope string

	// Vary lists the headers the response varies on. Defaults to the theme
	// identifier header.
	Vary []string
}

// DefaultCacheHeaderOptions returns the standard serving-boundary directives:
// public, max-age 300, stale-while-revalidate 3600, varying on the theme
// identifier header.
func DefaultCacheHeaderOptions() CacheHeaderOptions {
	return CacheHeaderOptions{
		MaxAge:               DefaultMaxAgeSeconds,
		StaleWhileRevalidate: DefaultSWRSeconds,
		Scope:                "public",
		Vary:                 []string{HeaderThemeID},
	}
}

// BuildCacheHeaders produces the Cache-Control and Vary header values for the
// given options. Zero-valued fields take their defaults.
func BuildCacheHeaders(opts ...CacheHeaderOptions) (cacheControl, vary string) {
	opt := DefaultCacheHeaderOptions()
	if len(opts) > 0 {
		given := opts[0]
		if given.MaxAge > 0 {
			opt.MaxAge = given.MaxAge
		}
		if given.StaleWhileRevalidate > 0 {
			opt.StaleWhileRevalidate = given.StaleWhileRevalidate
		}
		if given.Scope != "" {
			opt.Scope = given.Scope
		}
		if len(given.Vary) > 0 {
			opt.Vary = given.Vary
		}
	}

	cacheControl = fmt.Sprintf("%s, max-age=%d, stale-while-revalidate=%d",
		opt.Scope, opt.MaxAge, opt.StaleWhileRevalidate)
	vary = strings.Join(opt.Vary, ", ")
	return cacheControl, vary
}

// SetCacheHeaders applies the cache directives to an HTTP header map.
func SetCacheHeaders(h http.Header, opts ...CacheHeaderOptions) {
	cacheControl, vary := BuildCacheHeaders(opts...)
	h.Set("Cache-Control", cacheControl)
	h.Set("Vary", vary)
}

// ETag returns a strong entity tag for serialized CSS, stable across
// processes for identical text.
func ETag(css string) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", xxhash.Sum64String(css)))
}
