// FILE: livery/extract.go
package livery

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// HeaderThemeID is the request header the middleware sets to the extracted
// theme identifier, and the default Vary key for the serving boundary.
const HeaderThemeID = "x-livery-theme"

// Extraction is the outcome of deriving a theme identifier from a request.
type Extraction struct {
	// ThemeID is the derived identifier.
	ThemeID string

	// RewritePath, when non-empty, is the path the request should continue
	// under once the identifier segment has been consumed.
	RewritePath string
}

// ExtractFunc derives a theme identifier from a request. The boolean is false
// when no identifier is determinable, upon which the caller applies its
// configured fallback.
type ExtractFunc func(r *http.Request) (Extraction, bool)

// FromSubdomain extracts the identifier from the first host label under the
// given base domain: acme.example.com with base example.com yields "acme".
// Requests on the bare base domain, or on hosts outside it, yield nothing.
func FromSubdomain(baseDomain string) ExtractFunc {
	baseDomain = strings.ToLower(strings.TrimSuffix(baseDomain, "."))
	return func(r *http.Request) (Extraction, bool) {
		host := strings.ToLower(r.Host)
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		if host == baseDomain || !strings.HasSuffix(host, "."+baseDomain) {
			return Extraction{}, false
		}

		sub := strings.TrimSuffix(host, "."+baseDomain)
		// Only the innermost label names a theme; deeper nesting is not a
		// tenant host.
		if sub == "" || strings.Contains(sub, ".") {
			return Extraction{}, false
		}
		return Extraction{ThemeID: sub}, true
	}
}

// FromPathPrefix extracts the identifier from the first path segment and
// rewrites the remaining path: /acme/dashboard yields "acme" with rewrite
// path /dashboard.
func FromPathPrefix() ExtractFunc {
	return func(r *http.Request) (Extraction, bool) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/")
		if trimmed == "" {
			return Extraction{}, false
		}

		segment, rest, _ := strings.Cut(trimmed, "/")
		if segment == "" {
			return Extraction{}, false
		}
		return Extraction{ThemeID: segment, RewritePath: "/" + rest}, true
	}
}

// FromHeader extracts the identifier from a request header.
func FromHeader(name string) ExtractFunc {
	return func(r *http.Request) (Extraction, bool) {
		value := strings.TrimSpace(r.Header.Get(name))
		if value == "" {
			return Extraction{}, false
		}
		return Extraction{ThemeID: value}, true
	}
}

// FromQuery extracts the identifier from a query parameter.
func FromQuery(param string) ExtractFunc {
	return func(r *http.Request) (Extraction, bool) {
		value := strings.TrimSpace(r.URL.Query().Get(param))
		if value == "" {
			return Extraction{}, false
		}
		return Extraction{ThemeID: value}, true
	}
}

// ExtractorOptions configures the request-boundary behavior around an
// ExtractFunc.
type ExtractorOptions struct {
	// Validate, when set, confirms the identifier denotes a real theme
	// before the request proceeds; rejection routes to the fallback.
	// A resolver's Resolve is the typical implementation.
	Validate func(ctx context.Context, themeID string) error

	// Fallback is the redirect target applied when no identifier is
	// determinable or validation rejects it. Empty means 404.
	Fallback string

	// Header is the request header set to the extracted identifier.
	// Defaults to HeaderThemeID.
	Header string
}

// Extractor applies an ExtractFunc at the request boundary: extraction
// failure becomes a configured fallback action, never an error bubbled into
// application code.
type Extractor struct {
	extract ExtractFunc
	opts    ExtractorOptions
}

// NewExtractor creates an extractor around the given strategy.
func NewExtractor(extract ExtractFunc, opts ...ExtractorOptions) *Extractor {
	e := &Extractor{extract: extract}
	if len(opts) > 0 {
		e.opts = opts[0]
	}
	if e.opts.Header == "" {
		e.opts.Header = HeaderThemeID
	}
	return e
}

// Extract derives the theme identifier for a request.
func (e *Extractor) Extract(r *http.Request) (Extraction, bool) {
	return e.extract(r)
}

// Middleware wraps a handler with extraction: on success the theme identifier
// is stamped onto the request header, the path rewrite applied, and the
// request forwarded; on failure the request is redirected to the fallback, or
// answered 404 when no fallback is configured.
func (e *Extractor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext, ok := e.extract(r)
		if !ok {
			e.fallback(w, r)
			return
		}

		if e.opts.Validate != nil {
			if err := e.opts.Validate(r.Context(), ext.ThemeID); err != nil {
				e.fallback(w, r)
				return
			}
		}

		r.Header.Set(e.opts.Header, ext.ThemeID)
		if ext.RewritePath != "" {
			r.URL.Path = ext.RewritePath
		}

		next.ServeHTTP(w, r)
	})
}

func (e *Extractor) fallback(w http.ResponseWriter, r *http.Request) {
	if e.opts.Fallback != "" {
		http.Redirect(w, r, e.opts.Fallback, http.StatusTemporaryRedirect)
		return
	}
	http.NotFound(w, r)
}
