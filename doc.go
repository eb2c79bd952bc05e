// FILE: livery/doc.go

// Package livery provides type-safe, runtime-resolvable design-token theming:
// a declarative schema of themeable values (colors, dimensions, font families,
// numbers), a resolver that turns a theme identifier into a fully populated
// theme via a caller-supplied fetcher, and a serializer that emits resolved
// themes as CSS custom properties.
//
// Features:
//   - Declarative token schema with per-leaf defaults and fail-fast validation
//   - Merge of partial, untrusted payloads against the schema: every resolved
//     theme is complete, malformed overrides fail loudly with their path
//   - Deterministic CSS custom-property serialization, single- or multi-theme
//   - TTL cache with stale-while-revalidate and per-key request coalescing
//   - TOML/JSON/YAML payload files with automatic format detection
//   - Request-boundary theme extraction (subdomain, path, header, query)
//     and Cache-Control/Vary header building for the serving boundary
//
// Quick Start:
//
//	schema := livery.MustSchema(map[string]any{
//	    "brand": map[string]any{
//	        "primary": livery.Token{Type: livery.TypeColor, Default: "#7c3aed"},
//	        "radius":  livery.Token{Type: livery.TypeDimension, Default: "8px"},
//	    },
//	    "font": map[string]any{
//	        "body": livery.Token{Type: livery.TypeFontFamily, Default: "Inter, sans-serif"},
//	    },
//	})
//
//	resolver, err := livery.NewBuilder().
//	    WithSchema(schema).
//	    WithFetcher(fetchTenantTheme).
//	    WithTTL(5 * time.Minute).
//	    WithStaleWhileRevalidate(true).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	theme, err := resolver.Resolve(ctx, "acme")
//	css, _ := livery.ToCSSString(schema, theme)
//
// Concurrency:
// N concurrent Resolve calls for the same identifier produce exactly one
// fetcher invocation; all callers observe the same theme or the same error.
// Stale entries are served immediately while at most one background refresh
// per key runs; a failed background refresh is absorbed and the stale entry
// stays in place. All cache bookkeeping is guarded by read-write mutexes.
//
// The package never performs network transport itself and never styles
// components; it produces data and text.
package livery
