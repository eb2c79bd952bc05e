// FILE: example/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"livery"
)

// A small multi-tenant server: each tenant is a subdomain of example.test,
// its theme payload comes from a static in-memory source, and /theme.css
// serves the tenant's resolved tokens as CSS custom properties.
func main() {
	schema := livery.MustSchema(map[string]any{
		"brand": map[string]any{
			"primary":   livery.Token{Type: livery.TypeColor, Default: "#7c3aed"},
			"secondary": livery.Token{Type: livery.TypeColor, Default: "#10b981"},
			"radius":    livery.Token{Type: livery.TypeDimension, Default: "8px"},
		},
		"font": map[string]any{
			"body":  livery.Token{Type: livery.TypeFontFamily, Default: "Inter, sans-serif"},
			"scale": livery.Token{Type: livery.TypeNumber, Default: 1.125},
		},
	})

	fetch := livery.StaticFetcher(map[string]map[string]any{
		"acme": {
			"brand": map[string]any{"primary": "#e11d48"},
		},
		"globex": {
			"brand": map[string]any{"primary": "#0ea5e9", "radius": "2px"},
			"font":  map[string]any{"body": "IBM Plex Sans, sans-serif"},
		},
	})

	resolver := livery.NewBuilder().
		WithSchema(schema).
		WithFetcher(fetch).
		WithTTL(5 * time.Minute).
		WithStaleWhileRevalidate(true).
		MustBuild()

	extractor := livery.NewExtractor(
		livery.FromSubdomain("example.test"),
		livery.ExtractorOptions{
			Validate: func(ctx context.Context, id string) error {
				_, err := resolver.Resolve(ctx, id)
				return err
			},
			Fallback: "https://example.test/pick-a-tenant",
		},
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/theme.css", func(w http.ResponseWriter, r *http.Request) {
		themeID := r.Header.Get(livery.HeaderThemeID)

		theme, err := resolver.Resolve(r.Context(), themeID)
		if err != nil {
			http.Error(w, "theme unavailable", http.StatusBadGateway)
			return
		}

		css, err := livery.ToCSSString(schema, theme, livery.CSSOptions{Prefix: "lv"})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("ETag", livery.ETag(css))
		livery.SetCacheHeaders(w.Header())
		_, _ = w.Write([]byte(css))
	})

	log.Println("listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", extractor.Middleware(mux)))
}
