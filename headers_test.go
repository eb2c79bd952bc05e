// FILE: livery/headers_test.go
package livery

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBuildCacheHeaders tests Cache-Control and Vary construction
func TestBuildCacheHeaders(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cacheControl, vary := BuildCacheHeaders()
		assert.Equal(t, "public, max-age=300, stale-while-revalidate=3600", cacheControl)
		assert.Equal(t, "x-livery-theme", vary)
	})

	t.Run("CustomDirectives", func(t *testing.T) {
		cacheControl, vary := BuildCacheHeaders(CacheHeaderOptions{
			MaxAge:               60,
			StaleWhileRevalidate: 600,
			Scope:                "private",
			Vary:                 []string{"x-livery-theme", "Accept-Encoding"},
		})
		assert.Equal(t, "private, max-age=60, stale-while-revalidate=600", cacheControl)
		assert.Equal(t, "x-livery-theme, Accept-Encoding", vary)
	})

	t.Run("ZeroFieldsTakeDefaults", func(t *testing.T) {
		cacheControl, vary := BuildCacheHeaders(CacheHeaderOptions{Scope: "private"})
		assert.Equal(t, "private, max-age=300, stale-while-revalidate=3600", cacheControl)
		assert.Equal(t, "x-livery-theme", vary)
	})
}

// TestSetCacheHeaders tests application to a header map
func TestSetCacheHeaders(t *testing.T) {
	h := make(http.Header)
	SetCacheHeaders(h)

	assert.Equal(t, "public, max-age=300, stale-while-revalidate=3600", h.Get("Cache-Control"))
	assert.Equal(t, "x-livery-theme", h.Get("Vary"))
}

// TestETag tests entity-tag stability and shape
func TestETag(t *testing.T) {
	a := ETag(":root { --a: 1; }\n")
	b := ETag(":root { --a: 1; }\n")
	c := ETag(":root { --a: 2; }\n")

	assert.Equal(t, a, b, "identical content yields identical tags")
	assert.NotEqual(t, a, c, "different content yields different tags")

	assert.True(t, strings.HasPrefix(a, `"`))
	assert.True(t, strings.HasSuffix(a, `"`))
	assert.Len(t, a, 18, "16 hex digits plus quotes")
}
