// FILE: livery/fetch_test.go
package livery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStaticFetcher tests the in-memory fetcher
func TestStaticFetcher(t *testing.T) {
	fetch := StaticFetcher(map[string]map[string]any{
		"acme": acmePayload("#111111"),
	})

	payload, err := fetch(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, acmePayload("#111111"), payload)

	_, err = fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPayloadNotFound)
}

func writePayloadDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"acme.toml": "[brand]\nprimary = \"#aa0000\"\n",
		"dark.json": `{"brand": {"primary": "#000000"}}`,
		"light.yaml": `brand:
  primary: "#ffffff"
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// TestFileFetcher tests directory-backed payload loading
func TestFileFetcher(t *testing.T) {
	dir := writePayloadDir(t)

	fetcher, err := NewFileFetcher(dir)
	require.NoError(t, err)

	tests := []struct {
		id      string
		primary string
	}{
		{"acme", "#aa0000"},
		{"dark", "#000000"},
		{"light", "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			payload, err := fetcher.Fetch(context.Background(), tt.id)
			require.NoError(t, err)

			brand, ok := payload["brand"].(map[string]any)
			require.True(t, ok, "nested table decodes as map[string]any")
			assert.Equal(t, tt.primary, brand["primary"])
		})
	}

	t.Run("UnknownID", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrPayloadNotFound)
	})

	t.Run("TraversalRejected", func(t *testing.T) {
		for _, id := range []string{"../evil", "a/b", ".", ""} {
			_, err := fetcher.Fetch(context.Background(), id)
			require.Error(t, err, id)
			assert.NotErrorIs(t, err, ErrPayloadNotFound, id)
		}
	})

	t.Run("FeedsResolver", func(t *testing.T) {
		resolver := NewBuilder().
			WithSchemaDefs(testDefs()).
			WithFetcher(fetcher.Fetch).
			MustBuild()

		theme, err := resolver.Resolve(context.Background(), "dark")
		require.NoError(t, err)
		val, _ := theme.Value("brand.primary")
		assert.Equal(t, "#000000", val)
	})
}

// TestNewFileFetcherErrors tests constructor validation
func TestNewFileFetcherErrors(t *testing.T) {
	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := NewFileFetcher(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("FileNotDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.toml")
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
		_, err := NewFileFetcher(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("UnsupportedFormatHint", func(t *testing.T) {
		_, err := NewFileFetcher(t.TempDir(), "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported payload format")
	})

	t.Run("FormatHintAccepted", func(t *testing.T) {
		dir := writePayloadDir(t)
		fetcher, err := NewFileFetcher(dir, "toml")
		require.NoError(t, err)
		_, err = fetcher.Fetch(context.Background(), "acme")
		assert.NoError(t, err)
	})
}

// TestPayloadSizeLimit tests the oversize guard
func TestPayloadSizeLimit(t *testing.T) {
	dir := t.TempDir()
	big := "# padding\n" + strings.Repeat("#", int(MaxPayloadSize)) + "\nx = 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "huge.toml"), []byte(big), 0644))

	fetcher, err := NewFileFetcher(dir)
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "huge")
	assert.ErrorIs(t, err, ErrPayloadSize)
}

// TestParsePayload tests format detection and decoding
func TestParsePayload(t *testing.T) {
	t.Run("ByExtension", func(t *testing.T) {
		payload, err := ParsePayload([]byte("[brand]\nprimary = \"#fff\"\n"), "acme.toml")
		require.NoError(t, err)
		brand := payload["brand"].(map[string]any)
		assert.Equal(t, "#fff", brand["primary"])
	})

	t.Run("JSONByContent", func(t *testing.T) {
		payload, err := ParsePayload([]byte(`{"brand": {"primary": "#fff"}}`), "acme.conf")
		require.NoError(t, err)
		brand := payload["brand"].(map[string]any)
		assert.Equal(t, "#fff", brand["primary"])
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		_, err := ParsePayload([]byte(`{"brand":`), "acme.json")
		assert.Error(t, err)
	})
}

// TestWriteCSSFile tests atomic CSS output
func TestWriteCSSFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "theme.css")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep"), []byte("x"), 0644))
	require.NoError(t, WriteCSSFile(path, ":root {}\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":root {}\n", string(data))

	t.Run("OverwriteExisting", func(t *testing.T) {
		require.NoError(t, WriteCSSFile(path, ":root { --a: 1; }\n"))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, ":root { --a: 1; }\n", string(data))
	})

	t.Run("NoTempFileLeftBehind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		for _, entry := range entries {
			assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), entry.Name())
		}
	})
}
