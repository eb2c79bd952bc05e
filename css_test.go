// FILE: livery/css_test.go
package livery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestToCSSString tests single-theme serialization
func TestToCSSString(t *testing.T) {
	schema := MustSchema(testDefs())

	css, err := ToCSSString(schema, schema.DefaultTheme())
	require.NoError(t, err)

	want := `:root {
  --brand-primary: #7c3aed;
  --brand-radius: 8px;
  --brand-secondary: #10b981;
  --font-body: Inter, sans-serif;
  --font-scale: 1.25;
  --name: default;
}
`
	assert.Equal(t, want, css)

	t.Run("DeterministicAcrossCalls", func(t *testing.T) {
		again, err := ToCSSString(schema, schema.DefaultTheme())
		require.NoError(t, err)
		assert.Equal(t, css, again)
	})

	t.Run("NilSchema", func(t *testing.T) {
		_, err := ToCSSString(nil, Theme{})
		assert.ErrorIs(t, err, ErrNilSchema)
	})
}

// TestToCSSStringOptions tests prefix and separator control
func TestToCSSStringOptions(t *testing.T) {
	schema := MustSchema(testDefs())

	css, err := ToCSSString(schema, schema.DefaultTheme(), CSSOptions{
		Prefix:    "lv",
		Separator: "_",
	})
	require.NoError(t, err)

	assert.Contains(t, css, "--lv_brand_primary: #7c3aed;")
	assert.Contains(t, css, "--lv_font_scale: 1.25;")
	assert.NotContains(t, css, "--brand-primary")
}

// TestToCSSStringValueRendering tests value normalization in declarations
func TestToCSSStringValueRendering(t *testing.T) {
	schema := MustSchema(testDefs())

	theme, err := Merge(schema, map[string]any{
		"brand": map[string]any{"primary": "  #ffffff  "},
		"font":  map[string]any{"scale": 2},
	})
	require.NoError(t, err)

	css, err := ToCSSString(schema, theme)
	require.NoError(t, err)

	assert.Contains(t, css, "--brand-primary: #ffffff;")
	assert.Contains(t, css, "--font-scale: 2;")
}

// TestToCSSStringIncompleteTheme tests rejection of hand-built partial trees
func TestToCSSStringIncompleteTheme(t *testing.T) {
	schema := MustSchema(testDefs())

	_, err := ToCSSString(schema, Theme{"brand": map[string]any{"primary": "#fff"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing schema path")
}

// TestToCSSStringAll tests multi-theme serialization
func TestToCSSStringAll(t *testing.T) {
	schema := MustSchema(testDefs())

	light, err := Merge(schema, map[string]any{
		"brand": map[string]any{"primary": "#ffffff"},
	})
	require.NoError(t, err)
	dark, err := Merge(schema, map[string]any{
		"brand": map[string]any{"primary": "#000000"},
	})
	require.NoError(t, err)

	themes := map[string]Theme{"light": light, "dark": dark}

	css, err := ToCSSStringAll(schema, themes, "light")
	require.NoError(t, err)

	t.Run("RootCarriesDefault", func(t *testing.T) {
		rootBlock := css[:strings.Index(css, "}")]
		assert.True(t, strings.HasPrefix(css, ":root {\n"))
		assert.Contains(t, rootBlock, "--brand-primary: #ffffff;")
	})

	t.Run("ScopedBlocksSortedByID", func(t *testing.T) {
		darkIdx := strings.Index(css, `[data-theme="dark"] {`)
		lightIdx := strings.Index(css, `[data-theme="light"] {`)
		require.Greater(t, darkIdx, 0)
		require.Greater(t, lightIdx, 0)
		assert.Less(t, darkIdx, lightIdx)

		darkBlock := css[darkIdx:]
		darkBlock = darkBlock[:strings.Index(darkBlock, "}")]
		assert.Contains(t, darkBlock, "--brand-primary: #000000;")
	})

	t.Run("InvalidThemeID", func(t *testing.T) {
		bad := map[string]Theme{"light": light, `we"ird`: dark}
		_, err := ToCSSStringAll(schema, bad, "light")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid theme identifier")

		_, err = ToCSSStringAll(schema, map[string]Theme{"café": light}, "café")
		assert.Error(t, err)
	})

	t.Run("DefaultMissing", func(t *testing.T) {
		_, err := ToCSSStringAll(schema, themes, "corporate")
		assert.ErrorIs(t, err, ErrDefaultThemeMissing)
	})

	t.Run("NilSchema", func(t *testing.T) {
		_, err := ToCSSStringAll(nil, themes, "light")
		assert.ErrorIs(t, err, ErrNilSchema)
	})
}

// TestPropertyName tests custom-property name construction
func TestPropertyName(t *testing.T) {
	assert.Equal(t, "--brand-primary", PropertyName("brand.primary"))
	assert.Equal(t, "--lv-brand-primary", PropertyName("brand.primary", CSSOptions{Prefix: "lv", Separator: "-"}))
	assert.Equal(t, "--t_font_scale", PropertyName("font.scale", CSSOptions{Prefix: "t", Separator: "_"}))
	assert.Equal(t, "--name", PropertyName("name"))
}
