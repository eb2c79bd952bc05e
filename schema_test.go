// FILE: livery/schema_test.go
package livery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() map[string]any {
	return map[string]any{
		"brand": map[string]any{
			"primary":   Token{Type: TypeColor, Default: "#7c3aed"},
			"secondary": Token{Type: TypeColor, Default: "#10b981"},
			"radius":    Token{Type: TypeDimension, Default: "8px"},
		},
		"font": map[string]any{
			"body":  Token{Type: TypeFontFamily, Default: "Inter, sans-serif"},
			"scale": Token{Type: TypeNumber, Default: 1.25},
		},
		"name": Token{Type: TypeString, Default: "default"},
	}
}

// TestSchemaConstruction tests building a schema from a nested definition tree
func TestSchemaConstruction(t *testing.T) {
	schema, err := NewSchema(testDefs())
	require.NoError(t, err)
	require.NotNil(t, schema)

	t.Run("LeafCount", func(t *testing.T) {
		assert.Equal(t, 6, schema.Len())
	})

	t.Run("DeterministicPathOrder", func(t *testing.T) {
		want := []string{
			"brand.primary",
			"brand.radius",
			"brand.secondary",
			"font.body",
			"font.scale",
			"name",
		}
		assert.Equal(t, want, schema.Paths())

		// Construction from an equivalent tree yields the same order.
		again, err := NewSchema(testDefs())
		require.NoError(t, err)
		assert.Equal(t, schema.Paths(), again.Paths())
	})

	t.Run("TokenLookup", func(t *testing.T) {
		tok, ok := schema.Token("brand.primary")
		require.True(t, ok)
		assert.Equal(t, TypeColor, tok.Type)
		assert.Equal(t, "#7c3aed", tok.Default)

		_, ok = schema.Token("brand.missing")
		assert.False(t, ok)
	})

	t.Run("PointerLeaves", func(t *testing.T) {
		s, err := NewSchema(map[string]any{
			"accent": &Token{Type: TypeColor, Default: "#fff"},
		})
		require.NoError(t, err)
		tok, ok := s.Token("accent")
		require.True(t, ok)
		assert.Equal(t, "#fff", tok.Default)
	})
}

// TestDefaultTheme tests the derived default theme
func TestDefaultTheme(t *testing.T) {
	schema := MustSchema(testDefs())

	theme := schema.DefaultTheme()

	val, ok := theme.Value("brand.primary")
	require.True(t, ok)
	assert.Equal(t, "#7c3aed", val)

	val, ok = theme.Value("font.scale")
	require.True(t, ok)
	assert.Equal(t, 1.25, val)

	t.Run("ReturnsACopy", func(t *testing.T) {
		theme := schema.DefaultTheme()
		setNestedValue(theme, "brand.primary", "#000000")

		fresh := schema.DefaultTheme()
		val, _ := fresh.Value("brand.primary")
		assert.Equal(t, "#7c3aed", val)
	})

	t.Run("EveryLeafPopulated", func(t *testing.T) {
		flat := schema.DefaultTheme().Flatten()
		assert.Len(t, flat, schema.Len())
		for _, path := range schema.Paths() {
			assert.Contains(t, flat, path)
		}
	})
}

// TestSchemaDefinitionErrors tests fail-fast construction
func TestSchemaDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		defs    map[string]any
		wantErr error
		errMsg  string
	}{
		{
			name:    "UnknownTokenType",
			defs:    map[string]any{"x": Token{Type: "gradient", Default: "x"}},
			wantErr: ErrUnknownTokenType,
		},
		{
			name:   "InvalidSegment",
			defs:   map[string]any{"bad key!": Token{Type: TypeString, Default: "x"}},
			errMsg: "invalid path segment",
		},
		{
			name:    "EmptyKey",
			defs:    map[string]any{"": Token{Type: TypeString, Default: "x"}},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "EmptySchema",
			defs:    map[string]any{},
			wantErr: ErrEmptySchema,
		},
		{
			name:   "DefaultViolatesType",
			defs:   map[string]any{"c": Token{Type: TypeColor, Default: "not-a-color"}},
			errMsg: `default for "c"`,
		},
		{
			name:   "UnsupportedLeafValue",
			defs:   map[string]any{"n": 42},
			errMsg: "must be a Token or a nested map",
		},
		{
			name:   "NilTokenPointer",
			defs:   map[string]any{"n": (*Token)(nil)},
			errMsg: "nil token definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.defs)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

// TestMustSchema tests the panicking constructor
func TestMustSchema(t *testing.T) {
	assert.NotPanics(t, func() {
		MustSchema(testDefs())
	})
	assert.Panics(t, func() {
		MustSchema(map[string]any{"x": Token{Type: "nope", Default: "x"}})
	})
}

// TestHasPrefix tests subtree queries
func TestHasPrefix(t *testing.T) {
	schema := MustSchema(testDefs())

	assert.True(t, schema.HasPrefix("brand"))
	assert.True(t, schema.HasPrefix("brand."))
	assert.True(t, schema.HasPrefix("name"))
	assert.False(t, schema.HasPrefix("bran"))
	assert.False(t, schema.HasPrefix("spacing"))
}
