// FILE: livery/schema.go
package livery

import (
	"fmt"
	"sort"
	"strings"
)

// TokenType is the semantic type of a design token leaf.
type TokenType string

const (
	TypeString     TokenType = "string"
	TypeColor      TokenType = "color"
	TypeDimension  TokenType = "dimension"
	TypeFontFamily TokenType = "fontFamily"
	TypeNumber     TokenType = "number"
)

func (t TokenType) valid() bool {
	switch t {
	case TypeString, TypeColor, TypeDimension, TypeFontFamily, TypeNumber:
		return true
	}
	return false
}

// Token is a single schema leaf: a semantic type plus the default value used
// whenever a theme payload omits the corresponding path.
type Token struct {
	Type    TokenType `toml:"type" json:"type" yaml:"type"`
	Default any       `toml:"default" json:"default" yaml:"default"`
}

// Schema is the immutable tree of token definitions that defines the shape of
// every resolved Theme. Construct with NewSchema or MustSchema; a Schema is
// safe for concurrent use by any number of mergers, serializers, and
// resolvers.
type Schema struct {
	tokens   map[string]Token
	paths    []string // lexicographic by full dot path; serialization order
	defaults Theme
}

// NewSchema walks a nested definition tree and returns an immutable Schema.
// Tree values are either Token leaves or map[string]any subtrees. Path
// segments must be non-empty sequences of A-Za-z0-9, underscore, and dash.
// Every leaf default is validated against its declared type; a definition
// error here is a programmer error and should be treated as fatal.
func NewSchema(defs map[string]any) (*Schema, error) {
	s := &Schema{
		tokens:   make(map[string]Token),
		defaults: make(Theme),
	}

	if err := s.walkDefs("", defs); err != nil {
		return nil, err
	}
	if len(s.tokens) == 0 {
		return nil, ErrEmptySchema
	}

	// Leaf enumeration is byte-wise lexicographic on the full dot path,
	// independent of map iteration order.
	sort.Strings(s.paths)
	for _, path := range s.paths {
		setNestedValue(s.defaults, path, s.tokens[path].Default)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on a definition error. Intended for
// package-level schema declarations where a malformed definition must fail
// fast at startup.
func MustSchema(defs map[string]any) *Schema {
	s, err := NewSchema(defs)
	if err != nil {
		panic(fmt.Sprintf("livery: schema definition failed: %v", err))
	}
	return s
}

func (s *Schema) walkDefs(prefix string, defs map[string]any) error {
	for key, value := range defs {
		if !isValidKeySegment(key) {
			if key == "" {
				return fmt.Errorf("%w under %q", ErrEmptyPath, prefix)
			}
			return fmt.Errorf("%w: %q under %q", ErrInvalidPathSegment, key, prefix)
		}

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := value.(type) {
		case Token:
			if err := s.addToken(path, v); err != nil {
				return err
			}
		case *Token:
			if v == nil {
				return fmt.Errorf("nil token definition at %q", path)
			}
			if err := s.addToken(path, *v); err != nil {
				return err
			}
		case map[string]any:
			if err := s.walkDefs(path, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("definition at %q must be a Token or a nested map, got %T", path, value)
		}
	}
	return nil
}

func (s *Schema) addToken(path string, tok Token) error {
	if !tok.Type.valid() {
		return fmt.Errorf("%w: %q at %q", ErrUnknownTokenType, tok.Type, path)
	}
	if err := validateValue(tok.Type, tok.Default); err != nil {
		return fmt.Errorf("default for %q: %w", path, err)
	}
	s.tokens[path] = tok
	s.paths = append(s.paths, path)
	return nil
}

// Paths returns every leaf path in the schema's deterministic enumeration
// order. The returned slice is a copy.
func (s *Schema) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Token returns the definition at a leaf path.
func (s *Schema) Token(path string) (Token, bool) {
	tok, ok := s.tokens[path]
	return tok, ok
}

// Len returns the number of leaves in the schema.
func (s *Schema) Len() int {
	return len(s.tokens)
}

// DefaultTheme returns the theme derived from the schema's declared defaults:
// every leaf present, every value the leaf's default. The result is a deep
// copy the caller may mutate freely.
func (s *Schema) DefaultTheme() Theme {
	return s.defaults.clone()
}

// HasPrefix reports whether any leaf path starts with the given dot path.
// Useful for callers that gate on whole subtrees (e.g. "brand.").
func (s *Schema) HasPrefix(prefix string) bool {
	if _, ok := s.tokens[prefix]; ok {
		return true
	}
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	for _, p := range s.paths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
