// FILE: livery/css.go
package livery

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// CSSOptions controls custom-property naming.
type CSSOptions struct {
	// Prefix is prepended to every property name, e.g. prefix "lv" turns
	// brand.primary into --lv-brand-primary. Empty means no prefix.
	Prefix string

	// Separator joins path segments (and the prefix). Defaults to "-".
	Separator string
}

// DefaultCSSOptions returns the standard serialization options.
func DefaultCSSOptions() CSSOptions {
	return CSSOptions{Separator: "-"}
}

// ToCSSString flattens a resolved theme into CSS custom-property declarations
// wrapped in a :root block. One declaration is emitted per schema leaf, in the
// schema's path enumeration order; values are emitted verbatim apart from
// surrounding-whitespace normalization.
func ToCSSString(schema *Schema, theme Theme, opts ...CSSOptions) (string, error) {
	if schema == nil {
		return "", ErrNilSchema
	}

	opt := DefaultCSSOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.Separator == "" {
			opt.Separator = "-"
		}
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	if err := writeDeclarations(&b, schema, theme, opt); err != nil {
		return "", err
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// ToCSSStringAll serializes a pre-resolved theme set into one selector-scoped
// rule block per theme identifier ([data-theme="id"]), ordered by identifier.
// The default theme's declarations are additionally emitted under the bare
// :root selector so a page has a valid appearance before any attribute is
// set. Fails if defaultID is not a key of themes, or if any identifier falls
// outside the key-segment alphabet; identifiers are emitted inside attribute
// selectors and are not escaped.
func ToCSSStringAll(schema *Schema, themes map[string]Theme, defaultID string, opts ...CSSOptions) (string, error) {
	if schema == nil {
		return "", ErrNilSchema
	}
	if _, ok := themes[defaultID]; !ok {
		return "", fmt.Errorf("%w: %q", ErrDefaultThemeMissing, defaultID)
	}

	opt := DefaultCSSOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.Separator == "" {
			opt.Separator = "-"
		}
	}

	ids := make([]string, 0, len(themes))
	for id := range themes {
		if !isValidKeySegment(id) {
			return "", fmt.Errorf("invalid theme identifier %q", id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder

	b.WriteString(":root {\n")
	if err := writeDeclarations(&b, schema, themes[defaultID], opt); err != nil {
		return "", err
	}
	b.WriteString("}\n")

	for _, id := range ids {
		fmt.Fprintf(&b, "\n[data-theme=%q] {\n", id)
		if err := writeDeclarations(&b, schema, themes[id], opt); err != nil {
			return "", err
		}
		b.WriteString("}\n")
	}

	return b.String(), nil
}

// PropertyName returns the custom-property name for a schema path under the
// given options, e.g. "brand.primary" -> "--lv-brand-primary". Exposed so
// consumers can build matching var() references.
func PropertyName(path string, opts ...CSSOptions) string {
	opt := DefaultCSSOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.Separator == "" {
			opt.Separator = "-"
		}
	}
	return propertyName(path, opt)
}

func propertyName(path string, opt CSSOptions) string {
	segments := strings.Split(path, ".")
	if opt.Prefix != "" {
		segments = append([]string{opt.Prefix}, segments...)
	}
	return "--" + strings.Join(segments, opt.Separator)
}

func writeDeclarations(b *strings.Builder, schema *Schema, theme Theme, opt CSSOptions) error {
	for _, path := range schema.paths {
		value, ok := theme.Value(path)
		if !ok {
			// Themes produced by Merge are complete; hitting this means the
			// caller hand-built the tree.
			return fmt.Errorf("theme is missing schema path %q", path)
		}
		fmt.Fprintf(b, "  %s: %s;\n", propertyName(path, opt), cssValue(value))
	}
	return nil
}

// cssValue renders a token value as CSS text. Strings are trimmed, numbers
// rendered in plain decimal notation.
func cssValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}

	return strings.TrimSpace(fmt.Sprintf("%v", value))
}
