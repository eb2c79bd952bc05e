// FILE: livery/theme.go
package livery

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Theme is a fully populated value tree whose shape mirrors a Schema: one
// value per schema leaf, no missing leaves, no extras. Themes are produced by
// Merge (or Schema.DefaultTheme) and never constructed directly from
// untrusted input; consumers may index any schema path without nil checks.
type Theme map[string]any

// Value returns the value at a dot path via plain recursive indexing.
// The second return is false when the path does not lead to a leaf.
func (t Theme) Value(path string) (any, bool) {
	v := navigateToPath(t, path)
	if v == nil {
		return nil, false
	}
	if _, isMap := v.(map[string]any); isMap {
		return nil, false
	}
	return v, true
}

// String retrieves a string-valued token (string, color, dimension, and
// fontFamily leaves are all strings). Attempts conversion from common types
// when the stored value is not already a string.
func (t Theme) String(path string) (string, error) {
	val, found := t.Value(path)
	if !found {
		return "", fmt.Errorf("no value at path %q", path)
	}

	if s, ok := val.(string); ok {
		return s, nil
	}

	switch v := val.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return "", fmt.Errorf("cannot convert type %T to string for path %q", val, path)
}

// Number retrieves a numeric token as float64. Attempts conversion from any
// numeric kind and from numeric strings.
func (t Theme) Number(path string) (float64, error) {
	val, found := t.Value(path)
	if !found {
		return 0, fmt.Errorf("no value at path %q", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		s := rv.String()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
		return 0, fmt.Errorf("cannot convert string %q to number for path %q", s, path)
	}

	return 0, fmt.Errorf("cannot convert type %T to number for path %q", val, path)
}

// Scan decodes the theme subtree under basePath into the target struct or
// map. The target must be a non-nil pointer. Fields map via the "livery"
// struct tag, falling back to field names. An empty basePath scans the whole
// theme.
func (t Theme) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	section := navigateToPath(t, basePath)
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section == nil {
			sectionMap = make(map[string]any)
		} else {
			return fmt.Errorf("theme path %q refers to a leaf (type %T), not a subtree", basePath, section)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "livery",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to scan theme subtree %q: %w", basePath, err)
	}

	return nil
}

// Flatten returns the theme as a flat path -> value map.
func (t Theme) Flatten() map[string]any {
	return flattenMap(t, "")
}

// clone deep-copies the theme tree. Leaf values are copied by assignment;
// merged themes hold only scalars.
func (t Theme) clone() Theme {
	out := make(Theme, len(t))
	for key, value := range t {
		if sub, isMap := value.(map[string]any); isMap {
			out[key] = map[string]any(Theme(sub).clone())
		} else {
			out[key] = value
		}
	}
	return out
}
