// FILE: livery/validate.go
package livery

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
)

// Recognized value grammars, deliberately conservative:
//
//   - color: #rgb/#rgba/#rrggbb/#rrggbbaa hex forms, rgb()/rgba()/hsl()/hsla()
//     functional forms, the CSS named colors, and the transparent/currentColor
//     keywords. Anything else (var() references, lab(), gradients) is
//     rejected.
//   - dimension: an optionally signed decimal immediately followed by a unit
//     from a fixed allow-list, or the bare keyword 0.
//   - number: any finite numeric Go kind. Numeric strings are rejected; a
//     payload that quotes a number is malformed.
//   - string / fontFamily: any non-empty string.
var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	fnColorRe  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[^()]+\s*\)$`)
	dimensionRe = regexp.MustCompile(
		`^[+-]?(?:\d+|\d*\.\d+)(?:px|em|rem|ex|ch|vw|vh|vmin|vmax|%|pt|pc|in|cm|mm|q|fr|ms|s)$`)
)

// namedColors is the CSS named-color keyword set (Color Module Level 4).
var namedColors = map[string]bool{}

func init() {
	for _, name := range strings.Fields(`
		aliceblue antiquewhite aqua aquamarine azure beige bisque black
		blanchedalmond blue blueviolet brown burlywood cadetblue chartreuse
		chocolate coral cornflowerblue cornsilk crimson cyan darkblue darkcyan
		darkgoldenrod darkgray darkgreen darkgrey darkkhaki darkmagenta
		darkolivegreen darkorange darkorchid darkred darksalmon darkseagreen
		darkslateblue darkslategray darkslategrey darkturquoise darkviolet
		deeppink deepskyblue dimgray dimgrey dodgerblue firebrick floralwhite
		forestgreen fuchsia gainsboro ghostwhite gold goldenrod gray green
		greenyellow grey honeydew hotpink indianred indigo ivory khaki
		lavender lavenderblush lawngreen lemonchiffon lightblue lightcoral
		lightcyan lightgoldenrodyellow lightgray lightgreen lightgrey
		lightpink lightsalmon lightseagreen lightskyblue lightslategray
		lightslategrey lightsteelblue lightyellow lime limegreen linen
		magenta maroon mediumaquamarine mediumblue mediumorchid mediumpurple
		mediumseagreen mediumslateblue mediumspringgreen mediumturquoise
		mediumvioletred midnightblue mintcream mistyrose moccasin navajowhite
		navy oldlace olive olivedrab orange orangered orchid palegoldenrod
		palegreen paleturquoise palevioletred papayawhip peachpuff peru pink
		plum powderblue purple rebeccapurple red rosybrown royalblue
		saddlebrown salmon sandybrown seagreen seashell sienna silver skyblue
		slateblue slategray slategrey snow springgreen steelblue tan teal
		thistle tomato turquoise violet wheat white whitesmoke yellow
		yellowgreen`) {
		namedColors[name] = true
	}
}

// validateValue checks a single value against a token type. The zero return
// means the value is usable as-is in a resolved theme.
func validateValue(t TokenType, value any) error {
	switch t {
	case TypeString, TypeFontFamily:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("want non-empty string, got %T", value)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("want non-empty string, got %q", s)
		}
		return nil

	case TypeColor:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("want CSS color string, got %T", value)
		}
		if !isColor(strings.TrimSpace(s)) {
			return fmt.Errorf("unrecognized color syntax %q", s)
		}
		return nil

	case TypeDimension:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("want CSS dimension string, got %T", value)
		}
		if !isDimension(strings.TrimSpace(s)) {
			return fmt.Errorf("unrecognized dimension syntax %q", s)
		}
		return nil

	case TypeNumber:
		if !isFiniteNumber(value) {
			return fmt.Errorf("want finite number, got %T (%v)", value, value)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownTokenType, t)
}

func isColor(s string) bool {
	if s == "" {
		return false
	}
	if hexColorRe.MatchString(s) {
		return true
	}
	lower := strings.ToLower(s)
	if lower == "transparent" || lower == "currentcolor" {
		return true
	}
	if namedColors[lower] {
		return true
	}
	return fnColorRe.MatchString(lower)
}

func isDimension(s string) bool {
	if s == "0" {
		// Unitless zero is valid for every CSS length.
		return true
	}
	return dimensionRe.MatchString(s)
}

func isFiniteNumber(value any) bool {
	if value == nil {
		return false
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return false
}
