package value

import (
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// compactJSON writes arrays and objects the way they appear in rendered
// output: no whitespace, object keys sorted, no HTML escaping.
var compactJSON = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: false,
}.Froze()

// String returns the display text of a single value.
//
// Strings render as their raw content. Every other kind renders as its JSON
// text: null (also for undefined), true, false, integers in decimal, floats
// in shortest round-trip form, and arrays and objects as compact JSON.
func (v Value) String() string {
	switch d := v.data.(type) {
	case string:
		return d
	case bool:
		if d {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(d, 10)
	case float64:
		return FormatFloat(d)
	case []Value, map[string]Value:
		return v.JSON()
	default:
		return "null"
	}
}

// Display returns the text a bare variable reference renders as. Arrays
// render as their elements' String() joined by ", "; every other value
// renders as String().
func (v Value) Display() string {
	s, ok := v.data.([]Value)
	if !ok {
		return v.String()
	}
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

// JSON returns the compact JSON encoding of the value. Strings are quoted.
func (v Value) JSON() string {
	out, err := compactJSON.MarshalToString(v.jsonData())
	if err != nil {
		return "null"
	}
	return out
}

// jsonFloat carries a float through the JSON encoder so that it is written
// by FormatFloat instead of the encoder's own float formatting.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	return []byte(FormatFloat(float64(f))), nil
}

func (v Value) jsonData() any {
	switch d := v.data.(type) {
	case bool, int64, string:
		return d
	case float64:
		return jsonFloat(d)
	case []Value:
		out := make([]any, len(d))
		for i, item := range d {
			out[i] = item.jsonData()
		}
		return out
	case map[string]Value:
		out := make(map[string]any, len(d))
		for k, item := range d {
			out[k] = item.jsonData()
		}
		return out
	default:
		return nil
	}
}

// FormatFloat formats a float in shortest round-trip form.
//
// Whole numbers keep a trailing ".0". Numbers whose decimal exponent falls
// outside [-5, 16) use exponent notation without a plus sign or padding
// (1e16, 1.5e-7). NaN and infinities have no JSON form and render as null.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	// d.ddde±xx with the shortest digits that round-trip.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	sign := ""
	if sci[0] == '-' {
		sign = "-"
		sci = sci[1:]
	}
	mantissa, expText, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expText)

	// The value is 0.digits * 10^point.
	point := exp + 1
	n := len(digits)

	var sb strings.Builder
	sb.WriteString(sign)
	switch {
	case point >= n && point <= 16:
		sb.WriteString(digits)
		sb.WriteString(strings.Repeat("0", point-n))
		sb.WriteString(".0")
	case point > 0 && point <= 16:
		sb.WriteString(digits[:point])
		sb.WriteByte('.')
		sb.WriteString(digits[point:])
	case point > -5 && point <= 0:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -point))
		sb.WriteString(digits)
	default:
		sb.WriteString(digits[:1])
		if n > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		sb.WriteString(strconv.Itoa(point - 1))
	}
	return sb.String()
}
