// Package value provides the dynamic value type templates are rendered
// against.
//
// A Value mirrors the JSON data model: null, booleans, numbers, strings,
// arrays and objects. A sixth kind, Undefined, is produced by lookups of
// keys that do not exist; it behaves like null everywhere except that the
// renderer can tell the two apart when strict undefined handling is enabled.
//
// # Example Usage
//
//	ctx := value.FromMap(map[string]value.Value{
//	    "name":  value.FromString("World"),
//	    "items": value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)}),
//	})
//
//	ctx.GetAttr("name").String()   // World
//	ctx.GetAttr("items").Display() // 1, 2
//	ctx.GetAttr("nope").String()   // null
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ValueKind describes the type of a Value.
type ValueKind int

const (
	// KindUndefined is the result of looking up a missing key or an out of
	// range index.
	KindUndefined ValueKind = iota

	// KindNone represents an explicit null.
	KindNone

	// KindBool represents true or false.
	KindBool

	// KindNumber represents an integer (int64) or a float (float64).
	KindNumber

	// KindString represents a text string.
	KindString

	// KindSeq represents an array.
	KindSeq

	// KindMap represents an object with string keys.
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNone:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSeq:
		return "array"
	case KindMap:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a dynamically typed, read-only template value.
//
// Sequences and maps reference the slice or map they were built from. The
// renderer never modifies them.
type Value struct {
	data any
}

type undefinedType struct{}
type noneType struct{}

// Undefined returns the undefined value.
func Undefined() Value {
	return Value{data: undefinedType{}}
}

// None returns the null value.
func None() Value {
	return Value{data: noneType{}}
}

// FromBool creates a Value from a boolean.
func FromBool(v bool) Value {
	return Value{data: v}
}

// FromInt creates a Value from an int64.
func FromInt(v int64) Value {
	return Value{data: v}
}

// FromFloat creates a Value from a float64.
//
// Floats keep their kind even when they hold a whole number, so
// FromFloat(2) renders as "2.0".
func FromFloat(v float64) Value {
	return Value{data: v}
}

// FromString creates a Value from a string.
func FromString(v string) Value {
	return Value{data: v}
}

// FromSlice creates an array Value.
func FromSlice(v []Value) Value {
	if v == nil {
		v = []Value{}
	}
	return Value{data: v}
}

// FromMap creates an object Value.
func FromMap(v map[string]Value) Value {
	if v == nil {
		v = map[string]Value{}
	}
	return Value{data: v}
}

// FromAny creates a Value from any Go value using reflection.
//
// The conversion follows encoding/json conventions:
//   - nil, nil pointers, nil maps and nil interfaces -> None()
//   - bool -> FromBool()
//   - signed and unsigned integers -> FromInt()
//   - floats -> FromFloat(), except whole numbers, which become FromInt()
//   - json.Number -> FromInt() when it parses as an int64, FromFloat() otherwise
//   - string -> FromString(); []byte -> FromString()
//   - slices and arrays -> FromSlice() (recursively)
//   - maps -> FromMap() with keys formatted by fmt (recursively)
//   - structs -> FromMap() using exported fields and their json tags
//
// Example usage:
//
//	data := FromAny(map[string]any{
//	    "name": "Alice",
//	    "tags": []string{"admin", "user"},
//	})
func FromAny(v any) Value {
	if v == nil {
		return None()
	}
	if val, ok := v.(Value); ok {
		return val
	}
	return fromReflectValue(reflect.ValueOf(v))
}

var (
	valueType  = reflect.TypeOf(Value{})
	numberType = reflect.TypeOf(json.Number(""))
)

func fromReflectValue(rv reflect.Value) Value {
	if !rv.IsValid() {
		return None()
	}

	switch rv.Type() {
	case valueType:
		return rv.Interface().(Value)
	case numberType:
		return FromNumber(rv.String())
	}

	switch rv.Kind() {
	case reflect.Bool:
		return FromBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return FromFloat(float64(u))
		}
		return FromInt(int64(u))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// Whole floats become integers, the same as numbers decoded from JSON
		// into interface{} and converted here.
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return FromInt(int64(f))
		}
		return FromFloat(f)
	case reflect.String:
		return FromString(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return None()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return FromString(string(rv.Bytes()))
		}
		return fromList(rv)
	case reflect.Array:
		return fromList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return None()
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			m[key] = fromReflectValue(iter.Value())
		}
		return FromMap(m)
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return None()
		}
		return fromReflectValue(rv.Elem())
	default:
		return FromString(fmt.Sprintf("%v", rv.Interface()))
	}
}

func fromList(rv reflect.Value) Value {
	slice := make([]Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		slice[i] = fromReflectValue(rv.Index(i))
	}
	return FromSlice(slice)
}

func fromStruct(rv reflect.Value) Value {
	t := rv.Type()
	m := make(map[string]Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		m[name] = fromReflectValue(rv.Field(i))
	}
	return FromMap(m)
}

// FromNumber creates a number Value from its decimal text, as found in a
// JSON document. Text that parses as an int64 becomes an integer; anything
// else is parsed as a float. Unparseable text becomes a string.
func FromNumber(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromFloat(f)
	}
	return FromString(s)
}

// Kind returns the kind of value.
func (v Value) Kind() ValueKind {
	switch v.data.(type) {
	case noneType:
		return KindNone
	case bool:
		return KindBool
	case int64, float64:
		return KindNumber
	case string:
		return KindString
	case []Value:
		return KindSeq
	case map[string]Value:
		return KindMap
	default:
		return KindUndefined
	}
}

// IsUndefined returns true for the result of a failed lookup, including the
// zero Value.
func (v Value) IsUndefined() bool {
	return v.Kind() == KindUndefined
}

// IsNone returns true for an explicit null.
func (v Value) IsNone() bool {
	return v.Kind() == KindNone
}

// IsFalsy reports whether the value counts as false in a conditional.
//
// Exactly three kinds of value are falsy: null (including undefined), the
// boolean false and the string "false". Everything else is truthy, including
// 0, "", "true", empty arrays and empty objects.
func (v Value) IsFalsy() bool {
	switch d := v.data.(type) {
	case bool:
		return !d
	case string:
		return d == "false"
	case int64, float64, []Value, map[string]Value:
		return false
	default:
		return true
	}
}

// AsString returns the string value if it is one.
func (v Value) AsString() (string, bool) {
	s, ok := v.data.(string)
	return s, ok
}

// AsInt returns the integer value if it is one. Floats holding a whole
// number convert as well.
func (v Value) AsInt() (int64, bool) {
	switch d := v.data.(type) {
	case int64:
		return d, true
	case float64:
		if d == math.Trunc(d) && d >= math.MinInt64 && d < math.MaxInt64 {
			return int64(d), true
		}
	}
	return 0, false
}

// AsFloat returns the float value if it is numeric.
func (v Value) AsFloat() (float64, bool) {
	switch d := v.data.(type) {
	case int64:
		return float64(d), true
	case float64:
		return d, true
	default:
		return 0, false
	}
}

// AsBool returns the boolean value if it is one.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok
}

// AsSlice returns the elements if the value is an array.
func (v Value) AsSlice() ([]Value, bool) {
	s, ok := v.data.([]Value)
	return s, ok
}

// AsMap returns the entries if the value is an object.
func (v Value) AsMap() (map[string]Value, bool) {
	m, ok := v.data.(map[string]Value)
	return m, ok
}

// Len returns the number of elements of an array or entries of an object.
func (v Value) Len() (int, bool) {
	switch d := v.data.(type) {
	case []Value:
		return len(d), true
	case map[string]Value:
		return len(d), true
	default:
		return 0, false
	}
}

// GetAttr looks up a key of an object. It returns Undefined() when the
// value is not an object or has no such key.
func (v Value) GetAttr(name string) Value {
	if m, ok := v.data.(map[string]Value); ok {
		if val, exists := m[name]; exists {
			return val
		}
	}
	return Undefined()
}

// GetItem returns the element at idx of an array. It returns Undefined()
// when the value is not an array or idx is out of range. Negative indexes
// are out of range.
func (v Value) GetItem(idx int) Value {
	if s, ok := v.data.([]Value); ok && idx >= 0 && idx < len(s) {
		return s[idx]
	}
	return Undefined()
}

// Keys returns the keys of an object in sorted order.
func (v Value) Keys() []string {
	m, ok := v.data.(map[string]Value)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the value as plain Go data: nil, bool, int64, float64,
// string, []any or map[string]any.
func (v Value) Raw() any {
	switch d := v.data.(type) {
	case bool, int64, float64, string:
		return d
	case []Value:
		out := make([]any, len(d))
		for i, item := range d {
			out[i] = item.Raw()
		}
		return out
	case map[string]Value:
		out := make(map[string]any, len(d))
		for k, item := range d {
			out[k] = item.Raw()
		}
		return out
	default:
		return nil
	}
}
