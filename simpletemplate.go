// Package simpletemplate renders a small placeholder language against
// JSON-shaped data.
//
// # Quick Start
//
//	out := simpletemplate.Render("Hello {{ name }}!", map[string]any{"name": "World"})
//	fmt.Println(out) // Output: Hello World!
//
// Render never fails: missing keys render as null, malformed blocks are kept
// as literal text. Use an Environment for named templates, custom delimiters
// and strict error reporting.
//
// # Template Syntax
//
//	{{ name }}                                          variable
//	{{ name[2] }}                                       array element
//	{{ for item in items }} ... {{ endfor }}            loop
//	{{ if flag }} ... {{ else }} ... {{ endif }}        conditional
//	{{ index }}                                         position inside a loop
//
// Names are looked up as top-level keys of the data. A variable holding an
// array renders as its elements joined by ", ". Inside a loop body,
// {{ item }} renders the current element and {{ index }} its 0-based
// position. Leading newlines of a loop body are dropped, and both branches
// of a conditional are trimmed of surrounding whitespace.
//
// A conditional takes its else branch when the value is null, missing,
// false or the string "false". Every other value is true, including 0 and
// the empty string.
//
// # Environment Configuration
//
//	env := simpletemplate.NewEnvironment(
//	    simpletemplate.WithUndefinedBehavior(simpletemplate.UndefinedStrict),
//	    simpletemplate.WithLogger(logrus.WithField("component", "templates")),
//	)
//	env.SetLoader(simpletemplate.PathLoader("./templates"))
//	tmpl, err := env.GetTemplate("index.html")
//	if err != nil {
//	    return err
//	}
//	out, err := tmpl.Render(data)
//
// # Error Handling
//
// Errors returned by an Environment or a Template are *Error values:
//
//	if _, err := tmpl.Render(data); err != nil {
//	    var e *simpletemplate.Error
//	    if errors.As(err, &e) && e.Kind == simpletemplate.ErrUndefinedVar {
//	        fmt.Printf("%+v\n", e) // message plus the template lines around it
//	    }
//	}
package simpletemplate

import (
	"github.com/simpletemplate/simpletemplate-go/value"
)

// Value is a dynamically typed template value.
type Value = value.Value

// ValueKind describes the type of a Value.
type ValueKind = value.ValueKind

const (
	KindUndefined = value.KindUndefined
	KindNone      = value.KindNone
	KindBool      = value.KindBool
	KindNumber    = value.KindNumber
	KindString    = value.KindString
	KindSeq       = value.KindSeq
	KindMap       = value.KindMap
)

// Value constructors
var (
	Undefined  = value.Undefined
	None       = value.None
	FromBool   = value.FromBool
	FromInt    = value.FromInt
	FromFloat  = value.FromFloat
	FromString = value.FromString
	FromSlice  = value.FromSlice
	FromMap    = value.FromMap
	FromAny    = value.FromAny
)

var defaultEnv = NewEnvironment(WithLogger(discardLogger()))

// Render renders template against data with the default settings.
//
// data is converted with FromAny; anything that is not a map or struct
// behaves like an empty object. Render never fails.
func Render(template string, data any) string {
	tmpl, err := defaultEnv.TemplateFromString(template)
	if err != nil {
		return template
	}
	out, err := tmpl.Render(data)
	if err != nil {
		return ""
	}
	return out
}
