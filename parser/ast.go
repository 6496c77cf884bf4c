package parser

import (
	"fmt"
	"strings"

	"github.com/simpletemplate/simpletemplate-go/lexer"
)

// Span represents a location range in source code.
type Span = lexer.Span

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()
	Span() Span
}

// Template is the root node of a parsed template.
type Template struct {
	Children []Node

	// Warnings lists the malformed blocks that were demoted to literal text
	// while parsing leniently.
	Warnings []*Error
	span     Span
}

func (t *Template) node()      {}
func (t *Template) Span() Span { return t.span }

// EmitRaw outputs raw template text.
type EmitRaw struct {
	Raw  string
	span Span
}

func (e *EmitRaw) node()      {}
func (e *EmitRaw) Span() Span { return e.span }

// EmitVar outputs a variable: `{{ name }}`.
type EmitVar struct {
	Name string
	span Span
}

func (e *EmitVar) node()      {}
func (e *EmitVar) Span() Span { return e.span }

// EmitIndex outputs one element of an array: `{{ name[3] }}`.
//
// Index is -1 when the digits do not fit in an int; such an index is always
// out of range.
type EmitIndex struct {
	Name  string
	Index int
	span  Span
}

func (e *EmitIndex) node()      {}
func (e *EmitIndex) Span() Span { return e.span }

// ForLoop represents `{{ for Var in Iter }} Body {{ endfor }}`.
//
// Leading newlines of the body have already been stripped.
type ForLoop struct {
	Var  string
	Iter string
	Body []Node
	span Span
}

func (f *ForLoop) node()      {}
func (f *ForLoop) Span() Span { return f.span }

// IfCond represents `{{ if Cond }} TrueBody [{{ else }} FalseBody] {{ endif }}`.
//
// The whitespace around the rendered branch is trimmed at render time.
// FalseBody is nil when there is no else branch.
type IfCond struct {
	Cond      string
	TrueBody  []Node
	FalseBody []Node
	span      Span
}

func (i *IfCond) node()      {}
func (i *IfCond) Span() Span { return i.span }

// Dump returns an indented debug representation of an AST.
func Dump(n Node) string {
	var sb strings.Builder
	dumpNode(&sb, n, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *Template:
		fmt.Fprintf(sb, "%sTemplate\n", indent)
		dumpNodes(sb, n.Children, depth+1)
	case *EmitRaw:
		fmt.Fprintf(sb, "%sEmitRaw(%q)\n", indent, n.Raw)
	case *EmitVar:
		fmt.Fprintf(sb, "%sEmitVar(%s)\n", indent, n.Name)
	case *EmitIndex:
		fmt.Fprintf(sb, "%sEmitIndex(%s[%d])\n", indent, n.Name, n.Index)
	case *ForLoop:
		fmt.Fprintf(sb, "%sForLoop(%s in %s)\n", indent, n.Var, n.Iter)
		dumpNodes(sb, n.Body, depth+1)
	case *IfCond:
		fmt.Fprintf(sb, "%sIfCond(%s)\n", indent, n.Cond)
		dumpNodes(sb, n.TrueBody, depth+1)
		if n.FalseBody != nil {
			fmt.Fprintf(sb, "%sElse\n", indent)
			dumpNodes(sb, n.FalseBody, depth+1)
		}
	}
}

func dumpNodes(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		dumpNode(sb, n, depth)
	}
}
