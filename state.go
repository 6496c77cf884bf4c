package simpletemplate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/simpletemplate/simpletemplate-go/internal/errors"
	"github.com/simpletemplate/simpletemplate-go/parser"
	"github.com/simpletemplate/simpletemplate-go/value"
)

// State holds the evaluation state during template rendering.
type State struct {
	name      string
	source    string
	ctx       value.Value
	undefined UndefinedBehavior
	loops     []loopFrame
	out       []segment
}

// segment is a piece of rendered output. Fixed segments hold the text of
// variables from the render context and are never trimmed by an enclosing
// `if`; raw text and loop bindings are.
type segment struct {
	text  string
	fixed bool
}

// loopFrame holds the two names a loop body binds: the loop variable,
// which renders the current element, and `index`.
type loopFrame struct {
	varName string
	item    value.Value
	index   int
}

func newState(name, source string, ctx value.Value, undefined UndefinedBehavior) *State {
	return &State{
		name:      name,
		source:    source,
		ctx:       ctx,
		undefined: undefined,
	}
}

// Name returns the name of the template being rendered.
func (s *State) Name() string {
	return s.name
}

// UndefinedBehavior returns the undefined behavior in effect.
func (s *State) UndefinedBehavior() UndefinedBehavior {
	return s.undefined
}

// Lookup resolves a top-level key of the render context. Loop bindings are
// not consulted.
func (s *State) Lookup(name string) value.Value {
	return s.ctx.GetAttr(name)
}

// lookupLoop finds the innermost loop binding for a bare variable.
func (s *State) lookupLoop(name string) (string, bool) {
	for i := len(s.loops) - 1; i >= 0; i-- {
		frame := s.loops[i]
		if name == frame.varName {
			return frame.item.String(), true
		}
		if name == "index" {
			return strconv.Itoa(frame.index), true
		}
	}
	return "", false
}

func (s *State) strict() bool {
	return s.undefined == UndefinedStrict
}

// emit appends rendered text. Fixed segments are kept even when empty so
// they still stop trimming.
func (s *State) emit(text string, fixed bool) {
	if text != "" || fixed {
		s.out = append(s.out, segment{text: text, fixed: fixed})
	}
}

// eval evaluates a template AST.
func (s *State) eval(tmpl *parser.Template) (string, error) {
	if err := s.evalNodes(tmpl.Children); err != nil {
		return "", err
	}
	size := 0
	for _, seg := range s.out {
		size += len(seg.text)
	}
	var sb strings.Builder
	sb.Grow(size)
	for _, seg := range s.out {
		sb.WriteString(seg.text)
	}
	return sb.String(), nil
}

func (s *State) evalNodes(nodes []parser.Node) error {
	for _, node := range nodes {
		if err := s.evalNode(node); err != nil {
			return s.attachErrorInfo(err, node)
		}
	}
	return nil
}

func (s *State) evalNode(node parser.Node) error {
	switch n := node.(type) {
	case *parser.EmitRaw:
		s.emit(n.Raw, false)
		return nil
	case *parser.EmitVar:
		return s.evalEmitVar(n)
	case *parser.EmitIndex:
		return s.evalEmitIndex(n)
	case *parser.ForLoop:
		return s.evalForLoop(n)
	case *parser.IfCond:
		return s.evalIfCond(n)
	default:
		return errors.Errorf(errors.ErrInvalidOperation, "unknown node type %T", node)
	}
}

func (s *State) evalEmitVar(n *parser.EmitVar) error {
	if text, ok := s.lookupLoop(n.Name); ok {
		s.emit(text, false)
		return nil
	}

	val := s.Lookup(n.Name)
	if val.IsUndefined() && s.strict() {
		return s.undefinedError(n.Name)
	}
	s.emit(val.Display(), true)
	return nil
}

func (s *State) evalEmitIndex(n *parser.EmitIndex) error {
	target := s.Lookup(n.Name)
	item := target.GetItem(n.Index)

	if item.IsUndefined() && s.strict() {
		if target.IsUndefined() {
			return s.undefinedError(n.Name)
		}
		if length, ok := target.Len(); ok && target.Kind() == value.KindSeq {
			return errors.Errorf(errors.ErrInvalidOperation,
				"index %s out of range for `%s` of length %d", indexText(n.Index), n.Name, length)
		}
		return errors.Errorf(errors.ErrInvalidOperation,
			"cannot index `%s` of type %s", n.Name, target.Kind())
	}
	s.emit(item.String(), true)
	return nil
}

func (s *State) evalForLoop(n *parser.ForLoop) error {
	iter := s.Lookup(n.Iter)
	if iter.IsUndefined() && s.strict() {
		return s.undefinedError(n.Iter)
	}

	items, ok := iter.AsSlice()
	if !ok {
		return nil
	}

	s.loops = append(s.loops, loopFrame{varName: n.Var})
	defer func() { s.loops = s.loops[:len(s.loops)-1] }()

	for idx, item := range items {
		frame := &s.loops[len(s.loops)-1]
		frame.item = item
		frame.index = idx
		if err := s.evalNodes(n.Body); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) evalIfCond(n *parser.IfCond) error {
	cond := s.Lookup(n.Cond)
	if cond.IsUndefined() && s.strict() {
		return s.undefinedError(n.Cond)
	}

	body := n.FalseBody
	if !cond.IsFalsy() {
		body = n.TrueBody
	}
	start := len(s.out)
	if err := s.evalNodes(body); err != nil {
		return err
	}
	s.trimSince(start)
	return nil
}

// trimSince strips the whitespace around the output produced since start,
// stopping at the first fixed segment on either side.
func (s *State) trimSince(start int) {
	for i := start; i < len(s.out) && !s.out[i].fixed; i++ {
		s.out[i].text = strings.TrimLeftFunc(s.out[i].text, unicode.IsSpace)
		if s.out[i].text != "" {
			break
		}
	}
	for i := len(s.out) - 1; i >= start && !s.out[i].fixed; i-- {
		s.out[i].text = strings.TrimRightFunc(s.out[i].text, unicode.IsSpace)
		if s.out[i].text != "" {
			break
		}
	}
}

func (s *State) undefinedError(name string) *Error {
	return errors.Errorf(errors.ErrUndefinedVar, "`%s` is undefined", name)
}

// attachErrorInfo fills in the template name, source and node span of a
// render error that does not have them yet.
func (s *State) attachErrorInfo(err error, node parser.Node) error {
	templErr, ok := err.(*Error)
	if !ok {
		return err
	}
	if templErr.Name == "" {
		templErr.WithName(s.name)
	}
	if templErr.Source == "" {
		templErr.WithSource(s.source)
	}
	if templErr.Span == nil && node != nil {
		templErr.WithSpan(node.Span())
	}
	return templErr
}

func indexText(idx int) string {
	if idx < 0 {
		return "(overflow)"
	}
	return fmt.Sprint(idx)
}
