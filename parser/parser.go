// Package parser builds an AST from the token stream produced by the lexer.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simpletemplate/simpletemplate-go/internal/errors"
	"github.com/simpletemplate/simpletemplate-go/lexer"
)

// Error is the error type returned by Parse.
type Error = errors.Error

// Mode selects how malformed block structure is handled.
type Mode int

const (
	// Lenient demotes unclosed blocks to literal text and treats stray
	// `endfor`, `else` and `endif` tags as variables of that name.
	Lenient Mode = iota
	// Strict reports both as syntax errors.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Parser parses simpletemplate sources.
type Parser struct {
	tokens []lexer.Token
	pos    int
	name   string
	source string
	mode   Mode

	// closed reports, per token index, whether a for/if opener has a
	// matching closer. Only set in lenient mode.
	closed   []bool
	warnings []*Error
}

// Parse parses a template string and returns the AST or an error.
func Parse(source, name string, syntax lexer.SyntaxConfig, mode Mode) (*Template, error) {
	tokens, err := lexer.Tokenize(source, syntax)
	if err != nil {
		return nil, errors.NewError(errors.ErrBadDelimiters, err.Error()).WithName(name).WithCause(err)
	}

	p := &Parser{
		tokens: tokens,
		name:   name,
		source: source,
		mode:   mode,
	}
	if mode == Lenient {
		p.closed = pairBlocks(tokens)
	}

	tmpl, parseErr := p.parse()
	if parseErr != nil {
		return nil, parseErr
	}
	return tmpl, nil
}

// ParseDefault parses a template with the default delimiters in lenient
// mode. It never fails.
func ParseDefault(source, name string) *Template {
	tmpl, err := Parse(source, name, lexer.DefaultSyntax(), Lenient)
	if err != nil {
		panic(fmt.Sprintf("parser: lenient parse with default syntax failed: %v", err))
	}
	return tmpl
}

// pairBlocks finds the openers that have a closer, in one pass from the end
// of the token stream.
//
// A block scans forward for its own closer. It steps over nested blocks that
// are closed and reads every other closer as a variable. Where that scan
// stops depends only on the tokens after the opener, so walking backwards
// each opener can look up the nearest reachable closer of each kind.
func pairBlocks(tokens []lexer.Token) []bool {
	n := len(tokens)
	closed := make([]bool, n)

	// Nearest closer reachable by a scan starting at index i, or n.
	endfor := make([]int, n+1)
	elseOrEndif := make([]int, n+1)
	endif := make([]int, n+1)
	endfor[n], elseOrEndif[n], endif[n] = n, n, n

	for i := n - 1; i >= 0; i-- {
		next := i + 1
		switch tokens[i].Type {
		case lexer.TokenFor:
			if end := endfor[i+1]; end < n {
				closed[i], next = true, end+1
			}
		case lexer.TokenIf:
			end := elseOrEndif[i+1]
			if end < n && tokens[end].Type == lexer.TokenElse {
				end = endif[end+1]
			}
			if end < n {
				closed[i], next = true, end+1
			}
		}

		endfor[i], elseOrEndif[i], endif[i] = endfor[next], elseOrEndif[next], endif[next]
		switch tokens[i].Type {
		case lexer.TokenEndfor:
			endfor[i] = i
		case lexer.TokenElse:
			elseOrEndif[i] = i
		case lexer.TokenEndif:
			elseOrEndif[i], endif[i] = i, i
		}
	}
	return closed
}

func (p *Parser) parse() (*Template, *Error) {
	children, _, err := p.subparse(func(lexer.TokenType) bool { return false })
	if err != nil {
		return nil, err
	}
	span := Span{StartLine: 1}
	if len(p.tokens) > 0 {
		span = spanBetween(p.tokens[0].Span, p.tokens[len(p.tokens)-1].Span)
	}
	return &Template{
		Children: children,
		Warnings: p.warnings,
		span:     span,
	}, nil
}

// subparse collects nodes until a token accepted by isEnd is consumed or the
// input runs out, in which case the returned closer is nil. Adjacent raw
// text is joined into one node.
func (p *Parser) subparse(isEnd func(lexer.TokenType) bool) ([]Node, *lexer.Token, *Error) {
	var (
		nodes []Node
		text  []*EmitRaw
	)
	flush := func() {
		if len(text) > 0 {
			nodes = append(nodes, joinRaw(text))
			text = text[:0]
		}
	}

	for p.pos < len(p.tokens) {
		tok := &p.tokens[p.pos]
		if isEnd(tok.Type) {
			p.pos++
			flush()
			return nodes, tok, nil
		}
		node, err := p.parseStmt()
		if err != nil {
			return nil, nil, err
		}
		if raw, ok := node.(*EmitRaw); ok {
			text = append(text, raw)
			continue
		}
		flush()
		nodes = append(nodes, node)
	}
	flush()
	return nodes, nil, nil
}

func (p *Parser) parseStmt() (Node, *Error) {
	tok := &p.tokens[p.pos]
	switch tok.Type {
	case lexer.TokenTemplateData:
		p.pos++
		return &EmitRaw{Raw: tok.Value, span: tok.Span}, nil
	case lexer.TokenVar:
		p.pos++
		return &EmitVar{Name: tok.Name, span: tok.Span}, nil
	case lexer.TokenIndex:
		p.pos++
		idx, err := strconv.Atoi(tok.Index)
		if err != nil {
			idx = -1
		}
		return &EmitIndex{Name: tok.Name, Index: idx, span: tok.Span}, nil
	case lexer.TokenFor, lexer.TokenIf:
		return p.parseBlock()
	default:
		if p.mode == Strict {
			return nil, p.syntaxError(tok.Span, fmt.Sprintf("unexpected `%s` outside of a block", tok.Keyword()))
		}
		p.pos++
		return &EmitVar{Name: tok.Keyword(), span: tok.Span}, nil
	}
}

func (p *Parser) parseBlock() (Node, *Error) {
	start := p.pos
	tok := &p.tokens[start]
	p.pos++

	var (
		node Node
		err  *Error
	)
	switch {
	case p.closed != nil && !p.closed[start]:
		err = p.unclosed(tok)
	case tok.Type == lexer.TokenFor:
		node, err = p.parseFor(tok)
	default:
		node, err = p.parseIf(tok)
	}

	if err != nil {
		if p.mode == Strict {
			return nil, err
		}
		p.warnings = append(p.warnings, err)
		p.pos = start + 1
		return &EmitRaw{Raw: tok.Value, span: tok.Span}, nil
	}
	return node, nil
}

func (p *Parser) parseFor(open *lexer.Token) (Node, *Error) {
	body, closer, err := p.subparse(func(t lexer.TokenType) bool {
		return t == lexer.TokenEndfor
	})
	if err != nil {
		return nil, err
	}
	if closer == nil {
		return nil, p.unclosed(open)
	}
	return &ForLoop{
		Var:  open.Name,
		Iter: open.Iter,
		Body: trimLoopBody(body),
		span: spanBetween(open.Span, closer.Span),
	}, nil
}

func (p *Parser) parseIf(open *lexer.Token) (Node, *Error) {
	body, closer, err := p.subparse(func(t lexer.TokenType) bool {
		return t == lexer.TokenElse || t == lexer.TokenEndif
	})
	if err != nil {
		return nil, err
	}
	if closer == nil {
		return nil, p.unclosed(open)
	}

	cond := &IfCond{
		Cond:     open.Name,
		TrueBody: body,
	}
	if closer.Type == lexer.TokenElse {
		elseBody, endif, err := p.subparse(func(t lexer.TokenType) bool {
			return t == lexer.TokenEndif
		})
		if err != nil {
			return nil, err
		}
		if endif == nil {
			return nil, p.unclosed(open)
		}
		cond.FalseBody = elseBody
		if cond.FalseBody == nil {
			cond.FalseBody = []Node{}
		}
		closer = endif
	}
	cond.span = spanBetween(open.Span, closer.Span)
	return cond, nil
}

func (p *Parser) unclosed(open *lexer.Token) *Error {
	kind, closer := "for", "endfor"
	if open.Type == lexer.TokenIf {
		kind, closer = "if", "endif"
	}
	return p.syntaxError(open.Span, fmt.Sprintf("unclosed `%s` block, expected `%s`", kind, closer))
}

func (p *Parser) syntaxError(span Span, msg string) *Error {
	return errors.NewError(errors.ErrSyntax, msg).
		WithSpan(span).
		WithName(p.name).
		WithSource(p.source)
}

// joinRaw merges adjacent raw text so loop bodies see their whole leading
// text.
func joinRaw(pieces []*EmitRaw) *EmitRaw {
	if len(pieces) == 1 {
		return pieces[0]
	}
	size := 0
	for _, piece := range pieces {
		size += len(piece.Raw)
	}
	var sb strings.Builder
	sb.Grow(size)
	for _, piece := range pieces {
		sb.WriteString(piece.Raw)
	}
	return &EmitRaw{
		Raw:  sb.String(),
		span: spanBetween(pieces[0].span, pieces[len(pieces)-1].span),
	}
}

// trimLoopBody drops the newlines at the start of a loop body.
func trimLoopBody(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	raw, ok := nodes[0].(*EmitRaw)
	if !ok {
		return nodes
	}
	trimmed := strings.TrimLeft(raw.Raw, "\n")
	if trimmed == "" {
		nodes = nodes[1:]
	} else {
		nodes[0] = &EmitRaw{Raw: trimmed, span: raw.span}
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes
}

func spanBetween(start, end Span) Span {
	return Span{
		StartLine:   start.StartLine,
		StartCol:    start.StartCol,
		StartOffset: start.StartOffset,
		EndLine:     end.EndLine,
		EndCol:      end.EndCol,
		EndOffset:   end.EndOffset,
	}
}
