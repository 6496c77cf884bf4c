package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes template source.
//
// Anything that looks like a placeholder but does not match one of the
// instruction shapes exactly is left in the surrounding template data.
type Lexer struct {
	source string
	pos    int
	line   uint32
	col    uint32
	syntax SyntaxConfig

	// tag found while scanning template data, emitted on the next call
	pending *Token
}

// New creates a new Lexer for the given input.
func New(input string, syntax SyntaxConfig) *Lexer {
	return &Lexer{
		source: input,
		line:   1,
		syntax: syntax,
	}
}

// Tokenize returns all tokens from the input.
func Tokenize(input string, syntax SyntaxConfig) ([]Token, error) {
	if err := syntax.Validate(); err != nil {
		return nil, err
	}
	return New(input, syntax).All(), nil
}

// All collects all remaining tokens into a slice.
func (l *Lexer) All() []Token {
	var tokens []Token
	for tok := l.Next(); tok != nil; tok = l.Next() {
		tokens = append(tokens, *tok)
	}
	return tokens
}

// Next returns the next token, or nil at end of input.
func (l *Lexer) Next() *Token {
	if l.pending != nil {
		tok := l.pending
		l.pending = nil
		l.advanceToken(tok)
		return tok
	}
	if l.pos >= len(l.source) {
		return nil
	}

	rest := l.source[l.pos:]
	offset := 0
	for {
		idx := strings.Index(rest[offset:], l.syntax.VarStart)
		if idx < 0 {
			return l.templateData(len(rest))
		}
		offset += idx
		if tok, ok := l.matchTag(rest[offset:]); ok {
			if offset == 0 {
				l.advanceToken(tok)
				return tok
			}
			l.pending = tok
			return l.templateData(offset)
		}
		_, size := utf8.DecodeRuneInString(rest[offset:])
		offset += size
	}
}

func (l *Lexer) templateData(n int) *Token {
	startLine, startCol, startOffset := l.line, l.col, l.pos
	text := l.advance(n)
	return &Token{
		Type:  TokenTemplateData,
		Value: text,
		Span:  l.spanFrom(startLine, startCol, startOffset),
	}
}

// advanceToken consumes the source text of a tag token and fills its span.
func (l *Lexer) advanceToken(tok *Token) {
	startLine, startCol, startOffset := l.line, l.col, l.pos
	l.advance(len(tok.Value))
	tok.Span = l.spanFrom(startLine, startCol, startOffset)
}

func (l *Lexer) advance(n int) string {
	text := l.source[l.pos : l.pos+n]
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
	l.pos += n
	return text
}

func (l *Lexer) spanFrom(line, col uint32, offset int) Span {
	return Span{
		StartLine:   line,
		StartCol:    col,
		StartOffset: uint32(offset),
		EndLine:     l.line,
		EndCol:      l.col,
		EndOffset:   uint32(l.pos),
	}
}

// matchTag tries to read one placeholder at the start of s. The returned
// token has no span yet.
//
// The keyword shapes are tried first; `{{ for }}` or `{{ if }}` on their own
// still match the plain variable shape.
func (l *Lexer) matchTag(s string) (*Token, bool) {
	open := cursor{s: s}
	if !open.literal(l.syntax.VarStart) || !open.literal(" ") {
		return nil, false
	}
	for _, shape := range []func(*cursor) (Token, bool){matchFor, matchIf, matchIndex, matchWord} {
		c := open
		tok, ok := shape(&c)
		if !ok || !c.literal(" ") || !c.literal(l.syntax.VarEnd) {
			continue
		}
		tok.Value = s[:c.pos]
		return &tok, true
	}
	return nil, false
}

func matchFor(c *cursor) (Token, bool) {
	tok := Token{Type: TokenFor}
	if !c.literal("for ") {
		return tok, false
	}
	if tok.Name = c.ident(); tok.Name == "" || !c.literal(" in ") {
		return tok, false
	}
	tok.Iter = c.ident()
	return tok, tok.Iter != ""
}

func matchIf(c *cursor) (Token, bool) {
	tok := Token{Type: TokenIf}
	if !c.literal("if ") {
		return tok, false
	}
	tok.Name = c.ident()
	return tok, tok.Name != ""
}

func matchIndex(c *cursor) (Token, bool) {
	tok := Token{Type: TokenIndex}
	if tok.Name = c.ident(); tok.Name == "" || !c.literal("[") {
		return tok, false
	}
	if tok.Index = c.digits(); tok.Index == "" {
		return tok, false
	}
	return tok, c.literal("]")
}

func matchWord(c *cursor) (Token, bool) {
	word := c.ident()
	switch word {
	case "":
		return Token{}, false
	case "endfor":
		return Token{Type: TokenEndfor}, true
	case "else":
		return Token{Type: TokenElse}, true
	case "endif":
		return Token{Type: TokenEndif}, true
	default:
		return Token{Type: TokenVar, Name: word}, true
	}
}

type cursor struct {
	s   string
	pos int
}

func (c *cursor) literal(lit string) bool {
	if strings.HasPrefix(c.s[c.pos:], lit) {
		c.pos += len(lit)
		return true
	}
	return false
}

func (c *cursor) ident() string {
	start := c.pos
	for c.pos < len(c.s) {
		r, size := utf8.DecodeRuneInString(c.s[c.pos:])
		if !isIdentRune(r) {
			break
		}
		c.pos += size
	}
	return c.s[start:c.pos]
}

func (c *cursor) digits() string {
	start := c.pos
	for c.pos < len(c.s) && c.s[c.pos] >= '0' && c.s[c.pos] <= '9' {
		c.pos++
	}
	return c.s[start:c.pos]
}

// isIdentRune matches the Unicode word characters: letters, marks, decimal
// digits and connector punctuation such as '_'.
func isIdentRune(r rune) bool {
	return r == '_' ||
		unicode.IsLetter(r) ||
		unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me, unicode.Pc)
}
