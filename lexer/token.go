// Package lexer provides tokenization for simpletemplate sources.
package lexer

import (
	"fmt"

	"github.com/simpletemplate/simpletemplate-go/syntax"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Template data (raw text between placeholders)
	TokenTemplateData TokenType = iota

	TokenVar    // {{ name }}
	TokenIndex  // {{ name[3] }}
	TokenFor    // {{ for item in items }}
	TokenEndfor // {{ endfor }}
	TokenIf     // {{ if cond }}
	TokenElse   // {{ else }}
	TokenEndif  // {{ endif }}
)

// Token represents a single token from the lexer.
//
// Value is always the exact source text the token was scanned from, so a
// token can be turned back into literal output without loss.
type Token struct {
	Type  TokenType
	Value string
	Name  string // variable, index target, loop variable or condition
	Iter  string // loop iterable, TokenFor only
	Index string // decimal digits, TokenIndex only
	Span  Span
}

// Span represents a location range in source code.
type Span = syntax.Span

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenTemplateData:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	case TokenVar, TokenIf:
		return fmt.Sprintf("%s(%s)", t.Type, t.Name)
	case TokenIndex:
		return fmt.Sprintf("%s(%s[%s])", t.Type, t.Name, t.Index)
	case TokenFor:
		return fmt.Sprintf("%s(%s in %s)", t.Type, t.Name, t.Iter)
	default:
		return t.Type.String()
	}
}

// Keyword returns the word a closing or else token was spelled with. A
// closer that appears where no block is open is treated as a variable of
// this name.
func (t Token) Keyword() string {
	switch t.Type {
	case TokenEndfor:
		return "endfor"
	case TokenElse:
		return "else"
	case TokenEndif:
		return "endif"
	default:
		return t.Name
	}
}

var tokenTypeNames = map[TokenType]string{
	TokenTemplateData: "TemplateData",
	TokenVar:          "Var",
	TokenIndex:        "Index",
	TokenFor:          "For",
	TokenEndfor:       "Endfor",
	TokenIf:           "If",
	TokenElse:         "Else",
	TokenEndif:        "Endif",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}
