package lexer

import (
	"strings"
	"testing"
)

type wantToken struct {
	typ   TokenType
	value string
}

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := Tokenize(input, DefaultSyntax())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tokens
}

func checkTokens(t *testing.T, tokens []Token, expected []wantToken) {
	t.Helper()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ || tokens[i].Value != exp.value {
			t.Errorf("token %d: expected %s(%q), got %s(%q)",
				i, exp.typ, exp.value, tokens[i].Type, tokens[i].Value)
		}
	}
}

func TestLexerBasic(t *testing.T) {
	tokens := tokenize(t, "Hello {{ name }}!")
	checkTokens(t, tokens, []wantToken{
		{TokenTemplateData, "Hello "},
		{TokenVar, "{{ name }}"},
		{TokenTemplateData, "!"},
	})
	if tokens[1].Name != "name" {
		t.Errorf("expected name %q, got %q", "name", tokens[1].Name)
	}
}

func TestLexerInstructions(t *testing.T) {
	tokens := tokenize(t, "{{ for item in items }}{{ item }}{{ index }}{{ endfor }}"+
		"{{ if show }}a{{ else }}b{{ endif }}{{ items[12] }}")
	checkTokens(t, tokens, []wantToken{
		{TokenFor, "{{ for item in items }}"},
		{TokenVar, "{{ item }}"},
		{TokenVar, "{{ index }}"},
		{TokenEndfor, "{{ endfor }}"},
		{TokenIf, "{{ if show }}"},
		{TokenTemplateData, "a"},
		{TokenElse, "{{ else }}"},
		{TokenTemplateData, "b"},
		{TokenEndif, "{{ endif }}"},
		{TokenIndex, "{{ items[12] }}"},
	})

	if tokens[0].Name != "item" || tokens[0].Iter != "items" {
		t.Errorf("unexpected for token: %v", tokens[0])
	}
	if tokens[4].Name != "show" {
		t.Errorf("unexpected if token: %v", tokens[4])
	}
	if tokens[9].Name != "items" || tokens[9].Index != "12" {
		t.Errorf("unexpected index token: %v", tokens[9])
	}
}

func TestLexerMalformedPlaceholders(t *testing.T) {
	tests := []string{
		"{{foo}}",
		"{{  foo }}",
		"{{ foo  }}",
		"{{ foo.bar }}",
		"{{ foo|upper }}",
		"{{ for x }}",
		"{{ for x in }}",
		"{{ if a b }}",
		"{{ items[] }}",
		"{{ items[-1] }}",
		"{{ items[1 ] }}",
		"{{ }}",
		"{{ foo",
		"{{",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := tokenize(t, input)
			checkTokens(t, tokens, []wantToken{{TokenTemplateData, input}})
		})
	}
}

func TestLexerBareKeywordsAreVariables(t *testing.T) {
	tokens := tokenize(t, "{{ for }}{{ if }}{{ in }}")
	checkTokens(t, tokens, []wantToken{
		{TokenVar, "{{ for }}"},
		{TokenVar, "{{ if }}"},
		{TokenVar, "{{ in }}"},
	})
}

func TestLexerRescansAfterFailedMatch(t *testing.T) {
	tokens := tokenize(t, "{{{ foo }}}")
	checkTokens(t, tokens, []wantToken{
		{TokenTemplateData, "{"},
		{TokenVar, "{{ foo }}"},
		{TokenTemplateData, "}"},
	})
}

func TestLexerUnicodeIdentifiers(t *testing.T) {
	tokens := tokenize(t, "{{ größe }}{{ 名前 }}")
	checkTokens(t, tokens, []wantToken{
		{TokenVar, "{{ größe }}"},
		{TokenVar, "{{ 名前 }}"},
	})
}

func TestLexerSpans(t *testing.T) {
	tokens := tokenize(t, "a\nbc {{ x }}\n{{ y }}")
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}

	x := tokens[1].Span
	if x.StartLine != 2 || x.StartCol != 3 || x.EndCol != 10 {
		t.Errorf("unexpected span for x: %v", x)
	}
	y := tokens[3].Span
	if y.StartLine != 3 || y.StartCol != 0 || y.StartOffset != 13 {
		t.Errorf("unexpected span for y: %+v", y)
	}
	if y.Len() != len("{{ y }}") {
		t.Errorf("unexpected span length %d", y.Len())
	}
}

func TestLexerCustomDelimiters(t *testing.T) {
	syntax, err := ParseDelimiters("<%,%>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tokens, err := Tokenize("{{ a }}<% b %>", syntax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkTokens(t, tokens, []wantToken{
		{TokenTemplateData, "{{ a }}"},
		{TokenVar, "<% b %>"},
	})
}

func TestSyntaxValidate(t *testing.T) {
	if _, err := Tokenize("x", SyntaxConfig{VarStart: "{{"}); err == nil {
		t.Fatal("expected error for empty end delimiter")
	}
	if _, err := ParseDelimiters("{{"); err == nil {
		t.Fatal("expected error for missing comma")
	}
	if _, err := ParseDelimiters("{ {,}}"); err == nil || !strings.Contains(err.Error(), "whitespace") {
		t.Fatalf("expected whitespace error, got %v", err)
	}
}

func TestLexerNoPlaceholders(t *testing.T) {
	if tokens := tokenize(t, ""); len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", tokens)
	}
	tokens := tokenize(t, "plain { text } here")
	checkTokens(t, tokens, []wantToken{{TokenTemplateData, "plain { text } here"}})
}
