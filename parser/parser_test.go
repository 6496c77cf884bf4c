package parser

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/simpletemplate/simpletemplate-go/internal/errors"
	"github.com/simpletemplate/simpletemplate-go/lexer"
)

func TestParserBasic(t *testing.T) {
	tmpl := ParseDefault("Hello {{ name }}!", "test.txt")
	if len(tmpl.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(tmpl.Children))
	}

	if raw, ok := tmpl.Children[0].(*EmitRaw); !ok || raw.Raw != "Hello " {
		t.Errorf("expected EmitRaw 'Hello ', got %T %v", tmpl.Children[0], tmpl.Children[0])
	}
	if v, ok := tmpl.Children[1].(*EmitVar); !ok || v.Name != "name" {
		t.Errorf("expected EmitVar 'name', got %T %v", tmpl.Children[1], tmpl.Children[1])
	}
	if raw, ok := tmpl.Children[2].(*EmitRaw); !ok || raw.Raw != "!" {
		t.Errorf("expected EmitRaw '!', got %T %v", tmpl.Children[2], tmpl.Children[2])
	}
}

func TestParserTrees(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []Node
	}{
		{
			name:   "loop strips leading newlines",
			source: "{{ for x in xs }}\n\n{{ x }}-{{ index }}\n{{ endfor }}",
			expected: []Node{
				&ForLoop{Var: "x", Iter: "xs", Body: []Node{
					&EmitVar{Name: "x"},
					&EmitRaw{Raw: "-"},
					&EmitVar{Name: "index"},
					&EmitRaw{Raw: "\n"},
				}},
			},
		},
		{
			name:   "loop keeps other leading whitespace",
			source: "{{ for x in xs }}\n  {{ x }}{{ endfor }}",
			expected: []Node{
				&ForLoop{Var: "x", Iter: "xs", Body: []Node{
					&EmitRaw{Raw: "  "},
					&EmitVar{Name: "x"},
				}},
			},
		},
		{
			name:   "if keeps branch whitespace",
			source: "{{ if a }}  yes {{ b }}  {{ else }}\n no \n{{ endif }}",
			expected: []Node{
				&IfCond{
					Cond:      "a",
					TrueBody:  []Node{&EmitRaw{Raw: "  yes "}, &EmitVar{Name: "b"}, &EmitRaw{Raw: "  "}},
					FalseBody: []Node{&EmitRaw{Raw: "\n no \n"}},
				},
			},
		},
		{
			name:   "if without else",
			source: "{{ if a }}{{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a"},
			},
		},
		{
			name:   "whitespace else branch",
			source: "{{ if a }}x{{ else }} {{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a", TrueBody: []Node{&EmitRaw{Raw: "x"}}, FalseBody: []Node{&EmitRaw{Raw: " "}}},
			},
		},
		{
			name:   "else without body",
			source: "{{ if a }}x{{ else }}{{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a", TrueBody: []Node{&EmitRaw{Raw: "x"}}, FalseBody: []Node{}},
			},
		},
		{
			name:   "unclosed if inside loop",
			source: "{{ for x in xs }}{{ if a }}{{ endfor }}",
			expected: []Node{
				&ForLoop{Var: "x", Iter: "xs", Body: []Node{&EmitRaw{Raw: "{{ if a }}"}}},
			},
		},
		{
			name:   "unclosed loop inside if",
			source: "{{ if a }}{{ for x in xs }}{{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a", TrueBody: []Node{&EmitRaw{Raw: "{{ for x in xs }}"}}},
			},
		},
		{
			name:   "outer if left open by inner else",
			source: "{{ if a }}{{ if b }}{{ else }}{{ endif }}",
			expected: []Node{
				&EmitRaw{Raw: "{{ if a }}"},
				&IfCond{Cond: "b", FalseBody: []Node{}},
			},
		},
		{
			name:   "nested same kind",
			source: "{{ if a }}{{ if b }}x{{ endif }}y{{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a", TrueBody: []Node{
					&IfCond{Cond: "b", TrueBody: []Node{&EmitRaw{Raw: "x"}}},
					&EmitRaw{Raw: "y"},
				}},
			},
		},
		{
			name:   "if inside loop",
			source: "{{ for i in items }}{{ if show }}{{ i }}{{ endif }}{{ endfor }}",
			expected: []Node{
				&ForLoop{Var: "i", Iter: "items", Body: []Node{
					&IfCond{Cond: "show", TrueBody: []Node{&EmitVar{Name: "i"}}},
				}},
			},
		},
		{
			name:   "index access",
			source: "{{ items[007] }}{{ items[99999999999999999999999] }}",
			expected: []Node{
				&EmitIndex{Name: "items", Index: 7},
				&EmitIndex{Name: "items", Index: -1},
			},
		},
		{
			name:   "unclosed block becomes text",
			source: "{{ if a }}x{{ y }}",
			expected: []Node{
				&EmitRaw{Raw: "{{ if a }}x"},
				&EmitVar{Name: "y"},
			},
		},
		{
			name:   "unclosed else becomes text",
			source: "{{ if a }}x{{ else }}y",
			expected: []Node{
				&EmitRaw{Raw: "{{ if a }}x"},
				&EmitVar{Name: "else"},
				&EmitRaw{Raw: "y"},
			},
		},
		{
			name:   "stray closers are variables",
			source: "{{ endfor }}{{ else }}{{ endif }}",
			expected: []Node{
				&EmitVar{Name: "endfor"},
				&EmitVar{Name: "else"},
				&EmitVar{Name: "endif"},
			},
		},
		{
			name:   "closer of the other kind inside a block",
			source: "{{ if a }}{{ endfor }}{{ endif }}",
			expected: []Node{
				&IfCond{Cond: "a", TrueBody: []Node{&EmitVar{Name: "endfor"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := ParseDefault(tt.source, tt.name)
			if diff := deep.Equal(tmpl.Children, tt.expected); diff != nil {
				t.Errorf("unexpected tree:\n%s\n%s", strings.Join(diff, "\n"), Dump(tmpl))
			}
		})
	}
}

func TestParserLenientWarnings(t *testing.T) {
	tmpl := ParseDefault("line one\n{{ for x in xs }}{{ x }}", "warn.txt")
	if len(tmpl.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(tmpl.Warnings))
	}
	w := tmpl.Warnings[0]
	if w.Kind != errors.ErrSyntax || w.Span == nil || w.Span.StartLine != 2 {
		t.Errorf("unexpected warning: %v", w)
	}
}

func TestParserStrict(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"{{ for x in xs }}{{ x }}", "unclosed `for` block"},
		{"{{ if a }}{{ else }}", "unclosed `if` block"},
		{"a{{ endif }}", "unexpected `endif`"},
		{"{{ if a }}{{ else }}{{ else }}{{ endif }}", "unexpected `else`"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := Parse(tt.source, "strict.txt", lexer.DefaultSyntax(), Strict)
			if err == nil {
				t.Fatalf("expected error")
			}
			var perr *Error
			if !stderrors.As(err, &perr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if perr.Kind != errors.ErrSyntax {
				t.Errorf("unexpected kind %v", perr.Kind)
			}
			if !strings.Contains(perr.Message, tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, perr.Message)
			}
		})
	}
}

func TestParserStrictAcceptsWellFormed(t *testing.T) {
	source := "{{ for x in xs }}{{ if x }}{{ x }}{{ else }}-{{ endif }}{{ endfor }}"
	if _, err := Parse(source, "ok.txt", lexer.DefaultSyntax(), Strict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParserBadDelimiters(t *testing.T) {
	_, err := Parse("x", "bad.txt", lexer.SyntaxConfig{}, Lenient)
	var perr *Error
	if !stderrors.As(err, &perr) || perr.Kind != errors.ErrBadDelimiters {
		t.Fatalf("expected bad delimiters error, got %v", err)
	}
}

func TestParserManyUnclosedBlocks(t *testing.T) {
	const n = 50000
	source := strings.Repeat("{{ if a }}", n)
	start := time.Now()
	tmpl := ParseDefault(source, "deep.txt")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("parsing %d unclosed blocks took %v", n, elapsed)
	}
	if diff := deep.Equal(tmpl.Children, []Node{&EmitRaw{Raw: source}}); diff != nil {
		t.Errorf("unexpected tree: %v", diff)
	}
	if len(tmpl.Warnings) != n {
		t.Errorf("expected %d warnings, got %d", n, len(tmpl.Warnings))
	}
}

func TestParserUnclosedBeforeClosedBlock(t *testing.T) {
	prefix := strings.Repeat("{{ if a }}", 500)
	tmpl := ParseDefault(prefix+"{{ if b }}X{{ endif }}", "mixed.txt")
	expected := []Node{
		&EmitRaw{Raw: prefix},
		&IfCond{Cond: "b", TrueBody: []Node{&EmitRaw{Raw: "X"}}},
	}
	if diff := deep.Equal(tmpl.Children, expected); diff != nil {
		t.Errorf("unexpected tree: %v", diff)
	}
	if len(tmpl.Warnings) != 500 {
		t.Errorf("expected 500 warnings, got %d", len(tmpl.Warnings))
	}
}

func TestParserDeepNesting(t *testing.T) {
	const n = 10000
	source := strings.Repeat("{{ for x in xs }}{{ if a }}", n) + "x" + strings.Repeat("{{ endif }}{{ endfor }}", n)
	for _, mode := range []Mode{Lenient, Strict} {
		tmpl, err := Parse(source, "nested.txt", lexer.DefaultSyntax(), mode)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(tmpl.Warnings) != 0 {
			t.Errorf("%s: unexpected warnings: %v", mode, tmpl.Warnings)
		}
		depth := 0
		nodes := tmpl.Children
		for len(nodes) == 1 {
			switch node := nodes[0].(type) {
			case *ForLoop:
				nodes = node.Body
			case *IfCond:
				nodes = node.TrueBody
			default:
				nodes = nil
				continue
			}
			depth++
		}
		if depth != 2*n {
			t.Errorf("%s: expected depth %d, got %d", mode, 2*n, depth)
		}
	}
}

func TestDump(t *testing.T) {
	tmpl := ParseDefault("{{ if a }}{{ items[1] }}{{ else }}{{ for x in xs }}{{ x }}{{ endfor }}{{ endif }}", "dump.txt")
	expected := `Template
  IfCond(a)
    EmitIndex(items[1])
  Else
    ForLoop(x in xs)
      EmitVar(x)
`
	if got := Dump(tmpl); got != expected {
		t.Errorf("unexpected dump:\n%s", got)
	}
}
