package lexer

import (
	"fmt"
	"strings"
)

// SyntaxConfig holds the placeholder delimiters.
//
// A placeholder is VarStart, exactly one space, the instruction, exactly one
// space and VarEnd.
type SyntaxConfig struct {
	VarStart string
	VarEnd   string
}

// DefaultSyntax returns the default `{{ ... }}` syntax configuration.
func DefaultSyntax() SyntaxConfig {
	return SyntaxConfig{
		VarStart: "{{",
		VarEnd:   "}}",
	}
}

// ParseDelimiters builds a SyntaxConfig from a "start,end" pair such as
// "<%,%>".
func ParseDelimiters(s string) (SyntaxConfig, error) {
	start, end, ok := strings.Cut(s, ",")
	if !ok {
		return SyntaxConfig{}, fmt.Errorf("delimiters %q: expected \"start,end\"", s)
	}
	cfg := SyntaxConfig{VarStart: strings.TrimSpace(start), VarEnd: strings.TrimSpace(end)}
	return cfg, cfg.Validate()
}

// Validate reports whether the delimiters can be scanned unambiguously.
func (c SyntaxConfig) Validate() error {
	if c.VarStart == "" || c.VarEnd == "" {
		return fmt.Errorf("delimiters cannot be empty")
	}
	if strings.ContainsAny(c.VarStart, " \t\r\n") || strings.ContainsAny(c.VarEnd, " \t\r\n") {
		return fmt.Errorf("delimiters cannot contain whitespace")
	}
	return nil
}
