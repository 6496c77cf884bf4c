// Package syntax holds source-location types shared by the lexer, parser and
// error reporting.
package syntax

import "fmt"

// Span represents a location range in template source.
//
// Lines are 1-indexed, columns are 0-indexed byte offsets within the line and
// offsets are byte offsets into the whole source. The end position is
// exclusive.
type Span struct {
	StartLine   uint32
	StartCol    uint32
	StartOffset uint32
	EndLine     uint32
	EndCol      uint32
	EndOffset   uint32
}

// Len returns the number of source bytes covered by the span.
func (s Span) Len() int {
	return int(s.EndOffset - s.StartOffset)
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
