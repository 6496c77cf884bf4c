package errors

import (
	"fmt"
	"strings"

	"github.com/simpletemplate/simpletemplate-go/syntax"
)

const (
	excerptWidth   = 79
	excerptContext = 3
)

// formatWithSource writes the error followed by the lines around its span,
// with the failing line marked by `>` and the span underlined by carets.
func formatWithSource(f fmt.State, err *Error) {
	var sb strings.Builder
	sb.WriteString(err.Error())
	if err.Source != "" && err.Span != nil {
		sb.WriteByte('\n')
		writeExcerpt(&sb, err)
	}
	_, _ = fmt.Fprint(f, sb.String())
}

func writeExcerpt(sb *strings.Builder, err *Error) {
	lines := strings.Split(err.Source, "\n")
	failing := clamp(int(err.Span.StartLine)-1, 0, len(lines)-1)
	first := max(failing-excerptContext, 0)
	last := min(failing+excerptContext, len(lines)-1)

	sb.WriteString(banner(excerptTitle(err.Name)))
	sb.WriteByte('\n')
	for idx := first; idx <= last; idx++ {
		marker := '|'
		if idx == failing {
			marker = '>'
		}
		fmt.Fprintf(sb, "%4d %c %s\n", idx+1, marker, lines[idx])
		if idx == failing && err.Span.StartLine == err.Span.EndLine {
			fmt.Fprintf(sb, "     i %s%s %s\n",
				strings.Repeat(" ", int(err.Span.StartCol)),
				strings.Repeat("^", underlineWidth(err.Span)),
				err.Kind)
		}
	}
	sb.WriteString(strings.Repeat("~", excerptWidth))
}

func underlineWidth(span *syntax.Span) int {
	return max(int(span.EndCol)-int(span.StartCol), 1)
}

// excerptTitle is the last path element of the template name.
func excerptTitle(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "Template Source"
	}
	return name
}

// banner centers title in a line of dashes.
func banner(title string) string {
	title = " " + title + " "
	pad := excerptWidth - len(title)
	if pad <= 0 {
		return title
	}
	return strings.Repeat("-", pad/2) + title + strings.Repeat("-", pad-pad/2)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
