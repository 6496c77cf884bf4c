package simpletemplate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simpletemplate/simpletemplate-go/internal/testutil"
	"github.com/simpletemplate/simpletemplate-go/lexer"
)

const (
	inputDir    = "testdata/inputs"
	snapshotDir = "testdata/snapshots"
)

func TestTemplates(t *testing.T) {
	inputs, err := testutil.GlobTestInputs(filepath.Join(inputDir, "*.txt"))
	if err != nil {
		t.Fatalf("failed to glob inputs: %v", err)
	}
	if len(inputs) == 0 {
		t.Fatalf("no input files found in %s", inputDir)
	}

	for _, inputPath := range inputs {
		inputName := filepath.Base(inputPath)

		t.Run(inputName, func(t *testing.T) {
			input, err := testutil.ParseTestInputFile(inputPath)
			if err != nil {
				t.Fatalf("failed to parse input: %v", err)
			}

			env := NewEnvironment(WithLogger(discardLogger()))
			if settings := input.Settings; settings != nil {
				if settings.HasMarkers() {
					env.SetSyntax(lexer.SyntaxConfig{
						VarStart: settings.Markers[0],
						VarEnd:   settings.Markers[1],
					})
				}
				if settings.Undefined == "strict" {
					env.SetUndefinedBehavior(UndefinedStrict)
				}
				if settings.Parse == "strict" {
					env.SetParseMode(ParseStrict)
				}
			}

			var rendered string
			if err := env.AddTemplate(inputName, input.Template); err != nil {
				rendered = formatError("!!!SYNTAX ERROR!!!", err)
			} else {
				tmpl, err := env.GetTemplate(inputName)
				if err != nil {
					t.Fatalf("failed to get template: %v", err)
				}
				result, err := tmpl.Render(input.Context)
				if err != nil {
					rendered = formatError("!!!ERROR!!!", err)
				} else {
					rendered = result
				}
			}

			snapshotPath := filepath.Join(snapshotDir, inputName+".snap")
			snapshot, err := testutil.ParseSnapshotFile(snapshotPath)
			if err != nil {
				if os.IsNotExist(err) {
					t.Fatalf("snapshot not found: %s\nActual output:\n%s", snapshotPath, rendered)
				}
				t.Fatalf("failed to parse snapshot: %v", err)
			}

			if !compareOutput(snapshot.Expected, rendered) {
				t.Errorf("output mismatch\n%s", diffStrings(snapshot.Expected, rendered))
			}
		})
	}
}

func formatError(header string, err error) string {
	return header + "\n\n" + err.Error() + "\n"
}

// compareOutput compares expected and actual output, ignoring trailing
// newlines.
func compareOutput(expected, actual string) bool {
	return strings.TrimRight(expected, "\n") == strings.TrimRight(actual, "\n")
}

// diffStrings returns a diff for debugging.
func diffStrings(expected, actual string) string {
	var sb strings.Builder
	sb.WriteString("=== EXPECTED ===\n")
	sb.WriteString(expected)
	sb.WriteString("\n=== ACTUAL ===\n")
	sb.WriteString(actual)
	sb.WriteString("\n=== END ===\n")

	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			sb.WriteString(fmt.Sprintf("\nFirst diff at line %d:\n", i+1))
			sb.WriteString(fmt.Sprintf("  expected: %q\n", expLine))
			sb.WriteString(fmt.Sprintf("  actual:   %q\n", actLine))
			break
		}
	}

	return sb.String()
}
