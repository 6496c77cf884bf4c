// Package testutil reads the golden test inputs and expected outputs
// under testdata/.
package testutil

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const frontMatterDelim = "---\n"

// Snapshot is an expected render output together with its front matter.
//
// A snapshot file looks like:
//
//	---
//	source: template_test.go
//	description: "{{ for x in xs }}..."
//	input_file: testdata/inputs/loop_index.txt
//	---
//	<expected output>
type Snapshot struct {
	Source      string `json:"source"`
	Description string `json:"description"`
	InputFile   string `json:"input_file"`
	Expected    string `json:"-"`
}

// ParseSnapshotFile parses a .snap file.
func ParseSnapshotFile(path string) (*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := ParseSnapshot(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", path)
	}
	return snap, nil
}

// ParseSnapshot parses the content of a .snap file. Content without front
// matter is taken as the expected output as a whole.
func ParseSnapshot(content string) (*Snapshot, error) {
	if !strings.HasPrefix(content, frontMatterDelim) {
		return &Snapshot{Expected: content}, nil
	}

	meta, expected, ok := strings.Cut(content[len(frontMatterDelim):], "\n"+frontMatterDelim)
	if !ok {
		return nil, errors.New("unterminated front matter")
	}

	snap := &Snapshot{}
	if err := yaml.Unmarshal([]byte(meta), snap); err != nil {
		return nil, errors.Wrap(err, "invalid front matter")
	}
	snap.Expected = expected
	return snap, nil
}
