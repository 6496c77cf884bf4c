package simpletemplate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PathLoader returns a loader that reads templates from files below dir.
//
// Template names use forward slashes. Names that are absolute or that
// would resolve outside of dir are rejected.
func PathLoader(dir string) LoaderFunc {
	return func(name string) (string, error) {
		rel := filepath.FromSlash(name)
		if name == "" || filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
			return "", errors.Errorf("template path escapes template directory: %s", name)
		}

		content, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return "", errors.Wrapf(err, "failed to read template %s", name)
		}
		return strings.TrimPrefix(string(content), "\ufeff"), nil
	}
}
