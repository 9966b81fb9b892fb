package projectgraph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// OSReader is the real-filesystem FileReader a host process uses; tests
// use MapReader instead.
type OSReader struct {
	// RootDir is joined with every path passed to ReadFile/CanonicalCase.
	RootDir string
}

func (r OSReader) ReadFile(path string) ([]byte, bool, error) {
	full := filepath.Join(r.RootDir, path)
	// #nosec G304 -- path is a normalised import path already validated
	// against escaping the project root before reaching this call.
	b, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// CanonicalCase scans path's directory in name order and finds the first
// entry equal to path's base name ignoring case. It returns "" when that
// entry matches exactly or no entry matches, and otherwise the entry's
// RootDir-relative path. The host filesystem's own case sensitivity is
// not probed.
func (r OSReader) CanonicalCase(path string) string {
	full := filepath.Join(r.RootDir, path)
	dir, base := filepath.Split(full)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Name() == base {
			return ""
		}
		if strings.EqualFold(e.Name(), base) {
			rel, err := filepath.Rel(r.RootDir, filepath.Join(dir, e.Name()))
			if err != nil {
				return ""
			}
			return filepath.ToSlash(rel)
		}
	}
	return ""
}
