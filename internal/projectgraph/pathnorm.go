package projectgraph

import (
	"path"
	"strings"
)

// normalizeImportPath validates and normalises a raw `import:` path
// declared in fromDir (itself already normalised, relative to the entry
// directory). It never touches the filesystem or resolves symlinks
// (spec §9 "Path normalisation pitfalls") — only logical slash-path
// arithmetic via the standard library's "path" package, deliberately not
// "path/filepath", since these are logical identifiers, not OS paths
// (spec §6.4 "the core treats paths as logical strings").
func normalizeImportPath(raw, fromDir string) (normalized string, errCode importPathError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errEmptyPath
	}
	if strings.HasPrefix(trimmed, "/") {
		return "", errAbsolutePath
	}
	if !strings.HasSuffix(trimmed, ".urd.md") {
		return "", errBadExtension
	}
	if strings.ContainsAny(trimmed, "\x00") {
		return "", errMalformedPath
	}
	joined := path.Join(fromDir, trimmed)
	joined = strings.TrimPrefix(joined, "./")
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", errEscapesRoot
	}
	return joined, errNone
}

type importPathError uint8

const (
	errNone importPathError = iota
	errEmptyPath
	errAbsolutePath
	errBadExtension
	errEscapesRoot
	errMalformedPath
)

// fileStem returns the filename's stem (minus directory, minus the
// ".urd.md" suffix), the unit spec §6.6 requires to be unique across the
// compilation unit.
func fileStem(normalizedPath string) string {
	base := path.Base(normalizedPath)
	return strings.TrimSuffix(base, ".urd.md")
}
