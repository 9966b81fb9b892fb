// Package project discovers and parses the optional urd.toml project
// manifest (spec §10.3): compile(entry_path) never requires one, but a
// CLI invoked from inside a project directory uses it to default the
// entry file and the diagnostic cap.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded shape of urd.toml.
//
//	[project]
//	entry = "main.urd.md"
//
//	[compile]
//	max_diagnostics = 500
type Manifest struct {
	Project struct {
		Entry string `toml:"entry"`
	} `toml:"project"`
	Compile struct {
		MaxDiagnostics int `toml:"max_diagnostics"`
	} `toml:"compile"`
}

// DefaultMaxDiagnostics applies when a manifest exists but omits
// [compile].max_diagnostics, or no manifest exists at all.
const DefaultMaxDiagnostics = 500

// FindManifest walks up from startDir looking for urd.toml, stopping at
// the filesystem root.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "urd.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing urd.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// Load parses the manifest at path and fills in DefaultMaxDiagnostics
// when [compile].max_diagnostics is zero or absent.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if m.Compile.MaxDiagnostics <= 0 {
		m.Compile.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return &m, nil
}

// LoadFromDir is the convenience entry point the CLI uses: it searches
// upward from startDir, and returns ok=false (not an error) when no
// manifest exists anywhere above startDir.
func LoadFromDir(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}
