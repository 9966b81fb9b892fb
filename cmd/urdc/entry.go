package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/project"
)

// resolvedEntry is what compile/check/build all need: a root directory
// to resolve imports against, an entry file relative to it, and a
// diagnostic cap — either named explicitly on the command line or
// defaulted from a discovered urd.toml (spec §10.3).
type resolvedEntry struct {
	RootDir        string
	EntryPath      string
	MaxDiagnostics int
}

// resolveEntry determines where to compile from: an explicit path
// argument always wins; absent one, it looks
// for urd.toml above the current directory and uses its [project].entry.
// --max-diagnostics only overrides the manifest's [compile].max_diagnostics
// when the caller actually passed the flag.
func resolveEntry(cmd *cobra.Command, arg string) (resolvedEntry, error) {
	maxDiagnosticsFlag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return resolvedEntry{}, fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}
	flagSet := cmd.Root().PersistentFlags().Changed("max-diagnostics")

	if arg != "" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return resolvedEntry{}, fmt.Errorf("failed to resolve %q: %w", arg, err)
		}
		return resolvedEntry{
			RootDir:        filepath.Dir(abs),
			EntryPath:      filepath.Base(abs),
			MaxDiagnostics: maxDiagnosticsFlag,
		}, nil
	}

	manifest, ok, err := project.LoadFromDir(".")
	if err != nil {
		return resolvedEntry{}, fmt.Errorf("failed to load urd.toml: %w", err)
	}
	if !ok {
		return resolvedEntry{}, fmt.Errorf("no entry file given and no urd.toml found in this directory or above it")
	}
	root, _, err := project.FindProjectRoot(".")
	if err != nil {
		return resolvedEntry{}, err
	}
	if manifest.Project.Entry == "" {
		return resolvedEntry{}, fmt.Errorf("urd.toml is missing [project].entry")
	}
	maxDiag := manifest.Compile.MaxDiagnostics
	if flagSet {
		maxDiag = maxDiagnosticsFlag
	}
	return resolvedEntry{
		RootDir:        root,
		EntryPath:      manifest.Project.Entry,
		MaxDiagnostics: maxDiag,
	}, nil
}
