package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().Int("max-diagnostics", 500, "maximum number of diagnostics to display")
	return cmd
}

func TestResolveEntryExplicitArgIgnoresManifest(t *testing.T) {
	dir := t.TempDir()
	entryFile := filepath.Join(dir, "main.urd.md")
	if err := os.WriteFile(entryFile, []byte("# Cell\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cmd := newTestCmd()
	got, err := resolveEntry(cmd, entryFile)
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if got.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", got.RootDir, dir)
	}
	if got.EntryPath != "main.urd.md" {
		t.Errorf("EntryPath = %q, want main.urd.md", got.EntryPath)
	}
	if got.MaxDiagnostics != 500 {
		t.Errorf("MaxDiagnostics = %d, want 500 (flag default)", got.MaxDiagnostics)
	}
}

func TestResolveEntryNoArgNoManifestErrors(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(oldWD) //nolint:errcheck
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := newTestCmd()
	if _, err := resolveEntry(cmd, ""); err == nil {
		t.Error("resolveEntry with no arg and no urd.toml anywhere above cwd should error")
	}
}

func TestResolveEntryFallsBackToManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `[project]
entry = "world.urd.md"

[compile]
max_diagnostics = 42
`
	if err := os.WriteFile(filepath.Join(dir, "urd.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write urd.toml: %v", err)
	}

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(oldWD) //nolint:errcheck
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := newTestCmd()
	got, err := resolveEntry(cmd, "")
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if got.EntryPath != "world.urd.md" {
		t.Errorf("EntryPath = %q, want world.urd.md", got.EntryPath)
	}
	if got.MaxDiagnostics != 42 {
		t.Errorf("MaxDiagnostics = %d, want 42 (from manifest, flag left unset)", got.MaxDiagnostics)
	}
}

func TestResolveEntryExplicitFlagOverridesManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `[project]
entry = "world.urd.md"

[compile]
max_diagnostics = 42
`
	if err := os.WriteFile(filepath.Join(dir, "urd.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write urd.toml: %v", err)
	}

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(oldWD) //nolint:errcheck
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := newTestCmd()
	if err := cmd.PersistentFlags().Set("max-diagnostics", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	got, err := resolveEntry(cmd, "")
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if got.MaxDiagnostics != 7 {
		t.Errorf("MaxDiagnostics = %d, want 7 (explicit flag beats manifest)", got.MaxDiagnostics)
	}
}
