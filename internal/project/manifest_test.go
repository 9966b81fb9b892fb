package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindManifestWalksUpward(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	manifestPath := filepath.Join(root, "urd.toml")
	if err := os.WriteFile(manifestPath, []byte("[project]\nentry = \"main.urd.md\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, ok, err := FindManifest(sub)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if !ok {
		t.Fatalf("FindManifest did not find %q starting from %q", manifestPath, sub)
	}
	want, _ := filepath.Abs(manifestPath)
	if got != want {
		t.Errorf("FindManifest path = %q, want %q", got, want)
	}
}

func TestFindManifestAbsentReturnsNotOK(t *testing.T) {
	root := t.TempDir()
	_, ok, err := FindManifest(root)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Errorf("FindManifest reported a manifest in an empty temp directory")
	}
}

func TestLoadDefaultsMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urd.toml")
	if err := os.WriteFile(path, []byte("[project]\nentry = \"main.urd.md\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Project.Entry != "main.urd.md" {
		t.Errorf("Project.Entry = %q, want \"main.urd.md\"", m.Project.Entry)
	}
	if m.Compile.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Errorf("Compile.MaxDiagnostics = %d, want default %d", m.Compile.MaxDiagnostics, DefaultMaxDiagnostics)
	}
}

func TestLoadExplicitMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urd.toml")
	content := "[project]\nentry = \"main.urd.md\"\n\n[compile]\nmax_diagnostics = 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Compile.MaxDiagnostics != 10 {
		t.Errorf("Compile.MaxDiagnostics = %d, want 10", m.Compile.MaxDiagnostics)
	}
}

func TestLoadFromDirNoManifest(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if ok || m != nil {
		t.Errorf("LoadFromDir reported a manifest in an empty temp directory")
	}
}
