package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/diagfmt"
	"github.com/urdwyrd/urdc/internal/source"
)

func newFormatCmd(t *testing.T, format string) *cobra.Command {
	t.Helper()
	cmd := newTestCmd()
	cmd.PersistentFlags().String("format", format, "")
	cmd.PersistentFlags().String("color", "off", "")
	return cmd
}

func fixtureDiagnostics(t *testing.T) ([]diag.Diagnostic, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("main.urd.md", []byte("# Cell\nexit east: corridor\n"))
	span := fs.MakeSpan(id, 7, 11)
	items := []diag.Diagnostic{
		{Severity: diag.SevError, Code: diag.ImportMissingFile, Message: "first", Primary: span},
		{Severity: diag.SevWarning, Code: diag.ImportCasingMismatch, Message: "second", Primary: span},
	}
	return items, fs
}

func TestRenderDiagnosticsPretty(t *testing.T) {
	cmd := newFormatCmd(t, "pretty")
	var errBuf bytes.Buffer
	cmd.SetErr(&errBuf)
	items, fs := fixtureDiagnostics(t)
	if err := renderDiagnostics(cmd, items, fs, 0); err != nil {
		t.Fatalf("renderDiagnostics: %v", err)
	}
	if !strings.Contains(errBuf.String(), "main.urd.md:") {
		t.Errorf("pretty output missing file path: %q", errBuf.String())
	}
}

func TestRenderDiagnosticsJSONRespectsMax(t *testing.T) {
	cmd := newFormatCmd(t, "json")
	var errBuf bytes.Buffer
	cmd.SetErr(&errBuf)
	items, fs := fixtureDiagnostics(t)
	if err := renderDiagnostics(cmd, items, fs, 1); err != nil {
		t.Fatalf("renderDiagnostics: %v", err)
	}
	var out diagfmt.Output
	if err := json.Unmarshal(errBuf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2 (true total)", out.Count)
	}
	if len(out.Diagnostics) != 1 {
		t.Errorf("len(Diagnostics) = %d, want 1 (capped)", len(out.Diagnostics))
	}
}

func TestRenderDiagnosticsEmptyIsNoop(t *testing.T) {
	cmd := newFormatCmd(t, "pretty")
	var errBuf bytes.Buffer
	cmd.SetErr(&errBuf)
	if err := renderDiagnostics(cmd, nil, nil, 0); err != nil {
		t.Fatalf("renderDiagnostics: %v", err)
	}
	if errBuf.Len() != 0 {
		t.Errorf("expected no output for an empty diagnostics slice, got %q", errBuf.String())
	}
}

func TestRenderDiagnosticsRejectsUnknownFormat(t *testing.T) {
	cmd := newFormatCmd(t, "xml")
	items, fs := fixtureDiagnostics(t)
	if err := renderDiagnostics(cmd, items, fs, 0); err == nil {
		t.Error("expected an error for an unsupported --format value")
	}
}

func TestShouldShowProgress(t *testing.T) {
	if on, err := shouldShowProgress("on"); err != nil || !on {
		t.Errorf("shouldShowProgress(on) = %v, %v; want true, nil", on, err)
	}
	if off, err := shouldShowProgress("off"); err != nil || off {
		t.Errorf("shouldShowProgress(off) = %v, %v; want false, nil", off, err)
	}
	if _, err := shouldShowProgress("bogus"); err == nil {
		t.Error("expected an error for an invalid --ui value")
	}
}
