package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

func buildFixture(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("main.urd.md", []byte("# Cell\nexit east: corridor\n"))
	bag := diag.NewBag()
	span := fs.MakeSpan(id, 7, 11)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ImportMissingFile,
		Message:  "imported file \"corridor.urd.md\" was not found",
		Primary:  span,
	})
	return bag, fs
}

func TestPrettyIncludesPathCodeAndMessage(t *testing.T) {
	bag, fs := buildFixture(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: false})
	out := buf.String()
	if !strings.Contains(out, "main.urd.md:") {
		t.Errorf("Pretty output missing file path: %q", out)
	}
	if !strings.Contains(out, diag.ImportMissingFile.ID()) {
		t.Errorf("Pretty output missing code: %q", out)
	}
	if !strings.Contains(out, "was not found") {
		t.Errorf("Pretty output missing message: %q", out)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	bag, fs := buildFixture(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Output = %+v, want one diagnostic", out)
	}
	d := out.Diagnostics[0]
	if d.Severity != "error" || d.Code != diag.ImportMissingFile.ID() {
		t.Errorf("diagnostic = %+v, want severity=error code=%s", d, diag.ImportMissingFile.ID())
	}
	if d.Location.StartLine == 0 {
		t.Errorf("IncludePositions=true but StartLine is zero")
	}
}

func TestJSONRespectsMaxButReportsTrueCount(t *testing.T) {
	bag, fs := buildFixture(t)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.ImportCasingMismatch, Message: "second"})
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2 (true total even when truncated)", out.Count)
	}
	if len(out.Diagnostics) != 1 {
		t.Errorf("len(Diagnostics) = %d, want 1 (capped by Max)", len(out.Diagnostics))
	}
}

func TestSarifProducesOneResultPerDiagnostic(t *testing.T) {
	bag, fs := buildFixture(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "urdc", ToolVersion: "0.1.0"}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 {
		t.Fatalf("sarifLog = %+v, want exactly one run with one result", log)
	}
	if log.Runs[0].Results[0].RuleID != diag.ImportMissingFile.ID() {
		t.Errorf("RuleID = %q, want %q", log.Runs[0].Results[0].RuleID, diag.ImportMissingFile.ID())
	}
}
