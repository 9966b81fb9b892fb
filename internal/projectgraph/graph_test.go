package projectgraph

import (
	"testing"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

func run(t *testing.T, files map[string][]byte, entry string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	reader := MapReader{Files: files}
	res := Resolve("", entry, reader, fs, rep)
	return res, bag
}

func TestMissingImport(t *testing.T) {
	res, bag := run(t, map[string][]byte{
		"main.urd.md": []byte("---\nimport:\n  - ./missing.urd.md\n---\n# Start\n"),
	}, "main.urd.md")

	if !bag.HasCode(diag.ImportMissingFile) {
		t.Fatalf("expected URD201, got %v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code == diag.ImportMissingFile && d.Message != "imported file \"missing.urd.md\" was not found" {
			t.Errorf("unexpected message: %s", d.Message)
		}
	}
	if len(res.Order) != 1 || res.Order[0].NormalizedPath != "main.urd.md" {
		t.Fatalf("expected ordered_asts == [entry], got %v", res.Order)
	}
	if res.Fatal {
		t.Fatalf("missing import must not be fatal")
	}
}

func TestImportCycle(t *testing.T) {
	files := map[string][]byte{
		"a.urd.md": []byte("---\nimport:\n  - ./b.urd.md\n---\n# A\n"),
		"b.urd.md": []byte("---\nimport:\n  - ./c.urd.md\n---\n# B\n"),
		"c.urd.md": []byte("---\nimport:\n  - ./a.urd.md\n---\n# C\n"),
	}
	res, bag := run(t, files, "a.urd.md")

	if !bag.HasCode(diag.ImportCycle) {
		t.Fatalf("expected URD202, got %v", bag.Items())
	}
	if len(res.Order) != 3 {
		t.Fatalf("expected all 3 files present, got %d", len(res.Order))
	}
	got := []string{res.Order[0].NormalizedPath, res.Order[1].NormalizedPath, res.Order[2].NormalizedPath}
	want := []string{"c.urd.md", "b.urd.md", "a.urd.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topo order: got %v, want %v", got, want)
		}
	}
	for _, e := range res.Graph.Edges {
		if e.Src == "c.urd.md" && e.Dst == "a.urd.md" {
			t.Fatalf("cyclic edge c->a must be absent, got edges %v", res.Graph.Edges)
		}
	}
}

func TestFileStemCollisionIsFatal(t *testing.T) {
	files := map[string][]byte{
		"main.urd.md":           []byte("---\nimport:\n  - ./content/tavern.urd.md\n  - ./scenes/tavern.urd.md\n---\n# Main\n"),
		"content/tavern.urd.md": []byte("---\n---\n# Tavern A\n"),
		"scenes/tavern.urd.md":  []byte("---\n---\n# Tavern B\n"),
	}
	res, bag := run(t, files, "main.urd.md")

	if !bag.HasCode(diag.ImportFileStemCollision) {
		t.Fatalf("expected URD203, got %v", bag.Items())
	}
	if !res.Fatal {
		t.Fatalf("expected Fatal=true for a file-stem collision")
	}
	for _, d := range bag.Items() {
		if d.Code >= 300 {
			t.Fatalf("no LINK/VALIDATE/EMIT/ANALYZE diagnostics expected after a fatal stop, got %s", d.Code.ID())
		}
	}
}

func TestDeterministicTieBreak(t *testing.T) {
	files := map[string][]byte{
		"main.urd.md": []byte("---\nimport:\n  - ./zeta.urd.md\n  - ./alpha.urd.md\n---\n# Main\n"),
		"zeta.urd.md": []byte("---\n---\n# Zeta\n"),
		"alpha.urd.md": []byte("---\n---\n# Alpha\n"),
	}
	res, _ := run(t, files, "main.urd.md")
	if len(res.Order) != 3 {
		t.Fatalf("expected 3 files, got %d", len(res.Order))
	}
	if res.Order[0].NormalizedPath != "alpha.urd.md" || res.Order[1].NormalizedPath != "zeta.urd.md" {
		t.Fatalf("expected alphabetic tie-break [alpha, zeta, main], got %v",
			[]string{res.Order[0].NormalizedPath, res.Order[1].NormalizedPath, res.Order[2].NormalizedPath})
	}
	if res.Order[2].NormalizedPath != "main.urd.md" {
		t.Fatalf("expected entry last, got %s", res.Order[2].NormalizedPath)
	}
}
