package diag

import (
	"testing"

	"github.com/urdwyrd/urdc/internal/source"
)

func TestBagSortTopologicalThenPosition(t *testing.T) {
	b := NewBag()
	b.Add(Diagnostic{Severity: SevError, Code: LinkUnresolvedReference, Primary: source.Span{File: 2, StartLine: 1, StartCol: 1}})
	b.Add(Diagnostic{Severity: SevWarning, Code: ImportCasingMismatch, Primary: source.Span{File: 1, StartLine: 5, StartCol: 1}})
	b.Add(Diagnostic{Severity: SevError, Code: ParseUnclosedFrontmatter, Primary: source.Span{File: 1, StartLine: 2, StartCol: 1}})

	// file 1 imports nothing, file 2 imports file 1: topo order [1, 2]
	b.Sort(map[source.FileID]int{1: 0, 2: 1})

	items := b.Items()
	if items[0].Primary.File != 1 || items[0].Primary.StartLine != 2 {
		t.Fatalf("expected file1:line2 first, got %+v", items[0])
	}
	if items[1].Primary.File != 1 || items[1].Primary.StartLine != 5 {
		t.Fatalf("expected file1:line5 second, got %+v", items[1])
	}
	if items[2].Primary.File != 2 {
		t.Fatalf("expected file2 last, got %+v", items[2])
	}
}

func TestBagSortSeverityTieBreak(t *testing.T) {
	b := NewBag()
	pos := source.Span{File: 1, StartLine: 1, StartCol: 1}
	b.Add(Diagnostic{Severity: SevInfo, Code: Unknown, Primary: pos})
	b.Add(Diagnostic{Severity: SevError, Code: Unknown, Primary: pos})
	b.Add(Diagnostic{Severity: SevWarning, Code: Unknown, Primary: pos})

	b.Sort(nil)
	items := b.Items()
	if items[0].Severity != SevError || items[1].Severity != SevWarning || items[2].Severity != SevInfo {
		t.Fatalf("unexpected severity order: %v %v %v", items[0].Severity, items[1].Severity, items[2].Severity)
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag()
	b.Add(Diagnostic{Severity: SevWarning})
	if b.HasErrors() {
		t.Fatal("expected no errors")
	}
	b.Add(Diagnostic{Severity: SevError})
	if !b.HasErrors() {
		t.Fatal("expected errors")
	}
}
