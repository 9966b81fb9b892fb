package analyze

import (
	"testing"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/linker"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

const fixture = `---
types:
  Lamp:
    traits: [fixed]
    properties:
      fuel:
        type: integer
      dust:
        type: boolean
  Door:
    traits: [fixed]
    properties:
      state:
        type: enum
        values: [open, closed, locked]
  Box:
    traits: [fixed]
    properties:
      count:
        type: integer
        min: 0
        max: 100
  Switch:
    traits: [fixed]
    properties:
      armed:
        type: boolean
entities:
  old_lamp:
    type: Lamp
  side_door:
    type: Door
  crate:
    type: Box
  trap:
    type: Switch
---
# Cell
exit east: corridor
? @old_lamp.fuel > 0

== main ==
* Look at lamp
  ? @side_door.state == open
  > set @side_door.state = locked
* Stack crate
  ? @crate.count > 10
  > set @crate.count = 3
* Clean lamp
  > set @old_lamp.dust = true
* Arm trap
  ? @trap.armed == false
  > set @trap.armed = true

# Corridor
`

func buildTable(t *testing.T) *symbols.Table {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	reader := projectgraph.MapReader{Files: map[string][]byte{"main.urd.md": []byte(fixture)}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	return linker.Link(res.Order, rep)
}

func TestAnalyzeFindsAllFiveDiagnostics(t *testing.T) {
	table := buildTable(t)
	bag := diag.NewBag()
	Analyze(table, diag.BagReporter{Bag: bag})

	cases := []diag.Code{
		diag.AnalyzeReadNeverWritten,     // Lamp.fuel: read in an exit guard, never written
		diag.AnalyzeWrittenNeverRead,     // Lamp.dust: written, never read
		diag.AnalyzeUnreachableVariant,   // Door.state: set to "locked" but only "open" is ever tested
		diag.AnalyzeUnreachableThreshold, // Box.count: compared > 10, only ever set to 3
		diag.AnalyzeCircularDependency,   // Switch.armed: write guarded by a read of itself at the same site
	}
	for _, code := range cases {
		if !bag.HasCode(code) {
			t.Errorf("expected %s to be reported, diags: %v", code.ID(), bag.Items())
		}
	}
}

func TestAnalyzeExtractsBothReadsAndWritesForDoorState(t *testing.T) {
	table := buildTable(t)
	fs := Extract(table)
	idx := BuildIndex(fs)

	key := PropertyKey{EntityType: "Door", Property: "state"}
	if len(idx.Readers[key]) == 0 || len(idx.Writers[key]) == 0 {
		t.Fatalf("expected Door.state to have both reads and writes extracted, got readers=%d writers=%d",
			len(idx.Readers[key]), len(idx.Writers[key]))
	}
}

func TestAnalyzeUnreachableThresholdBacksOffOnAddSub(t *testing.T) {
	fs := &FactSet{
		Reads: []PropertyRead{
			{Site: "a", EntityType: "Box", Property: "count", Op: OpGt, Value: Value{Kind: ValInt, Int: 10}},
		},
		Writes: []PropertyWrite{
			{Site: "b", EntityType: "Box", Property: "count", Op: WriteSet, Value: Value{Kind: ValInt, Int: 3}},
			{Site: "c", EntityType: "Box", Property: "count", Op: WriteAdd, Value: Value{Kind: ValInt, Int: 1}},
		},
	}
	idx := BuildIndex(fs)
	bag := diag.NewBag()
	checkUnreachableThreshold(fs, idx, diag.BagReporter{Bag: bag})

	if bag.HasCode(diag.AnalyzeUnreachableThreshold) {
		t.Fatalf("expected no URD604 once an Add write exists on the key, got %v", bag.Items())
	}
}

func TestAnalyzeCircularDependencyRequiresAllWritesGuarded(t *testing.T) {
	fs := &FactSet{
		Reads: []PropertyRead{
			{Site: "siteA", EntityType: "Switch", Property: "armed", Op: OpEq, Value: Value{Kind: ValBool, Bool: false}},
		},
		Writes: []PropertyWrite{
			{Site: "siteA", EntityType: "Switch", Property: "armed", Op: WriteSet, Value: Value{Kind: ValBool, Bool: true}},
			{Site: "siteB", EntityType: "Switch", Property: "armed", Op: WriteSet, Value: Value{Kind: ValBool, Bool: true}},
		},
	}
	idx := BuildIndex(fs)
	bag := diag.NewBag()
	checkCircularDependency(fs, idx, diag.BagReporter{Bag: bag})

	if bag.HasCode(diag.AnalyzeCircularDependency) {
		t.Fatalf("expected no URD605 when siteB's write has no guarding read, got %v", bag.Items())
	}
}
