package linker

import (
	"testing"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
)

const fixture = `---
world:
  title: Test World
  start: cell
  entry: intro
import:
  - ./extra.urd.md
types:
  Key:
    traits: [portable]
    properties:
      rusty:
        type: boolean
        default: true
  LockedDoor:
    traits: [container]
    properties:
      locked:
        type: boolean
        default: true
entities:
  rusty_key:
    type: Key
  cell_door:
    type: LockedDoor
---
## intro
### Begin (auto)

# Cell
[@rusty_key]
exit east: corridor
? @cell_door.locked == false
! The door is locked.

== main ==
* Take the key
  -> @rusty_key
  > set @rusty_key.rusty = false
* Leave
  -> exit:east

rule auto_unlock:
  actor: @cell_door
  trigger: enter corridor
  effect: set @cell_door.locked = false
`

const extraFixture = `---
---
# Corridor
`

func runLink(t *testing.T) (*projectgraph.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	reader := projectgraph.MapReader{Files: map[string][]byte{
		"main.urd.md":  []byte(fixture),
		"extra.urd.md": []byte(extraFixture),
	}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	return &res, bag
}

func TestLinkResolvesTypesAndEntities(t *testing.T) {
	res, bag := runLink(t)
	table := Link(res.Order, diag.BagReporter{Bag: bag})

	key, ok := table.Entities.Get("rusty_key")
	if !ok {
		t.Fatalf("expected entity rusty_key to be collected")
	}
	if key.ResolvedType != "Key" {
		t.Fatalf("expected rusty_key.ResolvedType == Key, got %q (diags: %v)", key.ResolvedType, bag.Items())
	}

	door, ok := table.Entities.Get("cell_door")
	if !ok || door.ResolvedType != "LockedDoor" {
		t.Fatalf("expected cell_door resolved to LockedDoor, got %+v", door)
	}
}

func TestLinkResolvesExitAndWorld(t *testing.T) {
	res, bag := runLink(t)
	table := Link(res.Order, diag.BagReporter{Bag: bag})

	cell, ok := table.Locations.Get("cell")
	if !ok {
		t.Fatalf("expected location \"cell\" to be collected")
	}
	exit, ok := cell.Exits.Get("east")
	if !ok {
		t.Fatalf("expected exit \"east\" on cell")
	}
	if exit.ResolvedDestination != "corridor" {
		t.Fatalf("expected exit to resolve to corridor, got %q", exit.ResolvedDestination)
	}
	if exit.ConditionRef == nil {
		t.Fatalf("expected exit guard condition to be present")
	}

	if table.World == nil {
		t.Fatalf("expected a world symbol")
	}
	if table.World.StartResolved != "cell" {
		t.Fatalf("expected world.start to resolve to cell, got %q (diags: %v)", table.World.StartResolved, bag.Items())
	}
	if table.World.EntryResolved != "intro" {
		t.Fatalf("expected world.entry to resolve to intro, got %q (diags: %v)", table.World.EntryResolved, bag.Items())
	}
}

func TestLinkResolvesChoiceTargetsAndJumps(t *testing.T) {
	res, bag := runLink(t)
	table := Link(res.Order, diag.BagReporter{Bag: bag})

	sec, ok := table.Sections.Get("main/main")
	if !ok {
		t.Fatalf("expected section main/main to be collected, got sections: %v", table.Sections.Keys())
	}
	if len(sec.Choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(sec.Choices))
	}

	takeKey := sec.Choices[0]
	act, ok := table.Actions.Get(takeKey.CompiledID)
	if !ok || act.Target == nil || *act.Target != "rusty_key" {
		t.Fatalf("expected choice action target == rusty_key, got %+v", act)
	}

	leave := sec.Choices[1]
	leaveAct, ok := table.Actions.Get(leave.CompiledID)
	if !ok || leaveAct.Target != nil || leaveAct.TargetType != nil {
		t.Fatalf("expected \"Leave\" choice to have no action target (exit-qualified jump only), got %+v", leaveAct)
	}
	var jump *ast.Jump
	for _, cn := range leave.Node.Content {
		if j, ok := cn.(*ast.Jump); ok {
			jump = j
		}
	}
	if jump == nil || jump.ResolvedKind != "exit" || jump.Resolved != "east" {
		t.Fatalf("expected \"Leave\" choice's jump to resolve to exit \"east\", got %+v (diags: %v)", jump, bag.Items())
	}

	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			t.Errorf("unexpected error diagnostic: %s %s", d.Code.ID(), d.Message)
		}
	}
}

func TestLinkReportsDuplicateEntity(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	src := []byte(`---
types:
  Key:
    properties:
      rusty:
        type: boolean
entities:
  rusty_key:
    type: Key
  rusty_key:
    type: Key
---
`)
	reader := projectgraph.MapReader{Files: map[string][]byte{"main.urd.md": src}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	Link(res.Order, rep)

	if !bag.HasCode(diag.LinkDuplicateEntity) {
		t.Fatalf("expected URD302 for duplicate entity, got %v", bag.Items())
	}
}

func TestLinkReportsUnresolvedEntityType(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	src := []byte(`---
entities:
  ghost:
    type: Phantom
---
`)
	reader := projectgraph.MapReader{Files: map[string][]byte{"main.urd.md": src}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	Link(res.Order, rep)

	if !bag.HasCode(diag.LinkUnresolvedReference) {
		t.Fatalf("expected URD301 for unresolved entity type, got %v", bag.Items())
	}
}
