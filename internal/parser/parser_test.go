package parser

import (
	"testing"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

const twoRoomFixture = `---
import:
  - ./corridor.urd.md
world:
  start: cell
  entry: main
types:
  Key:
    traits: [portable]
    properties:
      name:
        type: string
  LockedDoor:
    traits: [interactable]
    properties:
      locked:
        type: boolean
        default: true
      requires:
        type: ref
        ref_type: Key
entities:
  rusty_key:
    type: Key
    name: "Rusty Key"
  cell_door:
    type: LockedDoor
    requires: rusty_key
---
# Cell

[@rusty_key]
A dim cell. A rusty key glints on the floor.

exit east: corridor
? @cell_door.locked == false
! The door is locked.

== main ==
* Pick up the rusty key
  -> @rusty_key
  > set @rusty_key.held = true
* Try the door
  ? @cell_door.locked == true
  > set @cell_door.locked = false

rule auto_unlock:
  actor: @cell_door
  trigger: state_change @rusty_key.held
  select: k from @rusty_key where @rusty_key.held == true
  effect: set @cell_door.locked = false
`

func parseFixture(t *testing.T, text string) (*ast.FileAst, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("cell.urd.md", []byte(text))
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	fa := ParseFile(id, fs, rep)
	return fa, bag
}

func TestParseFrontmatterShapes(t *testing.T) {
	fa, bag := parseFixture(t, twoRoomFixture)
	if fa == nil {
		t.Fatal("ParseFile returned nil")
	}
	for _, d := range bag.Items() {
		t.Errorf("unexpected diagnostic: %s: %s", d.Code.ID(), d.Message)
	}

	var sawImport, sawWorld, sawTypes, sawEntities bool
	for _, e := range fa.Frontmatter.Entries {
		switch e.Key {
		case "import":
			sawImport = true
			lst, ok := e.Value.(ast.List)
			if !ok || len(lst.Items) != 1 {
				t.Fatalf("import: expected a one-item list, got %#v", e.Value)
			}
			imp, ok := lst.Items[0].(*ast.ImportDecl)
			if !ok || imp.Path != "./corridor.urd.md" {
				t.Fatalf("import[0]: got %#v", lst.Items[0])
			}
		case "world":
			sawWorld = true
			wb, ok := e.Value.(*ast.WorldBlock)
			if !ok || len(wb.Fields) != 2 {
				t.Fatalf("world: got %#v", e.Value)
			}
		case "types":
			sawTypes = true
			m, ok := e.Value.(ast.Map)
			if !ok || len(m.Entries) != 2 {
				t.Fatalf("types: got %#v", e.Value)
			}
			key, ok := m.Entries[0].Value.(*ast.TypeDef)
			if !ok || key.Name != "Key" || len(key.Properties) != 1 {
				t.Fatalf("types.Key: got %#v", m.Entries[0].Value)
			}
			if key.Properties[0].Name != "name" || key.Properties[0].Type != ast.PropString {
				t.Fatalf("types.Key.properties.name: got %#v", key.Properties[0])
			}
			door := m.Entries[1].Value.(*ast.TypeDef)
			if door.Name != "LockedDoor" || len(door.Properties) != 2 {
				t.Fatalf("types.LockedDoor: got %#v", door)
			}
			if door.Properties[1].RefType.Raw != "Key" {
				t.Fatalf("LockedDoor.requires.ref_type: got %#v", door.Properties[1].RefType)
			}
		case "entities":
			sawEntities = true
			m, ok := e.Value.(ast.Map)
			if !ok || len(m.Entries) != 2 {
				t.Fatalf("entities: got %#v", e.Value)
			}
			key := m.Entries[0].Value.(*ast.EntityDecl)
			if key.ID != "rusty_key" || key.TypeName.Raw != "Key" {
				t.Fatalf("entities.rusty_key: got %#v", key)
			}
		}
	}
	if !sawImport || !sawWorld || !sawTypes || !sawEntities {
		t.Fatalf("missing top-level frontmatter keys: import=%v world=%v types=%v entities=%v", sawImport, sawWorld, sawTypes, sawEntities)
	}
}

func TestParseContentNodes(t *testing.T) {
	fa, _ := parseFixture(t, twoRoomFixture)

	var gotLocation, gotPresence, gotExit, gotSection, gotRule bool
	var choices []*ast.Choice
	for _, n := range fa.Content {
		switch node := n.(type) {
		case *ast.LocationHeading:
			gotLocation = true
			if node.DisplayName != "Cell" {
				t.Errorf("location heading: got %q", node.DisplayName)
			}
		case *ast.EntityPresence:
			gotPresence = true
			if len(node.EntityRefs) != 1 || node.EntityRefs[0].Raw != "rusty_key" {
				t.Errorf("presence: got %#v", node.EntityRefs)
			}
		case *ast.ExitDeclaration:
			gotExit = true
			if node.Direction != "east" || node.DestinationRaw != "corridor" {
				t.Errorf("exit: got %#v", node)
			}
			if node.ConditionRef == nil {
				t.Errorf("exit: expected attached condition")
			}
			if node.BlockedMessageRef == nil || node.BlockedMessageRef.Text != "The door is locked." {
				t.Errorf("exit: expected attached blocked message, got %#v", node.BlockedMessageRef)
			}
		case *ast.SectionLabel:
			gotSection = true
			if node.Name != "main" {
				t.Errorf("section label: got %q", node.Name)
			}
		case *ast.Choice:
			choices = append(choices, node)
		case *ast.RuleBlock:
			gotRule = true
			if node.Name != "auto_unlock" {
				t.Errorf("rule name: got %q", node.Name)
			}
			if node.Trigger.Kind != ast.TriggerStateChange || node.Trigger.StateEntityRef.Raw != "rusty_key" || node.Trigger.StateProperty != "held" {
				t.Errorf("rule trigger: got %#v", node.Trigger)
			}
			if node.Select == nil || node.Select.Variable != "k" || len(node.Select.From) != 1 || node.Select.From[0].Raw != "rusty_key" {
				t.Errorf("rule select: got %#v", node.Select)
			}
			if len(node.Select.Where) != 1 {
				t.Errorf("rule select where: got %d clauses", len(node.Select.Where))
			}
			if len(node.Effects) != 1 {
				t.Errorf("rule effects: got %d", len(node.Effects))
			}
		}
	}
	if !gotLocation || !gotPresence || !gotExit || !gotSection || !gotRule {
		t.Fatalf("missing content nodes: location=%v presence=%v exit=%v section=%v rule=%v",
			gotLocation, gotPresence, gotExit, gotSection, gotRule)
	}
	if len(choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(choices))
	}
	if choices[0].Target == nil || choices[0].Target.Raw != "rusty_key" {
		t.Errorf("choice[0].Target: got %#v", choices[0].Target)
	}
	if choices[0].Depth != 1 || choices[1].Depth != 1 {
		t.Errorf("choice depth: got %d, %d", choices[0].Depth, choices[1].Depth)
	}
}

func TestParseTabIndentationRejected(t *testing.T) {
	src := "---\nworld:\n\tstart: cell\n---\n# Cell\n"
	_, bag := parseFixture(t, src)
	if !bag.HasCode(diag.ParseTabIndentation) {
		t.Fatalf("expected URD102 for tab indentation, got %v", bag.Items())
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	src := "---\nworld:\n  start: cell\n# Cell\n"
	_, bag := parseFixture(t, src)
	if !bag.HasCode(diag.ParseUnclosedFrontmatter) {
		t.Fatalf("expected URD101 for unclosed frontmatter, got %v", bag.Items())
	}
}

func TestParseNestedChoiceDepthWarning(t *testing.T) {
	src := "---\n---\n" +
		"== main ==\n" +
		"* outer\n" +
		"  * mid\n" +
		"    * inner\n" +
		"      * too-deep\n"
	_, bag := parseFixture(t, src)
	if !bag.HasCode(diag.ValidateChoiceNestingWarn) {
		t.Fatalf("expected URD415 nesting warning, got %v", bag.Items())
	}
	if !bag.HasCode(diag.ValidateChoiceNestingTooDeep) {
		t.Fatalf("expected URD403 nesting error, got %v", bag.Items())
	}
}
