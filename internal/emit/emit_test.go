package emit

import (
	"encoding/json"
	"testing"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/linker"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

const fixture = `---
world:
  start: cell
  entry: intro
  title: Test World
  urd: should-be-overridden
types:
  Avatar:
    traits: [mobile, container]
  Key:
    traits: [portable]
entities:
  player:
    type: Avatar
  rusty_key:
    type: Key
    weight: 3
    note: "a small rusty key"
---
## intro
### Begin

# Cell
exit east: corridor
? @rusty_key.holder == player

== main ==
* Take the key
  ? @rusty_key.holder == player
  > set @rusty_key.holder = player
  -> main

# Corridor
`

func buildTable(t *testing.T) (*symbols.Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	reader := projectgraph.MapReader{Files: map[string][]byte{"main.urd.md": []byte(fixture)}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	table := linker.Link(res.Order, rep)
	return table, bag
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal emitted document: %v", err)
	}
	return out
}

func TestEmitTopLevelKeysAndWorld(t *testing.T) {
	table, bag := buildTable(t)
	if bag.HasErrors() {
		t.Fatalf("fixture produced unexpected link errors: %v", bag.Items())
	}
	b, err := Emit(table, bag)
	if err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	if !bag.HasCode(diag.EmitURDFieldOverridden) {
		t.Errorf("expected EmitURDFieldOverridden warning for author-supplied urd field")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal top level: %v", err)
	}
	for _, key := range []string{"urd", "world", "types", "entities", "locations", "actions", "sequences"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected top-level key %q in emitted document", key)
		}
	}
	if _, ok := raw["rules"]; ok {
		t.Errorf("expected rules block to be omitted (fixture declares no rules)")
	}
	if _, ok := raw["dialogue"]; ok {
		t.Errorf("expected dialogue block to be omitted (fixture has no choice-content dialogue)")
	}

	doc := decode(t, b)
	if doc["urd"] != "1" {
		t.Errorf("urd = %v, want top-level \"1\" (author override must be ignored)", doc["urd"])
	}
	world, ok := doc["world"].(map[string]any)
	if !ok {
		t.Fatalf("world block missing or wrong shape: %#v", doc["world"])
	}
	if _, ok := world["urd"]; ok {
		t.Errorf("world.urd = %v, want urd to appear only at the top level, not nested inside world", world["urd"])
	}
	if world["start"] != "cell" {
		t.Errorf("world.start = %v, want \"cell\"", world["start"])
	}
	if world["entry"] != "intro" {
		t.Errorf("world.entry = %v, want \"intro\"", world["entry"])
	}
	if world["title"] != "Test World" {
		t.Errorf("world.title = %v, want passthrough \"Test World\"", world["title"])
	}
}

func TestEmitEntitiesCarryDeclaredOverrides(t *testing.T) {
	table, bag := buildTable(t)
	b, err := Emit(table, bag)
	if err != nil || b == nil {
		t.Fatalf("Emit failed: err=%v nil=%v", err, b == nil)
	}
	doc := decode(t, b)
	entities, ok := doc["entities"].([]any)
	if !ok {
		t.Fatalf("entities block missing or wrong shape")
	}
	var found bool
	for _, e := range entities {
		em := e.(map[string]any)
		if em["id"] != "rusty_key" {
			continue
		}
		found = true
		if em["type"] != "Key" {
			t.Errorf("rusty_key.type = %v, want \"Key\"", em["type"])
		}
		overrides, ok := em["overrides"].(map[string]any)
		if !ok {
			t.Fatalf("rusty_key.overrides missing or wrong shape: %#v", em["overrides"])
		}
		if overrides["weight"] != float64(3) {
			t.Errorf("overrides.weight = %v, want 3", overrides["weight"])
		}
		if overrides["note"] != "a small rusty key" {
			t.Errorf("overrides.note = %v, want passthrough string", overrides["note"])
		}
	}
	if !found {
		t.Fatalf("rusty_key not found in emitted entities")
	}
}

func TestEmitLocationExitLowersGuardCondition(t *testing.T) {
	table, bag := buildTable(t)
	b, err := Emit(table, bag)
	if err != nil || b == nil {
		t.Fatalf("Emit failed: err=%v nil=%v", err, b == nil)
	}
	doc := decode(t, b)
	locations, ok := doc["locations"].([]any)
	if !ok {
		t.Fatalf("locations block missing or wrong shape")
	}
	var found bool
	for _, l := range locations {
		lm := l.(map[string]any)
		if lm["id"] != "cell" {
			continue
		}
		exits, ok := lm["exits"].([]any)
		if !ok || len(exits) != 1 {
			t.Fatalf("cell.exits = %#v, want exactly one exit", lm["exits"])
		}
		found = true
		ex := exits[0].(map[string]any)
		if ex["direction"] != "east" {
			t.Errorf("exit.direction = %v, want \"east\"", ex["direction"])
		}
		if ex["destination"] != "corridor" {
			t.Errorf("exit.destination = %v, want \"corridor\"", ex["destination"])
		}
		if ex["condition"] != "rusty_key.holder == player" {
			t.Errorf("exit.condition = %v, want lowered guard", ex["condition"])
		}
	}
	if !found {
		t.Fatalf("cell location not found in emitted locations")
	}
}

func TestEmitChoiceDerivedAction(t *testing.T) {
	table, bag := buildTable(t)
	b, err := Emit(table, bag)
	if err != nil || b == nil {
		t.Fatalf("Emit failed: err=%v nil=%v", err, b == nil)
	}
	doc := decode(t, b)
	actions, ok := doc["actions"].([]any)
	if !ok || len(actions) != 1 {
		t.Fatalf("actions = %#v, want exactly one action", doc["actions"])
	}
	act := actions[0].(map[string]any)
	if act["description"] != "Take the key" {
		t.Errorf("action.description = %v, want \"Take the key\"", act["description"])
	}
	conditions, ok := act["conditions"].([]any)
	if !ok || len(conditions) != 1 || conditions[0] != "rusty_key.holder == player" {
		t.Errorf("action.conditions = %#v, want one lowered guard", act["conditions"])
	}
	effects, ok := act["effects"].([]any)
	if !ok || len(effects) != 2 {
		t.Fatalf("action.effects = %#v, want a set effect and a goto effect", act["effects"])
	}
	if effects[0] != "rusty_key.holder = player" {
		t.Errorf("effects[0] = %v, want lowered set effect", effects[0])
	}
	if effects[1] != "goto(main/main)" {
		t.Errorf("effects[1] = %v, want lowered jump to the enclosing section", effects[1])
	}
}

func TestEmitSequencePhases(t *testing.T) {
	table, bag := buildTable(t)
	b, err := Emit(table, bag)
	if err != nil || b == nil {
		t.Fatalf("Emit failed: err=%v nil=%v", err, b == nil)
	}
	doc := decode(t, b)
	sequences, ok := doc["sequences"].([]any)
	if !ok || len(sequences) != 1 {
		t.Fatalf("sequences = %#v, want exactly one sequence", doc["sequences"])
	}
	seq := sequences[0].(map[string]any)
	if seq["id"] != "intro" {
		t.Errorf("sequence.id = %v, want \"intro\"", seq["id"])
	}
	phases, ok := seq["phases"].([]any)
	if !ok || len(phases) != 1 {
		t.Fatalf("sequence.phases = %#v, want exactly one phase", seq["phases"])
	}
	ph := phases[0].(map[string]any)
	if ph["id"] != "begin" {
		t.Errorf("phase.id = %v, want \"begin\"", ph["id"])
	}
	if ph["advance"] != "manual" {
		t.Errorf("phase.advance = %v, want \"manual\" (no (auto) suffix declared)", ph["advance"])
	}
}

const collisionFixture = `---
types:
  Avatar:
    traits: [mobile, container]
entities:
  player:
    type: Avatar
---
rule Cell:
  actor: @player
  trigger: always

# Cell
`

func TestEmitReportsSlugCollisionAcrossCategories(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	reader := projectgraph.MapReader{Files: map[string][]byte{"main.urd.md": []byte(collisionFixture)}}
	res := projectgraph.Resolve("", "main.urd.md", reader, fs, rep)
	table := linker.Link(res.Order, rep)
	if bag.HasErrors() {
		t.Fatalf("fixture produced unexpected link errors before EMIT: %v", bag.Items())
	}

	b, err := Emit(table, bag)
	if err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}
	if b != nil {
		t.Errorf("Emit returned a document despite a slug collision: %s", b)
	}
	if !bag.HasCode(diag.EmitSlugCollision) {
		t.Errorf("expected EmitSlugCollision for rule \"Cell\" and location \"Cell\" sharing the slug \"cell\"")
	}
}

func TestEmitReturnsNilWhenBagHasErrors(t *testing.T) {
	table, bag := buildTable(t)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LinkUnresolvedJumpTarget, Message: "injected failure"})
	b, err := Emit(table, bag)
	if err != nil {
		t.Fatalf("Emit returned an error instead of a nil document: %v", err)
	}
	if b != nil {
		t.Errorf("Emit returned a document despite an error-severity diagnostic: %s", b)
	}
}
