// Package emit implements the EMIT phase (spec §4.6): it renders a
// resolved symbol table as the single deterministic JSON world document,
// or returns nil once any error-severity diagnostic already exists
// elsewhere in the compile ("null but not an error").
package emit

import (
	"encoding/json"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// document is the fixed top-level shape (spec §6.3, §8.1): "urd", "world",
// "types", "entities", "locations", "rules", "actions", "sequences",
// "dialogue", in that order. A nil slice field is omitted by
// encoding/json's omitempty — every block but urd and world is optional
// and dropped when empty (spec §4.6 "blocks with no members are
// omitted").
type document struct {
	Urd       string          `json:"urd"`
	World     orderedObject   `json:"world"`
	Types     []orderedObject `json:"types,omitempty"`
	Entities  []orderedObject `json:"entities,omitempty"`
	Locations []orderedObject `json:"locations,omitempty"`
	Rules     []orderedObject `json:"rules,omitempty"`
	Actions   []orderedObject `json:"actions,omitempty"`
	Sequences []orderedObject `json:"sequences,omitempty"`
	Dialogue  []orderedObject `json:"dialogue,omitempty"`
}

// Emit implements the EMIT phase's `emit(graph, symbol_table,
// diagnostics) -> bytes | null` contract. The dependency graph itself is
// not a parameter here: every AST node EMIT needs is already reachable
// through the symbol table's non-owning Node pointers (ChoiceSymbol.Node,
// RuleSymbol.Node, ExitSymbol.ConditionRef/BlockedMessageRef), the same
// way VALIDATE and ANALYZE reach content without a separate graph
// argument.
func Emit(table *symbols.Table, bag *diag.Bag) ([]byte, error) {
	if bag != nil && bag.HasErrors() {
		return nil, nil
	}
	rep := diag.BagReporter{Bag: bag}
	checkSlugCollisions(table, rep)
	if bag != nil && bag.HasErrors() {
		return nil, nil
	}
	doc := document{
		Urd:       worldVersion,
		World:     buildWorld(table, rep),
		Types:     buildTypes(table),
		Entities:  buildEntities(table),
		Locations: buildLocations(table),
		Rules:     buildRules(table),
		Actions:   buildActions(table),
		Sequences: buildSequences(table),
		Dialogue:  buildDialogue(table),
	}
	return json.Marshal(doc)
}
