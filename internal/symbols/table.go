package symbols

// Table is the global, per-compilation registry of every declared symbol,
// across all seven categories (spec §3.3). Storage is global; visibility
// is enforced by callers at resolution time (internal/linker), filtering
// by DeclSite.File against a file's visible scope.
type Table struct {
	Types     *OrderedMap[string, *TypeSymbol]
	Entities  *OrderedMap[string, *EntitySymbol]
	Sections  *OrderedMap[string, *SectionSymbol]
	Locations *OrderedMap[string, *LocationSymbol]
	Actions   *OrderedMap[string, *ActionSymbol]
	Rules     *OrderedMap[string, *RuleSymbol]
	Sequences *OrderedMap[string, *SequenceSymbol]
	World     *WorldSymbol // nil if no file declared a world: block
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{
		Types:     NewOrderedMap[string, *TypeSymbol](),
		Entities:  NewOrderedMap[string, *EntitySymbol](),
		Sections:  NewOrderedMap[string, *SectionSymbol](),
		Locations: NewOrderedMap[string, *LocationSymbol](),
		Actions:   NewOrderedMap[string, *ActionSymbol](),
		Rules:     NewOrderedMap[string, *RuleSymbol](),
		Sequences: NewOrderedMap[string, *SequenceSymbol](),
	}
}
