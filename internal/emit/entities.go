package emit

import "github.com/urdwyrd/urdc/internal/symbols"

// buildEntities renders the `entities` block: one entry per
// EntitySymbol, its overrides emitted in the order the author wrote
// them (not a fixed schema, since property overrides are free-form per
// entity).
func buildEntities(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, ent := range table.Entities.Values() {
		if ent.Conflicted {
			continue
		}
		fields := orderedObject{f("id", ent.ID), f("type", ent.ResolvedType)}
		if len(ent.Overrides) > 0 {
			overrides := make(orderedObject, 0, len(ent.Overrides))
			for _, ov := range ent.Overrides {
				overrides = append(overrides, f(ov.Name, frontmatterLiteral(ov.Value)))
			}
			fields = append(fields, f("overrides", overrides))
		}
		out = append(out, fields)
	}
	return out
}
