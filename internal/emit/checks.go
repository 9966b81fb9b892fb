package emit

import (
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// checkSlugCollisions catches an EMIT-time category of duplicate LINK
// never sees: types, entities, locations, rules and sequences each get
// their own OrderedMap, so a rule named "cell" and a location whose
// display name "Cell" slugifies to "cell" can both reach EMIT without
// LinkDuplicate* ever firing (those checks are scoped per-category).
// In the flat id space of the emitted JSON document this is still a
// collision (spec §7 "post-slugification collisions"), so it is
// reported here instead, once, at the one point all categories are
// visible together.
func checkSlugCollisions(table *symbols.Table, rep diag.Reporter) {
	seen := map[string]string{} // id -> category that claimed it first

	claim := func(id, category string, span source.Span) {
		if id == "" {
			return
		}
		if owner, ok := seen[id]; ok && owner != category {
			diag.Error(rep, diag.EmitSlugCollision, span,
				"\""+id+"\" is declared as both "+owner+" and "+category+"; both slugify to the same identifier")
			return
		}
		seen[id] = category
	}

	for _, t := range table.Types.Values() {
		if !t.Conflicted {
			claim(t.Name, "a type", t.DeclaredIn.Span)
		}
	}
	for _, e := range table.Entities.Values() {
		if !e.Conflicted {
			claim(e.ID, "an entity", e.DeclaredIn.Span)
		}
	}
	for _, l := range table.Locations.Values() {
		if !l.Conflicted {
			claim(l.ID, "a location", l.DeclaredIn.Span)
		}
	}
	for _, r := range table.Rules.Values() {
		if !r.Conflicted {
			claim(r.ID, "a rule", r.DeclaredIn.Span)
		}
	}
	for _, s := range table.Sequences.Values() {
		if !s.Conflicted {
			claim(s.ID, "a sequence", s.DeclaredIn.Span)
		}
	}
}
