package emit

import (
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// worldVersion is the fixed value spec §6.3 requires as the document's
// top-level "urd" field, regardless of what (if anything) the author wrote.
const worldVersion = "1"

// buildWorld renders the `world` block. `urd` is a top-level sibling of
// `world` (spec §6.3, decisively confirmed by §8.1 invariant 2's
// Object.keys(world_doc) ordering), not a field inside it, so an
// author-supplied `urd` field here is dropped with a warning rather than
// carried through.
func buildWorld(table *symbols.Table, rep diag.Reporter) orderedObject {
	doc := orderedObject{}
	if table.World == nil {
		return doc
	}
	w := table.World
	if w.StartRaw != "" {
		doc = append(doc, f("start", w.StartResolved))
	}
	if w.EntryRaw != "" {
		doc = append(doc, f("entry", w.EntryResolved))
	}
	for _, entry := range w.Fields {
		switch entry.Key {
		case "start", "entry":
			continue
		case "urd":
			diag.Warning(rep, diag.EmitURDFieldOverridden, entry.SpanOf(),
				"author-supplied \"urd\" field in the world block is overridden with \"1\"")
			continue
		}
		doc = append(doc, f(entry.Key, frontmatterLiteral(entry.Value)))
	}
	return doc
}
