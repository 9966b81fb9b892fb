package emit

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// buildDialogue renders the `dialogue` block: speech and stage-direction
// lines found in choice content, in the order choices and their content
// were declared.
//
// Limitation: this only reaches dialogue nested inside a choice. Content
// written directly under a location or section heading (outside any
// choice) has no home in the symbol table today — LocationSymbol/
// SectionSymbol keep exits/choices, not a general content slice — so it
// is invisible here. Giving locations and sections their own retained
// content list would close this gap; out of scope for now (see
// DESIGN.md).
func buildDialogue(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, sec := range table.Sections.Values() {
		if sec.Conflicted {
			continue
		}
		for _, cs := range sec.Choices {
			if cs.Node == nil {
				continue
			}
			for _, cn := range cs.Node.Content {
				switch t := cn.(type) {
				case *ast.EntitySpeech:
					out = append(out, orderedObject{
						f("site", cs.CompiledID),
						f("kind", "speech"),
						f("entity", refID(t.EntityRef)),
						f("text", t.Text),
					})
				case *ast.StageDirection:
					out = append(out, orderedObject{
						f("site", cs.CompiledID),
						f("kind", "stage_direction"),
						f("entity", refID(t.EntityRef)),
						f("text", t.Text),
					})
				}
			}
		}
	}
	return out
}
