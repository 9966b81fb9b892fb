package emit

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// buildActions renders the `actions` block. Every action in this
// grammar is choice-derived (see the LINK ledger entry's "choices-only
// Actions scope decision" — no `actions:` frontmatter block exists), so
// this walks sections and their choices directly rather than
// table.Actions, since an ActionSymbol carries only the resolved
// target/target_type, not the choice's label or content; the two tables
// are populated in lockstep by LINK sweep 1 (registerChoice inserts
// both under the same id), so the orders agree.
func buildActions(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, sec := range table.Sections.Values() {
		if sec.Conflicted {
			continue
		}
		for _, cs := range sec.Choices {
			out = append(out, actionDoc(table, cs))
		}
	}
	return out
}

func actionDoc(table *symbols.Table, cs *symbols.ChoiceSymbol) orderedObject {
	doc := orderedObject{
		f("id", cs.CompiledID),
		f("description", cs.Label),
	}
	if act, ok := table.Actions.Get(cs.CompiledID); ok {
		if act.Target != nil {
			doc = append(doc, f("target", *act.Target))
		}
		if act.TargetType != nil {
			doc = append(doc, f("target_type", *act.TargetType))
		}
	}
	if cs.Node == nil {
		return doc
	}

	var conditions, effects []string
	for _, cn := range cs.Node.Content {
		switch t := cn.(type) {
		case *ast.Condition:
			conditions = append(conditions, lowerCondition(t.Expr))
		case *ast.OrConditionBlock:
			for _, c := range t.Conditions {
				conditions = append(conditions, lowerCondition(c))
			}
		case *ast.Effect:
			effects = append(effects, lowerEffect(t.Kind))
		case *ast.Jump:
			effects = append(effects, lowerJump(t))
		}
	}
	if conditions != nil {
		doc = append(doc, f("conditions", conditions))
	}
	if effects != nil {
		doc = append(doc, f("effects", effects))
	}
	return doc
}
