package emit

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// buildRules renders the `rules` block.
func buildRules(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, rule := range table.Rules.Values() {
		if rule.Conflicted || rule.Node == nil {
			continue
		}
		doc := orderedObject{
			f("id", rule.ID),
			f("actor", rule.Actor),
			f("trigger", triggerDoc(rule.Trigger)),
		}
		if rule.Select != nil {
			doc = append(doc, f("select", selectDoc(rule.Select)))
		}
		var where []string
		for _, w := range rule.Node.WhereClauses {
			where = append(where, lowerCondition(w))
		}
		if where != nil {
			doc = append(doc, f("where", where))
		}
		var effects []string
		for _, eff := range rule.Node.Effects {
			effects = append(effects, lowerEffect(eff))
		}
		if effects != nil {
			doc = append(doc, f("effects", effects))
		}
		out = append(out, doc)
	}
	return out
}

func triggerDoc(t ast.Trigger) orderedObject {
	switch t.Kind {
	case ast.TriggerPhaseIs:
		return orderedObject{f("kind", "phase_is"), f("phase", refID(t.PhaseRef))}
	case ast.TriggerAction:
		return orderedObject{f("kind", "action"), f("action", refID(t.ActionRef))}
	case ast.TriggerEnter:
		return orderedObject{f("kind", "enter"), f("location", refID(t.LocationRef))}
	case ast.TriggerStateChange:
		return orderedObject{
			f("kind", "state_change"),
			f("entity", refID(t.StateEntityRef)),
			f("property", t.StateProperty),
		}
	default:
		return orderedObject{f("kind", "always")}
	}
}

func selectDoc(s *symbols.SelectDef) orderedObject {
	doc := orderedObject{f("variable", s.Variable), f("from", s.From)}
	var where []string
	for _, w := range s.Where {
		where = append(where, lowerCondition(w))
	}
	if where != nil {
		doc = append(doc, f("where", where))
	}
	return doc
}
