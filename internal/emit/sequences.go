package emit

import "github.com/urdwyrd/urdc/internal/symbols"

// buildSequences renders the `sequences` block: one entry per
// SequenceSymbol with its phases in declared order.
func buildSequences(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, seq := range table.Sequences.Values() {
		if seq.Conflicted {
			continue
		}
		var phases []orderedObject
		for _, ph := range seq.Phases {
			phase := orderedObject{f("id", ph.ID), f("advance", advanceString(ph.Advance))}
			if ph.Action != "" {
				phase = append(phase, f("action", ph.Action))
			}
			if len(ph.Actions) > 0 {
				phase = append(phase, f("actions", ph.Actions))
			}
			if ph.Rule != "" {
				phase = append(phase, f("rule", ph.Rule))
			}
			phases = append(phases, phase)
		}
		fields := orderedObject{f("id", seq.ID)}
		if phases != nil {
			fields = append(fields, f("phases", phases))
		}
		out = append(out, fields)
	}
	return out
}

func advanceString(a symbols.PhaseAdvance) string {
	if a == symbols.AdvanceAuto {
		return "auto"
	}
	return "manual"
}
