package emit

import "github.com/urdwyrd/urdc/internal/symbols"

// buildLocations renders the `locations` block: one entry per
// LocationSymbol with its exits in declaration order.
func buildLocations(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, loc := range table.Locations.Values() {
		if loc.Conflicted {
			continue
		}
		var exits []orderedObject
		for _, ex := range loc.Exits.Values() {
			exit := orderedObject{
				f("direction", ex.Direction),
				f("destination", ex.ResolvedDestination),
			}
			if ex.ConditionRef != nil {
				exit = append(exit, f("condition", lowerCondition(ex.ConditionRef)))
			}
			if ex.BlockedMessageRef != nil {
				exit = append(exit, f("blocked_message", ex.BlockedMessageRef.Text))
			}
			exits = append(exits, exit)
		}
		fields := orderedObject{f("id", loc.ID), f("name", loc.DisplayName)}
		if exits != nil {
			fields = append(fields, f("exits", exits))
		}
		if len(loc.Contains) > 0 {
			fields = append(fields, f("contains", loc.Contains))
		}
		out = append(out, fields)
	}
	return out
}
