package validate

import "github.com/urdwyrd/urdc/internal/diag"

// validateExits checks spec §4.4's last two bullets: an exit's guard
// condition type-checks, and a guard condition's presence is consistent
// with a blocked message's presence.
func (v *validator) validateExits() {
	for _, loc := range v.table.Locations.Values() {
		if loc.Conflicted {
			continue
		}
		for _, exit := range loc.Exits.Values() {
			hasCond := exit.ConditionRef != nil
			hasMsg := exit.BlockedMessageRef != nil
			if hasCond != hasMsg {
				diag.Warning(v.rep, diag.ValidateBlockedMessageMismatch, exit.DeclaredIn.Span, exitMismatchMessage(hasCond))
			}
			if exit.ConditionRef != nil {
				v.checkCondition(exit.ConditionRef)
			}
		}
	}
}

func exitMismatchMessage(hasCond bool) string {
	if hasCond {
		return "exit has a guard condition but no blocked message to show when it fails"
	}
	return "exit has a blocked message but no guard condition that would ever trigger it"
}
