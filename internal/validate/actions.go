package validate

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/diag"
)

// validateActions checks spec §4.4's mutual-exclusion bullet: an action
// must not declare both a target and a target_type.
func (v *validator) validateActions() {
	for _, act := range v.table.Actions.Values() {
		if act.Target != nil && act.TargetType != nil {
			diag.Error(v.rep, diag.ValidateActionTargetConflict, act.DeclaredIn.Span,
				fmt.Sprintf("action %q declares both a target and a target_type", act.ID))
		}
	}
}
