package validate

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/diag"
)

// playerEntityID is the fixed entity identifier this implementation uses
// to designate the player (spec §4.4 "player entity rules" is silent on
// how a world names its player, since spec.md leaves the concrete
// frontmatter grammar open; see DESIGN.md).
const playerEntityID = "player"

// validatePlayer checks spec §4.4's player-entity bullet: if an entity
// named "player" is declared, its resolved type must carry both the
// "mobile" and "container" traits. A world with no such entity has
// nothing to check.
func (v *validator) validatePlayer() {
	ent, ok := v.table.Entities.Get(playerEntityID)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return
	}
	t, ok := v.table.Types.Get(ent.ResolvedType)
	if !ok || t.Conflicted {
		return
	}
	if !hasTrait(t.Traits, "mobile") || !hasTrait(t.Traits, "container") {
		diag.Error(v.rep, diag.ValidatePlayerMissingTrait, ent.DeclaredIn.Span,
			fmt.Sprintf("player entity's type %q must declare both the \"mobile\" and \"container\" traits", t.Name))
	}
}
