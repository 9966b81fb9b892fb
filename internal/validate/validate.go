// Package validate implements the VALIDATE phase (spec §4.4): a set of
// independent semantic checks over the symbol table LINK produced.
// Nothing here mutates the table; every check either reports a
// diagnostic or does nothing. Validate never aborts early — every
// construct is checked regardless of what earlier checks found, and a
// construct whose annotation LINK left unresolved is skipped silently
// (spec §4.4 "cascading-error suppression").
package validate

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/symbols"
)

type validator struct {
	table *symbols.Table
	rep   diag.Reporter
}

// Validate runs every VALIDATE check against table, reporting to rep.
// Callers should not invoke Validate when IMPORT or LINK produced a
// fatal diagnostic (spec §4.2); VALIDATE's own errors gate EMIT but
// never stop the pipeline themselves (spec §4.4).
func Validate(table *symbols.Table, rep diag.Reporter) {
	v := &validator{table: table, rep: rep}
	v.validateEntities()
	v.validateSections()
	v.validateRules()
	v.validateExits()
	v.validateActions()
	v.validatePlayer()
}

// entityType resolves ref to the TypeSymbol of the entity it names, or
// false if ref is unresolved, names an entity this table has no record
// of (the "player"/"here" keywords, or a rule-scoped alias that happens
// not to collide with a real entity ID), or that entity's own type
// failed to resolve. Every caller treats false as "nothing to check",
// never as an error of its own — LINK already reported the underlying
// problem, if there was one.
func (v *validator) entityType(ref ast.Ref) (*symbols.TypeSymbol, bool) {
	if ref.Resolved == "" {
		return nil, false
	}
	ent, ok := v.table.Entities.Get(ref.Resolved)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return nil, false
	}
	t, ok := v.table.Types.Get(ent.ResolvedType)
	if !ok || t.Conflicted {
		return nil, false
	}
	return t, true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func hasTrait(traits []string, name string) bool {
	return containsString(traits, name)
}
