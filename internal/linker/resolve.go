package linker

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// resolve runs LINK's sweep 2 (spec §4.3 "Sweep 2 — resolution"): every
// reference-bearing node or symbol field is looked up in the now-complete
// global table, filtered by the referring file's visible scope.
func (l *linker) resolve() {
	for _, t := range l.table.Types.Values() {
		l.resolveTypeProperties(t)
	}
	for _, ent := range l.table.Entities.Values() {
		l.resolveEntity(ent)
	}
	for _, loc := range l.table.Locations.Values() {
		l.resolveLocation(loc)
	}
	for _, sec := range l.table.Sections.Values() {
		if !sec.Conflicted {
			for _, ch := range sec.Choices {
				l.resolveChoiceNode(sec.DeclaredIn.File, ch.Node, nil, sec.Location)
			}
		}
	}
	for _, rule := range l.table.Rules.Values() {
		l.resolveRule(rule)
	}
	if l.table.World != nil {
		l.resolveWorld(l.table.World)
	}
}

// resolveTypeProperties resolves each `ref`/`list<ref>` property's target
// type, filling both the declaring PropertyDef's annotation slot and the
// mirrored PropertySymbol field used by VALIDATE/EMIT.
func (l *linker) resolveTypeProperties(t *symbols.TypeSymbol) {
	if t.Conflicted || t.Node == nil {
		return
	}
	file := t.DeclaredIn.File
	for _, pd := range t.Node.Properties {
		propSym, _ := t.Properties.Get(pd.Name)
		if pd.Type == ast.PropRef && pd.RefType.Raw != "" {
			if sym, ok := l.lookupType(file, pd.RefType.Raw); ok {
				pd.RefType.Resolved = sym.Name
				if propSym != nil {
					propSym.RefType = sym.Name
				}
			} else {
				diag.Error(l.rep, diag.LinkUnresolvedReference, pd.SpanOf(),
					"property \""+pd.Name+"\" refers to undeclared type \""+pd.RefType.Raw+"\"")
			}
		}
		if pd.Type == ast.PropList && pd.ListElem == ast.PropRef && pd.ListRefType.Raw != "" {
			if sym, ok := l.lookupType(file, pd.ListRefType.Raw); ok {
				pd.ListRefType.Resolved = sym.Name
				if propSym != nil {
					propSym.ElementRefType = sym.Name
				}
			} else {
				diag.Error(l.rep, diag.LinkUnresolvedReference, pd.SpanOf(),
					"property \""+pd.Name+"\" list element refers to undeclared type \""+pd.ListRefType.Raw+"\"")
			}
		}
	}
}

func (l *linker) resolveEntity(ent *symbols.EntitySymbol) {
	if ent.Conflicted || ent.Node == nil {
		return
	}
	file := ent.DeclaredIn.File
	if sym, ok := l.lookupType(file, ent.Node.TypeName.Raw); ok {
		ent.Node.TypeName.Resolved = sym.Name
		ent.ResolvedType = sym.Name
		return
	}
	diag.Error(l.rep, diag.LinkUnresolvedReference, ent.Node.SpanOf(),
		"entity \""+ent.ID+"\" refers to undeclared type \""+ent.Node.TypeName.Raw+"\"")
}

func (l *linker) lookupType(referring source.FileID, name string) (*symbols.TypeSymbol, bool) {
	sym, ok := l.table.Types.Get(name)
	if !ok || sym.Conflicted || !l.scope.sees(referring, sym.DeclaredIn.File) {
		return nil, false
	}
	return sym, true
}

func (l *linker) lookupEntity(referring source.FileID, name string) (*symbols.EntitySymbol, bool) {
	sym, ok := l.table.Entities.Get(name)
	if !ok || sym.Conflicted || !l.scope.sees(referring, sym.DeclaredIn.File) {
		return nil, false
	}
	return sym, true
}

func (l *linker) lookupLocation(referring source.FileID, id string) (*symbols.LocationSymbol, bool) {
	sym, ok := l.table.Locations.Get(id)
	if !ok || sym.Conflicted || !l.scope.sees(referring, sym.DeclaredIn.File) {
		return nil, false
	}
	return sym, true
}

func (l *linker) lookupSequence(referring source.FileID, id string) (*symbols.SequenceSymbol, bool) {
	sym, ok := l.table.Sequences.Get(id)
	if !ok || sym.Conflicted || !l.scope.sees(referring, sym.DeclaredIn.File) {
		return nil, false
	}
	return sym, true
}

func (l *linker) lookupAction(referring source.FileID, id string) (*symbols.ActionSymbol, bool) {
	sym, ok := l.table.Actions.Get(id)
	if !ok || !l.scope.sees(referring, sym.DeclaredIn.File) {
		return nil, false
	}
	return sym, true
}

func (l *linker) lookupSection(referring source.FileID, localName string) (*symbols.SectionSymbol, bool) {
	for _, sec := range l.table.Sections.Values() {
		if sec.LocalName == localName && !sec.Conflicted && l.scope.sees(referring, sec.DeclaredIn.File) {
			return sec, true
		}
	}
	return nil, false
}

// resolveEntityRef resolves an entity-or-alias reference: the keywords
// "player"/"here" are pseudo-entities that always resolve, a rule-scoped
// select alias resolves against the enclosing rule's own scope (spec
// §4.3 "Rule-scoped aliases"), everything else is a plain entity lookup.
func (l *linker) resolveEntityRef(referring source.FileID, ref *ast.Ref, aliases map[string]bool, site source.Span, what string) {
	if ref == nil || ref.Raw == "" {
		return
	}
	if ref.Raw == "player" || ref.Raw == "here" {
		ref.Resolved = ref.Raw
		return
	}
	if aliases[ref.Raw] {
		ref.Resolved = ref.Raw
		return
	}
	if sym, ok := l.lookupEntity(referring, ref.Raw); ok {
		ref.Resolved = sym.ID
		return
	}
	diag.Error(l.rep, diag.LinkUnresolvedReference, site, "unresolved "+what+" reference \"@"+ref.Raw+"\"")
}

func (l *linker) resolveLocation(loc *symbols.LocationSymbol) {
	if loc.Conflicted {
		return
	}
	for _, exit := range loc.Exits.Values() {
		file := exit.DeclaredIn.File
		if dest, ok := l.lookupLocation(file, exit.DestinationRaw); ok {
			exit.ResolvedDestination = dest.ID
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedReference, exit.DeclaredIn.Span,
				"exit \""+exit.Direction+"\" targets undeclared location \""+exit.DestinationRaw+"\"")
		}
		if exit.ConditionRef != nil {
			l.resolveCondition(file, exit.ConditionRef, nil)
		}
	}
}

// resolveChoiceNode resolves one choice's target annotation plus every
// condition/effect/jump nested in its content, recursing into nested
// choices (their compiled IDs were already finalised during collection).
// loc is the location (if any) that encloses the choice's section, needed
// to resolve exit-qualified jumps.
func (l *linker) resolveChoiceNode(referring source.FileID, c *ast.Choice, aliases map[string]bool, loc *symbols.LocationSymbol) {
	act, _ := l.table.Actions.Get(c.ActionID)
	if c.Target != nil {
		l.resolveEntityRef(referring, c.Target, aliases, c.SpanOf(), "choice target")
		if act != nil && c.Target.Resolved != "" {
			v := c.Target.Resolved
			act.Target = &v
		}
	}
	if c.TargetType != nil {
		if sym, ok := l.lookupType(referring, c.TargetType.Raw); ok {
			c.TargetType.Resolved = sym.Name
			if act != nil {
				v := sym.Name
				act.TargetType = &v
			}
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedReference, c.SpanOf(),
				"choice target type \""+c.TargetType.Raw+"\" is not declared")
		}
	}
	for _, cn := range c.Content {
		if j, ok := cn.(*ast.Jump); ok && (j.IsEntityRef || (len(j.Target) > 5 && j.Target[:5] == "type:")) {
			continue // a `-> @x` / `-> type:X` jump is the choice's target, resolved above
		}
		l.resolveContentNode(referring, cn, aliases, loc)
	}
}

func (l *linker) resolveContentNode(referring source.FileID, n ast.ContentNode, aliases map[string]bool, loc *symbols.LocationSymbol) {
	switch v := n.(type) {
	case *ast.EntityPresence:
		for i := range v.EntityRefs {
			l.resolveEntityRef(referring, &v.EntityRefs[i], aliases, v.SpanOf(), "presence")
		}
	case *ast.EntitySpeech:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "speaker")
	case *ast.StageDirection:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "actor")
	case *ast.Condition:
		l.resolveCondition(referring, v.Expr, aliases)
	case *ast.OrConditionBlock:
		for _, c := range v.Conditions {
			l.resolveCondition(referring, c, aliases)
		}
	case *ast.Effect:
		l.resolveEffect(referring, v.Kind, aliases)
	case *ast.Jump:
		l.resolveJump(referring, v, loc)
	case *ast.Choice:
		l.resolveChoiceNode(referring, v, aliases, loc)
	}
}

func (l *linker) resolveCondition(referring source.FileID, c ast.ConditionExpr, aliases map[string]bool) {
	switch v := c.(type) {
	case *ast.PropertyComparison:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "property")
		if v.Value.Kind == ast.ExprPropertyRef {
			l.resolveEntityRef(referring, &v.Value.EntityRef, aliases, v.SpanOf(), "property")
		}
	case *ast.ContainmentCheck:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "containment")
		l.resolveContainer(referring, v, aliases)
	case *ast.ExhaustionCheck:
		if sec, ok := l.lookupSection(referring, v.SectionName); ok {
			v.Resolved = sec.CompiledID
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedReference, v.SpanOf(),
				"\"exhausted "+v.SectionName+"\" refers to an undeclared section")
		}
	}
}

func (l *linker) resolveContainer(referring source.FileID, v *ast.ContainmentCheck, aliases map[string]bool) {
	raw := v.ContainerRaw
	switch {
	case raw == "player":
		v.ContainerKind = ast.ContainerKeywordPlayer
		v.ContainerTarget = "player"
	case raw == "here":
		v.ContainerKind = ast.ContainerKeywordHere
		v.ContainerTarget = "here"
	default:
		if aliases[raw] {
			v.ContainerKind = ast.ContainerEntityRef
			v.ContainerTarget = raw
			return
		}
		if ent, ok := l.lookupEntity(referring, raw); ok {
			v.ContainerKind = ast.ContainerEntityRef
			v.ContainerTarget = ent.ID
			return
		}
		if loc, ok := l.lookupLocation(referring, raw); ok {
			v.ContainerKind = ast.ContainerLocationRef
			v.ContainerTarget = loc.ID
			return
		}
		v.ContainerKind = ast.ContainerUnresolved
		diag.Error(l.rep, diag.LinkUnresolvedContainer, v.SpanOf(), "unresolved container reference \""+raw+"\"")
	}
}

func (l *linker) resolveEffect(referring source.FileID, e ast.EffectKind, aliases map[string]bool) {
	switch v := e.(type) {
	case *ast.Set:
		l.resolveEntityRef(referring, &v.TargetEntity, aliases, v.SpanOf(), "set target")
		if v.ValueExpr.Kind == ast.ExprPropertyRef {
			l.resolveEntityRef(referring, &v.ValueExpr.EntityRef, aliases, v.SpanOf(), "set value")
		}
	case *ast.Move:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "move subject")
		l.resolveMoveDestination(referring, v, aliases)
	case *ast.Reveal:
		l.resolveEntityRef(referring, &v.TargetEntity, aliases, v.SpanOf(), "reveal target")
	case *ast.Destroy:
		l.resolveEntityRef(referring, &v.EntityRef, aliases, v.SpanOf(), "destroy target")
	}
}

func (l *linker) resolveMoveDestination(referring source.FileID, v *ast.Move, aliases map[string]bool) {
	if v.DestinationRef.Raw == "" {
		return
	}
	if loc, ok := l.lookupLocation(referring, v.DestinationRef.Raw); ok {
		v.DestinationRef.Resolved = loc.ID
		return
	}
	l.resolveEntityRef(referring, &v.DestinationRef, aliases, v.SpanOf(), "move destination")
}

// resolveJump implements spec §4.3's jump rule: an unqualified `-> name`
// prefers a section over an exit sharing that name, warning on shadowing;
// `-> exit:name` resolves only against the enclosing location's exits.
func (l *linker) resolveJump(referring source.FileID, j *ast.Jump, loc *symbols.LocationSymbol) {
	if j.IsExitQualified {
		if loc != nil {
			if exit, ok := loc.Exits.Get(j.Target); ok {
				j.ResolvedKind = "exit"
				j.Resolved = exit.Direction
				return
			}
		}
		diag.Error(l.rep, diag.LinkUnresolvedJumpTarget, j.SpanOf(), "exit \""+j.Target+"\" is not declared on the enclosing location")
		return
	}
	sec, secOK := l.lookupSection(referring, j.Target)
	var exitHit *symbols.ExitSymbol
	if loc != nil {
		exitHit, _ = loc.Exits.Get(j.Target)
	}
	switch {
	case secOK && exitHit != nil:
		j.ResolvedKind = "section"
		j.Resolved = sec.CompiledID
		diag.Warning(l.rep, diag.LinkJumpShadowing, j.SpanOf(),
			"\""+j.Target+"\" names both a section and an exit; the section takes precedence")
	case secOK:
		j.ResolvedKind = "section"
		j.Resolved = sec.CompiledID
	case exitHit != nil:
		j.ResolvedKind = "exit"
		j.Resolved = exitHit.Direction
	default:
		diag.Error(l.rep, diag.LinkUnresolvedJumpTarget, j.SpanOf(), "jump target \""+j.Target+"\" is not declared")
	}
}

func (l *linker) resolveRule(rule *symbols.RuleSymbol) {
	if rule.Conflicted || rule.Node == nil {
		return
	}
	file := rule.DeclaredIn.File
	actor := ast.Ref{Raw: rule.Actor}
	l.resolveEntityRef(file, &actor, nil, rule.Node.SpanOf(), "actor")
	rule.Node.Actor.Resolved = actor.Resolved

	l.resolveTrigger(file, &rule.Node.Trigger, rule.Node.SpanOf())

	aliases := map[string]bool{}
	if rule.Select != nil {
		aliases[rule.Select.Variable] = true
		for i := range rule.Node.Select.From {
			l.resolveEntityRef(file, &rule.Node.Select.From[i], nil, rule.Node.Select.SpanOf(), "select source")
			rule.Select.From = append(rule.Select.From, rule.Node.Select.From[i].Resolved)
		}
		for _, w := range rule.Node.Select.Where {
			l.resolveCondition(file, w, aliases)
		}
	}
	for _, w := range rule.Node.WhereClauses {
		l.resolveCondition(file, w, aliases)
	}
	for _, e := range rule.Node.Effects {
		l.resolveEffect(file, e, aliases)
	}
}

func (l *linker) resolveTrigger(file source.FileID, t *ast.Trigger, span source.Span) {
	switch t.Kind {
	case ast.TriggerPhaseIs:
		if sym := l.findPhase(file, t.PhaseRef.Raw); sym != nil {
			t.PhaseRef.Resolved = sym.ID
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedTrigger, span, "trigger phase \""+t.PhaseRef.Raw+"\" is not declared")
		}
	case ast.TriggerAction:
		if a, ok := l.lookupAction(file, t.ActionRef.Raw); ok {
			t.ActionRef.Resolved = a.ID
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedTrigger, span, "trigger action \""+t.ActionRef.Raw+"\" is not declared")
		}
	case ast.TriggerEnter:
		if loc, ok := l.lookupLocation(file, t.LocationRef.Raw); ok {
			t.LocationRef.Resolved = loc.ID
		} else {
			diag.Error(l.rep, diag.LinkUnresolvedTrigger, span, "trigger location \""+t.LocationRef.Raw+"\" is not declared")
		}
	case ast.TriggerStateChange:
		l.resolveEntityRef(file, &t.StateEntityRef, nil, span, "trigger")
	}
}

func (l *linker) findPhase(referring source.FileID, id string) *symbols.PhaseSymbol {
	for _, seq := range l.table.Sequences.Values() {
		if seq.Conflicted || !l.scope.sees(referring, seq.DeclaredIn.File) {
			continue
		}
		for _, p := range seq.Phases {
			if p.ID == id {
				return p
			}
		}
	}
	return nil
}

func (l *linker) resolveWorld(w *symbols.WorldSymbol) {
	file := w.DeclaredIn.File
	if w.StartRaw != "" {
		if loc, ok := l.lookupLocation(file, w.StartRaw); ok {
			w.StartResolved = loc.ID
		} else {
			diag.Error(l.rep, diag.ValidateWorldStartUnresolved, w.DeclaredIn.Span,
				"world.start \""+w.StartRaw+"\" does not resolve to a declared location")
		}
	}
	if w.EntryRaw != "" {
		if seq, ok := l.lookupSequence(file, w.EntryRaw); ok {
			w.EntryResolved = seq.ID
		} else {
			diag.Error(l.rep, diag.ValidateWorldEntryUnresolved, w.DeclaredIn.Span,
				"world.entry \""+w.EntryRaw+"\" does not resolve to a declared sequence")
		}
	}
}
