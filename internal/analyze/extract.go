package analyze

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// Extract walks the resolved symbol table and builds the FactSet (spec
// §3.5). This is the one file in the package that touches
// internal/ast and internal/symbols — the five checks in checks.go never
// do.
func Extract(table *symbols.Table) *FactSet {
	e := &extractor{table: table, fs: &FactSet{}}
	e.extractExits()
	e.extractSections()
	e.extractRules()
	return e.fs
}

type extractor struct {
	table *symbols.Table
	fs    *FactSet
}

// entityType resolves ref to the property-owning type name a fact should
// be filed under. An unresolved or conflicted reference yields "",
// telling the caller to drop the fact rather than file it under a bogus
// key — the same cascading-suppression principle VALIDATE applies to
// unresolved Refs (spec §4.4), carried into extraction since ANALYZE
// runs on the same annotated tree regardless of whether VALIDATE raised
// errors on it.
func (e *extractor) entityType(ref ast.Ref) string {
	if ref.Resolved == "" {
		return ""
	}
	if ref.Resolved == "player" || ref.Resolved == "here" {
		return ref.Resolved
	}
	ent, ok := e.table.Entities.Get(ref.Resolved)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return ""
	}
	return ent.ResolvedType
}

func convertOp(op ast.CompareOp) CompareOp {
	switch op {
	case ast.OpEq:
		return OpEq
	case ast.OpNe:
		return OpNe
	case ast.OpLt:
		return OpLt
	case ast.OpGt:
		return OpGt
	case ast.OpLe:
		return OpLe
	case ast.OpGe:
		return OpGe
	default:
		return OpEq
	}
}

func convertWriteOp(op ast.SetOp) WriteOp {
	switch op {
	case ast.SetAdd:
		return WriteAdd
	case ast.SetSub:
		return WriteSub
	default:
		return WriteSet
	}
}

// convertValue maps an ast.Expr onto analyze's own Value. A
// property-to-property comparison (`@a.x == @b.y`) collapses its
// right-hand side to a single opaque ValRef carrying "entity.prop" (or
// the raw token if unresolved) — the FactSet's literal model (spec §3.5)
// does not define a dotted right-hand side, and none of the five checks
// need to see inside it.
func (e *extractor) convertValue(v ast.Expr) Value {
	switch v.Kind {
	case ast.ExprBool:
		return Value{Kind: ValBool, Bool: v.Bool}
	case ast.ExprInt:
		return Value{Kind: ValInt, Int: v.Int}
	case ast.ExprFloat:
		return Value{Kind: ValFloat, Flt: v.Flt}
	case ast.ExprString:
		return Value{Kind: ValString, Str: v.Str}
	case ast.ExprIdent, ast.ExprKeyword:
		return Value{Kind: ValIdent, Str: v.Str}
	case ast.ExprPropertyRef:
		id := v.EntityRef.Resolved
		if id == "" {
			id = v.EntityRef.Raw
		}
		if v.Property != "" {
			id = id + "." + v.Property
		}
		return Value{Kind: ValRef, Str: id}
	default:
		return Value{Kind: ValIdent, Str: v.Str}
	}
}

func (e *extractor) addRead(site string, entRef ast.Ref, property string, op ast.CompareOp, value ast.Expr, span ast.Node) (ReadIndex, bool) {
	et := e.entityType(entRef)
	if et == "" {
		return 0, false
	}
	idx := ReadIndex(len(e.fs.Reads))
	e.fs.Reads = append(e.fs.Reads, PropertyRead{
		Site: site, EntityType: et, Property: property,
		Op: convertOp(op), Value: e.convertValue(value), Span: span.SpanOf(),
	})
	return idx, true
}

func (e *extractor) addWrite(site string, entRef ast.Ref, property string, op ast.SetOp, value ast.Expr, span ast.Node) (WriteIndex, bool) {
	et := e.entityType(entRef)
	if et == "" {
		return 0, false
	}
	idx := WriteIndex(len(e.fs.Writes))
	e.fs.Writes = append(e.fs.Writes, PropertyWrite{
		Site: site, EntityType: et, Property: property,
		Op: convertWriteOp(op), Value: e.convertValue(value), Span: span.SpanOf(),
	})
	return idx, true
}

// collectConditionReads appends the read produced by c (if any) to out.
// Only PropertyComparison produces a PropertyRead; ContainmentCheck and
// ExhaustionCheck are not property-keyed and fall outside the FactSet's
// property-dependency relations.
func (e *extractor) collectConditionReads(c ast.ConditionExpr, site string, out *[]ReadIndex) {
	pc, ok := c.(*ast.PropertyComparison)
	if !ok {
		return
	}
	if idx, ok := e.addRead(site, pc.EntityRef, pc.Property, pc.Op, pc.Value, pc); ok {
		*out = append(*out, idx)
	}
}

// collectEffectWrite appends the write produced by eff (if any) to out.
// Only Set touches a property; Move/Reveal/Destroy are not
// property-valued writes.
func (e *extractor) collectEffectWrite(eff ast.EffectKind, site string, out *[]WriteIndex) {
	s, ok := eff.(*ast.Set)
	if !ok {
		return
	}
	if idx, ok := e.addWrite(site, s.TargetEntity, s.TargetProp, s.Op, s.ValueExpr, s); ok {
		*out = append(*out, idx)
	}
}

func (e *extractor) extractExits() {
	for _, loc := range e.table.Locations.Values() {
		if loc.Conflicted {
			continue
		}
		for _, exit := range loc.Exits.Values() {
			site := loc.ID + "/" + exit.Direction
			var guardReads []ReadIndex
			if exit.ConditionRef != nil {
				e.collectConditionReads(exit.ConditionRef, site, &guardReads)
			}
			e.fs.Exits = append(e.fs.Exits, ExitEdge{
				FromLocation:  loc.ID,
				ToLocation:    exit.ResolvedDestination,
				ExitName:      exit.Direction,
				IsConditional: exit.ConditionRef != nil,
				GuardReads:    guardReads,
				Span:          exit.DeclaredIn.Span,
			})
		}
	}
}

func jumpTarget(j *ast.Jump) string {
	if j.Resolved != "" {
		return j.Resolved
	}
	return j.Target
}

// choiceFacts extracts the reads, writes and jumps found directly in
// cs's content. It intentionally does not recurse into nested *ast.Choice
// nodes: every choice at any nesting depth is already its own
// ChoiceSymbol (LINK sweep 1 registers them flatly, spec §4.3), so a
// nested choice's content is accounted for when its own ChoiceSymbol is
// visited, not here.
func (e *extractor) choiceFacts(sec *symbols.SectionSymbol, cs *symbols.ChoiceSymbol) {
	if cs.Node == nil {
		return
	}
	var condReads []ReadIndex
	var writes []WriteIndex
	for _, cn := range cs.Node.Content {
		switch t := cn.(type) {
		case *ast.Condition:
			e.collectConditionReads(t.Expr, cs.CompiledID, &condReads)
		case *ast.OrConditionBlock:
			for _, c := range t.Conditions {
				e.collectConditionReads(c, cs.CompiledID, &condReads)
			}
		case *ast.Effect:
			e.collectEffectWrite(t.Kind, cs.CompiledID, &writes)
		case *ast.Jump:
			e.fs.Jumps = append(e.fs.Jumps, JumpEdge{
				FromSection: sec.CompiledID, Target: jumpTarget(t), Span: t.SpanOf(),
			})
		}
	}
	e.fs.Choices = append(e.fs.Choices, ChoiceFact{
		Section: sec.CompiledID, ChoiceID: cs.CompiledID, Label: cs.Label, Sticky: cs.Sticky,
		ConditionReads: condReads, EffectWrites: writes, Span: cs.Node.SpanOf(),
	})
}

func (e *extractor) extractSections() {
	for _, sec := range e.table.Sections.Values() {
		if sec.Conflicted {
			continue
		}
		for _, cs := range sec.Choices {
			e.choiceFacts(sec, cs)
		}
	}
}

func (e *extractor) extractRules() {
	for _, rule := range e.table.Rules.Values() {
		if rule.Conflicted || rule.Node == nil {
			continue
		}
		var condReads []ReadIndex
		var writes []WriteIndex
		if rule.Select != nil {
			for _, w := range rule.Select.Where {
				e.collectConditionReads(w, rule.ID, &condReads)
			}
		}
		for _, w := range rule.Node.WhereClauses {
			e.collectConditionReads(w, rule.ID, &condReads)
		}
		for _, eff := range rule.Node.Effects {
			e.collectEffectWrite(eff, rule.ID, &writes)
		}
		e.fs.Rules = append(e.fs.Rules, RuleFact{
			RuleID: rule.ID, ConditionReads: condReads, EffectWrites: writes, Span: rule.Node.SpanOf(),
		})
	}
}
