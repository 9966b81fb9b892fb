package linker

import (
	"path"
	"strings"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/idgen"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// collect runs LINK's sweep 1 (spec §4.3 "Sweep 1 — collection") over
// every file in topological order, registering every declaration in the
// global table. Nothing is resolved against another file here; that is
// sweep 2's job (resolve.go).
func (l *linker) collect(nodes []*projectgraph.FileNode) {
	for _, n := range nodes {
		if n.Ast == nil {
			continue
		}
		stem := fileStem(n.NormalizedPath)
		l.collectFrontmatter(n, stem)
		walker := &collectWalker{l: l, fileID: n.FileID, stem: stem}
		walker.walk(n.Ast.Content, nil, nil, nil)
	}
}

func fileStem(normalizedPath string) string {
	return strings.TrimSuffix(path.Base(normalizedPath), ".urd.md")
}

func (l *linker) collectFrontmatter(n *projectgraph.FileNode, stem string) {
	if n.Ast.Frontmatter == nil {
		return
	}
	for _, entry := range n.Ast.Frontmatter.Entries {
		switch entry.Key {
		case "world":
			wb, ok := entry.Value.(*ast.WorldBlock)
			if !ok || l.table.World != nil {
				continue
			}
			w := &symbols.WorldSymbol{Fields: wb.Fields, DeclaredIn: symbols.DeclSite{File: n.FileID, Span: wb.SpanOf()}}
			for _, f := range wb.Fields {
				sc, ok := f.Value.(ast.Scalar)
				if !ok {
					continue
				}
				switch f.Key {
				case "start":
					w.StartRaw = sc.Str
				case "entry":
					w.EntryRaw = sc.Str
				}
			}
			l.table.World = w
		case "types":
			m, ok := entry.Value.(ast.Map)
			if !ok {
				continue
			}
			for _, te := range m.Entries {
				td, ok := te.Value.(*ast.TypeDef)
				if !ok {
					continue
				}
				l.registerType(n.FileID, td)
			}
		case "entities":
			m, ok := entry.Value.(ast.Map)
			if !ok {
				continue
			}
			for _, ee := range m.Entries {
				ed, ok := ee.Value.(*ast.EntityDecl)
				if !ok {
					continue
				}
				l.registerEntity(n.FileID, ed)
			}
		}
	}
}

func (l *linker) registerType(fileID source.FileID, td *ast.TypeDef) {
	props := symbols.NewOrderedMap[string, *symbols.PropertySymbol]()
	for _, pd := range td.Properties {
		props.Set(pd.Name, &symbols.PropertySymbol{
			Name: pd.Name, Kind: pd.Type, Default: pd.Default, Visibility: pd.Visibility,
			EnumValues: pd.EnumValues, Min: pd.Min, Max: pd.Max,
			ElementKind: pd.ListElem, ElementEnum: pd.ListEnum,
			DeclaredIn: symbols.DeclSite{File: fileID, Span: pd.SpanOf()},
		})
	}
	sym := &symbols.TypeSymbol{Name: td.Name, Traits: td.Traits, Properties: props, Node: td,
		DeclaredIn: symbols.DeclSite{File: fileID, Span: td.SpanOf()}}
	if existing, ok := l.table.Types.Get(td.Name); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateType,
			Message:  "type \"" + td.Name + "\" is already declared",
			Primary:  td.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return
	}
	l.table.Types.Set(td.Name, sym)
}

func (l *linker) registerEntity(fileID source.FileID, ed *ast.EntityDecl) {
	sym := &symbols.EntitySymbol{ID: ed.ID, TypeName: ed.TypeName.Raw, Overrides: ed.Overrides, Node: ed,
		DeclaredIn: symbols.DeclSite{File: fileID, Span: ed.SpanOf()}}
	if existing, ok := l.table.Entities.Get(ed.ID); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateEntity,
			Message:  "entity \"" + ed.ID + "\" is already declared",
			Primary:  ed.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return
	}
	l.table.Entities.Set(ed.ID, sym)
}

// collectWalker descends content nodes, tracking the enclosing location,
// section and sequence so exits, choices and phases attach to the right
// parent (spec §3.2's content tree has no back-pointers, so LINK must
// rebuild this context during its own traversal, in source order, per
// spec §5's ordering guarantee).
type collectWalker struct {
	l      *linker
	fileID source.FileID
	stem   string
}

func (w *collectWalker) walk(nodes []ast.ContentNode, loc *symbols.LocationSymbol, sec *symbols.SectionSymbol, seq *symbols.SequenceSymbol) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.LocationHeading:
			loc = w.registerLocation(v)
		case *ast.ExitDeclaration:
			w.registerExit(loc, v)
		case *ast.SequenceHeading:
			seq = w.registerSequence(v)
		case *ast.PhaseHeading:
			w.registerPhase(seq, v)
		case *ast.SectionLabel:
			sec = w.registerSection(v, loc)
		case *ast.Choice:
			w.registerChoice(sec, v)
			w.walk(v.Content, loc, sec, seq)
		case *ast.RuleBlock:
			w.registerRule(v)
		}
	}
}

func (w *collectWalker) registerLocation(h *ast.LocationHeading) *symbols.LocationSymbol {
	sym := &symbols.LocationSymbol{ID: h.LocationID, DisplayName: h.DisplayName,
		Exits:      symbols.NewOrderedMap[string, *symbols.ExitSymbol](),
		DeclaredIn: symbols.DeclSite{File: w.fileID, Span: h.SpanOf()}}
	if existing, ok := w.l.table.Locations.Get(h.LocationID); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		w.l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateLocation,
			Message:  "location \"" + h.LocationID + "\" is already declared",
			Primary:  h.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return existing
	}
	w.l.table.Locations.Set(h.LocationID, sym)
	return sym
}

func (w *collectWalker) registerExit(loc *symbols.LocationSymbol, e *ast.ExitDeclaration) {
	if loc == nil {
		return
	}
	sym := &symbols.ExitSymbol{Direction: e.Direction, DestinationRaw: e.DestinationRaw,
		ConditionRef: e.ConditionRef, BlockedMessageRef: e.BlockedMessageRef,
		DeclaredIn: symbols.DeclSite{File: w.fileID, Span: e.SpanOf()}}
	loc.Exits.Set(e.Direction, sym) // first wins is the OrderedMap default only for new keys; later same-direction exits simply overwrite, matching "last declaration wins" for a single location body
}

func (w *collectWalker) registerSequence(h *ast.SequenceHeading) *symbols.SequenceSymbol {
	id := idgen.Slugify(h.Name)
	sym := &symbols.SequenceSymbol{ID: id, DeclaredIn: symbols.DeclSite{File: w.fileID, Span: h.SpanOf()}}
	if existing, ok := w.l.table.Sequences.Get(id); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		w.l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateSequence,
			Message:  "sequence \"" + id + "\" is already declared",
			Primary:  h.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return existing
	}
	w.l.table.Sequences.Set(id, sym)
	return sym
}

func (w *collectWalker) registerPhase(seq *symbols.SequenceSymbol, h *ast.PhaseHeading) {
	if seq == nil {
		return
	}
	id := idgen.Slugify(h.DisplayName)
	advance := symbols.AdvanceManual
	if h.Auto {
		advance = symbols.AdvanceAuto
	}
	for _, p := range seq.Phases {
		if p.ID == id {
			w.l.rep.Report(diag.Diagnostic{
				Severity: diag.SevError, Code: diag.LinkDuplicatePhase,
				Message:  "phase \"" + id + "\" is already declared in this sequence",
				Primary:  h.SpanOf(),
				Related:  []diag.Related{{Span: p.DeclaredIn.Span, Message: "first declared here"}},
			})
			return
		}
	}
	seq.Phases = append(seq.Phases, &symbols.PhaseSymbol{ID: id, Advance: advance,
		DeclaredIn: symbols.DeclSite{File: w.fileID, Span: h.SpanOf()}})
}

func (w *collectWalker) registerSection(l *ast.SectionLabel, loc *symbols.LocationSymbol) *symbols.SectionSymbol {
	id := idgen.SectionID(w.stem, l.Name)
	sym := &symbols.SectionSymbol{LocalName: l.Name, CompiledID: id, FileStem: w.stem, Location: loc,
		DeclaredIn: symbols.DeclSite{File: w.fileID, Span: l.SpanOf()}}
	if existing, ok := w.l.table.Sections.Get(id); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		w.l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateSection,
			Message:  "section \"" + id + "\" is already declared",
			Primary:  l.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return existing
	}
	w.l.table.Sections.Set(id, sym)
	return sym
}

func (w *collectWalker) registerChoice(sec *symbols.SectionSymbol, c *ast.Choice) {
	if sec == nil {
		return
	}
	id := idgen.ChoiceID(sec.CompiledID, c.Label)
	c.ActionID = id
	for _, existing := range sec.Choices {
		if existing.CompiledID == id {
			w.l.rep.Report(diag.Diagnostic{
				Severity: diag.SevError, Code: diag.LinkDuplicateChoice,
				Message:  "choice \"" + id + "\" is already declared in this section",
				Primary:  c.SpanOf(),
				Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
			})
			return
		}
	}
	site := symbols.DeclSite{File: w.fileID, Span: c.SpanOf()}
	sec.Choices = append(sec.Choices, &symbols.ChoiceSymbol{Label: c.Label, CompiledID: id, Sticky: c.Sticky, Node: c, DeclaredIn: site})
	w.l.table.Actions.Set(id, &symbols.ActionSymbol{ID: id, DeclaredIn: site}) // Target/TargetType filled during resolve
}

func (w *collectWalker) registerRule(rb *ast.RuleBlock) {
	id := idgen.Slugify(rb.Name)
	var sel *symbols.SelectDef
	if rb.Select != nil {
		sel = &symbols.SelectDef{Variable: rb.Select.Variable, Where: rb.Select.Where, Span: rb.Select.SpanOf()}
	}
	sym := &symbols.RuleSymbol{ID: id, Actor: rb.Actor.Raw, Trigger: rb.Trigger, Select: sel, Node: rb,
		DeclaredIn: symbols.DeclSite{File: w.fileID, Span: rb.SpanOf()}}
	if existing, ok := w.l.table.Rules.Get(id); ok {
		existing.Conflicted = true
		sym.Conflicted = true
		w.l.rep.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: diag.LinkDuplicateRule,
			Message:  "rule \"" + id + "\" is already declared",
			Primary:  rb.SpanOf(),
			Related:  []diag.Related{{Span: existing.DeclaredIn.Span, Message: "first declared here"}},
		})
		return
	}
	w.l.table.Rules.Set(id, sym)
}
