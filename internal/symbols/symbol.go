package symbols

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/source"
)

// DeclSite names where a symbol was declared, the basis for visible-scope
// filtering (spec §3.3 "Visible scope") and for ordering diagnostics
// (spec §4.7).
type DeclSite struct {
	File source.FileID
	Span source.Span
}

// PropertySymbol is one property of a TypeSymbol.
type PropertySymbol struct {
	Name           string
	Kind           ast.PropertyType
	Default        *ast.Scalar
	Visibility     string
	EnumValues     []string
	Min, Max       *float64
	RefType        string // resolved type name, "" if unresolved or N/A
	ElementKind    ast.PropertyType
	ElementEnum    []string
	ElementRefType string
	DeclaredIn     DeclSite
}

// TypeSymbol is a declared `types:` entry.
type TypeSymbol struct {
	Name       string
	Traits     []string
	Properties *OrderedMap[string, *PropertySymbol]
	Node       *ast.TypeDef // non-owning: the declaring file's AST keeps it alive
	DeclaredIn DeclSite
	Conflicted bool // true once a duplicate declaration is rejected
}

// EntitySymbol is a declared `entities:` entry.
type EntitySymbol struct {
	ID           string
	TypeName     string // raw token
	ResolvedType string // filled by LINK
	Overrides    []*ast.PropertyOverride
	Node         *ast.EntityDecl // non-owning
	DeclaredIn   DeclSite
	Conflicted   bool
}

// WorldSymbol is the singleton `world:` frontmatter block. Only the first
// declaration across the compilation unit is registered; spec.md is
// silent on what a second `world:` block across files means, and this
// implementation treats it as the author accidentally repeating the
// block — later occurrences are ignored rather than erroring, since no
// code in URD2xx/3xx is reserved for it.
type WorldSymbol struct {
	Fields        []*ast.FrontmatterEntry // insertion order, as declared
	StartRaw      string
	StartResolved string // filled by LINK: resolved location id
	EntryRaw      string
	EntryResolved string // filled by LINK: resolved sequence id
	DeclaredIn    DeclSite
}

// ChoiceSymbol is one choice within a SectionSymbol.
type ChoiceSymbol struct {
	Label      string
	CompiledID string
	Sticky     bool
	Node       *ast.Choice
	DeclaredIn DeclSite
}

// SectionSymbol is a `==` section label and its choices.
type SectionSymbol struct {
	LocalName  string
	CompiledID string
	FileStem   string
	Choices    []*ChoiceSymbol
	// Location is the enclosing location heading this section was declared
	// under, nil if the section appears outside any location. An
	// exit-qualified jump (`-> exit:name`) resolves against this location's
	// exits (spec §4.3 "Jump resolution").
	Location   *LocationSymbol
	DeclaredIn DeclSite
	Conflicted bool
}

// ExitSymbol is one exit of a LocationSymbol.
type ExitSymbol struct {
	Direction           string
	DestinationRaw      string
	ResolvedDestination string
	ConditionRef        ast.ConditionExpr // non-owning: points into the declaring file's AST
	BlockedMessageRef   *ast.BlockedMessage
	DeclaredIn          DeclSite
}

// LocationSymbol is a `#` location heading.
type LocationSymbol struct {
	ID          string
	DisplayName string
	Exits       *OrderedMap[string, *ExitSymbol]
	Contains    []string // entity IDs, insertion order
	DeclaredIn  DeclSite
	Conflicted  bool
}

// ActionSymbol is a choice's implicit action (spec §4.3 "Sweep 1 —
// collection"); LINK registers no other kind of action.
type ActionSymbol struct {
	ID         string
	Target     *string
	TargetType *string
	DeclaredIn DeclSite
	Conflicted bool
}

// SelectDef mirrors ast.SelectClause once resolved against the symbol
// table (entity refs resolved to entity IDs where possible).
type SelectDef struct {
	Variable string
	From     []string
	Where    []ast.ConditionExpr
	Span     source.Span
}

// RuleSymbol is a `rule name:` block.
type RuleSymbol struct {
	ID         string
	Actor      string
	Trigger    ast.Trigger
	Select     *SelectDef
	Node       *ast.RuleBlock
	DeclaredIn DeclSite
	Conflicted bool
}

// PhaseAdvance enumerates how a sequence phase advances.
type PhaseAdvance uint8

const (
	AdvanceAuto PhaseAdvance = iota
	AdvanceManual
)

// PhaseSymbol is one phase of a SequenceSymbol.
type PhaseSymbol struct {
	ID         string
	Advance    PhaseAdvance
	Action     string
	Actions    []string
	Rule       string
	DeclaredIn DeclSite
}

// SequenceSymbol is a `##` sequence heading and its ordered phases.
type SequenceSymbol struct {
	ID         string
	Phases     []*PhaseSymbol
	DeclaredIn DeclSite
	Conflicted bool
}
