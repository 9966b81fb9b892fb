// Package ast defines the Schema Markdown abstract syntax tree: one tree
// per source file (spec §3.2), never merged across files. Every node
// embeds Base for its span; reference-bearing nodes additionally embed a
// Ref (or a more specific annotation) that LINK fills in during its
// second sweep. The node set is a closed family of tagged unions, per
// spec §9 "avoid open-ended hierarchies": every variant is enumerated
// here, mirroring the grammar in spec.md §3.2.
package ast

import "github.com/urdwyrd/urdc/internal/source"

// Base carries the span every node needs.
type Base struct {
	Span source.Span
}

func (b Base) SpanOf() source.Span { return b.Span }

// Node is implemented by every AST node.
type Node interface {
	SpanOf() source.Span
}

// Ref is the generic annotation slot: a raw token plus the symbol
// identifier LINK resolves it to. Resolved is the empty string until
// LINK succeeds; downstream phases treat an empty Resolved as "this
// reference is broken, skip it silently" (spec §4.4 cascading-error
// suppression).
type Ref struct {
	Raw      string
	Resolved string
}

func (r Ref) IsResolved() bool { return r.Resolved != "" }

// FileAst is the root of one file's syntax tree.
type FileAst struct {
	Base
	Path        string
	Frontmatter *Frontmatter
	Content     []ContentNode
}

// Frontmatter is the `---`-delimited block at the top of a file.
type Frontmatter struct {
	Base
	Entries []*FrontmatterEntry
}

// FrontmatterEntry is one top-level frontmatter key/value pair.
type FrontmatterEntry struct {
	Base
	Key   string
	Value FrontmatterValue
}

// FrontmatterValue is the tagged union of frontmatter value shapes
// (spec §3.2 "Frontmatter values").
type FrontmatterValue interface {
	Node
	frontmatterValue()
}

type ScalarKind uint8

const (
	ScalarString ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarIdent // bareword / enum-like token, e.g. `locked: true` vs `state: open`
)

// Scalar is a leaf frontmatter value.
type Scalar struct {
	Base
	Kind ScalarKind
	Str  string
	Bool bool
	Int  int64
	Flt  float64
}

func (Scalar) frontmatterValue() {}

// List is an ordered frontmatter list value.
type List struct {
	Base
	Items []FrontmatterValue
}

func (List) frontmatterValue() {}

// Map is an ordered frontmatter map/inline-object value. Order is
// preserved because declaration order drives emission order (spec §3.3).
type Map struct {
	Base
	Entries []*FrontmatterEntry
}

func (Map) frontmatterValue() {}

// ImportDecl is one `import: ./path.urd.md` declaration.
type ImportDecl struct {
	Base
	Path string
}

func (*ImportDecl) frontmatterValue() {}

// WorldBlock is the top-level `world:` frontmatter block.
type WorldBlock struct {
	Base
	Fields []*FrontmatterEntry // insertion order preserved, scalar values only
}

func (*WorldBlock) frontmatterValue() {}

// PropertyType enumerates the scalar kinds a PropertyDef can declare.
type PropertyType uint8

const (
	PropBoolean PropertyType = iota
	PropInteger
	PropNumber
	PropString
	PropEnum
	PropRef
	PropList
)

func (t PropertyType) String() string {
	switch t {
	case PropBoolean:
		return "boolean"
	case PropInteger:
		return "integer"
	case PropNumber:
		return "number"
	case PropString:
		return "string"
	case PropEnum:
		return "enum"
	case PropRef:
		return "ref"
	case PropList:
		return "list"
	default:
		return "unknown"
	}
}

// PropertyDef declares one property of a TypeDef.
type PropertyDef struct {
	Base
	Name        string
	Type        PropertyType
	Default     *Scalar
	Visibility  string // "" means unspecified
	EnumValues  []string
	Min, Max    *float64
	RefType     Ref // resolved to a TypeSymbol name by LINK
	ListElem    PropertyType
	ListEnum    []string
	ListRefType Ref
	Description string
}

// TypeDef declares a type with traits and properties.
type TypeDef struct {
	Base
	Name       string
	Traits     []string
	Properties []*PropertyDef // order preserved
}

func (*TypeDef) frontmatterValue() {}

// PropertyOverride is one `prop: value` entry inside an EntityDecl body.
type PropertyOverride struct {
	Base
	Name  string
	Value FrontmatterValue // Scalar or List
}

// EntityDecl declares an entity instance of a type.
type EntityDecl struct {
	Base
	ID        string
	TypeName  Ref // resolved to a TypeSymbol by LINK
	Overrides []*PropertyOverride
}

func (*EntityDecl) frontmatterValue() {}
