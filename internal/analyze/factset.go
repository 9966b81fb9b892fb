// Package analyze implements the ANALYZE phase (spec §4.5): it extracts
// a relational FactSet from the resolved symbol table, builds a
// property dependency index over it, and runs five pure diagnostics
// against that index. The five checks (checks.go) are genuinely
// independent of internal/ast and internal/symbols — they only see the
// types in this file — matching spec §4.5's "architectural constraint"
// that ANALYZE be implementable without AST, symbol table, or source
// text access; only extraction (extract.go) needs those.
package analyze

import "github.com/urdwyrd/urdc/internal/source"

// CompareOp mirrors ast.CompareOp with its own type, deliberately: a
// PropertyRead must carry an operator without pulling internal/ast into
// the five check functions that consume it.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// WriteOp mirrors ast.SetOp.
type WriteOp uint8

const (
	WriteSet WriteOp = iota
	WriteAdd
	WriteSub
)

// ValueKind tags the shape of a Value.
type ValueKind uint8

const (
	ValBool ValueKind = iota
	ValInt
	ValFloat
	ValString
	ValIdent // bareword enum-like literal
	ValRef   // an entity (or entity.property) reference; Str carries it
)

// Value is a literal or reference value attached to a read or write.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
}

// PropertyKey identifies a property slot by the declaring type and
// property name (spec §3.5) — facts are grouped by type, not by entity
// instance, since that is the granularity the five checks reason about.
type PropertyKey struct {
	EntityType string
	Property   string
}

// ReadIndex and WriteIndex are positions into a FactSet's Reads/Writes
// slices, used by ChoiceFact/RuleFact/ExitEdge and the dependency index
// to reference a fact without duplicating it (spec §3.5).
type ReadIndex int
type WriteIndex int

type PropertyRead struct {
	Site       string // the choice/rule/exit this read occurs in
	EntityType string
	Property   string
	Op         CompareOp
	Value      Value
	Span       source.Span
}

type PropertyWrite struct {
	Site       string
	EntityType string
	Property   string
	Op         WriteOp
	Value      Value
	Span       source.Span
}

type ExitEdge struct {
	FromLocation  string
	ToLocation    string
	ExitName      string
	IsConditional bool
	GuardReads    []ReadIndex
	Span          source.Span
}

type JumpEdge struct {
	FromSection string
	Target      string
	Span        source.Span
}

type ChoiceFact struct {
	Section        string
	ChoiceID       string
	Label          string
	Sticky         bool
	ConditionReads []ReadIndex
	EffectWrites   []WriteIndex
	Span           source.Span
}

type RuleFact struct {
	RuleID         string
	ConditionReads []ReadIndex
	EffectWrites   []WriteIndex
	Span           source.Span
}

// FactSet is the full relational snapshot ANALYZE extracts after LINK
// (spec §3.5): six relations, each keyed by a stable site identifier.
type FactSet struct {
	Reads   []PropertyRead
	Writes  []PropertyWrite
	Exits   []ExitEdge
	Jumps   []JumpEdge
	Choices []ChoiceFact
	Rules   []RuleFact
}
