package ast

// ContentNode is the tagged union of body-level nodes (spec §3.2
// "Content").
type ContentNode interface {
	Node
	contentNode()
}

type LocationHeading struct {
	Base
	DisplayName string
	LocationID  string // slugify(DisplayName), filled by PARSE
}

func (*LocationHeading) contentNode() {}

type SequenceHeading struct {
	Base
	Name string
}

func (*SequenceHeading) contentNode() {}

type PhaseHeading struct {
	Base
	DisplayName string
	Auto        bool
}

func (*PhaseHeading) contentNode() {}

type SectionLabel struct {
	Base
	Name string
}

func (*SectionLabel) contentNode() {}

type EntityPresence struct {
	Base
	EntityRefs []Ref
}

func (*EntityPresence) contentNode() {}

type EntitySpeech struct {
	Base
	EntityRef Ref
	Text      string
}

func (*EntitySpeech) contentNode() {}

type StageDirection struct {
	Base
	EntityRef Ref
	Text      string
}

func (*StageDirection) contentNode() {}

type Prose struct {
	Base
	Text string
}

func (*Prose) contentNode() {}

// Choice is a `*`/`+` (sticky) choice item. ActionID is the derived
// choice-action identifier (spec §6.6), left empty by PARSE and set
// during LINK sweep 1 once the enclosing section is known.
type Choice struct {
	Base
	Sticky     bool
	Label      string
	Target     *Ref  // `-> @x` style target, mutually exclusive with TargetType
	TargetType *Ref  // `-> type:Foo` style target
	Content    []ContentNode
	ActionID   string
	Depth      int // nesting depth, computed by PARSE, which also runs the depth checks
}

func (*Choice) contentNode() {}

type Condition struct {
	Base
	Expr ConditionExpr
}

func (*Condition) contentNode() {}

type OrConditionBlock struct {
	Base
	Conditions []ConditionExpr
}

func (*OrConditionBlock) contentNode() {}

type Effect struct {
	Base
	Kind EffectKind
}

func (*Effect) contentNode() {}

type Jump struct {
	Base
	Target          string
	IsExitQualified bool
	IsEntityRef     bool // true for `-> @x`; false for `-> SectionName` / `-> exit:name`
	ResolvedKind    string // "section" | "exit", filled by LINK
	Resolved        string // resolved compiled id
}

func (*Jump) contentNode() {}

type ExitDeclaration struct {
	Base
	Direction           string
	DestinationRaw      string
	ResolvedDestination string // location id, filled by LINK
	ConditionRef        ConditionExpr
	BlockedMessageRef   *BlockedMessage
}

func (*ExitDeclaration) contentNode() {}

type BlockedMessage struct {
	Base
	Text string
}

func (*BlockedMessage) contentNode() {}

type RuleBlock struct {
	Base
	Name         string
	Actor        Ref
	Trigger      Trigger
	Select       *SelectClause
	WhereClauses []ConditionExpr
	Effects      []EffectKind
}

func (*RuleBlock) contentNode() {}

type Comment struct {
	Base
	Text string
}

func (*Comment) contentNode() {}

// ErrorNode marks a span PARSE could not make sense of. Downstream
// phases must not recurse into it (spec §9).
type ErrorNode struct {
	Base
	Reason string
}

func (*ErrorNode) contentNode() {}
