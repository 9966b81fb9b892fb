package ast

// TriggerKind enumerates the rule trigger shapes (spec §4.3 "Trigger
// resolution").
type TriggerKind uint8

const (
	TriggerPhaseIs TriggerKind = iota
	TriggerAction
	TriggerEnter
	TriggerStateChange
	TriggerAlways
)

// Trigger is the resolved/unresolved trigger clause of a RuleBlock.
type Trigger struct {
	Kind TriggerKind

	PhaseRef    Ref // TriggerPhaseIs
	ActionRef   Ref // TriggerAction
	LocationRef Ref // TriggerEnter

	StateEntityRef Ref    // TriggerStateChange
	StateProperty  string // TriggerStateChange
}

// SelectClause binds `variable` to entities drawn from `From`, filtered
// by `Where`. The variable name acts as a local alias during LINK sweep 2
// (spec §4.3 "Rule-scoped aliases").
type SelectClause struct {
	Base
	Variable string
	From     []Ref
	Where    []ConditionExpr
}
