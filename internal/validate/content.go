package validate

import "github.com/urdwyrd/urdc/internal/ast"

// validateSections walks every unconflicted section's choices, checking
// every PropertyComparison nested anywhere in their content (spec §4.4's
// first bullet applies wherever a comparison appears, not just in
// top-level conditions).
func (v *validator) validateSections() {
	for _, sec := range v.table.Sections.Values() {
		if sec.Conflicted {
			continue
		}
		for _, ch := range sec.Choices {
			v.walkChoice(ch.Node)
		}
	}
}

func (v *validator) walkChoice(c *ast.Choice) {
	if c == nil {
		return
	}
	for _, cn := range c.Content {
		v.walkContent(cn)
	}
}

func (v *validator) walkContent(n ast.ContentNode) {
	switch t := n.(type) {
	case *ast.Condition:
		v.checkCondition(t.Expr)
	case *ast.OrConditionBlock:
		for _, c := range t.Conditions {
			v.checkCondition(c)
		}
	case *ast.Choice:
		v.walkChoice(t)
	}
}

// validateRules checks the comparisons in a rule's select-where and
// where clauses. Effects carry no comparison to check; a Set effect's
// assigned value is not covered by spec §4.4's bullet list (only
// comparisons and overrides are), so it is left unchecked here.
func (v *validator) validateRules() {
	for _, rule := range v.table.Rules.Values() {
		if rule.Conflicted || rule.Node == nil {
			continue
		}
		if rule.Node.Select != nil {
			for _, w := range rule.Node.Select.Where {
				v.checkCondition(w)
			}
		}
		for _, w := range rule.Node.WhereClauses {
			v.checkCondition(w)
		}
	}
}
