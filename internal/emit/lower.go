package emit

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/ast"
)

// refID renders a Ref for output: its resolved symbol id once LINK has
// filled it in, or the raw token if it never resolved (an unresolved
// reference only reaches EMIT at all when no error diagnostic exists
// for it — e.g. a warning-only cascade, or a reference LINK treats as
// always-valid like "player"/"here" — so the raw token is a reasonable
// literal fallback rather than an internal error).
func refID(r ast.Ref) string {
	if r.Resolved != "" {
		return r.Resolved
	}
	return r.Raw
}

// loweredValue renders an Expr's literal/reference value as it appears
// on the right-hand side of a lowered comparison or assignment (spec
// §4.6: "`@entity.prop` becomes `entity.prop`").
func loweredValue(v ast.Expr) string {
	switch v.Kind {
	case ast.ExprBool:
		return fmt.Sprintf("%t", v.Bool)
	case ast.ExprInt:
		return fmt.Sprintf("%d", v.Int)
	case ast.ExprFloat:
		return fmt.Sprintf("%g", v.Flt)
	case ast.ExprString:
		return fmt.Sprintf("%q", v.Str)
	case ast.ExprIdent, ast.ExprKeyword:
		return v.Str
	case ast.ExprPropertyRef:
		if v.Property == "" {
			return refID(v.EntityRef)
		}
		return refID(v.EntityRef) + "." + v.Property
	default:
		return v.Str
	}
}

// lowerCondition renders one ConditionExpr as the single lowered string
// spec §4.6 describes: "@entity.prop" becomes "entity.prop", and
// containment's "in here" becomes "container == player.container".
func lowerCondition(c ast.ConditionExpr) string {
	switch t := c.(type) {
	case *ast.PropertyComparison:
		return fmt.Sprintf("%s.%s %s %s", refID(t.EntityRef), t.Property, t.Op, loweredValue(t.Value))
	case *ast.ContainmentCheck:
		return lowerContainment(t)
	case *ast.ExhaustionCheck:
		return fmt.Sprintf("exhausted(%s)", refID(ast.Ref{Raw: t.SectionName, Resolved: t.Resolved}))
	default:
		return ""
	}
}

func lowerContainment(c *ast.ContainmentCheck) string {
	entity := refID(c.EntityRef)
	var rhs string
	switch c.ContainerKind {
	case ast.ContainerKeywordHere:
		rhs = "player.container"
	case ast.ContainerKeywordPlayer:
		rhs = "player"
	case ast.ContainerEntityRef, ast.ContainerLocationRef:
		rhs = c.ContainerTarget
	default:
		rhs = c.ContainerRaw
	}
	expr := fmt.Sprintf("%s.container == %s", entity, rhs)
	if c.Negated {
		return "!(" + expr + ")"
	}
	return expr
}

func setOpSymbol(op ast.SetOp) string {
	switch op {
	case ast.SetAdd:
		return "+="
	case ast.SetSub:
		return "-="
	default:
		return "="
	}
}

// lowerEffect renders one EffectKind as a single lowered string, the
// effect-side counterpart of lowerCondition.
func lowerEffect(e ast.EffectKind) string {
	switch t := e.(type) {
	case *ast.Set:
		return fmt.Sprintf("%s.%s %s %s", refID(t.TargetEntity), t.TargetProp, setOpSymbol(t.Op), loweredValue(t.ValueExpr))
	case *ast.Move:
		return fmt.Sprintf("move(%s, %s)", refID(t.EntityRef), refID(t.DestinationRef))
	case *ast.Reveal:
		return fmt.Sprintf("reveal(%s.%s)", refID(t.TargetEntity), t.TargetProp)
	case *ast.Destroy:
		return fmt.Sprintf("destroy(%s)", refID(t.EntityRef))
	default:
		return ""
	}
}

// lowerJump renders a standalone `-> ` content jump (not a choice's own
// Target/TargetType, which EMIT represents structurally on the action
// instead, per spec §4.6).
func lowerJump(j *ast.Jump) string {
	target := j.Target
	if j.Resolved != "" {
		target = j.Resolved
	}
	return fmt.Sprintf("goto(%s)", target)
}
