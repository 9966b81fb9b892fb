package validate

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// checkCondition dispatches the one ConditionExpr variant VALIDATE has a
// defined check for. ContainmentCheck and ExhaustionCheck are fully
// resolved by LINK with nothing further to type-check against spec
// §4.4's bullet list.
func (v *validator) checkCondition(c ast.ConditionExpr) {
	if pc, ok := c.(*ast.PropertyComparison); ok {
		v.checkPropertyComparison(pc)
	}
}

// checkPropertyComparison validates spec §4.4's first bullet: the
// comparison operator must suit the property's kind and the literal
// must match it.
func (v *validator) checkPropertyComparison(pc *ast.PropertyComparison) {
	t, ok := v.entityType(pc.EntityRef)
	if !ok {
		return
	}
	prop, ok := t.Properties.Get(pc.Property)
	if !ok {
		return
	}
	if !operatorFits(prop.Kind, pc.Op) {
		diag.Error(v.rep, diag.ValidatePropertyTypeMismatch, pc.SpanOf(),
			fmt.Sprintf("%s property %q cannot be compared with %q", prop.Kind, pc.Property, pc.Op))
		return
	}
	v.checkValueKind(prop, pc.Value, pc.SpanOf())
}

// operatorFits reports whether op is a sensible comparison for a
// property of kind. Equality-only kinds (bool/string/enum/ref) reject
// ordering operators; numeric kinds accept all six.
func operatorFits(kind ast.PropertyType, op ast.CompareOp) bool {
	switch kind {
	case ast.PropInteger, ast.PropNumber:
		return true
	default:
		return op == ast.OpEq || op == ast.OpNe
	}
}

// checkValueKind validates a literal/reference value against the
// property it is being compared or assigned to.
func (v *validator) checkValueKind(prop *symbols.PropertySymbol, value ast.Expr, span source.Span) {
	switch prop.Kind {
	case ast.PropBoolean:
		if value.Kind != ast.ExprBool {
			v.typeMismatch(prop, span, "boolean")
		}
	case ast.PropInteger:
		if value.Kind != ast.ExprInt {
			v.typeMismatch(prop, span, "integer")
			return
		}
		v.checkRange(prop, float64(value.Int), span)
	case ast.PropNumber:
		switch value.Kind {
		case ast.ExprInt:
			v.checkRange(prop, float64(value.Int), span)
		case ast.ExprFloat:
			v.checkRange(prop, value.Flt, span)
		default:
			v.typeMismatch(prop, span, "number")
		}
	case ast.PropString:
		if value.Kind != ast.ExprString {
			v.typeMismatch(prop, span, "string")
		}
	case ast.PropEnum:
		if value.Kind != ast.ExprIdent {
			v.typeMismatch(prop, span, "enum")
			return
		}
		if !containsString(prop.EnumValues, value.Str) {
			diag.Error(v.rep, diag.ValidateEnumValueUnknown, span,
				fmt.Sprintf("%q is not a declared value of enum property %q", value.Str, prop.Name))
		}
	case ast.PropRef:
		// a bare entity reference parses as an ExprPropertyRef with no
		// dotted property (see exprParser.parseValue's "@" branch).
		if value.Kind != ast.ExprPropertyRef || value.Property != "" {
			v.typeMismatch(prop, span, "entity reference")
			return
		}
		v.checkRefTarget(prop, value.EntityRef, span)
	}
}

func (v *validator) typeMismatch(prop *symbols.PropertySymbol, span source.Span, want string) {
	diag.Error(v.rep, diag.ValidatePropertyTypeMismatch, span,
		fmt.Sprintf("property %q expects a %s value", prop.Name, want))
}

func (v *validator) checkRange(prop *symbols.PropertySymbol, n float64, span source.Span) {
	if prop.Min != nil && n < *prop.Min {
		diag.Error(v.rep, diag.ValidateNumericOutOfRange, span,
			fmt.Sprintf("value %v is below the declared minimum %v for %q", n, *prop.Min, prop.Name))
	}
	if prop.Max != nil && n > *prop.Max {
		diag.Error(v.rep, diag.ValidateNumericOutOfRange, span,
			fmt.Sprintf("value %v exceeds the declared maximum %v for %q", n, *prop.Max, prop.Name))
	}
}

// checkRefTarget validates spec §4.4's third bullet: a ref-kind
// property's value must name an entity whose resolved type matches the
// property's declared ref_type.
func (v *validator) checkRefTarget(prop *symbols.PropertySymbol, ref ast.Ref, span source.Span) {
	if ref.Resolved == "" || prop.RefType == "" {
		return
	}
	ent, ok := v.table.Entities.Get(ref.Resolved)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return
	}
	if ent.ResolvedType != prop.RefType {
		diag.Error(v.rep, diag.ValidateRefTargetTypeMismatch, span,
			fmt.Sprintf("expected an entity of type %q, got %q", prop.RefType, ent.ResolvedType))
	}
}
