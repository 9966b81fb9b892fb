package validate

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// validateEntities checks spec §4.4's "entity overrides reference
// declared properties; list-valued overrides type-check against element
// kind" bullet.
func (v *validator) validateEntities() {
	for _, ent := range v.table.Entities.Values() {
		if ent.Conflicted || ent.ResolvedType == "" {
			continue
		}
		t, ok := v.table.Types.Get(ent.ResolvedType)
		if !ok || t.Conflicted {
			continue
		}
		for _, ov := range ent.Overrides {
			prop, ok := t.Properties.Get(ov.Name)
			if !ok {
				diag.Error(v.rep, diag.ValidateUnknownOverrideProp, ov.SpanOf(),
					fmt.Sprintf("entity %q overrides undeclared property %q", ent.ID, ov.Name))
				continue
			}
			v.validateOverrideValue(prop, ov)
		}
	}
}

func (v *validator) validateOverrideValue(prop *symbols.PropertySymbol, ov *ast.PropertyOverride) {
	switch val := ov.Value.(type) {
	case ast.Scalar:
		v.validateScalarAgainstKind(prop, val, ov.SpanOf())
	case ast.List:
		if prop.Kind != ast.PropList {
			diag.Error(v.rep, diag.ValidateListElementTypeMismatch, ov.SpanOf(),
				fmt.Sprintf("property %q is not a list property", prop.Name))
			return
		}
		for _, item := range val.Items {
			sc, ok := item.(ast.Scalar)
			if !ok {
				continue
			}
			v.validateListElement(prop, sc, ov.SpanOf())
		}
	}
}

func (v *validator) validateScalarAgainstKind(prop *symbols.PropertySymbol, sc ast.Scalar, span source.Span) {
	switch prop.Kind {
	case ast.PropBoolean:
		if sc.Kind != ast.ScalarBool {
			v.overrideMismatch(prop, span, "boolean")
		}
	case ast.PropInteger:
		if sc.Kind != ast.ScalarInt {
			v.overrideMismatch(prop, span, "integer")
			return
		}
		v.checkRange(prop, float64(sc.Int), span)
	case ast.PropNumber:
		switch sc.Kind {
		case ast.ScalarInt:
			v.checkRange(prop, float64(sc.Int), span)
		case ast.ScalarFloat:
			v.checkRange(prop, sc.Flt, span)
		default:
			v.overrideMismatch(prop, span, "number")
		}
	case ast.PropString:
		if sc.Kind != ast.ScalarString {
			v.overrideMismatch(prop, span, "string")
		}
	case ast.PropEnum:
		if sc.Kind != ast.ScalarIdent {
			v.overrideMismatch(prop, span, "enum")
			return
		}
		if !containsString(prop.EnumValues, sc.Str) {
			diag.Error(v.rep, diag.ValidateEnumValueUnknown, span,
				fmt.Sprintf("%q is not a declared value of enum property %q", sc.Str, prop.Name))
		}
	case ast.PropRef:
		if sc.Kind != ast.ScalarIdent && sc.Kind != ast.ScalarString {
			v.overrideMismatch(prop, span, "entity reference")
			return
		}
		v.checkRefOverrideTarget(prop, sc.Str, span)
	case ast.PropList:
		diag.Error(v.rep, diag.ValidateListElementTypeMismatch, span,
			fmt.Sprintf("property %q is list-valued and cannot take a scalar override", prop.Name))
	}
}

func (v *validator) overrideMismatch(prop *symbols.PropertySymbol, span source.Span, want string) {
	diag.Error(v.rep, diag.ValidatePropertyTypeMismatch, span,
		fmt.Sprintf("override for %q expects a %s value", prop.Name, want))
}

// validateListElement checks one element of a list-valued override
// against the property's declared element kind.
func (v *validator) validateListElement(prop *symbols.PropertySymbol, sc ast.Scalar, span source.Span) {
	mismatch := func(want string) {
		diag.Error(v.rep, diag.ValidateListElementTypeMismatch, span,
			fmt.Sprintf("element of list property %q expects a %s value", prop.Name, want))
	}
	switch prop.ElementKind {
	case ast.PropBoolean:
		if sc.Kind != ast.ScalarBool {
			mismatch("boolean")
		}
	case ast.PropInteger:
		if sc.Kind != ast.ScalarInt {
			mismatch("integer")
		}
	case ast.PropNumber:
		if sc.Kind != ast.ScalarInt && sc.Kind != ast.ScalarFloat {
			mismatch("number")
		}
	case ast.PropString:
		if sc.Kind != ast.ScalarString {
			mismatch("string")
		}
	case ast.PropEnum:
		if sc.Kind != ast.ScalarIdent {
			mismatch("enum")
			return
		}
		if !containsString(prop.ElementEnum, sc.Str) {
			diag.Error(v.rep, diag.ValidateListElementTypeMismatch, span,
				fmt.Sprintf("%q is not a declared value of enum list %q", sc.Str, prop.Name))
		}
	case ast.PropRef:
		if sc.Kind != ast.ScalarIdent && sc.Kind != ast.ScalarString {
			mismatch("entity reference")
			return
		}
		v.checkListRefOverrideTarget(prop, sc.Str, span)
	}
}

// checkRefOverrideTarget and checkListRefOverrideTarget resolve an
// override's bareword entity ID by hand: overrides are never touched by
// LINK's reference resolution (only ast.Ref-typed fields are, and
// PropertyOverride.Value is a raw frontmatter scalar), so VALIDATE looks
// the ID up directly here instead of trusting a Ref.Resolved slot.
func (v *validator) checkRefOverrideTarget(prop *symbols.PropertySymbol, rawID string, span source.Span) {
	if prop.RefType == "" {
		return
	}
	ent, ok := v.table.Entities.Get(rawID)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return
	}
	if ent.ResolvedType != prop.RefType {
		diag.Error(v.rep, diag.ValidateRefTargetTypeMismatch, span,
			fmt.Sprintf("override for %q names an entity of type %q, expected %q", prop.Name, ent.ResolvedType, prop.RefType))
	}
}

func (v *validator) checkListRefOverrideTarget(prop *symbols.PropertySymbol, rawID string, span source.Span) {
	if prop.ElementRefType == "" {
		return
	}
	ent, ok := v.table.Entities.Get(rawID)
	if !ok || ent.Conflicted || ent.ResolvedType == "" {
		return
	}
	if ent.ResolvedType != prop.ElementRefType {
		diag.Error(v.rep, diag.ValidateListElementTypeMismatch, span,
			fmt.Sprintf("element of list property %q names an entity of type %q, expected %q", prop.Name, ent.ResolvedType, prop.ElementRefType))
	}
}
