package emit

import (
	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// buildTypes renders the `types` block: one entry per TypeSymbol, in
// table insertion order, each carrying its properties in the same order
// they were declared (spec §4.6 "items appear in the symbol table's
// insertion order").
func buildTypes(table *symbols.Table) []orderedObject {
	var out []orderedObject
	for _, t := range table.Types.Values() {
		if t.Conflicted {
			continue
		}
		var props []orderedObject
		for _, p := range t.Properties.Values() {
			props = append(props, propertyDoc(p))
		}
		fields := orderedObject{f("id", t.Name)}
		if len(t.Traits) > 0 {
			fields = append(fields, f("traits", t.Traits))
		}
		if props != nil {
			fields = append(fields, f("properties", props))
		}
		out = append(out, fields)
	}
	return out
}

// propertyDoc mirrors the source frontmatter's own property-definition
// vocabulary (type/default/visibility/values/ref_type/min/max/
// element_type/element_values/element_ref_type, see
// internal/parser/frontmatter.go's convertPropertyDef; a property's
// description is not carried by PropertySymbol and is not emitted) rather than
// inventing a parallel output vocabulary — no published schema is
// available to this repository, so round-tripping the input's own
// key names is the least surprising choice (see DESIGN.md).
func propertyDoc(p *symbols.PropertySymbol) orderedObject {
	doc := orderedObject{f("name", p.Name), f("type", p.Kind.String())}
	if p.Default != nil {
		doc = append(doc, f("default", scalarLiteral(*p.Default)))
	}
	if p.Visibility != "" {
		doc = append(doc, f("visibility", p.Visibility))
	}
	if len(p.EnumValues) > 0 {
		doc = append(doc, f("values", p.EnumValues))
	}
	if p.Min != nil {
		doc = append(doc, f("min", *p.Min))
	}
	if p.Max != nil {
		doc = append(doc, f("max", *p.Max))
	}
	if p.RefType != "" {
		doc = append(doc, f("ref_type", p.RefType))
	}
	if p.Kind == ast.PropList {
		doc = append(doc, f("element_type", p.ElementKind.String()))
		if len(p.ElementEnum) > 0 {
			doc = append(doc, f("element_values", p.ElementEnum))
		}
		if p.ElementRefType != "" {
			doc = append(doc, f("element_ref_type", p.ElementRefType))
		}
	}
	return doc
}
