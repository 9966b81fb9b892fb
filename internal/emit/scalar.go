package emit

import "github.com/urdwyrd/urdc/internal/ast"

// scalarLiteral converts a frontmatter Scalar to a plain Go value
// encoding/json can marshal directly, preserving its declared kind
// rather than flattening everything to a string.
func scalarLiteral(s ast.Scalar) any {
	switch s.Kind {
	case ast.ScalarBool:
		return s.Bool
	case ast.ScalarInt:
		return s.Int
	case ast.ScalarFloat:
		return s.Flt
	default:
		return s.Str
	}
}

// frontmatterLiteral converts any FrontmatterValue (Scalar, List, or
// nested Map) to a plain JSON-marshalable value, used for world-block
// pass-through fields and entity override values alike.
func frontmatterLiteral(v ast.FrontmatterValue) any {
	switch t := v.(type) {
	case ast.Scalar:
		return scalarLiteral(t)
	case ast.List:
		items := make([]any, 0, len(t.Items))
		for _, it := range t.Items {
			items = append(items, frontmatterLiteral(it))
		}
		return items
	case ast.Map:
		obj := make(orderedObject, 0, len(t.Entries))
		for _, e := range t.Entries {
			obj = append(obj, f(e.Key, frontmatterLiteral(e.Value)))
		}
		return obj
	default:
		return nil
	}
}
