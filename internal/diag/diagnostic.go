package diag

import "github.com/urdwyrd/urdc/internal/source"

// Related attaches auxiliary context (a secondary span and message) to a
// Diagnostic, e.g. pointing at the first of two conflicting declarations.
type Related struct {
	Span    source.Span
	Message string
}

// Diagnostic is a single reported issue (spec §3.1).
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Suggestion string // optional; "" means absent
	Related    []Related
}

// WithRelated returns a copy of d with an additional related note appended.
func (d Diagnostic) WithRelated(span source.Span, msg string) Diagnostic {
	d.Related = append(append([]Related(nil), d.Related...), Related{Span: span, Message: msg})
	return d
}
