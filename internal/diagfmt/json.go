package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

// LocationJSON is a diagnostic's position, JSON-shaped.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is one Related entry.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one Diagnostic, JSON-shaped.
type DiagnosticJSON struct {
	Severity   string       `json:"severity"`
	Code       string       `json:"code"`
	Title      string       `json:"title,omitempty"`
	Message    string       `json:"message"`
	Location   LocationJSON `json:"location"`
	Suggestion string       `json:"suggestion,omitempty"`
	Notes      []NoteJSON   `json:"notes,omitempty"`
}

// Output is the root JSON document.
type Output struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	path := ""
	if f := fs.Get(span.File); f != nil {
		path = formatPath(f, pathMode)
	}
	loc := LocationJSON{File: path}
	if includePositions {
		loc.StartLine, loc.StartCol = span.StartLine, span.StartCol
		loc.EndLine, loc.EndCol = span.EndLine, span.EndCol
	}
	return loc
}

// JSON writes bag.Items() (expected pre-sorted) as a single JSON
// document, applying opts.Max as a hard cap on the diagnostics array
// (Count always reports the true total, even when truncated).
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	out := Output{Count: len(items)}
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	out.Diagnostics = make([]DiagnosticJSON, 0, limit)
	for _, d := range items[:limit] {
		dj := DiagnosticJSON{
			Severity:   d.Severity.String(),
			Code:       d.Code.ID(),
			Title:      d.Code.Title(),
			Message:    d.Message,
			Location:   makeLocation(d.Primary, fs, PathModeAuto, opts.IncludePositions),
			Suggestion: d.Suggestion,
		}
		for _, rel := range d.Related {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message:  rel.Message,
				Location: makeLocation(rel.Span, fs, PathModeAuto, opts.IncludePositions),
			})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
