package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

// visualWidthUpTo returns the terminal column a byte offset into s lands
// on, accounting for tabs and multi-byte runes via go-runewidth so the
// caret under a diagnostic lines up under wide or combining characters.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

func formatPath(f *source.File, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(f.NormalizedPath)
	default:
		return f.NormalizedPath
	}
}

// Pretty writes bag.Items() (expected pre-sorted via bag.Sort) as
// human-readable diagnostics: a "path:line:col: SEVERITY CODE: message"
// header, a source-line excerpt with a caret span underneath, then any
// Related notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	underlineColor := color.New(color.FgRed, color.Bold)
	noteColor := color.New(color.FgBlue)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	sevColor := func(sev diag.Severity) *color.Color {
		switch sev {
		case diag.SevError:
			return errorColor
		case diag.SevWarning:
			return warningColor
		default:
			return infoColor
		}
	}

	printSpan := func(span source.Span, message string, sev diag.Severity, isRelated bool) {
		f := fs.Get(span.File)
		if f == nil {
			fmt.Fprintf(w, "<unknown file>: %s\n", message) //nolint:errcheck
			return
		}
		prefix := ""
		if isRelated {
			prefix = "  note: "
		}
		fmt.Fprintf(w, "%s%s:%d:%d: %s: %s\n", //nolint:errcheck
			prefix,
			pathColor.Sprint(formatPath(f, opts.PathMode)),
			span.StartLine, span.StartCol,
			sevColor(sev).Sprint(strings.ToUpper(sev.String())),
			message,
		)
		line := f.Line(span.StartLine)
		if line == nil {
			return
		}
		fmt.Fprintf(w, "    %s\n", line) //nolint:errcheck
		pad := visualWidthUpTo(string(line), span.StartCol, 4)
		width := 1
		if span.StartLine == span.EndLine && span.EndCol > span.StartCol {
			width = int(span.EndCol - span.StartCol)
		}
		fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), underlineColor.Sprint(strings.Repeat("^", width))) //nolint:errcheck
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}
		f := fs.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", //nolint:errcheck
				sevColor(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
				codeColor.Sprint(d.Code.ID()), d.Message)
			continue
		}
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", //nolint:errcheck
			pathColor.Sprint(formatPath(f, opts.PathMode)),
			d.Primary.StartLine, d.Primary.StartCol,
			sevColor(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			codeColor.Sprint(d.Code.ID()),
			d.Message,
		)
		line := f.Line(d.Primary.StartLine)
		if line != nil {
			fmt.Fprintf(w, "    %s\n", line) //nolint:errcheck
			pad := visualWidthUpTo(string(line), d.Primary.StartCol, 4)
			width := 1
			if d.Primary.StartLine == d.Primary.EndLine && d.Primary.EndCol > d.Primary.StartCol {
				width = int(d.Primary.EndCol - d.Primary.StartCol)
			}
			fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), underlineColor.Sprint(strings.Repeat("^", width))) //nolint:errcheck
		}
		if d.Suggestion != "" {
			fmt.Fprintf(w, "  %s %s\n", noteColor.Sprint("suggestion:"), d.Suggestion) //nolint:errcheck
		}
		for _, rel := range d.Related {
			printSpan(rel.Span, rel.Message, d.Severity, true)
		}
	}
}
