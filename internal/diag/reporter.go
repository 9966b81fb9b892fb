package diag

import "github.com/urdwyrd/urdc/internal/source"

// Reporter is the narrow contract phases use to emit diagnostics without
// coupling to Bag storage directly.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a *Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// Error reports an error-severity diagnostic with no related notes.
func Error(r Reporter, code Code, span source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: span})
}

// Warning reports a warning-severity diagnostic.
func Warning(r Reporter, code Code, span source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{Severity: SevWarning, Code: code, Message: msg, Primary: span})
}

// Info reports an info-severity diagnostic.
func Info(r Reporter, code Code, span source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{Severity: SevInfo, Code: code, Message: msg, Primary: span})
}
