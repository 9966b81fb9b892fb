package analyze

import (
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/symbols"
)

// Analyze runs the ANALYZE phase (spec §4.5) over a resolved symbol
// table: it extracts the FactSet, builds the dependency index, and runs
// all five warnings against them. It returns the FactSet so EMIT (or a
// future caller) can reuse it without re-extracting.
func Analyze(table *symbols.Table, rep diag.Reporter) *FactSet {
	fs := Extract(table)
	idx := BuildIndex(fs)
	checkReadNeverWritten(fs, idx, rep)
	checkWrittenNeverRead(fs, idx, rep)
	checkUnreachableVariant(fs, idx, rep)
	checkUnreachableThreshold(fs, idx, rep)
	checkCircularDependency(fs, idx, rep)
	return fs
}
