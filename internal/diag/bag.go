package diag

import (
	"sort"

	"github.com/urdwyrd/urdc/internal/source"
)

// Bag collects diagnostics for one compile() invocation. It is the single
// mutable resource threaded through all phases (spec §5): phases only
// append to it; nothing downstream mutates an entry once added.
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty collector.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Items returns the diagnostics in insertion order. Callers must not
// mutate the returned slice.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any diagnostic has error severity. Emission
// is skipped whenever this is true (spec §2, §4.6).
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

// HasCode reports whether any diagnostic in the bag carries code.
func (b *Bag) HasCode(code Code) bool {
	for _, d := range b.items {
		if d.Code == code {
			return true
		}
	}
	return false
}

// severityRank implements the "Error < Warning < Info" tie-break from
// spec §4.7: errors sort first among diagnostics at an identical position.
func severityRank(s Severity) int {
	switch s {
	case SevError:
		return 0
	case SevWarning:
		return 1
	default:
		return 2
	}
}

// Sort orders diagnostics per spec §4.7: across files by topological
// import order (entry last), within a file by (start_line, start_col),
// and at identical positions by severity (Error, Warning, Info).
// fileOrder maps a FileID to its rank in the topologically-ordered file
// list; files absent from fileOrder (should not happen in a well-formed
// compile) sort after every ranked file, by FileID as a last resort.
func (b *Bag) Sort(fileOrder map[source.FileID]int) {
	rank := func(f source.FileID) int {
		if r, ok := fileOrder[f]; ok {
			return r
		}
		return len(fileOrder) + int(f)
	}
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		ri, rj := rank(di.Primary.File), rank(dj.Primary.File)
		if ri != rj {
			return ri < rj
		}
		if di.Primary.StartLine != dj.Primary.StartLine {
			return di.Primary.StartLine < dj.Primary.StartLine
		}
		if di.Primary.StartCol != dj.Primary.StartCol {
			return di.Primary.StartCol < dj.Primary.StartCol
		}
		return severityRank(di.Severity) < severityRank(dj.Severity)
	})
}
