package analyze

import (
	"fmt"

	"github.com/urdwyrd/urdc/internal/diag"
)

// The five functions below are the whole of ANALYZE's diagnostic surface
// (spec §4.5, URD601-605). Each takes only a FactSet and the
// DependencyIndex derived from it — no *symbols.Table, no *ast node, no
// source text — by design: the analysis is defined purely in terms of
// the relations in factset.go.

// checkReadNeverWritten reports URD601: a property that is compared
// somewhere but never has a Set/Add/Sub write anywhere in the world.
func checkReadNeverWritten(fs *FactSet, idx *DependencyIndex, rep diag.Reporter) {
	for _, key := range sortedKeys(idx.Readers) {
		if len(idx.Writers[key]) > 0 {
			continue
		}
		reads := idx.Readers[key]
		d := diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.AnalyzeReadNeverWritten,
			Primary:  fs.Reads[reads[0]].Span,
			Message:  fmt.Sprintf("%s.%s is read but never written anywhere in this world", key.EntityType, key.Property),
		}
		for _, ri := range reads[1:] {
			d = d.WithRelated(fs.Reads[ri].Span, "also read here")
		}
		rep.Report(d)
	}
}

// checkWrittenNeverRead reports URD602, the mirror of URD601: a property
// that is assigned somewhere but never compared anywhere.
func checkWrittenNeverRead(fs *FactSet, idx *DependencyIndex, rep diag.Reporter) {
	for _, key := range sortedKeys(idx.Writers) {
		if len(idx.Readers[key]) > 0 {
			continue
		}
		writes := idx.Writers[key]
		d := diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.AnalyzeWrittenNeverRead,
			Primary:  fs.Writes[writes[0]].Span,
			Message:  fmt.Sprintf("%s.%s is written but never read anywhere in this world", key.EntityType, key.Property),
		}
		for _, wi := range writes[1:] {
			d = d.WithRelated(fs.Writes[wi].Span, "also written here")
		}
		rep.Report(d)
	}
}

// eqTestedVariants collects the set of ident literals a property's reads
// test for equality. Only "==" counts as testing a variant — "!=" rules
// a value out rather than confirming the branch that follows it is ever
// taken.
func eqTestedVariants(fs *FactSet, reads []ReadIndex) map[string]bool {
	out := make(map[string]bool)
	for _, ri := range reads {
		r := fs.Reads[ri]
		if r.Op == OpEq && r.Value.Kind == ValIdent {
			out[r.Value.Str] = true
		}
	}
	return out
}

// checkUnreachableVariant reports URD603: an enum-like value assigned by
// a Set write that no "==" read anywhere ever tests for. A key with no
// reads at all is skipped here — URD602 already flags that the property
// is written but never read, and reporting 603 on top would be the same
// complaint twice.
func checkUnreachableVariant(fs *FactSet, idx *DependencyIndex, rep diag.Reporter) {
	for _, w := range fs.Writes {
		if w.Op != WriteSet || w.Value.Kind != ValIdent {
			continue
		}
		key := PropertyKey{EntityType: w.EntityType, Property: w.Property}
		reads := idx.Readers[key]
		if len(reads) == 0 {
			continue
		}
		if eqTestedVariants(fs, reads)[w.Value.Str] {
			continue
		}
		diag.Warning(rep, diag.AnalyzeUnreachableVariant, w.Span,
			fmt.Sprintf("%s.%s is set to %q but no condition ever tests for that value with \"==\"", w.EntityType, w.Property, w.Value.Str))
	}
}

func isOrderOp(op CompareOp) bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// satisfies reports whether value could make an order comparison op
// against threshold true. A non-numeric value can't be judged statically
// and is assumed capable of satisfying the comparison, so a single
// symbolic assignment never falsely triggers URD604.
func satisfies(op CompareOp, value Value, threshold int64) bool {
	var n float64
	switch value.Kind {
	case ValInt:
		n = float64(value.Int)
	case ValFloat:
		n = value.Flt
	default:
		return true
	}
	t := float64(threshold)
	switch op {
	case OpLt:
		return n < t
	case OpLe:
		return n <= t
	case OpGt:
		return n > t
	case OpGe:
		return n >= t
	default:
		return true
	}
}

// checkUnreachableThreshold reports URD604: an order comparison against
// an integer literal where every Set write to the property produces a
// value failing the comparison, and no Add/Sub write exists to reach it
// incrementally. Any Add/Sub write on the key makes the threshold
// reachable by construction the check cannot rule out, so it backs off
// entirely — conservative by design, per spec §4.5.
func checkUnreachableThreshold(fs *FactSet, idx *DependencyIndex, rep diag.Reporter) {
	for _, r := range fs.Reads {
		if !isOrderOp(r.Op) || r.Value.Kind != ValInt {
			continue
		}
		key := PropertyKey{EntityType: r.EntityType, Property: r.Property}
		writes := idx.Writers[key]
		if len(writes) == 0 {
			continue
		}
		hasAddSub := false
		sawSet := false
		allSetsFail := true
		for _, wi := range writes {
			w := fs.Writes[wi]
			if w.Op == WriteAdd || w.Op == WriteSub {
				hasAddSub = true
				break
			}
			sawSet = true
			if satisfies(r.Op, w.Value, r.Value.Int) {
				allSetsFail = false
			}
		}
		if hasAddSub || !sawSet || !allSetsFail {
			continue
		}
		diag.Warning(rep, diag.AnalyzeUnreachableThreshold, r.Span,
			fmt.Sprintf("%s.%s is compared %s %d here, but every assignment to it fails that comparison",
				key.EntityType, key.Property, r.Op, r.Value.Int))
	}
}

// checkCircularDependency reports URD605: every write to a property is
// itself guarded by a read of that same property at the write's own
// site (the write cannot fire unless the property already holds some
// value satisfying the guard, so the assignment can never change the
// outcome that let it run).
func checkCircularDependency(fs *FactSet, idx *DependencyIndex, rep diag.Reporter) {
	for _, key := range sortedKeys(idx.Writers) {
		writes := idx.Writers[key]
		if len(writes) == 0 {
			continue
		}
		readsBySite := make(map[string][]ReadIndex)
		for _, ri := range idx.Readers[key] {
			site := fs.Reads[ri].Site
			readsBySite[site] = append(readsBySite[site], ri)
		}

		var guardReads []ReadIndex
		allGuarded := true
		for _, wi := range writes {
			site := fs.Writes[wi].Site
			guards, ok := readsBySite[site]
			if !ok {
				allGuarded = false
				break
			}
			guardReads = append(guardReads, guards...)
		}
		if !allGuarded {
			continue
		}

		d := diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.AnalyzeCircularDependency,
			Primary:  fs.Writes[writes[0]].Span,
			Message:  fmt.Sprintf("every write to %s.%s is guarded by a read of %s.%s at the same site", key.EntityType, key.Property, key.EntityType, key.Property),
		}
		for _, ri := range guardReads {
			d = d.WithRelated(fs.Reads[ri].Span, "guarding read here")
		}
		for _, wi := range writes[1:] {
			d = d.WithRelated(fs.Writes[wi].Span, "also written here")
		}
		rep.Report(d)
	}
}
