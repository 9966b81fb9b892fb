// Package compiler sequences the full PARSE/IMPORT -> LINK -> VALIDATE ->
// ANALYZE -> EMIT pipeline behind the single compile() entry point spec
// §2 describes, threading one diag.Bag through every phase and stopping
// before LINK on a fatal IMPORT-phase diagnostic (spec §4.2, §7). Progress
// is reported through a small Stage/Status/Event/ProgressSink shape.
package compiler

import "time"

// Stage names one of this compiler's phase groups, reported to a
// ProgressSink.
type Stage string

const (
	StageParse    Stage = "parse" // PARSE + IMPORT, folded into one projectgraph.Resolve call
	StageLink     Stage = "link"
	StageValidate Stage = "validate"
	StageAnalyze  Stage = "analyze"
	StageEmit     Stage = "emit"
)

// Status captures progress state within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for the pipeline as a whole. Phases after PARSE
// operate on the whole symbol table rather than per-file, so there is no
// separate File field here.
type Event struct {
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events, e.g. to drive a bubbletea UI.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds per-stage wall-clock durations, populated whenever the
// caller asks for them (Request.EnableTimings).
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) set(stage Stage, d time.Duration) {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] = d
}

// Duration returns the recorded duration for stage, or 0 if unset.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}
