package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/urdwyrd/urdc/internal/analyze"
	"github.com/urdwyrd/urdc/internal/cache"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/emit"
	"github.com/urdwyrd/urdc/internal/linker"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
	"github.com/urdwyrd/urdc/internal/symbols"
	"github.com/urdwyrd/urdc/internal/validate"
)

// Request configures one compile() invocation.
type Request struct {
	// RootDir is the directory EntryPath (and every import path) is
	// resolved relative to.
	RootDir string
	// EntryPath is the compilation unit's entry file, relative to RootDir.
	EntryPath string
	// Reader supplies file content; a nil Reader defaults to
	// projectgraph.OSReader{RootDir: RootDir}.
	Reader projectgraph.FileReader
	// Progress, if non-nil, receives one Event per stage transition.
	Progress ProgressSink
	// EnableTimings records per-stage wall-clock duration in Result.Timings.
	EnableTimings bool
	// Cache, if non-nil, is populated (never read) with one entry per
	// compiled file after a successful compile (spec §9 "a future
	// incremental mode may memoise by chunk hashes").
	Cache *cache.Disk
}

// Result is what compile() returns: spec §2's `{success, world,
// diagnostics}` triple, plus the symbol table and fact set for a host
// that wants to inspect the compile beyond the emitted bytes (the CLI's
// `urdc check` subcommand, for instance, reads only Success, Diagnostics
// and FileSet).
type Result struct {
	Success     bool
	World       []byte
	Diagnostics []diag.Diagnostic
	Table       *symbols.Table
	Facts       *analyze.FactSet
	Timings     Timings
	// FileSet resolves each Diagnostic's Primary/Related spans back to
	// file paths and source text, for a host that wants to render them
	// (internal/diagfmt, in this repository's own CLI).
	FileSet *source.FileSet
}

// Compile runs PARSE/IMPORT -> LINK -> VALIDATE -> ANALYZE -> EMIT over
// req.EntryPath, stopping before LINK if IMPORT raised a fatal diagnostic
// (spec §4.2, §7: URD203/URD205). Every later phase still runs
// even once earlier phases have reported non-fatal errors, because later
// phases are expected to "mark and continue" (spec §4.4) rather than
// abort the compile outright; only EMIT's own null-on-error contract
// (spec §4.6) short-circuits output, not the pipeline itself.
func Compile(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.EntryPath == "" {
		return Result{}, fmt.Errorf("compiler: missing entry path")
	}
	reader := req.Reader
	rootDir := req.RootDir
	if reader == nil {
		reader = projectgraph.OSReader{RootDir: req.RootDir}
		rootDir = "" // OSReader joins RootDir onto every path itself
	}

	fs := source.NewFileSet()
	bag := diag.NewBag()
	rep := diag.BagReporter{Bag: bag}
	var result Result
	var timings Timings

	stageStart := time.Now()
	emitStage(req.Progress, StageParse, StatusWorking, nil)
	graphRes := projectgraph.Resolve(rootDir, req.EntryPath, reader, fs, rep)
	if req.EnableTimings {
		timings.set(StageParse, time.Since(stageStart))
	}
	emitStage(req.Progress, StageParse, StatusDone, nil)

	fileOrder := make(map[source.FileID]int, len(graphRes.Order))
	for i, node := range graphRes.Order {
		fileOrder[node.FileID] = i
	}

	if graphRes.Fatal {
		bag.Sort(fileOrder)
		result.Diagnostics = bag.Items()
		result.Success = false
		result.Timings = timings
		result.FileSet = fs
		emitStage(req.Progress, StageLink, StatusError, fmt.Errorf("compiler: fatal import-phase diagnostic, stopping before LINK"))
		return result, nil
	}

	stageStart = time.Now()
	emitStage(req.Progress, StageLink, StatusWorking, nil)
	table := linker.Link(graphRes.Order, rep)
	if req.EnableTimings {
		timings.set(StageLink, time.Since(stageStart))
	}
	emitStage(req.Progress, StageLink, StatusDone, nil)

	stageStart = time.Now()
	emitStage(req.Progress, StageValidate, StatusWorking, nil)
	validate.Validate(table, rep)
	if req.EnableTimings {
		timings.set(StageValidate, time.Since(stageStart))
	}
	emitStage(req.Progress, StageValidate, StatusDone, nil)

	stageStart = time.Now()
	emitStage(req.Progress, StageAnalyze, StatusWorking, nil)
	facts := analyze.Analyze(table, rep)
	if req.EnableTimings {
		timings.set(StageAnalyze, time.Since(stageStart))
	}
	emitStage(req.Progress, StageAnalyze, StatusDone, nil)

	stageStart = time.Now()
	emitStage(req.Progress, StageEmit, StatusWorking, nil)
	world, err := emit.Emit(table, bag)
	if req.EnableTimings {
		timings.set(StageEmit, time.Since(stageStart))
	}
	if err != nil {
		emitStage(req.Progress, StageEmit, StatusError, err)
		bag.Sort(fileOrder)
		result.Diagnostics = bag.Items()
		result.Table = table
		result.Facts = facts
		result.Timings = timings
		result.FileSet = fs
		return result, err
	}
	emitStage(req.Progress, StageEmit, StatusDone, nil)

	bag.Sort(fileOrder)
	result.Diagnostics = bag.Items()
	result.World = world
	result.Success = world != nil
	result.Table = table
	result.Facts = facts
	result.Timings = timings
	result.FileSet = fs

	if req.Cache != nil && result.Success {
		warmCache(ctx, req.Cache, fs, graphRes.Order, table, bag)
	}
	return result, nil
}

// warmCache populates req.Cache with one entry per compiled file,
// concurrently (cache.Disk.WarmAll), after the compile has already
// finished and succeeded — a cache write failure must never affect the
// compile's own Result, so its error is discarded here rather than
// propagated.
func warmCache(ctx context.Context, c *cache.Disk, fs *source.FileSet, order []*projectgraph.FileNode, table *symbols.Table, bag *diag.Bag) {
	sections := make(map[source.FileID]int)
	locations := make(map[source.FileID]int)
	choices := make(map[source.FileID]int)
	for _, sec := range table.Sections.Values() {
		sections[sec.DeclaredIn.File]++
		choices[sec.DeclaredIn.File] += len(sec.Choices)
	}
	for _, loc := range table.Locations.Values() {
		locations[loc.DeclaredIn.File]++
	}
	broken := bag.HasErrors()

	results := make([]cache.FileResult, 0, len(order))
	for _, node := range order {
		f := fs.Get(node.FileID)
		if f == nil {
			continue
		}
		results = append(results, cache.FileResult{
			Path:          node.NormalizedPath,
			Content:       f.Content,
			SectionCount:  sections[node.FileID],
			LocationCount: locations[node.FileID],
			ChoiceCount:   choices[node.FileID],
			Broken:        broken,
		})
	}
	_ = c.WarmAll(ctx, results)
}
