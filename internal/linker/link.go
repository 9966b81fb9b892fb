// Package linker implements the LINK phase (spec §4.3): a two-sweep pass
// over the topologically ordered file list produced by projectgraph.
// Sweep 1 collects every declaration into the global symbol table; sweep
// 2 resolves every reference against that table, filtered by each file's
// visible scope.
package linker

import (
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/symbols"
)

type linker struct {
	table *symbols.Table
	scope *scopeTable
	rep   diag.Reporter
}

// Link runs both sweeps over nodes (the topological file order IMPORT
// produced) and returns the fully annotated symbol table. Diagnostics are
// reported to rep as they are found; callers should not call Link when
// projectgraph.Result.Fatal is true (spec §4.2 "fatal diagnostics cause
// the orchestrator to stop before LINK").
func Link(nodes []*projectgraph.FileNode, rep diag.Reporter) *symbols.Table {
	l := &linker{table: symbols.NewTable(), scope: newScopeTable(nodes), rep: rep}
	l.collect(nodes)
	l.resolve()
	return l.table
}
