package linker

import (
	"github.com/urdwyrd/urdc/internal/projectgraph"
	"github.com/urdwyrd/urdc/internal/source"
)

// scopeTable answers "is declFile visible from referringFile", implementing
// spec §3.3's scope(F) = {F} ∪ direct imports of F. It is built once from
// the resolved dependency graph and consulted for every reference during
// sweep 2 — visibility is a lookup, never recomputed per reference.
type scopeTable struct {
	visible map[source.FileID]map[source.FileID]bool
}

func newScopeTable(nodes []*projectgraph.FileNode) *scopeTable {
	byPath := make(map[string]source.FileID, len(nodes))
	for _, n := range nodes {
		byPath[n.NormalizedPath] = n.FileID
	}
	st := &scopeTable{visible: make(map[source.FileID]map[source.FileID]bool, len(nodes))}
	for _, n := range nodes {
		set := map[source.FileID]bool{n.FileID: true}
		for _, target := range n.ImportTargets {
			if id, ok := byPath[target]; ok {
				set[id] = true
			}
		}
		st.visible[n.FileID] = set
	}
	return st
}

// sees reports whether referring can see a symbol declared in declFile.
func (st *scopeTable) sees(referring, declFile source.FileID) bool {
	set, ok := st.visible[referring]
	if !ok {
		return referring == declFile
	}
	return set[declFile]
}
