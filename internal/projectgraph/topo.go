package projectgraph

import "sort"

// topoSort produces the deterministic dependency-first order spec §4.2
// requires: ties broken alphabetically by normalised path, the entry
// file always last. A plain postorder DFS that visits each node's
// direct imports in sorted order satisfies both properties at once —
// the entry is visited first and only appended to the order after every
// reachable node beneath it, so it always lands last.
func topoSort(g *Graph, entry string) []*FileNode {
	visited := map[string]bool{}
	order := make([]*FileNode, 0, len(g.Nodes))

	var visit func(p string)
	visit = func(p string) {
		if visited[p] {
			return
		}
		node, ok := g.Nodes[p]
		if !ok {
			return
		}
		visited[p] = true
		targets := append([]string(nil), node.ImportTargets...)
		sort.Strings(targets)
		for _, t := range targets {
			visit(t)
		}
		order = append(order, node)
	}
	visit(entry)

	// Defensive: any node unreachable from entry (should not occur, since
	// every node is discovered by descending from entry) is still emitted,
	// in alphabetic order, ahead of the entry.
	var stray []string
	for p := range g.Nodes {
		if !visited[p] {
			stray = append(stray, p)
		}
	}
	if len(stray) > 0 {
		sort.Strings(stray)
		var entryNode *FileNode
		if n := len(order); n > 0 {
			entryNode, order = order[n-1], order[:n-1]
		}
		for _, p := range stray {
			visit(p)
		}
		if entryNode != nil {
			order = append(order, entryNode)
		}
	}
	return order
}
