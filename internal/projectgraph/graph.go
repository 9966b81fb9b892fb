package projectgraph

import (
	"path"
	"sort"
	"strings"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/parser"
	"github.com/urdwyrd/urdc/internal/source"
)

// FileNode owns one file's AST and its direct-import targets (spec
// §3.4's DependencyGraph.FileNode), keyed by its path normalised
// relative to the entry file's directory.
type FileNode struct {
	NormalizedPath string
	FileID         source.FileID
	Ast            *ast.FileAst
	ImportTargets  []string // direct imports, successfully resolved, first-discovery order
}

// Edge is one dependency-graph edge, src imports dst.
type Edge struct {
	Src, Dst string
}

// Graph is the full discovered dependency graph (spec §3.4).
type Graph struct {
	Nodes     map[string]*FileNode
	Edges     []Edge
	EntryPath string
}

// Result is what Resolve returns: the graph, the deterministically
// ordered file list LINK will walk, and whether a fatal diagnostic
// (URD203 or URD205) was raised — in which case the orchestrator must
// stop before LINK (spec §4.2, §7).
type Result struct {
	Graph *Graph
	Order []*FileNode
	Fatal bool
}

// Resolve discovers every file reachable from entryPath (relative to
// rootDir on the host filesystem), parsing each one as it is first
// encountered and registering it in fs. rootDir is never stored in the
// graph; only the entry-relative normalised path is.
func Resolve(rootDir, entryPath string, reader FileReader, fs *source.FileSet, rep diag.Reporter) Result {
	g := &Graph{Nodes: map[string]*FileNode{}, EntryPath: entryPath}
	d := &discoverer{rootDir: rootDir, reader: reader, fs: fs, rep: rep, graph: g}
	d.visit(entryPath, source.Span{})

	fatal := d.checkFileCount()
	fatal = d.checkStemCollisions() || fatal

	order := topoSort(g, entryPath)
	return Result{Graph: g, Order: order, Fatal: fatal}
}

const (
	maxDepth = 64
	maxFiles = 256
)

type discoverer struct {
	rootDir string
	reader  FileReader
	fs      *source.FileSet
	rep     diag.Reporter
	graph   *Graph
	stack   []string
}

// visit discovers normalizedPath (already validated/normalised by the
// caller, except for the entry file), parsing it if new and recursing
// into its own imports. declSpan is the span of the import declaration
// that led here, used only for diagnostics; it is the zero span for the
// entry file.
func (d *discoverer) visit(normalizedPath string, declSpan source.Span) {
	if canon := d.reader.CanonicalCase(path.Join(d.rootDir, normalizedPath)); canon != "" {
		diag.Warning(d.rep, diag.ImportCasingMismatch, declSpan,
			"import path \""+normalizedPath+"\" differs in casing from the file on disk (\""+canon+"\")")
	}

	if d.onStack(normalizedPath) {
		cyclePath := append(append([]string{}, d.stack[d.indexOnStack(normalizedPath):]...), normalizedPath)
		diag.Error(d.rep, diag.ImportCycle, declSpan, "import cycle detected: "+strings.Join(cyclePath, " → "))
		return
	}

	if _, exists := d.graph.Nodes[normalizedPath]; exists {
		return
	}

	if len(d.stack)+1 > maxDepth {
		diag.Error(d.rep, diag.ImportDepthExceeded, declSpan, "import chain exceeds the maximum depth of 64")
		return
	}

	content, ok, err := d.reader.ReadFile(path.Join(d.rootDir, normalizedPath))
	if err != nil {
		diag.Error(d.rep, diag.ImportUnreadableFile, declSpan, "could not read \""+normalizedPath+"\": "+err.Error())
		return
	}
	if !ok {
		diag.Error(d.rep, diag.ImportMissingFile, declSpan, "imported file \""+normalizedPath+"\" was not found")
		return
	}

	fileID := d.fs.Add(normalizedPath, content)
	fa := parser.ParseFile(fileID, d.fs, d.rep)
	node := &FileNode{NormalizedPath: normalizedPath, FileID: fileID, Ast: fa}
	d.graph.Nodes[normalizedPath] = node

	d.stack = append(d.stack, normalizedPath)
	defer func() { d.stack = d.stack[:len(d.stack)-1] }()

	if fa == nil {
		return
	}
	fromDir := path.Dir(normalizedPath)
	seen := map[string]bool{}
	var entries []*ast.FrontmatterEntry
	if fa.Frontmatter != nil {
		entries = fa.Frontmatter.Entries
	}
	for _, entry := range entries {
		if entry.Key != "import" {
			continue
		}
		lst, ok := entry.Value.(ast.List)
		if !ok {
			continue
		}
		for _, item := range lst.Items {
			imp, ok := item.(*ast.ImportDecl)
			if !ok {
				continue
			}
			d.addImport(node, imp, fromDir, seen)
		}
	}
}

func (d *discoverer) addImport(node *FileNode, imp *ast.ImportDecl, fromDir string, seen map[string]bool) {
	normalized, errCode := normalizeImportPath(imp.Path, fromDir)
	switch errCode {
	case errEmptyPath:
		diag.Error(d.rep, diag.ImportEmptyPath, imp.SpanOf(), "import path must not be empty")
		return
	case errAbsolutePath:
		diag.Error(d.rep, diag.ImportAbsolutePath, imp.SpanOf(), "import path \""+imp.Path+"\" must be relative")
		return
	case errBadExtension:
		diag.Error(d.rep, diag.ImportBadExtension, imp.SpanOf(), "import path \""+imp.Path+"\" must end in \".urd.md\"")
		return
	case errEscapesRoot:
		diag.Error(d.rep, diag.ImportEscapesRoot, imp.SpanOf(), "import path \""+imp.Path+"\" escapes the project root")
		return
	case errMalformedPath:
		diag.Error(d.rep, diag.ImportMalformedPath, imp.SpanOf(), "import path \""+imp.Path+"\" is malformed")
		return
	}

	if seen[normalized] {
		return // duplicate import declaration targeting the same file: one edge, first span kept
	}
	seen[normalized] = true

	cyclic := d.onStack(normalized)
	d.visit(normalized, imp.SpanOf())
	if _, ok := d.graph.Nodes[normalized]; !ok || cyclic {
		return // a failed or cyclic import adds no edge
	}
	node.ImportTargets = append(node.ImportTargets, normalized)
	d.graph.Edges = append(d.graph.Edges, Edge{Src: node.NormalizedPath, Dst: normalized})
}

func (d *discoverer) onStack(p string) bool { return d.indexOnStack(p) >= 0 }

func (d *discoverer) indexOnStack(p string) int {
	for i, s := range d.stack {
		if s == p {
			return i
		}
	}
	return -1
}

func (d *discoverer) checkFileCount() bool {
	if len(d.graph.Nodes) <= maxFiles {
		return false
	}
	diag.Error(d.rep, diag.ImportFileCountExceeded, source.Span{},
		"compilation unit exceeds the 256-file limit")
	return true
}

func (d *discoverer) checkStemCollisions() bool {
	byStem := map[string][]*FileNode{}
	for _, n := range d.graph.Nodes {
		stem := fileStem(n.NormalizedPath)
		byStem[stem] = append(byStem[stem], n)
	}
	stems := make([]string, 0, len(byStem))
	for s := range byStem {
		stems = append(stems, s)
	}
	sort.Strings(stems)

	fatal := false
	for _, stem := range stems {
		nodes := byStem[stem]
		if len(nodes) < 2 {
			continue
		}
		fatal = true
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].NormalizedPath < nodes[j].NormalizedPath })
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				msg := "file stem \"" + stem + "\" is used by both \"" + nodes[i].NormalizedPath + "\" and \"" + nodes[j].NormalizedPath + "\""
				d.rep.Report(diag.Diagnostic{
					Severity: diag.SevError, Code: diag.ImportFileStemCollision, Message: msg,
					Primary: nodes[i].Ast.SpanOf(),
					Related: []diag.Related{{Span: nodes[j].Ast.SpanOf(), Message: "also declared here"}},
				})
			}
		}
	}
	return fatal
}
