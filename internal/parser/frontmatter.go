package parser

import (
	"strconv"
	"strings"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

// fmNode is one line of the raw, indentation-grouped frontmatter tree,
// before it is interpreted against the known top-level shapes
// (import/world/types/entities) or left generic.
type fmNode struct {
	key     string // "" for a bare list item
	inline  string // text after "key:" on the same line, "" if the value lives in children
	isItem  bool   // true for a "- " list item
	indent  int
	span    source.Span
	keySpan source.Span
	children []fmNode
}

type fmParser struct {
	fileID source.FileID
	fs     *source.FileSet
	rep    diag.Reporter
	lines  []rawLine
	pos    int
}

type rawLine struct {
	indent int
	text   []byte // content after indent, trailing space trimmed
	ln     line
}

// parseFrontmatterBlock parses the lines strictly between the `---`
// delimiters into a Frontmatter node.
func parseFrontmatterBlock(fileID source.FileID, body []line, fs *source.FileSet, rep diag.Reporter, blockSpan source.Span) *ast.Frontmatter {
	raws := make([]rawLine, 0, len(body))
	for _, ln := range body {
		if len(bytesTrim(ln.text)) == 0 {
			continue
		}
		indent := indentOf(ln.text, fileID, ln, fs, rep)
		raws = append(raws, rawLine{indent: indent, text: trimTrailingSpace(ln.text[indent:]), ln: ln})
	}
	p := &fmParser{fileID: fileID, fs: fs, rep: rep, lines: raws}
	nodes := p.parseGroup(0)

	fmEntries := make([]*ast.FrontmatterEntry, 0, len(nodes))
	for _, n := range nodes {
		fmEntries = append(fmEntries, p.convertTopLevel(n))
	}
	return &ast.Frontmatter{Base: ast.Base{Span: blockSpan}, Entries: fmEntries}
}

func bytesTrim(b []byte) []byte { return trimTrailingSpace([]byte(strings.TrimLeft(string(b), " \t"))) }

// parseGroup consumes consecutive lines at exactly `indent`, attaching
// deeper-indented lines as each entry's children.
func (p *fmParser) parseGroup(indent int) []fmNode {
	var out []fmNode
	for p.pos < len(p.lines) {
		rl := p.lines[p.pos]
		if rl.indent < indent {
			break
		}
		if rl.indent > indent {
			// orphaned deep indentation: skipped (dropped) after an entry,
			// and ends the block when no entry precedes it
			if len(out) > 0 {
				p.pos++
				continue
			}
			break
		}
		node := p.parseLine(rl)
		p.pos++
		if p.pos < len(p.lines) && p.lines[p.pos].indent > indent {
			node.children = p.parseGroup(p.lines[p.pos].indent)
		}
		out = append(out, node)
	}
	return out
}

func (p *fmParser) parseLine(rl rawLine) fmNode {
	text := string(rl.text)
	sp := p.fs.MakeSpan(p.fileID, rl.ln.start+u32(rl.indent), rl.ln.end)
	if strings.HasPrefix(text, "- ") || text == "-" {
		item := strings.TrimSpace(strings.TrimPrefix(text, "-"))
		if strings.Contains(item, ": ") || strings.HasSuffix(item, ":") {
			// "- key: value" inline map item; treat as a single-key group
			sub := p.parseInlineKV(item, sp)
			return fmNode{isItem: true, span: sp, children: []fmNode{sub}}
		}
		return fmNode{isItem: true, inline: item, span: sp}
	}
	return p.parseInlineKV(text, sp)
}

func (p *fmParser) parseInlineKV(text string, sp source.Span) fmNode {
	idx := strings.Index(text, ":")
	if idx < 0 {
		diag.Error(p.rep, diag.ParseMalformedFrontmatter, sp, "expected \"key: value\"")
		return fmNode{key: text, span: sp, keySpan: sp}
	}
	key := strings.TrimSpace(text[:idx])
	val := strings.TrimSpace(text[idx+1:])
	return fmNode{key: key, inline: val, span: sp, keySpan: sp}
}

// depthOf reports the generic-tree nesting depth rooted at n, used for
// URD104 ("frontmatter nesting exceeds limit").
func depthOf(n fmNode) int {
	max := 0
	for _, c := range n.children {
		if d := depthOf(c); d > max {
			max = d
		}
	}
	return max + 1
}

// --- conversion: generic tree -> typed ast.FrontmatterValue ---

func (p *fmParser) convertTopLevel(n fmNode) *ast.FrontmatterEntry {
	if depthOf(n) > maxFrontmatterDepth {
		diag.Error(p.rep, diag.ParseFrontmatterTooDeep, n.span, "frontmatter nesting exceeds the maximum depth of 8")
	}
	var val ast.FrontmatterValue
	switch n.key {
	case "import":
		val = p.convertImportList(n)
	case "world":
		val = p.convertWorld(n)
	case "types":
		val = p.convertTypesMap(n)
	case "entities":
		val = p.convertEntitiesMap(n)
	default:
		val = p.convertGeneric(n)
	}
	return &ast.FrontmatterEntry{Base: ast.Base{Span: n.span}, Key: n.key, Value: val}
}

func (p *fmParser) convertGeneric(n fmNode) ast.FrontmatterValue {
	if n.inline != "" || (len(n.children) == 0 && !n.isItem) {
		return p.parseScalar(n.inline, n.span)
	}
	if allItems(n.children) {
		items := make([]ast.FrontmatterValue, 0, len(n.children))
		for _, c := range n.children {
			items = append(items, p.convertItem(c))
		}
		return ast.List{Base: ast.Base{Span: n.span}, Items: items}
	}
	entries := make([]*ast.FrontmatterEntry, 0, len(n.children))
	for _, c := range n.children {
		entries = append(entries, &ast.FrontmatterEntry{Base: ast.Base{Span: c.span}, Key: c.key, Value: p.convertGeneric(c)})
	}
	return ast.Map{Base: ast.Base{Span: n.span}, Entries: entries}
}

func (p *fmParser) convertItem(n fmNode) ast.FrontmatterValue {
	if len(n.children) == 1 && n.children[0].key != "" {
		// "- key: value" shorthand for a single-entry map item
		c := n.children[0]
		return ast.Map{Base: ast.Base{Span: n.span}, Entries: []*ast.FrontmatterEntry{
			{Base: ast.Base{Span: c.span}, Key: c.key, Value: p.convertGeneric(c)},
		}}
	}
	return p.parseScalar(n.inline, n.span)
}

func allItems(nodes []fmNode) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if !n.isItem {
			return false
		}
	}
	return true
}

func (p *fmParser) parseScalar(text string, sp source.Span) ast.Scalar {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		// inline list rendered as a string scalar is never produced by
		// convertGeneric's caller directly; callers needing a list call
		// parseInlineList instead. Treat leftover bracket text as a string.
	}
	switch {
	case text == "true":
		return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarBool, Bool: true}
	case text == "false":
		return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarBool, Bool: false}
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarString, Str: text[1 : len(text)-1]}
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarInt, Int: i}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarFloat, Flt: f}
	}
	return ast.Scalar{Base: ast.Base{Span: sp}, Kind: ast.ScalarIdent, Str: text}
}

// parseInlineList parses a `[a, b, c]` bracketed inline list.
func (p *fmParser) parseInlineList(text string, sp source.Span) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.Trim(strings.TrimSpace(part), "\""))
	}
	return out
}

func (p *fmParser) convertImportList(n fmNode) ast.FrontmatterValue {
	var rawPaths []struct {
		path string
		sp   source.Span
	}
	if n.inline != "" {
		for _, s := range p.parseInlineList(n.inline, n.span) {
			rawPaths = append(rawPaths, struct {
				path string
				sp   source.Span
			}{s, n.span})
		}
	}
	for _, c := range n.children {
		raw := c.inline
		if raw == "" {
			raw = c.key
		}
		raw = strings.Trim(raw, "\"")
		rawPaths = append(rawPaths, struct {
			path string
			sp   source.Span
		}{raw, c.span})
	}
	items := make([]ast.FrontmatterValue, 0, len(rawPaths))
	for _, rp := range rawPaths {
		if rp.path == "" {
			diag.Error(p.rep, diag.ImportEmptyPath, rp.sp, "import path must not be empty")
			continue
		}
		items = append(items, &ast.ImportDecl{Base: ast.Base{Span: rp.sp}, Path: rp.path})
	}
	return ast.List{Base: ast.Base{Span: n.span}, Items: items}
}

func (p *fmParser) convertWorld(n fmNode) ast.FrontmatterValue {
	fields := make([]*ast.FrontmatterEntry, 0, len(n.children))
	for _, c := range n.children {
		sc := p.parseScalar(c.inline, c.span)
		fields = append(fields, &ast.FrontmatterEntry{Base: ast.Base{Span: c.span}, Key: c.key, Value: sc})
	}
	return &ast.WorldBlock{Base: ast.Base{Span: n.span}, Fields: fields}
}

func (p *fmParser) convertTypesMap(n fmNode) ast.FrontmatterValue {
	entries := make([]*ast.FrontmatterEntry, 0, len(n.children))
	for _, c := range n.children {
		td := p.convertTypeDef(c)
		entries = append(entries, &ast.FrontmatterEntry{Base: ast.Base{Span: c.span}, Key: c.key, Value: td})
	}
	return ast.Map{Base: ast.Base{Span: n.span}, Entries: entries}
}

func (p *fmParser) convertTypeDef(n fmNode) *ast.TypeDef {
	td := &ast.TypeDef{Base: ast.Base{Span: n.span}, Name: n.key}
	for _, c := range n.children {
		switch c.key {
		case "traits":
			if c.inline != "" {
				td.Traits = p.parseInlineList(c.inline, c.span)
			} else {
				for _, item := range c.children {
					td.Traits = append(td.Traits, strings.Trim(item.inline, "\""))
				}
			}
		case "properties":
			for _, pc := range c.children {
				td.Properties = append(td.Properties, p.convertPropertyDef(pc))
			}
		default:
			diag.Warning(p.rep, diag.ParseUnknownFrontmatterKey, c.span, "unrecognised key \""+c.key+"\" in type declaration")
		}
	}
	return td
}

func (p *fmParser) convertPropertyDef(n fmNode) *ast.PropertyDef {
	pd := &ast.PropertyDef{Base: ast.Base{Span: n.span}, Name: n.key}
	for _, c := range n.children {
		val := strings.Trim(strings.TrimSpace(c.inline), "\"")
		switch c.key {
		case "type":
			switch val {
			case "boolean":
				pd.Type = ast.PropBoolean
			case "integer":
				pd.Type = ast.PropInteger
			case "number":
				pd.Type = ast.PropNumber
			case "string":
				pd.Type = ast.PropString
			case "enum":
				pd.Type = ast.PropEnum
			case "ref":
				pd.Type = ast.PropRef
			case "list":
				pd.Type = ast.PropList
			default:
				diag.Error(p.rep, diag.ParseInvalidPropertyType, c.span, "unknown property type \""+val+"\"")
			}
		case "default":
			d := p.parseScalar(c.inline, c.span)
			pd.Default = &d
		case "visibility":
			pd.Visibility = val
		case "values":
			if c.inline != "" {
				pd.EnumValues = p.parseInlineList(c.inline, c.span)
			} else {
				for _, item := range c.children {
					pd.EnumValues = append(pd.EnumValues, strings.Trim(item.inline, "\""))
				}
			}
		case "ref_type":
			pd.RefType = ast.Ref{Raw: val}
		case "min":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				pd.Min = &f
			}
		case "max":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				pd.Max = &f
			}
		case "element_type":
			switch val {
			case "string":
				pd.ListElem = ast.PropString
			case "enum":
				pd.ListElem = ast.PropEnum
			case "ref":
				pd.ListElem = ast.PropRef
			case "integer":
				pd.ListElem = ast.PropInteger
			case "number":
				pd.ListElem = ast.PropNumber
			case "boolean":
				pd.ListElem = ast.PropBoolean
			}
		case "element_values":
			if c.inline != "" {
				pd.ListEnum = p.parseInlineList(c.inline, c.span)
			}
		case "element_ref_type":
			pd.ListRefType = ast.Ref{Raw: val}
		case "description":
			pd.Description = val
		default:
			diag.Warning(p.rep, diag.ParseUnknownFrontmatterKey, c.span, "unrecognised key \""+c.key+"\" in property declaration")
		}
	}
	return pd
}

func (p *fmParser) convertEntitiesMap(n fmNode) ast.FrontmatterValue {
	entries := make([]*ast.FrontmatterEntry, 0, len(n.children))
	for _, c := range n.children {
		ed := p.convertEntityDecl(c)
		entries = append(entries, &ast.FrontmatterEntry{Base: ast.Base{Span: c.span}, Key: c.key, Value: ed})
	}
	return ast.Map{Base: ast.Base{Span: n.span}, Entries: entries}
}

func (p *fmParser) convertEntityDecl(n fmNode) *ast.EntityDecl {
	ed := &ast.EntityDecl{Base: ast.Base{Span: n.span}, ID: n.key}
	if !isValidIdent(n.key) {
		diag.Error(p.rep, diag.ParseInvalidEntityID, n.span, "invalid entity identifier \""+n.key+"\"")
	}
	for _, c := range n.children {
		if c.key == "type" {
			ed.TypeName = ast.Ref{Raw: strings.TrimSpace(c.inline)}
			continue
		}
		var val ast.FrontmatterValue
		if allItems(c.children) {
			items := make([]ast.FrontmatterValue, 0, len(c.children))
			for _, item := range c.children {
				sc := p.parseScalar(item.inline, item.span)
				items = append(items, sc)
			}
			val = ast.List{Base: ast.Base{Span: c.span}, Items: items}
		} else if c.inline != "" && strings.HasPrefix(strings.TrimSpace(c.inline), "[") {
			items := make([]ast.FrontmatterValue, 0)
			for _, s := range p.parseInlineList(c.inline, c.span) {
				items = append(items, p.parseScalar(s, c.span))
			}
			val = ast.List{Base: ast.Base{Span: c.span}, Items: items}
		} else {
			sc := p.parseScalar(c.inline, c.span)
			val = sc
		}
		ed.Overrides = append(ed.Overrides, &ast.PropertyOverride{Base: ast.Base{Span: c.span}, Name: c.key, Value: val})
	}
	return ed
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}
