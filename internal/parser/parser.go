package parser

import (
	"strings"

	"github.com/urdwyrd/urdc/internal/ast"
	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/idgen"
	"github.com/urdwyrd/urdc/internal/source"
	"golang.org/x/text/unicode/norm"
)

// ParseFile runs the PARSE phase over one registered file, producing its
// AST and reporting diagnostics to rep. It never reads any other file.
func ParseFile(fileID source.FileID, fs *source.FileSet, rep diag.Reporter) *ast.FileAst {
	f := fs.Get(fileID)
	if f == nil {
		return nil
	}
	if len(f.Content) > maxFileSize {
		whole := fs.MakeSpan(fileID, 0, u32(len(f.Content)))
		diag.Error(rep, diag.ParseFileTooLarge, whole, "source file exceeds the 1MB limit")
	}

	lines := splitLines(f)
	fa := &ast.FileAst{Base: ast.Base{Span: fs.MakeSpan(fileID, 0, u32(len(f.Content)))}, Path: f.NormalizedPath}

	p := &contentParser{fileID: fileID, fs: fs, rep: rep, expr: &exprParser{fileID: fileID, fs: fs, rep: rep}}

	bodyStart := 0
	if len(lines) > 0 && strings.TrimSpace(string(lines[0].text)) == "---" {
		closeIdx := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(string(lines[i].text)) == "---" {
				closeIdx = i
				break
			}
		}
		if closeIdx < 0 {
			sp := fs.MakeSpan(fileID, lines[0].start, lines[len(lines)-1].end)
			diag.Error(rep, diag.ParseUnclosedFrontmatter, sp, "frontmatter block opened with \"---\" is never closed")
			fmSpan := fs.MakeSpan(fileID, lines[0].start, lines[len(lines)-1].end)
			fa.Frontmatter = parseFrontmatterBlock(fileID, lines[1:], fs, rep, fmSpan)
			bodyStart = len(lines)
		} else {
			fmSpan := fs.MakeSpan(fileID, lines[0].start, lines[closeIdx].end)
			fa.Frontmatter = parseFrontmatterBlock(fileID, lines[1:closeIdx], fs, rep, fmSpan)
			bodyStart = closeIdx + 1
		}
	}

	p.cur = &cursor{lines: lines, pos: bodyStart}
	fa.Content = p.parseBlock(0, 0)
	return fa
}

// normalizeText applies NFC normalisation to author-facing prose/speech
// text, so downstream string comparisons (labels, enum values) are not
// sensitive to an author's input method producing decomposed Unicode.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

type contentParser struct {
	fileID source.FileID
	fs     *source.FileSet
	rep    diag.Reporter
	expr   *exprParser
	cur    *cursor
}

func (p *contentParser) span(start, end uint32) source.Span {
	return p.fs.MakeSpan(p.fileID, start, end)
}

// peekChildIndent returns the indentation the next non-blank line would need
// to exceed in order to be treated as nested content, or -1 if no such
// line exists.
func (p *contentParser) peekChildIndent(parentIndent int) int {
	save := p.cur.pos
	defer func() { p.cur.pos = save }()
	for {
		ln, ok := p.cur.next()
		if !ok {
			return -1
		}
		if len(strings.TrimSpace(string(ln.text))) == 0 {
			continue
		}
		ind := rawIndent(ln.text)
		if ind <= parentIndent {
			return -1
		}
		return ind
	}
}

func rawIndent(text []byte) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}

// parseBlock consumes content lines at indentation >= minIndent, stopping
// at the first line dedented below minIndent (or EOF). depth tracks
// choice nesting for spec §4.4's depth checks.
func (p *contentParser) parseBlock(minIndent, depth int) []ast.ContentNode {
	var out []ast.ContentNode
	for {
		ln, ok := p.cur.peek()
		if !ok {
			return out
		}
		if len(strings.TrimSpace(string(ln.text))) == 0 {
			p.cur.next()
			continue
		}
		indent := indentOf(ln.text, p.fileID, ln, p.fs, p.rep)
		if indent < minIndent {
			return out
		}
		p.cur.next()
		text := string(trimTrailingSpace(ln.text[indent:]))
		sp := p.span(ln.start+u32(indent), ln.end)

		switch {
		case strings.HasPrefix(text, "// "):
			out = append(out, &ast.Comment{Base: ast.Base{Span: sp}, Text: strings.TrimPrefix(text, "// ")})

		case strings.HasPrefix(text, "rule ") && strings.HasSuffix(strings.TrimSpace(text), ":"):
			out = append(out, p.parseRule(text, sp, indent))

		case strings.HasPrefix(text, "### "):
			display := strings.TrimSpace(strings.TrimPrefix(text, "### "))
			auto := strings.HasSuffix(display, "(auto)")
			if auto {
				display = strings.TrimSpace(strings.TrimSuffix(display, "(auto)"))
			}
			out = append(out, &ast.PhaseHeading{Base: ast.Base{Span: sp}, DisplayName: normalizeText(display), Auto: auto})

		case strings.HasPrefix(text, "## "):
			out = append(out, &ast.SequenceHeading{Base: ast.Base{Span: sp}, Name: normalizeText(strings.TrimSpace(strings.TrimPrefix(text, "## ")))})

		case strings.HasPrefix(text, "# "):
			name := normalizeText(strings.TrimSpace(strings.TrimPrefix(text, "# ")))
			out = append(out, &ast.LocationHeading{Base: ast.Base{Span: sp}, DisplayName: name, LocationID: idgen.Slugify(name)})

		case strings.HasPrefix(text, "== "):
			name := strings.TrimSpace(text[3:])
			name = strings.TrimSuffix(strings.TrimSpace(name), "==")
			name = strings.TrimSpace(name)
			out = append(out, &ast.SectionLabel{Base: ast.Base{Span: sp}, Name: name})

		case strings.HasPrefix(text, "exit "):
			out = append(out, p.parseExit(text, sp, indent))

		case strings.HasPrefix(text, "-> "):
			out = append(out, p.parseJump(text, sp))

		case strings.HasPrefix(text, "* ") || strings.HasPrefix(text, "+ "):
			out = append(out, p.parseChoice(text, sp, indent, depth))

		case strings.HasPrefix(text, "?| "):
			out = append(out, p.parseOrBlock(text, sp, indent))

		case strings.HasPrefix(text, "? "):
			out = append(out, &ast.Condition{Base: ast.Base{Span: sp}, Expr: p.expr.parseCondition(strings.TrimPrefix(text, "? "), sp)})

		case strings.HasPrefix(text, "> "):
			out = append(out, &ast.Effect{Base: ast.Base{Span: sp}, Kind: p.expr.parseEffect(strings.TrimPrefix(text, "> "), sp)})

		case strings.HasPrefix(text, "! "):
			out = append(out, &ast.BlockedMessage{Base: ast.Base{Span: sp}, Text: normalizeText(strings.TrimPrefix(text, "! "))})

		case strings.HasPrefix(text, "["):
			out = append(out, p.parsePresence(text, sp))

		case strings.HasPrefix(text, "@"):
			out = append(out, p.parseSpeechOrStage(text, sp))

		default:
			out = append(out, &ast.Prose{Base: ast.Base{Span: sp}, Text: normalizeText(text)})
		}
	}
}

func (p *contentParser) parseExit(text string, sp source.Span, indent int) ast.ContentNode {
	rest := strings.TrimPrefix(text, "exit ")
	idx := strings.Index(rest, ":")
	if idx < 0 {
		diag.Error(p.rep, diag.ParseUnexpectedToken, sp, "expected \"exit <direction>: <destination>\"")
		return &ast.ErrorNode{Base: ast.Base{Span: sp}, Reason: "malformed exit declaration"}
	}
	dir := strings.TrimSpace(rest[:idx])
	dest := strings.TrimSpace(rest[idx+1:])
	ex := &ast.ExitDeclaration{Base: ast.Base{Span: sp}, Direction: dir, DestinationRaw: dest}

	// A guard condition and/or blocked message immediately follow an exit
	// declaration at the same indentation (they are not nested content).
	for {
		ln, ok := p.cur.peek()
		if !ok {
			break
		}
		if len(strings.TrimSpace(string(ln.text))) == 0 {
			break
		}
		li := indentOf(ln.text, p.fileID, ln, p.fs, p.rep)
		if li != indent {
			break
		}
		t := string(trimTrailingSpace(ln.text[li:]))
		csp := p.span(ln.start+u32(li), ln.end)
		switch {
		case strings.HasPrefix(t, "? "):
			p.cur.next()
			ex.ConditionRef = p.expr.parseCondition(strings.TrimPrefix(t, "? "), csp)
		case strings.HasPrefix(t, "! "):
			p.cur.next()
			ex.BlockedMessageRef = &ast.BlockedMessage{Base: ast.Base{Span: csp}, Text: normalizeText(strings.TrimPrefix(t, "! "))}
		default:
			return ex
		}
	}
	return ex
}

func (p *contentParser) parseJump(text string, sp source.Span) *ast.Jump {
	target := strings.TrimSpace(strings.TrimPrefix(text, "-> "))
	isExit := strings.HasPrefix(target, "exit:")
	if isExit {
		target = strings.TrimPrefix(target, "exit:")
	}
	isEntity := strings.HasPrefix(target, "@")
	target = strings.TrimPrefix(target, "@")
	return &ast.Jump{Base: ast.Base{Span: sp}, Target: target, IsExitQualified: isExit, IsEntityRef: isEntity}
}

func (p *contentParser) parseChoice(text string, sp source.Span, indent, depth int) *ast.Choice {
	sticky := strings.HasPrefix(text, "+ ")
	label := strings.TrimSpace(text[2:])
	ch := &ast.Choice{Base: ast.Base{Span: sp}, Sticky: sticky, Label: normalizeText(label), Depth: depth + 1}

	childIndent := p.peekChildIndent(indent)
	if childIndent > 0 {
		ch.Content = p.parseBlock(childIndent, depth+1)
		for _, c := range ch.Content {
			j, ok := c.(*ast.Jump)
			if !ok || ch.Target != nil || ch.TargetType != nil {
				continue
			}
			raw := j.Target
			switch {
			case strings.HasPrefix(raw, "type:"):
				ref := ast.Ref{Raw: strings.TrimPrefix(raw, "type:")}
				ch.TargetType = &ref
			case j.IsEntityRef:
				ref := ast.Ref{Raw: raw}
				ch.Target = &ref
			}
			// a plain section-name or exit-qualified jump carries no action
			// target of its own — the embedded Jump node is still resolved
			// independently against sections/exits during LINK.
		}
	}
	if ch.Depth >= 4 {
		diag.Error(p.rep, diag.ValidateChoiceNestingTooDeep, sp, "choice nesting exceeds the maximum depth of 4")
	} else if ch.Depth == 3 {
		diag.Warning(p.rep, diag.ValidateChoiceNestingWarn, sp, "choice nesting is approaching the maximum depth")
	}
	return ch
}

func (p *contentParser) parseOrBlock(text string, sp source.Span, indent int) *ast.OrConditionBlock {
	block := &ast.OrConditionBlock{Base: ast.Base{Span: sp}}
	block.Conditions = append(block.Conditions, p.expr.parseCondition(strings.TrimPrefix(text, "?| "), sp))
	for {
		ln, ok := p.cur.peek()
		if !ok {
			break
		}
		if len(strings.TrimSpace(string(ln.text))) == 0 {
			break
		}
		li := indentOf(ln.text, p.fileID, ln, p.fs, p.rep)
		if li != indent {
			break
		}
		t := string(trimTrailingSpace(ln.text[li:]))
		if !strings.HasPrefix(t, "?| ") {
			break
		}
		p.cur.next()
		csp := p.span(ln.start+u32(li), ln.end)
		block.Conditions = append(block.Conditions, p.expr.parseCondition(strings.TrimPrefix(t, "?| "), csp))
	}
	return block
}

func (p *contentParser) parsePresence(text string, sp source.Span) ast.ContentNode {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	parts := strings.Split(inner, ",")
	var refs []ast.Ref
	for _, part := range parts {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "@"))
		if name == "" {
			continue
		}
		refs = append(refs, ast.Ref{Raw: name})
	}
	if len(refs) == 0 {
		diag.Error(p.rep, diag.ParseUnexpectedToken, sp, "empty presence block")
	}
	return &ast.EntityPresence{Base: ast.Base{Span: sp}, EntityRefs: refs}
}

func (p *contentParser) parseSpeechOrStage(text string, sp source.Span) ast.ContentNode {
	rest := strings.TrimPrefix(text, "@")
	if idx := strings.Index(rest, ":"); idx >= 0 {
		name := strings.TrimSpace(rest[:idx])
		speech := strings.TrimSpace(rest[idx+1:])
		return &ast.EntitySpeech{Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: name}, Text: normalizeText(speech)}
	}
	sp2 := strings.SplitN(rest, " ", 2)
	name := sp2[0]
	var body string
	if len(sp2) > 1 {
		body = sp2[1]
	}
	return &ast.StageDirection{Base: ast.Base{Span: sp}, EntityRef: ast.Ref{Raw: name}, Text: normalizeText(body)}
}

func (p *contentParser) parseRule(text string, sp source.Span, indent int) *ast.RuleBlock {
	name := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "rule ")), ":")
	rb := &ast.RuleBlock{Base: ast.Base{Span: sp}, Name: strings.TrimSpace(name)}

	childIndent := p.peekChildIndent(indent)
	if childIndent <= 0 {
		return rb
	}
	for {
		ln, ok := p.cur.peek()
		if !ok {
			break
		}
		if len(strings.TrimSpace(string(ln.text))) == 0 {
			p.cur.next()
			continue
		}
		li := indentOf(ln.text, p.fileID, ln, p.fs, p.rep)
		if li < childIndent {
			break
		}
		p.cur.next()
		t := string(trimTrailingSpace(ln.text[li:]))
		lsp := p.span(ln.start+u32(li), ln.end)
		idx := strings.Index(t, ":")
		if idx < 0 {
			diag.Error(p.rep, diag.ParseUnexpectedToken, lsp, "expected \"key: value\" inside rule block")
			continue
		}
		key := strings.TrimSpace(t[:idx])
		val := strings.TrimSpace(t[idx+1:])
		switch key {
		case "actor":
			rb.Actor = ast.Ref{Raw: strings.TrimPrefix(val, "@")}
		case "trigger":
			rb.Trigger = p.parseTrigger(val, lsp)
		case "select":
			rb.Select = p.parseSelect(val, lsp)
		case "where":
			rb.WhereClauses = append(rb.WhereClauses, p.expr.parseCondition(val, lsp))
		case "effect":
			rb.Effects = append(rb.Effects, p.expr.parseEffect(val, lsp))
		default:
			diag.Warning(p.rep, diag.ParseUnknownFrontmatterKey, lsp, "unrecognised key \""+key+"\" in rule block")
		}
	}
	return rb
}

func (p *contentParser) parseTrigger(val string, sp source.Span) ast.Trigger {
	fields := strings.SplitN(val, " ", 2)
	kind := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	switch kind {
	case "phase_is":
		return ast.Trigger{Kind: ast.TriggerPhaseIs, PhaseRef: ast.Ref{Raw: arg}}
	case "action":
		return ast.Trigger{Kind: ast.TriggerAction, ActionRef: ast.Ref{Raw: arg}}
	case "enter":
		return ast.Trigger{Kind: ast.TriggerEnter, LocationRef: ast.Ref{Raw: arg}}
	case "state_change":
		ent, prop, _ := splitEntityProp(arg)
		return ast.Trigger{Kind: ast.TriggerStateChange, StateEntityRef: ast.Ref{Raw: strings.TrimPrefix(ent, "@")}, StateProperty: prop}
	case "always":
		return ast.Trigger{Kind: ast.TriggerAlways}
	}
	diag.Error(p.rep, diag.ParseUnexpectedToken, sp, "unrecognised trigger \""+val+"\"")
	return ast.Trigger{Kind: ast.TriggerAlways}
}

func (p *contentParser) parseSelect(val string, sp source.Span) *ast.SelectClause {
	fromIdx := strings.Index(val, " from ")
	if fromIdx < 0 {
		diag.Error(p.rep, diag.ParseUnexpectedToken, sp, "expected \"select: var from @a, @b\"")
		return &ast.SelectClause{Base: ast.Base{Span: sp}}
	}
	variable := strings.TrimSpace(val[:fromIdx])
	rest := val[fromIdx+len(" from "):]
	whereIdx := strings.Index(rest, " where ")
	fromPart := rest
	var wherePart string
	if whereIdx >= 0 {
		fromPart = rest[:whereIdx]
		wherePart = rest[whereIdx+len(" where "):]
	}
	sc := &ast.SelectClause{Base: ast.Base{Span: sp}, Variable: variable}
	for _, tok := range strings.Split(fromPart, ",") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tok), "@"))
		if name != "" {
			sc.From = append(sc.From, ast.Ref{Raw: name})
		}
	}
	if wherePart != "" {
		for _, clause := range strings.Split(wherePart, " and ") {
			sc.Where = append(sc.Where, p.expr.parseCondition(strings.TrimSpace(clause), sp))
		}
	}
	return sc
}
