// Package parser implements the PARSE phase (spec §4.1): turns one
// source file's bytes into a FileAst plus diagnostics. PARSE never
// inspects another file's content; imports are names only, resolved by
// internal/projectgraph.
//
// Concrete syntax. spec.md fixes the sigil set (§3.2) but leaves exact
// token grammar to the implementation; the grammar chosen here is
// recorded in DESIGN.md and is the one used by every fixture and
// end-to-end test in this repository.
package parser

import (
	"bytes"

	"github.com/urdwyrd/urdc/internal/diag"
	"github.com/urdwyrd/urdc/internal/source"
)

const (
	maxFileSize        = 1 << 20 // 1MB, URD103
	maxFrontmatterDepth = 8       // URD104
)

// line is one physical source line, with its byte range in the file.
type line struct {
	text       []byte // content, terminator stripped
	start, end uint32 // byte offsets of text[0] and the position after text[len-1]
	lineNo     uint32
}

// cursor walks the lines of a file, tracking the current index.
type cursor struct {
	lines []line
	pos   int
}

func splitLines(file *source.File) []line {
	content := file.Content
	out := make([]line, 0, file.LineCount())
	var offset uint32
	lineNo := uint32(1)
	for {
		idx := bytes.IndexByte(content[offset:], '\n')
		var raw []byte
		if idx < 0 {
			raw = content[offset:]
		} else {
			raw = content[offset : offset+u32(idx)]
		}
		raw = bytes.TrimSuffix(raw, []byte("\r"))
		out = append(out, line{text: raw, start: offset, end: offset + u32(len(raw)), lineNo: lineNo})
		if idx < 0 {
			break
		}
		offset = offset + u32(idx) + 1
		lineNo++
		if offset >= u32(len(content)) {
			break
		}
	}
	return out
}

func (c *cursor) peek() (line, bool) {
	if c.pos >= len(c.lines) {
		return line{}, false
	}
	return c.lines[c.pos], true
}

func (c *cursor) next() (line, bool) {
	l, ok := c.peek()
	if ok {
		c.pos++
	}
	return l, ok
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.lines) }

func u32(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// indentOf returns the number of leading space characters, and reports a
// tab-indentation diagnostic if any leading byte is a tab (URD102).
func indentOf(text []byte, fileID source.FileID, ln line, fs *source.FileSet, rep diag.Reporter) int {
	n := 0
	for n < len(text) {
		switch text[n] {
		case ' ':
			n++
			continue
		case '\t':
			sp := fs.MakeSpan(fileID, ln.start+u32(n), ln.start+u32(n)+1)
			diag.Error(rep, diag.ParseTabIndentation, sp, "tabs are not allowed for indentation; use spaces")
			n++
			continue
		}
		break
	}
	return n
}

func trimTrailingSpace(b []byte) []byte {
	return bytes.TrimRight(b, " \t")
}
