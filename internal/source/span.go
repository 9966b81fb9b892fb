// Package source holds the file and position model shared by every compiler
// phase: a Span names a byte range within one file's content; line and
// column are derived from it on demand via a FileSet.
package source

import "fmt"

// FileID identifies a registered source file within a FileSet.
type FileID uint32

// NoFile is the zero value, never assigned to a real file.
const NoFile FileID = 0

// Span is a contiguous byte range within one source file.
//
// Columns are byte offsets within the line, 1-indexed, per spec: the core
// never converts to UTF-16 offsets. Start/End are also kept as absolute
// byte offsets into the file content so spans can be merged and compared
// without re-walking the line index.
type Span struct {
	File      FileID
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	StartByte uint32
	EndByte   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool {
	return s.StartByte == s.EndByte
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Before orders spans by file then by start position, the ordering used
// throughout diagnostic sorting (spec §4.7).
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.StartLine != other.StartLine {
		return s.StartLine < other.StartLine
	}
	return s.StartCol < other.StartCol
}

// Cover returns the smallest span enclosing both s and other. Both spans
// must belong to the same file; otherwise s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	cov := s
	if other.StartByte < s.StartByte {
		cov.StartByte = other.StartByte
		cov.StartLine = other.StartLine
		cov.StartCol = other.StartCol
	}
	if other.EndByte > s.EndByte {
		cov.EndByte = other.EndByte
		cov.EndLine = other.EndLine
		cov.EndCol = other.EndCol
	}
	return cov
}
