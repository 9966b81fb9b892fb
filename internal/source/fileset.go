package source

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// File holds the content and derived line index of one registered source
// file. NormalizedPath is the IMPORT-phase normalised form (forward
// slashes, relative to the entry directory).
type File struct {
	ID             FileID
	NormalizedPath string
	Content        []byte
	lineStarts     []uint32 // byte offset of the first byte of each line
}

// LineCount reports how many lines the file has (always >= 1).
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Line returns the raw bytes of a 1-indexed line, excluding its terminator.
func (f *File) Line(line uint32) []byte {
	if line < 1 || int(line) > len(f.lineStarts) {
		return nil
	}
	start := f.lineStarts[line-1]
	var end uint32
	if int(line) == len(f.lineStarts) {
		end = u32(len(f.Content))
	} else {
		end = f.lineStarts[line]
	}
	raw := f.Content[start:end]
	raw = bytes.TrimRight(raw, "\r\n")
	return raw
}

// u32 converts a non-negative int to uint32, panicking on overflow. Source
// files are capped at 1MB (spec §4.1 URD103) so this never fires in
// practice; it exists to make every narrowing cast's conversion site
// explicit via safecast.Conv instead of a silent int-to-uint32 truncation.
func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source: value overflows uint32: %w", err))
	}
	return v
}

// FileSet owns every file registered during one compile() invocation.
type FileSet struct {
	files []*File
}

// NewFileSet creates an empty set.
func NewFileSet() *FileSet {
	return &FileSet{files: make([]*File, 1, 8)} // index 0 reserved for NoFile
}

// Add registers file content under a normalised path and returns its ID.
func (fs *FileSet) Add(normalizedPath string, content []byte) FileID {
	idx, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set exceeds FileID range: %w", err))
	}
	id := FileID(idx)
	f := &File{ID: id, NormalizedPath: normalizedPath, Content: content}
	f.lineStarts = computeLineStarts(content)
	fs.files = append(fs.files, f)
	return id
}

// Get returns the file for id, or nil if id is out of range.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFile || int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Text returns the bytes covered by span.
func (fs *FileSet) Text(span Span) []byte {
	f := fs.Get(span.File)
	if f == nil || span.EndByte > u32(len(f.Content)) {
		return nil
	}
	return f.Content[span.StartByte:span.EndByte]
}

func computeLineStarts(content []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, u32(i+1))
		}
	}
	return starts
}

// MakeSpan builds a Span from byte offsets, deriving line/column via the
// file's line index.
func (fs *FileSet) MakeSpan(file FileID, startByte, endByte uint32) Span {
	f := fs.Get(file)
	if f == nil {
		return Span{File: file, StartByte: startByte, EndByte: endByte}
	}
	sl, sc := f.lineCol(startByte)
	el, ec := f.lineCol(endByte)
	return Span{File: file, StartByte: startByte, EndByte: endByte, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

func (f *File) lineCol(byteOff uint32) (line, col uint32) {
	// binary search over lineStarts for the last start <= byteOff
	lo, hi := 0, len(f.lineStarts)-1
	idx := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if f.lineStarts[mid] <= byteOff {
			idx = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line = u32(idx + 1)
	col = byteOff - f.lineStarts[idx] + 1
	return line, col
}

func (f *File) String() string {
	return fmt.Sprintf("File(%s, %d lines)", f.NormalizedPath, len(f.lineStarts))
}
