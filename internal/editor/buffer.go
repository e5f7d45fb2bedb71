// Package editor implements the text buffer underlying the document
// view: edits with undo/redo, dirty tracking, line arithmetic,
// auto-indent, and the find/replace engine.
package editor

import (
	"strings"
)

// Thresholds for large-document behavior, in buffer characters.
const (
	// HighlightThreshold enables viewport-restricted highlighting and
	// the longer debounce delay.
	HighlightThreshold = 300_000
	// PrettifyThreshold disables prettify-on-load.
	PrettifyThreshold = 800_000
)

const indentUnit = "  "

// editOp records a single edit for undo/redo support.
type editOp struct {
	offset  int
	oldText string
	newText string
}

// Buffer holds the mutable document text. All mutations flow through
// Replace so that undo history and the dirty flag stay consistent.
type Buffer struct {
	text      string
	savedText string
	undoStack []editOp
	redoStack []editOp
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Load replaces the whole content. This is the only path that loads a
// document: it resets undo history and clears the dirty flag.
func (b *Buffer) Load(text string) {
	b.text = text
	b.savedText = text
	b.undoStack = nil
	b.redoStack = nil
}

// Text returns the current content.
func (b *Buffer) Text() string { return b.text }

// Len returns the content length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Dirty reports whether the content differs from the last saved state.
func (b *Buffer) Dirty() bool { return b.text != b.savedText }

// MarkSaved clears the dirty flag at the current content.
func (b *Buffer) MarkSaved() { b.savedText = b.text }

// LargeDocument reports whether viewport-restricted highlighting and
// the longer debounce apply.
func (b *Buffer) LargeDocument() bool { return len(b.text) >= HighlightThreshold }

// Replace substitutes [offset, offset+len(oldText)) with newText,
// recording the edit for undo. oldText must match the current content.
func (b *Buffer) Replace(offset int, oldText, newText string) {
	b.undoStack = append(b.undoStack, editOp{offset: offset, oldText: oldText, newText: newText})
	b.redoStack = nil
	b.text = b.text[:offset] + newText + b.text[offset+len(oldText):]
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) {
	b.Replace(offset, "", text)
}

// Delete removes n bytes starting at offset.
func (b *Buffer) Delete(offset, n int) {
	if offset < 0 || offset >= len(b.text) {
		return
	}
	if offset+n > len(b.text) {
		n = len(b.text) - offset
	}
	b.Replace(offset, b.text[offset:offset+n], "")
}

// Undo reverses the last edit and returns the offset where it applied.
func (b *Buffer) Undo() (int, bool) {
	if len(b.undoStack) == 0 {
		return 0, false
	}
	op := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.text = b.text[:op.offset] + op.oldText + b.text[op.offset+len(op.newText):]
	b.redoStack = append(b.redoStack, op)
	return op.offset + len(op.oldText), true
}

// Redo reapplies the last undone edit.
func (b *Buffer) Redo() (int, bool) {
	if len(b.redoStack) == 0 {
		return 0, false
	}
	op := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.text = b.text[:op.offset] + op.newText + b.text[op.offset+len(op.oldText):]
	b.undoStack = append(b.undoStack, op)
	return op.offset + len(op.newText), true
}

// Lines returns the content split into lines, without terminators.
func (b *Buffer) Lines() []string { return strings.Split(b.text, "\n") }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return strings.Count(b.text, "\n") + 1 }

// LineStart returns the byte offset where the 0-based line begins.
func (b *Buffer) LineStart(line int) int {
	off := 0
	for line > 0 {
		i := strings.IndexByte(b.text[off:], '\n')
		if i < 0 {
			return len(b.text)
		}
		off += i + 1
		line--
	}
	return off
}

// OffsetToLineCol converts a byte offset to a 0-based (line, col) pair.
func (b *Buffer) OffsetToLineCol(offset int) (int, int) {
	if offset > len(b.text) {
		offset = len(b.text)
	}
	if offset < 0 {
		offset = 0
	}
	line := strings.Count(b.text[:offset], "\n")
	start := 0
	if i := strings.LastIndexByte(b.text[:offset], '\n'); i >= 0 {
		start = i + 1
	}
	return line, offset - start
}

// LineColToOffset converts a 0-based (line, col) pair to a byte offset,
// clamping col to the line length.
func (b *Buffer) LineColToOffset(line, col int) int {
	start := b.LineStart(line)
	end := start
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	if col > end-start {
		col = end - start
	}
	if col < 0 {
		col = 0
	}
	return start + col
}

// AutoIndent returns the text to insert for a newline typed at offset:
// the previous line's leading whitespace, plus one indent unit when the
// character immediately left of the caret opens a block.
func (b *Buffer) AutoIndent(offset int) string {
	line, _ := b.OffsetToLineCol(offset)
	start := b.LineStart(line)
	indent := leadingWhitespace(b.text[start:])
	if offset > 0 && (b.text[offset-1] == '{' || b.text[offset-1] == '[') {
		indent += indentUnit
	}
	return "\n" + indent
}

func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// WordAt returns the token spanning offset: a run of identifier-like
// characters (string literal bodies, numbers, keywords). ok is false on
// whitespace or punctuation.
func (b *Buffer) WordAt(offset int) (start, end int, token string, ok bool) {
	if offset < 0 || offset >= len(b.text) || !isTokenByte(b.text[offset]) {
		return 0, 0, "", false
	}
	start = offset
	for start > 0 && isTokenByte(b.text[start-1]) {
		start--
	}
	end = offset
	for end < len(b.text) && isTokenByte(b.text[end]) {
		end++
	}
	return start, end, b.text[start:end], true
}

func isTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.':
		return true
	case c >= 0x80: // part of a multi-byte rune
		return true
	}
	return false
}
