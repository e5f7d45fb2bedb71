package tui

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jsonpad/jsonpad/internal/editor"
	"github.com/jsonpad/jsonpad/internal/syntax"
)

// insertString types text at the caret, replacing the selection first.
func (m *model) insertString(s string) {
	m.deleteSelection()
	m.buf.Insert(m.caret, s)
	m.caret += len(s)
	m.desiredCol = -1
	m.afterEdit()
}

// deleteSelection removes the primary selection if one is active and
// leaves the caret at its start.
func (m *model) deleteSelection() bool {
	if m.selStart < 0 || m.selEnd <= m.selStart {
		return false
	}
	start, end := m.selStart, m.selEnd
	m.buf.Replace(start, m.buf.Text()[start:end], "")
	m.caret = start
	m.selStart, m.selEnd = -1, -1
	return true
}

func (m *model) backspace() {
	if m.deleteSelection() {
		m.afterEdit()
		return
	}
	if m.caret == 0 {
		return
	}
	_, n := lastRune(m.buf.Text()[:m.caret])
	m.buf.Delete(m.caret-n, n)
	m.caret -= n
	m.desiredCol = -1
	m.afterEdit()
}

func (m *model) deleteForward() {
	if m.deleteSelection() {
		m.afterEdit()
		return
	}
	if m.caret >= m.buf.Len() {
		return
	}
	_, n := utf8.DecodeRuneInString(m.buf.Text()[m.caret:])
	m.buf.Delete(m.caret, n)
	m.afterEdit()
}

func (m *model) newline() {
	m.deleteSelection()
	indent := m.buf.AutoIndent(m.caret)
	m.buf.Insert(m.caret, indent)
	m.caret += len(indent)
	m.desiredCol = -1
	m.afterEdit()
}

func (m *model) moveLeft() {
	if m.caret > 0 {
		_, n := lastRune(m.buf.Text()[:m.caret])
		m.caret -= n
	}
	m.desiredCol = -1
	m.afterMove()
}

func (m *model) moveRight() {
	if m.caret < m.buf.Len() {
		_, n := utf8.DecodeRuneInString(m.buf.Text()[m.caret:])
		m.caret += n
	}
	m.desiredCol = -1
	m.afterMove()
}

func (m *model) moveVert(delta int) {
	line, _ := m.buf.OffsetToLineCol(m.caret)
	if m.desiredCol < 0 {
		m.desiredCol = m.caretRuneCol()
	}
	line += delta
	if line < 0 {
		line = 0
	}
	if line >= m.buf.LineCount() {
		line = m.buf.LineCount() - 1
	}
	m.caret = m.offsetForRuneCol(line, m.desiredCol)
	m.afterMove()
}

func (m *model) moveHome() {
	line, _ := m.buf.OffsetToLineCol(m.caret)
	m.caret = m.buf.LineStart(line)
	m.desiredCol = -1
	m.afterMove()
}

func (m *model) moveEnd() {
	line, _ := m.buf.OffsetToLineCol(m.caret)
	m.caret = m.buf.LineColToOffset(line, 1<<30)
	m.desiredCol = -1
	m.afterMove()
}

func (m *model) afterMove() {
	m.selStart, m.selEnd = -1, -1
	m.ensureVisible()
	m.syncOutlineToCaret()
}

// caretRuneCol returns the caret column in runes on its line.
func (m *model) caretRuneCol() int {
	line, byteCol := m.buf.OffsetToLineCol(m.caret)
	start := m.buf.LineStart(line)
	return utf8.RuneCountInString(m.buf.Text()[start : start+byteCol])
}

// offsetForRuneCol converts a (line, rune column) position to a byte
// offset, clamping to the line length.
func (m *model) offsetForRuneCol(line, runeCol int) int {
	start := m.buf.LineStart(line)
	text := m.buf.Text()
	off := start
	for runeCol > 0 && off < len(text) && text[off] != '\n' {
		_, n := utf8.DecodeRuneInString(text[off:])
		off += n
		runeCol--
	}
	return off
}

// offsetAt maps a screen cell in the editor pane to a buffer offset.
func (m *model) offsetAt(x, y int) int {
	line := m.viewTop + y
	if line >= m.buf.LineCount() {
		line = m.buf.LineCount() - 1
	}
	if line < 0 {
		line = 0
	}
	col := x - m.gutterWidth()
	if !m.wrap {
		col += m.hscroll
	}
	if col < 0 {
		col = 0
	}
	return m.offsetForRuneCol(line, col)
}

// ensureVisible scrolls the viewport so the caret stays on screen.
// In large-document mode highlighting is viewport-restricted, so any
// vertical scroll schedules a fresh pass for the lines it exposed.
func (m *model) ensureVisible() {
	line, _ := m.buf.OffsetToLineCol(m.caret)
	h := m.editorHeight()
	top := m.viewTop
	if line < m.viewTop {
		m.viewTop = line
	}
	if line >= m.viewTop+h {
		m.viewTop = line - h + 1
	}
	if m.viewTop != top && m.buf.LargeDocument() {
		m.pending = append(m.pending, m.armHighlight())
	}
	if m.wrap {
		m.hscroll = 0
		return
	}
	col := m.caretRuneCol()
	w := m.contentWidth()
	if col < m.hscroll {
		m.hscroll = col
	}
	if col >= m.hscroll+w {
		m.hscroll = col - w + 1
	}
}

// caretToLineCol places the caret at a 1-based (line, col) position,
// as reported by parse errors.
func (m *model) caretToLineCol(line, col int) {
	m.caret = m.buf.LineColToOffset(line-1, col-1)
	m.desiredCol = -1
	m.ensureVisible()
}

// sortRegions orders classifier output by start offset so rendering can
// binary-search it. Regions never overlap.
func sortRegions(regions []syntax.Region) []syntax.Region {
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	return regions
}

// regionAt finds the classified region containing offset, if any.
func regionAt(regions []syntax.Region, offset int) (syntax.Region, bool) {
	i := sort.Search(len(regions), func(i int) bool {
		return regions[i].End > offset
	})
	if i < len(regions) && regions[i].Start <= offset {
		return regions[i], true
	}
	return syntax.Region{}, false
}

// foldOccurrences finds case-insensitive occurrences of word within
// [from, to), for the double-click secondary highlight.
func foldOccurrences(text, word string, from, to int) []editor.Span {
	if word == "" {
		return nil
	}
	var spans []editor.Span
	n := len(word)
	if to > len(text) {
		to = len(text)
	}
	for i := from; i+n <= to; {
		if strings.EqualFold(text[i:i+n], word) {
			spans = append(spans, editor.Span{Start: i, End: i + n})
			i += n
			continue
		}
		i++
	}
	return spans
}

func lastRune(s string) (rune, int) {
	return utf8.DecodeLastRuneInString(s)
}
