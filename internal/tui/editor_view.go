package tui

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsonpad/jsonpad/internal/editor"
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	editorBlock := strings.Join(m.renderEditorRows(), "\n")
	body := editorBlock
	if m.outlineOn {
		body = lipgloss.JoinHorizontal(lipgloss.Top, editorBlock, m.renderOutline())
	}

	if m.modal != nil {
		body = lipgloss.Place(m.width, m.editorHeight(), lipgloss.Center, lipgloss.Center,
			m.renderModal())
	} else if m.menu != nil {
		body = lipgloss.Place(m.width, m.editorHeight(), lipgloss.Center, lipgloss.Center,
			m.renderMenu())
	}

	parts := []string{body}
	if bar := m.renderBar(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.renderStatus())
	return strings.Join(parts, "\n")
}

// rowSpec addresses one screen row of the editor pane: a buffer line
// and the rune column it starts at (non-zero for wrap continuations).
type rowSpec struct {
	line      int
	startRune int
	first     bool // first row of its line, shows the line number
}

// buildRows lays out the visible screen rows for the current scroll
// position, wrap mode included.
func buildRows(lines []string, viewTop, height, contentWidth int, wrap bool, hscroll int) []rowSpec {
	var rows []rowSpec
	for li := viewTop; li < len(lines) && len(rows) < height; li++ {
		if !wrap {
			rows = append(rows, rowSpec{line: li, startRune: hscroll, first: true})
			continue
		}
		runes := utf8.RuneCountInString(lines[li])
		start := 0
		first := true
		for {
			rows = append(rows, rowSpec{line: li, startRune: start, first: first})
			first = false
			start += contentWidth
			if start >= runes || len(rows) >= height {
				break
			}
		}
	}
	return rows
}

func (m *model) renderEditorRows() []string {
	lines := m.buf.Lines()
	h := m.editorHeight()
	w := m.contentWidth()
	gw := m.gutterWidth()
	caretLine, _ := m.buf.OffsetToLineCol(m.caret)

	rows := buildRows(lines, m.viewTop, h, w, m.wrap, m.hscroll)
	out := make([]string, 0, h)
	for _, r := range rows {
		gutter := strings.Repeat(" ", gw)
		if r.first {
			num := fmt.Sprintf("%*d ", gw-1, r.line+1)
			if r.line == caretLine {
				gutter = gutterCurStyle.Render(num)
			} else {
				gutter = gutterStyle.Render(num)
			}
		}
		out = append(out, gutter+m.renderLineWindow(lines[r.line], r.line, r.startRune, w))
	}
	for len(out) < h {
		out = append(out, gutterStyle.Render(strings.Repeat(" ", gw)))
	}
	return out
}

// renderLineWindow renders w runes of a buffer line starting at rune
// column start, applying syntax, match, selection, and caret styling.
func (m *model) renderLineWindow(line string, lineIdx, start, w int) string {
	lineStart := m.buf.LineStart(lineIdx)

	// Skip to the start column.
	off := 0
	for i := 0; i < start && off < len(line); i++ {
		_, n := utf8.DecodeRuneInString(line[off:])
		off += n
	}

	var b strings.Builder
	runClass := -1
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(classStyles[runClass].Render(run.String()))
			run.Reset()
		}
	}

	shown := 0
	for shown < w && off < len(line) {
		r, n := utf8.DecodeRuneInString(line[off:])
		cls := m.classAt(lineStart + off)
		if cls != runClass {
			flush()
			runClass = cls
		}
		run.WriteRune(r)
		off += n
		shown++
	}
	flush()

	// Caret sitting at end of line (on the newline or EOF).
	if m.caret == lineStart+len(line) && shown < w {
		col := utf8.RuneCountInString(line)
		if col >= start && col-start < w {
			b.WriteString(classStyles[classCaret].Render(" "))
			shown++
		}
	}
	if shown < w {
		b.WriteString(strings.Repeat(" ", w-shown))
	}
	return b.String()
}

// classAt resolves the highest-priority render class for a buffer
// offset.
func (m *model) classAt(off int) int {
	if off == m.caret {
		return classCaret
	}
	if m.selStart >= 0 && off >= m.selStart && off < m.selEnd {
		return classSelection
	}
	if m.activeBar == barFind || m.activeBar == barReplace {
		if cur, ok := m.find.Current(); ok && off >= cur.Start && off < cur.End {
			return classCurrentMatch
		}
		if spanContains(m.find.Matches(), off) {
			return classMatch
		}
	}
	if spanContains(m.occurrences, off) {
		return classOccurrence
	}
	if region, ok := regionAt(m.regions, off); ok {
		return kindClass(region.Kind)
	}
	return classDefault
}

// spanContains reports whether any sorted span covers offset.
func spanContains(spans []editor.Span, off int) bool {
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].End > off
	})
	return i < len(spans) && spans[i].Start <= off
}

func (m *model) renderOutline() string {
	w := m.outlineWidth() - 1 // border column
	if w < 1 {
		w = 1
	}
	h := m.editorHeight()

	title := m.tr("outline.title", nil)
	if m.builder != nil {
		title += " …"
	}
	rows := []string{panelTitleStyle.Render(truncate(title, w))}

	if m.outState != nil {
		visible := m.outState.Visible()
		selIdx := m.outState.SelectedIndex()
		for i := m.outlineTop; i < len(visible) && len(rows) < h; i++ {
			n := visible[i]
			marker := "  "
			if !n.IsLeaf() {
				if n.Expanded {
					marker = "- "
				} else {
					marker = "+ "
				}
			}
			label := strings.Repeat("  ", n.Depth) + marker + n.Label
			label = truncate(label, w)
			label += strings.Repeat(" ", w-runeLen(label))
			switch {
			case i == selIdx && m.outlineFocus:
				label = panelSelStyle.Render(label)
			case i == selIdx:
				label = panelDimStyle.Reverse(true).Render(label)
			}
			rows = append(rows, label)
		}
	}
	for len(rows) < h {
		rows = append(rows, strings.Repeat(" ", w))
	}
	return panelBorder.Render(strings.Join(rows, "\n"))
}

func (m *model) renderBar() string {
	switch m.activeBar {
	case barFind:
		counter := m.matchCounter()
		return barLabelStyle.Render(m.tr("find.prompt", nil)+": ") + m.findInput.View() + "  " + counter
	case barReplace:
		counter := m.matchCounter()
		return barLabelStyle.Render(m.tr("find.prompt", nil)+": ") + m.findInput.View() +
			barLabelStyle.Render("  "+m.tr("replace.prompt", nil)+": ") + m.replaceInput.View() +
			"  " + counter
	case barCommand:
		return m.cmdInput.View()
	}
	return ""
}

func (m *model) matchCounter() string {
	n := len(m.find.Matches())
	if n == 0 {
		return gutterStyle.Render(m.tr("status.no-matches", nil))
	}
	return gutterStyle.Render(fmt.Sprintf("%d/%d", m.find.CurrentIndex()+1, n))
}

func (m *model) renderStatus() string {
	name := "untitled"
	if m.doc != nil && m.doc.Path != "" {
		name = m.doc.Path
	}
	if m.doc != nil && m.doc.RawToken != "" {
		name += " [token]"
	}
	if m.buf.Dirty() {
		name += " *"
	}

	line, col := m.buf.OffsetToLineCol(m.caret)
	right := fmt.Sprintf(" %d:%d ", line+1, col+1)

	middle := m.status
	space := m.width - runeLen(name) - runeLen(right) - runeLen(middle) - 2
	if space < 1 {
		middle = truncate(middle, m.width-runeLen(name)-runeLen(right)-3)
		space = 1
	}
	bar := " " + name + " " + middle + strings.Repeat(" ", space) + right
	bar = truncate(bar, m.width)
	bar += strings.Repeat(" ", m.width-runeLen(bar))

	if m.errorState {
		return errorBarStyle.Render(bar)
	}
	return statusBarStyle.Render(bar)
}

func (m *model) renderModal() string {
	modal := m.modal
	var b strings.Builder
	b.WriteString(barLabelStyle.Render(modal.title))
	b.WriteString("\n\n")
	b.WriteString(modal.body.View())
	if modal.confirm {
		b.WriteString("\n\n")
		b.WriteString(gutterStyle.Render(m.tr("dialog.confirm-keys", nil)))
	}
	return boxStyle.Render(b.String())
}

func (m *model) renderMenu() string {
	var rows []string
	for i, item := range m.menu.items {
		label := " " + item.label + " "
		if i == m.menu.cursor {
			label = panelSelStyle.Render(label)
		}
		rows = append(rows, label)
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runeLen(s) <= w {
		return s
	}
	runes := []rune(s)
	if w == 1 {
		return string(runes[:1])
	}
	return string(runes[:w-1]) + "…"
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
