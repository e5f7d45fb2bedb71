package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/editor"
	docmodel "github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/outline"
	"github.com/jsonpad/jsonpad/internal/plugin"
	"github.com/jsonpad/jsonpad/internal/syntax"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		cmd = m.armHighlight()

	case uiReadyMsg:
		if !m.uiReadySent {
			m.uiReadySent = true
			m.plugins.Dispatch(plugin.EventUIReady, "")
			if m.status == "" {
				m.status = m.tr("status.ready", nil)
			}
		}
		cmd = m.armHighlight()

	case clearStatusMsg:
		m.status = ""

	case highlightTickMsg:
		if msg.gen == m.highlightGen {
			m.computeHighlight()
		}

	case outlineStepMsg:
		cmd = m.handleOutlineStep(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	if len(m.pending) > 0 {
		cmds := append(m.pending, cmd)
		m.pending = nil
		return m, tea.Batch(cmds...)
	}
	return m, cmd
}

// afterEdit runs after every buffer mutation: rescan matches, drop the
// word-occurrence highlight, orphan any in-flight outline build, and
// schedule a highlight pass.
func (m *model) afterEdit() {
	m.occurrences = nil
	m.selStart, m.selEnd = -1, -1
	if m.activeBar == barFind || m.activeBar == barReplace {
		m.find.Rescan()
	}
	m.builder = nil
	m.outlineGen++
	m.pending = append(m.pending, m.armHighlight())
	m.ensureVisible()
}

// armHighlight bumps the generation and schedules a debounced pass.
// Earlier ticks carry a stale generation and are ignored on arrival.
func (m *model) armHighlight() tea.Cmd {
	m.highlightGen++
	gen := m.highlightGen
	d := highlightDelay
	if m.buf.LargeDocument() {
		d = highlightDelayLarge
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return highlightTickMsg{gen}
	})
}

// computeHighlight classifies the whole document, or only the visible
// range when the buffer is past the highlight threshold. Replacing the
// region list clears whatever the previous pass covered.
func (m *model) computeHighlight() {
	from, to := 0, m.buf.Len()
	if m.buf.LargeDocument() {
		from, to = m.visibleByteRange()
	}
	m.regions = sortRegions(syntax.Classify(m.buf.Text(), from, to))
	m.lastHighlight = editor.Span{Start: from, End: to}
}

// visibleByteRange returns the byte span of the lines currently shown.
func (m *model) visibleByteRange() (int, int) {
	from := m.buf.LineStart(m.viewTop)
	last := m.viewTop + m.editorHeight()
	if last >= m.buf.LineCount() {
		return from, m.buf.Len()
	}
	return from, m.buf.LineStart(last)
}

// rebuildOutline starts an outline build for the current buffer. Small
// documents build synchronously; large ones go through the batched
// builder driven by self-re-arming messages.
func (m *model) rebuildOutline() tea.Cmd {
	if !m.outlineOn {
		return nil
	}
	v, err := docmodel.Parse(m.buf.Text())
	if err != nil {
		return nil // keep the previous outline
	}
	m.builder = nil
	m.outlineGen++
	if !m.buf.LargeDocument() {
		root, index := outline.Build(v, m.buf.Text())
		m.outState = outline.NewState(root)
		m.outIndex = index
		m.outlineTop = 0
		return nil
	}
	m.builder = outline.NewBuilder(v, m.buf.Text())
	gen := m.outlineGen
	return func() tea.Msg { return outlineStepMsg{gen} }
}

func (m *model) handleOutlineStep(msg outlineStepMsg) tea.Cmd {
	if msg.gen != m.outlineGen || m.builder == nil {
		return nil // orphaned chain
	}
	if m.builder.Step(outline.DefaultBatchSize) {
		m.outState = outline.NewState(m.builder.Root())
		m.outIndex = m.builder.Index()
		m.outlineTop = 0
		m.builder = nil
		return nil
	}
	gen := msg.gen
	return func() tea.Msg { return outlineStepMsg{gen} }
}

// syncOutlineToCaret selects the outline node nearest the caret.
func (m *model) syncOutlineToCaret() {
	if !m.outlineOn || m.outIndex == nil || m.outState == nil {
		return
	}
	if path, _, ok := m.outIndex.NearestAtOrBefore(m.caret); ok {
		m.outState.SelectByPath(path)
		m.scrollOutlineToSelection()
	}
}

// jumpToOutlineSelection moves the caret to the selected outline node.
func (m *model) jumpToOutlineSelection() {
	if m.outState == nil || m.outIndex == nil {
		return
	}
	sel := m.outState.Selected()
	if sel == nil {
		return
	}
	if pos, ok := m.outIndex.Lookup(sel.Path); ok {
		m.caret = pos.Offset
		m.desiredCol = -1
		m.ensureVisible()
	}
}

func (m *model) scrollOutlineToSelection() {
	if m.outState == nil {
		return
	}
	idx := m.outState.SelectedIndex()
	if idx < 0 {
		return
	}
	h := m.editorHeight() - 1 // panel title row
	if h < 1 {
		h = 1
	}
	if idx < m.outlineTop {
		m.outlineTop = idx
	}
	if idx >= m.outlineTop+h {
		m.outlineTop = idx - h + 1
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.modal != nil {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.settings.ZoomIn()
			m.saveSettings()
			return nil
		}
		if msg.Shift {
			m.hscroll -= 4
			if m.hscroll < 0 {
				m.hscroll = 0
			}
			return nil
		}
		return m.scrollBy(-3)
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.settings.ZoomOut()
			m.saveSettings()
			return nil
		}
		if msg.Shift {
			m.hscroll += 4
			return nil
		}
		return m.scrollBy(3)
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	inOutline := m.outlineOn && msg.X >= m.paneWidth()

	switch msg.Button {
	case tea.MouseButtonLeft:
		m.menu = nil
		if inOutline {
			m.outlineFocus = true
			m.outlineClick(msg.Y)
			return nil
		}
		m.outlineFocus = false
		double := time.Since(m.lastClick) < doubleClickWindow &&
			msg.X == m.lastClickX && msg.Y == m.lastClickY
		m.lastClick = time.Now()
		m.lastClickX, m.lastClickY = msg.X, msg.Y
		m.caret = m.offsetAt(msg.X, msg.Y)
		m.desiredCol = -1
		if double {
			m.selectWordAtCaret()
		} else {
			m.selStart, m.selEnd = -1, -1
			m.occurrences = nil
		}
		m.syncOutlineToCaret()
		return nil

	case tea.MouseButtonRight:
		if inOutline {
			m.openContextMenu(msg.X, msg.Y, plugin.SiteOutlineContextMenu)
		} else {
			m.caret = m.offsetAt(msg.X, msg.Y)
			m.openContextMenu(msg.X, msg.Y, plugin.SiteTextContextMenu)
		}
		return nil
	}
	return nil
}

func (m *model) scrollBy(lines int) tea.Cmd {
	m.viewTop += lines
	max := m.buf.LineCount() - 1
	if m.viewTop > max {
		m.viewTop = max
	}
	if m.viewTop < 0 {
		m.viewTop = 0
	}
	if m.buf.LargeDocument() {
		return m.armHighlight()
	}
	return nil
}

func (m *model) outlineClick(y int) {
	if m.outState == nil {
		return
	}
	idx := m.outlineTop + y - 1 // title row
	visible := m.outState.Visible()
	if idx < 0 || idx >= len(visible) {
		return
	}
	m.outState.SelectByPath(visible[idx].Path)
	m.outState.Toggle()
	m.jumpToOutlineSelection()
}

// selectWordAtCaret implements double-click selection: the token under
// the caret becomes the primary selection and its other occurrences in
// the visible range get a secondary highlight.
func (m *model) selectWordAtCaret() {
	start, end, word, ok := m.buf.WordAt(m.caret)
	if !ok {
		return
	}
	m.selStart, m.selEnd = start, end
	from, to := m.visibleByteRange()
	m.occurrences = foldOccurrences(m.buf.Text(), word, from, to)
}

func (m *model) saveSettings() {
	if err := m.settings.Save(); err != nil {
		app.Log.Warningf("settings: save: %v", err)
	}
}
