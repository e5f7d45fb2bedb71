package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpad/jsonpad/internal/plugin"
)

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if m.menu != nil {
		return m.handleMenuKey(msg)
	}

	// Bindings that apply regardless of focus.
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m.requestQuit()
	case "ctrl+s":
		return m.doSave(false)
	case "ctrl+f":
		return m.openFindBar(barFind)
	case "ctrl+h":
		return m.openFindBar(barReplace)
	case "ctrl+p":
		return m.openCommandBar("")
	case "ctrl+o":
		return m.openCommandBar("open ")
	case "ctrl+m":
		return m.openCommandBar("merge ")
	case "ctrl+t":
		return m.doValidate()
	case "ctrl+b":
		m.outlineOn = !m.outlineOn
		if m.outlineOn {
			return m.rebuildOutline()
		}
		m.outlineFocus = false
		return nil
	case "f2":
		m.wrap = !m.wrap
		m.hscroll = 0
		return nil
	case "f4":
		if m.outlineOn {
			m.outlineFocus = !m.outlineFocus
		}
		return nil
	}

	switch m.activeBar {
	case barFind, barReplace:
		return m.handleFindKey(msg)
	case barCommand:
		return m.handleCommandKey(msg)
	}

	if m.outlineFocus {
		return m.handleOutlineKey(msg)
	}
	return m.handleEditorKey(msg)
}

func (m *model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+z":
		if off, ok := m.buf.Undo(); ok {
			m.caret = off
			m.afterEdit()
		}
		return nil
	case "ctrl+y":
		if off, ok := m.buf.Redo(); ok {
			m.caret = off
			m.afterEdit()
		}
		return nil
	case "up":
		m.moveVert(-1)
		return nil
	case "down":
		m.moveVert(1)
		return nil
	case "left":
		m.moveLeft()
		return nil
	case "right":
		m.moveRight()
		return nil
	case "home":
		m.moveHome()
		return nil
	case "end":
		m.moveEnd()
		return nil
	case "pgup":
		m.moveVert(-m.editorHeight())
		return nil
	case "pgdown":
		m.moveVert(m.editorHeight())
		return nil
	case "enter":
		m.newline()
		return nil
	case "backspace":
		m.backspace()
		return nil
	case "delete":
		m.deleteForward()
		return nil
	case "tab":
		m.insertString("  ")
		return nil
	case "esc":
		m.selStart, m.selEnd = -1, -1
		m.occurrences = nil
		return nil
	}

	switch msg.Type {
	case tea.KeySpace:
		m.insertString(" ")
	case tea.KeyRunes:
		if !msg.Alt {
			m.insertString(string(msg.Runes))
		}
	}
	return nil
}

func (m *model) handleOutlineKey(msg tea.KeyMsg) tea.Cmd {
	if m.outState == nil {
		return nil
	}
	switch msg.String() {
	case "up":
		if m.outState.MoveUp() {
			m.scrollOutlineToSelection()
			m.jumpToOutlineSelection()
		}
	case "down":
		if m.outState.MoveDown() {
			m.scrollOutlineToSelection()
			m.jumpToOutlineSelection()
		}
	case "left":
		m.outState.Collapse()
		m.scrollOutlineToSelection()
	case "right":
		m.outState.Expand()
	case "enter", " ":
		m.outState.Toggle()
		m.jumpToOutlineSelection()
	case "esc":
		m.outlineFocus = false
	}
	return nil
}

func (m *model) openFindBar(which bar) tea.Cmd {
	m.activeBar = which
	m.focusReplace = false
	m.replaceInput.Blur()
	m.findInput.Placeholder = m.tr("find.prompt", nil)
	m.replaceInput.Placeholder = m.tr("replace.prompt", nil)
	// Seed the query from the primary selection.
	if m.selStart >= 0 && m.selEnd > m.selStart {
		m.findInput.SetValue(m.buf.Text()[m.selStart:m.selEnd])
	}
	m.find.SetQuery(m.findInput.Value())
	m.findInput.CursorEnd()
	return m.findInput.Focus()
}

func (m *model) closeBar() {
	m.activeBar = barNone
	m.findInput.Blur()
	m.replaceInput.Blur()
	m.cmdInput.Blur()
	m.focusReplace = false
}

func (m *model) handleFindKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeBar()
		return nil
	case "tab":
		if m.activeBar == barReplace {
			m.focusReplace = !m.focusReplace
			if m.focusReplace {
				m.findInput.Blur()
				return m.replaceInput.Focus()
			}
			m.replaceInput.Blur()
			return m.findInput.Focus()
		}
		return nil
	case "enter":
		if m.activeBar == barReplace && m.focusReplace {
			if m.find.ReplaceCurrent(m.replaceInput.Value()) {
				m.caretToCurrentMatch()
				m.afterEdit()
			}
			return nil
		}
		if span, ok := m.find.Next(); ok {
			m.caret = span.Start
			m.ensureVisible()
		}
		return nil
	case "shift+tab", "up":
		if span, ok := m.find.Prev(); ok {
			m.caret = span.Start
			m.ensureVisible()
		}
		return nil
	case "down":
		if span, ok := m.find.Next(); ok {
			m.caret = span.Start
			m.ensureVisible()
		}
		return nil
	case "ctrl+a":
		if m.activeBar == barReplace {
			n := m.find.ReplaceAll(m.replaceInput.Value())
			m.afterEdit()
			if n == 0 {
				return m.setStatus("status.no-matches", nil)
			}
			return m.setStatus("status.replaced", map[string]string{
				"count": strconv.Itoa(n),
			})
		}
		return nil
	}

	var cmd tea.Cmd
	if m.focusReplace {
		m.replaceInput, cmd = m.replaceInput.Update(msg)
		return cmd
	}
	before := m.findInput.Value()
	m.findInput, cmd = m.findInput.Update(msg)
	if q := m.findInput.Value(); q != before {
		m.find.SetQuery(q)
		m.caretToCurrentMatch()
	}
	return cmd
}

func (m *model) caretToCurrentMatch() {
	if span, ok := m.find.Current(); ok {
		m.caret = span.Start
		m.ensureVisible()
	}
}

func (m *model) openCommandBar(prefill string) tea.Cmd {
	m.activeBar = barCommand
	m.cmdInput.Placeholder = m.tr("command.prompt", nil)
	m.cmdInput.SetValue(prefill)
	m.cmdInput.CursorEnd()
	return m.cmdInput.Focus()
}

func (m *model) handleCommandKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeBar()
		return nil
	case "enter":
		line := m.cmdInput.Value()
		m.cmdInput.SetValue("")
		m.closeBar()
		return m.execCommand(line)
	}
	var cmd tea.Cmd
	m.cmdInput, cmd = m.cmdInput.Update(msg)
	return cmd
}

func (m *model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	menu := m.menu
	switch msg.String() {
	case "esc":
		m.menu = nil
	case "up":
		if menu.cursor > 0 {
			menu.cursor--
		}
	case "down":
		if menu.cursor < len(menu.items)-1 {
			menu.cursor++
		}
	case "enter":
		m.menu = nil
		if menu.cursor < len(menu.items) {
			return menu.items[menu.cursor].run(m)
		}
	}
	return nil
}

func (m *model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	modal := m.modal
	if modal.confirm {
		switch msg.String() {
		case "y", "Y", "enter":
			m.modal = nil
			if modal.onYes != nil {
				return modal.onYes(m)
			}
			return nil
		case "n", "N", "esc":
			m.modal = nil
			return nil
		}
		return nil
	}
	switch msg.String() {
	case "esc", "enter", "q":
		m.modal = nil
		return nil
	}
	var cmd tea.Cmd
	modal.body, cmd = modal.body.Update(msg)
	return cmd
}

func (m *model) requestQuit() tea.Cmd {
	if m.buf.Dirty() {
		m.confirmModal(m.tr("dialog.quit-unsaved", nil), func(m *model) tea.Cmd {
			return m.quit()
		})
		return nil
	}
	return m.quit()
}

func (m *model) quit() tea.Cmd {
	path := ""
	if m.doc != nil {
		path = m.doc.Path
	}
	m.plugins.Dispatch(plugin.EventFileClosed, path)
	return tea.Quit
}
