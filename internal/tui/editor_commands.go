package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/google/shlex"

	"github.com/jsonpad/jsonpad/internal/app"
	docmodel "github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/merge"
	"github.com/jsonpad/jsonpad/internal/plugin"
	"github.com/jsonpad/jsonpad/internal/schema"

	jsonata "github.com/blues/jsonata-go"
)

// execCommand runs one command-bar line. Unrecognized commands fall
// through to plugin tools-menu labels.
func (m *model) execCommand(line string) tea.Cmd {
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "open":
		if len(args) < 2 {
			return nil
		}
		return m.openFile(args[1])
	case "save":
		if len(args) > 1 {
			if m.doc == nil {
				m.doc = &app.Document{Origin: app.OriginObject}
			}
			m.doc.Path = args[1]
		}
		return m.doSave(false)
	case "export":
		if len(args) < 2 {
			return nil
		}
		return m.doExport(args[1])
	case "merge":
		if len(args) < 2 {
			return nil
		}
		return m.doMerge(args[1])
	case "validate":
		return m.doValidate()
	case "schema":
		if len(args) < 2 || args[1] == "off" {
			return m.unloadSchema()
		}
		return m.loadSchema(args[1])
	case "query":
		if len(args) < 2 {
			return nil
		}
		return m.doQuery(strings.Join(args[1:], " "))
	case "lang":
		if len(args) < 2 {
			return nil
		}
		return m.setLanguage(args[1])
	}

	for _, item := range m.plugins.MenuItems(plugin.SiteToolsMenu) {
		if item.Label == line || item.Label == args[0] {
			m.plugins.Invoke(item)
			return nil
		}
	}
	m.status = line + "?"
	return clearStatusAfter(2 * time.Second)
}

func (m *model) openFile(path string) tea.Cmd {
	doc, err := app.OpenPath(path)
	if err != nil {
		m.messageModal(m.tr("dialog.open-failed", nil), err.Error())
		if errors.Is(err, app.ErrUnknownFormat) {
			return m.setStatus("status.unknown-format", map[string]string{"path": path})
		}
		return m.setStatus("dialog.open-failed", nil)
	}
	m.doc = doc
	m.buf.Load(doc.Text)
	m.caret = 0
	m.viewTop = 0
	m.hscroll = 0
	m.desiredCol = -1
	m.selStart, m.selEnd = -1, -1
	m.occurrences = nil
	m.errorState = false
	m.find.Rescan()

	cmds := []tea.Cmd{m.armHighlight(), m.rebuildOutline()}
	if doc.Origin == app.OriginToken {
		m.plugins.Dispatch(plugin.EventTokenLoaded, path)
		cmds = append(cmds, m.setStatus("status.token-loaded", map[string]string{"path": path}))
	} else {
		cmds = append(cmds, m.setStatus("status.opened", map[string]string{"path": path}))
	}
	return tea.Batch(cmds...)
}

// doSave writes the document in place. Token-origin documents refuse;
// a non-parsing buffer asks before saving raw.
func (m *model) doSave(raw bool) tea.Cmd {
	if m.doc == nil || m.doc.Path == "" {
		return m.openCommandBar("save ")
	}
	if !m.doc.CanSave() {
		return m.setStatus("status.save-disabled-token", nil)
	}
	path := m.doc.Path
	if raw {
		if err := app.SaveRaw(path, m.buf.Text()); err != nil {
			m.messageModal(m.tr("dialog.save-failed", nil), err.Error())
			return nil
		}
		m.buf.MarkSaved()
		return m.setStatus("status.save-raw", map[string]string{"path": path})
	}
	err := app.Save(path, m.buf.Text())
	if errors.Is(err, app.ErrBufferNotParsing) {
		m.confirmModal(m.tr("dialog.save-raw-confirm", nil), func(m *model) tea.Cmd {
			return m.doSave(true)
		})
		return nil
	}
	if err != nil {
		m.messageModal(m.tr("dialog.save-failed", nil), err.Error())
		return nil
	}
	m.buf.MarkSaved()
	return m.setStatus("status.saved", map[string]string{"path": path})
}

// doExport writes the decoded payload (the buffer) verbatim to path.
// This is the save path for token-origin documents.
func (m *model) doExport(path string) tea.Cmd {
	if err := app.SaveRaw(path, m.buf.Text()); err != nil {
		m.messageModal(m.tr("dialog.save-failed", nil), err.Error())
		return nil
	}
	return m.setStatus("status.exported", map[string]string{"path": path})
}

// doMerge applies a patch file (object document or token) to the
// buffer. The merged result replaces the buffer as one undoable edit.
func (m *model) doMerge(path string) tea.Cmd {
	target, err := docmodel.Parse(m.buf.Text())
	if err != nil {
		m.messageModal(m.tr("dialog.merge-failed", nil), err.Error())
		return nil
	}
	patch, err := app.LoadPatch(path)
	if err != nil {
		m.messageModal(m.tr("dialog.merge-failed", nil), err.Error())
		return nil
	}
	stats := merge.Apply(target, patch)
	m.buf.Replace(0, m.buf.Text(), target.Pretty())
	m.clampCaret()
	m.afterEdit()
	m.pending = append(m.pending, m.rebuildOutline())
	app.Log.Infof("merge %s: %s", path, fmtStats(stats))
	return m.setStatus("status.merged", map[string]string{"path": path})
}

// doValidate parses the buffer and, when a schema is loaded, runs full
// schema validation. Failures move the caret to the reported position
// and put the frame into the error state.
func (m *model) doValidate() tea.Cmd {
	v, err := docmodel.Parse(m.buf.Text())
	if err != nil {
		m.errorState = true
		var serr *docmodel.SyntaxError
		if errors.As(err, &serr) {
			m.caretToLineCol(serr.Line, serr.Col)
			return m.setStatus("status.parse-error", map[string]string{
				"line": strconv.Itoa(serr.Line),
				"col":  strconv.Itoa(serr.Col),
			})
		}
		m.messageModal(m.tr("dialog.validate-failed", nil), err.Error())
		return nil
	}

	if m.schemaRaw != nil {
		res := schema.ValidateDocument(v.ToGo(), m.schemaRaw)
		switch res.Status {
		case schema.StatusInvalid:
			m.errorState = true
			return m.setStatus("status.schema-invalid", map[string]string{
				"message": res.Message,
			})
		case schema.StatusError:
			m.errorState = true
			m.messageModal(m.tr("dialog.validate-failed", nil), res.Message)
			return nil
		}
	}

	m.errorState = false
	m.pending = append(m.pending, m.rebuildOutline())
	return m.setStatus("status.valid", nil)
}

func (m *model) loadSchema(path string) tea.Cmd {
	doc, err := app.OpenPath(path)
	if err != nil {
		m.messageModal(m.tr("dialog.open-failed", nil), err.Error())
		return nil
	}
	v, perr := docmodel.Parse(doc.Text)
	if perr != nil {
		m.messageModal(m.tr("dialog.open-failed", nil), perr.Error())
		return nil
	}
	m.schemaPath = path
	m.schemaRaw = []byte(doc.Text)
	m.schemaDoc = v
	m.settings.LastSchemaPath = path
	m.saveSettings()
	return m.setStatus("status.schema-loaded", map[string]string{"path": path})
}

func (m *model) unloadSchema() tea.Cmd {
	m.schemaPath = ""
	m.schemaRaw = nil
	m.schemaDoc = nil
	m.settings.LastSchemaPath = ""
	m.saveSettings()
	return m.setStatus("status.schema-unloaded", nil)
}

// doQuery evaluates a jsonata expression against the parsed buffer and
// shows the result in a modal.
func (m *model) doQuery(expr string) tea.Cmd {
	v, err := docmodel.Parse(m.buf.Text())
	if err != nil {
		m.messageModal(m.tr("dialog.query-failed", nil), err.Error())
		return nil
	}
	e, err := jsonata.Compile(expr)
	if err != nil {
		m.messageModal(m.tr("dialog.query-failed", nil), err.Error())
		return nil
	}
	res, err := e.Eval(v.ToGo())
	if err != nil {
		m.messageModal(m.tr("dialog.query-failed", nil), err.Error())
		return nil
	}
	m.messageModal(expr, docmodel.FromGo(res).Pretty())
	return nil
}

func (m *model) setLanguage(code string) tea.Cmd {
	m.loc.SetLanguage(code)
	m.settings.Language = m.loc.Language()
	m.saveSettings()
	m.plugins.Dispatch(plugin.EventLanguageChanged, m.loc.Language())
	return m.setStatus("status.ready", nil)
}

// openContextMenu builds the context menu for a click site: schema enum
// suggestions for the word under the caret, copy path / copy value, and
// plugin-contributed items.
func (m *model) openContextMenu(x, y int, site plugin.Site) {
	var items []menuItem

	path := m.pathAtCaret()
	if site == plugin.SiteTextContextMenu && m.schemaDoc != nil && path != "" {
		if enum := schema.EnumAt(m.schemaDoc, path); enum != nil {
			start, end, _, ok := m.buf.WordAt(m.caret)
			for _, option := range enum {
				if option.Kind != docmodel.KindString || !ok {
					continue
				}
				val := option.Str
				s, e := start, end
				items = append(items, menuItem{
					label: val,
					run: func(m *model) tea.Cmd {
						m.buf.Replace(s, m.buf.Text()[s:e], val)
						m.caret = s + len(val)
						m.afterEdit()
						return nil
					},
				})
			}
		}
	}

	if path != "" {
		items = append(items, menuItem{
			label: m.tr("menu.copy-path", nil),
			run: func(m *model) tea.Cmd {
				return m.copyToClipboard(path)
			},
		})
		items = append(items, menuItem{
			label: m.tr("menu.copy-value", nil),
			run: func(m *model) tea.Cmd {
				v, err := docmodel.Parse(m.buf.Text())
				if err != nil {
					return nil
				}
				val := valueAtPath(v, path)
				if val == nil {
					return nil
				}
				return m.copyToClipboard(val.Compact())
			},
		})
	}

	for _, pi := range m.plugins.MenuItems(site) {
		item := pi
		items = append(items, menuItem{
			label: item.Label,
			run: func(m *model) tea.Cmd {
				m.plugins.Invoke(item)
				return nil
			},
		})
	}

	if len(items) == 0 {
		return
	}
	m.menu = &menuState{items: items, x: x, y: y}
}

func (m *model) copyToClipboard(s string) tea.Cmd {
	if err := clipboard.WriteAll(s); err != nil {
		app.Log.Warningf("clipboard: %v", err)
		return nil
	}
	return m.setStatus("status.copied", nil)
}

// pathAtCaret resolves the document path nearest the caret via the
// outline index.
func (m *model) pathAtCaret() string {
	if m.outIndex == nil {
		return ""
	}
	path, _, ok := m.outIndex.NearestAtOrBefore(m.caret)
	if !ok {
		return ""
	}
	return path
}

// valueAtPath walks a dotted, bracketed path ("a.b[3].c") through a
// parsed document.
func valueAtPath(v *docmodel.Value, path string) *docmodel.Value {
	if path == "" {
		return v
	}
	for _, comp := range strings.Split(path, ".") {
		key := comp
		var indices []int
		for strings.HasSuffix(key, "]") {
			open := strings.LastIndex(key, "[")
			if open < 0 {
				return nil
			}
			n, err := strconv.Atoi(key[open+1 : len(key)-1])
			if err != nil {
				return nil
			}
			indices = append([]int{n}, indices...)
			key = key[:open]
		}
		if key != "" {
			if !v.IsObject() {
				return nil
			}
			child, ok := v.Get(key)
			if !ok {
				return nil
			}
			v = child
		}
		for _, n := range indices {
			if v.Kind != docmodel.KindArray || n < 0 || n >= len(v.Arr) {
				return nil
			}
			v = v.Arr[n]
		}
	}
	return v
}

func (m *model) messageModal(title, body string) {
	vp := viewport.New(m.modalWidth(), m.modalHeight())
	vp.SetContent(body)
	m.modal = &modalState{title: title, body: vp}
}

func (m *model) confirmModal(title string, onYes func(*model) tea.Cmd) {
	vp := viewport.New(m.modalWidth(), 1)
	vp.SetContent("")
	m.modal = &modalState{title: title, body: vp, confirm: true, onYes: onYes}
}

func (m *model) modalWidth() int {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *model) modalHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	if h > 30 {
		h = 30
	}
	return h
}

// fmtStats renders merge stats for the log line.
func fmtStats(st merge.Stats) string {
	return fmt.Sprintf("assigned=%d recursed=%d appended=%d overwritten=%d",
		st.Assigned, st.Recursed, st.Appended, st.Overwritten)
}
