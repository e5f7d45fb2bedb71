// Package tui implements the interactive editor: a bubbletea model
// over the document buffer with an outline side panel, find/replace,
// a command bar, context menus, and the plugin runtime attached.
package tui

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/editor"
	"github.com/jsonpad/jsonpad/internal/locale"
	docmodel "github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/outline"
	"github.com/jsonpad/jsonpad/internal/plugin"
	"github.com/jsonpad/jsonpad/internal/syntax"
)

// Debounce delays between the last edit and a highlight pass.
const (
	highlightDelay      = 400 * time.Millisecond
	highlightDelayLarge = 800 * time.Millisecond

	doubleClickWindow = 400 * time.Millisecond
)

// bar identifies which input bar owns the keyboard.
type bar int

const (
	barNone bar = iota
	barFind
	barReplace
	barCommand
)

type model struct {
	width  int
	height int

	doc      *app.Document
	buf      *editor.Buffer
	settings *app.Settings
	loc      *locale.Table
	plugins  *plugin.Runtime

	caret      int // byte offset into the buffer
	desiredCol int // rune column kept across vertical movement
	viewTop    int // first visible buffer line
	hscroll    int // first visible rune column, wrap off only
	wrap       bool

	selStart, selEnd int           // primary selection, -1 when none
	occurrences      []editor.Span // double-click word highlight

	// find/replace/command bars
	activeBar    bar
	findInput    textinput.Model
	replaceInput textinput.Model
	cmdInput     textinput.Model
	focusReplace bool
	find         *editor.Find

	// debounced syntax highlight
	highlightGen  int
	regions       []syntax.Region
	lastHighlight editor.Span // range the previous pass covered

	// outline panel
	outlineOn    bool
	outlineFocus bool
	outlineTop   int
	outState     *outline.State
	outIndex     *outline.Index
	builder      *outline.Builder
	outlineGen   int

	// schema assist
	schemaPath string
	schemaRaw  []byte
	schemaDoc  *docmodel.Value

	menu  *menuState
	modal *modalState

	status     string
	errorState bool // set by a failed validate, cleared by success or load

	lastClick   time.Time
	lastClickX  int
	lastClickY  int
	uiReadySent bool

	// commands produced outside the Update return path, e.g. by plugin
	// callbacks editing the buffer; drained at the end of each Update.
	pending []tea.Cmd
}

type menuItem struct {
	label string
	run   func(*model) tea.Cmd
}

// menuState is the context menu: a small vertical list anchored where
// the right click landed.
type menuState struct {
	items  []menuItem
	cursor int
	x, y   int
}

// modalState is a centered message or confirm box. Long bodies scroll
// through the viewport.
type modalState struct {
	title   string
	body    viewport.Model
	confirm bool
	onYes   func(*model) tea.Cmd
}

type (
	uiReadyMsg       struct{}
	clearStatusMsg   struct{}
	highlightTickMsg struct{ gen int }
	outlineStepMsg   struct{ gen int }
)

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func newModel(settings *app.Settings, loc *locale.Table) *model {
	fi := textinput.New()
	fi.Prompt = ""
	fi.CharLimit = 256
	ri := textinput.New()
	ri.Prompt = ""
	ri.CharLimit = 256
	ci := textinput.New()
	ci.Prompt = ": "
	ci.CharLimit = 1024

	buf := editor.NewBuffer()
	return &model{
		buf:          buf,
		settings:     settings,
		loc:          loc,
		findInput:    fi,
		replaceInput: ri,
		cmdInput:     ci,
		find:         editor.NewFind(buf),
		selStart:     -1,
		selEnd:       -1,
		outlineOn:    true,
	}
}

// Run starts the editor, optionally opening path first. lang overrides
// the persisted language for this session.
func Run(path, lang string) error {
	app.InitLogging()

	spath, err := app.SettingsPath()
	if err != nil {
		app.Log.Warningf("settings path: %v", err)
	}
	settings := app.LoadSettings(spath)
	if lang != "" {
		settings.Language = lang
	}
	loc := locale.Load(settings.Language)

	m := newModel(settings, loc)
	m.plugins = plugin.New(m, app.Version)
	for _, dir := range pluginDirs() {
		if _, err := os.Stat(dir); err == nil {
			m.plugins.Load(dir)
		}
	}

	if settings.LastSchemaPath != "" {
		m.loadSchema(settings.LastSchemaPath)
	}
	if path != "" {
		m.openFile(path)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// pluginDirs lists the plugin search roots: next to the binary and in
// the user config directory.
func pluginDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "plugins"))
	}
	if base, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(base, "jsonpad", "plugins"))
	}
	return dirs
}

func (m *model) Init() tea.Cmd {
	return func() tea.Msg { return uiReadyMsg{} }
}

// editorHeight is the number of rows the editor pane occupies.
func (m *model) editorHeight() int {
	h := m.height - 1 // status bar
	if m.activeBar != barNone {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// outlineWidth derives the panel width from the persisted zoom level.
func (m *model) outlineWidth() int {
	if !m.outlineOn {
		return 0
	}
	w := m.settings.ZoomLevel * 2
	if w > m.width/2 {
		w = m.width / 2
	}
	return w
}

// paneWidth is the editor pane width, gutter included.
func (m *model) paneWidth() int {
	w := m.width - m.outlineWidth()
	if w < 1 {
		w = 1
	}
	return w
}

// gutterWidth is the line-number column width.
func (m *model) gutterWidth() int {
	digits := 1
	for n := m.buf.LineCount(); n >= 10; n /= 10 {
		digits++
	}
	return digits + 1
}

// contentWidth is the space available for buffer text.
func (m *model) contentWidth() int {
	w := m.paneWidth() - m.gutterWidth()
	if w < 1 {
		w = 1
	}
	return w
}

func (m *model) tr(key string, params map[string]string) string {
	return m.loc.T(key, params)
}

func (m *model) setStatus(key string, params map[string]string) tea.Cmd {
	m.status = m.tr(key, params)
	return clearStatusAfter(4 * time.Second)
}

// Plugin controller surface.

func (m *model) BufferText() string { return m.buf.Text() }

// SetBufferText replaces the whole buffer as a single undoable edit.
func (m *model) SetBufferText(s string) {
	m.buf.Replace(0, m.buf.Text(), s)
	m.clampCaret()
	m.afterEdit()
}

func (m *model) InsertText(s string) {
	m.deleteSelection()
	m.buf.Insert(m.caret, s)
	m.caret += len(s)
	m.afterEdit()
}

func (m *model) StatusMessage(s string) { m.status = s }

func (m *model) CurrentLanguage() string { return m.loc.Language() }

func (m *model) Translate(key string) string { return m.loc.T(key, nil) }

func (m *model) RegisterLocale(lang string, entries map[string]string) []string {
	return m.loc.Merge(lang, entries)
}

func (m *model) RemoveLocale(lang string, keys []string) { m.loc.Remove(lang, keys) }

func (m *model) clampCaret() {
	if m.caret > m.buf.Len() {
		m.caret = m.buf.Len()
	}
	if m.caret < 0 {
		m.caret = 0
	}
}
