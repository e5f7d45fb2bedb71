package tui

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/editor"
	"github.com/jsonpad/jsonpad/internal/locale"
	docmodel "github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/outline"
	"github.com/jsonpad/jsonpad/internal/syntax"
)

func TestBuildRowsNoWrap(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}
	rows := buildRows(lines, 1, 2, 80, false, 5)
	want := []rowSpec{
		{line: 1, startRune: 5, first: true},
		{line: 2, startRune: 5, first: true},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("buildRows = %+v, want %+v", rows, want)
	}
}

func TestBuildRowsWrap(t *testing.T) {
	lines := []string{"abcdefghij", "xy"}
	rows := buildRows(lines, 0, 10, 4, true, 0)
	want := []rowSpec{
		{line: 0, startRune: 0, first: true},
		{line: 0, startRune: 4},
		{line: 0, startRune: 8},
		{line: 1, startRune: 0, first: true},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("buildRows = %+v, want %+v", rows, want)
	}
}

func TestBuildRowsWrapHeightClamp(t *testing.T) {
	lines := []string{"abcdefghij"}
	rows := buildRows(lines, 0, 2, 4, true, 0)
	if len(rows) != 2 {
		t.Errorf("got %d rows, want height-clamped 2", len(rows))
	}
}

func TestFoldOccurrences(t *testing.T) {
	text := `{"name": "foo", "other": "FOO", "x": "prefoofix"}`
	spans := foldOccurrences(text, "foo", 0, len(text))
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3: %+v", len(spans), spans)
	}
	for _, s := range spans {
		if got := text[s.Start:s.End]; len(got) != 3 {
			t.Errorf("span %v covers %q", s, got)
		}
	}
}

func TestFoldOccurrencesRangeRestricted(t *testing.T) {
	text := "foo foo foo"
	spans := foldOccurrences(text, "foo", 4, 8)
	if len(spans) != 1 || spans[0].Start != 4 {
		t.Errorf("spans = %+v, want only the middle occurrence", spans)
	}
}

func TestRegionAt(t *testing.T) {
	regions := sortRegions([]syntax.Region{
		{Kind: syntax.KindNumber, Start: 10, End: 12},
		{Kind: syntax.KindKey, Start: 0, End: 5},
	})
	if r, ok := regionAt(regions, 3); !ok || r.Kind != syntax.KindKey {
		t.Errorf("regionAt(3) = %+v, %v", r, ok)
	}
	if r, ok := regionAt(regions, 11); !ok || r.Kind != syntax.KindNumber {
		t.Errorf("regionAt(11) = %+v, %v", r, ok)
	}
	if _, ok := regionAt(regions, 7); ok {
		t.Error("regionAt(7) found a region in a gap")
	}
	if _, ok := regionAt(regions, 12); ok {
		t.Error("regionAt(12) matched past a half-open end")
	}
}

func TestSpanContains(t *testing.T) {
	spans := []editor.Span{{Start: 2, End: 4}, {Start: 8, End: 10}}
	for off, want := range map[int]bool{1: false, 2: true, 3: true, 4: false, 9: true, 10: false} {
		if got := spanContains(spans, off); got != want {
			t.Errorf("spanContains(%d) = %v, want %v", off, got, want)
		}
	}
}

func TestValueAtPath(t *testing.T) {
	v, err := docmodel.Parse(`{"a": {"b": [10, {"c": "deep"}]}, "top": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"a.b[1].c": "deep",
	}
	for path, want := range cases {
		got := valueAtPath(v, path)
		if got == nil || got.Str != want {
			t.Errorf("valueAtPath(%q) = %+v, want %q", path, got, want)
		}
	}
	if got := valueAtPath(v, "a.b[0]"); got == nil || got.Num != 10 {
		t.Errorf("valueAtPath(a.b[0]) = %+v", got)
	}
	for _, miss := range []string{"a.z", "a.b[9]", "a.b[x]", "top[0]"} {
		if got := valueAtPath(v, miss); got != nil {
			t.Errorf("valueAtPath(%q) = %+v, want nil", miss, got)
		}
	}
	if got := valueAtPath(v, ""); got != v {
		t.Error("empty path should return the root")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello", 4); got != "hel…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("héllo", 0); got != "" {
		t.Errorf("truncate zero = %q", got)
	}
}

func TestVisibleByteRange(t *testing.T) {
	m := newTestModel(t, "l0\nl1\nl2\nl3\nl4\n")
	m.width = 80
	m.height = 4 // 3 editor rows + status
	m.viewTop = 1
	from, to := m.visibleByteRange()
	if from != 3 {
		t.Errorf("from = %d, want start of line 1", from)
	}
	if got := m.buf.Text()[from:to]; got != "l1\nl2\nl3\n" {
		t.Errorf("visible range covers %q", got)
	}
}

func TestHighlightGenerationsIgnoreStale(t *testing.T) {
	m := newTestModel(t, `{"a": 1}`)
	m.width, m.height = 80, 24
	_ = m.armHighlight()
	gen := m.highlightGen
	_ = m.armHighlight() // a newer edit supersedes the first tick

	m.Update(highlightTickMsg{gen: gen})
	if m.regions != nil {
		t.Error("stale generation ran a highlight pass")
	}
	m.Update(highlightTickMsg{gen: m.highlightGen})
	if len(m.regions) == 0 {
		t.Error("current generation did not highlight")
	}
	if m.lastHighlight != (editor.Span{Start: 0, End: m.buf.Len()}) {
		t.Errorf("lastHighlight = %+v", m.lastHighlight)
	}
}

func TestEnsureVisibleReArmsHighlightOnLargeScroll(t *testing.T) {
	line := `{"key": "0123456789"}` + "\n"
	text := strings.Repeat(line, editor.HighlightThreshold/len(line)+1)
	m := newTestModel(t, text)
	m.width, m.height = 80, 24
	if !m.buf.LargeDocument() {
		t.Fatal("document below the large threshold")
	}

	gen := m.highlightGen
	// Page the caret far past the viewport, as pgdown does.
	m.caret = m.buf.LineStart(200)
	m.ensureVisible()
	if m.viewTop == 0 {
		t.Fatal("viewport did not scroll")
	}
	if len(m.pending) == 0 {
		t.Error("no highlight pass scheduled for the exposed lines")
	}
	if m.highlightGen == gen {
		t.Error("highlight generation not bumped")
	}

	// A caret move that stays on screen schedules nothing.
	m.pending = nil
	gen = m.highlightGen
	m.caret++
	m.ensureVisible()
	if len(m.pending) != 0 || m.highlightGen != gen {
		t.Error("in-view caret move scheduled a highlight pass")
	}
}

func TestCaretToLineCol(t *testing.T) {
	m := newTestModel(t, "{\n  \"a\": \n}")
	m.width, m.height = 80, 24
	m.caretToLineCol(2, 8) // parse-error coordinates are 1-based
	if line, col := m.buf.OffsetToLineCol(m.caret); line != 1 || col != 7 {
		t.Errorf("caret at (%d, %d), want (1, 7)", line, col)
	}
}

func TestOutlineStepOrphaned(t *testing.T) {
	m := newTestModel(t, `{"a": {"b": 1}}`)
	v, err := docmodel.Parse(m.buf.Text())
	if err != nil {
		t.Fatal(err)
	}
	m.builder = outline.NewBuilder(v, m.buf.Text())
	m.outlineGen = 5

	if cmd := m.handleOutlineStep(outlineStepMsg{gen: 4}); cmd != nil {
		t.Error("orphaned generation kept the chain alive")
	}
	if m.outState != nil {
		t.Error("orphaned step published an outline")
	}

	if cmd := m.handleOutlineStep(outlineStepMsg{gen: 5}); cmd != nil {
		t.Error("small document should finish in one step")
	}
	if m.outState == nil || m.builder != nil {
		t.Error("current generation did not finish the build")
	}
}

func newTestModel(t *testing.T, text string) *model {
	t.Helper()
	settings := app.LoadSettings(filepath.Join(t.TempDir(), "settings.json"))
	m := newModel(settings, locale.Load("en"))
	m.buf.Load(text)
	return m
}
