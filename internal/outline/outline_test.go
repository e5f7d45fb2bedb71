package outline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jsonpad/jsonpad/internal/model"
)

func parse(t *testing.T, text string) *model.Value {
	t.Helper()
	v, err := model.Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestBuild_LabelsAndPaths(t *testing.T) {
	text := `{"a": {"b": [10, {"c": 1}]}, "d": true}`
	root, _ := Build(parse(t, text), text)

	if len(root.Children) != 2 {
		t.Fatalf("root children = %d", len(root.Children))
	}
	a := root.Children[0]
	if a.Label != "a" || a.Path != "a" {
		t.Errorf("a node = %+v", a)
	}
	if root.Children[1].Path != "d" {
		t.Errorf("d node = %+v", root.Children[1])
	}
	b := a.Children[0]
	if b.Path != "a.b" {
		t.Errorf("b node = %+v", b)
	}
	if len(b.Children) != 2 || b.Children[0].Label != "[0]" || b.Children[0].Path != "a.b[0]" {
		t.Errorf("b children = %+v", b.Children)
	}
	c := b.Children[1].Children[0]
	if c.Path != "a.b[1].c" || c.Label != "c" {
		t.Errorf("c node = %+v", c)
	}
}

func TestBuild_IndexPointsIntoKeyLexemes(t *testing.T) {
	v := parse(t, `{"alpha": {"beta": 1}, "gamma": [true]}`)
	text := v.Pretty()
	_, ix := Build(v, text)

	for path, key := range map[string]string{
		"alpha":      "alpha",
		"alpha.beta": "beta",
		"gamma":      "gamma",
	} {
		pos, ok := ix.Lookup(path)
		if !ok {
			t.Fatalf("no index entry for %s", path)
		}
		lex := `"` + key + `"`
		if !strings.HasPrefix(text[pos.Offset:], lex) {
			t.Errorf("%s offset %d does not start %s", path, pos.Offset, lex)
		}
		// Line/col agree with the offset.
		lines := strings.Split(text[:pos.Offset], "\n")
		if pos.Line != len(lines) || pos.Col != len(lines[len(lines)-1])+1 {
			t.Errorf("%s pos = %+v, disagrees with offset", path, pos)
		}
	}
}

func TestIndex_NearestAtOrBefore(t *testing.T) {
	v := parse(t, `{"a": 1, "b": {"c": 2}}`)
	text := v.Pretty()
	_, ix := Build(v, text)

	bPos, _ := ix.Lookup("b")
	path, _, ok := ix.NearestAtOrBefore(bPos.Offset)
	if !ok || path != "b" {
		t.Errorf("nearest at b = %q", path)
	}
	// Just before b's key, the nearest entry is a.
	path, _, ok = ix.NearestAtOrBefore(bPos.Offset - 1)
	if !ok || path != "a" {
		t.Errorf("nearest before b = %q", path)
	}
	if _, _, ok := ix.NearestAtOrBefore(-1); ok {
		t.Error("nearest before document start should miss")
	}
}

func TestIndex_NearestTieBreaksByPath(t *testing.T) {
	// A restarted key search can record two paths at the same offset;
	// the winner must not depend on map iteration order.
	ix := newIndex(`"k": 1`)
	ix.record("z.k", "k")
	ix.record("a.k", "k") // nothing after the cursor, search restarts
	za, _ := ix.Lookup("z.k")
	ak, _ := ix.Lookup("a.k")
	if za.Offset != ak.Offset {
		t.Fatalf("offsets differ: %d vs %d", za.Offset, ak.Offset)
	}
	for i := 0; i < 20; i++ {
		path, _, ok := ix.NearestAtOrBefore(10)
		if !ok || path != "a.k" {
			t.Fatalf("nearest = %q, want a.k", path)
		}
	}
}

func TestBuilder_BatchedSteps(t *testing.T) {
	// 10 nested objects: one container work item each.
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, `{"k%d":`, i)
	}
	sb.WriteString("1")
	for i := 0; i < 10; i++ {
		sb.WriteString("}")
	}
	text := sb.String()
	b := NewBuilder(parse(t, text), text)

	steps := 0
	for !b.Step(3) {
		steps++
		if steps > 20 {
			t.Fatal("build did not terminate")
		}
	}
	if !b.Done() {
		t.Error("Done() false after completion")
	}
	// 10 work items at 3 per step.
	if steps+1 != 4 {
		t.Errorf("took %d steps, want 4", steps+1)
	}
	if b.Root().Children[0].Label != "k0" {
		t.Errorf("root child = %+v", b.Root().Children[0])
	}
}

func TestBuilder_AbandonedMidway(t *testing.T) {
	text := `{"a": {"x": 1}, "b": {"y": 2}}`
	b := NewBuilder(parse(t, text), text)
	b.Step(1)
	if b.Done() {
		t.Fatal("finished too early")
	}
	// A cancelled build is simply dropped; a new one starts clean.
	b2 := NewBuilder(parse(t, text), text)
	for !b2.Step(DefaultBatchSize) {
	}
	if len(b2.Root().Children) != 2 {
		t.Errorf("fresh build children = %d", len(b2.Root().Children))
	}
}

func TestState_Navigation(t *testing.T) {
	text := `{"a": {"b": 1}, "c": 2}`
	root, _ := Build(parse(t, text), text)
	s := NewState(root)

	if s.Selected().Path != "a" {
		t.Fatalf("initial selection = %+v", s.Selected())
	}
	// a is collapsed: down goes to c.
	s.MoveDown()
	if s.Selected().Path != "c" {
		t.Errorf("after down: %s", s.Selected().Path)
	}
	s.MoveUp()
	s.Expand()
	s.MoveDown()
	if s.Selected().Path != "a.b" {
		t.Errorf("after expand+down: %s", s.Selected().Path)
	}
	// Collapse on a leaf moves to the parent.
	if !s.Collapse() || s.Selected().Path != "a" {
		t.Errorf("collapse from leaf: %s", s.Selected().Path)
	}
}

func TestState_SelectByPathExpandsAncestors(t *testing.T) {
	text := `{"a": {"b": {"c": 1}}}`
	root, _ := Build(parse(t, text), text)
	s := NewState(root)

	if !s.SelectByPath("a.b.c") {
		t.Fatal("SelectByPath failed")
	}
	if s.Selected().Path != "a.b.c" {
		t.Errorf("selected = %s", s.Selected().Path)
	}
	visible := s.Visible()
	var paths []string
	for _, n := range visible {
		paths = append(paths, n.Path)
	}
	want := []string{"a", "a.b", "a.b.c"}
	if len(paths) != 3 || paths[0] != want[0] || paths[2] != want[2] {
		t.Errorf("visible = %v, want %v", paths, want)
	}
}
