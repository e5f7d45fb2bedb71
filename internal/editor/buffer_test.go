package editor

import "testing"

func TestLoad_ResetsHistoryAndDirty(t *testing.T) {
	b := NewBuffer()
	b.Load("one")
	b.Insert(3, " two")
	if !b.Dirty() {
		t.Fatal("edit should set dirty")
	}
	b.Load("fresh")
	if b.Dirty() {
		t.Error("load should clear dirty")
	}
	if _, ok := b.Undo(); ok {
		t.Error("load should reset undo history")
	}
}

func TestReplace_UndoRedo(t *testing.T) {
	b := NewBuffer()
	b.Load("hello world")
	b.Replace(6, "world", "there")
	if b.Text() != "hello there" {
		t.Fatalf("text = %q", b.Text())
	}
	if off, ok := b.Undo(); !ok || off != 11 {
		t.Errorf("undo = (%d, %v)", off, ok)
	}
	if b.Text() != "hello world" {
		t.Errorf("after undo: %q", b.Text())
	}
	if b.Dirty() {
		t.Error("undo back to saved text should not be dirty")
	}
	if _, ok := b.Redo(); !ok {
		t.Fatal("redo failed")
	}
	if b.Text() != "hello there" {
		t.Errorf("after redo: %q", b.Text())
	}
	// A new edit clears the redo stack.
	b.Undo()
	b.Insert(0, "x")
	if _, ok := b.Redo(); ok {
		t.Error("redo should be cleared by a new edit")
	}
}

func TestDelete_Clamped(t *testing.T) {
	b := NewBuffer()
	b.Load("abc")
	b.Delete(2, 10)
	if b.Text() != "ab" {
		t.Errorf("text = %q", b.Text())
	}
	b.Delete(5, 1) // out of range, no-op
	if b.Text() != "ab" {
		t.Errorf("text = %q", b.Text())
	}
}

func TestLineArithmetic(t *testing.T) {
	b := NewBuffer()
	b.Load("ab\ncde\n\nf")
	if b.LineCount() != 4 {
		t.Errorf("lines = %d", b.LineCount())
	}
	if got := b.LineStart(1); got != 3 {
		t.Errorf("LineStart(1) = %d", got)
	}
	if got := b.LineStart(2); got != 7 {
		t.Errorf("LineStart(2) = %d", got)
	}
	line, col := b.OffsetToLineCol(5)
	if line != 1 || col != 2 {
		t.Errorf("OffsetToLineCol(5) = (%d,%d)", line, col)
	}
	if got := b.LineColToOffset(1, 2); got != 5 {
		t.Errorf("LineColToOffset(1,2) = %d", got)
	}
	// Col clamps to line length.
	if got := b.LineColToOffset(0, 99); got != 2 {
		t.Errorf("clamped offset = %d", got)
	}
}

func TestAutoIndent(t *testing.T) {
	b := NewBuffer()
	b.Load(`  "a": {`)
	got := b.AutoIndent(b.Len())
	if got != "\n    " {
		t.Errorf("after open brace: %q", got)
	}

	b.Load(`  "a": 1,`)
	got = b.AutoIndent(b.Len())
	if got != "\n  " {
		t.Errorf("plain continuation: %q", got)
	}

	b.Load("x[")
	got = b.AutoIndent(2)
	if got != "\n  " {
		t.Errorf("after open bracket: %q", got)
	}
}

func TestWordAt(t *testing.T) {
	b := NewBuffer()
	b.Load(`{"flag": true, "n": -1.5e3}`)
	// Inside "true".
	off := 10
	_, _, tok, ok := b.WordAt(off)
	if !ok || tok != "true" {
		t.Errorf("WordAt(%d) = %q, %v", off, tok, ok)
	}
	// On punctuation.
	if _, _, _, ok := b.WordAt(7); ok {
		t.Error("WordAt on colon should fail")
	}
	// Inside the number, including the sign.
	start, end, tok, ok := b.WordAt(22)
	if !ok || tok != "-1.5e3" {
		t.Errorf("number token = %q (%d..%d)", tok, start, end)
	}
}

func TestLargeDocumentFlag(t *testing.T) {
	b := NewBuffer()
	b.Load("x")
	if b.LargeDocument() {
		t.Error("small buffer flagged large")
	}
	b.Load(string(make([]byte, HighlightThreshold)))
	if !b.LargeDocument() {
		t.Error("large buffer not flagged")
	}
}
