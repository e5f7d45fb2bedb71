package model

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, text string) *Value {
	t.Helper()
	v, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return v
}

func TestParse_Basics(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": [true, null, "x"], "c": {"d": -2.5e3}}`)
	if !v.IsObject() || v.Len() != 3 {
		t.Fatalf("unexpected shape: %+v", v)
	}
	b, _ := v.Get("b")
	if !b.IsArray() || len(b.Arr) != 3 {
		t.Fatalf("b = %+v", b)
	}
	if b.Arr[0].Kind != KindBool || !b.Arr[0].Bool {
		t.Errorf("b[0] = %+v", b.Arr[0])
	}
	if b.Arr[1].Kind != KindNull {
		t.Errorf("b[1] = %+v", b.Arr[1])
	}
	c, _ := v.Get("c")
	d, _ := c.Get("d")
	if d.Num != -2500 {
		t.Errorf("c.d = %v", d.Num)
	}
}

func TestParse_KeyOrderPreserved(t *testing.T) {
	v := mustParse(t, `{"z": 1, "a": 2, "m": 3}`)
	got := v.Keys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	v := mustParse(t, `{"a": 1, "a": 2}`)
	if v.Len() != 1 {
		t.Fatalf("len = %d", v.Len())
	}
	a, _ := v.Get("a")
	if a.Num != 2 {
		t.Errorf("a = %v, want 2", a.Num)
	}
}

func TestParse_ErrorLocation(t *testing.T) {
	_, err := Parse(`{"a":}`)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
	if se.Line != 1 || se.Col != 6 {
		t.Errorf("location = (%d,%d), want (1,6)", se.Line, se.Col)
	}

	_, err = Parse("{\n  \"a\": 1,\n  \"b\": tru\n}")
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
	if se.Line != 3 {
		t.Errorf("line = %d, want 3", se.Line)
	}
}

func TestParse_Strictness(t *testing.T) {
	bad := []string{
		``,
		`{,}`,
		`{"a": 1,}`,
		`[1, 2,]`,
		`'single'`,
		`{"a": 01}`,
		`{"a": .5}`,
		`{"a": 1.}`,
		`{"a": +1}`,
		`{"a": 1} trailing`,
		`{"a": "unterminated`,
		"{\"a\": \"line\nbreak\"}",
		`nul`,
		`TRUE`,
	}
	for _, in := range bad {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}

func TestParse_StringEscapes(t *testing.T) {
	v := mustParse(t, `"a\"b\\c\/d\n\té€"`)
	want := "a\"b\\c/d\n\té€"
	if v.Str != want {
		t.Errorf("got %q, want %q", v.Str, want)
	}
	// Surrogate pair.
	v = mustParse(t, `"😀"`)
	if v.Str != "\U0001f600" {
		t.Errorf("surrogate pair: got %q", v.Str)
	}
}

func TestPretty_Shape(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":[1,2],"c":{}}`)
	got := v.Pretty()
	want := "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ],\n  \"c\": {}\n}\n"
	if got != want {
		t.Errorf("Pretty =\n%s\nwant\n%s", got, want)
	}
}

func TestPretty_UnicodePreserved(t *testing.T) {
	v := mustParse(t, `{"grüße": "€"}`)
	got := v.Pretty()
	if !strings.Contains(got, "grüße") || !strings.Contains(got, "€") {
		t.Errorf("unicode was escaped: %q", got)
	}
}

func TestCompact_SingleLine(t *testing.T) {
	v := mustParse(t, `{
  "a": 1,
  "b": [true, null],
  "c": {"d": "x"}
}`)
	got := v.Compact()
	want := `{"a":1,"b":[true,null],"c":{"d":"x"}}`
	if got != want {
		t.Errorf("Compact = %q, want %q", got, want)
	}
}

func TestDelete_PreservesOrder(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"c":3}`)
	v.Delete("b")
	if _, ok := v.Get("b"); ok {
		t.Error("key still present after Delete")
	}
	if got := v.Compact(); got != `{"a":1,"c":3}` {
		t.Errorf("after Delete: %q", got)
	}
	v.Delete("missing")      // no-op
	ArrayValue().Delete("a") // no-op on non-objects
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`null`,
		`true`,
		`-12.5e-3`,
		`"täxt"`,
		`[]`,
		`{}`,
		`{"z": {"nested": [1, 2.5, 1e6, true, false, null]}, "a": ["x", {"y": []}]}`,
	}
	for _, in := range inputs {
		v := mustParse(t, in)
		again := mustParse(t, v.Pretty())
		if !Equal(v, again) {
			t.Errorf("round trip of %q changed value", in)
		}
		// Pretty is a fixpoint after one pass.
		if again.Pretty() != v.Pretty() {
			t.Errorf("pretty of %q is not stable", in)
		}
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"x": 1, "y": [1, {"z": null}]}`)
	b := mustParse(t, `{"y": [1, {"z": null}], "x": 1}`)
	if !Equal(a, b) {
		t.Error("order-insensitive object equality failed")
	}
	c := mustParse(t, `{"x": 1, "y": [1, {"z": 0}]}`)
	if Equal(a, c) {
		t.Error("distinct values compared equal")
	}
}

func TestClone_Independent(t *testing.T) {
	a := mustParse(t, `{"x": {"y": 1}}`)
	b := a.Clone()
	x, _ := b.Get("x")
	x.Set("y", NumberValue(2))
	orig, _ := a.Get("x")
	y, _ := orig.Get("y")
	if y.Num != 1 {
		t.Error("clone shares structure with original")
	}
}

func TestToGoFromGo(t *testing.T) {
	v := mustParse(t, `{"a": [1, "s", false, null]}`)
	back := FromGo(v.ToGo())
	if !Equal(v, back) {
		t.Error("ToGo/FromGo round trip changed value")
	}
}
