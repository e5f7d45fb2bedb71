package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsonpad/jsonpad/internal/app"
	"github.com/jsonpad/jsonpad/internal/token"
)

func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRoot()
	root.SetArgs(args)
	return root.Execute()
}

// exitCode unwraps the ExitResult contract; a nil error is code 0.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit app.ExitResult
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	return -1
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `{"b":1,"a":[1,2]}`)
	out := filepath.Join(dir, "out.json")

	if err := runCmd(t, "fmt", in, "-o", out); exitCode(err) != 0 {
		t.Fatalf("fmt: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"b\": 1,\n  \"a\": [\n    1,\n    2\n  ]\n}\n"
	if string(data) != want {
		t.Errorf("fmt output:\n%s\nwant:\n%s", data, want)
	}
}

func TestFmtCommandWrite(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `{"a":1}`)
	if err := runCmd(t, "fmt", in, "--write"); exitCode(err) != 0 {
		t.Fatalf("fmt --write: %v", err)
	}
	data, _ := os.ReadFile(in)
	if string(data) != "{\n  \"a\": 1\n}\n" {
		t.Errorf("rewritten file: %q", data)
	}
}

func TestFmtCommandParseError(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.json", `{"a":}`)
	err := runCmd(t, "fmt", in)
	if exitCode(err) != 1 {
		t.Fatalf("fmt on bad input: %v", err)
	}
}

func TestDecodeCommand(t *testing.T) {
	dir := t.TempDir()
	payload := `{"sub":"alice"}`
	tok := token.Encode([]byte(`{"alg":"none"}`)) + "." + token.Encode([]byte(payload)) + ".sig"
	in := writeFile(t, dir, "t.jwt", tok)
	out := filepath.Join(dir, "payload.json")

	if err := runCmd(t, "decode", in, "-o", out); exitCode(err) != 0 {
		t.Fatalf("decode: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "{\n  \"sub\": \"alice\"\n}\n" {
		t.Errorf("decoded payload: %q", data)
	}
}

func TestDecodeCommandLiteralToken(t *testing.T) {
	dir := t.TempDir()
	tok := token.Encode([]byte("{}")) + "." + token.Encode([]byte(`{"k":1}`))
	out := filepath.Join(dir, "out.json")
	if err := runCmd(t, "decode", tok, "-o", out); exitCode(err) != 0 {
		t.Fatalf("decode literal: %v", err)
	}
}

func TestDecodeCommandRejectsGarbage(t *testing.T) {
	if err := runCmd(t, "decode", "not-a-token"); exitCode(err) != 1 {
		t.Fatal("decode accepted a single-segment value")
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.json", `{"a": 1, "nested": {"x": 1}}`)
	patch := writeFile(t, dir, "patch.json", `{"b": 2, "nested": {"y": 2}}`)
	out := filepath.Join(dir, "merged.json")

	if err := runCmd(t, "merge", target, patch, "-o", out); exitCode(err) != 0 {
		t.Fatalf("merge: %v", err)
	}
	data, _ := os.ReadFile(out)
	want := "{\n  \"a\": 1,\n  \"nested\": {\n    \"x\": 1,\n    \"y\": 2\n  },\n  \"b\": 2\n}\n"
	if string(data) != want {
		t.Errorf("merged:\n%s\nwant:\n%s", data, want)
	}
	// The target itself stays untouched when -o is given.
	orig, _ := os.ReadFile(target)
	if string(orig) != `{"a": 1, "nested": {"x": 1}}` {
		t.Errorf("target was modified: %q", orig)
	}
}

func TestMergeCommandTokenPatch(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.json", `{"a": 1}`)
	tok := token.Encode([]byte("{}")) + "." + token.Encode([]byte(`{"b": 2}`)) + ".s"
	patch := writeFile(t, dir, "patch.jwt", tok)
	out := filepath.Join(dir, "merged.json")

	if err := runCmd(t, "merge", target, patch, "-o", out); exitCode(err) != 0 {
		t.Fatalf("merge token patch: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "{\n  \"a\": 1,\n  \"b\": 2\n}\n" {
		t.Errorf("merged: %q", data)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"status": "on"}`)
	bad := writeFile(t, dir, "bad.json", `{"status": }`)
	schema := writeFile(t, dir, "schema.json",
		`{"type": "object", "properties": {"status": {"enum": ["on", "off"]}}}`)
	wrong := writeFile(t, dir, "wrong.json", `{"status": "maybe"}`)

	if err := runCmd(t, "validate", good); exitCode(err) != 0 {
		t.Errorf("valid file: %v", err)
	}
	if err := runCmd(t, "validate", bad); exitCode(err) != 1 {
		t.Error("syntax error not reported")
	}
	if err := runCmd(t, "validate", good, "--schema", schema); exitCode(err) != 0 {
		t.Error("schema-valid file rejected")
	}
	if err := runCmd(t, "validate", wrong, "--schema", schema); exitCode(err) != 1 {
		t.Error("schema violation not reported")
	}
}

func TestRootRejectsUnknownLanguage(t *testing.T) {
	err := runCmd(t, "--lang", "xx")
	if exitCode(err) != 2 {
		t.Fatalf("unsupported language accepted: %v", err)
	}
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `{"items": [{"n": 1}, {"n": 2}, {"n": 3}]}`)
	out := filepath.Join(dir, "out.json")

	if err := runCmd(t, "query", in, "$sum(items.n)", "-o", out); exitCode(err) != 0 {
		t.Fatalf("query: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "6\n" {
		t.Errorf("query result: %q", data)
	}
}
