package outline

import "strings"

// Pos locates a key literal in the buffer. Line and Col are 1-based;
// Offset is the byte offset of the opening quote.
type Pos struct {
	Line   int
	Col    int
	Offset int
}

// Index maps document paths to buffer positions. It is best-effort:
// the key literal is located by forward search from a rolling cursor,
// so identical key names at different nesting levels may resolve to the
// wrong occurrence. That ambiguity is accepted for O(n) indexing.
type Index struct {
	buffer  string
	cursor  int
	entries map[string]Pos

	// incremental line/col bookkeeping for the last computed offset
	lastOffset int
	lastLine   int
	lastCol    int
}

func newIndex(buffer string) *Index {
	return &Index{
		buffer:   buffer,
		entries:  map[string]Pos{},
		lastLine: 1,
		lastCol:  1,
	}
}

// record locates `"key"` at or after the rolling cursor and stores its
// position under path. On a miss the search restarts at the beginning
// of the buffer; if the key is nowhere in the buffer the path simply
// gets no entry.
func (ix *Index) record(path, key string) {
	needle := `"` + key + `"`
	abs := -1
	if ix.cursor <= len(ix.buffer) {
		if i := strings.Index(ix.buffer[ix.cursor:], needle); i >= 0 {
			abs = ix.cursor + i
		}
	}
	if abs < 0 {
		if i := strings.Index(ix.buffer, needle); i >= 0 {
			abs = i
		} else {
			return
		}
	}
	ix.cursor = abs + len(needle)
	line, col := ix.lineCol(abs)
	ix.entries[path] = Pos{Line: line, Col: col, Offset: abs}
}

// lineCol computes the 1-based position of offset, scanning forward
// from the previous computation when possible.
func (ix *Index) lineCol(offset int) (int, int) {
	from, line, col := ix.lastOffset, ix.lastLine, ix.lastCol
	if offset < from {
		from, line, col = 0, 1, 1
	}
	for i := from; i < offset && i < len(ix.buffer); i++ {
		if ix.buffer[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	ix.lastOffset, ix.lastLine, ix.lastCol = offset, line, col
	return line, col
}

// Lookup returns the recorded position for path.
func (ix *Index) Lookup(path string) (Pos, bool) {
	p, ok := ix.entries[path]
	return p, ok
}

// Len returns the number of indexed paths.
func (ix *Index) Len() int { return len(ix.entries) }

// NearestAtOrBefore returns the path whose recorded offset is the
// greatest one not after the caret offset. Used for caret→outline sync.
// Offset ties (possible after a restarted key search) resolve to the
// lexicographically smallest path so the result is stable across runs.
func (ix *Index) NearestAtOrBefore(offset int) (string, Pos, bool) {
	bestPath := ""
	var best Pos
	found := false
	for path, pos := range ix.entries {
		if pos.Offset > offset {
			continue
		}
		switch {
		case !found, pos.Offset > best.Offset:
			bestPath, best, found = path, pos, true
		case pos.Offset == best.Offset && path < bestPath:
			bestPath, best = path, pos
		}
	}
	return bestPath, best, found
}
