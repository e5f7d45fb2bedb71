package editor

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Span is a half-open byte range of a match in the buffer.
type Span struct {
	Start int
	End   int
}

// folder folds case for comparison at the match site; the buffer text
// itself is never mutated.
var folder = cases.Fold()

// Find is the find/replace state machine: a case-insensitive substring
// query, its match list, and the active match. No regex.
type Find struct {
	buf     *Buffer
	query   string
	matches []Span
	current int // index into matches, -1 when none
}

// NewFind creates a find state bound to buf.
func NewFind(buf *Buffer) *Find {
	return &Find{buf: buf, current: -1}
}

// SetQuery updates the query and rescans. The first match becomes
// current.
func (f *Find) SetQuery(q string) {
	f.query = q
	f.Rescan()
	if len(f.matches) > 0 {
		f.current = 0
	} else {
		f.current = -1
	}
}

// Query returns the current query.
func (f *Find) Query() string { return f.query }

// Rescan recomputes the match list against the current buffer content.
// The current index is clamped, not reset.
func (f *Find) Rescan() {
	f.matches = findAll(f.buf.Text(), f.query)
	if len(f.matches) == 0 {
		f.current = -1
	} else if f.current >= len(f.matches) {
		f.current = len(f.matches) - 1
	} else if f.current < 0 {
		f.current = 0
	}
}

// Matches returns all match spans.
func (f *Find) Matches() []Span { return f.matches }

// Current returns the active match.
func (f *Find) Current() (Span, bool) {
	if f.current < 0 || f.current >= len(f.matches) {
		return Span{}, false
	}
	return f.matches[f.current], true
}

// CurrentIndex returns the active match index, or -1.
func (f *Find) CurrentIndex() int { return f.current }

// Next advances the active match, wrapping around.
func (f *Find) Next() (Span, bool) {
	if len(f.matches) == 0 {
		return Span{}, false
	}
	f.current = (f.current + 1) % len(f.matches)
	return f.matches[f.current], true
}

// Prev steps the active match backwards, wrapping around.
func (f *Find) Prev() (Span, bool) {
	if len(f.matches) == 0 {
		return Span{}, false
	}
	f.current = (f.current - 1 + len(f.matches)) % len(f.matches)
	return f.matches[f.current], true
}

// ReplaceCurrent substitutes the active match and rescans; offsets of
// later matches shift accordingly.
func (f *Find) ReplaceCurrent(replacement string) bool {
	span, ok := f.Current()
	if !ok {
		return false
	}
	f.buf.Replace(span.Start, f.buf.Text()[span.Start:span.End], replacement)
	f.Rescan()
	return true
}

// ReplaceAll substitutes every match in reverse span order, keeping the
// remaining offsets valid, then rescans once. Returns the number of
// replacements.
func (f *Find) ReplaceAll(replacement string) int {
	n := len(f.matches)
	for i := n - 1; i >= 0; i-- {
		span := f.matches[i]
		f.buf.Replace(span.Start, f.buf.Text()[span.Start:span.End], replacement)
	}
	f.Rescan()
	return n
}

// findAll scans text for non-overlapping case-insensitive occurrences
// of query, advancing past each hit.
func findAll(text, query string) []Span {
	if query == "" {
		return nil
	}
	qRunes := utf8.RuneCountInString(query)
	folded := folder.String(query)
	var spans []Span
	for i := 0; i < len(text); {
		end, ok := runeWindow(text, i, qRunes)
		if !ok {
			break
		}
		if folder.String(text[i:end]) == folded {
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// runeWindow returns the byte offset just past n runes starting at i.
func runeWindow(text string, i, n int) (int, bool) {
	end := i
	for ; n > 0; n-- {
		if end >= len(text) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return end, true
}
