// Package syntax produces lexical regions over a buffer range for
// highlighting. Classification is purely textual: it works on any
// buffer content, including documents that do not currently parse.
package syntax

import "regexp"

// RegionKind classifies a span of buffer text.
type RegionKind int

const (
	// KindKey is a string literal used as a mapping key.
	KindKey RegionKind = iota
	// KindString is any other string literal.
	KindString
	// KindNumber is a numeric literal.
	KindNumber
	// KindBoolNull is a true/false/null literal.
	KindBoolNull
	// KindStructural is one of {}[],:
	KindStructural
)

// Region is a classified half-open span [Start, End) in buffer offsets.
type Region struct {
	Kind  RegionKind
	Start int
	End   int
}

var (
	stringRe  = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
	numberRe  = regexp.MustCompile(`-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?`)
	keywordRe = regexp.MustCompile(`(?i)true|false|null`)
)

// Classify returns the regions within [from, to) of text. Offsets in
// the result are absolute buffer offsets. String literals that straddle
// the range boundary are classified only if they begin inside it.
func Classify(text string, from, to int) []Region {
	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}
	if from >= to {
		return nil
	}
	window := text[from:to]
	var regions []Region

	// Pass 1: string literals; decide key vs string by the character
	// following the closing quote. Protected spans are excluded from
	// the later passes.
	protected := make([]Region, 0)
	for _, loc := range stringRe.FindAllStringIndex(window, -1) {
		start, end := from+loc[0], from+loc[1]
		kind := KindString
		if isKeyPosition(text, end) {
			kind = KindKey
		}
		r := Region{Kind: kind, Start: start, End: end}
		regions = append(regions, r)
		protected = append(protected, r)
	}

	// Pass 2: numbers outside strings, with word boundaries.
	for _, loc := range numberRe.FindAllStringIndex(window, -1) {
		start, end := from+loc[0], from+loc[1]
		if overlapsAny(protected, start, end) || !wordBounded(text, start, end) {
			continue
		}
		regions = append(regions, Region{Kind: KindNumber, Start: start, End: end})
	}

	// Pass 3: bare true/false/null, case-insensitive, word-bounded.
	for _, loc := range keywordRe.FindAllStringIndex(window, -1) {
		start, end := from+loc[0], from+loc[1]
		if overlapsAny(protected, start, end) || !wordBounded(text, start, end) {
			continue
		}
		regions = append(regions, Region{Kind: KindBoolNull, Start: start, End: end})
	}

	// Pass 4: structural punctuation.
	for i := from; i < to; i++ {
		switch text[i] {
		case '{', '}', '[', ']', ',', ':':
			if overlapsAny(protected, i, i+1) {
				continue
			}
			regions = append(regions, Region{Kind: KindStructural, Start: i, End: i + 1})
		}
	}

	return regions
}

// isKeyPosition reports whether the next non-whitespace character at or
// after offset is a colon.
func isKeyPosition(text string, offset int) bool {
	for i := offset; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func overlapsAny(protected []Region, start, end int) bool {
	for _, p := range protected {
		if start < p.End && end > p.Start {
			return true
		}
	}
	return false
}

// wordBounded reports that [start, end) is not embedded in a larger
// alphanumeric token.
func wordBounded(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
