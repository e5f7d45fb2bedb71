package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// SyntaxError reports a parse failure with a 1-based source location.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses strict JSON text into the object model. Exactly one value
// is expected; anything but whitespace after it is an error. Duplicate
// keys in a mapping are accepted, last one wins.
func Parse(text string) (*Value, error) {
	p := &parser{src: text, line: 1, col: 1}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected character %q after document", p.src[p.pos])
	}
	return v, nil
}

type parser struct {
	src  string
	pos  int
	line int
	col  int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Col: p.col, Msg: fmt.Sprintf(format, args...)}
}

// advance consumes n bytes known to contain no newlines.
func (p *parser) advance(n int) {
	p.pos += n
	p.col += n
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r':
			p.pos++
			p.col++
		case '\n':
			p.pos++
			p.line++
			p.col = 1
		default:
			return
		}
	}
}

func (p *parser) parseValue() (*Value, error) {
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of document")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	case c == 't':
		if err := p.literal("true"); err != nil {
			return nil, err
		}
		return BoolValue(true), nil
	case c == 'f':
		if err := p.literal("false"); err != nil {
			return nil, err
		}
		return BoolValue(false), nil
	case c == 'n':
		if err := p.literal("null"); err != nil {
			return nil, err
		}
		return Null(), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) literal(lit string) error {
	if !strings.HasPrefix(p.src[p.pos:], lit) {
		return p.errorf("invalid literal")
	}
	p.advance(len(lit))
	return nil
}

func (p *parser) parseObject() (*Value, error) {
	obj := ObjectValue()
	p.advance(1) // '{'
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.advance(1)
		return obj, nil
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '"' {
			return nil, p.errorf("expected object key")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after object key")
		}
		p.advance(1)
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		switch p.src[p.pos] {
		case ',':
			p.advance(1)
		case '}':
			p.advance(1)
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray() (*Value, error) {
	arr := &Value{Kind: KindArray}
	p.advance(1) // '['
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.advance(1)
		return arr, nil
	}
	for {
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Arr = append(arr.Arr, val)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		switch p.src[p.pos] {
		case ',':
			p.advance(1)
		case ']':
			p.advance(1)
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseString() (string, error) {
	p.advance(1) // opening quote
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == '"':
			p.advance(1)
			return sb.String(), nil
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		case c == '\n':
			return "", p.errorf("newline in string literal")
		case c < 0x20:
			return "", p.errorf("control character in string literal")
		case c < utf8.RuneSelf:
			sb.WriteByte(c)
			p.advance(1)
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return "", p.errorf("invalid UTF-8 in string literal")
			}
			sb.WriteRune(r)
			p.advance(size)
		}
	}
}

func (p *parser) parseEscape(sb *strings.Builder) error {
	if p.pos+1 >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	switch c := p.src[p.pos+1]; c {
	case '"', '\\', '/':
		sb.WriteByte(c)
		p.advance(2)
	case 'b':
		sb.WriteByte('\b')
		p.advance(2)
	case 'f':
		sb.WriteByte('\f')
		p.advance(2)
	case 'n':
		sb.WriteByte('\n')
		p.advance(2)
	case 'r':
		sb.WriteByte('\r')
		p.advance(2)
	case 't':
		sb.WriteByte('\t')
		p.advance(2)
	case 'u':
		r, err := p.parseUnicodeEscape()
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	default:
		return p.errorf("invalid escape character %q", c)
	}
	return nil
}

// parseUnicodeEscape consumes \uXXXX, pairing surrogates when both
// halves are present.
func (p *parser) parseUnicodeEscape() (rune, error) {
	hex := func(at int) (rune, error) {
		if at+4 > len(p.src) {
			return 0, p.errorf("truncated unicode escape")
		}
		n, err := strconv.ParseUint(p.src[at:at+4], 16, 32)
		if err != nil {
			return 0, p.errorf("invalid unicode escape")
		}
		return rune(n), nil
	}
	r, err := hex(p.pos + 2)
	if err != nil {
		return 0, err
	}
	p.advance(6)
	if utf16.IsSurrogate(r) && p.pos+1 < len(p.src) && p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
		r2, err := hex(p.pos + 2)
		if err != nil {
			return 0, err
		}
		if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
			p.advance(6)
			return dec, nil
		}
	}
	if utf16.IsSurrogate(r) {
		return utf8.RuneError, nil
	}
	return r, nil
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	i := p.pos
	if i < len(p.src) && p.src[i] == '-' {
		i++
	}
	for i < len(p.src) && isNumberByte(p.src[i]) {
		i++
	}
	lex := p.src[start:i]
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", lex)
	}
	// strconv accepts forms JSON does not (hex, "1.", leading "+").
	if !validJSONNumber(lex) {
		return nil, p.errorf("invalid number %q", lex)
	}
	p.advance(i - start)
	return &Value{Kind: KindNumber, Num: f, lex: lex}, nil
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

func validJSONNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	// Integer part: 0, or nonzero digit followed by digits.
	if i >= len(s) || s[i] < '0' || s[i] > '9' {
		return false
	}
	if s[i] == '0' {
		i++
	} else {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}
