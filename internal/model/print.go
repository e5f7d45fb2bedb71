package model

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Pretty serializes v with two-space indentation, insertion-ordered
// keys, and a trailing newline. Unicode passes through unescaped; only
// control characters, quotes, and backslashes are escaped.
func (v *Value) Pretty() string {
	var sb strings.Builder
	writeValue(&sb, v, 0)
	sb.WriteByte('\n')
	return sb.String()
}

// Compact serializes v on a single line with no extra whitespace.
func (v *Value) Compact() string {
	var sb strings.Builder
	writeCompact(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v *Value, depth int) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.numberLexeme())
	case KindString:
		writeQuoted(sb, v.Str)
	case KindArray:
		if len(v.Arr) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, e := range v.Arr {
			writeIndent(sb, depth+1)
			writeValue(sb, e, depth+1)
			if i < len(v.Arr)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		writeIndent(sb, depth)
		sb.WriteByte(']')
	case KindObject:
		if v.Obj.Len() == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		i, n := 0, v.Obj.Len()
		for p := v.Obj.Oldest(); p != nil; p = p.Next() {
			writeIndent(sb, depth+1)
			writeQuoted(sb, p.Key)
			sb.WriteString(": ")
			writeValue(sb, p.Value, depth+1)
			if i < n-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
			i++
		}
		writeIndent(sb, depth)
		sb.WriteByte('}')
	}
}

func writeCompact(sb *strings.Builder, v *Value) {
	switch v.Kind {
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.Arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, e)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		first := true
		for p := v.Obj.Oldest(); p != nil; p = p.Next() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			writeQuoted(sb, p.Key)
			sb.WriteByte(':')
			writeCompact(sb, p.Value)
		}
		sb.WriteByte('}')
	default:
		writeValue(sb, v, 0)
	}
}

func writeIndent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
