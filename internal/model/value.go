// Package model implements the document object model: a tagged variant
// over mappings, arrays, strings, numbers, booleans, and null, with a
// strict location-aware parser and a stable pretty printer. Mappings
// preserve insertion order.
package model

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant arm of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is one node of the object model.
type Value struct {
	Kind Kind

	Str  string  // KindString
	Num  float64 // KindNumber
	lex  string  // original number lexeme, kept for round-trip fidelity
	Bool bool    // KindBool

	Arr []*Value                                // KindArray
	Obj *orderedmap.OrderedMap[string, *Value] // KindObject
}

// Null returns the null value.
func Null() *Value { return &Value{Kind: KindNull} }

// BoolValue returns a boolean value.
func BoolValue(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// NumberValue returns a number value.
func NumberValue(f float64) *Value { return &Value{Kind: KindNumber, Num: f} }

// StringValue returns a string value.
func StringValue(s string) *Value { return &Value{Kind: KindString, Str: s} }

// ArrayValue returns an array value holding the given elements.
func ArrayValue(items ...*Value) *Value { return &Value{Kind: KindArray, Arr: items} }

// ObjectValue returns an empty mapping value.
func ObjectValue() *Value {
	return &Value{Kind: KindObject, Obj: orderedmap.New[string, *Value]()}
}

// Set inserts or updates a key on an object value, preserving insertion
// order for new keys.
func (v *Value) Set(key string, val *Value) *Value {
	v.Obj.Set(key, val)
	return v
}

// Get looks up a key on an object value.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindObject {
		return nil, false
	}
	return v.Obj.Get(key)
}

// Delete removes a key from an object value. Order of the remaining
// keys is preserved.
func (v *Value) Delete(key string) {
	if v == nil || v.Kind != KindObject {
		return
	}
	v.Obj.Delete(key)
}

// Keys returns the object's keys in insertion order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	keys := make([]string, 0, v.Obj.Len())
	for p := v.Obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of entries of an object or array, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind {
	case KindObject:
		return v.Obj.Len()
	case KindArray:
		return len(v.Arr)
	}
	return 0
}

// IsObject reports whether v is a mapping.
func (v *Value) IsObject() bool { return v != nil && v.Kind == KindObject }

// IsArray reports whether v is a sequence.
func (v *Value) IsArray() bool { return v != nil && v.Kind == KindArray }

// numberLexeme returns the serialized form of a number, preferring the
// parsed lexeme when one was recorded.
func (v *Value) numberLexeme() string {
	if v.lex != "" {
		return v.lex
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Equal reports deep structural equality. Numbers compare by numeric
// value and mappings by key set, ignoring insertion order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.Obj.Len() != b.Obj.Len() {
			return false
		}
		for p := a.Obj.Oldest(); p != nil; p = p.Next() {
			bv, ok := b.Obj.Get(p.Key)
			if !ok || !Equal(p.Value, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{Kind: v.Kind, Str: v.Str, Num: v.Num, lex: v.lex, Bool: v.Bool}
	switch v.Kind {
	case KindArray:
		c.Arr = make([]*Value, len(v.Arr))
		for i, e := range v.Arr {
			c.Arr[i] = e.Clone()
		}
	case KindObject:
		c.Obj = orderedmap.New[string, *Value]()
		for p := v.Obj.Oldest(); p != nil; p = p.Next() {
			c.Obj.Set(p.Key, p.Value.Clone())
		}
	}
	return c
}

// ToGo converts v to the encoding/json shape (map[string]any, []any,
// string, float64, bool, nil). Mapping order is lost; the conversion
// exists for schema validation and query evaluation.
func (v *Value) ToGo() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.ToGo()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.Obj.Len())
		for p := v.Obj.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value.ToGo()
		}
		return out
	}
	return nil
}

// FromGo converts an encoding/json shaped value into the object model.
// Map key order follows Go map iteration and is therefore unspecified.
func FromGo(x any) *Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case int:
		return NumberValue(float64(t))
	case string:
		return StringValue(t)
	case []any:
		arr := make([]*Value, len(t))
		for i, e := range t {
			arr[i] = FromGo(e)
		}
		return &Value{Kind: KindArray, Arr: arr}
	case map[string]any:
		obj := ObjectValue()
		for k, e := range t {
			obj.Set(k, FromGo(e))
		}
		return obj
	}
	return Null()
}
