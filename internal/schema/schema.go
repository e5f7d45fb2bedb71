// Package schema resolves dotted document paths against a schema
// document and offers full-document validation.
//
// Only three schema keys participate in path resolution: "properties",
// "items", and "enum". Everything else is ignored.
package schema

import (
	"strings"

	"github.com/jsonpad/jsonpad/internal/model"
)

// EnumAt walks path ("a.b[3].c") through the schema and returns the
// enumeration of allowed literals at the terminal node, or nil when the
// path does not resolve or carries no enum.
func EnumAt(schema *model.Value, path string) []*model.Value {
	if schema == nil || path == "" {
		return nil
	}
	node := schema
	for _, comp := range strings.Split(path, ".") {
		comp = stripIndex(comp)
		if comp == "" {
			return nil
		}
		props, ok := node.Get("properties")
		if !ok {
			return nil
		}
		next, ok := props.Get(comp)
		if !ok {
			return nil
		}
		node = next
		// An indexed component addresses elements of a sequence; the
		// index itself was stripped, so descend unconditionally.
		for {
			items, ok := node.Get("items")
			if !ok {
				break
			}
			node = items
		}
	}
	enum, ok := node.Get("enum")
	if !ok || !enum.IsArray() {
		return nil
	}
	return enum.Arr
}

// stripIndex removes any "[i]" suffixes from a path component.
func stripIndex(comp string) string {
	if i := strings.IndexByte(comp, '['); i >= 0 {
		return comp[:i]
	}
	return comp
}
