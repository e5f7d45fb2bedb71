// Package merge reconciles a patch document into a target document.
//
// Mappings merge recursively, sequences reconcile element-wise using an
// identity key when one is present, and anything else overwrites. The
// algorithm never fails on structurally valid input; a type conflict on
// a key resolves in favor of the patch.
package merge

import "github.com/jsonpad/jsonpad/internal/model"

// identityKeys are tried in order, per element, to match sequence
// elements between target and patch.
var identityKeys = []string{"id", "certificateID"}

// Stats summarizes what a merge did.
type Stats struct {
	Assigned    int // keys absent from the target
	Recursed    int // mapping/mapping descents
	Appended    int // sequence elements added
	Overwritten int // scalar updates, including type conflicts
}

// Apply merges patch into target in place. Both must be mappings;
// anything else is a no-op.
func Apply(target, patch *model.Value) Stats {
	var st Stats
	if !target.IsObject() || !patch.IsObject() {
		return st
	}
	mergeObjects(target, patch, &st)
	return st
}

func mergeObjects(target, patch *model.Value, st *Stats) {
	for _, key := range patch.Keys() {
		pv, _ := patch.Get(key)
		tv, ok := target.Get(key)
		switch {
		case !ok:
			target.Set(key, pv.Clone())
			st.Assigned++
		case tv.IsObject() && pv.IsObject():
			st.Recursed++
			mergeObjects(tv, pv, st)
		case tv.IsArray() && pv.IsArray():
			mergeSequences(tv, pv, st)
		default:
			target.Set(key, pv.Clone())
			st.Overwritten++
		}
	}
}

func mergeSequences(target, patch *model.Value, st *Stats) {
	for _, elem := range patch.Arr {
		if key, id, ok := identityOf(elem); ok {
			if match := findByIdentity(target, key, id); match != nil {
				st.Recursed++
				mergeObjects(match, elem, st)
				continue
			}
			target.Arr = append(target.Arr, elem.Clone())
			st.Appended++
			continue
		}
		if containsEqual(target, elem) {
			continue
		}
		target.Arr = append(target.Arr, elem.Clone())
		st.Appended++
	}
}

// identityOf returns the first identity key present on a mapping
// element together with its value.
func identityOf(elem *model.Value) (string, *model.Value, bool) {
	if !elem.IsObject() {
		return "", nil, false
	}
	for _, key := range identityKeys {
		if v, ok := elem.Get(key); ok {
			return key, v, true
		}
	}
	return "", nil, false
}

// findByIdentity returns the first mapping element of seq whose value
// under key structurally equals id.
func findByIdentity(seq *model.Value, key string, id *model.Value) *model.Value {
	for _, e := range seq.Arr {
		if !e.IsObject() {
			continue
		}
		if v, ok := e.Get(key); ok && model.Equal(v, id) {
			return e
		}
	}
	return nil
}

func containsEqual(seq, elem *model.Value) bool {
	for _, e := range seq.Arr {
		if model.Equal(e, elem) {
			return true
		}
	}
	return false
}
