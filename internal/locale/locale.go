// Package locale provides the translation table: a two-level mapping
// from language code to message key to template, with {name}
// placeholder substitution. A missing key falls back to the key itself
// so the UI degrades readably instead of failing.
package locale

import (
	_ "embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var embeddedLocales []byte

// DefaultLanguage is used when a language or key is missing.
const DefaultLanguage = "en"

// Table holds translations for all known languages.
type Table struct {
	lang     string
	messages map[string]map[string]string
}

// Load parses the embedded locale resource. A broken resource is
// tolerated: the table still works and returns keys verbatim.
func Load(lang string) *Table {
	t := &Table{lang: DefaultLanguage, messages: map[string]map[string]string{}}
	_ = yaml.Unmarshal(embeddedLocales, &t.messages)
	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language, falling back to the
// default when the language has no table.
func (t *Table) SetLanguage(lang string) {
	if lang == "" {
		lang = DefaultLanguage
	}
	if _, ok := t.messages[lang]; !ok && lang != DefaultLanguage {
		lang = DefaultLanguage
	}
	t.lang = lang
}

// Language returns the active language code.
func (t *Table) Language() string { return t.lang }

// Languages returns the codes with at least one message, sorted.
func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.messages))
	for code := range t.messages {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// T resolves key in the active language and substitutes {name}
// placeholders from params. Misses return the key unchanged.
func (t *Table) T(key string, params map[string]string) string {
	msg, ok := t.messages[t.lang][key]
	if !ok {
		msg, ok = t.messages[DefaultLanguage][key]
	}
	if !ok {
		msg = key
	}
	for name, val := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", val)
	}
	return msg
}

// Merge adds entries for a language, keeping existing ones on
// conflict. Plugins contribute their resources through this. The
// returned keys are the ones actually added, so a failed plugin load
// can be rolled back with Remove.
func (t *Table) Merge(lang string, entries map[string]string) []string {
	if t.messages[lang] == nil {
		t.messages[lang] = map[string]string{}
	}
	var added []string
	for k, v := range entries {
		if _, exists := t.messages[lang][k]; !exists {
			t.messages[lang][k] = v
			added = append(added, k)
		}
	}
	return added
}

// Remove deletes entries for a language. Keys that are not present are
// ignored.
func (t *Table) Remove(lang string, keys []string) {
	for _, k := range keys {
		delete(t.messages[lang], k)
	}
}
