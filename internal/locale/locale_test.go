package locale

import (
	"sort"
	"testing"
)

func TestT_Substitution(t *testing.T) {
	tab := Load("en")
	got := tab.T("status.opened", map[string]string{"path": "a.json"})
	if got != "Opened a.json" {
		t.Errorf("got %q", got)
	}
}

func TestT_MissReturnsKey(t *testing.T) {
	tab := Load("en")
	if got := tab.T("no.such.key", nil); got != "no.such.key" {
		t.Errorf("got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	tab := Load("de")
	if tab.Language() != "de" {
		t.Fatalf("language = %q", tab.Language())
	}
	if got := tab.T("status.valid", nil); got != "Dokument ist gültig" {
		t.Errorf("got %q", got)
	}
	// Unknown language falls back to the default.
	tab.SetLanguage("xx")
	if tab.Language() != DefaultLanguage {
		t.Errorf("fallback language = %q", tab.Language())
	}
}

func TestT_FallsBackToDefaultLanguage(t *testing.T) {
	tab := Load("de")
	tab.Merge("en", map[string]string{"only.english": "english only"})
	if got := tab.T("only.english", nil); got != "english only" {
		t.Errorf("got %q", got)
	}
}

func TestMerge_PluginResources(t *testing.T) {
	tab := Load("en")
	tab.Merge("en", map[string]string{
		"plugin.hello": "Hello {name}",
		"status.ready": "hijacked",
	})
	if got := tab.T("plugin.hello", map[string]string{"name": "world"}); got != "Hello world" {
		t.Errorf("got %q", got)
	}
	// Core entries are not overridden by plugin resources.
	if got := tab.T("status.ready", nil); got != "Ready" {
		t.Errorf("got %q", got)
	}
}

func TestMerge_ReportsAddedAndRemoveRevertsThem(t *testing.T) {
	tab := Load("en")
	added := tab.Merge("en", map[string]string{
		"plugin.fresh": "fresh",
		"status.ready": "hijacked", // existing, not added
	})
	if len(added) != 1 || added[0] != "plugin.fresh" {
		t.Fatalf("added = %v", added)
	}
	tab.Remove("en", added)
	if got := tab.T("plugin.fresh", nil); got != "plugin.fresh" {
		t.Errorf("removed key still resolves: %q", got)
	}
	if got := tab.T("status.ready", nil); got != "Ready" {
		t.Errorf("core entry damaged by Remove: %q", got)
	}
}

func TestLanguages_Sorted(t *testing.T) {
	tab := Load("en")
	tab.Merge("zz", map[string]string{"k": "v"})
	tab.Merge("aa", map[string]string{"k": "v"})
	langs := tab.Languages()
	if !sort.StringsAreSorted(langs) {
		t.Errorf("Languages not sorted: %v", langs)
	}
	has := func(code string) bool {
		for _, l := range langs {
			if l == code {
				return true
			}
		}
		return false
	}
	if !has("en") || !has("de") || !has("aa") || !has("zz") {
		t.Errorf("Languages = %v", langs)
	}
}
