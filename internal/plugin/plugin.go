// Package plugin implements the script plugin runtime. Plugins are
// golisp files named plugin_*.lsp discovered under a plugins directory
// tree. Each file runs in a shared interpreter with a primitive surface
// onto the application controller; every failure during discovery,
// load, or dispatch is logged and isolated so a broken plugin can never
// take the editor down.
package plugin

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/steelseries/golisp"

	"github.com/jsonpad/jsonpad/internal/app"
)

// Site identifies where a registered command is surfaced.
type Site string

const (
	SiteToolsMenu          Site = "tools-menu"
	SiteTextContextMenu    Site = "text-context-menu"
	SiteOutlineContextMenu Site = "outline-context-menu"
)

// Event names the lifecycle notifications plugins may subscribe to.
type Event string

const (
	EventUIReady         Event = "ui-ready"
	EventLanguageChanged Event = "language-changed"
	EventTokenLoaded     Event = "token-loaded"
	EventFileClosed      Event = "file-closed"
)

// Controller is the stable surface the runtime exposes to plugins.
type Controller interface {
	BufferText() string
	SetBufferText(string)
	InsertText(string)
	StatusMessage(string)
	CurrentLanguage() string
	Translate(key string) string
	// RegisterLocale returns the keys actually added so the runtime can
	// roll them back when a plugin fails mid-load.
	RegisterLocale(lang string, entries map[string]string) []string
	RemoveLocale(lang string, keys []string)
}

// Command is a plugin-contributed menu entry.
type Command struct {
	Label  string
	Site   Site
	Plugin string // source file, for log attribution

	fn *golisp.Data
}

type handler struct {
	plugin string
	fn     *golisp.Data
}

// localeAdd records translations a plugin contributed, per language,
// so a failed load can take them back out.
type localeAdd struct {
	lang string
	keys []string
}

// Runtime holds all plugin registrations. Registrations are populated
// during Load and immutable afterwards.
type Runtime struct {
	ctrl       Controller
	appVersion *semver.Version

	commands   []Command
	handlers   map[Event][]handler
	localeAdds []localeAdd
	loaded     []string

	loadingFile string
}

// current is the runtime the golisp primitives talk to. The golisp
// environment is process-global, so only one runtime can be active.
var current *Runtime

// New creates a runtime bound to ctrl. appVersion gates plugin
// manifests declaring a minimum application version.
func New(ctrl Controller, appVersion string) *Runtime {
	v, err := semver.NewVersion(appVersion)
	if err != nil {
		app.Log.Warningf("plugin: bad app version %q: %v", appVersion, err)
		v = semver.MustParse("0.0.0")
	}
	rt := &Runtime{
		ctrl:       ctrl,
		appVersion: v,
		handlers:   map[Event][]handler{},
	}
	current = rt
	registerPrimitives()
	return rt
}

// Discover returns the plugin files under root, deepest-last, sorted
// for deterministic load order.
func Discover(root string) []string {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			app.Log.Warningf("plugin: discover %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "plugin_") && strings.HasSuffix(name, ".lsp") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		app.Log.Warningf("plugin: discover %s: %v", root, err)
	}
	return files
}

// Load evaluates every discovered plugin file. A file that fails to
// evaluate contributes nothing: its registrations are rolled back.
func (rt *Runtime) Load(root string) {
	for _, path := range Discover(root) {
		rt.loadFile(path)
	}
	app.Log.Infof("plugin: %d loaded from %s", len(rt.loaded), root)
}

func (rt *Runtime) loadFile(path string) {
	cmdMark := len(rt.commands)
	localeMark := len(rt.localeAdds)
	handlerMarks := map[Event]int{}
	for ev, hs := range rt.handlers {
		handlerMarks[ev] = len(hs)
	}

	rt.loadingFile = path
	defer func() { rt.loadingFile = "" }()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		_, err = golisp.ProcessFile(path)
		return err
	}()
	if err != nil {
		app.Log.Errorf("plugin: load %s: %v", path, err)
		rt.commands = rt.commands[:cmdMark]
		for _, la := range rt.localeAdds[localeMark:] {
			rt.ctrl.RemoveLocale(la.lang, la.keys)
		}
		rt.localeAdds = rt.localeAdds[:localeMark]
		for ev := range rt.handlers {
			if mark, ok := handlerMarks[ev]; ok {
				rt.handlers[ev] = rt.handlers[ev][:mark]
			} else {
				delete(rt.handlers, ev)
			}
		}
		return
	}
	rt.loaded = append(rt.loaded, path)
}

// Loaded returns the successfully loaded plugin files.
func (rt *Runtime) Loaded() []string { return rt.loaded }

// MenuItems returns the commands registered for a site.
func (rt *Runtime) MenuItems(site Site) []Command {
	var out []Command
	for _, c := range rt.commands {
		if c.Site == site {
			out = append(out, c)
		}
	}
	return out
}

// Invoke runs a command callback. Failures are logged, never returned.
func (rt *Runtime) Invoke(cmd Command) {
	rt.apply(cmd.Plugin, cmd.fn, golisp.InternalMakeList())
}

// Dispatch notifies every handler subscribed to event. Failures are
// logged per handler; remaining handlers still run.
func (rt *Runtime) Dispatch(event Event, data string) {
	for _, h := range rt.handlers[event] {
		args := golisp.InternalMakeList(
			golisp.StringWithValue(string(event)),
			golisp.StringWithValue(data),
		)
		rt.apply(h.plugin, h.fn, args)
	}
}

func (rt *Runtime) apply(source string, fn *golisp.Data, args *golisp.Data) {
	defer func() {
		if r := recover(); r != nil {
			app.Log.Errorf("plugin: %s: panic in callback: %v", source, r)
		}
	}()
	if _, err := golisp.ApplyWithoutEval(fn, args, golisp.Global); err != nil {
		app.Log.Errorf("plugin: %s: callback: %v", source, err)
	}
}

func siteFromString(s string) (Site, bool) {
	switch Site(s) {
	case SiteToolsMenu, SiteTextContextMenu, SiteOutlineContextMenu:
		return Site(s), true
	}
	return "", false
}

func eventFromString(s string) (Event, bool) {
	switch Event(s) {
	case EventUIReady, EventLanguageChanged, EventTokenLoaded, EventFileClosed:
		return Event(s), true
	}
	return "", false
}

// resourcePath resolves a path relative to the plugin file currently
// loading, mirroring the per-plugin resource layout under plugins/.
func (rt *Runtime) resourcePath(rel string) string {
	if rt.loadingFile == "" {
		return rel
	}
	return filepath.Join(filepath.Dir(rt.loadingFile), rel)
}

// checkManifest enforces a plugin's declared minimum app version.
func (rt *Runtime) checkManifest(name, version, minApp string) error {
	c, err := semver.NewConstraint(">= " + minApp)
	if err != nil {
		return fmt.Errorf("manifest of %s: bad min-app %q: %v", name, minApp, err)
	}
	if !c.Check(rt.appVersion) {
		return fmt.Errorf("%s %s needs app >= %s, have %s", name, version, minApp, rt.appVersion)
	}
	return nil
}

// newUUID is split out so the primitive stays a one-liner.
func newUUID() string { return uuid.NewString() }
