package app

import (
	"os"
	"path/filepath"

	"github.com/jsonpad/jsonpad/internal/model"
)

// Settings defaults.
const (
	DefaultZoom = 12
	// MinZoom is the floor for zoom decrements.
	MinZoom = 6

	settingsFile = "settings.json"
	configDir    = "jsonpad"
)

// Settings holds the persisted application preferences. The backing
// document keeps every key it was loaded with, so unknown keys written
// by other versions survive a rewrite.
type Settings struct {
	Language       string
	ZoomLevel      int
	LastSchemaPath string

	path string
	doc  *model.Value
}

// SettingsPath returns the settings file location in the user config
// directory.
func SettingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDir, settingsFile), nil
}

// LoadSettings reads settings from path, creating the file with
// defaults when it is missing. A corrupt file is logged and replaced
// by defaults on the next save.
func LoadSettings(path string) *Settings {
	s := &Settings{
		Language:  locale(),
		ZoomLevel: DefaultZoom,
		path:      path,
		doc:       model.ObjectValue(),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.Save(); err != nil {
			Log.Warningf("settings: create defaults: %v", err)
		}
		return s
	}
	if err != nil {
		Log.Warningf("settings: read: %v", err)
		return s
	}
	doc, perr := model.Parse(string(data))
	if perr != nil || !doc.IsObject() {
		Log.Warningf("settings: parse %s: %v", path, perr)
		return s
	}
	s.doc = doc
	if v, ok := doc.Get("language"); ok && v.Kind == model.KindString {
		s.Language = v.Str
	}
	if v, ok := doc.Get("zoom_level"); ok && v.Kind == model.KindNumber {
		s.ZoomLevel = int(v.Num)
	}
	if v, ok := doc.Get("last_schema_path"); ok && v.Kind == model.KindString {
		s.LastSchemaPath = v.Str
	}
	if s.ZoomLevel < MinZoom {
		s.ZoomLevel = MinZoom
	}
	return s
}

// Save writes the settings, updating the recognized keys on the backing
// document and leaving all others untouched.
func (s *Settings) Save() error {
	s.doc.Set("language", model.StringValue(s.Language))
	s.doc.Set("zoom_level", model.NumberValue(float64(s.ZoomLevel)))
	if s.LastSchemaPath != "" {
		s.doc.Set("last_schema_path", model.StringValue(s.LastSchemaPath))
	} else {
		s.doc.Delete("last_schema_path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return AtomicWriteFile(s.path, []byte(s.doc.Pretty()), FilePerm)
}

// ZoomIn increments the zoom level.
func (s *Settings) ZoomIn() { s.ZoomLevel++ }

// ZoomOut decrements the zoom level, stopping at the floor.
func (s *Settings) ZoomOut() {
	if s.ZoomLevel > MinZoom {
		s.ZoomLevel--
	}
}

// locale guesses an initial language from the environment.
func locale() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); len(v) >= 2 {
			return v[:2]
		}
	}
	return "en"
}
