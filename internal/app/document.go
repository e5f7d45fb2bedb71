package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsonpad/jsonpad/internal/editor"
	"github.com/jsonpad/jsonpad/internal/model"
	"github.com/jsonpad/jsonpad/internal/token"
)

// Origin records where a document's buffer content came from.
type Origin int

const (
	// OriginNone is a fresh, unbacked document.
	OriginNone Origin = iota
	// OriginObject is a document loaded from an object-model file.
	OriginObject
	// OriginToken is a decoded token payload; the undecoded source is
	// retained for reference and in-place saving is disabled.
	OriginToken
)

// ErrUnknownFormat reports a file extension the editor does not open.
var ErrUnknownFormat = errors.New("unknown file format")

// ErrBufferNotParsing signals that a save needs the caller's decision
// because the buffer is not a valid document.
var ErrBufferNotParsing = errors.New("buffer does not parse")

// Document pairs the buffer content with its origin.
type Document struct {
	Path     string
	Origin   Origin
	Text     string // initial buffer content
	RawToken string // three-segment source, token origins only
}

// CanSave reports whether in-place saving is allowed. Token-origin
// documents only export their decoded payload.
func (d *Document) CanSave() bool { return d.Origin != OriginToken }

// OpenPath loads a document by extension: .jwt decodes the token
// payload, .json parses and pretty-prints, anything else is refused.
func OpenPath(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jwt":
		payload, err := token.ExtractPayload(text)
		if err != nil {
			return nil, fmt.Errorf("decode token %s: %w", path, err)
		}
		if v, perr := model.Parse(payload); perr == nil {
			payload = v.Pretty()
		}
		return &Document{Path: path, Origin: OriginToken, Text: payload, RawToken: strings.TrimSpace(text)}, nil
	case ".json":
		v, perr := model.Parse(text)
		if perr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, perr)
		}
		if len(text) < editor.PrettifyThreshold {
			text = v.Pretty()
		}
		return &Document{Path: path, Origin: OriginObject, Text: text}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Save writes the buffer to path: pretty-printed when it parses,
// ErrBufferNotParsing otherwise so the caller can offer a raw save.
func Save(path, bufferText string) error {
	v, err := model.Parse(bufferText)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBufferNotParsing, err)
	}
	return AtomicWriteFile(path, []byte(v.Pretty()), FilePerm)
}

// SaveRaw writes the buffer verbatim.
func SaveRaw(path, bufferText string) error {
	return AtomicWriteFile(path, []byte(bufferText), FilePerm)
}

// LoadPatch reads a merge source: either an object-model file or a
// token whose payload parses.
func LoadPatch(path string) (*model.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if token.LooksLikeToken(text) {
		payload, terr := token.ExtractPayload(text)
		if terr == nil {
			text = payload
		}
	}
	v, perr := model.Parse(text)
	if perr != nil {
		return nil, fmt.Errorf("parse patch %s: %w", path, perr)
	}
	return v, nil
}
