// Package token implements the base64url codec and the three-segment
// token payload extractor. Tokens are treated as opaque signed strings;
// no signature verification happens here.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMalformedEncoding indicates input that is not valid base64url.
	ErrMalformedEncoding = errors.New("malformed base64url encoding")
	// ErrNotAToken indicates a string without the three-segment shape.
	ErrNotAToken = errors.New("not a three-segment token")
	// ErrNotUTF8 indicates a payload that decoded to invalid UTF-8.
	ErrNotUTF8 = errors.New("payload is not valid UTF-8")
)

// Decode decodes a base64url string, restoring any omitted padding.
func Decode(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return b, nil
}

// Encode encodes bytes as base64url without padding.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// ExtractPayload splits a three-segment token on "." and returns the
// decoded middle segment as text.
func ExtractPayload(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return "", ErrNotAToken
	}
	b, err := Decode(parts[1])
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrNotUTF8
	}
	return string(b), nil
}

// LooksLikeToken reports whether s has the shape of a signed token:
// at least two dot-separated segments of base64url characters.
func LooksLikeToken(s string) bool {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	for _, p := range parts[:2] {
		for _, r := range p {
			switch {
			case r >= 'A' && r <= 'Z':
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-' || r == '_' || r == '=':
			default:
				return false
			}
		}
	}
	return true
}
