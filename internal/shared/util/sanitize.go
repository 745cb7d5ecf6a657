package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 120

// ErrInvalidFileName is returned for empty names or traversal attempts.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName strips path separators and control characters, rejects
// traversal patterns and caps the name length while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) > maxFileNameRunes {
		ext := filepath.Ext(s)
		base := []rune(strings.TrimSuffix(s, ext))
		keep := maxFileNameRunes - utf8.RuneCountInString(ext)
		if keep < 1 {
			keep = 1
		}
		if len(base) > keep {
			base = base[:keep]
		}
		s = string(base) + ext
	}
	return s, nil
}
