package common

import (
	"unicode"
	"unicode/utf8"
)

const (
	// UnknownStr is the String() fallback of enum-like types.
	UnknownStr = "unknown"
	// GeneratedBy is the tool name written into generated file headers.
	GeneratedBy = "versiongen"
)

// LowerFirst lowercases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
