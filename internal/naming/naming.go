// Package naming derives the names of generated declarations.
//
// Wrapper names are a pure function of (type name, version, style) and are
// injective for a fixed style: the version is rendered in canonical decimal
// and always follows the last separator letter, which never occurs in a
// decimal number, so the pair can be recovered from the name.
package naming

import (
	"fmt"
	"strconv"
	"strings"

	"versiongen/internal/common"
)

//go:generate go tool stringer -type=Style -linecomment -output=style_string.go

// Style selects the wrapper naming convention.
type Style int

const (
	StyleSuffix     Style = iota // suffix
	StyleUnderscore              // underscore
)

// ParseStyle parses a style name as written in directives and config files.
func ParseStyle(s string) (Style, error) {
	for st := StyleSuffix; st <= StyleUnderscore; st++ {
		if st.String() == s {
			return st, nil
		}
	}

	return 0, fmt.Errorf("unknown naming style %q (want suffix or underscore)", s)
}

// Wrapper returns the versioned wrapper name for typeName at version.
//
//	StyleSuffix:     Order, 3 -> OrderV3
//	StyleUnderscore: Order, 3 -> _Orderv3
func Wrapper(typeName string, version uint8, style Style) string {
	v := strconv.FormatUint(uint64(version), 10)
	if style == StyleUnderscore {
		return "_" + typeName + "v" + v
	}

	return typeName + "V" + v
}

// Inner returns the name of the method-free copy of the original struct
// embedded by flatten-layout wrappers. It is unexported and derived from
// the wrapper name, so it is injective too.
func Inner(wrapperName string) string {
	return common.LowerFirst(wrapperName) + "Fields"
}

// Constructor returns the name of the forward conversion function.
func Constructor(wrapperName string) string {
	if strings.HasPrefix(wrapperName, "_") {
		return "new" + wrapperName
	}

	return "New" + wrapperName
}

// Parse recovers (typeName, version) from a wrapper name produced by Wrapper
// with the given style. It reports false for names Wrapper cannot produce.
func Parse(wrapperName string, style Style) (string, uint8, bool) {
	sep := "V"
	rest := wrapperName
	if style == StyleUnderscore {
		if !strings.HasPrefix(rest, "_") {
			return "", 0, false
		}

		rest = rest[1:]
		sep = "v"
	}

	i := strings.LastIndex(rest, sep)
	if i <= 0 {
		return "", 0, false
	}

	digits := rest[i+1:]
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return "", 0, false
	}

	v, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return "", 0, false
	}

	return rest[:i], uint8(v), true
}
