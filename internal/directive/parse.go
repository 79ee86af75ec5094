package directive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"versiongen/internal/match"
)

// Prefix starts every versiongen directive comment.
const Prefix = "//versiongen:"

// Verb is the only directive verb understood by the generator.
const Verb = "version"

// ErrMalformed is wrapped by every error returned from Parse.
var ErrMalformed = errors.New("malformed version directive")

// Option keys accepted after the version literal.
const (
	KeyLayout = "layout"
	KeyNaming = "naming"
	KeyCodecs = "codecs"
)

// Directive is a parsed //versiongen:version comment.
type Directive struct {
	// Version is the version tag stamped into wrappers.
	Version uint8
	// Literal is the version literal as written.
	Literal string
	// Layout, Naming and Codecs are per-declaration overrides; empty when absent.
	Layout string
	Naming string
	Codecs []string
}

// IsDirective reports whether a raw comment line is a versiongen directive.
func IsDirective(comment string) bool {
	return strings.HasPrefix(comment, Prefix)
}

// Parse parses a raw comment line such as "//versiongen:version 3".
func Parse(comment string) (*Directive, error) {
	if !IsDirective(comment) {
		return nil, fmt.Errorf("%w: %q does not start with %s", ErrMalformed, comment, Prefix)
	}

	fields := strings.Fields(strings.TrimPrefix(comment, Prefix))
	if len(fields) == 0 || fields[0] != Verb {
		return nil, fmt.Errorf("%w: expected %s%s <version>", ErrMalformed, Prefix, Verb)
	}

	args := fields[1:]
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing version argument", ErrMalformed)
	}

	version, err := ParseVersion(args[0])
	if err != nil {
		return nil, err
	}

	d := &Directive{Version: version, Literal: args[0]}

	seen := make(map[string]bool)
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("%w: argument %q is not key=value", ErrMalformed, arg)
		}

		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate argument %q", ErrMalformed, key)
		}
		seen[key] = true

		switch key {
		case KeyLayout:
			d.Layout = value
		case KeyNaming:
			d.Naming = value
		case KeyCodecs:
			d.Codecs = strings.Split(value, ",")
		default:
			return nil, fmt.Errorf("%w: unknown argument %q%s", ErrMalformed, key,
				match.DidYouMean(key, []string{KeyLayout, KeyNaming, KeyCodecs}))
		}
	}

	return d, nil
}

// ParseVersion parses a version literal. Any Go integer literal form is
// accepted ("3", "0x03", "0b11", "1_0"); the value must fit in a uint8.
func ParseVersion(lit string) (uint8, error) {
	if lit == "" {
		return 0, fmt.Errorf("%w: missing version argument", ErrMalformed)
	}

	if lit[0] == '-' || lit[0] == '+' {
		return 0, fmt.Errorf("%w: version %q must be a non-negative integer literal", ErrMalformed, lit)
	}

	v, err := strconv.ParseUint(lit, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q is not an integer literal", ErrMalformed, lit)
	}

	if v > 255 {
		return 0, fmt.Errorf("%w: version %d does not fit the uint8 version tag", ErrMalformed, v)
	}

	return uint8(v), nil
}
