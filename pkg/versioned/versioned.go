// Package versioned is the runtime side of versiongen. Generated wrappers
// satisfy Wrapper, the types they version satisfy Source, and the helpers
// here work against either without naming a concrete version.
package versioned

import (
	"errors"
	"fmt"
)

// Key is the document key of the version tag for every supported codec.
const Key = "version"

// ErrNoVersion is returned by Peek for documents without a version tag.
var ErrNoVersion = errors.New("document carries no version tag")

// Wrapper is implemented by every generated wrapper of T.
type Wrapper[T any] interface {
	// Unversioned converts the wrapper back, dropping the version tag.
	Unversioned() T
	// SchemaVersion returns the version tag the wrapper carries.
	SchemaVersion() uint8
}

// Source is implemented by every type with a generated wrapper W.
type Source[W any] interface {
	ToVersioned() W
}

// RoundTrip sends v through forward and back. It returns v unchanged for
// every generated forward conversion.
func RoundTrip[T any, W Wrapper[T]](v T, forward func(T) W) T {
	return forward(v).Unversioned()
}

// Stamp returns the version tag forward writes.
func Stamp[T any, W Wrapper[T]](v T, forward func(T) W) uint8 {
	return forward(v).SchemaVersion()
}

// Unmarshaler decodes a document into a Go value; json.Unmarshal,
// yaml.Unmarshal and cbor.Unmarshal all have this shape.
type Unmarshaler func(data []byte, v any) error

// Peek reads only the version tag of an encoded document, so callers can
// pick the matching wrapper before decoding the rest.
func Peek(data []byte, unmarshal Unmarshaler) (uint8, error) {
	var tag struct {
		Version *uint8 `json:"version" yaml:"version" cbor:"version"`
	}

	if err := unmarshal(data, &tag); err != nil {
		return 0, fmt.Errorf("reading version tag: %w", err)
	}

	if tag.Version == nil {
		return 0, ErrNoVersion
	}

	return *tag.Version, nil
}
