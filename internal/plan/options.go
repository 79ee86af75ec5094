package plan

import (
	"fmt"

	"versiongen/internal/naming"
)

//go:generate go tool stringer -type=Layout,Codec -linecomment -output=options_string.go

// Layout selects how the wrapper carries the original fields.
type Layout int

const (
	// LayoutFlatten embeds a method-free copy of the struct; codecs flatten it.
	LayoutFlatten Layout = iota // flatten
	// LayoutSplice copies every field of the struct into the wrapper.
	LayoutSplice // splice
)

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, error) {
	for l := LayoutFlatten; l <= LayoutSplice; l++ {
		if l.String() == s {
			return l, nil
		}
	}

	return 0, fmt.Errorf("unknown layout %q (want flatten or splice)", s)
}

// Codec is a serialization collaborator whose save/load is redirected
// through the wrapper.
type Codec int

const (
	CodecJSON Codec = iota // json
	CodecYAML              // yaml
	CodecCBOR              // cbor
)

// ParseCodec parses a codec name.
func ParseCodec(s string) (Codec, error) {
	for c := CodecJSON; c <= CodecCBOR; c++ {
		if c.String() == s {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown codec %q (want json, yaml or cbor)", s)
}

// TagKey is the struct tag key the codec reads.
func (c Codec) TagKey() string {
	return c.String()
}

// ImportPath is the package generated code imports for the codec.
func (c Codec) ImportPath() string {
	switch c {
	case CodecYAML:
		return "gopkg.in/yaml.v3"
	case CodecCBOR:
		return "github.com/fxamacker/cbor/v2"
	default:
		return "encoding/json"
	}
}

// Methods returns the marshal and unmarshal method names the codec calls.
func (c Codec) Methods() (string, string) {
	switch c {
	case CodecYAML:
		return "MarshalYAML", "UnmarshalYAML"
	case CodecCBOR:
		return "MarshalCBOR", "UnmarshalCBOR"
	default:
		return "MarshalJSON", "UnmarshalJSON"
	}
}

// Hooks returns every method the codec library looks for on a value. Besides
// Methods, encoding/json and yaml.v3 use encoding.TextMarshaler and
// fxamacker/cbor uses encoding.BinaryMarshaler.
func (c Codec) Hooks() []string {
	marshal, unmarshal := c.Methods()
	if c == CodecCBOR {
		return []string{marshal, unmarshal, "MarshalBinary", "UnmarshalBinary"}
	}

	return []string{marshal, unmarshal, "MarshalText", "UnmarshalText"}
}

// Options control one transformation.
type Options struct {
	Layout Layout
	Naming naming.Style
	Codecs []Codec
	// AssertInterfaces adds compile-time assertions against pkg/versioned.
	AssertInterfaces bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Layout: LayoutFlatten,
		Naming: naming.StyleSuffix,
		Codecs: []Codec{CodecJSON},
	}
}
