package plan

import (
	"go/types"

	"versiongen/internal/analyze"
)

// Names of the methods generated on the original type and on the wrapper.
const (
	MethodToVersioned   = "ToVersioned"
	MethodUnversioned   = "Unversioned"
	MethodSchemaVersion = "SchemaVersion"
)

// VersionField is the Go name of the synthetic version tag field.
const VersionField = "Version"

// VersionKey is the encoded key of the version tag for every codec.
const VersionKey = "version"

// Request asks for one declaration to be versioned.
type Request struct {
	Decl    *analyze.Decl
	Version uint8
	Options Options
}

// Scope reports package-level names, for collision checks.
type Scope interface {
	Declares(name string) bool
}

// Bundle is the complete output of one transformation.
type Bundle struct {
	// Original is the annotated declaration, emitted unchanged.
	Original *analyze.Decl
	Version  uint8
	Options  Options
	Wrapper  WrapperDecl
	// Receiver names the original value in generated methods and the
	// parameter of the forward conversion.
	Receiver string
	// WrapperReceiver names the wrapper value in generated methods.
	WrapperReceiver string
	// Forward converts original to wrapper (a function named New<Wrapper>).
	Forward Conversion
	// Backward converts wrapper to original (the Unversioned method).
	Backward Conversion
	// Redirects are the codec methods generated on the original type.
	Redirects []Redirect
}

// Name returns the original declaration name.
func (b *Bundle) Name() string {
	return b.Original.ID.Name
}

// GeneratedNames returns every package-level name the bundle declares.
func (b *Bundle) GeneratedNames() []string {
	names := []string{b.Wrapper.Name, b.Forward.Name}
	if b.Wrapper.Inner != "" {
		names = append(names, b.Wrapper.Inner)
	}

	return names
}

// WrapperDecl is the synthesized versioned declaration.
type WrapperDecl struct {
	Name string
	// Inner is the method-free copy of the original struct (flatten layout only).
	Inner  string
	Fields []WrapperField
}

// WrapperField is one field of the wrapper declaration.
type WrapperField struct {
	// Name is the Go field name; for embedded fields the embedded type name.
	Name string
	// Type is the field type copied from the original (splice layout). It is
	// nil for the synthetic version field and for the embedded inner copy.
	Type     types.Type
	Tag      string
	Embedded bool
	// Synthetic marks the version tag field.
	Synthetic bool
	// Inner marks the embedded copy of the original (flatten layout).
	Inner bool
}

// Conversion is a planned conversion between original and wrapper.
type Conversion struct {
	Name string
	// Assignments are the per-field copies (splice layout). Flatten layout
	// converts the whole value at once and has none.
	Assignments []Assignment
}

// Assignment copies one field: Target on the constructed value receives
// Source of the converted value. Synthetic version assignments have no Source.
type Assignment struct {
	Target string
	Source string
}

// Redirect routes one codec through the wrapper.
type Redirect struct {
	Codec     Codec
	Marshal   string
	Unmarshal string
}
