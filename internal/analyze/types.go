package analyze

import (
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// TypeID uniquely identifies a declaration by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "versiongen/examples/basic"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

//go:generate go tool stringer -type=DeclKind -linecomment -output=declkind_string.go

// DeclKind classifies a package-level declaration.
type DeclKind int

const (
	DeclKindUnknown     DeclKind = iota // unknown
	DeclKindStruct                      // struct
	DeclKindEmptyStruct                 // struct without fields
	DeclKindNamed                       // named non-struct type
	DeclKindInterface                   // interface
	DeclKindAlias                       // type alias
	DeclKindFunc                        // function
	DeclKindValue                       // variable or constant
)

// TypeParam is a type parameter of a generic declaration.
type TypeParam struct {
	Name       string
	Constraint types.Type
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name ("_" for blank fields)
	Exported bool              // Whether the field is exported
	Type     types.Type        // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// IsBlank reports whether the field is a blank "_" field.
func (f *FieldInfo) IsBlank() bool {
	return f.Name == "_"
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if name := tagName(f.Tag.Get("json")); name != "" && name != "-" {
		return name
	}

	return f.Name
}

// YAMLName returns the key gopkg.in/yaml.v3 uses for the field: the tag name
// if present, otherwise the lowercased field name.
func (f *FieldInfo) YAMLName() string {
	if name := tagName(f.Tag.Get("yaml")); name != "" && name != "-" {
		return name
	}

	return strings.ToLower(f.Name)
}

// CBORName returns the key github.com/fxamacker/cbor uses for the field:
// the cbor tag, then the json tag, then the field name.
func (f *FieldInfo) CBORName() string {
	if name := tagName(f.Tag.Get("cbor")); name != "" && name != "-" {
		return name
	}

	return f.JSONName()
}

// Skipped reports whether the codec tag key hides the field ("-").
func (f *FieldInfo) Skipped(key string) bool {
	return f.Tag.Get(key) == "-"
}

// Inlined reports whether the codec tag key merges the field's own fields
// into the parent (yaml ",inline"; untagged embedded structs for json/cbor).
func (f *FieldInfo) Inlined(key string) bool {
	tag := f.Tag.Get(key)
	if key == "yaml" {
		return slices.Contains(strings.Split(tag, ",")[1:], "inline")
	}

	return f.Embedded && tagName(tag) == ""
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// Decl describes a package-level declaration.
type Decl struct {
	ID         TypeID
	Kind       DeclKind
	TypeParams []TypeParam
	Fields     []FieldInfo
	// Methods are the names of methods declared on T and *T.
	Methods []string
	// Directives are the raw versiongen directive lines from the doc comment.
	Directives []string
	// Underlying is a short description of the underlying type, for diagnostics.
	Underlying string
	Pos        token.Position
}

// IsGeneric reports whether the declaration has type parameters.
func (d *Decl) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// HasMethod reports whether a method with the given name is declared on the type.
func (d *Decl) HasMethod(name string) bool {
	return slices.Contains(d.Methods, name)
}

// PosString returns "file.go:line:col" for diagnostics, or "" when unknown.
func (d *Decl) PosString() string {
	if !d.Pos.IsValid() {
		return ""
	}

	return filepath.Base(d.Pos.Filename) + ":" + strconv.Itoa(d.Pos.Line) + ":" + strconv.Itoa(d.Pos.Column)
}

// TypeGraph holds all analyzed declarations from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to Decl for all package-level declarations.
	Types map[TypeID]*Decl
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*Decl),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the Decl for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *Decl {
	return g.Types[id]
}

// SortedPackages returns the loaded packages ordered by import path.
func (g *TypeGraph) SortedPackages() []*PackageInfo {
	pkgs := make([]*PackageInfo, 0, len(g.Packages))
	for _, p := range g.Packages {
		pkgs = append(pkgs, p)
	}

	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Path < pkgs[j].Path
	})

	return pkgs
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources
	Types []TypeID // Declarations defined in this package, in source order
	// Scope holds every package-level name, excluding versiongen output.
	Scope map[string]bool
	// GeneratedFiles are files recognised as earlier versiongen output.
	GeneratedFiles []string
	// TypeErrors are type-checking errors tolerated during loading; they are
	// expected while generated declarations are stale or missing.
	TypeErrors []string
}

// Declares reports whether name is declared at package level.
func (p *PackageInfo) Declares(name string) bool {
	return p.Scope[name]
}

// Annotated returns the declarations of this package carrying directives.
func (p *PackageInfo) Annotated(g *TypeGraph) []*Decl {
	var decls []*Decl
	for _, id := range p.Types {
		if d := g.Types[id]; d != nil && len(d.Directives) > 0 {
			decls = append(decls, d)
		}
	}

	return decls
}
