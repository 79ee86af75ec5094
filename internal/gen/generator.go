package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"versiongen/internal/analyze"
	"versiongen/internal/plan"
)

// VersionedPkgPath is the import path of the contract package referenced by
// interface assertions.
const VersionedPkgPath = "versiongen/pkg/versioned"

// DefaultOutput is the file each package's declarations are written to.
const DefaultOutput = "versioned_gen.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Output is the generated file name used when a package plan names none.
	Output string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// DebugUnformatted writes a <output>.unformatted sidecar next to the
	// output when the rendered source cannot be formatted.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Output:           DefaultOutput,
		GenerateComments: true,
		DebugUnformatted: true,
	}
}

// Generator renders planned bundles to Go source.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Output == "" {
		config.Output = DefaultOutput
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs to.
	Dir string
	// Filename is the name of the file (e.g., "versioned_gen.go").
	Filename string
	// Package is the import path of the package.
	Package string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the location of the file on disk.
func (f *GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders one file for every package of the plan that has bundles.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for _, pp := range p.Packages {
		if len(pp.Bundles) == 0 {
			continue
		}

		file, err := g.GeneratePackage(pp)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", pp.Package.Path, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// Filename returns the output file name for a package plan.
func (g *Generator) Filename(pp *plan.PackagePlan) string {
	if pp.Output != "" {
		return pp.Output
	}

	return g.config.Output
}

// GeneratePackage renders the bundles of one package into a single file.
func (g *Generator) GeneratePackage(pp *plan.PackagePlan) (*GeneratedFile, error) {
	pkg := pp.Package

	generated := make(map[string]bool)
	for _, b := range pp.Bundles {
		for _, name := range b.GeneratedNames() {
			generated[name] = true
		}
	}

	imports := newImportSet(pkg.Path, func(name string) bool {
		return pkg.Declares(name) || generated[name]
	})

	data := &fileData{
		PackageName: pkg.Name,
	}

	for _, b := range pp.Bundles {
		bd, err := g.buildBundleData(b, imports)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		data.Bundles = append(data.Bundles, bd)
	}

	data.Imports = imports.specs()

	file := &GeneratedFile{
		Dir:      pkg.Dir,
		Filename: g.Filename(pp),
		Package:  pkg.Path,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugUnformatted {
			_ = writeDebugUnformatted(file.Dir, file.Filename, buf.Bytes())
		}

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w", err)
	}

	file.Content = formatted

	return file, nil
}

// fileData is the data for the file template.
type fileData struct {
	PackageName string
	Imports     [][]importSpec
	Bundles     []*bundleData
}

// bundleData is the data for the bundle template.
type bundleData struct {
	Comments bool
	Flatten  bool
	Layout   string

	Name        string
	Type        string // original type, instantiated with its own type params
	TypeParams  string // "[T any]" or ""
	Wrapper     string
	WrapperType string
	Inner       string
	InnerType   string
	Constructor string

	Version      uint8
	VersionField string
	Recv         string
	WRecv        string

	Fields   []fieldData
	Forward  []plan.Assignment
	Backward []plan.Assignment
	Codecs   []codecData

	// Versioned is the local name of the contract package when assertions
	// are generated.
	Versioned string
}

type fieldData struct {
	Name     string
	Type     string
	Tag      string
	Embedded bool
}

type codecData struct {
	Name      string
	Pkg       string
	Marshal   string
	Unmarshal string
	// Node marks codecs whose unmarshal hook receives a decoded node
	// instead of raw bytes.
	Node bool
}

func (g *Generator) buildBundleData(b *plan.Bundle, imports *importSet) (*bundleData, error) {
	d := b.Original

	params, args := typeParamLists(d.TypeParams, imports.qualifier)

	bd := &bundleData{
		Comments:     g.config.GenerateComments,
		Flatten:      b.Options.Layout == plan.LayoutFlatten,
		Layout:       b.Options.Layout.String(),
		Name:         d.ID.Name,
		Type:         d.ID.Name + args,
		TypeParams:   params,
		Wrapper:      b.Wrapper.Name,
		WrapperType:  b.Wrapper.Name + args,
		Constructor:  b.Forward.Name,
		Version:      b.Version,
		VersionField: plan.VersionField,
		Recv:         b.Receiver,
		WRecv:        b.WrapperReceiver,
		Forward:      b.Forward.Assignments,
		Backward:     b.Backward.Assignments,
	}

	if b.Wrapper.Inner != "" {
		bd.Inner = b.Wrapper.Inner
		bd.InnerType = b.Wrapper.Inner + args
	}

	for _, f := range b.Wrapper.Fields {
		fd := fieldData{Name: f.Name, Tag: f.Tag, Embedded: f.Embedded}

		switch {
		case f.Synthetic:
			fd.Type = "uint8"
		case f.Inner:
			fd.Type = bd.InnerType
		case f.Type != nil:
			fd.Type = types.TypeString(f.Type, imports.qualifier)
		default:
			return nil, fmt.Errorf("field %s has no type", f.Name)
		}

		bd.Fields = append(bd.Fields, fd)
	}

	for _, r := range b.Redirects {
		bd.Codecs = append(bd.Codecs, codecData{
			Name:      r.Codec.String(),
			Pkg:       imports.add(r.Codec.ImportPath(), codecPkgName(r.Codec)),
			Marshal:   r.Marshal,
			Unmarshal: r.Unmarshal,
			Node:      r.Codec == plan.CodecYAML,
		})
	}

	// Assertions need a concrete instantiation, which generic declarations lack.
	if b.Options.AssertInterfaces && !d.IsGeneric() {
		bd.Versioned = imports.add(VersionedPkgPath, "versioned")
	}

	return bd, nil
}

// codecPkgName is the package name declared by the codec's import path.
func codecPkgName(c plan.Codec) string {
	switch c {
	case plan.CodecYAML:
		return "yaml"
	case plan.CodecCBOR:
		return "cbor"
	default:
		return "json"
	}
}

// typeParamLists renders a declaration's type parameter list and the
// matching argument list, e.g. "[K comparable, V any]" and "[K, V]".
func typeParamLists(tps []analyze.TypeParam, q types.Qualifier) (string, string) {
	if len(tps) == 0 {
		return "", ""
	}

	params := lo.Map(tps, func(tp analyze.TypeParam, _ int) string {
		constraint := "any"
		if tp.Constraint != nil {
			constraint = types.TypeString(tp.Constraint, q)
		}

		return tp.Name + " " + constraint
	})
	args := lo.Map(tps, func(tp analyze.TypeParam, _ int) string { return tp.Name })

	return "[" + strings.Join(params, ", ") + "]", "[" + strings.Join(args, ", ") + "]"
}
