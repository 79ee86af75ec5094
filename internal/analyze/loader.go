package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"versiongen/internal/common"
	"versiongen/internal/directive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// generatedHeader starts the first line of every file versiongen writes.
const generatedHeader = "// Code generated by " + common.GeneratedBy + "."

// Config controls package loading.
type Config struct {
	// Dir is the directory patterns are resolved from (default: current directory).
	Dir string
	// Tags are extra build tags.
	Tags []string
	// Overlay replaces or adds file contents, keyed by absolute path.
	Overlay map[string][]byte
}

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	config Config
	graph  *TypeGraph
	// generated collects files recognised as versiongen output while parsing.
	mu        sync.Mutex
	generated map[string]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(Config{})
}

// NewAnalyzerWithConfig creates a new Analyzer using the given loading configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{
		config:    config,
		graph:     NewTypeGraph(),
		generated: make(map[string]bool),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/basic", "versiongen/examples/splice").
//
// Type-checking errors do not fail loading: user code may reference
// declarations that only exist once generation has run. They are recorded
// on PackageInfo.TypeErrors instead. List and parse errors are fatal.
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode:      LoadMode,
		Dir:       a.config.Dir,
		ParseFile: a.parseFile,
		Overlay:   a.config.Overlay,
	}

	if len(a.config.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.config.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				continue
			}

			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// parseFile parses a source file, keeping comments for directives. Files
// previously generated by versiongen are reduced to their package clause,
// even when they no longer parse.
func (a *Analyzer) parseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	f, err := parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
	if f == nil || !isGeneratedOutput(f) {
		return f, err
	}

	// packages.Load may parse files concurrently.
	a.markGenerated(filename)

	return &ast.File{
		Package:   f.Package,
		Name:      f.Name,
		FileStart: f.FileStart,
		FileEnd:   f.FileEnd,
	}, nil
}

func (a *Analyzer) markGenerated(filename string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generated[filename] = true
}

func (a *Analyzer) isGenerated(filename string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.generated[filename]
}

// isGeneratedOutput reports whether f carries the versiongen header
// before its package clause.
func isGeneratedOutput(f *ast.File) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}

		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, generatedHeader) {
				return true
			}
		}
	}

	return false
}

// processPackage extracts declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	if pkg.Types == nil {
		return errors.New("missing type information")
	}

	pkgInfo := &PackageInfo{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Scope: make(map[string]bool),
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.GoFiles {
		if a.isGenerated(file) {
			pkgInfo.GeneratedFiles = append(pkgInfo.GeneratedFiles, file)
		}
	}

	for _, e := range pkg.Errors {
		pkgInfo.TypeErrors = append(pkgInfo.TypeErrors, e.Error())
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		pkgInfo.Scope[name] = true
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			for _, d := range a.extractDecls(pkg, decl) {
				a.graph.Types[d.ID] = d
				pkgInfo.Types = append(pkgInfo.Types, d.ID)
			}
		}
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

// extractDecls returns the declarations of interest in one top-level
// declaration: every type spec, plus functions, variables and constants that
// carry a directive (so misuse can be reported).
func (a *Analyzer) extractDecls(pkg *packages.Package, decl ast.Decl) []*Decl {
	switch dd := decl.(type) {
	case *ast.FuncDecl:
		directives := directivesOf(dd.Doc)
		if len(directives) == 0 || dd.Recv != nil {
			return nil
		}

		return []*Decl{{
			ID:         TypeID{PkgPath: pkg.PkgPath, Name: dd.Name.Name},
			Kind:       DeclKindFunc,
			Directives: directives,
			Underlying: "func",
			Pos:        pkg.Fset.Position(dd.Name.Pos()),
		}}

	case *ast.GenDecl:
		var decls []*Decl
		for _, spec := range dd.Specs {
			doc := specDoc(spec)
			if doc == nil && len(dd.Specs) == 1 {
				doc = dd.Doc
			}

			switch s := spec.(type) {
			case *ast.TypeSpec:
				d := a.analyzeTypeSpec(pkg, s)
				d.Directives = directivesOf(doc)
				decls = append(decls, d)

			case *ast.ValueSpec:
				directives := directivesOf(doc)
				if len(directives) == 0 {
					continue
				}

				for _, name := range s.Names {
					decls = append(decls, &Decl{
						ID:         TypeID{PkgPath: pkg.PkgPath, Name: name.Name},
						Kind:       DeclKindValue,
						Directives: directives,
						Underlying: dd.Tok.String(),
						Pos:        pkg.Fset.Position(name.Pos()),
					})
				}
			}
		}

		return decls
	}

	return nil
}

func specDoc(spec ast.Spec) *ast.CommentGroup {
	switch s := spec.(type) {
	case *ast.TypeSpec:
		return s.Doc
	case *ast.ValueSpec:
		return s.Doc
	}

	return nil
}

// directivesOf returns the versiongen directive lines of a doc comment.
func directivesOf(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	var directives []string
	for _, c := range doc.List {
		if directive.IsDirective(c.Text) {
			directives = append(directives, strings.TrimSpace(c.Text))
		}
	}

	return directives
}

// analyzeTypeSpec classifies a type spec and collects its fields, type
// parameters and methods.
func (a *Analyzer) analyzeTypeSpec(pkg *packages.Package, spec *ast.TypeSpec) *Decl {
	d := &Decl{
		ID:   TypeID{PkgPath: pkg.PkgPath, Name: spec.Name.Name},
		Kind: DeclKindUnknown,
		Pos:  pkg.Fset.Position(spec.Name.Pos()),
	}

	if spec.Assign.IsValid() {
		d.Kind = DeclKindAlias
		d.Underlying = "alias"
		return d
	}

	obj, ok := pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok || obj == nil {
		return d
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return d
	}

	for i := 0; i < named.TypeParams().Len(); i++ {
		tp := named.TypeParams().At(i)
		d.TypeParams = append(d.TypeParams, TypeParam{
			Name:       tp.Obj().Name(),
			Constraint: tp.Constraint(),
		})
	}

	for i := 0; i < named.NumMethods(); i++ {
		d.Methods = append(d.Methods, named.Method(i).Name())
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		d.Kind = DeclKindStruct
		d.Underlying = "struct"
		d.Fields = structFields(ut)

		if len(d.Fields) == 0 {
			d.Kind = DeclKindEmptyStruct
		}

	case *types.Interface:
		d.Kind = DeclKindInterface
		d.Underlying = "interface"

	default:
		d.Kind = DeclKindNamed
		d.Underlying = types.TypeString(ut, types.RelativeTo(pkg.Types))
	}

	return d
}

// structFields extracts every field of a struct type, exported or not.
func structFields(st *types.Struct) []FieldInfo {
	fields := make([]FieldInfo, 0, st.NumFields())

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		fields = append(fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     field.Type(),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}

	return fields
}

// FieldsOf returns the fields of a struct type (or named struct type), or
// nil when t is not a struct. Used to look through embedded fields.
func FieldsOf(t types.Type) []FieldInfo {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	return structFields(st)
}
