package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/samber/lo"

	"versiongen/internal/analyze"
	"versiongen/internal/diagnostic"
	"versiongen/internal/directive"
	"versiongen/internal/match"
	"versiongen/internal/plan"
)

// Requests builds the transformation requests of one package from the
// directives found in its sources and the type entries of f.
//
// Unsupported declarations still produce requests so the transformer
// reports them; malformed directives and conflicting sources do not.
func (f *File) Requests(graph *analyze.TypeGraph, pkg *analyze.PackageInfo) ([]plan.Request, diagnostic.Diagnostics) {
	var (
		reqs  []plan.Request
		diags diagnostic.Diagnostics
	)

	for _, entry := range f.Types {
		id := analyze.TypeID{PkgPath: pkg.Path, Name: entry.Name}

		switch {
		case graph.GetType(id) != nil:
		case pkg.Declares(entry.Name):
			diags.AddError(diagnostic.CodeUnsupportedDeclarationKind,
				fmt.Sprintf("%s listed in %s is not a type; only structs with named fields can be versioned",
					entry.Name, FileName),
				id.String(), "")
		default:
			diags.AddError(diagnostic.CodeUnknownType,
				fmt.Sprintf("type %s listed in %s is not declared in package %s%s", entry.Name, FileName, pkg.Path,
					match.DidYouMean(entry.Name, typeNames(pkg))),
				id.String(), "")
		}
	}

	for _, id := range pkg.Types {
		decl := graph.GetType(id)
		if decl == nil {
			continue
		}

		entry := f.Entry(id.Name)

		sources := len(decl.Directives)
		if entry != nil {
			sources++
		}

		switch {
		case sources == 0:
			continue

		case sources > 1:
			diags.AddError(diagnostic.CodeMultipleVersionDirectives,
				fmt.Sprintf("%s is versioned %d times; only one version wrapper per declaration is supported",
					id.Name, sources),
				id.String(), decl.PosString())

			continue
		}

		req, err := f.request(decl, entry)
		if err != nil {
			code := diagnostic.CodeInvalidConfig
			if errors.Is(err, directive.ErrMalformed) {
				code = diagnostic.CodeMalformedVersionArgument
			}

			diags.AddError(code, err.Error(), id.String(), decl.PosString())

			continue
		}

		reqs = append(reqs, req)
	}

	return reqs, diags
}

func typeNames(pkg *analyze.PackageInfo) []string {
	return lo.Map(pkg.Types, func(id analyze.TypeID, _ int) string { return id.Name })
}

// request layers the options for one declaration.
func (f *File) request(decl *analyze.Decl, entry *TypeEntry) (plan.Request, error) {
	settings := DefaultSettings()
	if err := mergo.Merge(&settings, f.Settings, mergo.WithOverride); err != nil {
		return plan.Request{}, fmt.Errorf("merging file settings: %w", err)
	}

	var version uint8

	if entry != nil {
		if *entry.Version < 0 || *entry.Version > 255 {
			return plan.Request{}, fmt.Errorf("%w: version %d of %s does not fit the uint8 version tag",
				directive.ErrMalformed, *entry.Version, entry.Name)
		}

		version = uint8(*entry.Version)

		if err := mergo.Merge(&settings, entry.Settings, mergo.WithOverride); err != nil {
			return plan.Request{}, fmt.Errorf("merging settings of %s: %w", entry.Name, err)
		}
	} else {
		d, err := directive.Parse(decl.Directives[0])
		if err != nil {
			return plan.Request{}, err
		}

		version = d.Version

		override := Settings{Layout: d.Layout, Naming: d.Naming, Codecs: d.Codecs}
		if err := mergo.Merge(&settings, override, mergo.WithOverride); err != nil {
			return plan.Request{}, fmt.Errorf("merging directive arguments: %w", err)
		}
	}

	opts, err := settings.Options()
	if err != nil {
		if entry == nil {
			return plan.Request{}, fmt.Errorf("%w: %w", directive.ErrMalformed, err)
		}

		return plan.Request{}, fmt.Errorf("settings of %s: %w", entry.Name, err)
	}

	return plan.Request{Decl: decl, Version: version, Options: opts}, nil
}

// Split distributes the type entries of a file shared by several packages:
// each package receives a copy holding only the entries it declares. Entries
// no package declares are returned so they can be reported once.
func (f *File) Split(pkgs []*analyze.PackageInfo) (map[string]*File, []TypeEntry) {
	files := make(map[string]*File, len(pkgs))
	claimed := make(map[string]bool)

	for _, pkg := range pkgs {
		scoped := *f
		scoped.Types = nil

		for _, entry := range f.Types {
			if pkg.Declares(entry.Name) {
				scoped.Types = append(scoped.Types, entry)
				claimed[entry.Name] = true
			}
		}

		files[pkg.Path] = &scoped
	}

	var unclaimed []TypeEntry
	for _, entry := range f.Types {
		if !claimed[entry.Name] {
			unclaimed = append(unclaimed, entry)
		}
	}

	return files, unclaimed
}
