package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"versiongen/internal/analyze"
	"versiongen/internal/config"
	"versiongen/internal/diagnostic"
	"versiongen/internal/gen"
	"versiongen/internal/match"
	"versiongen/internal/plan"
)

var dump = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                3,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// pipeline loads packages, resolves their configuration and plans every
// requested declaration.
type pipeline struct {
	opts *RootOptions
	log  *logrus.Logger
	// configPath names a configuration shared by every loaded package;
	// empty means each package directory is searched for versiongen.yaml.
	configPath string
	// output overrides the generated file name of every package.
	output string
}

// run plans the packages matched by patterns. Load failures are returned
// as errors; everything wrong with the declarations themselves is reported
// through the plan diagnostics.
func (p *pipeline) run(patterns []string) (*plan.Plan, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	analyzer := analyze.NewAnalyzerWithConfig(analyze.Config{Dir: p.opts.Dir, Tags: p.opts.Tags})

	graph, err := analyzer.LoadPackages(patterns...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading packages", err)
	}

	pkgs := graph.SortedPackages()
	p.log.Debugf("loaded %d package(s) for %v", len(pkgs), patterns)

	files, diags, err := p.configs(pkgs)
	if err != nil {
		return nil, err
	}

	result := &plan.Plan{Diagnostics: diags}

	// Embedding checks need every request of the run before any package is planned.
	index := make(plan.Index)
	requests := make(map[string][]plan.Request, len(pkgs))

	for _, pkg := range pkgs {
		log := p.log.WithField("package", pkg.Path)

		for _, te := range pkg.TypeErrors {
			log.Debugf("tolerated type error: %s", te)
		}

		if len(pkg.GeneratedFiles) > 0 {
			log.Debugf("ignoring earlier output %v", pkg.GeneratedFiles)
		}

		f := files[pkg.Path]
		if f == nil {
			continue
		}

		reqs, d := f.Requests(graph, pkg)
		result.Diagnostics.Merge(d)

		for _, req := range reqs {
			log.Debugf("request %s at version %d: %s", req.Decl.ID.Name, req.Version, dump.Sdump(req.Options))
		}

		index.Add(reqs)
		requests[pkg.Path] = reqs
	}

	for _, pkg := range pkgs {
		f := files[pkg.Path]
		if f == nil {
			continue
		}

		pp, d := plan.PlanPackageWith(pkg, requests[pkg.Path], index)
		result.Diagnostics.Merge(d)

		pp.Output = f.Output
		if p.output != "" {
			pp.Output = p.output
		}

		p.log.WithField("package", pkg.Path).Debugf("planned %d bundle(s) into %s", len(pp.Bundles), pp.Output)

		result.Packages = append(result.Packages, pp)
	}

	return result, nil
}

// configs returns the configuration of every package, keyed by import path.
// A package whose configuration cannot be used is missing from the map and
// reported with an InvalidConfig diagnostic.
func (p *pipeline) configs(pkgs []*analyze.PackageInfo) (map[string]*config.File, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	if p.configPath != "" {
		shared, err := config.LoadFile(p.configPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, diags, WrapExitError(ExitCommandError, "loading configuration", err)
		}

		if err != nil {
			diags.AddError(diagnostic.CodeInvalidConfig, err.Error(), "", p.configPath)
			return nil, diags, nil
		}

		var names []string
		for _, pkg := range pkgs {
			names = append(names, lo.Map(pkg.Types, func(id analyze.TypeID, _ int) string { return id.Name })...)
		}

		files, unclaimed := shared.Split(pkgs)
		for _, entry := range unclaimed {
			diags.AddError(diagnostic.CodeUnknownType,
				fmt.Sprintf("type %s listed in %s is not declared in any loaded package%s",
					entry.Name, p.configPath, match.DidYouMean(entry.Name, names)),
				entry.Name, p.configPath)
		}

		return files, diags, nil
	}

	files := make(map[string]*config.File, len(pkgs))

	for _, pkg := range pkgs {
		if pkg.Dir == "" {
			files[pkg.Path] = config.Default()
			continue
		}

		f, err := config.Discover(pkg.Dir)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidConfig, err.Error(), pkg.Path, filepath.Join(pkg.Dir, config.FileName))
			continue
		}

		files[pkg.Path] = f
	}

	return files, diags, nil
}

// render generates the file of every package with bundles and lists the
// earlier output that the new files do not replace. With sidecars set, source
// that fails to format is left next to its output for inspection.
func render(p *plan.Plan, sidecars bool) ([]gen.GeneratedFile, []string, error) {
	cfg := gen.DefaultGeneratorConfig()
	cfg.DebugUnformatted = sidecars

	g := gen.NewGenerator(cfg)

	files, err := g.Generate(p)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "rendering generated code", err)
	}

	written := make(map[string]bool, len(files))
	for _, f := range files {
		written[f.Path()] = true
	}

	var orphans []string
	for _, pp := range p.Packages {
		for _, path := range pp.Package.GeneratedFiles {
			if !written[path] {
				orphans = append(orphans, path)
			}
		}
	}

	return files, orphans, nil
}

// report logs every diagnostic and converts errors into an ExitError.
func report(log *logrus.Logger, diags diagnostic.Diagnostics) error {
	for _, d := range diags.All() {
		entry := log.WithField("code", d.Code)
		if d.Decl != "" {
			entry = entry.WithField("decl", d.Decl)
		}

		if d.Pos != "" {
			entry = entry.WithField("pos", d.Pos)
		}

		switch d.Severity {
		case diagnostic.DiagnosticError:
			entry.Error(d.Message)
		case diagnostic.DiagnosticWarning:
			entry.Warn(d.Message)
		default:
			entry.Info(d.Message)
		}
	}

	if diags.HasErrors() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d error(s) reported", len(diags.Errors)))
	}

	return nil
}
