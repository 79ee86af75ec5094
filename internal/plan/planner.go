package plan

import (
	"fmt"
	"sort"

	"versiongen/internal/analyze"
	"versiongen/internal/diagnostic"
)

// Plan is the set of bundles for every loaded package.
type Plan struct {
	Packages    []*PackagePlan
	Diagnostics diagnostic.Diagnostics
}

// PackagePlan holds the bundles generated into one package.
type PackagePlan struct {
	Package *analyze.PackageInfo
	// Output is the generated file name; empty means the generator default.
	Output string
	// Bundles are ordered by original declaration name.
	Bundles []*Bundle
}

// Bundles returns every bundle of the plan.
func (p *Plan) Bundles() []*Bundle {
	var bundles []*Bundle
	for _, pp := range p.Packages {
		bundles = append(bundles, pp.Bundles...)
	}

	return bundles
}

// Add plans one package and records its diagnostics.
func (p *Plan) Add(pkg *analyze.PackageInfo, reqs []Request) {
	pp, diags := PlanPackage(pkg, reqs)
	p.Diagnostics.Merge(diags)
	p.Packages = append(p.Packages, pp)
}

// PlanPackage transforms every request of one package and checks that no
// two bundles declare the same name.
func PlanPackage(pkg *analyze.PackageInfo, reqs []Request) (*PackagePlan, diagnostic.Diagnostics) {
	return PlanPackageWith(pkg, reqs, NewIndex(reqs))
}

// PlanPackageWith is PlanPackage for a run that versions more packages; ix
// must hold the requests of all of them.
func PlanPackageWith(pkg *analyze.PackageInfo, reqs []Request, ix Index) (*PackagePlan, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	pp := &PackagePlan{Package: pkg}

	sorted := append([]Request(nil), reqs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Decl.ID.Name < sorted[j].Decl.ID.Name
	})

	owners := make(map[string]string)

	var scope Scope
	if pkg != nil {
		scope = pkg
	}

	for _, req := range sorted {
		b, d := transform(req, scope, ix)
		diags.Merge(d)

		if b == nil {
			continue
		}

		clash := false
		for _, name := range b.GeneratedNames() {
			if owner, ok := owners[name]; ok {
				diags.AddError(diagnostic.CodeNameCollision,
					fmt.Sprintf("generated declaration %s is also generated for %s", name, owner),
					b.Original.ID.String(), b.Original.PosString())
				clash = true
			}
		}

		if clash {
			continue
		}

		for _, name := range b.GeneratedNames() {
			owners[name] = b.Name()
		}

		pp.Bundles = append(pp.Bundles, b)
	}

	return pp, diags
}
