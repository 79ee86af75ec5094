package gen

import (
	"go/types"
	"sort"
	"strconv"
	"strings"

	"versiongen/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet collects the imports of one generated file and hands out local
// names that clash neither with each other nor with package-level names.
type importSet struct {
	self    string
	names   map[string]string // path -> local name
	pkgName map[string]string // path -> declared package name
	taken   map[string]bool
	// reserved reports names already declared in the package.
	reserved func(string) bool
}

func newImportSet(self string, reserved func(string) bool) *importSet {
	return &importSet{
		self:     self,
		names:    make(map[string]string),
		pkgName:  make(map[string]string),
		taken:    make(map[string]bool),
		reserved: reserved,
	}
}

// add imports path and returns the local name to qualify it with, or "" for
// the package being generated into.
func (s *importSet) add(path, name string) string {
	if path == "" || path == s.self {
		return ""
	}

	if local, ok := s.names[path]; ok {
		return local
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	local := name
	for i := 2; s.taken[local] || s.reserved != nil && s.reserved(local); i++ {
		local = name + strconv.Itoa(i)
	}

	s.names[path] = local
	s.pkgName[path] = name
	s.taken[local] = true

	return local
}

// qualifier qualifies types from other packages in the generated file.
func (s *importSet) qualifier(pkg *types.Package) string {
	return s.add(pkg.Path(), pkg.Name())
}

// specs returns the import statements in groups: standard library, other
// modules, then packages sharing the first path element of the generated
// package. Each group is ordered by path. An alias is only written when the
// local name differs from the package name.
func (s *importSet) specs() [][]importSpec {
	groups := make([][]importSpec, 3)
	for path, local := range s.names {
		spec := importSpec{Path: path}
		if local != s.pkgName[path] {
			spec.Alias = local
		}

		g := importGroup(path, s.self)
		groups[g] = append(groups[g], spec)
	}

	var out [][]importSpec
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}

		sort.Slice(g, func(i, j int) bool {
			return g[i].Path < g[j].Path
		})

		out = append(out, g)
	}

	return out
}

// importGroup classifies path the way goimports does, with the generated
// package's own tree last.
func importGroup(path, self string) int {
	first, _, _ := strings.Cut(path, "/")
	own, _, _ := strings.Cut(self, "/")

	switch {
	case first == own:
		return 2
	case !strings.Contains(first, "."):
		return 0
	default:
		return 1
	}
}
