package plan

import (
	"go/types"

	"github.com/samber/lo"

	"versiongen/internal/analyze"
)

// Index records the codec methods generated code declares on every struct
// versioned in one run. The analyzer hides earlier output, so the loaded
// types never show these methods themselves.
type Index map[analyze.TypeID][]string

// NewIndex returns an index of reqs.
func NewIndex(reqs []Request) Index {
	ix := make(Index)
	ix.Add(reqs)

	return ix
}

// Add records the redirect methods of every struct request.
func (ix Index) Add(reqs []Request) {
	for _, r := range reqs {
		if r.Decl == nil || r.Decl.Kind != analyze.DeclKindStruct {
			continue
		}

		methods := ix[r.Decl.ID]
		for _, c := range normalizeOptions(r.Options).Codecs {
			marshal, unmarshal := c.Methods()
			methods = append(methods, marshal, unmarshal)
		}

		ix[r.Decl.ID] = lo.Uniq(methods)
	}
}

// Promoted returns the indexed methods a field of type t promotes when
// embedded: those of t itself and of the structs it embeds in turn.
func (ix Index) Promoted(t types.Type) []string {
	return lo.Uniq(ix.promoted(t, 0))
}

func (ix Index) promoted(t types.Type, depth int) []string {
	if len(ix) == 0 || t == nil || depth > maxInlineDepth {
		return nil
	}

	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
	}

	var methods []string

	if n, ok := types.Unalias(t).(*types.Named); ok && n.Obj().Pkg() != nil {
		id := analyze.TypeID{PkgPath: n.Obj().Pkg().Path(), Name: n.Obj().Name()}
		methods = append(methods, ix[id]...)
	}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return methods
	}

	for i := range st.NumFields() {
		if f := st.Field(i); f.Embedded() {
			methods = append(methods, ix.promoted(f.Type(), depth+1)...)
		}
	}

	return methods
}
