package plan

import (
	"go/token"
	"go/types"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versiongen/internal/analyze"
	"versiongen/internal/diagnostic"
	"versiongen/internal/naming"
)

const testPkg = "example/store"

func field(name string, t types.Type, tag string) analyze.FieldInfo {
	return analyze.FieldInfo{
		Name:     name,
		Exported: token.IsExported(name),
		Type:     t,
		Tag:      reflect.StructTag(tag),
	}
}

func structDecl(name string, fields ...analyze.FieldInfo) *analyze.Decl {
	for i := range fields {
		fields[i].Index = i
	}

	return &analyze.Decl{
		ID:     analyze.TypeID{PkgPath: testPkg, Name: name},
		Kind:   analyze.DeclKindStruct,
		Fields: fields,
	}
}

// namedStruct builds a named struct type usable as a field type.
func namedStruct(name string, fields ...*types.Var) *types.Named {
	pkg := types.NewPackage(testPkg, "store")
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)

	return types.NewNamed(obj, types.NewStruct(fields, nil), nil)
}

func scopeOf(names ...string) *analyze.PackageInfo {
	scope := make(map[string]bool)
	for _, n := range names {
		scope[n] = true
	}

	return &analyze.PackageInfo{Path: testPkg, Name: "store", Scope: scope}
}

func TestTransform_FlattenSingleField(t *testing.T) {
	decl := structDecl("S", field("I", types.Typ[types.Int32], `json:"i"`))

	b, diags := Transform(Request{Decl: decl, Version: 1, Options: DefaultOptions()}, scopeOf("S"))
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, b)

	assert.Equal(t, "SV1", b.Wrapper.Name)
	assert.Equal(t, "sV1Fields", b.Wrapper.Inner)
	assert.Equal(t, "NewSV1", b.Forward.Name)
	assert.Equal(t, MethodUnversioned, b.Backward.Name)
	assert.Equal(t, "s", b.Receiver)
	assert.Equal(t, "w", b.WrapperReceiver)
	assert.Equal(t, uint8(1), b.Version)

	require.Len(t, b.Wrapper.Fields, 2, spew.Sdump(b.Wrapper))
	version := b.Wrapper.Fields[0]
	assert.Equal(t, VersionField, version.Name)
	assert.True(t, version.Synthetic)
	assert.Equal(t, `json:"version"`, version.Tag)

	inner := b.Wrapper.Fields[1]
	assert.True(t, inner.Inner)
	assert.True(t, inner.Embedded)
	assert.Equal(t, "sV1Fields", inner.Name)
	assert.Empty(t, inner.Tag)

	assert.Empty(t, b.Forward.Assignments)
	assert.Empty(t, b.Backward.Assignments)

	require.Len(t, b.Redirects, 1)
	assert.Equal(t, Redirect{Codec: CodecJSON, Marshal: "MarshalJSON", Unmarshal: "UnmarshalJSON"}, b.Redirects[0])
	assert.ElementsMatch(t, []string{"SV1", "NewSV1", "sV1Fields"}, b.GeneratedNames())
}

func TestTransform_SpliceMultiField(t *testing.T) {
	decl := structDecl("Record",
		field("I", types.Typ[types.Int], `json:"i"`),
		field("Name", types.Typ[types.String], `json:"name"`),
	)

	opts := DefaultOptions()
	opts.Layout = LayoutSplice

	b, diags := Transform(Request{Decl: decl, Version: 7, Options: opts}, scopeOf("Record"))
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, b)

	assert.Equal(t, "RecordV7", b.Wrapper.Name)
	assert.Empty(t, b.Wrapper.Inner)

	// version tag first, then every original field in order
	names := make([]string, 0, len(b.Wrapper.Fields))
	for _, f := range b.Wrapper.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Version", "I", "Name"}, names)

	// field fidelity: same name, identical type, same tag
	for i, orig := range decl.Fields {
		wf := b.Wrapper.Fields[i+1]
		assert.Equal(t, orig.Name, wf.Name)
		assert.True(t, types.Identical(orig.Type, wf.Type), orig.Name)
		assert.Equal(t, string(orig.Tag), wf.Tag)
	}

	assert.Equal(t, []Assignment{
		{Target: "Version"},
		{Target: "I", Source: "I"},
		{Target: "Name", Source: "Name"},
	}, b.Forward.Assignments)
	assert.Equal(t, []Assignment{
		{Target: "I", Source: "I"},
		{Target: "Name", Source: "Name"},
	}, b.Backward.Assignments)
}

func TestTransform_BackwardInvertsForward(t *testing.T) {
	addr := namedStruct("Address", types.NewField(token.NoPos, nil, "City", types.Typ[types.String], false))
	decl := structDecl("Customer",
		field("ID", types.Typ[types.Int64], ""),
		field("Score", types.Typ[types.Float64], ""),
		field("Tags", types.NewSlice(types.Typ[types.String]), ""),
		field("Address", addr, ""),
		field("internal", types.Typ[types.Bool], ""),
	)

	opts := DefaultOptions()
	opts.Layout = LayoutSplice

	b, diags := Transform(Request{Decl: decl, Version: 2, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())

	// Composing the two assignment lists maps every field back onto itself.
	forward := make(map[string]string)
	for _, a := range b.Forward.Assignments {
		forward[a.Target] = a.Source
	}

	require.Len(t, b.Backward.Assignments, len(decl.Fields))
	for _, a := range b.Backward.Assignments {
		assert.Equal(t, a.Target, forward[a.Source], a.Target)
	}

	assert.Equal(t, "", forward[VersionField])
}

func TestTransform_SpliceSkipsBlankFields(t *testing.T) {
	decl := structDecl("Padded",
		field("A", types.Typ[types.Int], ""),
		field("_", types.Typ[types.Int], ""),
		field("B", types.Typ[types.Int], ""),
	)

	opts := DefaultOptions()
	opts.Layout = LayoutSplice

	b, diags := Transform(Request{Decl: decl, Version: 1, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())
	assert.Len(t, b.Wrapper.Fields, 3)
	assert.Len(t, b.Backward.Assignments, 2)
	assert.Empty(t, diags.Warnings)
}

func TestTransform_SpliceWarnsOnTaggedBlankField(t *testing.T) {
	decl := structDecl("Point",
		field("_", types.NewStruct(nil, nil), `cbor:",toarray"`),
		field("X", types.Typ[types.Int], ""),
		field("Y", types.Typ[types.Int], ""),
	)

	opts := DefaultOptions()
	opts.Layout = LayoutSplice
	opts.Codecs = []Codec{CodecJSON, CodecCBOR}

	b, diags := Transform(Request{Decl: decl, Version: 2, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, b)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeDroppedBlankField, diags.Warnings[0].Code)
	assert.Contains(t, diags.Warnings[0].Message, `",toarray"`)

	// Tags of codecs that are not redirected do not matter.
	opts.Codecs = []Codec{CodecJSON}
	_, diags = Transform(Request{Decl: decl, Version: 2, Options: opts}, nil)
	assert.Empty(t, diags.Warnings)

	// The flatten layout keeps the blank field inside the embedded copy.
	opts = DefaultOptions()
	opts.Codecs = []Codec{CodecCBOR}
	_, diags = Transform(Request{Decl: decl, Version: 2, Options: opts}, nil)
	assert.Empty(t, diags.Warnings)
}

func TestTransform_CodecsNormalized(t *testing.T) {
	decl := structDecl("Order", field("ID", types.Typ[types.Int64], `json:"id" yaml:"id"`))

	opts := DefaultOptions()
	opts.Codecs = []Codec{CodecCBOR, CodecYAML, CodecJSON, CodecYAML}

	b, diags := Transform(Request{Decl: decl, Version: 3, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())

	assert.Equal(t, []Codec{CodecJSON, CodecYAML, CodecCBOR}, b.Options.Codecs)
	assert.Equal(t, `json:"version" yaml:"version" cbor:"version"`, b.Wrapper.Fields[0].Tag)
	assert.Equal(t, `yaml:",inline"`, b.Wrapper.Fields[1].Tag)
	assert.Len(t, b.Redirects, 3)

	opts.Codecs = nil
	b, _ = Transform(Request{Decl: decl, Version: 3, Options: opts}, nil)
	assert.Equal(t, []Codec{CodecJSON}, b.Options.Codecs)
}

func TestTransform_UnderscoreNaming(t *testing.T) {
	decl := structDecl("S", field("I", types.Typ[types.Int32], ""))

	opts := DefaultOptions()
	opts.Naming = naming.StyleUnderscore

	b, diags := Transform(Request{Decl: decl, Version: 3, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())
	assert.Equal(t, "_Sv3", b.Wrapper.Name)
	assert.Equal(t, "_Sv3Fields", b.Wrapper.Inner)
	assert.Equal(t, "new_Sv3", b.Forward.Name)
}

func TestTransform_RejectsUnsupportedKinds(t *testing.T) {
	tests := []struct {
		name string
		decl *analyze.Decl
		want string
	}{
		{
			name: "enum-like named type",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Color"}, Kind: analyze.DeclKindNamed, Underlying: "int"},
			want: "Color is a named non-struct type (int)",
		},
		{
			name: "interface",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Shape"}, Kind: analyze.DeclKindInterface},
			want: "Shape is an interface",
		},
		{
			name: "alias",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Alias"}, Kind: analyze.DeclKindAlias},
			want: "Alias is a type alias",
		},
		{
			name: "function",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Build"}, Kind: analyze.DeclKindFunc},
			want: "Build is a function",
		},
		{
			name: "variable",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Default"}, Kind: analyze.DeclKindValue},
			want: "Default is a variable or constant",
		},
		{
			name: "unit struct",
			decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Unit"}, Kind: analyze.DeclKindEmptyStruct},
			want: "Unit is a struct without fields",
		},
		{
			name: "blank fields only",
			decl: structDecl("Blank", field("_", types.Typ[types.Int], "")),
			want: "Blank has only blank fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, diags := Transform(Request{Decl: tt.decl, Version: 1, Options: DefaultOptions()}, nil)
			assert.Nil(t, b)
			require.Len(t, diags.Errors, 1)
			assert.Equal(t, diagnostic.CodeUnsupportedDeclarationKind, diags.Errors[0].Code)
			assert.Contains(t, diags.Errors[0].Message, tt.want)
			assert.Contains(t, diags.Errors[0].Message, "only structs with named fields can be versioned")
		})
	}
}

func TestTransform_VersionFieldConflicts(t *testing.T) {
	embedded := namedStruct("Meta", types.NewField(token.NoPos, nil, "Version", types.Typ[types.Int], false))

	tests := []struct {
		name   string
		fields []analyze.FieldInfo
		layout Layout
		codecs []Codec
		want   bool
	}{
		{"json tag", []analyze.FieldInfo{field("Rev", types.Typ[types.Int], `json:"version"`)}, LayoutFlatten, nil, true},
		{"untagged go name", []analyze.FieldInfo{field("Version", types.Typ[types.Int], "")}, LayoutFlatten, nil, true},
		{"renamed in json", []analyze.FieldInfo{field("Version", types.Typ[types.Int], `json:"rev"`)}, LayoutFlatten, nil, false},
		{"renamed but spliced", []analyze.FieldInfo{field("Version", types.Typ[types.Int], `json:"rev"`)}, LayoutSplice, nil, true},
		{"skipped", []analyze.FieldInfo{field("Version", types.Typ[types.Int], `json:"-"`)}, LayoutFlatten, nil, false},
		{"unexported", []analyze.FieldInfo{field("version", types.Typ[types.Int], "")}, LayoutFlatten, nil, false},
		{"yaml only", []analyze.FieldInfo{field("Rev", types.Typ[types.Int], `json:"rev" yaml:"version"`)}, LayoutFlatten, []Codec{CodecJSON, CodecYAML}, true},
		{"yaml disabled", []analyze.FieldInfo{field("Rev", types.Typ[types.Int], `json:"rev" yaml:"version"`)}, LayoutFlatten, nil, false},
		{"cbor tag", []analyze.FieldInfo{field("Rev", types.Typ[types.Int], `json:"rev" cbor:"VERSION"`)}, LayoutFlatten, []Codec{CodecCBOR}, true},
		{"promoted through embedding", []analyze.FieldInfo{{Name: "Meta", Exported: true, Type: embedded, Embedded: true}}, LayoutFlatten, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Layout = tt.layout
			if tt.codecs != nil {
				opts.Codecs = tt.codecs
			}

			decl := structDecl("Doc", append(tt.fields, field("Body", types.Typ[types.String], ""))...)
			b, diags := Transform(Request{Decl: decl, Version: 4, Options: opts}, nil)

			if !tt.want {
				require.True(t, diags.IsValid(), diags.Error())
				require.NotNil(t, b)
				return
			}

			assert.Nil(t, b)
			assert.True(t, diags.HasCode(diagnostic.CodeVersionFieldConflict), diags.Error())
		})
	}
}

func TestTransform_NameCollisions(t *testing.T) {
	t.Run("wrapper already declared", func(t *testing.T) {
		decl := structDecl("Order", field("ID", types.Typ[types.Int64], ""))
		b, diags := Transform(Request{Decl: decl, Version: 3, Options: DefaultOptions()}, scopeOf("Order", "OrderV3"))
		assert.Nil(t, b)
		require.True(t, diags.HasCode(diagnostic.CodeNameCollision))
		assert.Contains(t, diags.Errors[0].Message, "OrderV3 is already declared")
	})

	t.Run("constructor already declared", func(t *testing.T) {
		decl := structDecl("Order", field("ID", types.Typ[types.Int64], ""))
		_, diags := Transform(Request{Decl: decl, Version: 3, Options: DefaultOptions()}, scopeOf("NewOrderV3"))
		assert.True(t, diags.HasCode(diagnostic.CodeNameCollision))
	})

	t.Run("codec method already declared", func(t *testing.T) {
		decl := structDecl("Order", field("ID", types.Typ[types.Int64], ""))
		decl.Methods = []string{"MarshalJSON"}
		_, diags := Transform(Request{Decl: decl, Version: 3, Options: DefaultOptions()}, nil)
		require.True(t, diags.HasCode(diagnostic.CodeNameCollision))
		assert.Contains(t, diags.Errors[0].Message, "Order.MarshalJSON is already declared")
	})

	t.Run("yaml method only matters when yaml is enabled", func(t *testing.T) {
		decl := structDecl("Order", field("ID", types.Typ[types.Int64], ""))
		decl.Methods = []string{"MarshalYAML"}
		_, diags := Transform(Request{Decl: decl, Version: 3, Options: DefaultOptions()}, nil)
		assert.True(t, diags.IsValid())
	})

	t.Run("field named like a generated method", func(t *testing.T) {
		decl := structDecl("Order", field("ToVersioned", types.Typ[types.Bool], ""))
		_, diags := Transform(Request{Decl: decl, Version: 3, Options: DefaultOptions()}, nil)
		assert.True(t, diags.HasCode(diagnostic.CodeNameCollision))
	})

	t.Run("spliced field named like a wrapper method", func(t *testing.T) {
		decl := structDecl("Order", field("Unversioned", types.Typ[types.Bool], ""))

		opts := DefaultOptions()
		_, diags := Transform(Request{Decl: decl, Version: 3, Options: opts}, nil)
		assert.True(t, diags.IsValid(), "flatten promotes the field below the method")

		opts.Layout = LayoutSplice
		_, diags = Transform(Request{Decl: decl, Version: 3, Options: opts}, nil)
		assert.True(t, diags.HasCode(diagnostic.CodeNameCollision))
	})
}

func TestTransform_Generic(t *testing.T) {
	pkg := types.NewPackage(testPkg, "store")
	tparam := types.NewTypeParam(types.NewTypeName(token.NoPos, pkg, "b", nil), types.NewInterfaceType(nil, nil).Complete())

	decl := structDecl("Box", field("Item", tparam, `json:"item"`))
	decl.TypeParams = []analyze.TypeParam{{Name: "b", Constraint: tparam.Constraint()}}

	b, diags := Transform(Request{Decl: decl, Version: 1, Options: DefaultOptions()}, nil)
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, b)

	assert.True(t, diags.HasCode(diagnostic.CodeGenericRedirection))
	assert.Equal(t, "v", b.Receiver, "receiver must not shadow the type parameter")
	assert.Equal(t, "w", b.WrapperReceiver)
}

func TestReceivers(t *testing.T) {
	tests := map[string][2]string{
		"Order":   {"o", "w"},
		"Widget":  {"v", "w"},
		"_hidden": {"h", "w"},
		"Data":    {"d", "w"},
	}

	for name, want := range tests {
		recv, wrapper := receivers(structDecl(name))
		assert.Equal(t, want[0], recv, name)
		assert.Equal(t, want[1], wrapper, name)
	}
}

func TestPlanPackage(t *testing.T) {
	s := structDecl("S", field("I", types.Typ[types.Int32], ""))
	a := structDecl("A", field("X", types.Typ[types.Int], ""))
	enum := &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Color"}, Kind: analyze.DeclKindNamed, Underlying: "int"}

	pp, diags := PlanPackage(scopeOf("S", "A", "Color"), []Request{
		{Decl: s, Version: 1, Options: DefaultOptions()},
		{Decl: enum, Version: 1, Options: DefaultOptions()},
		{Decl: a, Version: 2, Options: DefaultOptions()},
		{Decl: s, Version: 1, Options: DefaultOptions()},
	})

	require.Len(t, pp.Bundles, 2)
	assert.Equal(t, "A", pp.Bundles[0].Name())
	assert.Equal(t, "S", pp.Bundles[1].Name())

	assert.True(t, diags.HasCode(diagnostic.CodeUnsupportedDeclarationKind))
	assert.True(t, diags.HasCode(diagnostic.CodeNameCollision))
	assert.Len(t, diags.Errors, 4, diags.Error())

	var p Plan
	p.Add(scopeOf("S"), []Request{{Decl: s, Version: 5, Options: DefaultOptions()}})
	require.Len(t, p.Bundles(), 1)
	assert.Equal(t, "SV5", p.Bundles()[0].Wrapper.Name)
}

// withMethods declares an empty struct type with the given value methods.
func withMethods(name string, methods ...string) *types.Named {
	pkg := types.NewPackage(testPkg, "store")
	named := types.NewNamed(types.NewTypeName(token.NoPos, pkg, name, nil), types.NewStruct(nil, nil), nil)

	results := types.NewTuple(
		types.NewVar(token.NoPos, nil, "", types.NewSlice(types.Typ[types.Byte])),
		types.NewVar(token.NoPos, nil, "", types.Universe.Lookup("error").Type()),
	)

	for _, m := range methods {
		sig := types.NewSignatureType(types.NewVar(token.NoPos, pkg, "r", named), nil, nil, nil, results, false)
		named.AddMethod(types.NewFunc(token.NoPos, pkg, m, sig))
	}

	return named
}

func TestTransform_PromotedCodecMethods(t *testing.T) {
	stamp := withMethods("Stamp", "MarshalJSON")

	decl := structDecl("Event",
		analyze.FieldInfo{Name: "Stamp", Exported: true, Type: stamp, Embedded: true},
		field("Kind", types.Typ[types.String], ""),
	)

	b, diags := Transform(Request{Decl: decl, Version: 2, Options: DefaultOptions()}, nil)
	assert.Nil(t, b)
	require.True(t, diags.HasCode(diagnostic.CodePromotedCodecMethod), diags.Error())
	assert.Contains(t, diags.Errors[0].Message, "EventV2")

	opts := DefaultOptions()
	opts.Codecs = []Codec{CodecYAML}
	b, diags = Transform(Request{Decl: decl, Version: 2, Options: opts}, nil)
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, b)

	named := structDecl("Log", analyze.FieldInfo{Name: "Stamp", Exported: true, Type: stamp}, field("Kind", types.Typ[types.String], ""))
	_, diags = Transform(Request{Decl: named, Version: 2, Options: DefaultOptions()}, nil)
	assert.True(t, diags.IsValid(), diags.Error())
}

// Text and binary marshalers take over the wrapper just like codec-specific
// methods do: an embedded netip.Addr turns the whole wrapper into a string.
func TestTransform_PromotedFallbackMarshalers(t *testing.T) {
	addr := withMethods("Addr", "MarshalText", "UnmarshalText", "MarshalBinary", "UnmarshalBinary")
	blob := withMethods("Blob", "MarshalBinary")

	host := func(embedded *types.Named) *analyze.Decl {
		return structDecl("Host",
			analyze.FieldInfo{Name: embedded.Obj().Name(), Exported: true, Type: embedded, Embedded: true},
			field("Port", types.Typ[types.Int], `json:"port"`),
		)
	}

	tests := []struct {
		name     string
		embedded *types.Named
		codecs   []Codec
		rejected []string
	}{
		{"json text", addr, []Codec{CodecJSON}, []string{"MarshalText", "UnmarshalText"}},
		{"yaml text", addr, []Codec{CodecYAML}, []string{"MarshalText", "UnmarshalText"}},
		{"cbor binary", addr, []Codec{CodecCBOR}, []string{"MarshalBinary", "UnmarshalBinary"}},
		{"json ignores binary", blob, []Codec{CodecJSON}, nil},
		{"cbor binary only", blob, []Codec{CodecCBOR}, []string{"MarshalBinary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Codecs = tt.codecs

			b, diags := Transform(Request{Decl: host(tt.embedded), Version: 3, Options: opts}, nil)
			if tt.rejected == nil {
				require.True(t, diags.IsValid(), diags.Error())
				require.NotNil(t, b)

				return
			}

			assert.Nil(t, b)
			require.Len(t, diags.Errors, len(tt.rejected), diags.Error())

			for i, m := range tt.rejected {
				assert.Equal(t, diagnostic.CodePromotedCodecMethod, diags.Errors[i].Code)
				assert.Contains(t, diags.Errors[i].Message, m)
			}
		})
	}

	// json and yaml share the text hooks; each is reported once.
	opts := DefaultOptions()
	opts.Codecs = []Codec{CodecJSON, CodecYAML}
	_, diags := Transform(Request{Decl: host(addr), Version: 3, Options: opts}, nil)
	assert.Len(t, diags.Errors, 2, diags.Error())
}

// A versioned struct embedded in another versioned struct carries generated
// codec methods that the loaded types do not show yet.
func TestPlanPackage_EmbeddedVersionedStruct(t *testing.T) {
	base := structDecl("Base", field("ID", types.Typ[types.Int], `json:"id"`))
	baseType := namedStruct("Base", types.NewField(token.NoPos, nil, "ID", types.Typ[types.Int], false))

	embedding := func(name string, t types.Type) *analyze.Decl {
		return structDecl(name,
			analyze.FieldInfo{Name: "Base", Exported: true, Type: t, Embedded: true},
			field("X", types.Typ[types.Int], `json:"x"`),
		)
	}

	t.Run("same package", func(t *testing.T) {
		pp, diags := PlanPackage(scopeOf("Base", "Outer"), []Request{
			{Decl: base, Version: 1, Options: DefaultOptions()},
			{Decl: embedding("Outer", baseType), Version: 2, Options: DefaultOptions()},
		})

		require.Len(t, pp.Bundles, 1, spew.Sdump(diags))
		assert.Equal(t, "Base", pp.Bundles[0].Name())
		require.True(t, diags.HasCode(diagnostic.CodePromotedCodecMethod), diags.Error())
		assert.Contains(t, diags.Errors[0].Message, "MarshalJSON")
		assert.Contains(t, diags.Errors[0].Message, "OuterV2")
	})

	t.Run("pointer and nested embedding", func(t *testing.T) {
		mid := namedStruct("Mid", types.NewField(token.NoPos, nil, "Base", types.NewPointer(baseType), true))

		_, diags := PlanPackage(scopeOf("Base", "Outer", "Mid"), []Request{
			{Decl: base, Version: 1, Options: DefaultOptions()},
			{Decl: embedding("Outer", mid), Version: 2, Options: DefaultOptions()},
		})
		assert.True(t, diags.HasCode(diagnostic.CodePromotedCodecMethod), diags.Error())
	})

	t.Run("other package of the run", func(t *testing.T) {
		ix := NewIndex([]Request{{Decl: base, Version: 1, Options: DefaultOptions()}})

		outer := embedding("Outer", types.NewPointer(baseType))
		outer.ID.PkgPath = "example/shop"

		pp, diags := PlanPackageWith(&analyze.PackageInfo{Path: "example/shop", Name: "shop"},
			[]Request{{Decl: outer, Version: 2, Options: DefaultOptions()}}, ix)
		assert.Empty(t, pp.Bundles)
		assert.True(t, diags.HasCode(diagnostic.CodePromotedCodecMethod), diags.Error())
	})

	t.Run("disjoint codecs", func(t *testing.T) {
		yamlOnly := DefaultOptions()
		yamlOnly.Codecs = []Codec{CodecYAML}

		pp, diags := PlanPackage(scopeOf("Base", "Outer"), []Request{
			{Decl: base, Version: 1, Options: yamlOnly},
			{Decl: embedding("Outer", baseType), Version: 2, Options: DefaultOptions()},
		})
		require.True(t, diags.IsValid(), diags.Error())
		assert.Len(t, pp.Bundles, 2)
	})

	t.Run("self embedding", func(t *testing.T) {
		node := namedStruct("Node")
		decl := structDecl("Node",
			analyze.FieldInfo{Name: "Node", Exported: true, Type: types.NewPointer(node), Embedded: true},
			field("X", types.Typ[types.Int], ""),
		)

		_, diags := Transform(Request{Decl: decl, Version: 1, Options: DefaultOptions()}, nil)
		assert.True(t, diags.HasCode(diagnostic.CodePromotedCodecMethod), diags.Error())
	})
}

func TestIndex_Promoted(t *testing.T) {
	base := structDecl("Base", field("ID", types.Typ[types.Int], ""))
	opts := DefaultOptions()
	opts.Codecs = []Codec{CodecCBOR, CodecJSON, CodecJSON}

	ix := NewIndex([]Request{
		{Decl: base, Version: 1, Options: opts},
		{Decl: &analyze.Decl{ID: analyze.TypeID{PkgPath: testPkg, Name: "Zone"}, Kind: analyze.DeclKindNamed}, Version: 1},
	})

	assert.Equal(t, []string{"MarshalJSON", "UnmarshalJSON", "MarshalCBOR", "UnmarshalCBOR"}, ix[base.ID])
	assert.NotContains(t, ix, analyze.TypeID{PkgPath: testPkg, Name: "Zone"})

	assert.Equal(t, ix[base.ID], ix.Promoted(types.NewPointer(namedStruct("Base"))))
	assert.Empty(t, ix.Promoted(types.Typ[types.Int]))
	assert.Empty(t, Index(nil).Promoted(namedStruct("Base")))
}
