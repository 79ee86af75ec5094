package plan

import (
	"fmt"
	"go/types"
	"slices"
	"strings"

	"github.com/samber/lo"

	"versiongen/internal/analyze"
	"versiongen/internal/diagnostic"
	"versiongen/internal/naming"
)

// maxInlineDepth bounds the walk through embedded and inlined structs when
// computing encoded keys; recursive embeddings stop there.
const maxInlineDepth = 8

// identifiers used inside generated method bodies; receivers must not shadow them.
var bodyIdents = []string{"w", "data", "value", "err", "json", "yaml", "cbor", "versioned"}

// Transform turns one declaration and version tag into a Bundle. On any
// error diagnostic the returned bundle is nil.
func Transform(req Request, scope Scope) (*Bundle, diagnostic.Diagnostics) {
	return transform(req, scope, NewIndex([]Request{req}))
}

// transform is Transform with ix describing every declaration versioned in
// the same run.
func transform(req Request, scope Scope, ix Index) (*Bundle, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	d := req.Decl
	declName := d.ID.String()
	pos := d.PosString()

	if reason := unsupportedReason(d); reason != "" {
		diags.AddError(diagnostic.CodeUnsupportedDeclarationKind, reason, declName, pos)
		return nil, diags
	}

	opts := normalizeOptions(req.Options)
	wrapperName := naming.Wrapper(d.ID.Name, req.Version, opts.Naming)

	b := &Bundle{
		Original: d,
		Version:  req.Version,
		Options:  opts,
		Wrapper:  WrapperDecl{Name: wrapperName},
		Forward:  Conversion{Name: naming.Constructor(wrapperName)},
		Backward: Conversion{Name: MethodUnversioned},
	}

	b.Receiver, b.WrapperReceiver = receivers(d)

	switch opts.Layout {
	case LayoutSplice:
		planSplice(b)
	default:
		planFlatten(b)
	}

	for _, c := range opts.Codecs {
		marshal, unmarshal := c.Methods()
		b.Redirects = append(b.Redirects, Redirect{Codec: c, Marshal: marshal, Unmarshal: unmarshal})
	}

	for _, msg := range droppedBlankTags(d, opts) {
		diags.AddWarning(diagnostic.CodeDroppedBlankField, msg, declName, pos)
	}

	for _, msg := range versionConflicts(d, opts) {
		diags.AddError(diagnostic.CodeVersionFieldConflict, msg, declName, pos)
	}

	for _, msg := range promotedCodecMethods(b, ix) {
		diags.AddError(diagnostic.CodePromotedCodecMethod, msg, declName, pos)
	}

	for _, msg := range collisions(b, scope) {
		diags.AddError(diagnostic.CodeNameCollision, msg, declName, pos)
	}

	if d.IsGeneric() {
		diags.AddInfo(diagnostic.CodeGenericRedirection,
			fmt.Sprintf("%s has type parameters; they are threaded through %s, but generic codec redirection is outside the supported contract",
				d.ID.Name, wrapperName),
			declName, pos)
	}

	if diags.HasErrors() {
		return nil, diags
	}

	return b, diags
}

// unsupportedReason explains why d cannot be versioned, or returns "".
func unsupportedReason(d *analyze.Decl) string {
	switch d.Kind {
	case analyze.DeclKindStruct:
		if lo.EveryBy(d.Fields, func(f analyze.FieldInfo) bool { return f.IsBlank() }) {
			return fmt.Sprintf("%s has only blank fields; only structs with named fields can be versioned", d.ID.Name)
		}

		return ""

	case analyze.DeclKindNamed:
		return fmt.Sprintf("%s is %s (%s); only structs with named fields can be versioned",
			d.ID.Name, withArticle(d.Kind.String()), d.Underlying)

	default:
		return fmt.Sprintf("%s is %s; only structs with named fields can be versioned",
			d.ID.Name, withArticle(d.Kind.String()))
	}
}

func withArticle(s string) string {
	if s != "" && strings.ContainsRune("aeiou", rune(s[0])) {
		return "an " + s
	}

	return "a " + s
}

func normalizeOptions(opts Options) Options {
	codecs := lo.Uniq(opts.Codecs)
	slices.Sort(codecs)
	if len(codecs) == 0 {
		codecs = []Codec{CodecJSON}
	}

	opts.Codecs = codecs

	return opts
}

// planFlatten wraps a method-free copy of the original as an embedded field.
func planFlatten(b *Bundle) {
	b.Wrapper.Inner = naming.Inner(b.Wrapper.Name)
	b.Wrapper.Fields = []WrapperField{
		versionField(b.Options),
		{
			Name:     b.Wrapper.Inner,
			Tag:      innerTag(b.Options),
			Embedded: true,
			Inner:    true,
		},
	}
}

// planSplice copies every named field into the wrapper after the version tag.
// Blank fields cannot be referenced and are left out.
func planSplice(b *Bundle) {
	b.Wrapper.Fields = []WrapperField{versionField(b.Options)}
	b.Forward.Assignments = []Assignment{{Target: VersionField}}

	for _, f := range b.Original.Fields {
		if f.IsBlank() {
			continue
		}

		b.Wrapper.Fields = append(b.Wrapper.Fields, WrapperField{
			Name:     f.Name,
			Type:     f.Type,
			Tag:      string(f.Tag),
			Embedded: f.Embedded,
		})
		b.Forward.Assignments = append(b.Forward.Assignments, Assignment{Target: f.Name, Source: f.Name})
		b.Backward.Assignments = append(b.Backward.Assignments, Assignment{Target: f.Name, Source: f.Name})
	}
}

func versionField(opts Options) WrapperField {
	tags := lo.Map(opts.Codecs, func(c Codec, _ int) string {
		return fmt.Sprintf("%s:%q", c.TagKey(), VersionKey)
	})

	return WrapperField{
		Name:      VersionField,
		Tag:       strings.Join(tags, " "),
		Synthetic: true,
	}
}

// innerTag makes yaml.v3 inline the embedded copy; encoding/json and cbor
// flatten untagged embedded structs on their own.
func innerTag(opts Options) string {
	if slices.Contains(opts.Codecs, CodecYAML) {
		return `yaml:",inline"`
	}

	return ""
}

// receivers picks identifiers for the original and wrapper receivers that
// shadow neither type parameters nor identifiers used in generated bodies.
func receivers(d *analyze.Decl) (string, string) {
	taken := lo.Map(d.TypeParams, func(tp analyze.TypeParam, _ int) string { return tp.Name })

	first := ""
	for _, r := range d.ID.Name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			first = strings.ToLower(string(r))
			break
		}
	}

	recv := pickIdent(append(taken, bodyIdents...), first, "v", "x", "recv")
	wrapper := pickIdent(taken, "w", "wr", "wrapper")

	return recv, wrapper
}

func pickIdent(taken []string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" && !slices.Contains(taken, c) {
			return c
		}
	}

	for i := 0; ; i++ {
		c := fmt.Sprintf("recv%d", i)
		if !slices.Contains(taken, c) {
			return c
		}
	}
}

// droppedBlankTags reports tagged blank fields the spliced wrapper leaves
// out. A codec reads such tags (cbor ",toarray" for one), so the wrapper may
// encode differently from the original.
func droppedBlankTags(d *analyze.Decl, opts Options) []string {
	if opts.Layout != LayoutSplice {
		return nil
	}

	var msgs []string

	for _, f := range d.Fields {
		if !f.IsBlank() {
			continue
		}

		for _, c := range opts.Codecs {
			if tag, ok := f.Tag.Lookup(c.TagKey()); ok {
				msgs = append(msgs, fmt.Sprintf("blank field %d of %s has %s tag %q, which the spliced wrapper does not carry",
					f.Index, d.ID.Name, c, tag))
			}
		}
	}

	return msgs
}

// versionConflicts reports fields that would clash with the version tag.
func versionConflicts(d *analyze.Decl, opts Options) []string {
	var msgs []string

	if opts.Layout == LayoutSplice {
		for _, f := range d.Fields {
			if f.Name == VersionField {
				msgs = append(msgs, fmt.Sprintf("field %s.%s would duplicate the %s tag field of the spliced wrapper",
					d.ID.Name, f.Name, VersionField))
			}
		}
	}

	for _, c := range opts.Codecs {
		for _, key := range EncodedKeys(d.Fields, c) {
			if strings.EqualFold(key, VersionKey) {
				msgs = append(msgs, fmt.Sprintf("%s key %q of %s clashes with the %q version tag",
					c, key, d.ID.Name, VersionKey))
			}
		}
	}

	return msgs
}

// EncodedKeys returns the top-level keys codec c produces for a struct with
// the given fields, looking through embedded and inlined structs.
func EncodedKeys(fields []analyze.FieldInfo, c Codec) []string {
	return encodedKeys(fields, c, 0)
}

func encodedKeys(fields []analyze.FieldInfo, c Codec, depth int) []string {
	var keys []string

	key := c.TagKey()
	for i := range fields {
		f := &fields[i]
		if f.IsBlank() || f.Skipped(key) {
			continue
		}

		if f.Inlined(key) && depth < maxInlineDepth {
			if nested := analyze.FieldsOf(f.Type); nested != nil {
				keys = append(keys, encodedKeys(nested, c, depth+1)...)
				continue
			}
		}

		if !f.Exported {
			continue
		}

		switch c {
		case CodecYAML:
			keys = append(keys, f.YAMLName())
		case CodecCBOR:
			keys = append(keys, f.CBORName())
		default:
			keys = append(keys, f.JSONName())
		}
	}

	return keys
}

// promotedCodecMethods reports embedded fields whose codec hooks would be
// promoted to the wrapper and take over its encoding. Hooks come from the
// field's method set and, for types versioned in this run, from ix.
func promotedCodecMethods(b *Bundle, ix Index) []string {
	var msgs []string

	d := b.Original

	hooks := lo.Uniq(lo.FlatMap(b.Redirects, func(r Redirect, _ int) []string { return r.Codec.Hooks() }))

	for _, f := range d.Fields {
		if !f.Embedded || f.Type == nil {
			continue
		}

		t := f.Type
		switch t.Underlying().(type) {
		case *types.Pointer, *types.Interface:
		default:
			t = types.NewPointer(t)
		}

		mset := types.NewMethodSet(t)
		generated := ix.Promoted(f.Type)

		for _, m := range hooks {
			switch {
			case mset.Lookup(nil, m) != nil:
				msgs = append(msgs, fmt.Sprintf("embedded field %s.%s has method %s, which %s would inherit",
					d.ID.Name, f.Name, m, b.Wrapper.Name))
			case slices.Contains(generated, m):
				msgs = append(msgs, fmt.Sprintf("embedded field %s.%s is versioned too; its generated method %s would be inherited by %s",
					d.ID.Name, f.Name, m, b.Wrapper.Name))
			}
		}
	}

	return msgs
}

// collisions reports generated names that already exist.
func collisions(b *Bundle, scope Scope) []string {
	var msgs []string

	d := b.Original

	if scope != nil {
		for _, name := range b.GeneratedNames() {
			if scope.Declares(name) {
				msgs = append(msgs, fmt.Sprintf("generated declaration %s is already declared in package %s",
					name, d.ID.PkgPath))
			}
		}
	}

	onOriginal := []string{MethodToVersioned}
	for _, r := range b.Redirects {
		onOriginal = append(onOriginal, r.Marshal, r.Unmarshal)
	}

	fieldNames := lo.Map(d.Fields, func(f analyze.FieldInfo, _ int) string { return f.Name })

	for _, m := range onOriginal {
		if d.HasMethod(m) {
			msgs = append(msgs, fmt.Sprintf("method %s.%s is already declared", d.ID.Name, m))
		}

		if slices.Contains(fieldNames, m) {
			msgs = append(msgs, fmt.Sprintf("field %s.%s clashes with generated method %s", d.ID.Name, m, m))
		}
	}

	if b.Options.Layout == LayoutSplice {
		for _, m := range []string{MethodUnversioned, MethodSchemaVersion} {
			if slices.Contains(fieldNames, m) {
				msgs = append(msgs, fmt.Sprintf("field %s.%s clashes with method %s.%s of the spliced wrapper",
					d.ID.Name, m, b.Wrapper.Name, m))
			}
		}
	}

	return msgs
}
