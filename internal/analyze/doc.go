// Package analyze provides package loading and declaration extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// type declarations, the versiongen directives attached to them and the
// information the transformer needs: declaration kind, type parameters,
// fields with their tags, declared methods and the package scope.
//
// Files previously written by versiongen are parsed as empty files, so
// regenerating never sees its own output as a name collision.
//
// Key types:
//   - TypeID: package import path + type name
//   - Decl: one declaration with its kind, fields, methods and directives
//   - FieldInfo: field name, type, tag and embedding
//   - TypeGraph: every loaded package and its declarations
package analyze
