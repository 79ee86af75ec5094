// Package gen renders planned bundles to Go source.
//
// Generation approach uses text/template + go/format: one file per package
// (versioned_gen.go by default), bundles in declaration-name order, and only
// the imports the declarations use. Import names that clash with
// package-level names are aliased.
//
// For every bundle the file holds:
//   - the inner copy of the original struct (flatten layout)
//   - the wrapper type with its Version tag field
//   - the forward conversion New<Wrapper> and the ToVersioned method
//   - the Unversioned and SchemaVersion methods on the wrapper
//   - Marshal/Unmarshal methods on the original for each enabled codec
//   - optional assertions against pkg/versioned
//
// Files are written atomically with github.com/google/renameio.
package gen
