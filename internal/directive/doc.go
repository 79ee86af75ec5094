// Package directive parses versiongen comment directives.
//
// A directive sits in the doc comment of a type declaration:
//
//	//versiongen:version 3
//	type Order struct { ... }
//
// The first argument is a non-negative Go integer literal that fits in a
// byte. Optional key=value arguments override configured options for that
// declaration only:
//
//	//versiongen:version 0x07 layout=splice naming=underscore codecs=json,yaml
package directive
