// Package config provides the versiongen.yaml schema, loading, validation
// and option layering.
//
// Options are layered from least to most specific: built-in defaults, the
// file-level settings, the per-type entry and finally the arguments of the
// declaration's //versiongen:version directive.
//
// # Schema Overview
//
//	output: versioned_gen.go
//	layout: flatten          # or splice
//	naming: suffix           # OrderV3; "underscore" gives _Orderv3
//	codecs: [json, yaml]     # json, yaml, cbor
//	assertInterfaces: false  # emit compile-time checks against pkg/versioned
//	types:
//	  - name: Order          # version a type without touching its source
//	    version: 3
//	    layout: splice
package config
