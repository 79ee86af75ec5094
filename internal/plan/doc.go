// Package plan is the versioning transformer.
//
// Given a struct declaration and a version tag it derives the versioned
// wrapper declaration and the conversions between the two:
//
//  1. Derive the wrapper name from (type name, version, naming style)
//  2. Build the wrapper field list: a synthetic Version field followed by
//     either the method-free copy of the struct (flatten layout) or a copy
//     of every field (splice layout)
//  3. Plan the forward conversion (stamp the version, carry every field)
//     and the backward conversion (drop the version, return the fields)
//  4. Plan codec redirection so encoders go through the wrapper
//
// Every misuse is reported as a diagnostic and yields no bundle: a
// transformation produces the full declaration bundle or nothing.
package plan
