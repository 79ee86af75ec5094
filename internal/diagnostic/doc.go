// Package diagnostic provides structured errors, warnings and notes
// reported while turning annotated declarations into versioned wrappers.
//
// Every misuse of the generator (an unsupported declaration kind, a
// malformed version argument, a name that would collide with an existing
// declaration) is reported as an error diagnostic. A run with any error
// diagnostic produces no output at all.
package diagnostic
