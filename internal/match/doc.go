// Package match finds the name a user most likely meant when a directive
// argument or configured type name does not exist.
//
// Key functions:
//   - Levenshtein: edit distance between two strings
//   - Fold: case- and separator-insensitive form of an identifier
//   - Suggest: the closest candidate to a misspelled name
package match
