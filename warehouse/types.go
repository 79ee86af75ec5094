// Package warehouse declares records that versiongen must reject, next to
// output left behind by an earlier run.
package warehouse

// Zone is an enum-like named integer.
//
//versiongen:version 1
type Zone int

// Dock has no fields to version.
//
//versiongen:version 1
type Dock struct{}

// Scanner is an interface.
//
//versiongen:version 1
type Scanner interface {
	Scan() string
}

// Location is an alias.
//
//versiongen:version 1
type Location = Bin

// Restock is a function.
//
//versiongen:version 1
func Restock() {}

// Capacity is a constant.
//
//versiongen:version 1
const Capacity = 10

// Stock is versioned twice.
//
//versiongen:version 1
//versiongen:version 2
type Stock struct {
	SKU   string
	Count int
}

// Bin has a version argument that is not an integer.
//
//versiongen:version one
type Bin struct {
	Code string
}

// Shelf encodes a field under the key of the version tag.
//
//versiongen:version 1
type Shelf struct {
	Rev int `json:"version"`
}

// Crate would get a wrapper named like an existing declaration.
//
//versiongen:version 5
type Crate struct {
	ID int
}

// CrateV5 is declared by hand.
type CrateV5 struct{}

// Pallet is valid. versioned_gen.go holds its wrapper at an older version.
//
//versiongen:version 9
type Pallet struct {
	ID int
}
