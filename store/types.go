// Package store declares versioned records used by the analyzer, generator
// and CLI tests. It covers both layouts, every codec and generic records.
package store

import (
	"fmt"
	"time"
)

// Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
//
//versiongen:version 2 codecs=json,yaml,cbor
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Customer represents the user placing orders. Its wrapper copies the
// fields and uses the underscore naming style.
//
//versiongen:version 1 layout=splice naming=underscore
type Customer struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address"`
	IsActive bool    `json:"is_active"`
	_        struct{}
}

// Order represents a transaction made by a customer.
//
//versiongen:version 0x03 codecs=json,yaml
type Order struct {
	ID         int64       `json:"id"          yaml:"id"`
	CustomerID int64       `json:"customer_id" yaml:"customer_id"`
	Status     OrderStatus `json:"status"      yaml:"status"`
	TotalCents int64       `json:"total_cents" yaml:"total_cents"`
	Items      []OrderItem `json:"items"       yaml:"items"`
	OrderedAt  time.Time   `json:"ordered_at"  yaml:"ordered_at"`
	note       string
}

// OrderItem represents a specific product line within an order. It is not
// versioned on its own.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Page is one page of a listing.
//
//versiongen:version 1
type Page[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next,omitempty"`
}

// Labeled pairs a key with a printable value.
//
//versiongen:version 4 layout=splice
type Labeled[K comparable, V fmt.Stringer] struct {
	Key   K
	Value V
}

// cbor takes the codec's package name, so generated code has to import the
// codec under another name.
var cbor = "cbor"
