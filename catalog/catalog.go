// Package catalog is the authoritative product store used by the storefront.
//
// Implementations must be safe for concurrent use. FindAll returns products
// ordered by CreatedAt ascending, ties broken by ID, so callers that cache the
// result always see the same order for the same catalog state.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a product id does not exist in the store.
var ErrNotFound = errors.New("catalog: product not found")

// Product is a catalog item. ID is assigned by Create and never changes.
type Product struct {
	ID          string    `json:"_id" db:"id" msgpack:"id" cbor:"id"`
	Name        string    `json:"name" db:"name" msgpack:"name" cbor:"name"`
	Description string    `json:"description" db:"description" msgpack:"description" cbor:"description"`
	Price       float64   `json:"price" db:"price" msgpack:"price" cbor:"price"`
	Image       string    `json:"image" db:"image" msgpack:"image" cbor:"image"`
	Category    string    `json:"category" db:"category" msgpack:"category" cbor:"category"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured" msgpack:"is_featured" cbor:"is_featured"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" msgpack:"created_at" cbor:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" msgpack:"updated_at" cbor:"updated_at"`
}

// Filter narrows FindAll. Zero value matches every product.
type Filter struct {
	Featured *bool
	Category string
}

// Featured is the filter for products with IsFeatured set.
func Featured() Filter {
	t := true
	return Filter{Featured: &t}
}

// Match reports whether p satisfies f.
func (f Filter) Match(p Product) bool {
	if f.Featured != nil && p.IsFeatured != *f.Featured {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// Store is the catalog persistence contract.
type Store interface {
	FindAll(ctx context.Context, f Filter) ([]Product, error)
	FindByID(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
	// Sample returns up to n products picked at random.
	Sample(ctx context.Context, n int) ([]Product, error)
	Close() error
}

// ValidationError reports a product field rejected before it reached the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields a caller controls on create.
func Validate(p Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	return nil
}
