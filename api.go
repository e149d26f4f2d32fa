package storefront

import (
	"context"
	"time"

	"github.com/unkn0wn-root/storefront/catalog"
	c "github.com/unkn0wn-root/storefront/codec"
	gen "github.com/unkn0wn-root/storefront/genstore"
	pr "github.com/unkn0wn-root/storefront/provider"
)

// FeaturedKey is the one cache key the featured snapshot lives under
// (before namespacing). Read and write paths both derive the key from it.
const FeaturedKey = "featuredProducts"

// Featured is the caller-facing surface of the featured-products cache.
type Featured interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns the featured products. ok=false with a nil error means the
	// catalog has no featured products.
	Get(ctx context.Context) (products []catalog.Product, ok bool, err error)

	// Toggle flips IsFeatured on one product, persists it and refreshes the
	// snapshot before returning the saved product. A failed refresh is
	// logged, never returned.
	Toggle(ctx context.Context, id string) (catalog.Product, error)

	// Delete removes a product from the catalog and returns it. If it was
	// featured and RefreshOnDelete is set, the snapshot is refreshed.
	Delete(ctx context.Context, id string) (catalog.Product, error)

	// Refresh recomputes the featured set and overwrites the snapshot.
	Refresh(ctx context.Context) error
}

// Options configure New. Namespace, Catalog and Provider are required.
type Options struct {
	Namespace string // e.g. "prod"; isolates environments sharing one Redis
	Catalog   catalog.Store
	Provider  pr.Provider
	Codec     c.Codec[[]catalog.Product] // nil => JSON

	Logger           Logger        // nil => NopLogger
	Hooks            Hooks         // nil => NopHooks
	GenStore         gen.GenStore  // nil => LocalGenStore (closed by Close)
	TTL              time.Duration // 0 => snapshot never expires
	MaxSnapshotBytes int           // >0 => larger snapshots are neither stored nor read
	Disabled         bool          // serve every read from the catalog
	RefreshOnDelete  bool          // refresh the snapshot when a featured product is deleted
}

func New(opts Options) (Featured, error) {
	return newFeatured(opts)
}
