// Package storefront implements the featured-products cache-aside layer of the
// storefront backend.
//
// The catalog (package catalog) is the source of truth. A Fast Cache
// (package provider: Redis, Ristretto, BigCache) holds one serialized snapshot
// of the featured products under a fixed key:
//
//	featured:<ns>:featuredProducts
//
// Reads are served from the snapshot when present and fall through to the
// catalog on a miss, populating the snapshot. Toggling a product's featured
// flag commits to the catalog first and then recomputes and overwrites the
// whole snapshot. Cache failures never fail a request: they are logged,
// reported through Hooks, and degrade to a catalog read.
//
// Usage:
//
//	f, _ := storefront.New(storefront.Options{
//	    Namespace: "prod",
//	    Catalog:   store,
//	    Provider:  redisProvider,
//	    Codec:     codec.Msgpack[[]catalog.Product]{},
//	})
//	products, ok, err := f.Get(ctx) // ok=false: no featured products
//	p, err := f.Toggle(ctx, id)     // errors.Is(err, catalog.ErrNotFound)
package storefront
