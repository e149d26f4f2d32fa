// Package genstore keeps a generation counter per cache key.
//
// The featured write path bumps the generation before it recomputes the
// snapshot and stamps the snapshot with it. The read path records the
// generation before it queries the catalog, only populates if the generation
// has not moved, and serves a cached snapshot only while its stamp matches
// the current generation. A read that raced with a toggle therefore cannot
// leave an older featured set in place.
package genstore

import "context"

type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	Close(context.Context) error
}
