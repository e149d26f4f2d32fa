package storefront

// Hooks are lightweight callbacks for cache events that never reach the
// caller. Implementations MUST be cheap and non-blocking; wrap slow ones in
// hooks/async.
type Hooks interface {
	// Fast Cache Get failed; the read fell through to the catalog.
	CacheReadFailed(key string, err error)

	// A read-miss populate could not store the snapshot (encode, size cap,
	// provider error or rejection). Write-path failures report RefreshFailed.
	CacheWriteFailed(key string, err error)

	// A cached entry was deleted on read.
	// reason ∈ {"corrupt", "decode", "stale"}
	SnapshotSelfHealed(key, reason string)

	// A snapshot was not written because a newer write moved the generation.
	PopulateSkipped(key string, observed, current uint64)

	// GenStore errors. op ∈ {"snapshot", "bump"}
	GenStoreFailed(op, key string, err error)

	// The refresh after a catalog write failed; the snapshot may be stale.
	// op ∈ {"toggle", "delete"}
	RefreshFailed(op, productID string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) CacheReadFailed(string, error)          {}
func (NopHooks) CacheWriteFailed(string, error)         {}
func (NopHooks) SnapshotSelfHealed(string, string)      {}
func (NopHooks) PopulateSkipped(string, uint64, uint64) {}
func (NopHooks) GenStoreFailed(string, string, error)   {}
func (NopHooks) RefreshFailed(string, string, error)    {}
