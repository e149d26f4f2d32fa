package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/storefront/catalog"
	c "github.com/unkn0wn-root/storefront/codec"
	gen "github.com/unkn0wn-root/storefront/genstore"
	"github.com/unkn0wn-root/storefront/internal/util"
	"github.com/unkn0wn-root/storefront/internal/wire"
	pr "github.com/unkn0wn-root/storefront/provider"
)

type featured struct {
	key             string
	catalog         catalog.Store
	provider        pr.Provider
	codec           c.Codec[[]catalog.Product]
	log             Logger
	hooks           Hooks
	gen             gen.GenStore
	ownsGen         bool
	ttl             time.Duration
	enabled         bool
	refreshOnDelete bool
}

func newFeatured(opts Options) (*featured, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("storefront: catalog is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("storefront: provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("storefront: namespace is required")
	}

	f := &featured{
		key:             util.Key("featured", opts.Namespace, FeaturedKey),
		catalog:         opts.Catalog,
		provider:        opts.Provider,
		enabled:         !opts.Disabled,
		ttl:             opts.TTL,
		refreshOnDelete: opts.RefreshOnDelete,
	}

	f.log = coalesce[Logger](opts.Logger, NopLogger{})
	f.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	var codec c.Codec[[]catalog.Product] = c.JSON[[]catalog.Product]{}
	if opts.Codec != nil {
		codec = opts.Codec
	}
	if opts.MaxSnapshotBytes > 0 {
		codec = c.LimitCodec[[]catalog.Product]{
			Inner:     codec,
			MaxEncode: opts.MaxSnapshotBytes,
			MaxDecode: opts.MaxSnapshotBytes,
		}
	}
	f.codec = codec

	if opts.GenStore != nil {
		f.gen = opts.GenStore
	} else {
		f.gen = gen.NewLocalGenStore()
		f.ownsGen = true
	}

	return f, nil
}

func (f *featured) Enabled() bool { return f.enabled }

func (f *featured) Close(ctx context.Context) error {
	if f.ownsGen {
		_ = f.gen.Close(ctx)
	}
	return f.provider.Close(ctx)
}

func (f *featured) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	if f.enabled {
		if ps, hit := f.read(ctx); hit {
			if len(ps) == 0 {
				return nil, false, nil
			}
			return ps, true, nil
		}
	}

	// observe before the query so a toggle landing mid-query wins
	obs, genOK := f.snapshotGen(ctx)
	ps, err := f.catalog.FindAll(ctx, catalog.Featured())
	if err != nil {
		return nil, false, fmt.Errorf("featured: query catalog: %w", err)
	}
	if len(ps) == 0 {
		return nil, false, nil
	}

	if f.enabled && genOK {
		if f.genMoved(ctx, obs) {
			return ps, true, nil
		}
		if err := f.write(ctx, ps, obs); err != nil {
			f.log.Warn("featured cache populate failed", Fields{"key": f.key, "err": err})
			f.hooks.CacheWriteFailed(f.key, err)
		}
	}
	return ps, true, nil
}

func (f *featured) Toggle(ctx context.Context, id string) (catalog.Product, error) {
	p, err := f.catalog.FindByID(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("featured: find product %s: %w", id, err)
	}
	p.IsFeatured = !p.IsFeatured
	saved, err := f.catalog.Save(ctx, p)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("featured: save product %s: %w", id, err)
	}
	f.refreshAfterWrite(ctx, "toggle", id)
	return saved, nil
}

func (f *featured) Delete(ctx context.Context, id string) (catalog.Product, error) {
	p, err := f.catalog.FindByID(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("featured: find product %s: %w", id, err)
	}
	if err := f.catalog.Delete(ctx, id); err != nil {
		return catalog.Product{}, fmt.Errorf("featured: delete product %s: %w", id, err)
	}
	if p.IsFeatured && f.refreshOnDelete {
		f.refreshAfterWrite(ctx, "delete", id)
	}
	return p, nil
}

func (f *featured) Refresh(ctx context.Context) error {
	if !f.enabled {
		return nil
	}
	return f.refresh(ctx)
}

func (f *featured) refreshAfterWrite(ctx context.Context, op, id string) {
	if !f.enabled {
		return
	}
	if err := f.refresh(ctx); err != nil {
		f.log.Error("featured snapshot refresh failed; cache may be stale", Fields{"op": op, "id": id, "err": err})
		f.hooks.RefreshFailed(op, id, err)
	}
}

// refresh bumps the generation, recomputes the full featured set and
// overwrites the snapshot. An empty set is stored as an empty snapshot.
func (f *featured) refresh(ctx context.Context) error {
	obs, err := f.gen.Bump(ctx, f.key)
	if err != nil {
		// still write, stamped with the current generation: a recompute after
		// the commit is never older than what is cached
		f.log.Warn("gen bump failed", Fields{"key": f.key, "err": err})
		f.hooks.GenStoreFailed("bump", f.key, err)
		cur, ok := f.snapshotGen(ctx)
		if !ok {
			// no generation to stamp; drop the old snapshot so it cannot
			// outlive this write once the gen store recovers
			_ = f.provider.Del(ctx, f.key)
			return &RefreshError{Key: f.key, Stage: StageGen, Err: err}
		}
		obs = cur
	}

	ps, err := f.catalog.FindAll(ctx, catalog.Featured())
	if err != nil {
		return &RefreshError{Key: f.key, Stage: StageQuery, Err: err}
	}
	if f.genMoved(ctx, obs) {
		return nil
	}
	return f.write(ctx, ps, obs)
}

// read returns hit=false on miss, provider error or a bad entry. A snapshot
// stamped with a generation other than the current one was written by a
// populate that lost a race with a toggle, and is dropped.
func (f *featured) read(ctx context.Context) ([]catalog.Product, bool) {
	raw, ok, err := f.provider.Get(ctx, f.key)
	if err != nil {
		f.log.Warn("featured cache read failed; falling back to catalog", Fields{"key": f.key, "err": err})
		f.hooks.CacheReadFailed(f.key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	snap, err := wire.DecodeSnapshot(raw)
	if err != nil {
		f.selfHeal(ctx, "corrupt")
		return nil, false
	}
	cur, ok := f.snapshotGen(ctx)
	if !ok {
		return nil, false
	}
	if snap.Gen != cur {
		_ = f.provider.Del(ctx, f.key)
		f.log.Debug("dropped stale featured snapshot", Fields{"key": f.key, "snap_gen": snap.Gen, "cur": cur})
		f.hooks.SnapshotSelfHealed(f.key, "stale")
		return nil, false
	}
	if snap.Count == 0 {
		return []catalog.Product{}, true
	}
	ps, err := f.codec.Decode(snap.Payload)
	if err != nil || len(ps) != int(snap.Count) {
		f.selfHeal(ctx, "decode")
		return nil, false
	}
	return ps, true
}

// write stores ps stamped with generation g. Failures are returned, not
// logged; the caller reports them once.
func (f *featured) write(ctx context.Context, ps []catalog.Product, g uint64) error {
	payload, err := f.codec.Encode(ps)
	if err != nil {
		if errors.Is(err, c.ErrTooLarge) {
			// an older snapshot left in place would be served as current
			_ = f.provider.Del(ctx, f.key)
		}
		return &RefreshError{Key: f.key, Stage: StageEncode, Err: err}
	}
	raw := wire.EncodeSnapshot(g, len(ps), payload)
	ok, err := f.provider.Set(ctx, f.key, raw, int64(len(raw)), f.ttl)
	if err == nil && !ok {
		err = ErrSetRejected
	}
	if err != nil {
		return &RefreshError{Key: f.key, Stage: StageSet, Err: err}
	}
	f.log.Debug("featured snapshot stored", Fields{"key": f.key, "count": len(ps), "gen": g})
	return nil
}

func (f *featured) selfHeal(ctx context.Context, reason string) {
	_ = f.provider.Del(ctx, f.key)
	f.log.Warn("dropped unreadable featured snapshot", Fields{"key": f.key, "reason": reason})
	f.hooks.SnapshotSelfHealed(f.key, reason)
}

func (f *featured) snapshotGen(ctx context.Context) (uint64, bool) {
	g, err := f.gen.Snapshot(ctx, f.key)
	if err != nil {
		// skip the populate; the next read retries
		f.log.Warn("gen snapshot failed", Fields{"key": f.key, "err": err})
		f.hooks.GenStoreFailed("snapshot", f.key, err)
		return 0, false
	}
	return g, true
}

// genMoved reports whether a write bumped the generation past obs.
// An unreadable generation counts as moved.
func (f *featured) genMoved(ctx context.Context, obs uint64) bool {
	cur, ok := f.snapshotGen(ctx)
	if !ok {
		return true
	}
	if cur != obs {
		f.log.Debug("featured snapshot write skipped (gen moved)", Fields{"key": f.key, "obs": obs, "cur": cur})
		f.hooks.PopulateSkipped(f.key, obs, cur)
		return true
	}
	return false
}
