package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/storefront"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	ReadFailEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	readFailCtr atomic.Uint64
}

var _ storefront.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheReadFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.ReadFailEvery, &h.readFailCtr) {
		return
	}
	h.l.Warn("storefront.cache_read_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) CacheWriteFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("storefront.cache_write_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) SnapshotSelfHealed(key, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Info("storefront.snapshot_self_healed",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) PopulateSkipped(key string, observed, current uint64) {
	if h.l == nil {
		return
	}
	h.l.Debug("storefront.populate_skipped",
		"key", h.redact(key),
		"observed", observed,
		"current", current)
}

func (h *Hooks) GenStoreFailed(op, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("storefront.genstore_failed",
		"op", op,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) RefreshFailed(op, productID string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("storefront.refresh_failed",
		"op", op,
		"product_id", productID,
		"err", err)
}
