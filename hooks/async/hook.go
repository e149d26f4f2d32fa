// Package asynchook moves Hooks calls off the request path.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
// When the queue is full, events are dropped.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/storefront"
)

type Hooks struct {
	inner   storefront.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ storefront.Hooks = (*Hooks)(nil)

func New(inner storefront.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped is the number of events discarded because the queue was full or closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) CacheReadFailed(k string, err error) {
	h.try(func() { h.inner.CacheReadFailed(k, err) })
}

func (h *Hooks) CacheWriteFailed(k string, err error) {
	h.try(func() { h.inner.CacheWriteFailed(k, err) })
}

func (h *Hooks) SnapshotSelfHealed(k, reason string) {
	h.try(func() { h.inner.SnapshotSelfHealed(k, reason) })
}

func (h *Hooks) PopulateSkipped(k string, observed, current uint64) {
	h.try(func() { h.inner.PopulateSkipped(k, observed, current) })
}

func (h *Hooks) GenStoreFailed(op, k string, err error) {
	h.try(func() { h.inner.GenStoreFailed(op, k, err) })
}

func (h *Hooks) RefreshFailed(op, id string, err error) {
	h.try(func() { h.inner.RefreshFailed(op, id, err) })
}
