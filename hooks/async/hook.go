// Package asynchook decouples hook consumers from the cache hot path by
// queueing events to a small worker pool. Events are dropped when the queue
// is full; hooks are observability, not bookkeeping.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{CorruptEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := listcache.New[User](listcache.Options[User]{
//	    Namespace: "user",
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/listcache"
)

type Hooks struct {
	inner listcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ listcache.Hooks = (*Hooks)(nil)

func New(inner listcache.Hooks, workers, qlen int) *Hooks {
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

// Close stops the workers after draining queued events. Safe to call once;
// events enqueued after Close panic (send on closed channel), so close only
// after the cache is done.
func (h *Hooks) Close() {
	h.once.Do(func() { close(h.q) })
	h.wg.Wait()
}

func (h *Hooks) enqueue(f func()) {
	select {
	case h.q <- f:
	default: // full; drop
	}
}

func (h *Hooks) CorruptEntry(storageKey, reason string) {
	h.enqueue(func() { h.inner.CorruptEntry(storageKey, reason) })
}

func (h *Hooks) SelfHealed(storageKey string) {
	h.enqueue(func() { h.inner.SelfHealed(storageKey) })
}

func (h *Hooks) TouchFailed(storageKey string, err error) {
	h.enqueue(func() { h.inner.TouchFailed(storageKey, err) })
}

func (h *Hooks) LockWait(storageKey string, waited time.Duration) {
	h.enqueue(func() { h.inner.LockWait(storageKey, waited) })
}

func (h *Hooks) MutateSkipped(storageKey, op, reason string) {
	h.enqueue(func() { h.inner.MutateSkipped(storageKey, op, reason) })
}
