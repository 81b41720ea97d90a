package listcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	cd "github.com/unkn0wn-root/listcache/codec"
	"github.com/unkn0wn-root/listcache/internal/util"
	"github.com/unkn0wn-root/listcache/internal/wire"
	lk "github.com/unkn0wn-root/listcache/lockstore"
	st "github.com/unkn0wn-root/listcache/store"
)

const defaultSliding = 7 * 24 * time.Hour

type cache[V any] struct {
	ns     string
	store  st.Store
	codec  cd.Codec[V]
	locker lk.Locker
	log    Logger
	hooks  Hooks

	enabled    bool
	locking    bool
	ownLocker  bool // close the locker only when we created it
	selfHeal   bool
	defaultTTL time.Duration
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("listcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("listcache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("listcache: namespace is required")
	}

	c := &cache[V]{
		ns:       opts.Namespace,
		store:    opts.Store,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
		locking:  !opts.Unlocked,
		selfHeal: opts.SelfHeal,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultSliding)

	if c.locking {
		if opts.Locker != nil {
			c.locker = opts.Locker
		} else {
			c.locker = lk.NewLocal()
			c.ownLocker = true
		}
	}

	return c, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

func (c *cache[V]) Close(ctx context.Context) error {
	// Close the locker first (best effort); store errors win.
	if c.ownLocker {
		_ = c.locker.Close(ctx)
	}
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, fmt.Errorf("listcache: key is required")
	}
	if !c.enabled {
		return zero, false, nil
	}
	k := c.entryKey(key)
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	sliding, payload, err := wire.DecodeValue(raw)
	if err != nil {
		return zero, false, c.corrupt(ctx, k, "envelope", err)
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		return zero, false, c.corrupt(ctx, k, "value_decode", err)
	}
	c.touch(ctx, k, sliding)
	return v, true, nil
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, opts ...WriteOption) error {
	if key == "" {
		return fmt.Errorf("listcache: key is required")
	}
	if isNil(value) {
		return fmt.Errorf("listcache: value is required")
	}
	if !c.enabled {
		return nil
	}
	pol := c.resolvePolicy(opts)
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.entryKey(key), wire.EncodeValue(pol.Sliding, payload), pol)
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("listcache: key is required")
	}
	if !c.enabled {
		return nil
	}
	k := c.entryKey(key)
	if err := c.store.Del(ctx, k); err != nil {
		return err
	}
	c.log.Debug("deleted entry", Fields{"key": key})
	return nil
}

// corrupt reports undecodable bytes at a storage key, optionally deletes the
// entry, and returns the wrapped fault. The read that hit it always errors;
// SelfHeal only decides whether the next read misses instead of erroring too.
func (c *cache[V]) corrupt(ctx context.Context, storageKey, reason string, cause error) error {
	c.hooks.CorruptEntry(storageKey, reason)
	if c.selfHeal {
		if derr := c.store.Del(ctx, storageKey); derr != nil {
			c.log.Warn("self-heal delete failed", Fields{"key": storageKey, "err": derr})
		} else {
			c.hooks.SelfHealed(storageKey)
		}
	}
	return &CorruptEntryError{Key: storageKey, Err: cause}
}

// touch refreshes a sliding entry's window after a successful read.
// Best-effort: a failed refresh only shortens the entry's life.
func (c *cache[V]) touch(ctx context.Context, storageKey string, sliding time.Duration) {
	if sliding <= 0 {
		return
	}
	if err := c.store.Touch(ctx, storageKey, sliding); err != nil {
		if errors.Is(err, st.ErrTouchUnsupported) {
			return
		}
		c.hooks.TouchFailed(storageKey, err)
		c.log.Debug("sliding refresh failed", Fields{"key": storageKey, "err": err})
	}
}

func (c *cache[V]) entryKey(userKey string) string {
	// isolate by namespace
	return util.EntryKey(c.ns, userKey)
}

func (c *cache[V]) lockKey(userKey string) string {
	return util.LockKey(c.ns, userKey)
}
