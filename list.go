package listcache

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/unkn0wn-root/listcache/internal/wire"
)

func (c *cache[V]) GetList(ctx context.Context, key string) ([]V, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("listcache: key is required")
	}
	if !c.enabled {
		return nil, false, nil
	}
	k := c.entryKey(key)
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	sliding, payloads, err := wire.DecodeList(raw)
	if err != nil {
		return nil, false, c.corrupt(ctx, k, "envelope", err)
	}
	items := make([]V, len(payloads))
	for i, p := range payloads {
		if items[i], err = c.codec.Decode(p); err != nil {
			return nil, false, c.corrupt(ctx, k, "item_decode", err)
		}
	}
	c.touch(ctx, k, sliding)
	return items, true, nil
}

func (c *cache[V]) SetList(ctx context.Context, key string, items []V, opts ...WriteOption) error {
	if key == "" {
		return fmt.Errorf("listcache: key is required")
	}
	if items == nil {
		return fmt.Errorf("listcache: items is required")
	}
	if !c.enabled {
		return nil
	}
	pol := c.resolvePolicy(opts)
	enc, err := c.encodeItems(items)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.entryKey(key), wire.EncodeList(pol.Sliding, enc), pol)
}

func (c *cache[V]) Append(ctx context.Context, key string, item V, opts ...WriteOption) error {
	if isNil(item) {
		return fmt.Errorf("listcache: item is required")
	}
	return c.mutate(ctx, key, "append", opts, func(items []V) ([]V, bool, error) {
		return append(items, item), true, nil
	})
}

func (c *cache[V]) AppendSorted(ctx context.Context, key string, item V, less func(a, b V) bool, opts ...WriteOption) error {
	if isNil(item) {
		return fmt.Errorf("listcache: item is required")
	}
	if less == nil {
		return fmt.Errorf("listcache: less is required")
	}
	return c.mutate(ctx, key, "append", opts, func(items []V) ([]V, bool, error) {
		items = append(items, item)
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		return items, true, nil
	})
}

func (c *cache[V]) Update(ctx context.Context, key string, match func(V) bool, updated V, opts ...WriteOption) error {
	if match == nil {
		return fmt.Errorf("listcache: match predicate is required")
	}
	if isNil(updated) {
		return fmt.Errorf("listcache: updated item is required")
	}
	return c.mutate(ctx, key, "update", opts, func(items []V) ([]V, bool, error) {
		i := slices.IndexFunc(items, match)
		if i < 0 {
			return nil, false, ErrNoMatch
		}
		items[i] = updated
		return items, true, nil
	})
}

func (c *cache[V]) UpdateSorted(ctx context.Context, key string, match func(V) bool, updated V, less func(a, b V) bool, opts ...WriteOption) error {
	if match == nil {
		return fmt.Errorf("listcache: match predicate is required")
	}
	if isNil(updated) {
		return fmt.Errorf("listcache: updated item is required")
	}
	if less == nil {
		return fmt.Errorf("listcache: less is required")
	}
	return c.mutate(ctx, key, "update", opts, func(items []V) ([]V, bool, error) {
		i := slices.IndexFunc(items, match)
		if i < 0 {
			return nil, false, ErrNoMatch
		}
		items[i] = updated
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		return items, true, nil
	})
}

func (c *cache[V]) Remove(ctx context.Context, key string, match func(V) bool, opts ...WriteOption) error {
	if match == nil {
		return fmt.Errorf("listcache: match predicate is required")
	}
	return c.mutate(ctx, key, "remove", opts, func(items []V) ([]V, bool, error) {
		i := slices.IndexFunc(items, match)
		if i < 0 {
			// removal of a missing item is success, not a fault
			return nil, false, nil
		}
		return slices.Delete(items, i, i+1), true, nil
	})
}

// mutate runs one read-modify-write cycle under the per-key lock. fn gets
// the decoded list and returns the replacement plus whether to write it
// back. Missing keys and empty lists short-circuit before fn: mutations
// never create or resurrect an entry.
func (c *cache[V]) mutate(ctx context.Context, key, op string, opts []WriteOption, fn func(items []V) ([]V, bool, error)) error {
	if key == "" {
		return fmt.Errorf("listcache: key is required")
	}
	if !c.enabled {
		return nil
	}
	k := c.entryKey(key)

	if c.locking {
		start := time.Now()
		release, err := c.locker.Acquire(ctx, c.lockKey(key))
		if err != nil {
			return err
		}
		defer release()
		c.hooks.LockWait(k, time.Since(start))
	}

	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		return err
	}
	if !ok {
		c.hooks.MutateSkipped(k, op, "missing")
		c.log.Debug("list mutation skipped (no entry)", Fields{"key": key, "op": op})
		return nil
	}
	_, payloads, err := wire.DecodeList(raw)
	if err != nil {
		return c.corrupt(ctx, k, "envelope", err)
	}
	if len(payloads) == 0 {
		c.hooks.MutateSkipped(k, op, "empty")
		c.log.Debug("list mutation skipped (empty list)", Fields{"key": key, "op": op})
		return nil
	}

	items := make([]V, len(payloads))
	for i, p := range payloads {
		if items[i], err = c.codec.Decode(p); err != nil {
			return c.corrupt(ctx, k, "item_decode", err)
		}
	}

	out, write, err := fn(items)
	if err != nil {
		return err
	}
	if !write {
		c.hooks.MutateSkipped(k, op, "no_match")
		return nil
	}

	pol := c.resolvePolicy(opts)
	enc, err := c.encodeItems(out)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, k, wire.EncodeList(pol.Sliding, enc), pol)
}

func (c *cache[V]) encodeItems(items []V) ([][]byte, error) {
	enc := make([][]byte, len(items))
	for i, it := range items {
		p, err := c.codec.Encode(it)
		if err != nil {
			return nil, err
		}
		enc[i] = p
	}
	return enc, nil
}
