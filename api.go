package listcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/listcache/codec"
	lk "github.com/unkn0wn-root/listcache/lockstore"
	st "github.com/unkn0wn-root/listcache/store"
)

// Cache is the high-level, store-agnostic typed cache API. V is the caller's
// value type for single entries and the element type for list entries; one
// Cache[V] instance serves both shapes under different keys. Serialization
// is handled by a pluggable Codec[V].
//
// List mutations never create entries: Append/Update/Remove on a missing key
// are silent no-ops. Seed lists with SetList.
type Cache[V any] interface {
	Enabled() bool
	Close(ctx context.Context) error

	// Single entries
	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Set(ctx context.Context, key string, value V, opts ...WriteOption) error
	Delete(ctx context.Context, key string) error

	// List entries (one entry holds the whole ordered sequence)
	GetList(ctx context.Context, key string) (items []V, ok bool, err error)
	SetList(ctx context.Context, key string, items []V, opts ...WriteOption) error

	// Append adds item at the end. AppendSorted re-sorts the whole list
	// ascending by less after appending (sort is not guaranteed stable).
	Append(ctx context.Context, key string, item V, opts ...WriteOption) error
	AppendSorted(ctx context.Context, key string, item V, less func(a, b V) bool, opts ...WriteOption) error

	// Update replaces the first item satisfying match with updated; the
	// replacement is not re-checked against the predicate. No match =>
	// ErrNoMatch. UpdateSorted additionally re-sorts by less afterwards.
	Update(ctx context.Context, key string, match func(V) bool, updated V, opts ...WriteOption) error
	UpdateSorted(ctx context.Context, key string, match func(V) bool, updated V, less func(a, b V) bool, opts ...WriteOption) error

	// Remove drops the first item satisfying match. No match => silent
	// no-op without a store write.
	Remove(ctx context.Context, key string, match func(V) bool, opts ...WriteOption) error
}

// Options tune the behavior of the typed cache.
// Only Namespace, Store and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "profile", "order"
	Store     st.Store
	Codec     c.Codec[V]

	Logger     Logger        // if nil, NopLogger is used
	Hooks      Hooks         // if nil, NopHooks is used
	DefaultTTL time.Duration // sliding window for writes without options; 0 => 7 days
	Locker     lk.Locker     // nil => in-process Local locker
	Unlocked   bool          // disable per-key locking; list mutators race (lost updates)
	SelfHeal   bool          // delete entries that fail to decode (the read still errors)
	Disabled   bool          // default false (enabled)
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
