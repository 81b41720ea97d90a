package listcache

import (
	"time"

	st "github.com/unkn0wn-root/listcache/store"
)

// Policy re-exports the store expiration policy so callers building a custom
// policy don't need to import the store package.
type Policy = st.Policy

// WriteOption adjusts the expiration of a single write. Without options a
// write uses the cache default (sliding, 7 days unless configured).
type WriteOption func(*writeConfig)

type writeConfig struct {
	ttl       time.Duration
	policy    st.Policy
	hasPolicy bool
}

// WithTTL sets a sliding expiration window for this write.
func WithTTL(d time.Duration) WriteOption {
	return func(wc *writeConfig) { wc.ttl = d }
}

// WithPolicy sets a full expiration policy for this write. An explicit
// policy wins over WithTTL when both are supplied; no composition happens.
func WithPolicy(p Policy) WriteOption {
	return func(wc *writeConfig) {
		wc.policy = p
		wc.hasPolicy = true
	}
}

// resolvePolicy reduces the supplied options to exactly one effective
// policy: explicit policy > explicit sliding TTL > cache default.
func (c *cache[V]) resolvePolicy(opts []WriteOption) st.Policy {
	var wc writeConfig
	for _, o := range opts {
		if o != nil {
			o(&wc)
		}
	}
	if wc.hasPolicy {
		return wc.policy
	}
	if wc.ttl > 0 {
		return st.Policy{Sliding: wc.ttl}
	}
	return st.Policy{Sliding: c.defaultTTL}
}
