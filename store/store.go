// Package store defines the byte-store abstraction used by listcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation). If a store performs
// internal transforms (e.g., compression), they MUST be fully reversed so
// that the bytes returned by Get are identical to the bytes provided to Set.
//
// The keyspaces "<ns>:" and "lock:<ns>:" for a configured namespace are owned
// by listcache. External code MUST NOT write values under these prefixes;
// foreign writes fail the strict envelope validation and surface as corrupt
// entries.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrTouchUnsupported is returned by stores that cannot refresh an entry's
// TTL in place. Callers treat it as "sliding expiration degrades to
// write-time expiry", not as a failure.
var ErrTouchUnsupported = errors.New("store: touch not supported")

// Policy describes how a stored entry expires. Exactly one field should be
// set; a zero Policy means "no expiry". Sliding entries have their window
// refreshed by Touch; Absolute entries expire at a fixed deadline.
type Policy struct {
	Sliding  time.Duration
	Absolute time.Time
}

// TTL resolves the policy to a single duration measured from now.
// 0 means no expiry; negative means the absolute deadline already passed
// and the entry must not be stored.
func (p Policy) TTL() time.Duration {
	if p.Sliding > 0 {
		return p.Sliding
	}
	if !p.Absolute.IsZero() {
		d := time.Until(p.Absolute)
		if d <= 0 {
			return -1
		}
		return d
	}
	return 0
}

// Store is a minimal byte store with expiration policies. Must be safe for
// concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under the given expiration policy, overwriting any
	// existing entry. A policy whose deadline already passed deletes the key.
	Set(ctx context.Context, key string, value []byte, pol Policy) error

	// Touch refreshes the TTL of an existing entry to the given window.
	// Stores without in-place TTL refresh return ErrTouchUnsupported.
	// Touching a missing key is not an error.
	Touch(ctx context.Context, key string, window time.Duration) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
