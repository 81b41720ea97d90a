package listcache

import "time"

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An entry failed envelope or codec decoding on read.
	// reason ∈ {"envelope", "value_decode", "item_decode"}
	CorruptEntry(storageKey, reason string)

	// A corrupt entry was deleted on read (SelfHeal enabled).
	SelfHealed(storageKey string)

	// Best-effort sliding-window refresh failed with a store error
	// (ErrTouchUnsupported is not reported).
	TouchFailed(storageKey string, err error)

	// Time spent waiting for the per-key lock before a list mutation.
	LockWait(storageKey string, waited time.Duration)

	// A list mutation finished without a store write.
	// op ∈ {"append", "update", "remove"}
	// reason ∈ {"missing", "empty", "no_match"}
	MutateSkipped(storageKey, op, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CorruptEntry(string, string)          {}
func (NopHooks) SelfHealed(string)                    {}
func (NopHooks) TouchFailed(string, error)            {}
func (NopHooks) LockWait(string, time.Duration)       {}
func (NopHooks) MutateSkipped(string, string, string) {}
