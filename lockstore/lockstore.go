// Package lockstore provides per-key mutual exclusion for the list
// read-modify-write cycle. Use Local (default) for single-process
// deployments, or Redis to serialize mutators across replicas.
package lockstore

import "context"

// Locker serializes mutations on a single key.
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx is done.
	// The returned release must be called exactly once, on every exit path.
	// release is safe to call more than once; extra calls are no-ops.
	Acquire(ctx context.Context, key string) (release func(), err error)

	// Close releases resources (no-op ok).
	Close(ctx context.Context) error
}
