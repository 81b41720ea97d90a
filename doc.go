// Package listcache implements a typed convenience layer over a byte-oriented
// cache store: single-value Get/Set plus whole-list mutation helpers (Append,
// Update, Remove) built as read-modify-write cycles. A list is one entry whose
// bytes frame the codec-encoded items; every mutation reads the full list,
// changes it in memory and writes the full list back.
//
// Components:
//   - store.Store: byte store with expiration policies (Redis, BigCache,
//     Ristretto, in-process memory).
//   - codec.Codec[V]: (de)serializes V <-> []byte.
//   - lockstore.Locker: per-key mutual exclusion around list mutations.
//     Local (in-process) by default, optional Redis implementation for
//     multi-replica deployments.
//
// Keys:
//
//	<ns>:<key>       - entries (value- or list-shaped, tagged in the envelope)
//	lock:<ns>:<key>  - mutation locks
//
// Contract corners worth knowing before use:
//   - Append/Update/Remove never create an entry: on a missing key they are
//     silent no-ops. Seed lists explicitly with SetList.
//   - Update with no predicate match returns ErrNoMatch; Remove with no
//     match is a silent no-op.
//   - Writes default to a 7-day sliding window; WithTTL and WithPolicy
//     override per call, and an explicit policy wins over a duration.
//   - With Unlocked set, concurrent mutators of one key race and the last
//     full-list write wins; the default locker removes that race within the
//     locker's reach (process-local for Local, cluster-wide for Redis).
package listcache
