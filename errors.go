package listcache

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by Update/UpdateSorted when no list item satisfies
// the match predicate. Remove treats the same condition as a silent no-op;
// an update that silently updates nothing is a bug magnet, so it fails loud.
var ErrNoMatch = errors.New("listcache: no list item matched the predicate")

// CorruptEntryError reports bytes at a key that failed envelope or codec
// decoding. Key is the storage key (namespace included). Match with
// errors.As; the codec/envelope cause is available via Unwrap.
type CorruptEntryError struct {
	Key string
	Err error
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("listcache: corrupt entry at %q: %v", e.Key, e.Err)
}

func (e *CorruptEntryError) Unwrap() error { return e.Err }
