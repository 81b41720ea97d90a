package util

import (
	"crypto/sha256"
	"fmt"
)

// maxRawKey bounds the user-supplied part of a storage key. Longer keys are
// replaced by a hash prefix so stores with key-length limits stay usable.
const maxRawKey = 256

// EntryKey namespaces a user key for entry storage.
func EntryKey(ns, key string) string {
	return ns + ":" + compact(key)
}

// LockKey namespaces a user key for the per-key mutation lock. Kept in a
// separate prefix so lock records can never shadow entries.
func LockKey(ns, key string) string {
	return "lock:" + ns + ":" + compact(key)
}

func compact(key string) string {
	if len(key) <= maxRawKey {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:16])
}
