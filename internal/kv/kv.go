// Package kv provides the durable per-device key-value storage used by the
// watch-history local cache, the offline write queue, and miscellaneous
// per-user preference pointers. Values are JSON-serialized strings; corrupt
// or missing values read as absent, never fatal.
package kv

// Store is a synchronous string key-value interface. Implementations must
// make each GetItem/SetItem call atomic on its own; callers issue
// read-modify-write pairs without holding a lock across them.
type Store interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}
