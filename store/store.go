// Package store provides persistent key-value backends for the verbiage
// cache.
package store

import "io"

// Store is the key-value contract the cache is written through.
type Store interface {
	// Get retrieves a value. Returns empty string and false if not found.
	Get(key string) (string, bool)

	// Set stores a value, replacing any previous one.
	Set(key string, value string) error

	// Remove deletes a key. Removing a missing key is not an error.
	Remove(key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// Keys returns every key starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
}

// Backend is a store opened by Open.
type Backend interface {
	Store
	Lister
	io.Closer
}
