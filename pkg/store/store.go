// Package store provides the local string-only key-value store that holds
// the column mapping and display settings between sessions.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a local key-value store with string values.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Open opens a store for the named backend.
// path is a JSON file for "file" and a directory for "badger"; it is
// ignored for "memory".
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return OpenFile(path)
	case BackendBadger:
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
