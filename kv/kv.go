package kv

import (
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a key has no live record.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the storage backend of the session-store worker.
type KeyValueStore interface {
	// Set stores a key-value pair with an expiration duration
	Set(key, value string, exp time.Duration) error
	// Get retrieves the value associated with the given key
	Get(key string) (string, error)
	// Del removes the key-value pair
	Del(key string) error
}
