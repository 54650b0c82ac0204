package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has no value
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the opaque string-keyed persistence contract the storefront core
// depends on. The Local Cart Cache and the color side-mapping both live here;
// the core never assumes anything about the backing medium.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)
	// Set writes the value for key, overwriting any previous value
	Set(ctx context.Context, key, value string) error
	// Delete removes the key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources
	Close() error
}
