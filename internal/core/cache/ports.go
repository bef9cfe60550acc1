package cache

import (
	"context"
	"time"
)

// Cache defines the key-value storage operations used by the feature
// repositories. It is a port that can be implemented by different providers
// (Redis, Memcached, etc.).
type Cache interface {
	// Get retrieves a value by key.
	// Returns the stored value or an error if not found or on failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the specified key with a TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores a value only if the key does not already exist.
	// Returns false when the key was already present.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the storage service is reachable.
	Ping(ctx context.Context) error

	// Close closes the connection.
	Close() error
}
