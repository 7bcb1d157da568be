// Package remote defines the contract between the sync engine and a remote asset store.
package remote

import (
	"context"
)

// Client is the primary interface for writing to a remote asset store.
// Both calls must be idempotent: the engine retries them on transient failure.
type Client interface {
	// Put creates or replaces the asset at key
	Put(ctx context.Context, key string, content []byte) error
	// Delete removes the asset at key
	Delete(ctx context.Context, key string) error
}

// Sequential is implemented by clients that cannot serve concurrent calls,
// e.g. stores where every write is a commit on the same branch.
type Sequential interface {
	Sequential() bool
}

// IsSequential reports whether calls to c must be serialized
func IsSequential(c Client) bool {
	s, ok := c.(Sequential)
	return ok && s.Sequential()
}

// Describer is implemented by clients that can name the store they write to
type Describer interface {
	Describe() string
}
