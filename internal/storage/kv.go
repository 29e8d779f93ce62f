package storage

import "context"

// KV is the minimal string-key storage contract the history store persists
// through. Get returns a nil slice without error when the key is absent, so
// callers can treat missing and empty state uniformly.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
