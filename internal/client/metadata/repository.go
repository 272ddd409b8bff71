// Package metadata is a small key-value store on top of the client's SQLite
// database, used for opaque client state: the auth token and the saved
// server base URL.
package metadata

import "context"

// Repository is the key-value contract. Get returns (nil, nil) when the key
// is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
