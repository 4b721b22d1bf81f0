package kv

import "context"

// Store is the durable key-value substrate underlying all staged state.
// Implementations must make each Set/Delete durable before returning
// success. Get reports ok=false for absent keys without an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
