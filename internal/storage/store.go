// Package storage provides the durable key/value store every ledger read
// and write goes through.
//
// Values are opaque text. An absent key is reported through the ok result,
// never as an error, so callers can apply their own defaults.
package storage

import "context"

// Store is a text key/value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// FreshReader is implemented by stores that may answer Get from a local
// copy. GetFresh always asks the backing store.
type FreshReader interface {
	GetFresh(ctx context.Context, key string) (value string, ok bool, err error)
}

// GetFresh reads key from s, bypassing any cache s keeps. Read-modify-write
// callers use it so a value written by another process is not overwritten
// with a stale copy.
func GetFresh(ctx context.Context, s Store, key string) (string, bool, error) {
	if f, ok := s.(FreshReader); ok {
		return f.GetFresh(ctx, key)
	}
	return s.Get(ctx, key)
}
