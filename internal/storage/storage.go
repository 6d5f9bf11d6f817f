// Package storage provides the persisted key/value store backing the
// session: a small sqlite database with a single table.
package storage

import "context"

// Repository is a string-keyed byte store.
//
// Get returns (nil, nil) when the key is absent, so callers can distinguish
// "not set" from storage failure without a sentinel.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
