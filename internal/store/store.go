package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("key not found")
	// ErrKeyExists is returned by PutIfAbsent when the key is already present.
	ErrKeyExists = errors.New("key already exists")
)

// Store is the key-value contract the services are written against.
// Operations are atomic per key; there are no multi-key transactions, so any
// invariant spanning two keys is the caller's responsibility.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	// PutIfAbsent writes the key only if it does not exist yet. This is the
	// conditional-create primitive that serializes concurrent writers on the
	// same key.
	PutIfAbsent(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
