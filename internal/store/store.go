// Package store provides the key-value persistence port used for autosave
// and presets, with in-memory and BadgerDB backends.
package store

import (
	"context"
	"errors"
)

// Errors returned by stores.
var (
	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("store closed")

	// ErrEmptyKey indicates an empty key was supplied.
	ErrEmptyKey = errors.New("empty key")
)

// Store is a small durable key-value slot store.
//
// Get reports found=false, with a nil error, when the key is absent.
// Remove of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
