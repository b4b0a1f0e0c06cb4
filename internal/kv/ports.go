// Package kv defines the string key-value port the ledger persists through.
//
// Every collection is stored as one JSON document under a fixed key.
// Implementations only need whole-value reads and writes.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyKey is returned when a store is asked for the empty key.
var ErrEmptyKey = errors.New("kv: empty key")

// Ports for outbound adapters.
type (
	Reader interface {
		// Get returns the stored value and whether the key exists.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
	}

	Writer interface {
		Set(ctx context.Context, key, value string) error
		// Remove deletes the key. Removing a missing key is not an error.
		Remove(ctx context.Context, key string) error
	}

	Store interface {
		Reader
		Writer
	}
)

// CheckKey normalizes a key and rejects blank ones.
func CheckKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
