// Package kvstore defines the key-value storage contract shared by every backend.
//
// Values are opaque JSON documents. Keys are opaque strings; any structure (such as a
// namespace prefix) belongs to the caller.
package kvstore

import (
	"context"
	"encoding/json"
)

// Entry is a single key/value pair returned by a prefix scan.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Store is a durable mapping from string key to JSON value.
//
// Every call is an independent round trip to the backing medium. Implementations
// guarantee per-key atomicity: a concurrent reader never observes a partially applied Set.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// Set upserts value under key. The value must be valid JSON.
	Set(ctx context.Context, key string, value json.RawMessage) error
	// GetByPrefix returns every entry whose key starts with prefix, in no particular order.
	// It returns an empty slice when nothing matches.
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
	// Close releases the backing medium.
	Close() error
}

// CheckValue returns ErrInvalidValue unless value is a well-formed JSON document.
func CheckValue(value json.RawMessage) error {
	if len(value) == 0 || !json.Valid(value) {
		return ErrInvalidValue
	}
	return nil
}

// Clone returns a private copy of b.
func Clone(b []byte) json.RawMessage {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
