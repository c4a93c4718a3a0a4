// Package memorykv is an in-process kvstore.Store. It backs tests and the "memory"
// backend of local runs; data is lost on exit.
package memorykv

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

const backendName = "memory"

var errClosed = errors.New("store closed")

// Store keeps entries in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
	closed  bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: map[string][]byte{}}
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, kvstore.Unavailable(backendName, "get", key, errClosed)
	}
	v, ok := s.entries[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return kvstore.Clone(v), nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := kvstore.CheckValue(value); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kvstore.Unavailable(backendName, "set", key, errClosed)
	}
	s.entries[key] = kvstore.Clone(value)
	return nil
}

func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, kvstore.Unavailable(backendName, "scan", prefix, errClosed)
	}
	out := []kvstore.Entry{}
	for k, v := range s.entries {
		if strings.HasPrefix(k, prefix) {
			out = append(out, kvstore.Entry{Key: k, Value: kvstore.Clone(v)})
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kvstore.Unavailable(backendName, "delete", key, errClosed)
	}
	delete(s.entries, key)
	return nil
}

// Close marks the store closed; later calls fail with kvstore.ErrStorageUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
