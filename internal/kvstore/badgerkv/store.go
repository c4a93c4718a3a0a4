// Package badgerkv implements kvstore.Store on an embedded Badger database.
package badgerkv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

const backendName = "badger"

// Options configures Open.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// Logger receives Badger's internal log lines. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store wraps a Badger database. Every operation runs in its own transaction.
type Store struct {
	db *badger.DB
}

// Open opens the database described by opts.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(slogAdapter{logger.With("component", "badger")})
	if opts.InMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	} else {
		bopts = bopts.WithSyncWrites(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "open", opts.Path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "get", key, err)
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := kvstore.CheckValue(value); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), kvstore.Clone(value))
	})
	if err != nil {
		return kvstore.Unavailable(backendName, "set", key, err)
	}
	return nil
}

func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	p := []byte(prefix)
	out := []kvstore.Entry{}
	err := s.db.View(func(txn *badger.Txn) error {
		iopts := badger.DefaultIteratorOptions
		iopts.Prefix = p
		it := txn.NewIterator(iopts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, kvstore.Entry{Key: string(item.KeyCopy(nil)), Value: v})
		}
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "scan", prefix, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return kvstore.Unavailable(backendName, "delete", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
