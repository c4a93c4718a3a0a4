// Package leveldbkv implements kvstore.Store on an embedded LevelDB database.
package leveldbkv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

const backendName = "leveldb"

// Store is a LevelDB-backed key-value store. Writes are synced to disk before returning.
type Store struct {
	db        *leveldb.DB
	writeOpts *opt.WriteOptions
}

// Open opens (creating if missing) the database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "open", path, err)
	}
	return New(db), nil
}

// New wraps an already opened database.
func New(db *leveldb.DB) *Store {
	return &Store{
		db:        db,
		writeOpts: &opt.WriteOptions{Sync: true},
	}
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "get", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := kvstore.CheckValue(value); err != nil {
		return err
	}
	if err := s.db.Put([]byte(key), value, s.writeOpts); err != nil {
		return kvstore.Unavailable(backendName, "set", key, err)
	}
	return nil
}

// GetByPrefix iterates over an implicit snapshot bounded by util.BytesPrefix.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer it.Release()

	out := []kvstore.Entry{}
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// the iterator reuses its buffers
		out = append(out, kvstore.Entry{
			Key:   string(it.Key()),
			Value: kvstore.Clone(it.Value()),
		})
	}
	if err := it.Error(); err != nil {
		return nil, kvstore.Unavailable(backendName, "scan", prefix, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.Delete([]byte(key), s.writeOpts); err != nil {
		return kvstore.Unavailable(backendName, "delete", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
