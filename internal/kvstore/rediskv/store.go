// Package rediskv implements kvstore.Store on Redis strings. Prefix scans use SCAN with a
// MATCH pattern followed by batched MGET.
package rediskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

const (
	backendName = "redis"
	scanCount   = 250
	mgetBatch   = 250
)

// Options configures a Redis-backed store.
type Options struct {
	URL         string
	MaxRetries  int
	PoolSize    int
	PoolTimeout time.Duration
}

// Store implements kvstore.Store using Redis as the backend.
type Store struct {
	client *redis.Client
}

// New wraps an existing client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Open parses opts.URL, applies pool defaults and pings the server before returning.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL must be provided")
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10
	}
	if opts.PoolTimeout == 0 {
		opts.PoolTimeout = 30 * time.Second
	}

	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.MaxRetries = opts.MaxRetries
	opt.PoolSize = opts.PoolSize
	opt.PoolTimeout = opts.PoolTimeout
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, kvstore.Unavailable(backendName, "ping", "", fmt.Errorf("connect to %s: %w", opt.Addr, err))
	}

	return New(client), nil
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "get", key, err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := kvstore.CheckValue(value); err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, []byte(value), 0).Err(); err != nil {
		return kvstore.Unavailable(backendName, "set", key, err)
	}
	return nil
}

// GetByPrefix walks the keyspace with SCAN. SCAN may report a key more than once, so
// keys are de-duplicated; a key deleted between SCAN and MGET is skipped.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	match := escapeGlob(prefix) + "*"
	seen := map[string]struct{}{}
	var keys []string

	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, kvstore.Unavailable(backendName, "scan", prefix, err)
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	out := make([]kvstore.Entry, 0, len(keys))
	for start := 0; start < len(keys); start += mgetBatch {
		end := min(start+mgetBatch, len(keys))
		vals, err := s.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, kvstore.Unavailable(backendName, "mget", prefix, err)
		}
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			out = append(out, kvstore.Entry{Key: keys[start+i], Value: json.RawMessage(str)})
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return kvstore.Unavailable(backendName, "delete", key, err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
