// Package kvtest holds the behaviour every kvstore.Store backend must share.
package kvtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

// TestStoreSuite runs the shared contract against stores produced by newStore.
// Each subtest gets a fresh, empty store and closes it afterwards.
func TestStoreSuite(t *testing.T, newStore func() kvstore.Store) {
	ctx := context.Background()

	run := func(name string, fn func(t *testing.T, s kvstore.Store)) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()
			fn(t, s)
		})
	}

	run("GetMissing", func(t *testing.T, s kvstore.Store) {
		v, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
		assert.Nil(t, v)
	})

	run("SetGetRoundTrip", func(t *testing.T, s kvstore.Store) {
		value := json.RawMessage(`{"answer":"yes","message":"see you there","timestamp":"2026-02-14T13:00:00Z"}`)
		require.NoError(t, s.Set(ctx, "valentine_response_1", value))

		got, err := s.Get(ctx, "valentine_response_1")
		require.NoError(t, err)
		assert.Equal(t, string(value), string(got))

		// whitespace and key order are preserved byte for byte
		spaced := json.RawMessage("{ \"timestamp\": \"2026-02-14T13:00:00Z\",\n  \"answer\": \"no\" }")
		require.NoError(t, s.Set(ctx, "valentine_response_2", spaced))
		got, err = s.Get(ctx, "valentine_response_2")
		require.NoError(t, err)
		assert.Equal(t, string(spaced), string(got))

		entries, err := s.GetByPrefix(ctx, "valentine_response_2")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, string(spaced), string(entries[0].Value))
	})

	run("SetOverwrites", func(t *testing.T, s kvstore.Store) {
		require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{"v":1}`)))
		require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{"v":2}`)))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(got))
	})

	run("SetIdempotent", func(t *testing.T, s kvstore.Store) {
		value := json.RawMessage(`{"answer":"maybe","message":"","timestamp":"2026-02-10T09:00:00Z"}`)
		require.NoError(t, s.Set(ctx, "p_a", value))
		require.NoError(t, s.Set(ctx, "p_a", value))

		got, err := s.Get(ctx, "p_a")
		require.NoError(t, err)
		assert.JSONEq(t, string(value), string(got))

		entries, err := s.GetByPrefix(ctx, "p_")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	run("SetRejectsInvalidJSON", func(t *testing.T, s kvstore.Store) {
		err := s.Set(ctx, "bad", json.RawMessage(`{"answer":`))
		require.ErrorIs(t, err, kvstore.ErrInvalidValue)

		_, err = s.Get(ctx, "bad")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	run("GetByPrefixEmpty", func(t *testing.T, s kvstore.Store) {
		entries, err := s.GetByPrefix(ctx, "valentine_response_")
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	run("GetByPrefixCounts", func(t *testing.T, s kvstore.Store) {
		const n = 7
		for i := 0; i < n; i++ {
			key := fmt.Sprintf("valentine_response_%d", i)
			require.NoError(t, s.Set(ctx, key, json.RawMessage(fmt.Sprintf(`{"i":%d}`, i))))
		}
		require.NoError(t, s.Set(ctx, "other_1", json.RawMessage(`{}`)))
		require.NoError(t, s.Set(ctx, "valentine_respons", json.RawMessage(`{}`)))

		entries, err := s.GetByPrefix(ctx, "valentine_response_")
		require.NoError(t, err)
		require.Len(t, entries, n)

		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, e.Key)
			var body struct{ I int }
			require.NoError(t, json.Unmarshal(e.Value, &body))
			assert.Equal(t, fmt.Sprintf("valentine_response_%d", body.I), e.Key)
		}
		sort.Strings(keys)
		assert.Equal(t, "valentine_response_0", keys[0])
		assert.Equal(t, "valentine_response_6", keys[n-1])
	})

	run("DeleteMissingIsNoop", func(t *testing.T, s kvstore.Store) {
		require.NoError(t, s.Delete(ctx, "ghost"))
	})

	run("Delete", func(t *testing.T, s kvstore.Store) {
		require.NoError(t, s.Set(ctx, "p_1", json.RawMessage(`{"a":1}`)))
		require.NoError(t, s.Set(ctx, "p_2", json.RawMessage(`{"a":2}`)))
		require.NoError(t, s.Delete(ctx, "p_1"))

		_, err := s.Get(ctx, "p_1")
		require.ErrorIs(t, err, kvstore.ErrNotFound)

		entries, err := s.GetByPrefix(ctx, "p_")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "p_2", entries[0].Key)
	})

	run("ReturnedValuesArePrivate", func(t *testing.T, s kvstore.Store) {
		require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{"a":1}`)))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		for i := range got {
			got[i] = ' '
		}

		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(again))
	})

	run("ConcurrentDistinctKeys", func(t *testing.T, s kvstore.Store) {
		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.Set(ctx, fmt.Sprintf("c_%02d", i), json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		entries, err := s.GetByPrefix(ctx, "c_")
		require.NoError(t, err)
		assert.Len(t, entries, workers)
	})
}
