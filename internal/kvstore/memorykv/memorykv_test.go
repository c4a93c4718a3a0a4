package memorykv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/kvtest"
)

func TestMemoryStore(t *testing.T) {
	t.Run("StoreSuite", func(t *testing.T) {
		kvtest.TestStoreSuite(t, func() kvstore.Store {
			return New()
		})
	})
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{}`)))
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, kvstore.ErrStorageUnavailable)

	err = s.Set(ctx, "k", json.RawMessage(`{}`))
	require.ErrorIs(t, err, kvstore.ErrStorageUnavailable)

	_, err = s.GetByPrefix(ctx, "")
	require.ErrorIs(t, err, kvstore.ErrStorageUnavailable)

	var se *kvstore.StorageError
	require.ErrorAs(t, s.Delete(ctx, "k"), &se)
	require.Equal(t, "delete", se.Op)
}
