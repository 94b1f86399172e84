package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/llm"
)

func TestSQLiteStorage_ResponseCache(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("empty cache loads as empty", func(t *testing.T) {
		got, err := store.LoadResponses(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	responses := []llm.CachedResponse{
		{Prompt: "newest question", Model: "m", Response: "newest answer", TokensUsed: 12, CachedAt: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)},
		{Prompt: "older question", Model: "m", Response: "older answer", TokensUsed: 7, CachedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
	}

	t.Run("save and reload preserves order", func(t *testing.T) {
		require.NoError(t, store.SaveResponses(ctx, responses))

		got, err := store.LoadResponses(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "newest question", got[0].Prompt)
		assert.Equal(t, "older question", got[1].Prompt)
		assert.Equal(t, 12, got[0].TokensUsed)
	})

	t.Run("save replaces previous snapshot", func(t *testing.T) {
		require.NoError(t, store.SaveResponses(ctx, responses[:1]))

		got, err := store.LoadResponses(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("saving empty snapshot clears the table", func(t *testing.T) {
		require.NoError(t, store.SaveResponses(ctx, nil))

		got, err := store.LoadResponses(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
