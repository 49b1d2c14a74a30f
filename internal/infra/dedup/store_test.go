package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_MarkProcessed(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, first)

	first, err = store.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, first)

	now = now.Add(2 * time.Hour)
	first, err = store.MarkProcessed(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, first, "expired marks are reusable")
}

func TestMemoryStore_Forget(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt_2")
	require.NoError(t, err)
	require.NoError(t, store.Forget(ctx, "evt_2"))

	first, err := store.MarkProcessed(ctx, "evt_2")
	require.NoError(t, err)
	assert.True(t, first)
}
