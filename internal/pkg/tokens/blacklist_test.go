package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	b := NewMemory()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Add(ctx, "a", time.Minute))
	require.NoError(t, b.Add(ctx, "expired", 0))

	ok, err := b.Contains(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Contains(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = b.Contains(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Add prunes entries that are already past their expiry
	require.NoError(t, b.Add(ctx, "b", time.Minute))
	assert.Len(t, b.entries, 1)
}
