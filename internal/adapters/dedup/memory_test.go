package dedup

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFilterIsNew(t *testing.T) {
	f := NewMemoryFilter(time.Hour)
	ctx := context.Background()

	first, err := f.IsNew(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := f.IsNew(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, second)

	other, err := f.IsNew(ctx, "msg-2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestMemoryFilterSweepsExpiredEntries(t *testing.T) {
	f := NewMemoryFilter(time.Hour)
	ctx := context.Background()
	f.seen["stale"] = time.Now().Add(-time.Minute)

	for i := 0; i < sweepInterval; i++ {
		_, err := f.IsNew(ctx, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
	}

	_, stale := f.seen["stale"]
	assert.False(t, stale, "expired entries must be swept, not retained forever")
	assert.Len(t, f.seen, sweepInterval)
}

func TestMemoryFilterExpiry(t *testing.T) {
	f := NewMemoryFilter(10 * time.Millisecond)
	ctx := context.Background()

	fresh, err := f.IsNew(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	time.Sleep(20 * time.Millisecond)

	again, err := f.IsNew(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, again)
}
