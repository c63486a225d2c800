package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.SetJSON(ctx, "sellers", map[string]string{"a": "Kabul Gadgets"}, time.Minute))

	var got map[string]string
	require.NoError(t, c.GetJSON(ctx, "sellers", &got))
	assert.Equal(t, "Kabul Gadgets", got["a"])
	assert.ErrorIs(t, c.GetJSON(ctx, "other", &got), ErrMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))

	var v int
	require.NoError(t, c.GetJSON(ctx, "k", &v))

	now = now.Add(time.Minute)
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &v), ErrMiss)
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	assert.Equal(t, "bazaar:sellers", NewRedisCache(nil, "bazaar").key("sellers"))
	assert.Equal(t, "sellers", NewRedisCache(nil, "").key("sellers"))
}
