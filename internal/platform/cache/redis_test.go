package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-interiors/meridian/internal/platform/cache"
)

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.New(client, time.Minute)
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "revenue", "all")
	require.NoError(t, err)

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return map[string]float64{"total": 42}, nil
	}

	var out map[string]float64
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 42.0, out["total"])
	require.Equal(t, 1, loads)

	out = nil
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 42.0, out["total"])
	require.Equal(t, 1, loads)
}

func TestBumpInvalidatesKeys(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "revenue", "all")
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx))

	after, err := c.BuildKey(ctx, "revenue", "all")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var c *cache.Cache

	var out map[string]int
	err := c.FetchJSON(context.Background(), "key", &out, func(ctx context.Context) (interface{}, error) {
		return map[string]int{"n": 1}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, out["n"])

	require.NoError(t, c.Bump(context.Background()))
}
