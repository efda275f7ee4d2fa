package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type totals struct {
	Count int    `json:"count"`
	Sum   string `json:"sum"`
}

func newTestCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute), mr
}

func TestBuildKey_EmbedsOwnerVersion(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "owner-1", "stats")
	require.NoError(t, err)
	assert.Equal(t, "report:owner-1:stats:1", key)
	v, err := mr.Get("report:version:owner-1")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, c.Bump(ctx, "owner-1"))
	key, err = c.BuildKey(ctx, "owner-1", "stats")
	require.NoError(t, err)
	assert.Equal(t, "report:owner-1:stats:2", key)

	other, err := c.BuildKey(ctx, "owner-2", "stats")
	require.NoError(t, err)
	assert.Equal(t, "report:owner-2:stats:1", other, "bumping one owner leaves the others alone")
}

func TestFetchJSON_CachesUntilBumped(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return totals{Count: calls, Sum: "100.00"}, nil
	}

	fetch := func() totals {
		key, err := c.BuildKey(ctx, "owner-1", "stats")
		require.NoError(t, err)
		var out totals
		require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
		return out
	}

	assert.Equal(t, 1, fetch().Count)
	assert.Equal(t, 1, fetch().Count)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("report:owner-1:stats:1"))
	assert.Equal(t, time.Minute, mr.TTL("report:owner-1:stats:1"))

	require.NoError(t, c.Bump(ctx, "owner-1"))
	assert.Equal(t, 2, fetch().Count)
	assert.Equal(t, 2, calls)
}

func TestFetchJSON_LoaderErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("database down")

	var out totals
	err := c.FetchJSON(ctx, "report:owner-1:stats:1", &out, func(context.Context) (any, error) { return nil, boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("report:owner-1:stats:1"))
}

func TestFetchJSON_RequiresLoader(t *testing.T) {
	c, _ := newTestCache(t)
	var out totals
	assert.Error(t, c.FetchJSON(context.Background(), "k", &out, nil))
}

func TestNilClient_PassesThrough(t *testing.T) {
	c := NewReportCache(nil, time.Minute)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "owner-1", "monthly", "6")
	require.NoError(t, err)
	assert.Equal(t, "report:owner-1:monthly:6", key)

	var out totals
	require.NoError(t, c.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return totals{Count: 7}, nil
	}))
	assert.Equal(t, 7, out.Count)
	assert.NoError(t, c.Bump(ctx, "owner-1"))
}
