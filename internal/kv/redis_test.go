package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, prefix), mr
}

func TestRedis_PrefixedKeys(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t, "pd:")

	require.NoError(t, r.Set(ctx, "theme", "true"))
	got, err := mr.Get("pd:theme")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	v, err := r.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = r.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(ctx, "theme"))
	assert.False(t, mr.Exists("pd:theme"))
}

func TestRedis_ClearOnlyOwnPrefix(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t, "pd:")
	require.NoError(t, mr.Set("other:tasks", "keep"))
	require.NoError(t, r.Set(ctx, "tasks", "[]"))
	require.NoError(t, r.Set(ctx, "notes", "[]"))

	require.NoError(t, r.Clear(ctx))

	assert.False(t, mr.Exists("pd:tasks"))
	assert.False(t, mr.Exists("pd:notes"))
	assert.True(t, mr.Exists("other:tasks"))
}

func TestDialRedis_BadURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "not a url", 1)
	assert.Error(t, err)
}

func TestDialRedis_Pings(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0", 4)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 4, client.Options().PoolSize)
}
