package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type item struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSONCachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var loads atomic.Int32
	load := func(context.Context) (*item, error) {
		loads.Add(1)
		return &item{Name: "alice"}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	got, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.EqualValues(t, 1, loads.Load())

	raw, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alice"}`, raw)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestGetOrLoadJSONNilIsCachedAsNull(t *testing.T) {
	c, mr := newTestCache(t)

	got, err := GetOrLoadJSON(c, context.Background(), "missing", time.Minute,
		func(context.Context) (*item, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, got)

	raw, err := mr.Get("missing")
	require.NoError(t, err)
	assert.Equal(t, "null", raw)
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute,
		func(context.Context) (*item, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestDelete(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	require.NoError(t, c.Delete(context.Background(), "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestGetOrLoadDoesNotOverwriteConcurrentSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// a writer publishes newer state while the load is in flight
	got, err := GetOrLoadJSON(c, ctx, "k", time.Minute, func(ctx context.Context) (*item, error) {
		require.NoError(t, SetJSON(c, ctx, "k", &item{Name: "bob"}, time.Minute))
		return &item{Name: "alice"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	raw, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"bob"}`, raw)

	got, err = GetOrLoadJSON(c, ctx, "k", time.Minute, func(context.Context) (*item, error) {
		t.Fatal("load must not run on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Name)
}

func TestSetJSON(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "null"))

	require.NoError(t, SetJSON(c, context.Background(), "k", &item{Name: "carol"}, time.Minute))
	raw, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"carol"}`, raw)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}
