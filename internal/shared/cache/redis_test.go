package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(Options{Addr: mr.Addr(), TTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetGetJSON(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "usage:emp-1", account{Plan: "pro", Seats: 4}))

	var got account
	require.NoError(t, c.GetJSON(ctx, "usage:emp-1", &got))
	assert.Equal(t, account{Plan: "pro", Seats: 4}, got)
	assert.Equal(t, time.Minute, mr.TTL("usage:emp-1"))
}

func TestGetJSONMiss(t *testing.T) {
	c, _ := newTestCache(t)
	var got account
	assert.ErrorIs(t, c.GetJSON(context.Background(), "absent", &got), ErrMiss)
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "k", account{Plan: "team"}))

	mr.FastForward(2 * time.Minute)

	var got account
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &got), ErrMiss)
}

func TestDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "k", account{Plan: "team"}))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.SetJSON(ctx, "k", 1))
	assert.ErrorIs(t, c.GetJSON(ctx, "k", new(int)), ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestPingFailsWhenServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
