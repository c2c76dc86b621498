package cache

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIgnoresParameterOrder(t *testing.T) {
	a := url.Values{"page": {"2"}, "address": {"pune"}, "amenity": {"wifi", "ac"}}
	b := url.Values{"amenity": {"ac", "wifi"}, "address": {"pune"}, "page": {"2"}}

	assert.Equal(t, Key(a), Key(b))
	assert.True(t, strings.HasPrefix(Key(a), keyPrefix))
	assert.NotEqual(t, Key(a), Key(url.Values{"page": {"3"}, "address": {"pune"}}))
	assert.Equal(t, Key(url.Values{}), Key(nil))
}

func newRedisCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, 10*time.Minute), mr
}

func TestRedisGetSet(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	key := Key(url.Values{"page": {"1"}})

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte(`{"success":true}`))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"success":true}`, string(got))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestRedisInvalidateOnlyDropsPropertyKeys(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		c.Set(ctx, Key(url.Values{"page": {string(rune('a' + i%26))}, "n": {time.Duration(i).String()}}), []byte("x"))
	}
	require.NoError(t, mr.Set("session:abc", "keep"))

	c.Invalidate(ctx)

	assert.Equal(t, []string{"session:abc"}, mr.Keys())
}

func TestRedisUnavailableIsAMiss(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	mr.Close()

	_, ok := c.Get(ctx, "property:x")
	assert.False(t, ok)
	c.Set(ctx, "property:x", []byte("x"))
	c.Invalidate(ctx)
}

func TestNoop(t *testing.T) {
	var c PropertyCache = Noop{}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Invalidate(ctx)
}
