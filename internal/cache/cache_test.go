package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervo/bookshelf/internal/models"
)

func newTestCache(t *testing.T) (*QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb), mr
}

func samplePage() *models.PageResult {
	return &models.PageResult{
		Page:       1,
		Limit:      10,
		TotalPages: 1,
		TotalItems: 1,
		Data:       []models.Book{{Title: "Dune", Author: "Frank Herbert", Year: 1965}},
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "books:page:1:limit:10:title:", Key(1, 10, ""))
	assert.Equal(t, "books:page:2:limit:5:title:dune", Key(2, 5, "dune"))

	// Same signature, same key; different signatures, different keys.
	assert.Equal(t, Key(3, 20, "herbert"), Key(3, 20, "herbert"))
	assert.NotEqual(t, Key(1, 10, "a"), Key(1, 10, "b"))
	assert.NotEqual(t, Key(1, 10, ""), Key(2, 10, ""))
	assert.NotEqual(t, Key(1, 10, ""), Key(1, 20, ""))
}

func TestGetMiss(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), Key(1, 10, ""))
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t)
	ctx := context.Background()

	key := Key(1, 10, "dune")
	require.NoError(t, c.Set(ctx, key, samplePage()))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, samplePage(), got)

	// Entry carries the cache TTL.
	assert.Equal(t, TTL, mr.TTL(key))
}

func TestGetAfterTTL(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t)
	ctx := context.Background()

	key := Key(1, 10, "")
	require.NoError(t, c.Set(ctx, key, samplePage()))

	mr.FastForward(TTL + time.Second)

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDeleteAllMatching(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t)
	ctx := context.Background()

	// Far more keys than one scan batch, to force multiple cursor rounds.
	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, Key(i, 10, "x"), samplePage()))
	}
	mr.Set("unrelated:1", "keep")

	deleted, err := c.DeleteAllMatching(ctx, KeyPattern)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, deleted)

	for i := 0; i < 1000; i++ {
		assert.False(t, mr.Exists(Key(i, 10, "x")))
	}
	assert.True(t, mr.Exists("unrelated:1"))
}

func TestDeleteAllMatchingEmpty(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t)

	deleted, err := c.DeleteAllMatching(context.Background(), KeyPattern)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestScanMatchingCoversAllKeys(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t)
	ctx := context.Background()

	want := map[string]bool{}
	for i := 0; i < 500; i++ {
		key := Key(i, 10, "")
		require.NoError(t, c.Set(ctx, key, samplePage()))
		want[key] = true
	}

	scan := c.NewScan(KeyPattern)
	got := map[string]bool{}
	for {
		keys, done, err := scan.Next(ctx)
		require.NoError(t, err)
		for _, k := range keys {
			got[k] = true
		}
		if done {
			break
		}
	}
	assert.Equal(t, want, got)

	// A finished scan yields nothing further.
	keys, done, err := scan.Next(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, keys)
}

func TestGetConnectionError(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), Key(1, 10, ""))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestDeleteAllMatchingScanError(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.DeleteAllMatching(context.Background(), KeyPattern)
	assert.Error(t, err)
}
