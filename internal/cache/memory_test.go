package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("kanji", "https://kanjiapi.dev/v1/kanji/在")
	b := CacheKey("word", "https://kanjiapi.dev/v1/kanji/在")
	c := CacheKey("kanji", "https://kanjiapi.dev/v1/kanji/外")

	assert.True(t, strings.HasPrefix(a, "kotoba:v1:kanji:"))
	assert.NotEqual(t, a, b, "kind is part of the key")
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, CacheKey("kanji", "https://kanjiapi.dev/v1/kanji/在"))
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte(`{"kanji":"在"}`), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, `{"kanji":"在"}`, string(got))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	src := []byte("abc")
	require.NoError(t, c.Set("k", src, 0))
	src[0] = 'x'

	got, _ := c.Get("k")
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := c.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("short", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))

	require.NoError(t, c.Delete("a"))
	_, ok := c.Get("a")
	assert.False(t, ok)

	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}
