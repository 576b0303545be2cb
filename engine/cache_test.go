package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requireHit(t *testing.T, c *Cache[string], key, want string) {
	t.Helper()
	v, ok := c.Get(key)
	require.True(t, ok, "expected %q in cache", key)
	require.Equal(t, want, v)
}

func requireMiss(t *testing.T, c *Cache[string], key string) {
	t.Helper()
	_, ok := c.Get(key)
	require.False(t, ok, "expected %q to be evicted", key)
}

func TestCacheLeastFrequentlyUsed(t *testing.T) {
	c := NewCache[string](2, 2)

	for _, k := range []string{"a", "b", "c", "d"} {
		require.Empty(t, c.Store(k, k+"!"))
	}
	requireHit(t, c, "d", "d!")
	requireHit(t, c, "a", "a!")
	requireHit(t, c, "d", "d!")
	requireHit(t, c, "a", "a!")
	requireHit(t, c, "c", "c!")

	// c was used once and b never
	require.ElementsMatch(t, []string{"b", "c"}, c.Store("e", "e!"))
	requireMiss(t, c, "c")
	requireMiss(t, c, "b")
	requireHit(t, c, "d", "d!")
	requireHit(t, c, "a", "a!")
	requireHit(t, c, "a", "a!")
	requireHit(t, c, "e", "e!")
	requireHit(t, c, "e", "e!")

	require.Empty(t, c.Store("f", "f!"))
	require.ElementsMatch(t, []string{"e", "f"}, c.Store("g", "g!"))

	requireMiss(t, c, "f")
	requireHit(t, c, "g", "g!")
	// e had two uses but a and d had more
	requireMiss(t, c, "e")
	requireHit(t, c, "d", "d!")
	requireHit(t, c, "a", "a!")

	require.Equal(t, 3, c.offset)
	require.Equal(t, 5, c.entries["a"].priority)
	require.Equal(t, 4, c.entries["d"].priority)

	c.ReduceOffset()
	require.Equal(t, 0, c.offset)
	require.Equal(t, 2, c.entries["a"].priority)
	require.Equal(t, 1, c.entries["d"].priority)
	require.Equal(t, 3, c.Len())
}

func TestCacheReplaceKeepsPriority(t *testing.T) {
	c := NewCache[string](1, 1)
	c.Store("a", "1")
	requireHit(t, c, "a", "1")

	require.Empty(t, c.Store("a", "2"))
	require.Equal(t, 1, c.entries["a"].priority)
	requireHit(t, c, "a", "2")

	c.Remove("a")
	requireMiss(t, c, "a")

	c.Store("b", "b")
	c.Clear()
	require.Zero(t, c.Len())
}
