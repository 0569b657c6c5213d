package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("set then get round-trips", func(t *testing.T) {
		c, err := New[string](100, time.Minute)
		require.NoError(t, err)

		c.Set("k", "v")
		c.Wait()

		got, ok := c.Get("k")
		require.True(t, ok)
		require.Equal(t, "v", got)
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		c, err := New[string](100, time.Minute)
		require.NoError(t, err)

		_, ok := c.Get("absent")
		require.False(t, ok)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		c, err := New[string](100, 20*time.Millisecond)
		require.NoError(t, err)

		c.Set("k", "v")
		c.Wait()

		time.Sleep(50 * time.Millisecond)

		_, ok := c.Get("k")
		require.False(t, ok)
	})

	t.Run("delete removes one entry", func(t *testing.T) {
		c, err := New[string](100, time.Minute)
		require.NoError(t, err)

		c.Set("a", "1")
		c.Set("b", "2")
		c.Wait()

		c.Delete("a")
		c.Wait()

		_, ok := c.Get("a")
		require.False(t, ok)
		_, ok = c.Get("b")
		require.True(t, ok)
	})

	t.Run("flush drops everything", func(t *testing.T) {
		c, err := New[string](100, time.Minute)
		require.NoError(t, err)

		c.Set("a", "1")
		c.Wait()

		c.Flush()

		_, ok := c.Get("a")
		require.False(t, ok)
	})

	t.Run("non-positive size is rejected", func(t *testing.T) {
		_, err := New[string](0, time.Minute)
		require.Error(t, err)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	// The separator keeps ambiguous parameter splits apart.
	require.NotEqual(t, Key("op", "ab", "c"), Key("op", "a", "bc"))
	require.NotEqual(t, Key("op", "a"), Key("op", "a", ""))
	require.Equal(t, Key("op", "a", "b"), Key("op", "a", "b"))
}
