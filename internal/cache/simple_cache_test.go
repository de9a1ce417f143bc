package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimpleCache_SetGet_NoTTL(t *testing.T) {
	c := NewSimpleCache[string, string](Options{})
	c.Set("cmcount_total", "4821", 0)

	v, ok := c.Get("cmcount_total")
	require.True(t, ok)
	require.Equal(t, "4821", v)
}

func TestSimpleCache_TTL_Expiry(t *testing.T) {
	c := NewSimpleCache[string, string](Options{ConcurrencySafe: true})

	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set("k", "v", time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	base = base.Add(2 * time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestSimpleCache_Delete(t *testing.T) {
	c := NewSimpleCache[string, int](Options{ConcurrencySafe: true})
	c.Set("a", 10, 0)
	c.Set("b", 20, 0)

	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	v, ok := c.Get("b")
	require.True(t, ok)
	require.Equal(t, 20, v)
}

func TestSimpleCache_ConcurrentWriters(t *testing.T) {
	c := NewSimpleCache[int, int](Options{ConcurrencySafe: true})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for r := 0; r < 100; r++ {
				c.Set(i, r, 0)
				_, _ = c.Get(i)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		v, ok := c.Get(i)
		require.True(t, ok)
		require.Equal(t, 99, v)
	}
}
