package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPut(t *testing.T) {
	c := New[string, int](10, time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestEvictionAtMaxSize(t *testing.T) {
	c := New[string, int](2, time.Minute)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c := New[string, int](10, 50*time.Millisecond)

	c.Put("a", 1)
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(120 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should have expired")
}

func TestGetOrComputeCachesResult(t *testing.T) {
	c := New[string, int](10, time.Minute)

	var calls atomic.Int32
	loader := func() (int, error) {
		calls.Add(1)
		return 42, nil
	}

	v, err := c.GetOrCompute("k", loader)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("k", loader)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), calls.Load(), "second call should be a hit")
}

func TestGetOrComputeSingleFlight(t *testing.T) {
	c := New[string, int](10, time.Minute)

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func() (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCompute("k", loader)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Give every goroutine a chance to join the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses should collapse into one load")
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	c := New[string, int](10, time.Minute)

	var calls atomic.Int32
	fail := errors.New("upstream down")
	loader := func() (int, error) {
		if calls.Add(1) == 1 {
			return 0, fail
		}
		return 9, nil
	}

	_, err := c.GetOrCompute("k", loader)
	require.ErrorIs(t, err, fail)
	assert.Equal(t, 0, c.Len(), "failed load must not populate the cache")

	v, err := c.GetOrCompute("k", loader)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
	assert.Equal(t, int32(2), calls.Load())
}
