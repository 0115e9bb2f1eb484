package randomizer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isplab/secomp/internal/randomizer"
	"github.com/isplab/secomp/pkg/secerr"
)

func counterFactory(n *int, mu *sync.Mutex) randomizer.Factory[int] {
	return func() (int, error) {
		mu.Lock()
		defer mu.Unlock()
		*n++
		return *n, nil
	}
}

func TestNewFillsToCapacity(t *testing.T) {
	var n int
	var mu sync.Mutex
	cache, err := randomizer.New(5, false, counterFactory(&n, &mu), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cache.Len())
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	var n int
	var mu sync.Mutex
	_, err := randomizer.New(0, false, counterFactory(&n, &mu), nil)
	require.Error(t, err)
	assert.True(t, secerr.Is(err, secerr.ConfigurationError))
}

func TestPopExhaustionWithoutReuse(t *testing.T) {
	var n int
	var mu sync.Mutex
	cache, err := randomizer.New(2, false, counterFactory(&n, &mu), nil)
	require.NoError(t, err)

	_, err = cache.Pop()
	require.NoError(t, err)
	_, err = cache.Pop()
	require.NoError(t, err)

	_, err = cache.Pop()
	require.Error(t, err)
	assert.True(t, secerr.Is(err, secerr.CacheExhaustion))
}

func TestPopWrapsWhenReuseAllowed(t *testing.T) {
	var n int
	var mu sync.Mutex
	cache, err := randomizer.New(2, true, counterFactory(&n, &mu), nil)
	require.NoError(t, err)

	first, err := cache.Pop()
	require.NoError(t, err)
	_, err = cache.Pop()
	require.NoError(t, err)

	wrapped, err := cache.Pop()
	require.NoError(t, err)
	assert.Equal(t, first, wrapped)
}

func TestStartRefillToppsUpBelowLowWaterMark(t *testing.T) {
	var n int
	var mu sync.Mutex
	cache, err := randomizer.New(4, false, counterFactory(&n, &mu), nil)
	require.NoError(t, err)

	// Drain to 2 remaining tuples, below the low-water mark of 3.
	_, err = cache.Pop()
	require.NoError(t, err)
	_, err = cache.Pop()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartRefill(ctx, 3, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 6 // 4 built at New, 2 more from the background top-up
	}, time.Second, 5*time.Millisecond)

	// The ring was replenished back to capacity, so 4 more pops succeed
	// before a reuse-disabled cache would normally have exhausted after 2.
	for i := 0; i < 4; i++ {
		_, err := cache.Pop()
		require.NoError(t, err)
	}
	_, err = cache.Pop()
	assert.True(t, secerr.Is(err, secerr.CacheExhaustion))
}
