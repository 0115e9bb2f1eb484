// Package randomizer implements the blinding-factor cache: a bounded ring
// of precomputed tuples that hides the cost of randomizer generation from
// a comparison's critical path. Cache[T] is generic over the tuple type
// so it can back both the Paillier-layer comparison tuples and the
// DGK-layer mask tuples with one implementation rather than one per
// cryptosystem.
package randomizer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/isplab/secomp/pkg/secerr"
)

// Factory builds one fresh tuple. It is called capacity times at
// construction, and again by StartRefill to replenish popped tuples.
type Factory[T any] func() (T, error)

// Cache is a bounded ring buffer of precomputed blinding tuples.
type Cache[T any] struct {
	mu           sync.Mutex
	tuples       []T
	index        int
	capacity     int
	reuseAllowed bool
	reuseWarned  bool
	factory      Factory[T]
	logger       *slog.Logger
}

// New eagerly fills a cache of the given capacity by calling factory
// capacity times. Constructor failure (insufficient randomness, cryptosystem
// failure) is fatal: the cache is unusable and New returns the error.
func New[T any](capacity int, reuseAllowed bool, factory Factory[T], logger *slog.Logger) (*Cache[T], error) {
	if capacity < 1 {
		return nil, secerr.New(secerr.ConfigurationError, "randomizer.Cache.New", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	tuples := make([]T, 0, capacity)
	for i := 0; i < capacity; i++ {
		t, err := factory()
		if err != nil {
			return nil, secerr.New(secerr.CryptoFailure, "randomizer.Cache.New", err)
		}
		tuples = append(tuples, t)
	}
	return &Cache[T]{
		tuples:       tuples,
		capacity:     capacity,
		reuseAllowed: reuseAllowed,
		factory:      factory,
		logger:       logger,
	}, nil
}

// Pop returns the next tuple, advancing the ring index modulo capacity.
// Pop never fails unless capacity has been exhausted and reuse is
// disabled, in which case it reports CacheExhaustion. New always returns
// a fully populated cache, so calling Pop before construction completes
// cannot happen through the exported API.
func (c *Cache[T]) Pop() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index >= len(c.tuples) {
		if !c.reuseAllowed {
			var zero T
			return zero, secerr.New(secerr.CacheExhaustion, "randomizer.Cache.Pop", nil)
		}
		if !c.reuseWarned {
			c.logger.Warn("randomizer cache wrapped around; blinding tuples are being reused",
				"capacity", c.capacity)
			c.reuseWarned = true
		}
		c.index = 0
	}
	t := c.tuples[c.index]
	c.index++
	return t, nil
}

// Len reports how many tuples the cache currently holds.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tuples)
}

// StartRefill launches a background goroutine that keeps the cache topped
// up to capacity whenever it drops below lowWaterMark, so production use
// does not have to rely on ring reuse. It stops when ctx is canceled.
func (c *Cache[T]) StartRefill(ctx context.Context, lowWaterMark int, pollInterval time.Duration) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.topUp(lowWaterMark)
			}
		}
	}()
}

func (c *Cache[T]) topUp(lowWaterMark int) {
	c.mu.Lock()
	remaining := len(c.tuples) - c.index
	needed := 0
	if remaining < lowWaterMark {
		needed = c.capacity - remaining
	}
	c.mu.Unlock()

	if needed <= 0 {
		return
	}

	fresh := make([]T, 0, needed)
	for i := 0; i < needed; i++ {
		t, err := c.factory()
		if err != nil {
			c.logger.Error("randomizer cache background refill failed", "error", err)
			return
		}
		fresh = append(fresh, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tuples = append(c.tuples[c.index:], fresh...)
	c.index = 0
}
