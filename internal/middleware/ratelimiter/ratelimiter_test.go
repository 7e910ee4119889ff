package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows requests within the rate limit", func(t *testing.T) {
		l := &Limiter{
			tokens:     10,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now(),
		}

		assert.True(t, l.Allow())
		assert.Equal(t, 9.0, l.tokens)
	})

	t.Run("denies requests when tokens are depleted", func(t *testing.T) {
		l := &Limiter{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now(),
		}

		assert.False(t, l.Allow())
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		l := &Limiter{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		assert.True(t, l.Allow())
		assert.InDelta(t, 0.0, l.tokens, 1.1) // Account for potential slight time discrepancies
	})

	t.Run("does not exceed capacity", func(t *testing.T) {
		l := &Limiter{
			tokens:     9,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		l.Allow()
		assert.Equal(t, float64(9), l.tokens)
	})
}

func TestIdentityLimiter_getLimiter(t *testing.T) {
	t.Run("creates a new limiter for a new identity", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, time.Minute)
		limiter := il.getLimiter("user_1")

		require.NotNil(t, limiter)
		assert.Equal(t, 10.0, limiter.tokens)
		assert.Equal(t, "user_1", limiter.identity)
	})

	t.Run("returns the existing limiter for the same identity", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, time.Minute)
		limiter1 := il.getLimiter("user_1")
		limiter2 := il.getLimiter("user_1")

		assert.Same(t, limiter1, limiter2)
	})

	t.Run("creates different limiters for different identities", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, time.Minute)
		limiter1 := il.getLimiter("user_1")
		limiter2 := il.getLimiter("10.0.0.1")

		assert.NotSame(t, limiter1, limiter2)
	})

	t.Run("concurrent access creates a single limiter", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, time.Minute)
		wg := sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				il.getLimiter("user_1")
			}()
		}
		wg.Wait()

		il.mu.RLock()
		defer il.mu.RUnlock()
		assert.Equal(t, 1, len(il.limiters))
	})
}

func TestIdentityLimiter_Allow(t *testing.T) {
	il := NewIdentityLimiter(1, 2, time.Minute) // 1 token per second, capacity 2

	assert.True(t, il.Allow("user_1"))
	assert.True(t, il.Allow("user_1"))
	assert.False(t, il.Allow("user_1")) // Depleted tokens

	assert.True(t, il.Allow("user_2")) // Separate bucket

	time.Sleep(2 * time.Second) // Wait for refill

	assert.True(t, il.Allow("user_1"))
}

func TestIdentityLimiter_cleanup(t *testing.T) {
	t.Run("removes limiter after expiration time", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, 1*time.Millisecond)
		_ = il.getLimiter("user_1")

		require.Eventually(t, func() bool {
			il.mu.RLock()
			defer il.mu.RUnlock()
			_, exists := il.limiters["user_1"]
			return !exists
		}, 100*time.Millisecond, 10*time.Millisecond, "limiter should be removed after expiration")
	})

	t.Run("cleanup removes only the given identity", func(t *testing.T) {
		il := NewIdentityLimiter(1, 10, time.Minute)
		_ = il.getLimiter("user_1")
		_ = il.getLimiter("user_2")

		il.cleanup("user_1")

		il.mu.RLock()
		_, exists1 := il.limiters["user_1"]
		_, exists2 := il.limiters["user_2"]
		il.mu.RUnlock()

		assert.False(t, exists1)
		assert.True(t, exists2)
	})
}

func TestFivePerMinute(t *testing.T) {
	il := FivePerMinute()

	for i := 0; i < 5; i++ {
		assert.True(t, il.Allow("user_1"), "request %d within burst should pass", i+1)
	}
	assert.False(t, il.Allow("user_1"), "sixth request within a minute should be limited")
}
