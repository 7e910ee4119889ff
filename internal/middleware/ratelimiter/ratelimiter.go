package ratelimiter

import (
	"sync"
	"time"
)

// Limiter implements a token bucket for a single identity.
type Limiter struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	identity   string          // Reference to identity for cleanup
	parent     *IdentityLimiter // Reference to parent for cleanup
}

// IdentityLimiter manages one token bucket per identity. Buckets idle for
// expirationTime are dropped to bound memory.
type IdentityLimiter struct {
	limiters       map[string]*Limiter
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

func NewIdentityLimiter(rate float64, capacity float64, expirationTime time.Duration) *IdentityLimiter {
	return &IdentityLimiter{
		limiters:       make(map[string]*Limiter),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func (il *IdentityLimiter) cleanup(identity string) {
	il.mu.Lock()
	delete(il.limiters, identity)
	il.mu.Unlock()
}

func (l *Limiter) resetTimer() {
	if l.timer != nil {
		l.timer.Stop()
	}

	l.timer = time.AfterFunc(l.parent.expirationTime, func() {
		l.parent.cleanup(l.identity)
	})
}

func (il *IdentityLimiter) getLimiter(identity string) *Limiter {
	il.mu.RLock()
	limiter, exists := il.limiters[identity]
	il.mu.RUnlock()

	if exists {
		limiter.resetTimer()
		return limiter
	}

	il.mu.Lock()
	defer il.mu.Unlock()

	// Double-check after acquiring write lock
	limiter, exists = il.limiters[identity]
	if exists {
		limiter.resetTimer()
		return limiter
	}

	limiter = &Limiter{
		tokens:     il.capacity,
		capacity:   il.capacity,
		rate:       il.rate,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     il,
	}
	il.limiters[identity] = limiter
	limiter.resetTimer()

	return limiter
}

func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// Allow checks if a request should be allowed for a given identity.
func (il *IdentityLimiter) Allow(identity string) bool {
	return il.getLimiter(identity).Allow()
}

// Stop cleans up all timers.
func (il *IdentityLimiter) Stop() {
	il.mu.Lock()
	defer il.mu.Unlock()

	for _, limiter := range il.limiters {
		if limiter.timer != nil {
			limiter.timer.Stop()
		}
	}
}

// FivePerMinute matches the profile endpoint limit: burst of five, one
// token refilled every twelve seconds.
func FivePerMinute() *IdentityLimiter {
	return NewIdentityLimiter(5.0/60.0, 5, 1*time.Hour)
}
