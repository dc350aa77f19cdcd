package limiter

import (
	"sync"
	"time"
)

// Limiter decides whether a client may issue another request.
// Keys are usually client IP addresses.
type Limiter interface {
	// Allow reports whether a request for key fits in its budget
	Allow(key string) bool

	// Close releases connections held by the limiter
	Close() error
}

const idleBucketTTL = 5 * time.Minute

// tokenBucket refills continuously at refillRate tokens per second up to capacity
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64
	lastRefill time.Time
}

func newTokenBucket(capacity, refillRate float64, now time.Time) *tokenBucket {
	capacity = max(capacity, 1)
	return &tokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillRate,
		lastRefill: now,
	}
}

func (tb *tokenBucket) allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = min(tb.tokens+elapsed*tb.refillRate, tb.capacity)
		tb.lastRefill = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *tokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastRefill
}

// MemoryLimiter keeps one token bucket per key in process memory.
// Suitable for a single instance; use RedisLimiter when several share a budget.
type MemoryLimiter struct {
	buckets    sync.Map // key -> *tokenBucket
	capacity   float64
	refillRate float64
	now        func() time.Time

	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter allows limit requests per window for each key, with bursts up to limit
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	return &MemoryLimiter{
		capacity:    float64(limit),
		refillRate:  float64(limit) / window.Seconds(),
		now:         time.Now,
		lastCleanup: time.Now(),
	}
}

// Allow consumes one token from key's bucket
func (rl *MemoryLimiter) Allow(key string) bool {
	now := rl.now()
	allowed := rl.bucket(key, now).allow(now)
	rl.maybeCleanup(now)
	return allowed
}

func (rl *MemoryLimiter) bucket(key string, now time.Time) *tokenBucket {
	if value, ok := rl.buckets.Load(key); ok {
		return value.(*tokenBucket)
	}
	actual, _ := rl.buckets.LoadOrStore(key, newTokenBucket(rl.capacity, rl.refillRate, now))
	return actual.(*tokenBucket)
}

// maybeCleanup drops buckets idle for longer than idleBucketTTL
func (rl *MemoryLimiter) maybeCleanup(now time.Time) {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if now.Sub(rl.lastCleanup) < idleBucketTTL {
		return
	}

	threshold := now.Add(-idleBucketTTL)
	rl.buckets.Range(func(key, value any) bool {
		if value.(*tokenBucket).idleSince().Before(threshold) {
			rl.buckets.Delete(key)
		}
		return true
	})
	rl.lastCleanup = now
}

// size returns the number of tracked keys
func (rl *MemoryLimiter) size() int {
	n := 0
	rl.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close is a no-op for the in-memory limiter
func (rl *MemoryLimiter) Close() error {
	return nil
}
