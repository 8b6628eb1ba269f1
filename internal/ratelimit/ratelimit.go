// Package ratelimit provides a keyed rate limiter using the token bucket algorithm.
// Keys are client IPs, so stale entries are evicted periodically.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// evictAfter is how long a key may go unused before its limiter is dropped.
const evictAfter = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// PerMinute creates a limiter expressed as events per minute.
func PerMinute(perMinute, burst int) *KeyedRateLimiter {
	return New(float64(perMinute)/60.0, burst)
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or the context
// is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	if kl, exists := krl.limiters[key]; exists {
		kl.lastSeen = time.Now()
		return kl.limiter
	}

	kl := &keyedLimiter{
		limiter:  rate.NewLimiter(krl.limit, krl.burst),
		lastSeen: time.Now(),
	}
	krl.limiters[key] = kl
	return kl.limiter
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// cleanup evicts limiters that haven't been used recently.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(evictAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case now := <-ticker.C:
			krl.mu.Lock()
			for key, kl := range krl.limiters {
				if now.Sub(kl.lastSeen) > evictAfter {
					delete(krl.limiters, key)
				}
			}
			krl.mu.Unlock()
		}
	}
}
