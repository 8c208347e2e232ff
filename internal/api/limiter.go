package api

import (
	"sync"

	"homestay/internal/config"

	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client key (the caller IP)
// so a single noisy client cannot starve everyone else.
type clientLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func newClientLimiters(cfg config.RateLimitConfig) *clientLimiters {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 40
	}
	return &clientLimiters{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	bucket, ok := c.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(c.rps, c.burst)
		c.buckets[key] = bucket
	}
	c.mu.Unlock()

	return bucket.Allow()
}
