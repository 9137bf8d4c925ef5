package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const rateLimitIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *ipRateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rateLimitIdleTTL {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rateLimitIdleTTL {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit limits requests per client IP with a token bucket. A zero or
// negative rps disables limiting.
func RateLimit(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	if burst < 1 {
		burst = 1
	}
	limiter := newIPRateLimiter(rps, burst)

	return func(c *fiber.Ctx) error {
		if !limiter.allow(requestLimiterKey(c), time.Now()) {
			c.Set(fiber.HeaderRetryAfter, "1")
			return apiError(c, fiber.StatusTooManyRequests, "too many requests")
		}
		return c.Next()
	}
}
