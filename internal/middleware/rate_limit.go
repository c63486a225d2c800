// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client. Signed-in sellers are
// keyed by user id so a shared address does not throttle them together;
// anonymous callers are keyed by IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// NewRateLimiter builds a limiter for tier. Buckets unused for idle are
// swept until ctx is done.
func NewRateLimiter(ctx context.Context, tier config.RateTier, idle time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(tier.PerMinute) / 60),
		burst:   tier.Burst,
		idle:    idle,
		now:     time.Now,
	}
	if idle > 0 {
		go rl.sweep(ctx)
	}
	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.dropIdle()
		}
	}
}

func (rl *RateLimiter) dropIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idle)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) bucketFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// wait reports how long key must wait for its next request. Zero means the
// request may go ahead and a token was taken.
func (rl *RateLimiter) wait(key string) time.Duration {
	now := rl.now()
	r := rl.bucketFor(key, now).ReserveN(now, 1)
	if !r.OK() {
		return time.Minute
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if delay := rl.wait(clientKey(c)); delay > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if userID, ok := utils.GetUserIDFromContext(c); ok {
		return "user:" + userID.String()
	}
	return "ip:" + c.ClientIP()
}

// RateLimits holds the limiter of every route tier.
type RateLimits struct {
	General *RateLimiter
	Write   *RateLimiter // product saves
	Upload  *RateLimiter // media uploads
}

func NewRateLimits(ctx context.Context, cfg config.RateLimitConfig) *RateLimits {
	return &RateLimits{
		General: NewRateLimiter(ctx, cfg.General, cfg.IdleTTL),
		Write:   NewRateLimiter(ctx, cfg.Write, cfg.IdleTTL),
		Upload:  NewRateLimiter(ctx, cfg.Upload, cfg.IdleTTL),
	}
}
