package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/spec-kit/attendance-service/internal/config"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-IP token bucket. It is meant for the
// credential endpoints, where unauthenticated guessing is possible.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	enabled bool
}

// NewRateLimiter builds the limiter and starts a sweep that drops idle
// client buckets. The sweep stops when ctx is cancelled.
func NewRateLimiter(ctx context.Context, cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(float64(cfg.RequestsPerMin) / 60.0),
		burst:   cfg.Burst,
		ttl:     time.Duration(cfg.ClientTTLMinutes) * time.Minute,
		enabled: cfg.Enabled,
	}
	if rl.enabled {
		go rl.sweep(ctx)
	}
	return rl
}

// Handle rejects requests that exceed the caller's bucket with 429.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if !rl.enabled {
		return c.Next()
	}

	ip := c.IP()
	rl.mu.Lock()
	client, ok := rl.clients[ip]
	if !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()
	allowed := client.limiter.Allow()
	rl.mu.Unlock()

	if !allowed {
		return apperrors.NewDomainError("TOO_MANY_REQUESTS", "Too many requests", fiber.StatusTooManyRequests, nil)
	}
	return c.Next()
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for ip, client := range rl.clients {
				if time.Since(client.lastSeen) > rl.ttl {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
