package middleware

import (
	"sync"
	"time"

	"healthquery-backend/internal/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Per     time.Duration
}

// minIdleTTL is the shortest time an idle client keeps its bucket.
const minIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters holds one token bucket per client IP. Buckets idle for longer
// than ttl are swept at most once per ttl.
type ipLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiters(cfg RateLimitConfig, now func() time.Time) *ipLimiters {
	// An idle bucket refills completely within Per, so dropping it after
	// that loses no state.
	ttl := cfg.Per
	if ttl < minIdleTTL {
		ttl = minIdleTTL
	}
	return &ipLimiters{
		visitors:  make(map[string]*visitor),
		rate:      rate.Every(cfg.Per / time.Duration(cfg.Limit)),
		burst:     cfg.Limit,
		ttl:       ttl,
		lastSweep: now(),
		now:       now,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweep(now)
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle buckets. Callers hold mu.
func (l *ipLimiters) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.ttl {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit allows Limit requests per Per window for each client IP. When
// disabled the guard always allows.
func RateLimit(cfg RateLimitConfig) GuardFunc {
	if !cfg.Enabled || cfg.Limit <= 0 || cfg.Per <= 0 {
		return func(*gin.Context) Decision { return Allow() }
	}
	return rateLimitGuard(newIPLimiters(cfg, time.Now))
}

func rateLimitGuard(store *ipLimiters) GuardFunc {
	return func(c *gin.Context) Decision {
		if !store.get(c.ClientIP()).Allow() {
			return Deny(apperror.TooManyRequests("Rate limit exceeded. Please try again later"))
		}
		return Allow()
	}
}
