package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	apiContext "recurso/internal/api/context"
	"recurso/internal/pkg/errors"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
)

// RateLimiter is a per-key token bucket. Keys combine the organization with
// the limit class so one tenant cannot starve another.
type RateLimiter struct {
	store *sync.Map // map[string]*bucket
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

const (
	LimitAPIRead  = "api_read"
	LimitAPIWrite = "api_write"
	LimitGenerate = "generate"
)

var rateLimits = map[string]int{
	LimitAPIRead:  1000,
	LimitAPIWrite: 100,
	LimitGenerate: 30,
}

// Configure overrides the built-in per-minute limits from config.
func Configure(cfg config.RateLimitConfig) {
	if cfg.APIReadPerMinute > 0 {
		rateLimits[LimitAPIRead] = cfg.APIReadPerMinute
	}
	if cfg.APIWritePerMinute > 0 {
		rateLimits[LimitAPIWrite] = cfg.APIWritePerMinute
	}
	if cfg.GeneratePerMinute > 0 {
		rateLimits[LimitGenerate] = cfg.GeneratePerMinute
	}
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{store: &sync.Map{}}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	// Refill at limit/60 tokens per second
	refillRate := float64(limit) / 60.0
	refillTokens := int(now.Sub(b.lastRefill).Seconds() * refillRate)
	if refillTokens > 0 {
		b.tokens += refillTokens
		if b.tokens > limit {
			b.tokens = limit
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

var GlobalRateLimiter = NewRateLimiter()

func RateLimit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var key string

			if tenant, ok := r.Context().Value(apiContext.Tenant).(*database.TenantContext); ok && tenant != nil {
				key = fmt.Sprintf("%s:%s", tenant.OrgID, limitType)
			} else {
				key = fmt.Sprintf("%s:%s", r.RemoteAddr, limitType)
			}

			limit, ok := rateLimits[limitType]
			if !ok {
				limit = 100
			}

			if !GlobalRateLimiter.Allow(key, limit) {
				w.Header().Set("Retry-After", "60")
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}

			next(w, r)
		}
	}
}
