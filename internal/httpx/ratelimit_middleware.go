package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	limiters map[string]*rateLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	done     chan struct{}
	stopOnce sync.Once

	// trustProxy keys clients by X-Forwarded-For. Enable it only behind a
	// proxy that overwrites the header, otherwise callers can pick their key.
	trustProxy bool
}

func NewRateLimitMiddleware(rps float64, burst int, trustProxy bool) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		limiters:   make(map[string]*rateLimiter),
		rate:       rate.Limit(rps),
		burst:      burst,
		cleanup:    5 * time.Minute,
		done:       make(chan struct{}),
		trustProxy: trustProxy,
	}

	go rl.cleanupLimiters()
	return rl
}

func (rl *RateLimitMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if time.Since(limiter.lastSeen) > rl.cleanup {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

// Stop ends the background cleanup loop.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = &rateLimiter{
			limiter:  rate.NewLimiter(rl.rate, rl.burst),
			lastSeen: time.Now(),
		}
		rl.limiters[key] = limiter
	} else {
		limiter.lastSeen = time.Now()
	}

	return limiter.limiter
}

func (rl *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r, rl.trustProxy)

		limiter := rl.getLimiter(key)
		if !limiter.Allow() {
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by the remote host without its port, or by
// the first X-Forwarded-For hop when trustProxy is set.
func clientKey(r *http.Request, trustProxy bool) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); trustProxy && forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
