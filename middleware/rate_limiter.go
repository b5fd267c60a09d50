// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/visatrack/visatrack_backend/models"
)

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]struct {
		limit rate.Limit
		burst int
	}
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		mu:            &sync.RWMutex{},
		defaultLimit:  rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		endpointLimits: make(map[string]struct {
			limit rate.Limit
			burst int
		}),
	}

	// Strict limits on the credential endpoints to slow brute force
	limiter.endpointLimits["/api/auth/login"] = struct {
		limit rate.Limit
		burst int
	}{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}

	limiter.endpointLimits["/api/auth/signup"] = struct {
		limit rate.Limit
		burst int
	}{
		limit: rate.Every(500 * time.Millisecond),
		burst: 5,
	}

	go limiter.cleanupLoop()

	return limiter
}

func (rl *RateLimiter) limiterFor(ip, path string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := ip
	limit := rl.defaultLimit
	burst := rl.defaultBurst
	if endpoint, ok := rl.endpointLimits[path]; ok {
		key = ip + ":" + path
		limit = endpoint.limit
		burst = endpoint.burst
	}

	limiter, exists := rl.ips[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		rl.ips[key] = limiter
	}

	return limiter
}

// RateLimit returns middleware enforcing per-IP token buckets, with
// stricter per-endpoint buckets for login and signup. An IP that keeps
// hammering a blocked endpoint stays blocked for blockDuration.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			rl.mu.RLock()
			blockedUntil, blocked := rl.blockedIPs[ip]
			rl.mu.RUnlock()

			if blocked {
				if time.Now().Before(blockedUntil) {
					return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
						Error: "Too many requests, try again later",
					})
				}
				rl.mu.Lock()
				delete(rl.blockedIPs, ip)
				rl.mu.Unlock()
			}

			limiter := rl.limiterFor(ip, c.Path())
			if !limiter.Allow() {
				rl.mu.Lock()
				rl.blockedIPs[ip] = time.Now().Add(rl.blockDuration)
				rl.mu.Unlock()
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error: "Too many requests, try again later",
				})
			}

			return next(c)
		}
	}
}

// cleanupLoop drops expired blocks and idle limiters.
func (rl *RateLimiter) cleanupLoop() {
	for {
		time.Sleep(10 * time.Minute)

		rl.mu.Lock()
		now := time.Now()
		for ip, until := range rl.blockedIPs {
			if now.After(until) {
				delete(rl.blockedIPs, ip)
			}
		}
		// Idle limiters are cheap to rebuild; reset the map wholesale
		rl.ips = make(map[string]*rate.Limiter)
		rl.mu.Unlock()
	}
}
