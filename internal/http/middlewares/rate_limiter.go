package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/geocoder89/eventsapi/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientBucket
	// maxClients caps the buckets held at once; the oldest window is evicted past it.
	maxClients int
}

const maxTrackedClients = 10000

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:      limit,
		window:     window,
		clients:    make(map[string]*clientBucket),
		maxClients: maxTrackedClients,
	}
}

// RateLimiterMiddleware enforces a fixed-window limit per key derived from the request.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived

			key = clientIP(c)
		}

		now := time.Now()

		rl.mu.Lock()

		b, ok := rl.clients[key]

		if !ok && len(rl.clients) >= rl.maxClients {
			if rl.sweepLocked(now) == 0 {
				rl.evictOldestLocked()
			}
		}

		if !ok || now.After(b.windowEnd) {
			rl.clients[key] = &clientBucket{
				count:     1,
				windowEnd: now.Add(rl.window),
			}

			rl.mu.Unlock()
			c.Next()
			return
		}

		if b.count >= rl.limit {
			retryAfter := int(time.Until(b.windowEnd).Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			rl.mu.Unlock()

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			handlers.AbortWithError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")

			return
		}

		b.count++
		rl.mu.Unlock()
		c.Next()
	}
}

// helper functions

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// ClientIP respects X-Forwarded-For / X-Real-IP if trusted proxies are configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}

// Sweep drops buckets whose window has passed so idle clients do not pile up.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.sweepLocked(now)
}

func (rl *RateLimiter) sweepLocked(now time.Time) int {
	removed := 0
	for key, b := range rl.clients {
		if now.After(b.windowEnd) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// evictOldestLocked drops the bucket whose window ends first. Only reached when
// the map is full of live buckets.
func (rl *RateLimiter) evictOldestLocked() {
	var oldestKey string
	var oldestEnd time.Time

	for key, b := range rl.clients {
		if oldestKey == "" || b.windowEnd.Before(oldestEnd) {
			oldestKey = key
			oldestEnd = b.windowEnd
		}
	}

	if oldestKey != "" {
		delete(rl.clients, oldestKey)
	}
}
