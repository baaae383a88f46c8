package security

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket, used to throttle login
// attempts so a stolen member phone number cannot be brute-forced.
type RateLimiter struct {
	clients map[string]*clientBucket
	mu      sync.Mutex
	rate    int           // requests per window
	window  time.Duration // time window
}

type clientBucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing rate requests per
// window for each client key
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		rate:    rate,
		window:  window,
	}
	go rl.cleanupClients()
	return rl
}

// Allow reports whether a request from the given client key should be
// allowed, consuming a token if so
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	c, exists := rl.clients[key]
	if !exists {
		c = &clientBucket{
			tokens:     rl.rate,
			lastRefill: time.Now(),
		}
		rl.clients[key] = c
	}
	rl.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastRefill) >= rl.window {
		c.tokens = rl.rate
		c.lastRefill = now
	}

	if c.tokens > 0 {
		c.tokens--
		return true
	}

	return false
}

// cleanupClients drops buckets that have been idle for two windows so
// the map doesn't grow without bound
func (rl *RateLimiter) cleanupClients() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			c.mu.Lock()
			if now.Sub(c.lastRefill) > rl.window*2 {
				delete(rl.clients, key)
			}
			c.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

// GetClientIP extracts the client IP from the request, trusting proxy
// headers when present
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the first entry is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
