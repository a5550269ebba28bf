package server

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter caps the number of requests per client per minute.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	clients           map[string]*clientUsage
}

// clientUsage tracks request counts for one client within the current window.
type clientUsage struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute
// requests per client.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		clients:           make(map[string]*clientUsage),
	}
}

// Allow reports whether a request from the given client may proceed,
// returning a *RateLimitError when the limit is exhausted.
func (rl *RateLimiter) Allow(clientID string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	usage, ok := rl.clients[clientID]
	if !ok {
		usage = &clientUsage{windowStart: now}
		rl.clients[clientID] = usage
	}

	if now.Sub(usage.windowStart) >= time.Minute {
		usage.count = 0
		usage.windowStart = now
	}

	if rl.requestsPerMinute > 0 && usage.count >= rl.requestsPerMinute {
		return &RateLimitError{
			Limit:      rl.requestsPerMinute,
			RetryAfter: time.Minute - now.Sub(usage.windowStart),
		}
	}

	usage.count++
	return nil
}

// Usage returns the request count in the current window for a client.
func (rl *RateLimiter) Usage(clientID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if usage, ok := rl.clients[clientID]; ok {
		return usage.count
	}
	return 0
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (limit: %d per minute, retry after: %v)", e.Limit, e.RetryAfter)
}
