package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Result is the outcome of a single admission check. Produced fresh per
// check; never mutated afterwards.
type Result struct {
	Allowed      bool
	Remaining    int
	ResetSeconds int
}

// Limiter implements a per-key sliding-window rate limiter. Each key owns an
// ordered list of request timestamps inside the trailing window; the list is
// pruned lazily on every check, so no background sweep runs. Keys are never
// proactively removed, which is an accepted unbounded-memory characteristic
// under adversarial key cardinality.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string][]time.Time

	now func() time.Time
}

// NewLimiter creates a sliding-window limiter admitting at most limit
// requests per key within the trailing window. Both values are clamped to a
// minimum of one.
func NewLimiter(limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	if window < time.Second {
		window = time.Second
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Check prunes the key's bucket to the current window and decides whether
// one more request is admitted. On rejection no timestamp is recorded and
// ResetSeconds reports how long until the oldest retained request leaves the
// window. On acceptance ResetSeconds is the full window length; the accept
// path deliberately does not compute a precise next-reset time.
func (limiter *Limiter) Check(key string) Result {
	now := limiter.now()
	windowStart := now.Add(-limiter.window)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket := limiter.buckets[key]
	retained := bucket[:0]
	for _, ts := range bucket {
		if !ts.Before(windowStart) {
			retained = append(retained, ts)
		}
	}

	if len(retained) >= limiter.limit {
		limiter.buckets[key] = retained
		reset := 0
		if len(retained) > 0 {
			oldest := retained[0]
			for _, ts := range retained[1:] {
				if ts.Before(oldest) {
					oldest = ts
				}
			}
			if residue := oldest.Add(limiter.window).Sub(now); residue > 0 {
				reset = int(residue.Seconds())
			}
		}
		return Result{Allowed: false, Remaining: 0, ResetSeconds: reset}
	}

	retained = append(retained, now)
	limiter.buckets[key] = retained

	remaining := limiter.limit - len(retained)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:      true,
		Remaining:    remaining,
		ResetSeconds: int(limiter.window.Seconds()),
	}
}

// Limit returns the configured per-window request limit.
func (limiter *Limiter) Limit() int {
	return limiter.limit
}

// ClientIP derives the rate-limit key for a request: the first entry of
// X-Forwarded-For when present, else the host part of the remote address,
// else "unknown".
func ClientIP(request *http.Request) string {
	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if request.RemoteAddr != "" {
		return request.RemoteAddr
	}
	return "unknown"
}
