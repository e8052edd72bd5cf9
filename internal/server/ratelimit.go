package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/errs"
)

// rateLimiter enforces a per-caller sliding-window quota. Timestamps of
// recent requests are kept per key and pruned as the window slides.
type rateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	quota  int
	calls  map[string][]time.Time
	now    func() time.Time
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		window: cfg.Window,
		quota:  cfg.Quota,
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// allow records one request for the key and reports whether it fits the
// quota. Rejected requests do not consume quota.
func (l *rateLimiter) allow(key string) bool {
	if l.quota <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	recent := l.calls[key][:0]
	for _, t := range l.calls[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= l.quota {
		l.calls[key] = recent
		return false
	}
	l.calls[key] = append(recent, now)
	return true
}

// authenticate rejects requests without a recognized API key. An empty
// configured key set disables the check for local use.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.apiKeys) > 0 && !s.apiKeys[r.Header.Get("X-API-Key")] {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies the per-caller quota, keyed by API key when present
// and remote address otherwise.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(callerKey(r)) {
			s.respondFailure(w, "rate limit", errs.RateLimit("rate limit exceeded, retry later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
