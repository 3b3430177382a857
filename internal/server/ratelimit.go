// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

// RateLimitConfig configures per-IP rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate per IP. Zero disables limiting.
	RequestsPerSecond float64
	// Burst is the maximum burst size per IP.
	Burst int
}

// Validate checks that the RateLimitConfig is valid.
func (c *RateLimitConfig) Validate() error {
	if c.RequestsPerSecond < 0 {
		return semerr.Errorf(semerr.CodeServerConfigInvalid,
			"rate limit requests per second must not be negative (got %g)", c.RequestsPerSecond)
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		return semerr.Errorf(semerr.CodeServerConfigInvalid,
			"rate limit burst must be positive when rate is set (got burst=%d, rate=%g)",
			c.Burst, c.RequestsPerSecond)
	}
	return nil
}

type visitorEntry struct {
	tokens     float64
	lastSeen   time.Time
	lastRefill time.Time
}

// rateLimitMiddleware returns middleware that enforces per-IP token-bucket
// rate limits. Returns a pass-through middleware when cfg.RequestsPerSecond
// is zero. The done channel stops the stale-entry cleanup goroutine on
// shutdown.
func rateLimitMiddleware(cfg RateLimitConfig, done <-chan struct{}) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitorEntry)
	)

	// Periodically drop stale entries to prevent unbounded growth.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				const staleThreshold = 10 * time.Minute
				now := time.Now()
				mu.Lock()
				for ip, v := range visitors {
					if now.Sub(v.lastSeen) > staleThreshold {
						delete(visitors, ip)
					}
				}
				mu.Unlock()
			case <-done:
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Strip the port so limits apply per IP, not per connection.
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			mu.Lock()
			v, exists := visitors[host]
			if !exists {
				v = &visitorEntry{
					tokens:     float64(cfg.Burst),
					lastSeen:   time.Now(),
					lastRefill: time.Now(),
				}
				visitors[host] = v
			}
			v.lastSeen = time.Now()

			// Token bucket: refill based on elapsed time.
			elapsed := time.Since(v.lastRefill).Seconds()
			v.tokens += elapsed * cfg.RequestsPerSecond
			if v.tokens > float64(cfg.Burst) {
				v.tokens = float64(cfg.Burst)
			}
			v.lastRefill = time.Now()

			if v.tokens < 1 {
				mu.Unlock()
				slog.Warn("rate limit exceeded", "ip", host, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			v.tokens--
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}
