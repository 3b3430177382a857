// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication: liveness probes and the API
// description must stay reachable without credentials.
func authExempt(path string) bool {
	if path == "/health" {
		return true
	}
	for _, prefix := range []string{"/openapi", "/docs", "/schemas"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// authMiddleware enforces the static bearer token. An empty token disables
// authentication entirely, which is meant for development setups only.
func authMiddleware(token string) func(http.Handler) http.Handler {
	if token == "" {
		slog.Warn("auth token is empty, authentication is disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			got, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				unauthorized(w, r, "missing or malformed Authorization header")
				return
			}

			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), expected) != 1 {
				unauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Debug("rejected unauthenticated request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
		"reason", reason,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
