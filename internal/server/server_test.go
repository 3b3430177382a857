// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/semnote-dev/semnote/internal/notes"
	"github.com/semnote-dev/semnote/internal/server"
	"github.com/semnote-dev/semnote/internal/store"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *notes.Service {
	t.Helper()
	embedder := embed.NewFallback(32)
	svc := notes.NewService(embedder, store.NewMemoryStore(embedder.Dimensions()))
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func newTestServer(t *testing.T, cfg server.Config) *server.Server {
	t.Helper()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:0"
	}
	srv, err := server.New(cfg, newTestService(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServer_New(t *testing.T) {
	srv := newTestServer(t, server.Config{})
	assert.NotNil(t, srv)
	assert.NotNil(t, srv.Handler())
	assert.NotNil(t, srv.API())
}

func TestServer_New_EmptyListenAddr(t *testing.T) {
	_, err := server.New(server.Config{}, newTestService(t))
	require.Error(t, err)
	assert.True(t, semerr.HasCode(err, semerr.CodeServerConfigInvalid))
	assert.Contains(t, err.Error(), "listen address is required")
}

func TestServer_New_NilService(t *testing.T) {
	_, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, nil)
	require.Error(t, err)
	assert.True(t, semerr.HasCode(err, semerr.CodeServerConfigInvalid))
}

func TestServer_New_InvalidRateLimit(t *testing.T) {
	_, err := server.New(server.Config{
		ListenAddr: "127.0.0.1:0",
		RateLimit:  server.RateLimitConfig{RequestsPerSecond: 1, Burst: 0},
	}, newTestService(t))
	require.Error(t, err)
	assert.True(t, semerr.HasCode(err, semerr.CodeServerConfigInvalid))
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
	assert.Contains(t, w.Body.String(), `"stored":0`)
	assert.Contains(t, w.Body.String(), `"fallback"`)
}

func TestServer_OpenAPISpecIncludesNoteRoutes(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "/api/v1/notes")
	assert.Contains(t, body, "/api/v1/notes/search")
}

func TestServer_CloseIsIdempotent(t *testing.T) {
	srv := newTestServer(t, server.Config{})
	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())
}
