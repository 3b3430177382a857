// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/semnote-dev/semnote/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type searchResponse struct {
	Results []struct {
		ID    string  `json:"id"`
		Label string  `json:"label"`
		Text  string  `json:"text"`
		Score float32 `json:"score"`
	} `json:"results"`
}

func postNote(t *testing.T, srv *server.Server, label, text string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"label":%q,"text":%q}`, label, text)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func search(t *testing.T, srv *server.Server, query string, k int) searchResponse {
	t.Helper()
	url := "/api/v1/notes/search?q=" + query
	if k > 0 {
		url = fmt.Sprintf("%s&k=%d", url, k)
	}
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRoutes_IngestReturnsCreated(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	w := postNote(t, srv, "P001", "Patient reports chest pain.")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var note noteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "P001", note.Label)
	assert.Equal(t, "Patient reports chest pain.", note.Text)
	assert.NotEmpty(t, note.CreatedAt)
	assert.NotContains(t, w.Body.String(), "embedding", "vectors must not leak over the API")
}

func TestRoutes_IngestEmptyTextRejected(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	w := postNote(t, srv, "P004", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The store must be unchanged.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	health := httptest.NewRecorder()
	srv.Handler().ServeHTTP(health, req)
	assert.Contains(t, health.Body.String(), `"stored":0`)
}

func TestRoutes_IngestEmptyLabelRejected(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	w := postNote(t, srv, "   ", "some text")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_SearchEmptyStoreReturnsEmptyList(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	out := search(t, srv, "anything", 0)
	assert.Empty(t, out.Results)
}

func TestRoutes_SearchEmptyQueryRejected(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes/search?q=", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_IngestThenSearchFlow(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	notes := []struct{ label, text string }{
		{"P001", "Patient reports chest pain and shortness of breath."},
		{"P002", "Chest pain, stable angina."},
		{"P003", "Fractured rib from motor vehicle accident."},
		{"P005", "Seasonal allergies, prescribed antihistamine."},
	}
	for _, n := range notes {
		w := postNote(t, srv, n.label, n.text)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Default policy caps results at 3 even with 4 notes stored.
	out := search(t, srv, "chest+pain", 0)
	require.Len(t, out.Results, 3)

	for i := 1; i < len(out.Results); i++ {
		assert.GreaterOrEqual(t, out.Results[i-1].Score, out.Results[i].Score)
	}

	// Both chest-pain notes share vocabulary with the query and must beat
	// the unrelated notes under the deterministic fallback embedder.
	topLabels := []string{out.Results[0].Label, out.Results[1].Label}
	assert.Contains(t, topLabels, "P001")
	assert.Contains(t, topLabels, "P002")

	// Explicit k narrows the result set.
	out = search(t, srv, "chest+pain", 1)
	assert.Len(t, out.Results, 1)
}

func TestRoutes_HealthReflectsStoredCount(t *testing.T) {
	srv := newTestServer(t, server.Config{})

	require.Equal(t, http.StatusCreated, postNote(t, srv, "P001", "note one").Code)
	require.Equal(t, http.StatusCreated, postNote(t, srv, "P002", "note two").Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"stored":2`)
}
