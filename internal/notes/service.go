// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Package notes composes the embedding provider, the record store, and the
// search engine into the two operations the service exposes: Ingest and
// Query.
package notes

import (
	"context"
	"log/slog"
	"strings"

	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/semnote-dev/semnote/internal/search"
	"github.com/semnote-dev/semnote/internal/store"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/semnote-dev/semnote/pkg/health"
)

// DefaultTopK is the external result-count policy.
const DefaultTopK = 3

// Service is the embedding-and-ranking core. It owns no background work; it
// runs entirely on its callers' goroutines.
type Service struct {
	embedder embed.Embedder
	records  store.Store
	engine   *search.Engine
}

// NewService wires the core together. The store must have been created with
// the embedder's dimensionality.
func NewService(embedder embed.Embedder, records store.Store) *Service {
	return &Service{
		embedder: embedder,
		records:  records,
		engine:   search.New(),
	}
}

// Ingest embeds text and appends the resulting record, persisting it before
// returning. Validation failures surface unchanged and leave the store
// untouched.
func (s *Service) Ingest(ctx context.Context, label, text string) (*store.Record, error) {
	label = strings.TrimSpace(label)
	text = strings.TrimSpace(text)
	if label == "" {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "ingest: label must not be empty")
	}
	if text == "" {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "ingest: text must not be empty", semerr.FieldLabel(label))
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.Append(ctx, label, text, vec)
	if err != nil {
		return nil, err
	}

	slog.Debug("note ingested", "id", rec.ID, "label", rec.Label, "stored", s.records.Count())
	return rec, nil
}

// Query embeds the query text and returns the k most similar records with
// their cosine scores. k below 1 selects the DefaultTopK policy. An empty
// store yields empty results, not an error. Scoring runs against a
// point-in-time snapshot, outside the store's lock.
func (s *Service) Query(ctx context.Context, text string, k int) ([]search.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "query: text must not be empty")
	}
	if k < 1 {
		k = DefaultTopK
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.engine.TopK(vec, s.records.Snapshot(), k), nil
}

// Count reports the number of stored records, for diagnostics.
func (s *Service) Count() int {
	return s.records.Count()
}

// EmbedderName reports which embedding variant is active.
func (s *Service) EmbedderName() string {
	return s.embedder.Name()
}

// Dimensions reports the embedding width of the active variant.
func (s *Service) Dimensions() int {
	return s.embedder.Dimensions()
}

// EmbedderHealth reports the active embedder's availability.
func (s *Service) EmbedderHealth() health.Metrics {
	return s.embedder.Health()
}

func (s *Service) Close() error {
	return s.records.Close()
}
