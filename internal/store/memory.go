// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

// MemoryStore is the Store contract without durability. It backs tests and
// ephemeral deployments where losing records on restart is acceptable.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	dims    int
	closed  bool
}

// NewMemoryStore creates an empty in-memory store. dims semantics match
// NewFileStore.
func NewMemoryStore(dims int) *MemoryStore {
	return &MemoryStore{dims: dims}
}

func (s *MemoryStore) Append(ctx context.Context, label, text string, embedding []float32) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, semerr.Wrap(err, semerr.CodeStorePersistFailure, "store append cancelled")
	}

	label = strings.TrimSpace(label)
	text = strings.TrimSpace(text)
	if label == "" {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "store: label must not be empty")
	}
	if text == "" {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "store: text must not be empty", semerr.FieldLabel(label))
	}
	if len(embedding) == 0 {
		return nil, semerr.New(semerr.CodeStoreAppendInvalidInput, "store: embedding must not be empty", semerr.FieldLabel(label))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, semerr.New(semerr.CodeStoreClosed, "store: closed")
	}
	if s.dims != 0 && len(embedding) != s.dims {
		return nil, semerr.Errorf(semerr.CodeStoreDimensionInvalid,
			"store: embedding has %d dimensions, store holds %d", len(embedding), s.dims)
	}

	rec := Record{
		ID:        uuid.NewString(),
		Label:     label,
		Text:      text,
		Embedding: slices.Clone(embedding),
		CreatedAt: time.Now().UTC(),
	}

	s.records = append(s.records, rec)
	if s.dims == 0 {
		s.dims = len(embedding)
	}

	out := rec
	return &out, nil
}

func (s *MemoryStore) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
