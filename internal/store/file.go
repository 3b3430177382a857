// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

// FileStore persists the full record collection as a single JSON array
// document. Every append rewrites the document (write-through) under the same
// mutex that guards the in-memory slice, so a committed append is durable
// before the next one begins and readers never see a partial record.
//
// The durable write is atomic: the document is written to a temp file in the
// same directory, fsynced, and renamed over the old copy. A crash mid-write
// leaves the previous document intact.
type FileStore struct {
	path string

	mu      sync.Mutex
	records []Record
	dims    int
	closed  bool
}

// NewFileStore opens (or creates) the store backed by the document at path.
// dims is the embedding dimensionality of the active provider; zero adopts
// the dimensionality of the first record seen. A missing file starts the
// store empty; a malformed or dimensionally inconsistent file is a hard
// error — the store never silently discards existing data.
func NewFileStore(path string, dims int) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, semerr.New(semerr.CodeStoreLoadFailure, "store: path must not be empty")
	}

	s := &FileStore{path: path, dims: dims}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the durable document.
func (s *FileStore) Path() string { return s.path }

// Dimensions returns the embedding width the store enforces, or zero when no
// record has fixed it yet.
func (s *FileStore) Dimensions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dims
}

func (s *FileStore) Append(ctx context.Context, label, text string, embedding []float32) (*Record, error) {
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
	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory append so memory and disk stay consistent.
		s.records = s.records[:len(s.records)-1]
		return nil, err
	}
	if s.dims == 0 {
		s.dims = len(embedding)
	}

	out := rec
	return &out, nil
}

func (s *FileStore) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *FileStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return semerr.Wrap(err, semerr.CodeStoreLoadFailure, "reading persisted notes", semerr.FieldPath(s.path))
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return semerr.Wrap(err, semerr.CodeStoreLoadInvalidFormat, "decoding persisted notes", semerr.FieldPath(s.path))
	}

	for i, rec := range records {
		if rec.ID == "" || rec.Label == "" || rec.Text == "" || len(rec.Embedding) == 0 {
			return semerr.Errorf(semerr.CodeStoreLoadInvalidFormat,
				"persisted note %d is missing required fields", i)
		}
		if s.dims == 0 {
			s.dims = len(rec.Embedding)
		}
		if len(rec.Embedding) != s.dims {
			return semerr.Errorf(semerr.CodeStoreLoadInvalidFormat,
				"persisted note %d has %d dimensions, store holds %d", i, len(rec.Embedding), s.dims)
		}
	}

	s.records = records
	return nil
}

// persistLocked writes the full collection atomically. Callers hold s.mu.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return semerr.Wrap(err, semerr.CodeStorePersistFailure, "encoding notes", semerr.FieldPath(s.path))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return semerr.Wrap(err, semerr.CodeStorePersistFailure, "creating store directory", semerr.FieldPath(dir))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return semerr.Wrap(err, semerr.CodeStorePersistFailure, "creating temp document", semerr.FieldPath(dir))
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(semerr.Wrap(err, semerr.CodeStorePersistFailure, "writing temp document", semerr.FieldPath(tmpName)))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(semerr.Wrap(err, semerr.CodeStorePersistFailure, "syncing temp document", semerr.FieldPath(tmpName)))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(semerr.Wrap(err, semerr.CodeStorePersistFailure, "closing temp document", semerr.FieldPath(tmpName)))
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return semerr.Wrap(err, semerr.CodeStorePersistFailure,
			fmt.Sprintf("replacing %s", filepath.Base(s.path)), semerr.FieldPath(s.path))
	}

	return nil
}
