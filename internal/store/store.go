// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Package store owns the durable, append-only collection of note records.
//
// Records are immutable once appended and keep their insertion order; that
// order is the tie-break key for equal similarity scores downstream. The
// collection only grows — there is no update or delete. Wholesale reset
// means removing the backing file out of band.
package store

import "context"

// Store is a thread-safe, append-only holder of note records.
type Store interface {
	// Append validates the input, assigns a fresh ID, adds the record, and
	// (for durable implementations) persists the full collection before
	// returning. Concurrent appends are serialized; whichever commits first
	// appears earlier in insertion order.
	Append(ctx context.Context, label, text string, embedding []float32) (*Record, error)

	// Snapshot returns a point-in-time copy of all records, in insertion
	// order, safe to iterate without holding any lock. Records are
	// immutable; callers must not modify the embedded vectors.
	Snapshot() []Record

	// Count returns the number of stored records.
	Count() int

	Close() error
}
