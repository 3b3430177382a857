// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Package search ranks stored records against a query vector.
//
// Scoring is a full linear scan: at the scale this service targets (tens of
// thousands of records) the dominant cost is embedding the query, not
// scoring it, so no index is built or maintained. That is a documented
// scaling ceiling, not an oversight.
package search

import (
	"sort"

	"github.com/semnote-dev/semnote/internal/store"
)

// Result pairs a record with its similarity score for one query.
type Result struct {
	Record store.Record
	Score  float32
}

// Dot calculates the dot product of two vectors. Both sides are
// unit-normalized by the embedding layer, so this equals cosine similarity.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Engine ranks record snapshots by similarity to a query vector.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// TopK scores every record against query and returns the k best, ordered by
// score descending. Records with exactly equal scores rank in insertion
// order, so results are deterministic. Returns min(k, len(records)) results;
// an empty snapshot yields an empty slice, not an error.
func (e *Engine) TopK(query []float32, records []store.Record, k int) []Result {
	if k <= 0 || len(records) == 0 {
		return nil
	}

	results := make([]Result, len(records))
	for i, rec := range records {
		results[i] = Result{Record: rec, Score: Dot(query, rec.Embedding)}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}
