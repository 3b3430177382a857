// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Package embed turns text into fixed-length unit vectors.
//
// Two variants exist: a model-backed embedder that calls a hosted embedding
// model, and a deterministic hash-based fallback that needs no external
// services. Both return L2-normalized vectors, so downstream cosine
// similarity reduces to a plain dot product. Callers must not depend on
// which variant is active beyond the Embedder contract.
package embed

import (
	"context"
	"math"

	"github.com/semnote-dev/semnote/pkg/health"
)

// DefaultDimensions matches the output width of common small sentence
// embedding models.
const DefaultDimensions = 384

// Embedder generates a fixed-length unit vector for a piece of text.
// Embed is deterministic for a given provider configuration: the same text
// yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Name() string

	// Health reports the provider's current availability. Providers with no
	// upstream dependency are always available.
	Health() health.Metrics
}

// NormalizeL2 scales v in place to unit Euclidean length.
// Returns false if v is empty or has zero norm, leaving v untouched.
func NormalizeL2(v []float32) bool {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return false
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return true
}
