// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/semnote-dev/semnote/pkg/health"
)

// Fallback is a deterministic, offline embedder. It feature-hashes word
// unigrams and character trigrams into a fixed-width vector: each feature is
// FNV-1a hashed, the hash picks a bucket, and one hash bit picks the sign.
// Texts sharing words or character runs land in shared buckets and score
// higher under dot product. It is not a semantic model, but it is stable
// bit-for-bit across processes and needs no external state.
type Fallback struct {
	dims int
}

// NewFallback creates a Fallback embedder with the given vector width.
// A non-positive dims selects DefaultDimensions.
func NewFallback(dims int) *Fallback {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Fallback{dims: dims}
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Dimensions() int { return f.dims }

// Health always reports available: the fallback has no upstream to fail.
func (f *Fallback) Health() health.Metrics {
	return health.Metrics{Available: true}
}

func (f *Fallback) Embed(_ context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, semerr.New(semerr.CodeEmbedInputInvalid, "embed: text must not be empty")
	}

	v := make([]float32, f.dims)
	for _, feature := range features(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(feature))
		sum := h.Sum64()

		idx := int(sum % uint64(f.dims))
		if sum&1 == 0 {
			v[idx]++
		} else {
			v[idx]--
		}
	}

	// Feature hashing can cancel to an all-zero vector only when every
	// bucket nets out; extremely unlikely, but a zero vector would break
	// the unit-norm contract, so salt with a single whole-text feature.
	if !NormalizeL2(v) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(text))
		v[int(h.Sum64()%uint64(f.dims))] = 1
	}

	return v, nil
}

// features extracts lowercase word unigrams and character trigrams.
func features(text string) []string {
	lower := strings.ToLower(text)

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(words)*4)
	out = append(out, words...)

	for _, word := range words {
		runes := []rune(word)
		for i := 0; i+3 <= len(runes); i++ {
			out = append(out, string(runes[i:i+3]))
		}
	}

	return out
}
