// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"sync"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/semnote-dev/semnote/pkg/health"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = string(openaisdk.EmbeddingModelTextEmbedding3Small)

// OpenAIConfig holds model-backed embedder configuration.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Dimensions int
	BaseURL    string // optional, useful for testing against a mock server
}

// OpenAI implements Embedder using the OpenAI embeddings API.
//
// A content-addressed cache (SHA-256 of the input text) keeps repeated embeds
// of identical text cheap and deterministic within the process: a text is
// sent upstream at most once, so two records with the same text always carry
// bit-identical vectors.
type OpenAI struct {
	client  openaisdk.Client
	model   string
	dims    int
	tracker *Tracker

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewOpenAI creates a model-backed embedder. Returns an error if the API key
// is missing; the caller decides whether that means failure or fallback.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, semerr.New(semerr.CodeEmbedInitFailure, "openai embedder: missing api key")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	tracker, err := NewTracker(DefaultHealthCooldown)
	if err != nil {
		return nil, err
	}

	return &OpenAI{
		client:  openaisdk.NewClient(opts...),
		model:   cfg.Model,
		dims:    cfg.Dimensions,
		tracker: tracker,
		cache:   make(map[string][]float32),
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Dimensions() int { return o.dims }

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, semerr.New(semerr.CodeEmbedInputInvalid, "embed: text must not be empty")
	}

	key := contentKey(text)

	o.mu.RLock()
	cached, ok := o.cache[key]
	o.mu.RUnlock()
	if ok {
		return slices.Clone(cached), nil
	}

	resp, err := o.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input:      openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model:      openaisdk.EmbeddingModel(o.model),
		Dimensions: openaisdk.Int(int64(o.dims)),
	})
	if err != nil {
		o.tracker.RecordFailure()
		return nil, semerr.Wrapf(err, semerr.CodeEmbedUpstreamFailure, "openai embedder: embedding request for model %s", o.model)
	}
	if len(resp.Data) == 0 {
		o.tracker.RecordFailure()
		return nil, semerr.New(semerr.CodeEmbedUpstreamFailure, "openai embedder: empty embedding response")
	}

	raw := resp.Data[0].Embedding
	if len(raw) != o.dims {
		return nil, semerr.Errorf(semerr.CodeEmbedUpstreamFailure,
			"openai embedder: expected %d dimensions, got %d", o.dims, len(raw))
	}

	v := make([]float32, len(raw))
	for i, x := range raw {
		v[i] = float32(x)
	}
	if !NormalizeL2(v) {
		return nil, semerr.New(semerr.CodeEmbedUpstreamFailure, "openai embedder: zero-norm embedding returned")
	}

	o.tracker.RecordSuccess()

	o.mu.Lock()
	o.cache[key] = slices.Clone(v)
	o.mu.Unlock()

	return v, nil
}

// Health reports the upstream's availability based on recent request outcomes.
func (o *OpenAI) Health() health.Metrics {
	return o.tracker.Metrics()
}

func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
