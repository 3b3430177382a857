// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package embed

import (
	"context"
	"log/slog"
	"time"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

// Provider names accepted by Resolve.
const (
	ProviderAuto     = "auto"
	ProviderModel    = "model"
	ProviderFallback = "fallback"
)

// probeTimeout bounds the single availability check Resolve performs against
// the model-backed upstream.
const probeTimeout = 10 * time.Second

// Config selects and configures the active embedder.
type Config struct {
	// Provider is one of auto, model, fallback. Empty means auto.
	Provider string
	OpenAI   OpenAIConfig
}

// Resolve selects the embedder once at startup. "model" requires the
// model-backed variant and fails hard if it cannot initialize or the upstream
// does not answer a probe embed; "auto" tries the same and degrades to the
// deterministic fallback, logging the reason. The choice is never
// re-evaluated per call.
func Resolve(ctx context.Context, cfg Config) (Embedder, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderAuto
	}

	switch provider {
	case ProviderFallback:
		return NewFallback(cfg.OpenAI.Dimensions), nil

	case ProviderModel:
		e, err := newProbedOpenAI(ctx, cfg.OpenAI)
		if err != nil {
			return nil, semerr.Wrap(err, semerr.CodeEmbedInitFailure,
				"initializing model-backed embedder", semerr.FieldProvider(ProviderModel))
		}
		return e, nil

	case ProviderAuto:
		e, err := newProbedOpenAI(ctx, cfg.OpenAI)
		if err != nil {
			slog.Warn("model-backed embedder unavailable, using deterministic fallback", "error", err)
			return NewFallback(cfg.OpenAI.Dimensions), nil
		}
		return e, nil

	default:
		return nil, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"embedding provider must be one of [auto, model, fallback], got %q", provider)
	}
}

// newProbedOpenAI constructs the model-backed embedder and verifies the
// upstream once with a probe embed, so an unreachable or misconfigured
// upstream surfaces at startup instead of on the first ingest.
func newProbedOpenAI(ctx context.Context, cfg OpenAIConfig) (*OpenAI, error) {
	e, err := NewOpenAI(cfg)
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if _, err := e.Embed(probeCtx, "availability probe"); err != nil {
		return nil, err
	}
	return e, nil
}
