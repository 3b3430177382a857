// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/semnote-dev/semnote/internal/config"
	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/semnote-dev/semnote/internal/notes"
	"github.com/semnote-dev/semnote/internal/secrets"
	"github.com/semnote-dev/semnote/internal/server"
	"github.com/semnote-dev/semnote/internal/store"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

// App holds all wired subsystems and manages their lifecycle.
type App struct {
	Server *server.Server
	Notes  *notes.Service
}

// secretStoreFactory creates a secrets.Store. It is a package-level variable
// so tests can substitute a mock implementation.
var secretStoreFactory = func() secrets.Store {
	return secrets.NewKeyringStore()
}

// WireApp creates all subsystems from config and wires them together:
// embedder, record store, note service, HTTP server.
func WireApp(ctx context.Context, cfg *config.Config) (*App, error) {
	// 1. Embedding provider. The API key comes from config/env first,
	// then the OS keyring.
	apiKey := secrets.ResolveAPIKey(cfg.Embedding.APIKey, secretStoreFactory())

	embedder, err := embed.Resolve(ctx, embed.Config{
		Provider: cfg.Embedding.Provider,
		OpenAI: embed.OpenAIConfig{
			APIKey:     apiKey,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		},
	})
	if err != nil {
		return nil, semerr.Wrapf(err, semerr.CodeCLISetupFailure, "resolving embedding provider")
	}

	// 2. Record store. The store is pinned to the embedder's dimensions so
	// a provider change against an existing file fails fast instead of
	// mixing incomparable vectors.
	var records store.Store
	switch cfg.Storage.Backend {
	case "memory":
		records = store.NewMemoryStore(embedder.Dimensions())
	case "file":
		records, err = store.NewFileStore(cfg.Storage.Path, embedder.Dimensions())
		if err != nil {
			return nil, semerr.Wrapf(err, semerr.CodeCLISetupFailure, "opening note store %s", cfg.Storage.Path)
		}
	default:
		return nil, semerr.Errorf(semerr.CodeCLISetupFailure, "unknown storage backend %q", cfg.Storage.Backend)
	}

	// 3. Note service.
	svc := notes.NewService(embedder, records)

	// 4. HTTP server.
	if cfg.Auth.Token == "" {
		slog.Warn("authentication disabled: no auth token configured — all endpoints are unauthenticated")
	}

	srv, err := server.New(server.Config{
		ListenAddr: cfg.Networking.Listen,
		AuthToken:  cfg.Auth.Token,
		RateLimit: server.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
	}, svc)
	if err != nil {
		_ = svc.Close()
		return nil, semerr.Wrapf(err, semerr.CodeCLISetupFailure, "creating server")
	}

	slog.Info("wired semnote",
		"provider", embedder.Name(),
		"dimensions", embedder.Dimensions(),
		"backend", cfg.Storage.Backend,
		"stored", svc.Count(),
	)

	return &App{Server: srv, Notes: svc}, nil
}

// Close shuts down all subsystems.
func (a *App) Close() error {
	return semerr.Join(
		a.Server.Close(),
		a.Notes.Close(),
	)
}
