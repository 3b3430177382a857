// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/semnote-dev/semnote/internal/config"
	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/semnote-dev/semnote/internal/secrets"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptySecretStore is a secrets.Store with nothing in it, so wiring tests
// never touch the OS keyring.
type emptySecretStore struct{}

func (emptySecretStore) Store(_, _, _ string) error { return nil }
func (emptySecretStore) Retrieve(service, key string) (string, error) {
	return "", semerr.Errorf(semerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
}
func (emptySecretStore) Delete(_, _ string) error { return nil }

func withStubSecrets(t *testing.T) {
	t.Helper()
	old := secretStoreFactory
	secretStoreFactory = func() secrets.Store { return emptySecretStore{} }
	t.Cleanup(func() { secretStoreFactory = old })
}

func testConfig() *config.Config {
	return &config.Config{
		Networking: config.NetworkingConfig{Listen: "127.0.0.1:0"},
		Storage:    config.StorageConfig{Backend: "memory"},
		Embedding: config.EmbeddingConfig{
			Provider:   embed.ProviderFallback,
			Dimensions: 64,
		},
	}
}

func TestWireApp_MemoryBackend(t *testing.T) {
	withStubSecrets(t)

	app, err := WireApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.NotNil(t, app.Server)
	assert.Equal(t, "fallback", app.Notes.EmbedderName())
	assert.Equal(t, 64, app.Notes.Dimensions())
	assert.Equal(t, 0, app.Notes.Count())
}

func TestWireApp_FileBackend(t *testing.T) {
	withStubSecrets(t)

	cfg := testConfig()
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "notes.json")

	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 0, app.Notes.Count())
}

func TestWireApp_AutoDegradesWithoutAPIKey(t *testing.T) {
	withStubSecrets(t)

	cfg := testConfig()
	cfg.Embedding.Provider = embed.ProviderAuto

	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, "fallback", app.Notes.EmbedderName())
}

func TestWireApp_ModelProviderFailsWithoutAPIKey(t *testing.T) {
	withStubSecrets(t)

	cfg := testConfig()
	cfg.Embedding.Provider = embed.ProviderModel

	_, err := WireApp(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, semerr.HasCode(err, semerr.CodeCLISetupFailure))
}

func TestWireApp_UnknownBackend(t *testing.T) {
	withStubSecrets(t)

	cfg := testConfig()
	cfg.Storage.Backend = "sqlite"

	_, err := WireApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestWireApp_CloseIsIdempotent(t *testing.T) {
	withStubSecrets(t)

	app, err := WireApp(context.Background(), testConfig())
	require.NoError(t, err)

	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
}
