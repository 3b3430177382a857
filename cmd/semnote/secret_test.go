// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/semnote-dev/semnote/internal/secrets"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSecretStore is an in-memory secrets.Store for CLI tests.
type mapSecretStore struct {
	values map[string]string
}

func newMapSecretStore() *mapSecretStore {
	return &mapSecretStore{values: make(map[string]string)}
}

func (s *mapSecretStore) Store(service, key, value string) error {
	s.values[service+"/"+key] = value
	return nil
}

func (s *mapSecretStore) Retrieve(service, key string) (string, error) {
	val, ok := s.values[service+"/"+key]
	if !ok {
		return "", semerr.Errorf(semerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
	}
	return val, nil
}

func (s *mapSecretStore) Delete(service, key string) error {
	if _, ok := s.values[service+"/"+key]; !ok {
		return semerr.Errorf(semerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
	}
	delete(s.values, service+"/"+key)
	return nil
}

func withMapSecrets(t *testing.T) *mapSecretStore {
	t.Helper()
	ms := newMapSecretStore()
	old := secretStoreFactory
	secretStoreFactory = func() secrets.Store { return ms }
	t.Cleanup(func() { secretStoreFactory = old })
	return ms
}

func executeWithStdin(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSecretSetKey(t *testing.T) {
	ms := withMapSecrets(t)

	out, err := executeWithStdin(t, "sk-test-key\n", "secret", "set-key")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored embedding API key")

	val, err := ms.Retrieve(secrets.Service, secrets.APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", val)
}

func TestSecretSetKey_TrimsWhitespace(t *testing.T) {
	ms := withMapSecrets(t)

	_, err := executeWithStdin(t, "  sk-padded  \n", "secret", "set-key")
	require.NoError(t, err)

	val, err := ms.Retrieve(secrets.Service, secrets.APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "sk-padded", val)
}

func TestSecretSetKey_EmptyRejected(t *testing.T) {
	withMapSecrets(t)

	_, err := executeWithStdin(t, "\n", "secret", "set-key")
	require.Error(t, err)
	assert.True(t, semerr.HasCode(err, semerr.CodeCLIInputInvalid))
}

func TestSecretClearKey(t *testing.T) {
	ms := withMapSecrets(t)
	require.NoError(t, ms.Store(secrets.Service, secrets.APIKeyName, "sk-old"))

	out, err := executeWithStdin(t, "", "secret", "clear-key")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed embedding API key")

	_, err = ms.Retrieve(secrets.Service, secrets.APIKeyName)
	assert.True(t, semerr.HasCode(err, semerr.CodeSecretNotFound))
}

func TestSecretClearKey_NothingStored(t *testing.T) {
	withMapSecrets(t)

	out, err := executeWithStdin(t, "", "secret", "clear-key")
	require.NoError(t, err)
	assert.Contains(t, out, "No embedding API key stored.")
}
