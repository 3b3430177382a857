// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInitCommand_WritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semnote.yaml")

	out, err := execute(t, "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc), "default config must be valid yaml")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semnote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networking:\n  listen: 1.2.3.4:9\n"), 0o600))

	_, err := execute(t, "init", "--path", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The original file must be untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.2.3.4:9")
}

func TestInitCommand_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semnote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old: config\n"), 0o600))

	out, err := execute(t, "init", "--path", path, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old: config")
}
