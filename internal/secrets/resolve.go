// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package secrets

import "log/slog"

// ResolveAPIKey picks the embedding API key with the precedence
// config/env value > OS keyring. An empty result means no key is available
// and the embedder resolution decides what that implies.
//
// Keyring failures are logged and treated as "no key": a locked or absent
// keyring must not stop a service that can run on the fallback embedder.
func ResolveAPIKey(configured string, store Store) string {
	if configured != "" {
		return configured
	}

	val, err := store.Retrieve(Service, APIKeyName)
	if err != nil {
		slog.Debug("no embedding api key in keyring", "error", err)
		return ""
	}
	return val
}
