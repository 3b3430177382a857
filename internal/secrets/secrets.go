// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Package secrets stores the embedding API key outside of config files.
package secrets

// Service is the keyring service name semnote stores secrets under.
const Service = "semnote"

// APIKeyName is the keyring key holding the embedding provider API key.
const APIKeyName = "embedding.api_key"

// Store provides secure secret storage operations. Implementations may use
// OS keyrings, encrypted files, or other backends.
type Store interface {
	// Store saves a secret value under the given service and key.
	Store(service, key, value string) error

	// Retrieve fetches the secret value for the given service and key.
	// Returns a not-found coded error if the key does not exist.
	Retrieve(service, key string) (string, error)

	// Delete removes the secret for the given service and key.
	// Returns a not-found coded error if the key does not exist.
	Delete(service, key string) error
}
