// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/semnote-dev/semnote/internal/embed"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the top-level semnote configuration.
type Config struct {
	Networking NetworkingConfig `mapstructure:"networking"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

// NetworkingConfig controls how semnote listens for connections.
type NetworkingConfig struct {
	Listen string `mapstructure:"listen"`
}

// AuthConfig holds the static bearer token callers must present.
// An empty token disables authentication (development only).
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// StorageConfig selects and locates the record store backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	APIKey     string `mapstructure:"api_key"`
}

// RateLimitConfig controls per-IP request limiting. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// SetDefaults registers every configuration default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:8787")
	v.SetDefault("auth.token", "")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "notes.json")
	v.SetDefault("embedding.provider", embed.ProviderAuto)
	v.SetDefault("embedding.model", embed.DefaultModel)
	v.SetDefault("embedding.dimensions", embed.DefaultDimensions)
	v.SetDefault("ratelimit.requests_per_second", 0)
	v.SetDefault("ratelimit.burst", 0)
}

// SetupEnv binds SEMNOTE_-prefixed environment variables, replacing dots
// with underscores (e.g. SEMNOTE_AUTH_TOKEN, SEMNOTE_EMBEDDING_API_KEY).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("SEMNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, semerr.Errorf(semerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, semerr.Errorf(semerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, semerr.Errorf(semerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns all
// validation errors found, collecting issues rather than stopping at the
// first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNetworking()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateRateLimit()...)

	return errs
}

func (c *Config) validateNetworking() []error {
	var errs []error

	if c.Networking.Listen == "" {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue, "config: networking.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: networking.listen must be a valid host:port address, got %q: %w",
			c.Networking.Listen, err,
		))
		return errs
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be a number, got %q", portStr))
	} else if port < 0 || port > 65535 {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be between 0 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"file": true, "memory": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [file, memory], got %q", c.Storage.Backend))
	}

	if c.Storage.Backend == "file" && strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: storage.path must not be empty for the file backend"))
	}

	return errs
}

func (c *Config) validateEmbedding() []error {
	var errs []error

	validProviders := map[string]bool{
		embed.ProviderAuto:     true,
		embed.ProviderModel:    true,
		embed.ProviderFallback: true,
	}
	if !validProviders[c.Embedding.Provider] {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: embedding.provider must be one of [auto, model, fallback], got %q", c.Embedding.Provider))
	}

	if c.Embedding.Dimensions <= 0 {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: embedding.dimensions must be greater than 0, got %d", c.Embedding.Dimensions))
	}

	return errs
}

func (c *Config) validateRateLimit() []error {
	var errs []error

	if c.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: ratelimit.requests_per_second must not be negative, got %g", c.RateLimit.RequestsPerSecond))
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst <= 0 {
		errs = append(errs, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"config: ratelimit.burst must be positive when a rate is set, got %d", c.RateLimit.Burst))
	}

	return errs
}
