// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package embed

import (
	"sync"
	"time"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/semnote-dev/semnote/pkg/health"
)

// DefaultHealthCooldown is the duration after which an unhealthy embedder
// becomes eligible for retry.
const DefaultHealthCooldown = 30 * time.Second

// Tracker provides simple health state tracking for an embedding provider.
// The provider is considered healthy until RecordFailure is called. After a
// failure it is marked unhealthy for a cooldown period, after which it
// becomes available again to allow recovery.
type Tracker struct {
	mu           sync.RWMutex
	healthy      bool
	failedAt     time.Time
	cooldown     time.Duration
	failureCount int64
	nowFunc      func() time.Time // for testing
}

// NewTracker creates a Tracker that starts healthy.
// Returns an error if cooldown is zero or negative.
func NewTracker(cooldown time.Duration) (*Tracker, error) {
	if cooldown <= 0 {
		return nil, semerr.Errorf(semerr.CodeConfigValidateInvalidValue,
			"health tracker cooldown must be positive, got %s", cooldown)
	}
	return &Tracker{
		healthy:  true,
		cooldown: cooldown,
		nowFunc:  time.Now,
	}, nil
}

// isHealthyLocked reports whether the provider is healthy or the cooldown
// has elapsed. The caller MUST hold at least t.mu.RLock.
func (t *Tracker) isHealthyLocked() bool {
	if t.healthy {
		return true
	}
	// Allow retry after cooldown expires.
	return t.nowFunc().Sub(t.failedAt) >= t.cooldown
}

// IsHealthy returns true if the provider is healthy or the cooldown has elapsed.
func (t *Tracker) IsHealthy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isHealthyLocked()
}

// RecordSuccess marks the provider as healthy.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	t.healthy = true
	t.mu.Unlock()
}

// RecordFailure marks the provider as unhealthy and increments the
// cumulative failure count.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	t.healthy = false
	t.failedAt = t.nowFunc()
	t.failureCount++
	t.mu.Unlock()
}

// SetNowFunc overrides the time source (for testing).
func (t *Tracker) SetNowFunc(fn func() time.Time) {
	t.mu.Lock()
	t.nowFunc = fn
	t.mu.Unlock()
}

// Metrics returns a point-in-time snapshot of the tracker's health state.
func (t *Tracker) Metrics() health.Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := health.Metrics{
		FailureCount: t.failureCount,
	}

	if t.failureCount > 0 {
		at := t.failedAt
		m.LastFailureAt = &at
	}

	m.Available = t.isHealthyLocked()
	if !t.healthy {
		cooldownEnd := t.failedAt.Add(t.cooldown)
		m.CooldownUntil = &cooldownEnd
	}
	return m
}
