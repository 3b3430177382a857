// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package embed_test

import (
	"testing"
	"time"

	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, cooldown time.Duration) *embed.Tracker {
	t.Helper()
	tr, err := embed.NewTracker(cooldown)
	require.NoError(t, err)
	return tr
}

func TestTracker_StartsHealthy(t *testing.T) {
	tr := newTracker(t, 30*time.Second)
	assert.True(t, tr.IsHealthy())

	m := tr.Metrics()
	assert.True(t, m.Available)
	assert.Zero(t, m.FailureCount)
	assert.Nil(t, m.LastFailureAt)
	assert.Nil(t, m.CooldownUntil)
}

func TestTracker_InvalidCooldown(t *testing.T) {
	_, err := embed.NewTracker(0)
	assert.Error(t, err)

	_, err = embed.NewTracker(-time.Second)
	assert.Error(t, err)
}

func TestTracker_FailureMakesUnhealthy(t *testing.T) {
	tr := newTracker(t, 30*time.Second)
	tr.RecordFailure()
	assert.False(t, tr.IsHealthy())

	m := tr.Metrics()
	assert.False(t, m.Available)
	assert.Equal(t, int64(1), m.FailureCount)
	assert.NotNil(t, m.LastFailureAt)
	assert.NotNil(t, m.CooldownUntil)
}

func TestTracker_SuccessRestoresHealth(t *testing.T) {
	tr := newTracker(t, 30*time.Second)
	tr.RecordFailure()
	assert.False(t, tr.IsHealthy())

	tr.RecordSuccess()
	assert.True(t, tr.IsHealthy())

	// The cumulative failure count is history, not state.
	assert.Equal(t, int64(1), tr.Metrics().FailureCount)
}

func TestTracker_CooldownBoundary(t *testing.T) {
	cooldown := 10 * time.Second
	now := time.Now()

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantHealthy bool
	}{
		{name: "before cooldown", elapsed: 9 * time.Second, wantHealthy: false},
		{name: "at exact cooldown boundary", elapsed: 10 * time.Second, wantHealthy: true},
		{name: "after cooldown", elapsed: 11 * time.Second, wantHealthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(t, cooldown)
			tr.SetNowFunc(func() time.Time { return now })

			tr.RecordFailure()
			assert.False(t, tr.IsHealthy(), "should be unhealthy immediately after failure")

			tr.SetNowFunc(func() time.Time { return now.Add(tt.elapsed) })
			assert.Equal(t, tt.wantHealthy, tr.IsHealthy())
		})
	}
}

func TestFallback_HealthAlwaysAvailable(t *testing.T) {
	m := embed.NewFallback(16).Health()
	assert.True(t, m.Available)
	assert.Zero(t, m.FailureCount)
}
