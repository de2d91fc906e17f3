package circuitbreaker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/taxes-app/internal/circuitbreaker"
)

const (
	avataxProvider = "avatax"
	taxjarProvider = "taxjar"
)

func TestClosedToOpen(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(2, 50*time.Millisecond, 1)

	assert.True(t, cb.IsHealthy(avataxProvider), "a fresh circuit is closed")
	cb.RecordFailure(avataxProvider)
	assert.True(t, cb.IsHealthy(avataxProvider), "still closed below the threshold")

	cb.RecordFailure(avataxProvider)
	assert.Equal(t, circuitbreaker.Open, cb.GetState(avataxProvider))
	assert.False(t, cb.IsHealthy(avataxProvider), "an open circuit blocks calls")
}

func TestOpenToHalfOpenAfterTimeout(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(1, 30*time.Millisecond, 1)
	cb.RecordFailure(avataxProvider)
	require.False(t, cb.IsHealthy(avataxProvider))

	time.Sleep(40 * time.Millisecond)
	assert.True(t, cb.IsHealthy(avataxProvider), "the first call after the timeout is the probe")
	assert.Equal(t, circuitbreaker.HalfOpen, cb.GetState(avataxProvider))
}

func TestHalfOpenClosesOnProbeSuccess(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(1, 10*time.Millisecond, 2)
	cb.RecordFailure(avataxProvider)
	time.Sleep(20 * time.Millisecond)
	require.True(t, cb.IsHealthy(avataxProvider))

	cb.RecordSuccess(avataxProvider)
	assert.Equal(t, circuitbreaker.HalfOpen, cb.GetState(avataxProvider), "one probe success is not enough with threshold 2")
	cb.RecordSuccess(avataxProvider)
	assert.Equal(t, circuitbreaker.Closed, cb.GetState(avataxProvider))
}

func TestHalfOpenReopensOnProbeFailure(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(1, 10*time.Millisecond, 1)
	cb.RecordFailure(avataxProvider)
	time.Sleep(20 * time.Millisecond)
	require.True(t, cb.IsHealthy(avataxProvider))

	cb.RecordFailure(avataxProvider)
	assert.Equal(t, circuitbreaker.Open, cb.GetState(avataxProvider))
	assert.False(t, cb.IsHealthy(avataxProvider))
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(3, time.Second, 1)
	cb.RecordFailure(avataxProvider)
	cb.RecordFailure(avataxProvider)
	cb.RecordSuccess(avataxProvider)
	cb.RecordFailure(avataxProvider)
	cb.RecordFailure(avataxProvider)
	assert.Equal(t, circuitbreaker.Closed, cb.GetState(avataxProvider), "non-consecutive failures must not open the circuit")
}

func TestProvidersAreIndependent(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(1, time.Second, 1)
	cb.RecordFailure(avataxProvider)

	assert.False(t, cb.IsHealthy(avataxProvider))
	assert.True(t, cb.IsHealthy(taxjarProvider), "one provider's outage must not block the other")
}

func TestGetStateDoesNotTransition(t *testing.T) {
	cb := circuitbreaker.NewWithSettings(1, 10*time.Millisecond, 1)
	cb.RecordFailure(avataxProvider)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, circuitbreaker.Open, cb.GetState(avataxProvider), "reading the state must not start the probe")
	assert.True(t, cb.IsHealthy(avataxProvider))
	assert.Equal(t, circuitbreaker.HalfOpen, cb.GetState(avataxProvider))
}
