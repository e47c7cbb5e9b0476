package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		MaxRequests:      1,
	}
}

func TestNew_DefaultValues(t *testing.T) {
	cb := New("test", Config{})

	assert.Equal(t, 5, cb.config.FailureThreshold)
	assert.Equal(t, 2, cb.config.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cb.config.Timeout)
	assert.Equal(t, 1, cb.config.MaxRequests)
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_Success(t *testing.T) {
	cb := New("test", testConfig())

	err := cb.Execute(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
	stats := cb.Stats()
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, 1, stats.ConsecutiveSuccesses)
}

func TestExecute_TripsToOpen(t *testing.T) {
	cb := New("test", testConfig())
	failing := func() error { return fmt.Errorf("provider down") }

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateClosed, cb.State())

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.True(t, errors.Is(err, ErrOpen))
	assert.False(t, called)
	assert.Equal(t, int64(1), cb.Stats().TotalRejections)
}

func TestExecute_HalfOpenRecovery(t *testing.T) {
	cb := New("test", testConfig())
	now := time.Now()
	cb.now = func() time.Time { return now }

	var transitions []State
	cb.config.OnStateChange = func(_ string, _, to State) {
		transitions = append(transitions, to)
	}

	failing := func() error { return fmt.Errorf("provider down") }
	_ = cb.Execute(failing)
	_ = cb.Execute(failing)
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Minute)
	err := cb.Execute(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateClosed}, transitions)
}

func TestExecute_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test", testConfig())
	now := time.Now()
	cb.now = func() time.Time { return now }

	failing := func() error { return fmt.Errorf("provider down") }
	_ = cb.Execute(failing)
	_ = cb.Execute(failing)

	now = now.Add(2 * time.Minute)
	_ = cb.Execute(failing)

	assert.Equal(t, StateOpen, cb.State())
}

func TestReset(t *testing.T) {
	cb := New("test", testConfig())
	failing := func() error { return fmt.Errorf("provider down") }
	_ = cb.Execute(failing)
	_ = cb.Execute(failing)

	cb.Reset()

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, Stats{}, cb.Stats())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
