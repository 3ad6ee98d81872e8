package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("identity", WithFailureThreshold(3))

	b.Record(errBoom)
	b.Record(errBoom)
	b.Record(nil)
	b.Record(errBoom)
	b.Record(errBoom)
	assert.Equal(t, StateClosed, b.State())
	require.NoError(t, b.Healthy())

	b.Record(errBoom)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Healthy(), ErrOpen)
}

func TestBreakerClosesAfterConsecutiveSuccesses(t *testing.T) {
	var transitions []State
	b := New("identity",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithOnChange(func(name string, to State) {
			assert.Equal(t, "identity", name)
			transitions = append(transitions, to)
		}),
	)

	b.Record(errBoom)
	b.Record(nil)
	b.Record(errBoom)
	b.Record(nil)
	assert.Equal(t, StateOpen, b.State())

	b.Record(nil)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, []State{StateOpen, StateClosed}, transitions)
}

func TestBreakerIgnoresInvalidThresholds(t *testing.T) {
	b := New("identity", WithFailureThreshold(0), WithSuccessThreshold(-1), nil)
	for range 4 {
		b.Record(errBoom)
	}
	assert.Equal(t, StateClosed, b.State())
	b.Record(errBoom)
	assert.Equal(t, StateOpen, b.State())
}
