package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_TripsAfterFailures(t *testing.T) {
	cb := New("test-trip", Config{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute}, zap.NewNop())
	failure := errors.New("redis down")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, failure })
		assert.ErrorIs(t, err, failure)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNew_StaysClosedOnSuccess(t *testing.T) {
	cb := New("test-closed", DefaultConfig(), nil)

	for i := 0; i < 5; i++ {
		v, err := cb.Execute(func() (interface{}, error) { return i, nil })
		assert.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestStateValue(t *testing.T) {
	assert.Equal(t, 0.0, stateValue(gobreaker.StateClosed))
	assert.Equal(t, 1.0, stateValue(gobreaker.StateOpen))
	assert.Equal(t, 2.0, stateValue(gobreaker.StateHalfOpen))
}
