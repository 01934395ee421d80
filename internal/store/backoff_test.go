package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeDelayExponential(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for attempts, expected := range want {
		assert.Equal(t, expected, ComputeDelay(2, attempts), "base=2 attempts=%d", attempts)
	}
}

func TestComputeDelayClampsNegativeAttempts(t *testing.T) {
	assert.Equal(t, 1*time.Second, ComputeDelay(2, -1))
	assert.Equal(t, 1*time.Second, ComputeDelay(2, -100))
}

func TestComputeDelayFractionalBase(t *testing.T) {
	// Sub-1 bases are accepted without validation.
	assert.Equal(t, 250*time.Millisecond, ComputeDelay(0.5, 2))
	assert.Equal(t, 2250*time.Millisecond, ComputeDelay(1.5, 2))
}
