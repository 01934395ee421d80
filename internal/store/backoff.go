package store

import (
	"math"
	"time"
)

// ComputeDelay returns the delay before the next retry attempt:
// base^attempts seconds, where attempts is the post-increment failure count
// (first failure -> attempts=1). Negative attempts clamp to zero, so the
// minimum delay for base>=1 is one second. The base is not validated here;
// callers constrain it via configuration.
func ComputeDelay(base float64, attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	seconds := math.Pow(base, float64(attempts))
	return time.Duration(seconds * float64(time.Second))
}
