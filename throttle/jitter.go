package throttle

import (
	crand "crypto/rand"
	"math/big"
	"time"
)

// ApplyJitter perturbs base by a uniform random amount within ±percent of its
// value. The percentage is clamped to [0, 100] and the result is never
// negative. A zero base or zero percentage returns base unchanged.
func ApplyJitter(base time.Duration, percent int) time.Duration {
	if base <= 0 {
		return 0
	}
	if percent <= 0 {
		return base
	}
	if percent > 100 {
		percent = 100
	}

	variance := base * time.Duration(percent) / 100
	if variance <= 0 {
		return base
	}

	// Uniform draw in [-variance, +variance].
	span := big.NewInt(int64(2*variance) + 1)
	n, err := crand.Int(crand.Reader, span)
	if err != nil {
		// On RNG failure, fall back to the unjittered wait
		return base
	}

	jittered := base - variance + time.Duration(n.Int64())
	if jittered < 0 {
		return 0
	}
	return jittered
}
