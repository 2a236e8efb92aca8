package throttle

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDefaultWait = 7 * time.Second

// fixedResolver returns a resolver pinned to a whole-second instant so that
// HTTP date arithmetic is exact.
func fixedResolver() (Resolver, time.Time) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return Resolver{Now: func() time.Time { return now }}, now
}

func headers(pairs ...string) http.Header {
	h := http.Header{}
	for i := 0; i < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

func TestWaitRetryAfterSeconds(t *testing.T) {
	resolver, _ := fixedResolver()

	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"0", 0},
		{"1", 1 * time.Second},
		{"30", 30 * time.Second},
		{"299", 299 * time.Second},
		{"300", MaxWait},
		{"999999", MaxWait},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			wait := resolver.Wait(headers("Retry-After", tt.value), testDefaultWait)
			assert.Equal(t, tt.expected, wait)
		})
	}
}

func TestWaitRetryAfterZeroIsAuthoritative(t *testing.T) {
	resolver, now := fixedResolver()

	// retry-after 0 must not fall through to the reset header below it
	h := headers(
		"Retry-After", "0",
		"X-RateLimit-Remaining", "0",
		"X-RateLimit-Reset", strconv.FormatInt(now.Add(2*time.Minute).Unix(), 10),
	)

	assert.Equal(t, time.Duration(0), resolver.Wait(h, testDefaultWait))
}

func TestWaitRetryAfterDate(t *testing.T) {
	resolver, now := fixedResolver()

	t.Run("future date", func(t *testing.T) {
		at := now.Add(90 * time.Second).Format(http.TimeFormat)
		wait := resolver.Wait(headers("Retry-After", at), testDefaultWait)
		assert.Equal(t, 90*time.Second, wait)
	})

	t.Run("past date resolves to zero, not default", func(t *testing.T) {
		at := now.Add(-time.Hour).Format(http.TimeFormat)
		wait := resolver.Wait(headers("Retry-After", at), testDefaultWait)
		assert.Equal(t, time.Duration(0), wait)
	})

	t.Run("far future date is capped", func(t *testing.T) {
		at := now.Add(24 * time.Hour).Format(http.TimeFormat)
		wait := resolver.Wait(headers("Retry-After", at), testDefaultWait)
		assert.Equal(t, MaxWait, wait)
	})
}

func TestWaitRetryAfterUnparsableFallsThrough(t *testing.T) {
	resolver, now := fixedResolver()

	for _, garbage := range []string{"", "abc123", "not-a-date", "-5", "1.5"} {
		t.Run(strconv.Quote(garbage), func(t *testing.T) {
			t.Run("to default", func(t *testing.T) {
				wait := resolver.Wait(headers("Retry-After", garbage), testDefaultWait)
				assert.Equal(t, testDefaultWait, wait)
			})

			t.Run("to reset rule", func(t *testing.T) {
				h := headers(
					"Retry-After", garbage,
					"X-RateLimit-Remaining", "0",
					"X-RateLimit-Reset", strconv.FormatInt(now.Add(2*time.Minute).Unix(), 10),
				)
				assert.Equal(t, 2*time.Minute, resolver.Wait(h, testDefaultWait))
			})
		})
	}
}

func TestWaitRetryAfterWinsOverResetHeaders(t *testing.T) {
	resolver, now := fixedResolver()

	h := headers(
		"Retry-After", "3",
		"X-RateLimit-Remaining", "0",
		"X-RateLimit-Reset", strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10),
	)

	assert.Equal(t, 3*time.Second, resolver.Wait(h, testDefaultWait))
}

func TestWaitRemainingExhausted(t *testing.T) {
	resolver, now := fixedResolver()

	t.Run("without reset header uses default", func(t *testing.T) {
		wait := resolver.Wait(headers("X-RateLimit-Remaining", "0"), testDefaultWait)
		assert.Equal(t, testDefaultWait, wait)
	})

	t.Run("negative remaining counts as exhausted", func(t *testing.T) {
		wait := resolver.Wait(headers("X-RateLimit-Remaining", "-1"), testDefaultWait)
		assert.Equal(t, testDefaultWait, wait)
	})

	t.Run("with epoch-seconds reset", func(t *testing.T) {
		h := headers(
			"X-RateLimit-Remaining", "0",
			"X-RateLimit-Reset", strconv.FormatInt(now.Add(45*time.Second).Unix(), 10),
		)
		assert.Equal(t, 45*time.Second, resolver.Wait(h, testDefaultWait))
	})

	t.Run("with epoch-milliseconds reset", func(t *testing.T) {
		h := headers(
			"X-RateLimit-Remaining", "0",
			"X-RateLimit-Reset", strconv.FormatInt(now.Add(45*time.Second).UnixMilli(), 10),
		)
		assert.Equal(t, 45*time.Second, resolver.Wait(h, testDefaultWait))
	})

	t.Run("with reset in the past uses default", func(t *testing.T) {
		h := headers(
			"X-RateLimit-Remaining", "0",
			"X-RateLimit-Reset", strconv.FormatInt(now.Add(-time.Minute).Unix(), 10),
		)
		assert.Equal(t, testDefaultWait, resolver.Wait(h, testDefaultWait))
	})
}

func TestWaitResetAlone(t *testing.T) {
	resolver, now := fixedResolver()

	t.Run("positive reset wait applies without remaining header", func(t *testing.T) {
		h := headers("X-RateLimit-Reset", strconv.FormatInt(now.Add(20*time.Second).Unix(), 10))
		assert.Equal(t, 20*time.Second, resolver.Wait(h, testDefaultWait))
	})

	t.Run("positive reset wait applies when quota remains", func(t *testing.T) {
		h := headers(
			"X-RateLimit-Remaining", "12",
			"X-RateLimit-Reset", strconv.FormatInt(now.Add(20*time.Second).Unix(), 10),
		)
		assert.Equal(t, 20*time.Second, resolver.Wait(h, testDefaultWait))
	})

	t.Run("reset in the past uses default", func(t *testing.T) {
		h := headers("X-RateLimit-Reset", strconv.FormatInt(now.Add(-time.Minute).Unix(), 10))
		assert.Equal(t, testDefaultWait, resolver.Wait(h, testDefaultWait))
	})
}

func TestWaitHeaderVariants(t *testing.T) {
	resolver, now := fixedResolver()
	reset := strconv.FormatInt(now.Add(30*time.Second).Unix(), 10)

	for _, remaining := range []string{"x-ratelimit-remaining", "x-hubspot-ratelimit-remaining", "ratelimit-remaining"} {
		for _, resetName := range []string{"x-ratelimit-reset", "x-hubspot-ratelimit-reset", "ratelimit-reset"} {
			t.Run(remaining+"/"+resetName, func(t *testing.T) {
				h := headers(remaining, "0", resetName, reset)
				assert.Equal(t, 30*time.Second, resolver.Wait(h, testDefaultWait))
			})
		}
	}
}

func TestWaitUnparsableIntegerFallsToNextVariant(t *testing.T) {
	resolver, now := fixedResolver()

	h := headers(
		"X-RateLimit-Remaining", "garbage",
		"RateLimit-Remaining", "0",
		"X-RateLimit-Reset", strconv.FormatInt(now.Add(15*time.Second).Unix(), 10),
	)

	assert.Equal(t, 15*time.Second, resolver.Wait(h, testDefaultWait))
}

func TestWaitEmptyHeadersUsesDefault(t *testing.T) {
	resolver, _ := fixedResolver()

	for _, defaultWait := range []time.Duration{0, time.Second, 10 * time.Second} {
		assert.Equal(t, defaultWait, resolver.Wait(http.Header{}, defaultWait))
	}
}

func TestWaitDefaultIsCapped(t *testing.T) {
	resolver, _ := fixedResolver()

	assert.Equal(t, MaxWait, resolver.Wait(http.Header{}, 20*time.Minute))
}

func TestWaitZeroValueResolverUsesSystemClock(t *testing.T) {
	var resolver Resolver

	wait := resolver.Wait(headers("Retry-After", "2"), testDefaultWait)
	assert.Equal(t, 2*time.Second, wait)
}
