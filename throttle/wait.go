package throttle

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Header name variants consulted per family, highest priority first.
var (
	remainingHeaders = []string{
		"x-ratelimit-remaining",
		"x-hubspot-ratelimit-remaining",
		"ratelimit-remaining",
	}
	resetHeaders = []string{
		"x-ratelimit-reset",
		"x-hubspot-ratelimit-reset",
		"ratelimit-reset",
	}
)

// Reset timestamps above these thresholds are interpreted as epoch
// milliseconds and epoch seconds respectively.
const (
	epochMillisThreshold  = 1_000_000_000_000
	epochSecondsThreshold = 1_000_000_000
)

// Resolver computes throttle waits from rate-limit response headers.
// The zero value reads the system clock.
type Resolver struct {
	// Now reports the current time for date and reset-timestamp arithmetic.
	// Defaults to time.Now.
	Now func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Wait returns the duration to pause before retrying, derived from the
// response headers in strict priority order: an explicit retry-after
// directive, an exhausted remaining quota combined with a reset timestamp,
// a reset timestamp alone, and finally the caller's default. The result is
// always within [0, MaxWait].
func (r Resolver) Wait(raw http.Header, defaultWait time.Duration) time.Duration {
	headers := Normalize(raw)

	// A parseable retry-after is authoritative, including a value of zero.
	if wait, ok := r.retryAfter(headers); ok {
		return capWait(wait)
	}

	if remaining, ok := intHeader(headers, remainingHeaders); ok && remaining <= 0 {
		if wait, ok := r.resetWait(headers); ok && wait > 0 {
			return capWait(wait)
		}
		return capWait(defaultWait)
	}

	if wait, ok := r.resetWait(headers); ok && wait > 0 {
		return capWait(wait)
	}

	return capWait(defaultWait)
}

// retryAfter parses the retry-after directive. The boolean result
// distinguishes "directive absent or unparsable" from a resolved wait of
// zero, which rule ordering depends on.
func (r Resolver) retryAfter(headers map[string]string) (time.Duration, bool) {
	value, ok := headers["retry-after"]
	if !ok {
		return 0, false
	}
	value = strings.TrimSpace(value)

	if seconds, err := strconv.ParseUint(value, 10, 64); err == nil {
		if seconds >= uint64(MaxWait/time.Second) {
			return MaxWait, true
		}
		return time.Duration(seconds) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		wait := at.Sub(r.now())
		if wait < 0 {
			wait = 0
		}
		return wait, true
	}

	return 0, false
}

// resetWait derives a wait from the reset-timestamp headers. Units are
// disambiguated by magnitude: epoch milliseconds above 1e12, epoch seconds
// above 1e9. Absence of every variant yields ok=false, distinct from a
// resolved wait of zero.
func (r Resolver) resetWait(headers map[string]string) (time.Duration, bool) {
	timestamp, ok := intHeader(headers, resetHeaders)
	if !ok {
		return 0, false
	}

	millis := timestamp
	if timestamp <= epochMillisThreshold && timestamp > epochSecondsThreshold {
		millis = timestamp * 1000
	}

	wait := time.Duration(millis-r.now().UnixMilli()) * time.Millisecond
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// intHeader returns the first parseable integer among the named headers.
// Unparsable values are treated as absent.
func intHeader(headers map[string]string, names []string) (int64, bool) {
	for _, name := range names {
		value, ok := headers[name]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func capWait(wait time.Duration) time.Duration {
	if wait < 0 {
		return 0
	}
	if wait > MaxWait {
		return MaxWait
	}
	return wait
}
