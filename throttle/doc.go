// Package throttle computes how long an HTTP client should pause before
// retrying a rate-limited request.
//
// Wait resolution
//   - A retry-after header (integer seconds or HTTP date) always wins when it
//     parses; a value of zero is authoritative, not "no value".
//   - When the remaining-quota headers report zero, the wait is derived from
//     the reset-timestamp headers, falling back to the caller's default.
//   - A reset timestamp alone is used when it yields a positive wait.
//   - Otherwise the caller's default applies.
//   - Every wait is capped at MaxWait and is never negative.
//
// Jitter
//   - ApplyJitter perturbs a wait by a uniform draw within a bounded
//     percentage of its value, so concurrent callers waiting on the same
//     limit do not wake in lock-step.
//
// All functions are pure and safe for concurrent use.
package throttle
