// Package httpclient provides a small REST client that retries
// rate-limited requests using server-provided throttling headers.
//
// Throttling
//   - Responses whose status code matches the configured throttle codes
//     (default 429) are retried up to the configured maximum.
//   - The wait between attempts is computed from retry-after,
//     ratelimit-remaining, and ratelimit-reset header conventions, with
//     jitter applied to avoid synchronized retries; see the throttle package.
//   - Exhausting the retry budget fails with a throttle-exhausted error
//     carrying the last status code.
//
// Everything else passes through
//   - Transport failures (DNS, connection, TLS) are never retried.
//   - Non-throttle responses with status >= 400 surface an HTTP error
//     alongside the response, without sleeping.
//   - Responses below 400 are returned as-is.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - The wait honors context cancellation, so a caller deadline interrupts
//     an in-flight pause.
package httpclient
