package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/go-throttle/logger"
	"github.com/gaborage/go-throttle/throttle"
)

// DefaultTimeout is the default request timeout duration
const DefaultTimeout = 30 * time.Second

// client implements the Client interface
type client struct {
	executor  Doer
	logger    logger.Logger
	config    *Config
	resolver  throttle.Resolver
	callCount int64
}

// NewClient creates a new REST client with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the REST client
type Builder struct {
	config   *Config
	executor Doer
	logger   logger.Logger
}

// NewBuilder creates a new client builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:        DefaultTimeout,
			Throttle:       throttle.DefaultConfig(),
			DefaultHeaders: make(map[string]string),
		},
		logger: log,
	}
}

// WithTimeout sets the request timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithThrottleCodes sets the status codes classified as throttling responses
func (b *Builder) WithThrottleCodes(codes ...string) *Builder {
	b.config.Throttle.Codes = codes
	return b
}

// WithDefaultWait sets the wait used when no rate-limit header yields a value
func (b *Builder) WithDefaultWait(wait time.Duration) *Builder {
	b.config.Throttle.DefaultWait = wait
	return b
}

// WithJitterPercent sets the jitter applied to computed waits (clamped to 0-100)
func (b *Builder) WithJitterPercent(percent int) *Builder {
	b.config.Throttle.JitterPercent = percent
	return b
}

// WithMaxRetries sets the number of throttled attempts before giving up (minimum 1)
func (b *Builder) WithMaxRetries(maxRetries int) *Builder {
	b.config.Throttle.MaxRetries = maxRetries
	return b
}

// WithThrottle replaces the whole throttle policy at once
func (b *Builder) WithThrottle(cfg throttle.Config) *Builder {
	b.config.Throttle = cfg
	return b
}

// WithBasicAuth sets basic authentication credentials
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{
		Username: username,
		Password: password,
	}
	return b
}

// WithDefaultHeader adds a default header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithHTTPClient injects the executor used to perform each attempt.
// Defaults to a *net/http.Client with the configured timeout.
func (b *Builder) WithHTTPClient(executor Doer) *Builder {
	b.executor = executor
	return b
}

// WithClock injects the time source used for retry-after and reset-timestamp
// arithmetic. Defaults to time.Now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.config.Clock = now
	return b
}

// WithRequestID injects the correlation ID generator used in log entries
func (b *Builder) WithRequestID(generate func() string) *Builder {
	b.config.NewRequestID = generate
	return b
}

// Build creates the REST client with the configured options
func (b *Builder) Build() Client {
	b.config.Throttle = b.config.Throttle.Normalized()

	executor := b.executor
	if executor == nil {
		executor = &nethttp.Client{
			Timeout: b.config.Timeout,
		}
	}

	return &client{
		executor: executor,
		logger:   b.logger,
		config:   b.config,
		resolver: throttle.Resolver{Now: b.config.Clock},
	}
}

// Get performs a GET request
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do performs an HTTP request with the specified method, retrying throttled
// responses according to the configured policy.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	callCount := atomic.AddInt64(&c.callCount, 1)
	requestID := c.newRequestID()
	policy := c.config.Throttle

	// attempt counts throttled responses, not HTTP calls; it is scoped to
	// this logical request only.
	attempt := 0
	for {
		c.logRequest(requestID, method, req)

		httpReq, err := c.buildRequest(ctx, method, req)
		if err != nil {
			return nil, err
		}

		httpResp, err := c.executor.Do(httpReq)
		if err != nil {
			// Transport failures are never retried here; rate limiting is
			// signaled by responses, not by broken connections.
			if c.isTimeout(err) {
				return nil, NewTimeoutError("request timeout", c.config.Timeout)
			}
			return nil, NewNetworkError("request execution failed", err)
		}

		resp, err := c.buildResponse(start, callCount, httpResp)
		if err != nil {
			return nil, err
		}
		resp.Stats.Attempts = attempt + 1

		if policy.IsThrottleCode(resp.StatusCode) {
			if attempt >= policy.MaxRetries-1 {
				c.logResponse(requestID, resp)
				return resp, NewThrottleExhaustedError(resp.StatusCode, policy.MaxRetries)
			}
			attempt++

			wait := throttle.ApplyJitter(
				c.resolver.Wait(resp.Headers, policy.DefaultWait),
				policy.JitterPercent,
			)
			c.logThrottledAttempt(requestID, resp.StatusCode, attempt, policy.MaxRetries, wait)

			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		c.logResponse(requestID, resp)

		if resp.StatusCode >= nethttp.StatusBadRequest {
			return resp, NewHTTPError(
				fmt.Sprintf("HTTP request failed with status %d", resp.StatusCode),
				resp.StatusCode,
				resp.Body,
			)
		}
		return resp, nil
	}
}

// sleep pauses the current logical request only; cancellation of the caller's
// context interrupts the pause.
func (c *client) sleep(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// validateRequest validates the request before sending
func (c *client) validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.URL == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	return nil
}

// applyHeaders applies headers to the HTTP request
func (c *client) applyHeaders(httpReq *nethttp.Request, req *Request) {
	// Apply default headers first
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}

	// Apply request-specific headers (these override defaults)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Set Content-Type if not already set and body is present
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
}

// applyAuth applies authentication to the HTTP request
func (c *client) applyAuth(httpReq *nethttp.Request, req *Request) {
	// Request-specific auth takes precedence
	auth := req.Auth
	if auth == nil {
		auth = c.config.BasicAuth
	}

	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
}

// buildRequest constructs an *http.Request and applies headers and auth.
// The body reader is rebuilt on every attempt so retries re-send the payload.
func (c *client) buildRequest(ctx context.Context, method string, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, NewNetworkError("failed to create HTTP request", err)
	}

	c.applyHeaders(httpReq, req)
	c.applyAuth(httpReq, req)
	return httpReq, nil
}

// buildResponse reads the body and builds a Response.
func (c *client) buildResponse(start time.Time, callCount int64, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(start),
			CallCount:   callCount,
		},
	}, nil
}

func (c *client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *client) newRequestID() string {
	if c.config.NewRequestID != nil {
		return c.config.NewRequestID()
	}
	return uuid.NewString()
}

// logRequest logs the outgoing request
func (c *client) logRequest(requestID, method string, req *Request) {
	logEvent := c.logger.Debug().
		Str("request_id", requestID).
		Str("direction", "outbound").
		Str("method", method).
		Str("url", req.URL)

	if len(req.Headers) > 0 {
		logEvent.Interface("headers", req.Headers)
	}

	logEvent.Msg("REST client request")
}

// logThrottledAttempt logs one throttled response and the computed wait
func (c *client) logThrottledAttempt(requestID string, statusCode, attempt, maxRetries int, wait time.Duration) {
	c.logger.Warn().
		Str("request_id", requestID).
		Int("status", statusCode).
		Int("attempt", attempt).
		Int("max_retries", maxRetries).
		Int64("wait_ms", wait.Milliseconds()).
		Msg("Throttled by server, waiting before retry")
}

// logResponse logs the incoming response
func (c *client) logResponse(requestID string, resp *Response) {
	c.logger.Info().
		Str("request_id", requestID).
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Int("attempts", resp.Stats.Attempts).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Msg("REST client response")
}
