package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-throttle/throttle"
)

// Client defines the REST client interface for making HTTP requests
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Doer executes a single HTTP request. *net/http.Client satisfies it.
// Transport-level failures must be returned as errors; HTTP responses of any
// status are returned as data.
type Doer interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// Request represents an HTTP request with all necessary data
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
	Auth    *BasicAuth
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
	// Attempts is the number of HTTP calls made for this logical request,
	// including the final one.
	Attempts int
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Config holds the REST client configuration
type Config struct {
	Timeout        time.Duration
	Throttle       throttle.Config
	BasicAuth      *BasicAuth
	DefaultHeaders map[string]string
	// Clock reports the current time for throttle header arithmetic
	// (default: time.Now)
	Clock func() time.Time
	// NewRequestID generates a correlation ID for each logical request
	// (default: uuid)
	NewRequestID func() string
}
