package throttle

import (
	"strconv"
	"time"
)

const (
	// MaxWait is the global safety cap applied to every computed wait
	// regardless of which header produced it.
	MaxWait = 5 * time.Minute

	// DefaultWait is used when no recognized header yields a usable value.
	DefaultWait = 5 * time.Second

	// DefaultJitterPercent is the default jitter applied to computed waits.
	DefaultJitterPercent = 25

	// DefaultMaxRetries is the default number of throttled attempts before
	// giving up.
	DefaultMaxRetries = 5
)

// DefaultCodes returns the status codes treated as throttling responses by default.
func DefaultCodes() []string {
	return []string{"429"}
}

// Config describes the retry policy applied to throttling responses.
type Config struct {
	// Codes is the set of status codes, as decimal strings, that classify a
	// response as throttled.
	Codes []string `koanf:"codes"`

	// DefaultWait is the pause used when no header yields a usable value.
	DefaultWait time.Duration `koanf:"wait"`

	// JitterPercent randomizes each wait within ±JitterPercent of its value.
	JitterPercent int `koanf:"jitter"`

	// MaxRetries is the number of throttled attempts permitted before the
	// request fails with a throttle-exhausted error.
	MaxRetries int `koanf:"retries"`
}

// DefaultConfig returns the default throttle policy.
func DefaultConfig() Config {
	return Config{
		Codes:         DefaultCodes(),
		DefaultWait:   DefaultWait,
		JitterPercent: DefaultJitterPercent,
		MaxRetries:    DefaultMaxRetries,
	}
}

// Normalized returns a copy of the config with out-of-range values clamped:
// jitter to [0, 100], retries to at least 1, and empty codes or non-positive
// waits replaced with the defaults.
func (c Config) Normalized() Config {
	if len(c.Codes) == 0 {
		c.Codes = DefaultCodes()
	}
	if c.DefaultWait <= 0 {
		c.DefaultWait = DefaultWait
	}
	if c.JitterPercent < 0 {
		c.JitterPercent = 0
	}
	if c.JitterPercent > 100 {
		c.JitterPercent = 100
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 1
	}
	return c
}

// IsThrottleCode reports whether the status code is classified as throttling.
func (c Config) IsThrottleCode(statusCode int) bool {
	code := strconv.Itoa(statusCode)
	for _, candidate := range c.Codes {
		if candidate == code {
			return true
		}
	}
	return false
}
