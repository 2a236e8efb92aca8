// Package config loads go-throttle client configuration from defaults,
// an optional YAML file, and environment variables, in increasing priority.
package config

import (
	"time"

	"github.com/gaborage/go-throttle/throttle"
)

// Config is the root configuration for the throttle-aware client.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Client ClientConfig `koanf:"client"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// ClientConfig controls the HTTP client and its throttle policy.
type ClientConfig struct {
	Timeout  time.Duration   `koanf:"timeout"`
	Throttle throttle.Config `koanf:"throttle"`
}
