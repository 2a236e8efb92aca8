package config

import (
	"fmt"
	"slices"
	"strconv"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// Validate checks the loaded configuration for values that cannot be clamped
// into a usable range. Returns an error describing the first failed check.
func Validate(cfg *Config) error {
	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	if err := validateClient(&cfg.Client); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	if !slices.Contains(validLogLevels, cfg.Level) {
		return fmt.Errorf("log level must be one of %v, got %q", validLogLevels, cfg.Level)
	}
	return nil
}

// validateClient requires a positive timeout and numeric throttle codes.
// Jitter, retries, and wait are clamped later rather than rejected.
func validateClient(cfg *ClientConfig) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}

	for _, code := range cfg.Throttle.Codes {
		n, err := strconv.Atoi(code)
		if err != nil || n < 100 || n > 599 {
			return fmt.Errorf("throttle code must be a valid HTTP status code, got %q", code)
		}
	}

	return nil
}
