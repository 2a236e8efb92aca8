package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the YAML file consulted by Load when present.
const DefaultConfigFile = "config.yaml"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. YAML configuration file
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFromFile(DefaultConfigFile)
}

// LoadFromFile behaves like Load but reads the named YAML file instead of
// config.yaml. A missing file is not an error; defaults and environment
// variables still apply.
func LoadFromFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// YAML file is optional
	_ = k.Load(file.Provider(path), yaml.Parser())

	// Load environment variables (highest priority)
	if err := k.Load(envprovider.Provider("THROTTLE_", ".", func(s string) string {
		// Convert THROTTLE_CLIENT_TIMEOUT to client.timeout for koanf
		s = strings.TrimPrefix(s, "THROTTLE_")
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Out-of-range throttle values clamp rather than fail
	cfg.Client.Throttle = cfg.Client.Throttle.Normalized()

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"log.level":  "info",
		"log.pretty": false,

		"client.timeout":          "30s",
		"client.throttle.codes":   []string{"429"},
		"client.throttle.wait":    "5s",
		"client.throttle.jitter":  25,
		"client.throttle.retries": 5,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
