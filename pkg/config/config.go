// Package config loads server configuration from an optional YAML file and
// the TC_ environment, with env taking precedence over the file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TC_"

type Config struct {
	SOA       SOAConfig       `koanf:"soa"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Server    ServerConfig    `koanf:"server"`
}

type SOAConfig struct {
	// Endpoint is the base URL of the Teamcenter SOA gateway,
	// e.g. https://tc.example.com/tc/JsonRestServices.
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
	// Mock serves from the embedded in-memory backend instead of Endpoint.
	Mock bool `koanf:"mock"`
	// Headers lists response header names checked for a session token,
	// in priority order.
	Headers []string `koanf:"headers"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
	// Endpoint is the OTLP gRPC collector address. Empty means stdout
	// exporters only.
	Endpoint string `koanf:"endpoint"`
}

type ServerConfig struct {
	Name      string `koanf:"name"`
	Transport string `koanf:"transport"` // stdio, http
	Address   string `koanf:"address"`   // http transport only
}

// Load reads path (when non-empty) and the TC_ environment into a Config.
// Example: TC_SOA_ENDPOINT maps to soa.endpoint.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("soa.timeout", "60s")
	k.Set("soa.mock", false)
	k.Set("soa.headers", []string{"Authorization", "X-Siemens-Session-ID", "X-Tc-Session"})
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.enabled", false)
	k.Set("server.name", "teamcenter-mcp-server")
	k.Set("server.transport", "stdio")
	k.Set("server.address", ":8080")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// 2. Load from ENV (TC_SOA_ENDPOINT -> soa.endpoint)
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations a running server needs.
func (c *Config) Validate() error {
	if !c.SOA.Mock && c.SOA.Endpoint == "" {
		return fmt.Errorf("soa.endpoint is required unless soa.mock is set")
	}
	if c.SOA.Timeout <= 0 {
		return fmt.Errorf("soa.timeout must be positive, got %s", c.SOA.Timeout)
	}
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	if c.Server.Transport == "http" && c.Server.Address == "" {
		return fmt.Errorf("server.address is required for the http transport")
	}
	return nil
}
