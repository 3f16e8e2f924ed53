package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if REFASSIGN_CONFIG is set
//  3. env (prefix REFASSIGN_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("REFASSIGN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REFASSIGN_ADDR, REFASSIGN_DATABASE_DSN, ...
	// Map env keys like REFASSIGN_PEER_TIMEOUT_MS -> peer_timeout_ms (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("REFASSIGN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "refassign_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.PeerTimeoutMS <= 0:
		return nil, fmt.Errorf("%w: peer_timeout_ms must be positive", ErrInvalidConfig)
	case cfg.ProbeTimeoutMS <= 0:
		return nil, fmt.Errorf("%w: probe_timeout_ms must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
