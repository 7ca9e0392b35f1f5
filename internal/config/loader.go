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
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SKUDD_CONFIG is set
//  3. env (prefix SKUDD_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("SKUDD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKUDD_ADDR, SKUDD_HOME_TEAM, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SKUDD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "skudd_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.FrameInset < 0:
		return fmt.Errorf("%w: frame_inset must not be negative", ErrInvalidConfig)
	case cfg.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch cfg.AuditSink {
	case "none", "redis", "webhook":
	default:
		return fmt.Errorf("%w: unknown audit_sink %q", ErrInvalidConfig, cfg.AuditSink)
	}
	if cfg.AuditSink == "webhook" && cfg.WebhookURL == "" {
		return fmt.Errorf("%w: webhook_url required for webhook audit sink", ErrInvalidConfig)
	}
	return nil
}
