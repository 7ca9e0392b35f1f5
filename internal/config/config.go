// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) returning a Config with defaults.
// - Layer optional file and env on top via Load.
// - External errors are wrapped via this package's sentinels.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// HomeTeam and AwayTeam name the two sides of the session.
	HomeTeam string `koanf:"home_team"`
	AwayTeam string `koanf:"away_team"`

	// FrameInset is the goal-frame border thickness used by the position
	// mapper, in the same units as incoming rectangles.
	FrameInset float64 `koanf:"frame_inset"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DedupeSize bounds the request-idempotency guard.
	DedupeSize int `koanf:"dedupe_size"`

	// AuditSink selects the audit collaborator: none, redis or webhook.
	AuditSink string `koanf:"audit_sink"`

	// AuditQueueSize bounds the in-memory audit queue.
	AuditQueueSize int `koanf:"audit_queue_size"`

	// AuditWorkerCount sets the number of audit delivery workers.
	AuditWorkerCount int `koanf:"audit_worker_count"`

	// RedisAddr and RedisStream configure the redis audit sink.
	RedisAddr   string `koanf:"redis_addr"`
	RedisStream string `koanf:"redis_stream"`

	// WebhookURL configures the webhook audit sink.
	WebhookURL string `koanf:"webhook_url"`
}

// New creates a Config with defaults. Context is accepted first per the
// project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		HomeTeam:            "Hjemmelag",
		AwayTeam:            "Bortelag",
		FrameInset:          12,
		MaxLeaderboardLimit: 100,
		DedupeSize:          10_000,
		AuditSink:           "none",
		AuditQueueSize:      1024,
		AuditWorkerCount:    1,
		RedisAddr:           "localhost:6379",
		RedisStream:         "skudd.audit",
	}
}
