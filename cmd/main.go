package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/skudd/internal/adapters/audit"
	"github.com/okian/skudd/internal/adapters/http/api"
	"github.com/okian/skudd/internal/adapters/ws"
	app "github.com/okian/skudd/internal/app"
	"github.com/okian/skudd/internal/config"
	"github.com/okian/skudd/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	svc := app.New(
		app.WithLogger(log),
		app.WithTeams(cfg.HomeTeam, cfg.AwayTeam),
		app.WithFrameInset(cfg.FrameInset),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithAuditSink(buildAuditSink(ctx, cfg, log)),
		app.WithAuditQueue(cfg.AuditQueueSize, cfg.AuditWorkerCount),
		app.WithHub(hub),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)
	mux.HandleFunc("/ws", ws.NewHandler(hub, log.Named("ws")).HandleWS)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(context.Background(), "HTTP shutdown failed", logger.Error(err))
	}
}

// buildAuditSink maps config onto the audit collaborator. Failures here
// fall back to the noop sink; audit must never block recording.
func buildAuditSink(ctx context.Context, cfg *config.Config, log logger.Logger) audit.Sink {
	switch cfg.AuditSink {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis audit sink unavailable, auditing disabled",
				logger.String("addr", cfg.RedisAddr),
				logger.Error(err),
			)
			return audit.NoopSink{}
		}
		return audit.NewRedisSink(client, cfg.RedisStream)
	case "webhook":
		return audit.NewWebhookSink(cfg.WebhookURL)
	default:
		return audit.NoopSink{}
	}
}
