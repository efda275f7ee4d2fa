// Package app wires configuration, storage and adapters into the service container
// shared by the API, the worker and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/invoice_flow_app/internal/cache"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/core/services"
	"github.com/SscSPs/invoice_flow_app/internal/gateway"
	"github.com/SscSPs/invoice_flow_app/internal/jobs"
	"github.com/SscSPs/invoice_flow_app/internal/notify"
	"github.com/SscSPs/invoice_flow_app/internal/oauth"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
	"github.com/SscSPs/invoice_flow_app/internal/render/pdf"
	"github.com/SscSPs/invoice_flow_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/invoice_flow_app/pkg/database"
)

// NewLogger returns the process logger: JSON in production, text with debug level otherwise.
func NewLogger(cfg *config.Config) *slog.Logger {
	if cfg != nil && cfg.IsProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Options tunes which integrations Bootstrap connects.
type Options struct {
	// QueueEmails routes notifications through the job queue when Redis is configured.
	QueueEmails bool
}

// Runtime holds the long-lived resources of a process.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Queue    *asynq.Client
	Mailer   *notify.EmailNotifier
	Services *portssvc.ServiceContainer
}

// RedisOpt returns the asynq connection options derived from the config.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

// Bootstrap connects to Postgres and, when configured, Redis, then builds the services.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Logger: logger}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}
	rt.Pool = pool
	logger.Info("Database connection pool established.")

	adapters := services.Adapters{
		Renderer: pdf.NewMarotoRenderer(),
	}

	rt.Mailer = notify.NewEmailNotifier(
		notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		cfg.FromEmail,
		cfg.AppBaseURL,
	)
	adapters.Notifier = rt.Mailer

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Redis only accelerates reports and email delivery; run without it.
			logger.Warn("Redis unavailable, continuing without cache and queue", slog.String("error", err.Error()))
		} else {
			rt.Redis = client
			adapters.Cache = cache.NewReportCache(client, cfg.ReportCacheTTL)
			if opts.QueueEmails {
				rt.Queue = jobs.NewClient(RedisOpt(cfg))
				adapters.Notifier = jobs.NewQueueNotifier(rt.Queue)
				logger.Info("Invoice emails are delivered through the job queue.")
			}
		}
	}

	if cfg.StripeSecretKey != "" {
		adapters.Gateway = gateway.NewStripeGateway(cfg.StripeAPIBase, cfg.StripeSecretKey, cfg.AppBaseURL, cfg.GatewayTimeout)
	}

	if cfg.GoogleClientID != "" {
		adapters.Google = oauth.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.GatewayTimeout)
	}

	rt.Services = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), adapters)
	return rt, nil
}

// Close releases every resource held by the runtime.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	if rt.Queue != nil {
		if err := rt.Queue.Close(); err != nil {
			rt.Logger.Warn("queue close", slog.String("error", err.Error()))
		}
	}
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Logger.Warn("redis close", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(rt.Pool)
}
