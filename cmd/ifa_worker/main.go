package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bsm/redislock"
	"github.com/hibiken/asynq"

	"github.com/SscSPs/invoice_flow_app/internal/app"
	"github.com/SscSPs/invoice_flow_app/internal/jobs"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))
	slog.SetDefault(logger)

	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required to run the worker")
		os.Exit(1)
	}

	// The worker delivers emails itself, so its services never enqueue.
	rt, err := app.Bootstrap(ctx, cfg, logger, app.Options{QueueEmails: false})
	if err != nil {
		logger.Error("Failed to initialize worker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rt.Close()
	if rt.Redis == nil {
		logger.Error("Redis unavailable, worker cannot start")
		os.Exit(1)
	}

	sweeps := jobs.NewSweepJob(rt.Services.Recurring, rt.Services.Invoice, redislock.New(rt.Redis), logger)
	emails := jobs.NewEmailJob(rt.Services.Invoice, rt.Mailer, logger)

	sweepTask, err := jobs.NewSweepTask(jobs.TaskRecurringSweep, "cron")
	if err != nil {
		logger.Error("build recurring sweep task", slog.String("error", err.Error()))
		os.Exit(1)
	}
	overdueTask, err := jobs.NewSweepTask(jobs.TaskMarkOverdue, "cron")
	if err != nil {
		logger.Error("build overdue task", slog.String("error", err.Error()))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   app.RedisOpt(cfg),
		Logger:      logger,
		Concurrency: cfg.SweepConcurrency + 1,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRecurringSweep, Handler: sweeps.HandleRecurringSweep},
			{Type: jobs.TaskMarkOverdue, Handler: sweeps.HandleMarkOverdue},
			{Type: jobs.TaskEmailInvoice, Handler: emails.Handle},
			{Type: jobs.TaskEmailReminder, Handler: emails.Handle},
			{Type: jobs.TaskEmailPayment, Handler: emails.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: cfg.OverdueCron, Task: overdueTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
