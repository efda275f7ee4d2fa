package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SscSPs/invoice_flow_app/internal/app"
	"github.com/SscSPs/invoice_flow_app/internal/handlers"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
	"github.com/SscSPs/invoice_flow_app/pkg/database"
)

// @title Invoice Flow API
// @version 1.0
// @description Invoices, clients, payments and revenue reports for small businesses.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
		logger.Error("Database migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rt, err := app.Bootstrap(context.Background(), cfg, logger, app.Options{QueueEmails: true})
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rt.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, rt.Services)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	} else if cfg.IsProduction {
		c.AllowOriginFunc = func(string) bool { return false }
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	c.MaxAge = 12 * time.Hour
	return c
}
