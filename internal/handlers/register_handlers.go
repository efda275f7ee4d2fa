package handlers

import (
	"log/slog"

	"github.com/SscSPs/invoice_flow_app/cmd/docs"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, services.User, services.Token, services.GoogleAuth)

	public := r.Group("")
	if rl := rateLimiter(cfg, middleware.ByClientIP); rl != nil {
		public.Use(rl)
	}
	registerPublicRoutes(public, services.Invoice, services.Payment)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	if rl := rateLimiter(cfg, middleware.ByOwner); rl != nil {
		v1.Use(rl)
	}

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, services.User)
	registerClientRoutes(v1, services.Client)
	registerInvoiceRoutes(v1, services)
	registerReportingRoutes(v1, services.Reporting)
}

// rateLimiter builds a limiter from RATE_LIMIT bucketed by key. An empty or invalid rate disables it.
// Each call gets its own store, so public and API traffic are counted separately.
func rateLimiter(cfg *config.Config, key middleware.KeyFunc) gin.HandlerFunc {
	if cfg.RateLimit == "" {
		return nil
	}
	l, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		return nil
	}
	return middleware.RateLimit(l, key)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
