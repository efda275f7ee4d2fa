package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis backs the report cache, the job queue and the sweep lock.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration

	InvoiceNumberPrefix string
	AppBaseURL          string

	// Outgoing email
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	// Payment gateway
	StripeSecretKey string
	StripeAPIBase   string
	GatewayTimeout  time.Duration

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Background worker
	SweepCron        string
	OverdueCron      string
	SweepConcurrency int

	RateLimit          string   // ulule formatted, e.g. "100-M"
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "invoice-flow-app")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REPORT_CACHE_TTL", "10m")
	viper.SetDefault("INVOICE_NUMBER_PREFIX", "INV")
	viper.SetDefault("APP_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("FROM_EMAIL", "invoices@example.com")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_API_BASE", "https://api.stripe.com/v1")
	viper.SetDefault("GATEWAY_TIMEOUT", "10s")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "postmessage")
	viper.SetDefault("SWEEP_CRON", "0 * * * *")
	viper.SetDefault("OVERDUE_CRON", "30 0 * * *")
	viper.SetDefault("SWEEP_CONCURRENCY", 4)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryDuration := durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "invoice-flow-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Report caching and queued emails are disabled; the worker will not start.")
	}
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.ReportCacheTTL = durationOrDefault("REPORT_CACHE_TTL", 10*time.Minute)

	cfg.InvoiceNumberPrefix = viper.GetString("INVOICE_NUMBER_PREFIX")
	if cfg.InvoiceNumberPrefix == "" {
		cfg.InvoiceNumberPrefix = "INV"
	}
	cfg.AppBaseURL = strings.TrimRight(viper.GetString("APP_BASE_URL"), "/")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.FromEmail = viper.GetString("FROM_EMAIL")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Invoice emails will fail to deliver.")
	}

	cfg.StripeSecretKey = viper.GetString("STRIPE_SECRET_KEY")
	cfg.StripeAPIBase = strings.TrimRight(viper.GetString("STRIPE_API_BASE"), "/")
	cfg.GatewayTimeout = durationOrDefault("GATEWAY_TIMEOUT", 10*time.Second)
	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set. Online checkout will not function.")
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in is disabled.")
	} else if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google code exchange will be rejected.")
	}

	cfg.SweepCron = viper.GetString("SWEEP_CRON")
	cfg.OverdueCron = viper.GetString("OVERDUE_CRON")
	cfg.SweepConcurrency = viper.GetInt("SWEEP_CONCURRENCY")
	if cfg.SweepConcurrency <= 0 {
		cfg.SweepConcurrency = 4
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
