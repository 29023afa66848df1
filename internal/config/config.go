package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" envDefault:"development"`

	// HTTP
	HTTPHost  string `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	HTTPPort  int    `env:"HTTP_PORT" envDefault:"8080"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/v1"`

	// Database
	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	MigrationsOnStart bool          `env:"MIGRATIONS_ON_START" envDefault:"false"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	// Authentication
	JWTSecret           string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// Mail
	MailBackend  string `env:"MAIL_BACKEND" envDefault:"log"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"25"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"noreply@yamdb.local"`

	// Throttling. REDIS_URL switches the auth limiter to a shared fixed window.
	RedisURL       string        `env:"REDIS_URL"`
	AuthRateLimit  float64       `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst  int           `env:"AUTH_RATE_BURST" envDefault:"5"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
	QuietHours     string        `env:"QUIET_HOURS"`

	// Pagination
	PageSizeDefault int `env:"PAGE_SIZE_DEFAULT" envDefault:"10"`
	PageSizeMax     int `env:"PAGE_SIZE_MAX" envDefault:"100"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig loads configuration from .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	// a missing .env is fine, real deployments use the environment directly
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	validMailBackends := []string{"smtp", "log"}
	if !contains(validMailBackends, c.MailBackend) {
		errors = append(errors, fmt.Sprintf("MAIL_BACKEND must be one of: %s", strings.Join(validMailBackends, ", ")))
	}

	if c.MailBackend == "smtp" && c.SMTPHost == "" {
		errors = append(errors, "SMTP_HOST is required when MAIL_BACKEND is smtp")
	}

	// HMAC keys for tokens and confirmation codes are derived from this secret
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.AccessTokenTTL <= 0 {
		errors = append(errors, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.ConfirmationCodeTTL <= 0 {
		errors = append(errors, "CONFIRMATION_CODE_TTL must be positive")
	}

	if c.AuthRateLimit <= 0 {
		errors = append(errors, "AUTH_RATE_LIMIT must be positive")
	}
	if c.AuthRateBurst < 1 {
		errors = append(errors, "AUTH_RATE_BURST must be at least 1")
	}
	if c.AuthRateWindow <= 0 {
		errors = append(errors, "AUTH_RATE_WINDOW must be positive")
	}

	if c.PageSizeDefault < 1 || c.PageSizeMax < c.PageSizeDefault {
		errors = append(errors, "PAGE_SIZE_DEFAULT must be >= 1 and <= PAGE_SIZE_MAX")
	}

	if c.QuietHours != "" {
		if _, _, err := c.QuietHoursRange(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// QuietHoursRange parses QUIET_HOURS ("5-6") into an inclusive hour range.
func (c *Config) QuietHoursRange() (from, to int, err error) {
	parts := strings.SplitN(c.QuietHours, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("QUIET_HOURS must look like FROM-TO, got %q", c.QuietHours)
	}
	from, errFrom := strconv.Atoi(strings.TrimSpace(parts[0]))
	to, errTo := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errFrom != nil || errTo != nil || from < 0 || from > 23 || to < 0 || to > 23 {
		return 0, 0, fmt.Errorf("QUIET_HOURS hours must be between 0 and 23, got %q", c.QuietHours)
	}
	return from, to, nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
