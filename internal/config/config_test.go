package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		HTTPPort:            8080,
		DatabaseURL:         "postgres://localhost/yamdb",
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:      time.Hour,
		ConfirmationCodeTTL: time.Hour,
		MailBackend:         "log",
		AuthRateLimit:       1,
		AuthRateBurst:       5,
		AuthRateWindow:      time.Minute,
		PageSizeDefault:     10,
		PageSizeMax:         100,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/yamdb")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.ConfirmationCodeTTL)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "log", cfg.MailBackend)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"bad port", func(c *Config) { c.HTTPPort = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
		{"bad mail backend", func(c *Config) { c.MailBackend = "carrier-pigeon" }, "MAIL_BACKEND"},
		{"bad page size", func(c *Config) { c.PageSizeMax = 5 }, "PAGE_SIZE_DEFAULT"},
		{"smtp without host", func(c *Config) { c.MailBackend, c.SMTPHost = "smtp", "" }, "SMTP_HOST"},
		{"zero rate limit", func(c *Config) { c.AuthRateLimit = 0 }, "AUTH_RATE_LIMIT"},
		{"negative rate limit", func(c *Config) { c.AuthRateLimit = -1 }, "AUTH_RATE_LIMIT"},
		{"zero burst", func(c *Config) { c.AuthRateBurst = 0 }, "AUTH_RATE_BURST"},
		{"zero window", func(c *Config) { c.AuthRateWindow = 0 }, "AUTH_RATE_WINDOW"},
		{"negative window", func(c *Config) { c.AuthRateWindow = -time.Second }, "AUTH_RATE_WINDOW"},
		{"bad quiet hours", func(c *Config) { c.QuietHours = "25-3" }, "QUIET_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuietHoursRange(t *testing.T) {
	cfg := validConfig()
	cfg.QuietHours = " 5 - 6 "

	from, to, err := cfg.QuietHoursRange()
	require.NoError(t, err)
	assert.Equal(t, 5, from)
	assert.Equal(t, 6, to)
}
