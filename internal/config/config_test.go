package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseValidConfig returns a fully-valid configuration object that callers
// can tweak inside table tests.
func baseValidConfig() Config {
	return Config{
		AppPort:              8080,
		AppEnv:               "development",
		BcryptCost:           12,
		RateLimitMax:         100,
		RateLimitWindowMin:   15,
		LogLevel:             "info",
		LogFormat:            "json",
		MongoURI:             "mongodb://localhost:27017",
		MongoDBName:          "test",
		JWTSecret:            "this-is-a-super-secret-jwt-key-with-32-plus-chars",
		JWTExpiresMinutes:    90 * 24 * 60,
		CookieExpiresMinutes: 90 * 24 * 60,
		ResetTokenMinutes:    10,
		SMTPHost:             "localhost",
		SMTPPort:             1025,
		EmailFrom:            "TrailBook <hello@trailbook.dev>",
	}
}

// clearConfigEnvVars removes every environment variable that the Config loader
// consumes so each test starts with a clean slate.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"APP_PORT",
		"APP_ENV",
		"BCRYPT_COST",
		"RATE_LIMIT_MAX",
		"RATE_LIMIT_WINDOW_MIN",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"MONGO_URI",
		"MONGO_DB_NAME",
		"JWT_SECRET",
		"JWT_EXPIRES_MINUTES",
		"COOKIE_EXPIRES_MINUTES",
		"RESET_TOKEN_MINUTES",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USER",
		"SMTP_PASS",
		"EMAIL_FROM",
		"ROUTE_METRICS_ENABLED",
		"REQUEST_LOGGING_ENABLED",
	} {
		if err := os.Unsetenv(k); err != nil {
			t.Logf("warning: failed to unset %s: %v", k, err)
		}
	}
}

func TestConfigLoadDefaults(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15, cfg.RateLimitWindowMin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "trailbook", cfg.MongoDBName)
	assert.Equal(t, 90*24*60, cfg.JWTExpiresMinutes)
	assert.Equal(t, 10, cfg.ResetTokenMinutes)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.RouteMetricsEnabled)
	assert.True(t, cfg.RequestLoggingEnabled)
}

func TestConfigLoadWithOverride(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()

	t.Setenv("APP_PORT", "9999")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.AppPort)
	assert.True(t, cfg.IsProduction())
}

func TestConfigLoadCaches(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()

	first, err := Load()
	require.NoError(t, err)

	// A changed env var must not affect the cached config.
	t.Setenv("APP_PORT", "12345")

	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.AppPort = 0 },
			wantErr: "APP_PORT",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.AppEnv = "staging" },
			wantErr: "APP_ENV",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.BcryptCost = 4 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.BcryptCost = 31 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "rate limit disabled",
			mutate:  func(c *Config) { c.RateLimitMax = 0 },
			wantErr: "RATE_LIMIT_MAX",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.MongoURI = "" },
			wantErr: "MONGO_URI",
		},
		{
			name:    "zero reset token ttl",
			mutate:  func(c *Config) { c.ResetTokenMinutes = 0 },
			wantErr: "RESET_TOKEN_MINUTES",
		},
		{
			name:    "missing smtp host",
			mutate:  func(c *Config) { c.SMTPHost = "" },
			wantErr: "SMTP_HOST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			tt.mutate(&cfg)

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
