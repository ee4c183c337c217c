package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"LMS_APP_NAME":           os.Getenv("LMS_APP_NAME"),
		"LMS_APP_ENV":            os.Getenv("LMS_APP_ENV"),
		"LMS_APP_PORT":           os.Getenv("LMS_APP_PORT"),
		"LMS_DATABASE_HOST":      os.Getenv("LMS_DATABASE_HOST"),
		"LMS_DATABASE_PORT":      os.Getenv("LMS_DATABASE_PORT"),
		"LMS_DATABASE_PASSWORD":  os.Getenv("LMS_DATABASE_PASSWORD"),
		"LMS_JWT_SECRET":         os.Getenv("LMS_JWT_SECRET"),
		"LMS_TENANT_BASE_DOMAIN": os.Getenv("LMS_TENANT_BASE_DOMAIN"),
		"LMS_REDIS_ENABLED":      os.Getenv("LMS_REDIS_ENABLED"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "lifemedical-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "lifemedical", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "lifemedical-backend", cfg.JWT.Issuer)
		assert.Equal(t, 200*time.Millisecond, cfg.Log.SlowQueryThreshold)
		assert.Equal(t, "localhost", cfg.Tenant.BaseDomain)
		assert.Equal(t, []string{"www", "api", "app", "admin"}, cfg.Tenant.ReservedLabels)
		assert.Equal(t, "stub", cfg.Storage.Provider)
		assert.Equal(t, "https://accept.paymob.com", cfg.Paymob.BaseURL)
		assert.False(t, cfg.Redis.Enabled)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "CORS origins must be opt-in")
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("LMS_APP_NAME", "pharmacy-api")
		os.Setenv("LMS_APP_PORT", "9090")
		os.Setenv("LMS_DATABASE_HOST", "db.internal")
		os.Setenv("LMS_TENANT_BASE_DOMAIN", "lifemedical.app")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pharmacy-api", cfg.App.Name)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "lifemedical.app", cfg.Tenant.BaseDomain)
	})

	t.Run("production requires hardened settings", func(t *testing.T) {
		clearEnv()
		os.Setenv("LMS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	production := func() *Config {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Tenant.BaseDomain = "lifemedical.app"
		cfg.Paymob.HMACSecret = "hmac-secret"
		cfg.Storage.Provider = "s3"
		cfg.Seed.AdminPassword = "admin-pass"
		return cfg
	}

	t.Run("development config passes with defaults", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("hardened production config passes", func(t *testing.T) {
		assert.NoError(t, production().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 25
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production rejects short JWT secret", func(t *testing.T) {
		cfg := production()
		cfg.JWT.Secret = "short"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := production()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("production rejects disabled SSL", func(t *testing.T) {
		cfg := production()
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects stub storage", func(t *testing.T) {
		cfg := production()
		cfg.Storage.Provider = "stub"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.provider")
	})

	t.Run("production requires Paymob HMAC secret", func(t *testing.T) {
		cfg := production()
		cfg.Paymob.HMACSecret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a real base domain", func(t *testing.T) {
		cfg := production()
		cfg.Tenant.BaseDomain = "localhost"
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:word/1",
		DBName:   "lifemedical",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "lifemedical")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters in the password are escaped
	assert.NotContains(t, dsn, "p@ss:word/1")
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
