package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "test-password")
	t.Setenv("EMAIL_HOST", "mock")
}

func TestLoadProductionConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "maintenance@raf-advanced.sa", cfg.Maintenance.RecipientEmail)
	assert.Equal(t, 5*time.Second, cfg.Maintenance.StoreTimeout)
	assert.Equal(t, "rafmaint:", cfg.Cache.RedisPrefix)
	assert.Equal(t, "X-API-Key", cfg.Security.AdminAPIKeyHeader)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadProductionConfig_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAINTENANCE_STORE_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Maintenance.StoreTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestValidateProductionConfig(t *testing.T) {
	valid := func() *ProductionConfig {
		return &ProductionConfig{
			Database: DatabaseConfig{
				Host: "localhost", Port: 5432, Name: "maintenance", User: "postgres", Password: "pw",
			},
			Server: ServerConfig{
				Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second,
			},
			Email: EmailConfig{Host: "mock"},
			SMS:   SMSConfig{ProviderDomain: "mock"},
			Maintenance: MaintenanceConfig{
				RecipientEmail: "maintenance@raf-advanced.sa",
				StoreTimeout:   5 * time.Second,
			},
			Logging: LoggingConfig{Level: "info"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateProductionConfig(valid()))
	})

	t.Run("missing db password", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Password = ""
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})

	t.Run("real smtp host requires credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Email.Host = "smtp.hostinger.com"
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EMAIL_USERNAME")
	})

	t.Run("non-positive store timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Maintenance.StoreTimeout = 0
		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAINTENANCE_STORE_TIMEOUT")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.Error(t, ValidateProductionConfig(cfg))
	})
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_BAD_INT", "not-a-number")

	assert.Equal(t, "hello", getEnvString("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnvString("TEST_MISSING", "fallback"))
	assert.Equal(t, 42, getEnvInt("TEST_INT", 7))
	assert.Equal(t, 7, getEnvInt("TEST_BAD_INT", 7))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DUR", time.Second))
}
