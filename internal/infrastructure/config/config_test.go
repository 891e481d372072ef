package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "oilmart-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "oilmart", cfg.Database.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 10, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, "noop", cfg.Payment.Gateway)
	assert.Equal(t, "stub", cfg.Storage.Provider)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.Order.PendingExpiration)
	assert.Equal(t, 100, cfg.Order.ExpiryBatchSize)
	assert.Equal(t, "oilmart.orders", cfg.Kafka.Topic)
	// CORS origins must stay empty until explicitly configured
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate_ConnectionPool(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidate_PaymentGateway(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	cfg.Payment.Gateway = "stripe"
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment.gateway")
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-production-secret-that-is-long-enough!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true
		cfg.Payment.Gateway = "razorpay"
		cfg.Payment.KeyID = "rzp_test_key"
		cfg.Payment.KeySecret = "rzp_test_secret"
		cfg.Swagger.Enabled = false
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "too-short"
		assert.Error(t, cfg.validate())
	})

	t.Run("sslmode disable rejected", func(t *testing.T) {
		cfg := base()
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())
	})

	t.Run("wildcard cors rejected", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})

	t.Run("noop gateway rejected", func(t *testing.T) {
		cfg := base()
		cfg.Payment.Gateway = "noop"
		assert.Error(t, cfg.validate())
	})

	t.Run("razorpay without credentials rejected", func(t *testing.T) {
		cfg := base()
		cfg.Payment.KeySecret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("unprotected swagger rejected", func(t *testing.T) {
		cfg := base()
		cfg.Swagger.Enabled = true
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "oilmart",
		Password: "p@ss:word/x",
		DBName:   "oilmart",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss:word/x")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", r.Addr())
}
