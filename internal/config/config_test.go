package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fa", cfg.I18n.DefaultLocale)
	assert.Equal(t, 7, cfg.Catalog.NewProductDays)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.SellerCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, RateTier{PerMinute: 30, Burst: 10}, cfg.RateLimit.Write)
	assert.Equal(t, 3*time.Minute, cfg.RateLimit.IdleTTL)
	assert.Empty(t, cfg.JWT.Issuer)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "TRUE")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("CATALOG_DEFAULT_LIMIT", "20")
	t.Setenv("CATALOG_SELLER_CACHE_TTL", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://bazaar.af, https://admin.bazaar.af,")
	t.Setenv("RATE_UPLOAD_PER_MIN", "4")
	t.Setenv("RATE_UPLOAD_BURST", "2")
	t.Setenv("JWT_ISSUER", "https://auth.bazaar.af")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 20, cfg.Catalog.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.Catalog.SellerCacheTTL)
	assert.Equal(t, []string{"https://bazaar.af", "https://admin.bazaar.af"}, cfg.Frontend.AllowedOrigins)
	assert.Equal(t, RateTier{PerMinute: 4, Burst: 2}, cfg.RateLimit.Upload)
	assert.Equal(t, "https://auth.bazaar.af", cfg.JWT.Issuer)
}

var testRates = RateLimitConfig{
	General: RateTier{PerMinute: 600, Burst: 20},
	Write:   RateTier{PerMinute: 30, Burst: 10},
	Upload:  RateTier{PerMinute: 10, Burst: 10},
}

func TestValidate(t *testing.T) {
	t.Run("production rejects default secret", func(t *testing.T) {
		cfg := &Config{
			Environment: "production",
			JWT:         JWTConfig{SecretKey: defaultJWTSecret},
			Database:    DatabaseConfig{Password: "secret"},
			Catalog:     CatalogConfig{DefaultLimit: 10, MaxLimit: 10},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires database password", func(t *testing.T) {
		cfg := &Config{
			Environment: "production",
			JWT:         JWTConfig{SecretKey: "rotated"},
			Catalog:     CatalogConfig{DefaultLimit: 10, MaxLimit: 10},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("limits must be ordered", func(t *testing.T) {
		cfg := &Config{
			Environment: "development",
			Catalog:     CatalogConfig{DefaultLimit: 50, MaxLimit: 10},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rate tiers must allow requests", func(t *testing.T) {
		rates := testRates
		rates.Upload.Burst = 0
		cfg := &Config{
			Environment: "development",
			Catalog:     CatalogConfig{DefaultLimit: 50, MaxLimit: 200},
			RateLimit:   rates,
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("development defaults pass", func(t *testing.T) {
		cfg := &Config{
			Environment: "development",
			JWT:         JWTConfig{SecretKey: defaultJWTSecret},
			Catalog:     CatalogConfig{DefaultLimit: 50, MaxLimit: 200},
			RateLimit:   testRates,
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "bazaar", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bazaar sslmode=disable TimeZone=UTC", d.DSN())
}
