// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	AWS         AWSConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	Catalog     CatalogConfig
	RateLimit   RateLimitConfig
}

// RateTier is a token bucket: PerMinute requests on average with bursts of
// up to Burst.
type RateTier struct {
	PerMinute int
	Burst     int
}

// RateLimitConfig sets the per-client limits of each route tier. Buckets
// idle for IdleTTL are dropped.
type RateLimitConfig struct {
	General RateTier
	Write   RateTier
	Upload  RateTier
	IdleTTL time.Duration
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// JWTConfig holds the signing secret shared with the hosted auth provider.
// Tokens are issued there; this service only verifies them. A non-empty
// Issuer is enforced on every token.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

type CatalogConfig struct {
	DefaultLimit   int
	MaxLimit       int
	NewProductDays int
	SellerCacheTTL time.Duration
	MaxImageSizeMB int
	MaxVideoSizeMB int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "bazaar"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "bazaar-product-media"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "fa"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Catalog: CatalogConfig{
			DefaultLimit:   getEnvAsInt("CATALOG_DEFAULT_LIMIT", 50),
			MaxLimit:       getEnvAsInt("CATALOG_MAX_LIMIT", 200),
			NewProductDays: getEnvAsInt("CATALOG_NEW_PRODUCT_DAYS", 7),
			SellerCacheTTL: time.Duration(getEnvAsInt("CATALOG_SELLER_CACHE_TTL", 300)) * time.Second,
			MaxImageSizeMB: getEnvAsInt("MEDIA_MAX_IMAGE_MB", 10),
			MaxVideoSizeMB: getEnvAsInt("MEDIA_MAX_VIDEO_MB", 100),
		},
		RateLimit: RateLimitConfig{
			General: getEnvAsTier("RATE_GENERAL", RateTier{PerMinute: 600, Burst: 20}),
			Write:   getEnvAsTier("RATE_WRITE", RateTier{PerMinute: 30, Burst: 10}),
			Upload:  getEnvAsTier("RATE_UPLOAD", RateTier{PerMinute: 10, Burst: 10}),
			IdleTTL: time.Duration(getEnvAsInt("RATE_IDLE_TTL", 180)) * time.Second,
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Catalog.DefaultLimit <= 0 || c.Catalog.MaxLimit < c.Catalog.DefaultLimit {
		return fmt.Errorf("catalog limits are invalid: default %d, max %d", c.Catalog.DefaultLimit, c.Catalog.MaxLimit)
	}

	tiers := map[string]RateTier{"general": c.RateLimit.General, "write": c.RateLimit.Write, "upload": c.RateLimit.Upload}
	for name, tier := range tiers {
		if tier.PerMinute <= 0 || tier.Burst <= 0 {
			return fmt.Errorf("%s rate limit is invalid: %d/min, burst %d", name, tier.PerMinute, tier.Burst)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// getEnvAsTier reads <prefix>_PER_MIN and <prefix>_BURST.
func getEnvAsTier(prefix string, defaultValue RateTier) RateTier {
	return RateTier{
		PerMinute: getEnvAsInt(prefix+"_PER_MIN", defaultValue.PerMinute),
		Burst:     getEnvAsInt(prefix+"_BURST", defaultValue.Burst),
	}
}
