// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection and pool tuning settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDBMaxConns() int32
	GetDBMinConns() int32
	GetDBMaxConnLifetime() time.Duration
	GetDBMaxConnIdleTime() time.Duration
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AppConfig provides settings for building public-facing URLs.
type AppConfig interface {
	GetStorefrontBaseURL() string
}

// CacheConfig provides settings for the catalog result cache.
type CacheConfig interface {
	GetCatalogCacheTTL() time.Duration
	GetCatalogCacheCapacity() int
}

// FetchConfig provides settings for the catalog fetcher.
type FetchConfig interface {
	GetFeaturedFetchTimeout() time.Duration
	GetStandardFetchTimeout() time.Duration
	GetFetchAttempts() int
	GetCatalogPageSize() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketItemImages() string
	GetMinioBucketShopPosters() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the background task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ThemesConfig provides settings for the storefront theme registry.
type ThemesConfig interface {
	GetThemesManifestPath() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	DBMaxConns             int32
	DBMinConns             int32
	DBMaxConnLifetime      time.Duration
	DBMaxConnIdleTime      time.Duration
	JWTAccessSecret        string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	StorefrontBaseURL      string
	CatalogCacheTTL        time.Duration
	CatalogCacheCapacity   int
	FeaturedFetchTimeout   time.Duration
	StandardFetchTimeout   time.Duration
	FetchAttempts          int
	CatalogPageSize        int
	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinIOMaxFileSize       int64
	MinioBucketItemImages  string
	MinioBucketShopPosters string
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	ThemesManifestPath     string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string              { return c.DatabaseURL }
func (c *Config) GetDBMaxConns() int32                { return c.DBMaxConns }
func (c *Config) GetDBMinConns() int32                { return c.DBMinConns }
func (c *Config) GetDBMaxConnLifetime() time.Duration { return c.DBMaxConnLifetime }
func (c *Config) GetDBMaxConnIdleTime() time.Duration { return c.DBMaxConnIdleTime }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AppConfig implementation
func (c *Config) GetStorefrontBaseURL() string { return c.StorefrontBaseURL }

// CacheConfig implementation
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) GetCatalogCacheCapacity() int      { return c.CatalogCacheCapacity }

// FetchConfig implementation
func (c *Config) GetFeaturedFetchTimeout() time.Duration { return c.FeaturedFetchTimeout }
func (c *Config) GetStandardFetchTimeout() time.Duration { return c.StandardFetchTimeout }
func (c *Config) GetFetchAttempts() int                  { return c.FetchAttempts }
func (c *Config) GetCatalogPageSize() int                { return c.CatalogPageSize }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketItemImages() string {
	return c.MinioBucketItemImages
}
func (c *Config) GetMinioBucketShopPosters() string {
	return c.MinioBucketShopPosters
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// ThemesConfig implementation
func (c *Config) GetThemesManifestPath() string { return c.ThemesManifestPath }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DBMaxConns:             int32(mustInt(getEnv("DB_MAX_CONNS", "25"))),
		DBMinConns:             int32(mustInt(getEnv("DB_MIN_CONNS", "5"))),
		DBMaxConnLifetime:      mustDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h")),
		DBMaxConnIdleTime:      mustDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "30m")),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		StorefrontBaseURL:      getEnv("STOREFRONT_BASE_URL", "http://localhost:4200"),
		CatalogCacheTTL:        mustDuration(getEnv("CATALOG_CACHE_TTL", "5m")),
		CatalogCacheCapacity:   mustInt(getEnv("CATALOG_CACHE_CAPACITY", "50")),
		FeaturedFetchTimeout:   mustDuration(getEnv("CATALOG_FEATURED_TIMEOUT", "2s")),
		StandardFetchTimeout:   mustDuration(getEnv("CATALOG_STANDARD_TIMEOUT", "5s")),
		FetchAttempts:          mustInt(getEnv("CATALOG_FETCH_ATTEMPTS", "3")),
		CatalogPageSize:        mustInt(getEnv("CATALOG_PAGE_SIZE", "12")),
		MinIOEndpoint:          getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:       mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketItemImages:  getEnv("MINIO_BUCKET_ITEM_IMAGES", "item-images"),
		MinioBucketShopPosters: getEnv("MINIO_BUCKET_SHOP_POSTERS", "shop-posters"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "shopfront"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ThemesManifestPath:     getEnv("THEMES_MANIFEST", "themes.yaml"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if cfg.DBMaxConnLifetime <= 0 || cfg.DBMaxConnIdleTime <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONN_LIFETIME and DB_MAX_CONN_IDLE_TIME must be positive durations")
	}
	if cfg.CatalogCacheTTL <= 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL must be a positive duration")
	}
	if cfg.CatalogCacheCapacity < 1 {
		return nil, fmt.Errorf("CATALOG_CACHE_CAPACITY must be at least 1")
	}
	if cfg.FetchAttempts < 1 {
		return nil, fmt.Errorf("CATALOG_FETCH_ATTEMPTS must be at least 1")
	}
	if cfg.CatalogPageSize < 1 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
