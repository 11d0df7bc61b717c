package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	ServiceName string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Feed and cache configuration
	PostsPerPage  int
	IndexCacheTTL time.Duration
	CacheBackend  string

	// Media storage
	MediaBackend string
	MediaRoot    string
	MediaURL     string
	S3BucketName string
	AWSRegion    string

	CORSOrigins []string

	// Observability
	LogLevel     string
	SentryDSN    string
	OTLPEndpoint string

	// Rate limits per user per hour
	PostsPerHour    int
	CommentsPerHour int
}

const devJWTSecret = "yatube-development-secret"

// secretKeys are read from the Docker secrets directory when present and
// override any other source.
var secretKeys = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"redis_url",
	"sentry_dsn",
}

// LoadConfig reads configuration from defaults, an optional config file
// (CONFIG_FILE), environment variables and Docker secrets, in increasing
// order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := viper.New()
	setDefaults(v, env)

	// CI injects sensitive values as TEST_* variables
	_ = v.BindEnv("db_password", "DB_PASSWORD", "TEST_DB_PASSWORD")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET", "TEST_JWT_SECRET")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD", "TEST_REDIS_PASSWORD")
	_ = v.BindEnv("redis_url", "REDIS_URL", "TEST_REDIS_URL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	for _, name := range secretKeys {
		if value := readSecret(name); value != "" {
			v.Set(name, value)
		}
	}

	cfg := &Config{
		Environment:     env,
		ServerPort:      v.GetString("server_port"),
		ServerHost:      v.GetString("server_host"),
		ServiceName:     v.GetString("service_name"),
		DBDriver:        strings.ToLower(v.GetString("db_driver")),
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBUser:          v.GetString("db_user"),
		DBPassword:      v.GetString("db_password"),
		DBName:          v.GetString("db_name"),
		DBSSLMode:       v.GetString("db_ssl_mode"),
		SQLitePath:      v.GetString("sqlite_path"),
		RedisHost:       v.GetString("redis_host"),
		RedisPort:       v.GetString("redis_port"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		RedisURL:        v.GetString("redis_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		TokenTTL:        durationOrSeconds(v, "token_ttl"),
		PostsPerPage:    v.GetInt("posts_per_page"),
		IndexCacheTTL:   durationOrSeconds(v, "index_cache_ttl"),
		CacheBackend:    strings.ToLower(v.GetString("cache_backend")),
		MediaBackend:    strings.ToLower(v.GetString("media_backend")),
		MediaRoot:       v.GetString("media_root"),
		MediaURL:        v.GetString("media_url"),
		S3BucketName:    v.GetString("s3_bucket_name"),
		AWSRegion:       v.GetString("aws_region"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		LogLevel:        v.GetString("log_level"),
		SentryDSN:       v.GetString("sentry_dsn"),
		OTLPEndpoint:    v.GetString("otel_exporter_otlp_endpoint"),
		PostsPerHour:    v.GetInt("rate_limit_posts_per_hour"),
		CommentsPerHour: v.GetInt("rate_limit_comments_per_hour"),
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("service_name", "yatube")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "yatube")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "yatube.db")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("posts_per_page", 10)
	v.SetDefault("index_cache_ttl", 5*time.Second)
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("media_backend", "local")
	v.SetDefault("media_root", "media")
	v.SetDefault("media_url", "/media/")
	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("aws_region", "")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("rate_limit_posts_per_hour", 30)
	v.SetDefault("rate_limit_comments_per_hour", 120)

	if env == Development || env == Test {
		v.SetDefault("jwt_secret", devJWTSecret)
		v.SetDefault("log_level", "debug")
	}
}

// RedisEnabled reports whether any Redis endpoint is configured for a
// component that needs it.
func (c *Config) RedisEnabled() bool {
	return c.CacheBackend == "redis" || c.RedisURL != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// durationOrSeconds reads key as a Go duration ("20s", "1h"). A bare number
// is taken as whole seconds.
func durationOrSeconds(v *viper.Viper, key string) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return time.Duration(n) * time.Second
	}
	return v.GetDuration(key)
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
