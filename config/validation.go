package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var problems []ValidationError

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			problems = append(problems, ValidationError{"DB_HOST", "is required for postgres"})
		}
		if cfg.DBName == "" {
			problems = append(problems, ValidationError{"DB_NAME", "is required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			problems = append(problems, ValidationError{"SQLITE_PATH", "is required for sqlite"})
		}
	default:
		problems = append(problems, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.PostsPerPage <= 0 {
		problems = append(problems, ValidationError{"POSTS_PER_PAGE", "must be positive"})
	}
	if cfg.IndexCacheTTL < 0 {
		problems = append(problems, ValidationError{"INDEX_CACHE_TTL", "must not be negative"})
	}

	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		problems = append(problems, ValidationError{"CACHE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.CacheBackend)})
	}

	switch cfg.MediaBackend {
	case "local":
	case "s3":
		if cfg.S3BucketName == "" {
			problems = append(problems, ValidationError{"S3_BUCKET_NAME", "is required for s3 media"})
		}
	default:
		problems = append(problems, ValidationError{"MEDIA_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.MediaBackend)})
	}

	if cfg.JWTSecret == "" {
		problems = append(problems, ValidationError{"JWT_SECRET", "is required"})
	}

	// Sensitive values must be real outside local development
	if cfg.Environment == Production || cfg.Environment == CI {
		if cfg.JWTSecret == devJWTSecret {
			problems = append(problems, ValidationError{"JWT_SECRET", "must not use the development secret"})
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			problems = append(problems, ValidationError{"DB_PASSWORD", "is required"})
		}
	}

	if len(problems) > 0 {
		lines := make([]string, len(problems))
		for i, p := range problems {
			lines[i] = p.Error()
		}
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
