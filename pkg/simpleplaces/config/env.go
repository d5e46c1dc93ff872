package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Server:
//
//	PORT - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//	DEFAULT_TENANT - Fallback tenant id (default: "santiago")
//	EVENT_LOGGING - Log service events (default: true)
//
// Database:
//
//	DATABASE_URL - "postgres://..." or "postgresql://..." selects Postgres;
//	               empty or "memory" uses the in-memory repository
//	DB_SCHEMA - Postgres schema (default: "places")
//
// Storage:
//
//	STORAGE_URL - one of
//	              "memory://"
//	              "file:///path/to/media?url_prefix=/media"
//	              "s3://bucket?region=sa-east-1&endpoint=http://localhost:9000&path_style=true&public_url=..."
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_REGION are read for s3.
//
// Auth:
//
//	JWT_SECRET - HS256 secret for editorial routes
//	API_KEYS - comma separated editorial API keys
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "DEFAULT_TENANT"); ok && v != "" {
			c.DefaultTenant = v
		}
		if v, ok, err := parseBoolEnv(prefix, "EVENT_LOGGING"); err != nil {
			return err
		} else if ok {
			c.EnableEventLogging = v
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}
		if v, ok := lookupEnv(prefix, "DB_SCHEMA"); ok && v != "" {
			c.DBSchema = v
		}

		if err := applyStorageEnv(prefix, c); err != nil {
			return err
		}

		if v, ok := lookupEnv(prefix, "JWT_SECRET"); ok && v != "" {
			c.JWTSecret = v
		}
		if v, ok := lookupEnv(prefix, "API_KEYS"); ok && v != "" {
			c.APIKeys = splitList(v)
		}
		return nil
	}
}

// applyDatabaseEnv applies database configuration from environment
func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

// applyStorageEnv applies storage configuration from environment
func applyStorageEnv(prefix string, c *ServerConfig) error {
	raw, hasURL := lookupEnv(prefix, "STORAGE_URL")
	if !hasURL || raw == "" || raw == "memory" || raw == "memory://" {
		c.StorageType = "memory"
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		path := u.Host + u.Path
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.StorageType = "fs"
		c.FS.BaseDir = path
		if p := u.Query().Get("url_prefix"); p != "" {
			c.FS.URLPrefix = p
		}
		return nil

	case "s3":
		if u.Host == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		q := u.Query()
		c.StorageType = "s3"
		c.S3.Bucket = u.Host
		if v := q.Get("region"); v != "" {
			c.S3.Region = v
		}
		if v := q.Get("endpoint"); v != "" {
			c.S3.Endpoint = v
		}
		if v := q.Get("public_url"); v != "" {
			c.S3.PublicURL = v
		}
		if v := q.Get("path_style"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid path_style in STORAGE_URL: %w", err)
			}
			c.S3.UsePathStyle = b
		}
		if v := q.Get("create_bucket"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid create_bucket in STORAGE_URL: %w", err)
			}
			c.S3.CreateBucketIfNotExist = b
		}

		if v, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok && v != "" {
			c.S3.AccessKeyID = v
		}
		if v, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok && v != "" {
			c.S3.SecretAccessKey = v
		}
		if v, ok := os.LookupEnv("AWS_REGION"); ok && v != "" && q.Get("region") == "" {
			c.S3.Region = v
		}
		return nil
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", raw)
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func parseBoolEnv(prefix, key string) (bool, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("invalid boolean for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
