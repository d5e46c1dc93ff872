package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/repo/memory"
	repopg "github.com/tendant/simple-places/pkg/simpleplaces/repo/postgres"
	fsstorage "github.com/tendant/simple-places/pkg/simpleplaces/storage/fs"
	memorystorage "github.com/tendant/simple-places/pkg/simpleplaces/storage/memory"
	s3storage "github.com/tendant/simple-places/pkg/simpleplaces/storage/s3"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		DBSchema:           "places",
		StorageType:        "memory",
		FS:                 fsstorage.Config{BaseDir: "./data/media", URLPrefix: "/media"},
		S3:                 s3storage.Config{Region: "us-east-1"},
		MediaURLPrefix:     "/media",
		DefaultTenant:      string(tenant.DefaultID),
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the simple-places service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: places)

	// Media storage configuration
	StorageType    string // "memory", "fs", "s3"
	FS             fsstorage.Config
	S3             s3storage.Config
	MediaURLPrefix string // URL prefix of the memory store

	// DefaultTenant is the configured fallback of tenant resolution
	DefaultTenant string

	// Editorial auth; a JWT secret takes precedence over API keys
	JWTSecret string
	APIKeys   []string

	EnableEventLogging bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("fs storage requires a base directory")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("storage_type must be 'memory', 'fs' or 's3', got: %s", c.StorageType)
	}

	if c.DefaultTenant != "" {
		if _, ok := tenant.ParseID(c.DefaultTenant); !ok {
			return fmt.Errorf("unknown default tenant %q", c.DefaultTenant)
		}
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (simpleplaces.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	options := []simpleplaces.Option{simpleplaces.WithLogger(logger)}

	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, simpleplaces.WithRepository(repo))

	store, err := c.BuildMediaStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build media store: %w", err)
	}
	options = append(options, simpleplaces.WithMediaStore(store))

	if c.EnableEventLogging {
		options = append(options, simpleplaces.WithEventSink(simpleplaces.NewLoggingEventSink(logger)))
	}

	return simpleplaces.New(options...)
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (simpleplaces.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := c.OpenPool(ctx)
		if err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// OpenPool opens a pgx pool whose sessions use the configured schema
func (c *ServerConfig) OpenPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.DatabaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema := c.DBSchema; schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the configured schema when it does not exist yet.
// Sessions opened by OpenPool already point their search_path at it.
func (c *ServerConfig) EnsureSchema(ctx context.Context, db DBExecer) error {
	stmt := createSchemaSQL(c.DBSchema)
	if stmt == "" {
		return nil
	}
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", c.DBSchema, err)
	}
	return nil
}

// DBExecer is the subset of pgxpool.Pool used by EnsureSchema
type DBExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func createSchemaSQL(schema string) string {
	if schema == "" {
		return ""
	}
	return "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
}

// PingPostgres verifies connectivity to Postgres with the configured schema.
func (c *ServerConfig) PingPostgres(ctx context.Context) error {
	pool, err := c.OpenPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// BuildMediaStore creates the configured MediaStore
func (c *ServerConfig) BuildMediaStore() (simpleplaces.MediaStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(c.MediaURLPrefix), nil
	case "fs":
		store, err := fsstorage.New(c.FS)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := s3storage.New(c.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
