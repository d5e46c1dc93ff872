package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithFilesystemStorage stores media below dir, served under urlPrefix
func WithFilesystemStorage(dir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("filesystem directory cannot be empty")
		}
		c.StorageType = "fs"
		c.FS.BaseDir = dir
		c.FS.URLPrefix = urlPrefix
		return nil
	}
}

// WithDefaultTenant sets the configured fallback tenant
func WithDefaultTenant(id string) Option {
	return func(c *ServerConfig) error {
		c.DefaultTenant = id
		return nil
	}
}

// WithEventLogging toggles the logging event sink
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

// FileConfig is the on-disk form of ServerConfig. YAML, JSON, TOML and .env
// files are accepted.
type FileConfig struct {
	Port          string `yaml:"port" json:"port" toml:"port" env:"PORT"`
	Environment   string `yaml:"environment" json:"environment" toml:"environment" env:"ENVIRONMENT"`
	DatabaseURL   string `yaml:"database_url" json:"database_url" toml:"database_url" env:"DATABASE_URL"`
	DBSchema      string `yaml:"db_schema" json:"db_schema" toml:"db_schema" env:"DB_SCHEMA"`
	DefaultTenant string `yaml:"default_tenant" json:"default_tenant" toml:"default_tenant" env:"DEFAULT_TENANT"`
	JWTSecret     string `yaml:"jwt_secret" json:"jwt_secret" toml:"jwt_secret" env:"JWT_SECRET"`
	APIKeys       string `yaml:"api_keys" json:"api_keys" toml:"api_keys" env:"API_KEYS"`

	Storage struct {
		Type      string `yaml:"type" json:"type" toml:"type"`
		BaseDir   string `yaml:"base_dir" json:"base_dir" toml:"base_dir"`
		URLPrefix string `yaml:"url_prefix" json:"url_prefix" toml:"url_prefix"`
		Bucket    string `yaml:"bucket" json:"bucket" toml:"bucket"`
		Region    string `yaml:"region" json:"region" toml:"region"`
		Endpoint  string `yaml:"endpoint" json:"endpoint" toml:"endpoint"`
		PathStyle bool   `yaml:"path_style" json:"path_style" toml:"path_style"`
		PublicURL string `yaml:"public_url" json:"public_url" toml:"public_url"`
	} `yaml:"storage" json:"storage" toml:"storage"`
}

// WithFile reads a configuration file through cleanenv. Environment
// variables named in FileConfig override the file; empty values leave the
// current setting alone.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		var f FileConfig
		if err := cleanenv.ReadConfig(path, &f); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		f.apply(c)
		return nil
	}
}

func (f *FileConfig) apply(c *ServerConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Port, f.Port)
	set(&c.Environment, f.Environment)
	set(&c.DBSchema, f.DBSchema)
	set(&c.DefaultTenant, f.DefaultTenant)
	set(&c.JWTSecret, f.JWTSecret)
	if f.DatabaseURL != "" {
		c.DatabaseType = "postgres"
		c.DatabaseURL = f.DatabaseURL
	}
	if f.APIKeys != "" {
		c.APIKeys = splitList(f.APIKeys)
	}

	s := f.Storage
	switch strings.ToLower(s.Type) {
	case "fs":
		c.StorageType = "fs"
		set(&c.FS.BaseDir, s.BaseDir)
		set(&c.FS.URLPrefix, s.URLPrefix)
	case "s3":
		c.StorageType = "s3"
		set(&c.S3.Bucket, s.Bucket)
		set(&c.S3.Region, s.Region)
		set(&c.S3.Endpoint, s.Endpoint)
		set(&c.S3.PublicURL, s.PublicURL)
		c.S3.UsePathStyle = s.PathStyle
	case "memory":
		c.StorageType = "memory"
		set(&c.MediaURLPrefix, s.URLPrefix)
	}
}
