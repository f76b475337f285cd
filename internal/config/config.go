package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional YAML/JSON/TOML file read before the environment.
const ConfigFileEnv = "PRODUCTLIST_CONFIG_FILE"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"db"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Logger   LoggerConfig   `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	S3       S3Config       `mapstructure:"s3"`
}

// ServerConfig holds server-related configuration. Timeouts are in seconds.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	IdleTimeout     int    `mapstructure:"idle_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the product store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"name"`
	MaxConnections  int    `mapstructure:"max_connections"`
	MinConnections  int    `mapstructure:"min_connections"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // seconds
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// MongoConfig holds MongoDB configuration.
type MongoConfig struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// AuthConfig holds authentication configuration. An empty APIKey leaves
// every route public.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// S3Config holds AWS S3 configuration for catalog seed files.
type S3Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Prefix  string `mapstructure:"prefix"` // Path prefix within bucket (e.g., "seed/")
}

var defaults = map[string]interface{}{
	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     15,
	"server.write_timeout":    15,
	"server.idle_timeout":     60,
	"server.shutdown_timeout": 30,
	"store.driver":            DriverPostgres,
	"db.host":                 "localhost",
	"db.port":                 5432,
	"db.user":                 "postgres",
	"db.password":             "",
	"db.name":                 "productlist",
	"db.max_connections":      25,
	"db.min_connections":      5,
	"db.max_conn_lifetime":    300,
	"db.auto_migrate":         false,
	"mongo.uri":               "mongodb://localhost:27017",
	"mongo.database":          "productlist",
	"mongo.connect_timeout":   10,
	"log.level":               "info",
	"log.format":              "json",
	"auth.api_key":            "",
	"s3.enabled":              false,
	"s3.bucket":               "",
	"s3.region":               "us-east-1",
	"s3.prefix":               "seed/",
}

// Load loads configuration from defaults, the optional file named by
// PRODUCTLIST_CONFIG_FILE and environment variables, in increasing priority.
// Keys map to variables by upper-casing and replacing dots, so "db.host"
// is read from DB_HOST.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 1 || c.Server.WriteTimeout < 1 {
		return fmt.Errorf("server read and write timeouts must be at least 1 second")
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	case DriverMongo:
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be postgres or mongo)", c.Store.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// Validate validates the PostgreSQL settings.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// Validate validates the MongoDB settings.
func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}

	if c.Database == "" {
		return fmt.Errorf("mongo database is required")
	}

	if c.ConnectTimeout < 1 {
		return fmt.Errorf("mongo connect timeout must be at least 1 second")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=disable",
		c.userInfo(),
		c.Host,
		c.Port,
		c.Database,
	)
}

// MigrationURL returns the connection string in the form expected by the
// golang-migrate pgx/v5 driver.
func (c *DatabaseConfig) MigrationURL() string {
	return "pgx5" + strings.TrimPrefix(c.ConnectionString(), "postgres")
}

func (c *DatabaseConfig) userInfo() string {
	if c.Password == "" {
		return url.User(c.User).String()
	}
	return url.UserPassword(c.User, c.Password).String()
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
