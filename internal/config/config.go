package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Admin    AdminConfig    `yaml:"admin"`
	Storage  StorageConfig  `yaml:"storage"`
	Stats    StatsConfig    `yaml:"stats"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration.
// URL takes precedence over the individual fields when set.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AdminConfig holds the shared dashboard secret and token settings
type AdminConfig struct {
	Password     string        `yaml:"password"`
	PasswordHash string        `yaml:"password_hash"` // bcrypt, wins over Password
	TokenSecret  string        `yaml:"token_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"` // 0 = no exp claim
	RequireToken bool          `yaml:"require_token"`
}

// StorageConfig holds the S3-compatible bucket that stores avatars
type StorageConfig struct {
	Region    string        `yaml:"region"`
	Bucket    string        `yaml:"bucket"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	Endpoint  string        `yaml:"endpoint"`
	URLTTL    time.Duration `yaml:"url_ttl"`
}

// StatsConfig controls how user list counts are computed
type StatsConfig struct {
	GroupedCounts bool `yaml:"grouped_counts"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, then applies environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DATABASE_URL":        &c.Database.URL,
		"ADMIN_PASSWORD":      &c.Admin.Password,
		"ADMIN_PASSWORD_HASH": &c.Admin.PasswordHash,
		"ADMIN_TOKEN_SECRET":  &c.Admin.TokenSecret,
		"STORAGE_ACCESS_KEY":  &c.Storage.AccessKey,
		"STORAGE_SECRET_KEY":  &c.Storage.SecretKey,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "require"
	}
	if c.Storage.URLTTL == 0 {
		c.Storage.URLTTL = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the settings the server cannot run without are present
func (c *Config) Validate() error {
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return errors.New("admin password or password_hash is required")
	}
	if c.Admin.TokenSecret == "" {
		return errors.New("admin token_secret is required")
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		return errors.New("database url or host is required")
	}
	if c.Storage.Bucket != "" && c.Storage.Region == "" {
		return errors.New("storage region is required when bucket is set")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
