package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/inkwell-space/core/internal/pkg/mail"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config.yaml"

// AppConfig is the full application configuration, loaded from YAML with
// environment overrides for secrets.
type AppConfig struct {
	Env  string `yaml:"env"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Database DatabaseConfig `yaml:"database"`
	RedisURL string         `yaml:"redis_url"`

	Auth    AuthConfig   `yaml:"auth"`
	Site    SiteConfig   `yaml:"site"`
	Mail    mail.Config  `yaml:"mail"`
	S3      S3Config     `yaml:"s3"`
	Uploads UploadConfig `yaml:"uploads"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// SiteConfig describes the public site, used by feeds and mail.
type SiteConfig struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// S3Config holds object storage settings for uploads.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// UploadConfig constrains what the uploads endpoint accepts.
type UploadConfig struct {
	AllowedFormats string `yaml:"allowed_formats"`
	MaxSizeMB      int    `yaml:"max_size_mb"`
}

// Load reads and validates the configuration file.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Database.Host == "" || cfg.Database.Name == "" {
		return nil, fmt.Errorf("database host and name are required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis_url is required")
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Env:  "production",
		Host: "0.0.0.0",
		Port: 2330,
		Database: DatabaseConfig{
			Host: "127.0.0.1",
			Port: 3306,
			User: "root",
		},
		Auth: AuthConfig{TokenTTLHours: 24 * 7},
		Uploads: UploadConfig{
			AllowedFormats: "jpg,jpeg,png,gif,webp,avif,svg",
			MaxSizeMB:      8,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("INK_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("INK_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("INK_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("INK_S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := os.Getenv("INK_ENV"); v != "" {
		cfg.Env = v
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "dev" || env == "development"
}

// DSN builds the MySQL connection string.
func (c *DatabaseConfig) DSN() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, port, c.Name)
}
