// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

const DefaultSearchEndpoint = "https://www.googleapis.com/books/v1/volumes"

// Config holds application configuration
type Config struct {
	DatabasePath string
	DatabaseType string // "pebble" (default), "sqlite" or "memory"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)

	SearchEndpoint    string
	RequestTimeout    time.Duration
	RequestsPerMinute int

	ImageCacheSize    int
	ImageCacheTTL     time.Duration
	MaxImageBytes     int64
	MaxImageDimension int

	Workers   int
	LogLevel  string
	LogFormat string

	Host string
	Port int
}

var AppConfig Config

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("database_path", "library.pebble")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)

	viper.SetDefault("search_endpoint", DefaultSearchEndpoint)
	viper.SetDefault("request_timeout", 30*time.Second)
	viper.SetDefault("requests_per_minute", 60)

	viper.SetDefault("image_cache_size", 200)
	viper.SetDefault("image_cache_ttl", 30*time.Minute)
	viper.SetDefault("max_image_bytes", 10*1024*1024)
	viper.SetDefault("max_image_dimension", 0)

	viper.SetDefault("workers", 4)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")

	viper.SetDefault("host", "127.0.0.1")
	viper.SetDefault("port", 8080)
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: viper.GetString("database_type"),
		EnableSQLite: viper.GetBool("enable_sqlite3_i_know_the_risks"),

		SearchEndpoint:    viper.GetString("search_endpoint"),
		RequestTimeout:    viper.GetDuration("request_timeout"),
		RequestsPerMinute: viper.GetInt("requests_per_minute"),

		ImageCacheSize:    viper.GetInt("image_cache_size"),
		ImageCacheTTL:     viper.GetDuration("image_cache_ttl"),
		MaxImageBytes:     viper.GetInt64("max_image_bytes"),
		MaxImageDimension: viper.GetInt("max_image_dimension"),

		Workers:   viper.GetInt("workers"),
		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),

		Host: viper.GetString("host"),
		Port: viper.GetInt("port"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
	if AppConfig.SearchEndpoint == "" {
		AppConfig.SearchEndpoint = DefaultSearchEndpoint
	}
}

// Validate rejects settings the program cannot start with.
func (c Config) Validate() error {
	u, err := url.Parse(c.SearchEndpoint)
	if err != nil {
		return fmt.Errorf("invalid search_endpoint %q: %w", c.SearchEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid search_endpoint %q: must be an absolute http(s) URL", c.SearchEndpoint)
	}
	switch c.DatabaseType {
	case "pebble", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported database_type %q (supported: pebble, sqlite, memory)", c.DatabaseType)
	}
	if c.DatabaseType != "memory" && c.DatabasePath == "" {
		return fmt.Errorf("database_path is required for %s", c.DatabaseType)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}
