// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jdfalk/library-proto/internal/logger"
)

// fileConfig is the on-disk YAML shape. Durations are written as Go
// duration strings so viper can read them back.
type fileConfig struct {
	DatabasePath      string `yaml:"database_path"`
	DatabaseType      string `yaml:"database_type"`
	EnableSQLite      bool   `yaml:"enable_sqlite3_i_know_the_risks"`
	SearchEndpoint    string `yaml:"search_endpoint"`
	RequestTimeout    string `yaml:"request_timeout"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	ImageCacheSize    int    `yaml:"image_cache_size"`
	ImageCacheTTL     string `yaml:"image_cache_ttl"`
	MaxImageBytes     int64  `yaml:"max_image_bytes"`
	MaxImageDimension int    `yaml:"max_image_dimension"`
	Workers           int    `yaml:"workers"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
}

// DefaultConfigFilePath is $HOME/.library-proto.yaml.
func DefaultConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".library-proto.yaml"
	}
	return filepath.Join(home, ".library-proto.yaml")
}

// SaveConfigToFile writes AppConfig to path as YAML.
func SaveConfigToFile(path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	c := AppConfig
	data, err := yaml.Marshal(fileConfig{
		DatabasePath:      c.DatabasePath,
		DatabaseType:      c.DatabaseType,
		EnableSQLite:      c.EnableSQLite,
		SearchEndpoint:    c.SearchEndpoint,
		RequestTimeout:    c.RequestTimeout.String(),
		RequestsPerMinute: c.RequestsPerMinute,
		ImageCacheSize:    c.ImageCacheSize,
		ImageCacheTTL:     c.ImageCacheTTL.String(),
		MaxImageBytes:     c.MaxImageBytes,
		MaxImageDimension: c.MaxImageDimension,
		Workers:           c.Workers,
		LogLevel:          c.LogLevel,
		LogFormat:         c.LogFormat,
		Host:              c.Host,
		Port:              c.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log := logger.WithComponent("config")
	log.Info().Str("path", path).Msg("configuration saved")
	return nil
}

// Settings returns AppConfig as the key/value view printed by `config show`.
func Settings() map[string]any {
	c := AppConfig
	return map[string]any{
		"database_path":                   c.DatabasePath,
		"database_type":                   c.DatabaseType,
		"enable_sqlite3_i_know_the_risks": c.EnableSQLite,
		"search_endpoint":                 c.SearchEndpoint,
		"request_timeout":                 c.RequestTimeout.String(),
		"requests_per_minute":             c.RequestsPerMinute,
		"image_cache_size":                c.ImageCacheSize,
		"image_cache_ttl":                 c.ImageCacheTTL.String(),
		"max_image_bytes":                 c.MaxImageBytes,
		"max_image_dimension":             c.MaxImageDimension,
		"workers":                         c.Workers,
		"log_level":                       c.LogLevel,
		"log_format":                      c.LogFormat,
		"host":                            c.Host,
		"port":                            c.Port,
	}
}
