// file: internal/config/config_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetConfigTestState() {
	viper.Reset()
	AppConfig = Config{}
}

// TestInitConfig tests configuration initialization with defaults
func TestInitConfig(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	InitConfig()

	if AppConfig.DatabaseType != "pebble" {
		t.Errorf("Expected database_type to be 'pebble', got '%s'", AppConfig.DatabaseType)
	}
	if AppConfig.EnableSQLite {
		t.Error("Expected enable_sqlite3_i_know_the_risks to be false by default")
	}
	if AppConfig.SearchEndpoint != DefaultSearchEndpoint {
		t.Errorf("Expected default endpoint, got '%s'", AppConfig.SearchEndpoint)
	}
	if AppConfig.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", AppConfig.RequestTimeout)
	}
	if AppConfig.ImageCacheSize != 200 {
		t.Errorf("Expected image cache size 200, got %d", AppConfig.ImageCacheSize)
	}
	if AppConfig.ImageCacheTTL != 30*time.Minute {
		t.Errorf("Expected image cache TTL 30m, got %s", AppConfig.ImageCacheTTL)
	}
	if AppConfig.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", AppConfig.Workers)
	}
	if AppConfig.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", AppConfig.Port)
	}
	if err := AppConfig.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestInitConfig_Overrides(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	viper.Set("database_type", "sqlite3")
	viper.Set("request_timeout", "5s")
	viper.Set("requests_per_minute", 10)

	InitConfig()

	if AppConfig.DatabaseType != "sqlite" {
		t.Errorf("Expected sqlite3 normalized to sqlite, got '%s'", AppConfig.DatabaseType)
	}
	if AppConfig.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s, got %s", AppConfig.RequestTimeout)
	}
	if AppConfig.RequestsPerMinute != 10 {
		t.Errorf("Expected 10 requests per minute, got %d", AppConfig.RequestsPerMinute)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabasePath:   "lib.pebble",
		DatabaseType:   "pebble",
		SearchEndpoint: DefaultSearchEndpoint,
		RequestTimeout: time.Second,
		Workers:        1,
		Port:           8080,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"memory without path", func(c *Config) { c.DatabaseType = "memory"; c.DatabasePath = "" }, false},
		{"relative endpoint", func(c *Config) { c.SearchEndpoint = "/volumes" }, true},
		{"unparseable endpoint", func(c *Config) { c.SearchEndpoint = "::bad" }, true},
		{"ftp endpoint", func(c *Config) { c.SearchEndpoint = "ftp://example.com/v" }, true},
		{"unknown database", func(c *Config) { c.DatabaseType = "mongo" }, true},
		{"missing path", func(c *Config) { c.DatabasePath = "" }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
